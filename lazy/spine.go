// Copyright 2021 Andrew Werner.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package lazy

const (
	maxDigit = 4
	maxNode  = 3
)

// ref, node and digit mirror the strict structure exactly; only the inner
// spine reference differs, living behind a memoized cell.
type ref[T any] struct {
	node *node[T]
	elem T
}

func leafRef[T any](v T) ref[T] {
	return ref[T]{elem: v}
}

func nodeRef[T any](n *node[T]) ref[T] {
	return ref[T]{node: n}
}

func (r ref[T]) weight() int {
	if r.node == nil {
		return 1
	}
	return r.node.size
}

func refsWeight[T any](rs []ref[T]) int {
	w := 0
	for _, r := range rs {
		w += r.weight()
	}
	return w
}

type node[T any] struct {
	size     int
	count    int8
	children [maxNode]ref[T]
}

func newNode2[T any](a, b ref[T]) *node[T] {
	return &node[T]{
		size:     a.weight() + b.weight(),
		count:    2,
		children: [maxNode]ref[T]{a, b},
	}
}

func newNode3[T any](a, b, c ref[T]) *node[T] {
	return &node[T]{
		size:     a.weight() + b.weight() + c.weight(),
		count:    3,
		children: [maxNode]ref[T]{a, b, c},
	}
}

func (n *node[T]) digit() digit[T] {
	var d digit[T]
	d.size = n.size
	d.count = n.count
	copy(d.children[:], n.children[:n.count])
	return d
}

type digit[T any] struct {
	size     int
	count    int8
	children [maxDigit]ref[T]
}

func makeDigit[T any](rs ...ref[T]) digit[T] {
	if len(rs) == 0 || len(rs) > maxDigit {
		panic("lazy: digit width out of bounds")
	}
	var d digit[T]
	d.count = int8(len(rs))
	for i, r := range rs {
		d.children[i] = r
		d.size += r.weight()
	}
	return d
}

func (d *digit[T]) pushFront(r ref[T]) digit[T] {
	var out digit[T]
	out.size = d.size + r.weight()
	out.count = d.count + 1
	out.children[0] = r
	copy(out.children[1:], d.children[:d.count])
	return out
}

func (d *digit[T]) pushBack(r ref[T]) digit[T] {
	out := *d
	out.children[out.count] = r
	out.count++
	out.size += r.weight()
	return out
}

func (d *digit[T]) popFront() digit[T] {
	var out digit[T]
	out.count = d.count - 1
	out.size = d.size - d.children[0].weight()
	copy(out.children[:], d.children[1:d.count])
	return out
}

func (d *digit[T]) popBack() digit[T] {
	out := *d
	out.count--
	out.size -= out.children[out.count].weight()
	out.children[out.count] = ref[T]{}
	return out
}

func (d *digit[T]) slice() []ref[T] {
	return d.children[:d.count]
}

// cell is a memoized reference to an inner spine. The subtree's size is
// fixed arithmetically when the cell is created, so length queries and
// measured descent never force a cell they do not enter. A cell transitions
// once from suspended to forced; the transition is idempotent but not
// synchronized, matching single-writer use. Callers forcing the same cell
// from multiple goroutines must supply their own discipline.
type cell[T any] struct {
	size int
	fn   func() *spine[T]
	v    *spine[T]
}

func suspend[T any](size int, fn func() *spine[T]) *cell[T] {
	return &cell[T]{size: size, fn: fn}
}

func forcedCell[T any](s *spine[T]) *cell[T] {
	return &cell[T]{size: spineSize(s), v: s}
}

func emptyCell[T any]() *cell[T] {
	return &cell[T]{}
}

// force evaluates the cell's suspension on first use and caches the result.
func (c *cell[T]) force() *spine[T] {
	if c.fn != nil {
		c.v = c.fn()
		c.fn = nil
	}
	return c.v
}

const (
	kindSingle = int8(iota)
	kindDeep
)

// spine is the lazy counterpart of the strict tree: identical shape, with
// the inner spine held behind a cell. A nil *spine is the empty sequence.
type spine[T any] struct {
	kind   int8
	size   int
	single ref[T]
	left   digit[T]
	inner  *cell[T]
	right  digit[T]
}

func singleSpine[T any](r ref[T]) *spine[T] {
	return &spine[T]{kind: kindSingle, size: r.weight(), single: r}
}

func deep[T any](left digit[T], inner *cell[T], right digit[T]) *spine[T] {
	return &spine[T]{
		kind:  kindDeep,
		size:  left.size + inner.size + right.size,
		left:  left,
		inner: inner,
		right: right,
	}
}

func spineSize[T any](t *spine[T]) int {
	if t == nil {
		return 0
	}
	return t.size
}

// consSpine prepends a ref. A digit overflow suspends the push into the
// inner spine instead of performing it, so a burst of conses builds no
// deeper structure until something descends.
func consSpine[T any](t *spine[T], r ref[T]) *spine[T] {
	switch {
	case t == nil:
		return singleSpine(r)
	case t.kind == kindSingle:
		return deep(makeDigit(r), emptyCell[T](), makeDigit(t.single))
	case t.left.count < maxDigit:
		return deep(t.left.pushFront(r), t.inner, t.right)
	}
	sunk := newNode3(t.left.children[1], t.left.children[2], t.left.children[3])
	inner := t.inner
	pushed := suspend(inner.size+sunk.size, func() *spine[T] {
		return consSpine(inner.force(), nodeRef(sunk))
	})
	return deep(makeDigit(r, t.left.children[0]), pushed, t.right)
}

func snocSpine[T any](t *spine[T], r ref[T]) *spine[T] {
	switch {
	case t == nil:
		return singleSpine(r)
	case t.kind == kindSingle:
		return deep(makeDigit(t.single), emptyCell[T](), makeDigit(r))
	case t.right.count < maxDigit:
		return deep(t.left, t.inner, t.right.pushBack(r))
	}
	sunk := newNode3(t.right.children[0], t.right.children[1], t.right.children[2])
	inner := t.inner
	pushed := suspend(inner.size+sunk.size, func() *spine[T] {
		return snocSpine(inner.force(), nodeRef(sunk))
	})
	return deep(t.left, pushed, makeDigit(t.right.children[3], r))
}

// unconsSpine removes the front ref, forcing the inner cell only when the
// left digit underflows.
func unconsSpine[T any](t *spine[T]) (ref[T], *spine[T], bool) {
	switch {
	case t == nil:
		return ref[T]{}, nil, false
	case t.kind == kindSingle:
		return t.single, nil, true
	}
	r := t.left.children[0]
	if t.left.count > 1 {
		return r, deep(t.left.popFront(), t.inner, t.right), true
	}
	if n, rest, ok := unconsSpine(t.inner.force()); ok {
		return r, deep(n.node.digit(), forcedCell(rest), t.right), true
	}
	if t.right.count == 1 {
		return r, singleSpine(t.right.children[0]), true
	}
	butLast := t.right.popBack()
	return r, deep(butLast, emptyCell[T](), makeDigit(t.right.children[t.right.count-1])), true
}

func unsnocSpine[T any](t *spine[T]) (*spine[T], ref[T], bool) {
	switch {
	case t == nil:
		return nil, ref[T]{}, false
	case t.kind == kindSingle:
		return nil, t.single, true
	}
	r := t.right.children[t.right.count-1]
	if t.right.count > 1 {
		return deep(t.left, t.inner, t.right.popBack()), r, true
	}
	if rest, n, ok := unsnocSpine(t.inner.force()); ok {
		return deep(t.left, forcedCell(rest), n.node.digit()), r, true
	}
	if t.left.count == 1 {
		return singleSpine(t.left.children[0]), r, true
	}
	butFirst := t.left.popFront()
	return deep(makeDigit(t.left.children[0]), emptyCell[T](), butFirst), r, true
}

func lookupRef[T any](r ref[T], i int) T {
	for r.node != nil {
		n := r.node
		for j := int8(0); j < n.count; j++ {
			if w := n.children[j].weight(); i < w {
				r = n.children[j]
				break
			} else {
				i -= w
			}
		}
	}
	return r.elem
}

func (d *digit[T]) lookup(i int) T {
	for j := int8(0); j < d.count; j++ {
		if w := d.children[j].weight(); i < w {
			return lookupRef(d.children[j], i)
		} else {
			i -= w
		}
	}
	panic("lazy: lookup ran off digit")
}

// lookupSpine descends by cached sizes, forcing only the cells on its path.
// Comparisons against a cell's size never force it.
func lookupSpine[T any](t *spine[T], i int) T {
	for {
		if t.kind == kindSingle {
			return lookupRef(t.single, i)
		}
		if i < t.left.size {
			return t.left.lookup(i)
		}
		i -= t.left.size
		if i < t.inner.size {
			t = t.inner.force()
			continue
		}
		i -= t.inner.size
		return t.right.lookup(i)
	}
}

func (d *digit[T]) split(i int) (before []ref[T], x ref[T], after []ref[T]) {
	for j := int8(0); j < d.count; j++ {
		if w := d.children[j].weight(); i < w {
			return d.children[:j], d.children[j], d.children[j+1 : d.count]
		} else {
			i -= w
		}
	}
	panic("lazy: split ran off digit")
}

func smallSpine[T any](rs []ref[T]) *spine[T] {
	var t *spine[T]
	for _, r := range rs {
		t = snocSpine(t, r)
	}
	return t
}

func deepL[T any](left []ref[T], inner *cell[T], right digit[T]) *spine[T] {
	if len(left) > 0 {
		return deep(makeDigit(left...), inner, right)
	}
	if n, rest, ok := unconsSpine(inner.force()); ok {
		return deep(n.node.digit(), forcedCell(rest), right)
	}
	return smallSpine(right.slice())
}

func deepR[T any](left digit[T], inner *cell[T], right []ref[T]) *spine[T] {
	if len(right) > 0 {
		return deep(left, inner, makeDigit(right...))
	}
	if rest, n, ok := unsnocSpine(inner.force()); ok {
		return deep(left, forcedCell(rest), n.node.digit())
	}
	return smallSpine(left.slice())
}

// splitSpine splits around position i, forcing cells along the descent path
// only. The caller guarantees 0 <= i < spineSize(t).
func splitSpine[T any](t *spine[T], i int) (*spine[T], ref[T], *spine[T]) {
	if t.kind == kindSingle {
		return nil, t.single, nil
	}
	if i < t.left.size {
		before, x, after := t.left.split(i)
		return smallSpine(before), x, deepL(after, t.inner, t.right)
	}
	i -= t.left.size
	if i < t.inner.size {
		il, xn, ir := splitSpine(t.inner.force(), i)
		pivot := xn.node.digit()
		before, x, after := pivot.split(i - spineSize(il))
		return deepR(t.left, forcedCell(il), before), x, deepL(after, forcedCell(ir), t.right)
	}
	i -= t.inner.size
	before, x, after := t.right.split(i)
	return deepR(t.left, t.inner, before), x, smallSpine(after)
}

func regroup[T any](rs []ref[T]) []ref[T] {
	out := make([]ref[T], 0, (len(rs)+2)/3+1)
	for len(rs) > 0 {
		switch len(rs) {
		case 1:
			panic("lazy: regroup run of one")
		case 2:
			out = append(out, nodeRef(newNode2(rs[0], rs[1])))
			rs = nil
		case 4:
			out = append(out,
				nodeRef(newNode2(rs[0], rs[1])),
				nodeRef(newNode2(rs[2], rs[3])))
			rs = nil
		default:
			out = append(out, nodeRef(newNode3(rs[0], rs[1], rs[2])))
			rs = rs[3:]
		}
	}
	return out
}

func consAll[T any](t *spine[T], rs []ref[T]) *spine[T] {
	for i := len(rs) - 1; i >= 0; i-- {
		t = consSpine(t, rs[i])
	}
	return t
}

func snocAll[T any](t *spine[T], rs []ref[T]) *spine[T] {
	for _, r := range rs {
		t = snocSpine(t, r)
	}
	return t
}

// app3 concatenates with the recursive inner concatenation suspended: a
// chain of appends builds only the top level of each result until a lookup
// or split descends into it.
func app3[T any](t1 *spine[T], mid []ref[T], t2 *spine[T]) *spine[T] {
	switch {
	case t1 == nil:
		return consAll(t2, mid)
	case t2 == nil:
		return snocAll(t1, mid)
	case t1.kind == kindSingle:
		return consSpine(consAll(t2, mid), t1.single)
	case t2.kind == kindSingle:
		return snocSpine(snocAll(t1, mid), t2.single)
	}
	run := make([]ref[T], 0, int(t1.right.count)+len(mid)+int(t2.left.count))
	run = append(run, t1.right.slice()...)
	run = append(run, mid...)
	run = append(run, t2.left.slice()...)
	mid2 := regroup(run)
	c1, c2 := t1.inner, t2.inner
	inner := suspend(c1.size+refsWeight(mid2)+c2.size, func() *spine[T] {
		return app3(c1.force(), mid2, c2.force())
	})
	return deep(t1.left, inner, t2.right)
}

func eachRef[T any](r ref[T], f func(T) bool) bool {
	if r.node == nil {
		return f(r.elem)
	}
	for i := int8(0); i < r.node.count; i++ {
		if !eachRef(r.node.children[i], f) {
			return false
		}
	}
	return true
}

func (d *digit[T]) each(f func(T) bool) bool {
	for i := int8(0); i < d.count; i++ {
		if !eachRef(d.children[i], f) {
			return false
		}
	}
	return true
}

func eachSpine[T any](t *spine[T], f func(T) bool) bool {
	if t == nil {
		return true
	}
	if t.kind == kindSingle {
		return eachRef(t.single, f)
	}
	return t.left.each(f) && eachSpine(t.inner.force(), f) && t.right.each(f)
}
