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

package fingertree

const (
	// maxDigit bounds the width of the digits at each level of the spine.
	// Overflowing a digit sinks three of its children one rank down as a
	// node3, so digit widths stay within [1, maxDigit].
	maxDigit = 4

	// maxNode bounds node arity. Nodes are built with exactly 2 or 3
	// children; regrouping during concatenation never produces another
	// arity.
	maxNode = 3
)

// ref is a child reference of a single rank. At rank 0 it carries an
// element directly; at every higher rank it points at a node whose children
// are refs one rank down. Rank is implicit in depth: the children of a
// tree's inner spine are always one rank above the tree's own digits.
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

// weight returns the number of elements beneath the ref. Leaf refs weigh 1;
// node refs report their cached subtree size.
func (r ref[T]) weight() int {
	if r.node == nil {
		return 1
	}
	return r.node.size
}

// node is a 2- or 3-ary internal branching unit with a cached element count.
// Nodes are immutable after construction.
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

// digit converts the node's children into a digit at the node's child rank.
// Used when a node is pulled out of the inner spine to rebuild an
// underflowed digit.
func (n *node[T]) digit() digit[T] {
	var d digit[T]
	d.size = n.size
	d.count = n.count
	copy(d.children[:], n.children[:n.count])
	return d
}

// digit is an ordered group of 1 to 4 same-rank children cached at the
// boundary of a tree. Digits are stored by value and never mutated once
// placed in a tree.
type digit[T any] struct {
	size     int
	count    int8
	children [maxDigit]ref[T]
}

// makeDigit builds a digit from 1 to 4 refs. Any other width is a
// construction bug.
func makeDigit[T any](rs ...ref[T]) digit[T] {
	if len(rs) == 0 || len(rs) > maxDigit {
		panic("fingertree: digit width out of bounds")
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

const (
	kindSingle = int8(iota)
	kindDeep
)

// tree is the recursive spine. A nil *tree is the empty sequence. The inner
// spine of a deep tree holds refs one rank up, so every level of nesting
// wraps elements in one more layer of nodes.
type tree[T any] struct {
	kind   int8
	size   int
	single ref[T]
	left   digit[T]
	inner  *tree[T]
	right  digit[T]
}

func singleTree[T any](r ref[T]) *tree[T] {
	return &tree[T]{kind: kindSingle, size: r.weight(), single: r}
}

func deep[T any](left digit[T], inner *tree[T], right digit[T]) *tree[T] {
	return &tree[T]{
		kind:  kindDeep,
		size:  left.size + treeSize(inner) + right.size,
		left:  left,
		inner: inner,
		right: right,
	}
}

func treeSize[T any](t *tree[T]) int {
	if t == nil {
		return 0
	}
	return t.size
}

// cons prepends a ref. When the left digit is already four wide, its last
// three children sink into the inner spine as a node3, keeping the digit
// within bounds. The recursive push happens at most once per rank.
func cons[T any](t *tree[T], r ref[T]) *tree[T] {
	switch {
	case t == nil:
		return singleTree(r)
	case t.kind == kindSingle:
		return deep(makeDigit(r), nil, makeDigit(t.single))
	case t.left.count < maxDigit:
		return deep(t.left.pushFront(r), t.inner, t.right)
	default:
		sunk := newNode3(t.left.children[1], t.left.children[2], t.left.children[3])
		return deep(makeDigit(r, t.left.children[0]), cons(t.inner, nodeRef(sunk)), t.right)
	}
}

// snoc appends a ref. Mirror of cons on the right digit.
func snoc[T any](t *tree[T], r ref[T]) *tree[T] {
	switch {
	case t == nil:
		return singleTree(r)
	case t.kind == kindSingle:
		return deep(makeDigit(t.single), nil, makeDigit(r))
	case t.right.count < maxDigit:
		return deep(t.left, t.inner, t.right.pushBack(r))
	default:
		sunk := newNode3(t.right.children[0], t.right.children[1], t.right.children[2])
		return deep(t.left, snoc(t.inner, nodeRef(sunk)), makeDigit(t.right.children[3], r))
	}
}

// uncons removes the front ref. An underflowing left digit is rebuilt by
// exploding the first node of the inner spine, or from the right digit when
// the inner spine is empty.
func uncons[T any](t *tree[T]) (ref[T], *tree[T], bool) {
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
	if n, rest, ok := uncons(t.inner); ok {
		return r, deep(n.node.digit(), rest, t.right), true
	}
	if t.right.count == 1 {
		return r, singleTree(t.right.children[0]), true
	}
	butLast := t.right.popBack()
	return r, deep(butLast, nil, makeDigit(t.right.children[t.right.count-1])), true
}

// unsnoc removes the back ref. Mirror of uncons.
func unsnoc[T any](t *tree[T]) (*tree[T], ref[T], bool) {
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
	if rest, n, ok := unsnoc(t.inner); ok {
		return deep(t.left, rest, n.node.digit()), r, true
	}
	if t.left.count == 1 {
		return singleTree(t.left.children[0]), r, true
	}
	butFirst := t.left.popFront()
	return deep(makeDigit(t.left.children[0]), nil, butFirst), r, true
}
