package fingertree

// iterFrame captures a position within one container on the descent path:
// either a node's children or a tree level. A deep tree level linearizes as
// left digit children, one middle slot for the inner spine, then right digit
// children.
type iterFrame[T any] struct {
	t   *tree[T]
	n   *node[T]
	pos int16
}

// width returns the number of child positions in the frame.
func (f *iterFrame[T]) width() int16 {
	if f.n != nil {
		return int16(f.n.count)
	}
	if f.t.kind == kindSingle {
		return 1
	}
	return int16(f.t.left.count) + 1 + int16(f.t.right.count)
}

// child resolves the frame's current position to either a ref or, for a
// deep tree's middle slot, the inner spine (which may be nil).
func (f *iterFrame[T]) child() (r ref[T], inner *tree[T], isRef bool) {
	if f.n != nil {
		return f.n.children[f.pos], nil, true
	}
	if f.t.kind == kindSingle {
		return f.t.single, nil, true
	}
	lc := int16(f.t.left.count)
	switch {
	case f.pos < lc:
		return f.t.left.children[f.pos], nil, true
	case f.pos == lc:
		return r, f.t.inner, false
	default:
		return f.t.right.children[f.pos-lc-1], nil, true
	}
}

// iterStack is a stack of iterFrames capturing the ancestors of the
// iterator's current frame. Small depths, which cover sequences far larger
// than any realistic use, avoid allocation.
type iterStack[T any] struct {
	a    [iterStackDepth]iterFrame[T]
	aLen int16 // -1 when using s
	s    []iterFrame[T]
}

const iterStackDepth = 8

func (is *iterStack[T]) push(f iterFrame[T]) {
	if is.aLen == -1 {
		is.s = append(is.s, f)
	} else if int(is.aLen) == len(is.a) {
		is.s = make([]iterFrame[T], int(is.aLen)+1, 2*int(is.aLen))
		copy(is.s, is.a[:])
		is.s[int(is.aLen)] = f
		is.aLen = -1
	} else {
		is.a[is.aLen] = f
		is.aLen++
	}
}

func (is *iterStack[T]) pop() iterFrame[T] {
	if is.aLen == -1 {
		f := is.s[len(is.s)-1]
		is.s = is.s[:len(is.s)-1]
		return f
	}
	is.aLen--
	return is.a[is.aLen]
}

func (is *iterStack[T]) len() int {
	if is.aLen == -1 {
		return len(is.s)
	}
	return int(is.aLen)
}

func (is *iterStack[T]) reset() {
	if is.aLen == -1 {
		is.s = is.s[:0]
	} else {
		is.aLen = 0
	}
}

// Iterator traverses a Seq front to back or back to front. It is cheap to
// create and remains valid indefinitely: the underlying structure is
// immutable, so later updates to other Seq values cannot disturb it.
type Iterator[T any] struct {
	root *tree[T]
	iterFrame[T]
	s     iterStack[T]
	elem  T
	valid bool
}

// MakeIter returns a new Iterator positioned before the first element. Call
// First, Last or Nth to position it.
func (s Seq[T]) MakeIter() Iterator[T] {
	return Iterator[T]{root: s.root}
}

func (i *Iterator[T]) reset() {
	i.s.reset()
	i.iterFrame = iterFrame[T]{}
	i.valid = false
}

func (i *Iterator[T]) descendNode(n *node[T], dir int16) {
	i.s.push(i.iterFrame)
	i.iterFrame = iterFrame[T]{n: n}
	if dir < 0 {
		i.pos = int16(n.count) - 1
	}
}

func (i *Iterator[T]) descendTree(t *tree[T], dir int16) {
	i.s.push(i.iterFrame)
	i.iterFrame = iterFrame[T]{t: t}
	if dir < 0 {
		i.pos = i.width() - 1
	}
}

// settle resolves the current frame and position to a leaf element, walking
// in the given direction: descending through nodes and inner spines,
// skipping empty middle slots, and ascending out of exhausted frames.
func (i *Iterator[T]) settle(dir int16) {
	for {
		if i.pos < 0 || i.pos >= i.width() {
			if i.s.len() == 0 {
				i.valid = false
				return
			}
			i.iterFrame = i.s.pop()
			i.pos += dir
			continue
		}
		r, inner, isRef := i.child()
		if isRef {
			if r.node == nil {
				i.elem = r.elem
				i.valid = true
				return
			}
			i.descendNode(r.node, dir)
			continue
		}
		if inner == nil {
			i.pos += dir
			continue
		}
		i.descendTree(inner, dir)
	}
}

// First positions the iterator at the front element.
func (i *Iterator[T]) First() {
	i.reset()
	if i.root == nil {
		return
	}
	i.iterFrame = iterFrame[T]{t: i.root}
	i.settle(1)
}

// Last positions the iterator at the back element.
func (i *Iterator[T]) Last() {
	i.reset()
	if i.root == nil {
		return
	}
	i.iterFrame = iterFrame[T]{t: i.root}
	i.pos = i.width() - 1
	i.settle(-1)
}

// Next advances to the following element, invalidating the iterator at the
// end of the sequence.
func (i *Iterator[T]) Next() {
	if !i.valid {
		return
	}
	i.pos++
	i.settle(1)
}

// Prev steps back to the preceding element, invalidating the iterator at
// the front of the sequence.
func (i *Iterator[T]) Prev() {
	if !i.valid {
		return
	}
	i.pos--
	i.settle(-1)
}

// Nth positions the iterator at the element with index k, descending by
// cached sizes rather than stepping. Out-of-range k invalidates the
// iterator.
func (i *Iterator[T]) Nth(k int) {
	i.reset()
	if i.root == nil || k < 0 || k >= treeSize(i.root) {
		return
	}
	i.iterFrame = iterFrame[T]{t: i.root}
	for {
		r, inner, isRef := i.child()
		var w int
		if isRef {
			w = r.weight()
		} else {
			w = treeSize(inner)
		}
		if k >= w {
			k -= w
			i.pos++
			continue
		}
		if !isRef {
			i.descendTree(inner, 1)
			continue
		}
		if r.node == nil {
			i.elem = r.elem
			i.valid = true
			return
		}
		i.descendNode(r.node, 1)
	}
}

// Valid reports whether the iterator is positioned at an element.
func (i *Iterator[T]) Valid() bool {
	return i.valid
}

// Cur returns the element at the iterator's position. It is illegal to call
// Cur on an invalid iterator.
func (i *Iterator[T]) Cur() T {
	return i.elem
}
