package fingertree

// lookupRef resolves position i beneath a ref. The caller guarantees
// 0 <= i < r.weight(), so the scan over node children always lands.
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
	panic("fingertree: lookup ran off digit")
}

// lookupTree descends by cached sizes. The caller guarantees
// 0 <= i < treeSize(t).
func lookupTree[T any](t *tree[T], i int) T {
	for {
		if t.kind == kindSingle {
			return lookupRef(t.single, i)
		}
		if i < t.left.size {
			return t.left.lookup(i)
		}
		i -= t.left.size
		if in := treeSize(t.inner); i < in {
			t = t.inner
			continue
		} else {
			i -= in
		}
		return t.right.lookup(i)
	}
}

// split partitions the digit around position i, returning the children
// strictly before the pivot, the pivot ref containing position i, and the
// children after it. The caller guarantees 0 <= i < d.size.
func (d *digit[T]) split(i int) (before []ref[T], x ref[T], after []ref[T]) {
	for j := int8(0); j < d.count; j++ {
		if w := d.children[j].weight(); i < w {
			return d.children[:j], d.children[j], d.children[j+1 : d.count]
		} else {
			i -= w
		}
	}
	panic("fingertree: split ran off digit")
}

// smallTree folds up to four refs into a tree.
func smallTree[T any](rs []ref[T]) *tree[T] {
	var t *tree[T]
	for _, r := range rs {
		t = snoc(t, r)
	}
	return t
}

// deepL rebuilds a deep tree whose left digit may have gone empty, pulling a
// node out of the inner spine or degenerating to the right digit alone.
func deepL[T any](left []ref[T], inner *tree[T], right digit[T]) *tree[T] {
	if len(left) > 0 {
		return deep(makeDigit(left...), inner, right)
	}
	if n, rest, ok := uncons(inner); ok {
		return deep(n.node.digit(), rest, right)
	}
	return smallTree(right.slice())
}

// deepR is the mirror of deepL for an emptied right digit.
func deepR[T any](left digit[T], inner *tree[T], right []ref[T]) *tree[T] {
	if len(right) > 0 {
		return deep(left, inner, makeDigit(right...))
	}
	if rest, n, ok := unsnoc(inner); ok {
		return deep(left, rest, n.node.digit())
	}
	return smallTree(left.slice())
}

// splitTree splits a non-empty tree around position i into the subtree
// before the pivot, the rank-0-or-higher pivot ref holding position i, and
// the subtree after it. The caller guarantees 0 <= i < treeSize(t).
func splitTree[T any](t *tree[T], i int) (*tree[T], ref[T], *tree[T]) {
	if t.kind == kindSingle {
		return nil, t.single, nil
	}
	if i < t.left.size {
		before, x, after := t.left.split(i)
		return smallTree(before), x, deepL(after, t.inner, t.right)
	}
	i -= t.left.size
	if in := treeSize(t.inner); i < in {
		il, xn, ir := splitTree(t.inner, i)
		pivot := xn.node.digit()
		before, x, after := pivot.split(i - treeSize(il))
		return deepR(t.left, il, before), x, deepL(after, ir, t.right)
	} else {
		i -= in
	}
	before, x, after := t.right.split(i)
	return deepR(t.left, t.inner, before), x, smallTree(after)
}
