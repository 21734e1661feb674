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

// Package fingertree implements a persistent sequence backed by a
// size-annotated 2-3 finger tree.
//
// A Seq is an immutable value: every operation returns a new Seq and leaves
// the receiver untouched, with unmodified subtrees shared by reference
// between old and new values. Pushing at either end is amortized constant
// time; indexing, splitting and concatenation are logarithmic.
//
// Because values are never mutated after construction, any number of
// goroutines may read the same Seq without coordination.
package fingertree

import (
	"fmt"
	"strings"
)

// Seq is a persistent sequence of elements of type T. The zero value is the
// empty sequence.
type Seq[T any] struct {
	root *tree[T]
}

// Empty returns the empty sequence.
func Empty[T any]() Seq[T] {
	return Seq[T]{}
}

// Singleton returns the one-element sequence holding v.
func Singleton[T any](v T) Seq[T] {
	return Seq[T]{root: singleTree(leafRef(v))}
}

// From builds a sequence holding vs in order.
func From[T any](vs ...T) Seq[T] {
	var t *tree[T]
	for _, v := range vs {
		t = snoc(t, leafRef(v))
	}
	return Seq[T]{root: t}
}

// Len returns the number of elements in the sequence.
func (s Seq[T]) Len() int {
	return treeSize(s.root)
}

// IsEmpty reports whether the sequence has no elements.
func (s Seq[T]) IsEmpty() bool {
	return s.root == nil
}

// Cons returns the sequence with v prepended.
func (s Seq[T]) Cons(v T) Seq[T] {
	return Seq[T]{root: cons(s.root, leafRef(v))}
}

// Snoc returns the sequence with v appended.
func (s Seq[T]) Snoc(v T) Seq[T] {
	return Seq[T]{root: snoc(s.root, leafRef(v))}
}

// Uncons splits off the front element. It returns the zero value and false
// on the empty sequence.
func (s Seq[T]) Uncons() (v T, rest Seq[T], ok bool) {
	r, t, ok := uncons(s.root)
	if !ok {
		return v, rest, false
	}
	return r.elem, Seq[T]{root: t}, true
}

// Unsnoc splits off the back element. It returns the zero value and false
// on the empty sequence.
func (s Seq[T]) Unsnoc() (rest Seq[T], v T, ok bool) {
	t, r, ok := unsnoc(s.root)
	if !ok {
		return rest, v, false
	}
	return Seq[T]{root: t}, r.elem, true
}

// Lookup returns the element at position i, or the zero value and false
// when i is outside [0, Len()).
func (s Seq[T]) Lookup(i int) (v T, ok bool) {
	if i < 0 || i >= treeSize(s.root) {
		return v, false
	}
	return lookupTree(s.root, i), true
}

// At returns the element at position i. It panics when i is out of range;
// use Lookup for a non-panicking variant.
func (s Seq[T]) At(i int) T {
	v, ok := s.Lookup(i)
	if !ok {
		panic(fmt.Sprintf("fingertree: index %d out of range [0, %d)", i, s.Len()))
	}
	return v
}

// SplitAt partitions the sequence into the elements strictly before position
// i and the elements from i onward. Out-of-range positions clamp to the
// nearest boundary, so SplitAt(0) is (Empty, s) and SplitAt(Len()) is
// (s, Empty).
func (s Seq[T]) SplitAt(i int) (Seq[T], Seq[T]) {
	switch {
	case i <= 0:
		return Seq[T]{}, s
	case i >= treeSize(s.root):
		return s, Seq[T]{}
	}
	l, x, r := splitTree(s.root, i)
	return Seq[T]{root: l}, Seq[T]{root: cons(r, x)}
}

// Append concatenates s and other in logarithmic time in the size of the
// smaller operand.
func (s Seq[T]) Append(other Seq[T]) Seq[T] {
	return Seq[T]{root: app3(s.root, nil, other.root)}
}

// InsertAt returns the sequence with v inserted before position i.
// Out-of-range positions clamp, so negative i prepends and i >= Len()
// appends.
func (s Seq[T]) InsertAt(i int, v T) Seq[T] {
	l, r := s.SplitAt(i)
	return l.Snoc(v).Append(r)
}

// DeleteAt returns the sequence without the element at position i. It
// returns the receiver unchanged and false when i is out of range. Note
// that deletion rebuilds via split and append and is not constant time.
func (s Seq[T]) DeleteAt(i int) (Seq[T], bool) {
	if i < 0 || i >= treeSize(s.root) {
		return s, false
	}
	l, _, r := splitTree(s.root, i)
	return Seq[T]{root: app3(l, nil, r)}, true
}

// Update returns the sequence with the element at position i replaced by v,
// or the receiver unchanged and false when i is out of range.
func (s Seq[T]) Update(i int, v T) (Seq[T], bool) {
	return s.Adjust(i, func(T) T { return v })
}

// Adjust returns the sequence with f applied to the element at position i,
// or the receiver unchanged and false when i is out of range.
func (s Seq[T]) Adjust(i int, f func(T) T) (Seq[T], bool) {
	if i < 0 || i >= treeSize(s.root) {
		return s, false
	}
	l, x, r := splitTree(s.root, i)
	return Seq[T]{root: app3(l, nil, cons(r, leafRef(f(x.elem))))}, true
}

// Each calls f on every element in order until f returns false.
func (s Seq[T]) Each(f func(T) bool) {
	eachTree(s.root, f)
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

func eachTree[T any](t *tree[T], f func(T) bool) bool {
	if t == nil {
		return true
	}
	if t.kind == kindSingle {
		return eachRef(t.single, f)
	}
	return t.left.each(f) && eachTree(t.inner, f) && t.right.each(f)
}

// Slice copies the elements into a fresh slice in sequence order.
func (s Seq[T]) Slice() []T {
	out := make([]T, 0, s.Len())
	s.Each(func(v T) bool {
		out = append(out, v)
		return true
	})
	return out
}

// Height returns the depth of the spine.
func (s Seq[T]) Height() int {
	h := 0
	for t := s.root; t != nil; {
		h++
		if t.kind != kindDeep {
			break
		}
		t = t.inner
	}
	return h
}

// String renders the elements front to back.
func (s Seq[T]) String() string {
	var b strings.Builder
	b.WriteByte('[')
	first := true
	s.Each(func(v T) bool {
		if !first {
			b.WriteByte(' ')
		}
		first = false
		fmt.Fprintf(&b, "%v", v)
		return true
	})
	b.WriteByte(']')
	return b.String()
}
