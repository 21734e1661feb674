// Package lazy implements the same persistent sequence as package
// fingertree with the inner spine deferred behind memoized cells.
//
// Structure is built on demand: construction wraps recursive work in a
// suspension, and consuming operations force exactly the cells they descend
// through. A pipeline of appends and pushes that ends in a single lookup
// materializes only the path that lookup touches. Total work over a full
// traversal matches the strict structure; the benefit is deferral and the
// chance to skip branches that are never observed.
//
// Each cell transitions once from suspended to forced and caches the
// result. The transition is not synchronized: a Seq being forced belongs to
// a single goroutine at a time. Fully forced values are plain immutable
// data and may be shared freely, as may strict Seqs.
package lazy

import (
	"fmt"
	"strings"

	"github.com/ajwerner/fingertree"
)

// Seq is a persistent sequence with a lazily materialized spine. The zero
// value is the empty sequence.
type Seq[T any] struct {
	root *spine[T]
}

// Empty returns the empty sequence.
func Empty[T any]() Seq[T] {
	return Seq[T]{}
}

// Singleton returns the one-element sequence holding v.
func Singleton[T any](v T) Seq[T] {
	return Seq[T]{root: singleSpine(leafRef(v))}
}

// From builds a sequence holding vs in order.
func From[T any](vs ...T) Seq[T] {
	var t *spine[T]
	for _, v := range vs {
		t = snocSpine(t, leafRef(v))
	}
	return Seq[T]{root: t}
}

// FromStrict converts a strict sequence.
func FromStrict[T any](s fingertree.Seq[T]) Seq[T] {
	var t *spine[T]
	s.Each(func(v T) bool {
		t = snocSpine(t, leafRef(v))
		return true
	})
	return Seq[T]{root: t}
}

// Strict fully materializes the sequence into its strict counterpart.
func (s Seq[T]) Strict() fingertree.Seq[T] {
	return fingertree.From(s.Slice()...)
}

// Len returns the number of elements. Sizes are fixed at suspension time,
// so Len never forces anything.
func (s Seq[T]) Len() int {
	return spineSize(s.root)
}

// IsEmpty reports whether the sequence has no elements.
func (s Seq[T]) IsEmpty() bool {
	return s.root == nil
}

// Cons returns the sequence with v prepended.
func (s Seq[T]) Cons(v T) Seq[T] {
	return Seq[T]{root: consSpine(s.root, leafRef(v))}
}

// Snoc returns the sequence with v appended.
func (s Seq[T]) Snoc(v T) Seq[T] {
	return Seq[T]{root: snocSpine(s.root, leafRef(v))}
}

// Uncons splits off the front element. It returns the zero value and false
// on the empty sequence.
func (s Seq[T]) Uncons() (v T, rest Seq[T], ok bool) {
	r, t, ok := unconsSpine(s.root)
	if !ok {
		return v, rest, false
	}
	return r.elem, Seq[T]{root: t}, true
}

// Unsnoc splits off the back element. It returns the zero value and false
// on the empty sequence.
func (s Seq[T]) Unsnoc() (rest Seq[T], v T, ok bool) {
	t, r, ok := unsnocSpine(s.root)
	if !ok {
		return rest, v, false
	}
	return Seq[T]{root: t}, r.elem, true
}

// Lookup returns the element at position i, or the zero value and false
// when i is outside [0, Len()).
func (s Seq[T]) Lookup(i int) (v T, ok bool) {
	if i < 0 || i >= spineSize(s.root) {
		return v, false
	}
	return lookupSpine(s.root, i), true
}

// At returns the element at position i. It panics when i is out of range;
// use Lookup for a non-panicking variant.
func (s Seq[T]) At(i int) T {
	v, ok := s.Lookup(i)
	if !ok {
		panic(fmt.Sprintf("lazy: index %d out of range [0, %d)", i, s.Len()))
	}
	return v
}

// SplitAt partitions the sequence around position i, clamping out-of-range
// positions to the nearest boundary.
func (s Seq[T]) SplitAt(i int) (Seq[T], Seq[T]) {
	switch {
	case i <= 0:
		return Seq[T]{}, s
	case i >= spineSize(s.root):
		return s, Seq[T]{}
	}
	l, x, r := splitSpine(s.root, i)
	return Seq[T]{root: l}, Seq[T]{root: consSpine(r, x)}
}

// Append concatenates s and other, suspending the recursive spine merge.
func (s Seq[T]) Append(other Seq[T]) Seq[T] {
	return Seq[T]{root: app3(s.root, nil, other.root)}
}

// InsertAt returns the sequence with v inserted before position i,
// clamping out-of-range positions.
func (s Seq[T]) InsertAt(i int, v T) Seq[T] {
	l, r := s.SplitAt(i)
	return l.Snoc(v).Append(r)
}

// DeleteAt returns the sequence without the element at position i, or the
// receiver unchanged and false when i is out of range.
func (s Seq[T]) DeleteAt(i int) (Seq[T], bool) {
	if i < 0 || i >= spineSize(s.root) {
		return s, false
	}
	l, _, r := splitSpine(s.root, i)
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
	if i < 0 || i >= spineSize(s.root) {
		return s, false
	}
	l, x, r := splitSpine(s.root, i)
	return Seq[T]{root: app3(l, nil, consSpine(r, leafRef(f(x.elem))))}, true
}

// Each calls f on every element in order until f returns false, forcing
// cells as the traversal reaches them.
func (s Seq[T]) Each(f func(T) bool) {
	eachSpine(s.root, f)
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

// Force materializes every suspended cell down the spine and returns the
// receiver. Forcing is idempotent.
func (s Seq[T]) Force() Seq[T] {
	for t := s.root; t != nil && t.kind == kindDeep; {
		t = t.inner.force()
	}
	return s
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
