package fingertree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// verifyRef checks arity and cached sizes beneath a ref and returns the
// element count it covers. rank 0 refs must be leaves.
func verifyRef[T any](t *testing.T, r ref[T], rank int) int {
	t.Helper()
	if r.node == nil {
		if rank != 0 {
			t.Fatalf("leaf ref at rank %d", rank)
		}
		return 1
	}
	n := r.node
	if n.count < 2 || n.count > maxNode {
		t.Fatalf("node arity %d", n.count)
	}
	sum := 0
	for i := int8(0); i < n.count; i++ {
		sum += verifyRef(t, n.children[i], rank-1)
	}
	if sum != n.size {
		t.Fatalf("node size %d, children sum %d", n.size, sum)
	}
	return sum
}

func verifyDigit[T any](t *testing.T, d *digit[T], rank int) int {
	t.Helper()
	if d.count < 1 || d.count > maxDigit {
		t.Fatalf("digit width %d", d.count)
	}
	sum := 0
	for i := int8(0); i < d.count; i++ {
		sum += verifyRef(t, d.children[i], rank)
	}
	if sum != d.size {
		t.Fatalf("digit size %d, children sum %d", d.size, sum)
	}
	return sum
}

func verifyTree[T any](t *testing.T, tr *tree[T], rank int) int {
	t.Helper()
	if tr == nil {
		return 0
	}
	if tr.kind == kindSingle {
		sum := verifyRef(t, tr.single, rank)
		if sum != tr.size {
			t.Fatalf("single size %d, ref sum %d", tr.size, sum)
		}
		return sum
	}
	sum := verifyDigit(t, &tr.left, rank) +
		verifyTree(t, tr.inner, rank+1) +
		verifyDigit(t, &tr.right, rank)
	if sum != tr.size {
		t.Fatalf("deep size %d, parts sum %d", tr.size, sum)
	}
	return sum
}

// verify checks every structural invariant of s and that its observable
// contents equal want.
func verify(t *testing.T, s Seq[int], want []int) {
	t.Helper()
	verifyTree(t, s.root, 0)
	require.Equal(t, len(want), s.Len())
	require.Equal(t, want, append([]int{}, s.Slice()...))
}

func TestEmpty(t *testing.T) {
	var s Seq[int]
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.Len())
	_, _, ok := s.Uncons()
	assert.False(t, ok)
	_, _, ok = s.Unsnoc()
	assert.False(t, ok)
	_, ok = s.Lookup(0)
	assert.False(t, ok)
	assert.Equal(t, "[]", s.String())
	assert.Equal(t, Empty[int]().Len(), s.Len())
}

func TestConsOrder(t *testing.T) {
	// The concrete shape from the docs: cons 3, then 2, then 1 reads
	// front to back as 1, 2, 3.
	s := Empty[int]().Cons(3).Cons(2).Cons(1)
	verify(t, s, []int{1, 2, 3})
	for i, want := range []int{1, 2, 3} {
		got, ok := s.Lookup(i)
		require.True(t, ok)
		require.Equal(t, want, got)
	}
	l, r := s.SplitAt(1)
	verify(t, l, []int{1})
	verify(t, r, []int{2, 3})
	verify(t, l.Append(r), []int{1, 2, 3})
}

func TestConsUnconsRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(421))
	for _, n := range []int{0, 1, 2, 5, 17, 200} {
		s := Empty[int]()
		for i := 0; i < n; i++ {
			s = s.Snoc(rng.Int())
		}
		before := s.Slice()
		withFront := s.Cons(-1)
		v, rest, ok := withFront.Uncons()
		require.True(t, ok)
		require.Equal(t, -1, v)
		require.Equal(t, before, append([]int{}, rest.Slice()...))
	}
}

func TestSnocUnsnocRoundTrip(t *testing.T) {
	s := From(10, 20, 30)
	s2 := s.Snoc(40)
	rest, v, ok := s2.Unsnoc()
	require.True(t, ok)
	require.Equal(t, 40, v)
	verify(t, rest, []int{10, 20, 30})
	// the original is unaffected
	verify(t, s, []int{10, 20, 30})
	verify(t, s2, []int{10, 20, 30, 40})
}

func TestSizeInvariant(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(1))
	s := Empty[int]()
	var want []int
	for i := 0; i < 500; i++ {
		if rng.Intn(2) == 0 {
			s = s.Cons(i)
			want = append([]int{i}, want...)
		} else {
			s = s.Snoc(i)
			want = append(want, i)
		}
	}
	verify(t, s, want)

	// Exhaustive uncons sees the same count and order.
	var got []int
	for cur := s; ; {
		v, rest, ok := cur.Uncons()
		if !ok {
			break
		}
		got = append(got, v)
		cur = rest
	}
	require.Equal(t, want, got)
}

func TestIndexConsistency(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(7))
	const n = 300
	s := Empty[int]()
	for i := 0; i < n; i++ {
		s = s.Snoc(rng.Intn(1000))
	}
	cur := s
	for i := 0; i < n; i++ {
		byIndex, ok := s.Lookup(i)
		require.True(t, ok)
		byUncons, rest, ok := cur.Uncons()
		require.True(t, ok)
		require.Equal(t, byUncons, byIndex, "index %d", i)
		cur = rest
	}
	_, ok := s.Lookup(n)
	assert.False(t, ok)
	_, ok = s.Lookup(-1)
	assert.False(t, ok)
}

func TestAtPanics(t *testing.T) {
	s := From(1, 2, 3)
	assert.Equal(t, 2, s.At(1))
	assert.Panics(t, func() { s.At(3) })
	assert.Panics(t, func() { s.At(-1) })
}

func TestUpdateAdjust(t *testing.T) {
	s := From(1, 2, 3, 4)
	u, ok := s.Update(2, 30)
	require.True(t, ok)
	verify(t, u, []int{1, 2, 30, 4})
	verify(t, s, []int{1, 2, 3, 4})

	a, ok := u.Adjust(0, func(v int) int { return v * 10 })
	require.True(t, ok)
	verify(t, a, []int{10, 2, 30, 4})

	_, ok = s.Update(4, 0)
	assert.False(t, ok)
	_, ok = s.Adjust(-1, func(v int) int { return v })
	assert.False(t, ok)
}

func TestDeleteAt(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	want := rng.Perm(64)
	s := From(want...)
	for len(want) > 0 {
		i := rng.Intn(len(want))
		var ok bool
		s, ok = s.DeleteAt(i)
		require.True(t, ok)
		want = append(want[:i:i], want[i+1:]...)
		verify(t, s, want)
	}
	_, ok := s.DeleteAt(0)
	assert.False(t, ok)
}

func TestInsertAt(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	s := Empty[int]()
	var want []int
	for i := 0; i < 100; i++ {
		pos := rng.Intn(len(want) + 1)
		s = s.InsertAt(pos, i)
		want = append(want[:pos:pos], append([]int{i}, want[pos:]...)...)
	}
	verify(t, s, want)

	// Out-of-range positions clamp.
	verify(t, From(2, 3).InsertAt(-5, 1), []int{1, 2, 3})
	verify(t, From(1, 2).InsertAt(99, 3), []int{1, 2, 3})
}

func TestStructuralSharing(t *testing.T) {
	// A long snoc chain: each version remains observable after later
	// versions diverge from it.
	const n = 128
	versions := make([]Seq[int], 0, n+1)
	s := Empty[int]()
	versions = append(versions, s)
	for i := 0; i < n; i++ {
		s = s.Snoc(i)
		versions = append(versions, s)
	}
	for k, v := range versions {
		require.Equal(t, k, v.Len())
		if k > 0 {
			last, ok := v.Lookup(k - 1)
			require.True(t, ok)
			require.Equal(t, k-1, last)
		}
	}
}

func TestHeightGrowsSlowly(t *testing.T) {
	s := Empty[int]()
	for i := 0; i < 4096; i++ {
		s = s.Snoc(i)
	}
	// 4096 elements fit in a handful of ranks.
	assert.LessOrEqual(t, s.Height(), 16)
	verifyTree(t, s.root, 0)
}

func TestString(t *testing.T) {
	assert.Equal(t, "[1 2 3]", From(1, 2, 3).String())
	assert.Equal(t, "[x]", Singleton("x").String())
}
