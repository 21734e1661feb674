package lazy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajwerner/fingertree"
)

// TestStrictEquivalence drives the lazy and strict structures through the
// same randomized operation sequence and checks that forcing the lazy
// result observes exactly what the strict structure holds.
func TestStrictEquivalence(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(2718))
	for trial := 0; trial < 10; trial++ {
		lz := Empty[int]()
		st := fingertree.Empty[int]()
		for op := 0; op < 400; op++ {
			switch rng.Intn(8) {
			case 0, 1:
				v := rng.Int()
				lz, st = lz.Cons(v), st.Cons(v)
			case 2, 3:
				v := rng.Int()
				lz, st = lz.Snoc(v), st.Snoc(v)
			case 4:
				if _, rest, ok := lz.Uncons(); ok {
					lz = rest
					_, st, _ = st.Uncons()
				}
			case 5:
				if rest, _, ok := lz.Unsnoc(); ok {
					lz = rest
					st, _, _ = st.Unsnoc()
				}
			case 6:
				i := rng.Intn(lz.Len() + 1)
				ll, lr := lz.SplitAt(i)
				sl, sr := st.SplitAt(i)
				// Rejoin in swapped order to keep mutating.
				lz, st = lr.Append(ll), sr.Append(sl)
			case 7:
				if n := lz.Len(); n > 0 {
					i := rng.Intn(n)
					lv, lok := lz.Lookup(i)
					sv, sok := st.Lookup(i)
					require.Equal(t, sok, lok)
					require.Equal(t, sv, lv)
				}
			}
			require.Equal(t, st.Len(), lz.Len())
		}
		forced := lz.Force()
		require.Equal(t, st.Slice(), forced.Slice())
		for i := 0; i < st.Len(); i++ {
			sv, _ := st.Lookup(i)
			lv, ok := lz.Lookup(i)
			require.True(t, ok)
			require.Equal(t, sv, lv)
		}
	}
}

// TestDeepPipelineEquivalence chains many appends before a single
// consumption, the access pattern laziness exists for.
func TestDeepPipelineEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	lz := Empty[int]()
	st := fingertree.Empty[int]()
	for i := 0; i < 50; i++ {
		chunk := rng.Perm(rng.Intn(40) + 1)
		if rng.Intn(2) == 0 {
			lz = lz.Append(From(chunk...))
			st = st.Append(fingertree.From(chunk...))
		} else {
			lz = From(chunk...).Append(lz)
			st = fingertree.From(chunk...).Append(st)
		}
	}
	require.Equal(t, st.Len(), lz.Len())
	probe := []int{0, 1, st.Len() / 2, st.Len() - 2, st.Len() - 1}
	for _, i := range probe {
		sv, sok := st.Lookup(i)
		lv, lok := lz.Lookup(i)
		require.Equal(t, sok, lok)
		require.Equal(t, sv, lv)
	}
	require.Equal(t, st.Slice(), lz.Slice())
}
