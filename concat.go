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

// regroup packs a run of 2 to 8 same-rank refs (2–4 from each borrowed
// digit, plus up to a handful carried between ranks) into node refs one rank
// up. Groups are always 2 or 3 wide: runs longer than four shed a node3,
// and a remainder of four splits 2+2 rather than leaving a 1 behind.
func regroup[T any](rs []ref[T]) []ref[T] {
	out := make([]ref[T], 0, (len(rs)+2)/3+1)
	for len(rs) > 0 {
		switch len(rs) {
		case 1:
			panic("fingertree: regroup run of one")
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

func consAll[T any](t *tree[T], rs []ref[T]) *tree[T] {
	for i := len(rs) - 1; i >= 0; i-- {
		t = cons(t, rs[i])
	}
	return t
}

func snocAll[T any](t *tree[T], rs []ref[T]) *tree[T] {
	for _, r := range rs {
		t = snoc(t, r)
	}
	return t
}

// app3 concatenates t1, a run of loose middle refs, and t2. For two deep
// trees the facing digits are merged with the middle run, regrouped into
// nodes one rank up, and pushed down as the middle run of the recursive
// inner concatenation. Depth recursed is bounded by the shallower operand.
func app3[T any](t1 *tree[T], mid []ref[T], t2 *tree[T]) *tree[T] {
	switch {
	case t1 == nil:
		return consAll(t2, mid)
	case t2 == nil:
		return snocAll(t1, mid)
	case t1.kind == kindSingle:
		return cons(consAll(t2, mid), t1.single)
	case t2.kind == kindSingle:
		return snoc(snocAll(t1, mid), t2.single)
	}
	run := make([]ref[T], 0, int(t1.right.count)+len(mid)+int(t2.left.count))
	run = append(run, t1.right.slice()...)
	run = append(run, mid...)
	run = append(run, t2.left.slice()...)
	return deep(t1.left, app3(t1.inner, regroup(run), t2.inner), t2.right)
}
