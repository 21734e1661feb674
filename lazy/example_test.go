package lazy_test

import (
	"fmt"

	"github.com/ajwerner/fingertree/lazy"
)

func ExampleSeq() {
	s := lazy.From(1, 2, 3).Append(lazy.From(4, 5, 6))
	fmt.Println(s.Len())
	v, _ := s.Lookup(3)
	fmt.Println(v)
	fmt.Println(s.Force())

	// Output:
	// 6
	// 4
	// [1 2 3 4 5 6]
}
