package main

import (
	"fmt"
	"github.com/weavelang/weave/pkg/engine"
)

func main() {
	e, _ := engine.New()
	src := `
let a = [1, 2, 3];
let outer = [a, a, a];
for x in outer {
  x[0] = 99;
}
outer[1][0];
`
	res, err := e.Eval(src)
	fmt.Println("for-loop alias test:", res, err)

	src2 := `
let a = [1,2,3];
let m = #{};
m["x"] = a;
a[0] = 42;
m["x"][0];
`
	res2, err2 := e.Eval(src2)
	fmt.Println("index-assign alias test:", res2, err2)
}
