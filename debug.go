//go:build debug

package fluid

import "fmt"

func debugAssert(truth bool, msg ...interface{}) {
	if !truth {
		panic(fmt.Sprint("Assertion failed: ", msg))
	}
}
