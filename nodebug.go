//go:build !debug

package fluid

func debugAssert(truth bool, msg ...interface{}) {}
