// Package golang is the Go code generation target.
//
// Every DataType becomes a wrapper struct with an unexported value, so values
// can only be obtained through the validating TryNewX and NewX functions.
// Every model becomes a struct of wrapper-typed fields plus a boundary type
// in the DTO package that JSON decoders target. Generated code depends on
// the standard library only.
package golang
