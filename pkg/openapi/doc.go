// Package openapi exposes the public contracts for the source, loader and
// parser stages. Implementations live under internal/openapi so kin-openapi
// types never leak to consumers: the parser hands out Specification values
// built from the wrappers declared here.
package openapi
