// Package orchestrator wires the loader → parser → extractor → refiner →
// code generator → writer pipeline behind a single entry point, keeping
// every stage replaceable through options.
package orchestrator
