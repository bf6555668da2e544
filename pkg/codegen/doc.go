// Package codegen defines the code generation contracts shared by every
// target language: the emitters a Target bundles, the Registry targets are
// looked up in, the generation Options and the Generate driver that composes
// emitters in a fixed order.
//
// Generation is a pure function of its input. Artifacts are returned in
// memory; writing them is the job of pkg/writer.
package codegen
