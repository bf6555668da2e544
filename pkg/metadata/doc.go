// Package metadata defines the protocol-agnostic model shared by every
// pipeline stage after parsing: validated primitive types (DataType),
// composite models (ModelMetadata, FieldMetadata), optional endpoint
// descriptors (EndpointMetadata), the immutable GenerationInput bundle handed
// to refiners and code generators, and the GeneratedArtifact values they
// produce.
//
// DataType values are handled by pointer. The extractor memoizes them by
// name, so every field referring to the same named schema shares one
// *DataType; refiners preserve that identity when they rewrite names.
package metadata
