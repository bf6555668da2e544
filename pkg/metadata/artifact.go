package metadata

// ArtifactKind tags what a generated artifact contains.
type ArtifactKind string

const (
	ArtifactSupport   ArtifactKind = "support"
	ArtifactPrimitive ArtifactKind = "primitive"
	ArtifactModel     ArtifactKind = "model"
	ArtifactDTO       ArtifactKind = "dto"
)

// GeneratedArtifact is one emitted source file. It is immutable once
// produced; ownership transfers to the writer.
type GeneratedArtifact struct {
	// Name is the type (or support file) name the artifact declares.
	Name string
	// RelativePath is slash-separated and relative to the output directory.
	RelativePath string
	Content      []byte
	// Target identifies the language target that produced the artifact.
	Target string
	Kind   ArtifactKind
}

// Clone returns a copy with its own content buffer.
func (a GeneratedArtifact) Clone() GeneratedArtifact {
	a.Content = append([]byte(nil), a.Content...)
	return a
}
