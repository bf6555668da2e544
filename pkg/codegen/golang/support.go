package golang

import (
	"github.com/goliatone/go-typegen/pkg/codegen"
	"github.com/goliatone/go-typegen/pkg/metadata"
)

// EmitSupport emits ValidationError.go, shared by every wrapper and model.
// It fails when the types of input would redeclare an identifier.
func (t *Target) EmitSupport(input *metadata.GenerationInput, options codegen.Options) ([]metadata.GeneratedArtifact, error) {
	if input != nil {
		if err := t.checkDeclarations(input); err != nil {
			return nil, err
		}
	}
	b := newFileBuilder(packageName(options.Namespace))
	b.use("fmt")

	b.line("// ValidationError reports a value rejected by a generated type. Field is")
	b.line("// empty when the value of a primitive wrapper is rejected.")
	b.open("type ValidationError struct {")
	b.line("Type   string")
	b.line("Field  string")
	b.line("Reason string")
	b.line("Value  any")
	b.close("}")
	b.blank()
	b.open("func (e *ValidationError) Error() string {")
	b.open("if e.Field != \"\" {")
	b.line("return fmt.Sprintf(\"%s.%s: %s\", e.Type, e.Field, e.Reason)")
	b.close("}")
	b.line("return fmt.Sprintf(\"%s: %s (got %v)\", e.Type, e.Reason, e.Value)")
	b.close("}")
	b.blank()
	b.line("// ref returns a pointer to a copy of v.")
	b.open("func ref[T any](v T) *T {")
	b.line("return &v")
	b.close("}")

	artifact, err := t.finish(b, options, supportTypeName, t.fileName(supportTypeName), metadata.ArtifactSupport)
	if err != nil {
		return nil, err
	}
	return []metadata.GeneratedArtifact{artifact}, nil
}
