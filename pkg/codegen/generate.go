package codegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-typegen/pkg/metadata"
	"github.com/goliatone/go-typegen/pkg/tgerrors"
)

// Generate emits every artifact of input for target: support files first,
// then primitives, models and DTOs, each in input order. The input is
// expected to be refined already. Generate performs no I/O.
func Generate(ctx context.Context, target Target, input *metadata.GenerationInput, options Options) ([]metadata.GeneratedArtifact, error) {
	if target == nil {
		return nil, &tgerrors.GenerationError{Reason: "target is required"}
	}
	if input == nil {
		return nil, &tgerrors.GenerationError{Target: target.Name(), Reason: "generation input is required"}
	}
	options = options.WithDefaults()
	if err := options.Validate(); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, &tgerrors.GenerationError{Target: target.Name(), Reason: "invalid metadata", Cause: err}
	}

	var artifacts []metadata.GeneratedArtifact
	// Paths are compared ignoring case so the output is portable to
	// case-insensitive file systems.
	paths := make(map[string]string)
	collect := func(artifact metadata.GeneratedArtifact) error {
		key := strings.ToLower(artifact.RelativePath)
		if owner, dup := paths[key]; dup {
			return &tgerrors.GenerationError{
				TypeName: artifact.Name,
				Target:   target.Name(),
				Reason:   fmt.Sprintf("file %s is already produced by %s", artifact.RelativePath, owner),
			}
		}
		paths[key] = artifact.Name
		artifacts = append(artifacts, artifact)
		return nil
	}

	support, err := target.EmitSupport(input, options)
	if err != nil {
		return nil, err
	}
	for _, artifact := range support {
		if err := collect(artifact); err != nil {
			return nil, err
		}
	}

	for _, dt := range input.DataTypes() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		artifact, err := target.EmitPrimitive(dt, input, options)
		if err != nil {
			return nil, err
		}
		if err := collect(artifact); err != nil {
			return nil, err
		}
	}

	models := input.Models()
	for _, model := range models {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		artifact, err := target.EmitModel(model, input, options)
		if err != nil {
			return nil, err
		}
		if err := collect(artifact); err != nil {
			return nil, err
		}
	}
	for _, model := range models {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		artifact, err := target.EmitDTO(model, input, options)
		if err != nil {
			return nil, err
		}
		if err := collect(artifact); err != nil {
			return nil, err
		}
	}
	return artifacts, nil
}
