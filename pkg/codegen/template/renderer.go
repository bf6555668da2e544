package template

// TemplateRenderer renders the user-configurable parts of generated files,
// such as the header comment.
type TemplateRenderer interface {
	// RenderString renders inline template content.
	RenderString(content string, data map[string]any) (string, error)
	// RenderFile renders the template stored at path. Relative paths are
	// resolved by the renderer.
	RenderFile(path string, data map[string]any) (string, error)
}
