package parser

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	pkgopenapi "github.com/goliatone/go-typegen/pkg/openapi"
)

// unresolvedExtension marks a schema that stood in for a local reference to
// a component schema the document does not declare. Its value is the
// missing schema name.
const unresolvedExtension = extensionNamespace + "-unresolved"

// detachDanglingRefs replaces every local schema reference whose target is
// missing from components/schemas with a mapping carrying
// unresolvedExtension. The loader would otherwise reject the whole document;
// the extractor reports each replaced reference on the schema using it.
// raw is returned as is when every reference resolves.
func detachDanglingRefs(raw []byte) ([]byte, []string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return raw, nil, nil
	}
	declared := declaredSchemas(root.Content[0])

	var missing []string
	seen := make(map[string]bool)
	var walk func(node *yaml.Node)
	walk = func(node *yaml.Node) {
		switch node.Kind {
		case yaml.MappingNode:
			if name, ok := danglingRef(node, declared); ok {
				node.Content = []*yaml.Node{
					{Kind: yaml.ScalarNode, Tag: "!!str", Value: unresolvedExtension},
					{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
				}
				if !seen[name] {
					seen[name] = true
					missing = append(missing, name)
				}
				return
			}
			for i := 1; i < len(node.Content); i += 2 {
				walk(node.Content[i])
			}
		case yaml.SequenceNode:
			for _, item := range node.Content {
				walk(item)
			}
		}
	}
	walk(root.Content[0])

	if len(missing) == 0 {
		return raw, nil, nil
	}
	out, err := yaml.Marshal(&root)
	if err != nil {
		return nil, nil, err
	}
	return out, missing, nil
}

// declaredSchemas lists the keys of /components/schemas.
func declaredSchemas(doc *yaml.Node) map[string]bool {
	names := make(map[string]bool)
	schemas := mappingValue(mappingValue(doc, "components"), "schemas")
	if schemas == nil || schemas.Kind != yaml.MappingNode {
		return names
	}
	for i := 0; i+1 < len(schemas.Content); i += 2 {
		names[schemas.Content[i].Value] = true
	}
	return names
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// danglingRef reports the missing schema named by the $ref of node. Only
// direct references to a component schema are considered.
func danglingRef(node *yaml.Node, declared map[string]bool) (string, bool) {
	ref := mappingValue(node, "$ref")
	if ref == nil || ref.Kind != yaml.ScalarNode || !strings.HasPrefix(ref.Value, pkgopenapi.SchemaRefPrefix) {
		return "", false
	}
	name, ok := pkgopenapi.Schema{Ref: ref.Value}.RefName()
	if !ok || declared[name] {
		return "", false
	}
	return name, true
}

// unresolvedRef restores the reference replaced by detachDanglingRefs.
func unresolvedRef(ref *openapi3.SchemaRef) (pkgopenapi.Schema, bool) {
	if ref == nil || ref.Value == nil {
		return pkgopenapi.Schema{}, false
	}
	name, ok := ref.Value.Extensions[unresolvedExtension].(string)
	if !ok || name == "" {
		return pkgopenapi.Schema{}, false
	}
	return pkgopenapi.Schema{Ref: pkgopenapi.SchemaRefPrefix + pkgopenapi.EscapePointerToken(name)}, true
}
