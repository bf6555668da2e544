package parser

import (
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	pkgopenapi "github.com/goliatone/go-typegen/pkg/openapi"
)

// position is a 1-based line/column pair.
type position struct {
	line   int
	column int
}

// nodeIndex records mapping key order and key positions by JSON pointer.
// kin-openapi decodes mappings into Go maps, so declaration order and source
// locations are recovered from a parallel yaml.v3 node walk.
type nodeIndex struct {
	keys      map[string][]string
	positions map[string]position
	scalars   map[string]string
}

func buildIndex(raw []byte) (*nodeIndex, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, err
	}
	idx := &nodeIndex{
		keys:      make(map[string][]string),
		positions: make(map[string]position),
		scalars:   make(map[string]string),
	}
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		idx.positions[""] = position{line: root.Content[0].Line, column: root.Content[0].Column}
		idx.walk(root.Content[0], "")
	}
	return idx, nil
}

func (idx *nodeIndex) walk(node *yaml.Node, pointer string) {
	switch node.Kind {
	case yaml.MappingNode:
		keys := make([]string, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			value := node.Content[i+1]
			keys = append(keys, key.Value)
			child := pointer + "/" + pkgopenapi.EscapePointerToken(key.Value)
			idx.positions[child] = position{line: key.Line, column: key.Column}
			idx.walk(value, child)
		}
		idx.keys[pointer] = keys
	case yaml.SequenceNode:
		for i, item := range node.Content {
			child := pointer + "/" + strconv.Itoa(i)
			idx.positions[child] = position{line: item.Line, column: item.Column}
			idx.walk(item, child)
		}
	case yaml.ScalarNode:
		idx.scalars[pointer] = node.Value
	}
}

// orderOf returns the declared key order of the mapping at pointer.
func (idx *nodeIndex) orderOf(pointer string) []string {
	if idx == nil {
		return nil
	}
	keys := idx.keys[pointer]
	if len(keys) == 0 {
		return nil
	}
	return append([]string(nil), keys...)
}

func (idx *nodeIndex) positionOf(pointer string) (position, bool) {
	if idx == nil {
		return position{}, false
	}
	pos, ok := idx.positions[pointer]
	return pos, ok
}

func (idx *nodeIndex) scalar(pointer string) (string, bool) {
	if idx == nil {
		return "", false
	}
	value, ok := idx.scalars[pointer]
	return value, ok
}

func (idx *nodeIndex) has(pointer string) bool {
	if idx == nil {
		return false
	}
	_, ok := idx.positions[pointer]
	return ok
}

var yamlLinePattern = regexp.MustCompile(`line (\d+)(?:, column (\d+))?`)

// lineFromMessage extracts "line N[, column M]" hints from yaml error text.
func lineFromMessage(msg string) (int, int) {
	match := yamlLinePattern.FindStringSubmatch(msg)
	if match == nil {
		return 0, 0
	}
	line, _ := strconv.Atoi(match[1])
	column := 0
	if match[2] != "" {
		column, _ = strconv.Atoi(match[2])
	}
	return line, column
}
