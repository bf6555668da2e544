package extract

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	pkgopenapi "github.com/goliatone/go-typegen/pkg/openapi"
)

const extensionNamespace = "x-typegen"

// nameNamespace seeds deterministic fallback names for schemas that offer
// neither a title nor a usable owner/property hint.
var nameNamespace = uuid.MustParse("6f2a3c1e-4b7d-5e90-8a1b-2c3d4e5f6a7b")

// nameTable hands out unique type names within one extraction run.
type nameTable struct {
	seed  string
	used  map[string]struct{}
	final map[string]string
}

func newNameTable(seed string) *nameTable {
	return &nameTable{
		seed:  seed,
		used:  make(map[string]struct{}),
		final: make(map[string]string),
	}
}

// reserve registers a component name (optionally overridden through
// x-typegen.name) so synthesized names never collide with it.
func (t *nameTable) reserve(original, override string) string {
	candidate := original
	if override != "" {
		candidate = override
	}
	name := t.unique(candidate)
	t.final[original] = name
	return name
}

// finalName returns the emitted name of a component schema.
func (t *nameTable) finalName(original string) string {
	if name, ok := t.final[original]; ok {
		return name
	}
	return original
}

// synthesize builds a name for an unnamed schema: the title when present,
// else the owner/property hint, else a name derived from pointer.
func (t *nameTable) synthesize(title, hint, pointer string) string {
	candidate := strings.TrimSpace(title)
	if candidate == "" {
		candidate = strings.Trim(hint, "_ ")
	}
	if candidate == "" {
		id := uuid.NewSHA1(nameNamespace, []byte(t.seed+"#"+pointer))
		candidate = "Inline_" + strings.ReplaceAll(id.String(), "-", "")[:8]
	}
	return t.unique(candidate)
}

func (t *nameTable) unique(candidate string) string {
	name := candidate
	for i := 2; ; i++ {
		if _, taken := t.used[name]; !taken {
			break
		}
		name = candidate + strconv.Itoa(i)
	}
	t.used[name] = struct{}{}
	return name
}

// overrideName reads x-typegen.name.
func overrideName(schema pkgopenapi.Schema) string {
	return extensionString(schema, "name")
}

// overrideNamespace reads x-typegen.namespace.
func overrideNamespace(schema pkgopenapi.Schema) string {
	return extensionString(schema, "namespace")
}

func extensionString(schema pkgopenapi.Schema, key string) string {
	if schema.Extensions == nil {
		return ""
	}
	if value, ok := schema.Extensions[extensionNamespace+"-"+key].(string); ok {
		return strings.TrimSpace(value)
	}
	ext, ok := schema.Extensions[extensionNamespace].(map[string]any)
	if !ok {
		return ""
	}
	value, _ := ext[key].(string)
	return strings.TrimSpace(value)
}

func joinHint(owner, property string) string {
	switch {
	case owner == "":
		return property
	case property == "":
		return owner
	}
	return owner + "_" + property
}
