package refine

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/goliatone/go-typegen/pkg/logging"
	"github.com/goliatone/go-typegen/pkg/metadata"
)

// PascalCase returns a refiner that converts type, model and field names to
// PascalCase. Serialized names are left untouched. Names that collide,
// ignoring case or through the identifiers reported by Context.Declarer, get
// a numeric suffix.
func PascalCase() Refiner {
	return pascalCase{}
}

type pascalCase struct{}

// ToPascalCase splits s on every rune that is neither a letter nor a digit
// and joins the tokens. Tokens written entirely in upper case are kept; other
// tokens only get their first rune upper-cased. A leading digit is prefixed
// with "N". Inputs without letters or digits yield "".
func ToPascalCase(s string) string {
	return pascal(cases.Title(language.Und, cases.NoLower), s)
}

func pascal(caser cases.Caser, s string) string {
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, token := range tokens {
		if isUpper(token) {
			b.WriteString(token)
			continue
		}
		b.WriteString(caser.String(token))
	}
	out := b.String()
	if out != "" && unicode.IsDigit(rune(out[0])) {
		out = "N" + out
	}
	return out
}

func isUpper(token string) bool {
	hasLetter := false
	for _, r := range token {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// scope hands out unique names, suffixing collisions with 2, 3, ... Names
// are unique ignoring case, since each one becomes a file name. The
// identifiers a name declares must not match any identifier handed out.
type scope struct {
	folded map[string]struct{}
	idents map[string]struct{}
}

func newScope(reserved ...string) scope {
	s := scope{
		folded: make(map[string]struct{}, len(reserved)),
		idents: make(map[string]struct{}, len(reserved)),
	}
	for _, name := range reserved {
		s.folded[strings.ToLower(name)] = struct{}{}
		s.idents[name] = struct{}{}
	}
	return s
}

func (s scope) free(name string, declared []string) bool {
	if _, taken := s.folded[strings.ToLower(name)]; taken {
		return false
	}
	if _, taken := s.idents[name]; taken {
		return false
	}
	for _, ident := range declared {
		if _, taken := s.idents[ident]; taken {
			return false
		}
	}
	return true
}

// claim reserves the first free variant of candidate. declares may be nil.
func (s scope) claim(candidate, fallback string, declares func(string) []string) string {
	if candidate == "" {
		candidate = fallback
	}
	expand := func(name string) []string {
		if declares == nil {
			return nil
		}
		return declares(name)
	}
	name := candidate
	declared := expand(name)
	for i := 2; !s.free(name, declared); i++ {
		name = candidate + strconv.Itoa(i)
		declared = expand(name)
	}
	s.folded[strings.ToLower(name)] = struct{}{}
	s.idents[name] = struct{}{}
	for _, ident := range declared {
		s.idents[ident] = struct{}{}
	}
	return name
}

func (pascalCase) Refine(in *metadata.GenerationInput, ctx Context) *metadata.GenerationInput {
	if in == nil {
		return nil
	}
	logger := logging.OrNop(ctx.Logger)
	caser := cases.Title(language.Und, cases.NoLower)

	types := in.DataTypes()
	models := in.Models()
	endpoints := in.Endpoints()

	names := newScope(ctx.Reserved...)
	typeNames := make(map[string]string, len(types)+len(models))
	for _, dt := range types {
		var declares func(string) []string
		if ctx.Declarer != nil {
			declares = func(name string) []string { return ctx.Declarer.DataTypeDeclarations(name, dt) }
		}
		typeNames[dt.Name] = names.claim(pascal(caser, dt.Name), "Type", declares)
	}
	modelNames := make(map[string]string, len(models))
	for _, model := range models {
		var declares func(string) []string
		if ctx.Declarer != nil {
			declares = func(name string) []string { return ctx.Declarer.ModelDeclarations(name, model) }
		}
		modelNames[model.Name] = names.claim(pascal(caser, model.Name), "Model", declares)
	}

	changed := false
	remap := make(map[*metadata.DataType]*metadata.DataType, len(types))
	for i, dt := range types {
		if name := typeNames[dt.Name]; name != dt.Name {
			cloned := dt.Clone()
			cloned.Name = name
			remap[dt] = cloned
			types[i] = cloned
			changed = true
		}
	}

	// Opaque model references are shared pointers; remap each once.
	resolve := func(dt *metadata.DataType) *metadata.DataType {
		if dt == nil {
			return nil
		}
		if mapped, ok := remap[dt]; ok {
			return mapped
		}
		if !dt.Reference {
			return dt
		}
		name, ok := modelNames[dt.Name]
		if !ok || name == dt.Name {
			return dt
		}
		cloned := dt.Clone()
		cloned.Name = name
		remap[dt] = cloned
		return cloned
	}

	for i, model := range models {
		fieldNames := newScope()
		var fields []metadata.FieldMetadata
		modelChanged := modelNames[model.Name] != model.Name
		for j, field := range model.Fields {
			updated := field
			updated.Name = fieldNames.claim(pascal(caser, field.Name), "Field"+strconv.Itoa(j+1), nil)
			updated.DataType = resolve(field.DataType)
			updated.CollectionElementType = resolve(field.CollectionElementType)
			if updated.Name != field.Name || updated.DataType != field.DataType || updated.CollectionElementType != field.CollectionElementType {
				modelChanged = true
			}
			fields = append(fields, updated)
		}
		if !modelChanged {
			continue
		}
		cloned := model.Clone()
		cloned.Name = modelNames[model.Name]
		cloned.Fields = fields
		models[i] = cloned
		changed = true
	}

	for i := range endpoints {
		endpoint := &endpoints[i]
		if name := renameTypeRef(endpoint.RequestType, typeNames, modelNames); name != endpoint.RequestType {
			endpoint.RequestType = name
			changed = true
		}
		for j := range endpoint.Responses {
			response := &endpoint.Responses[j]
			if name := renameTypeRef(response.TypeName, typeNames, modelNames); name != response.TypeName {
				response.TypeName = name
				changed = true
			}
		}
	}

	if !changed {
		return in
	}
	out, err := metadata.NewGenerationInput(types, models, endpoints)
	if err != nil {
		logger.Warn("pascal case refinement discarded", "target", ctx.Target, "error", err)
		return in
	}
	logger.Debug("pascal case refinement applied", "target", ctx.Target, "types", len(types), "models", len(models))
	return out
}

func renameTypeRef(ref string, typeNames, modelNames map[string]string) string {
	if ref == "" {
		return ref
	}
	prefix := ""
	if strings.HasPrefix(ref, "[]") {
		prefix, ref = "[]", strings.TrimPrefix(ref, "[]")
	}
	if name, ok := modelNames[ref]; ok {
		return prefix + name
	}
	if name, ok := typeNames[ref]; ok {
		return prefix + name
	}
	return prefix + ref
}
