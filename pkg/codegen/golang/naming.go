package golang

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/goliatone/go-typegen/pkg/metadata"
	"github.com/goliatone/go-typegen/pkg/refine"
)

// goKeywords cannot be used as identifiers.
var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// shadowed lists lower-case names that generated bodies rely on: predeclared
// identifiers, imported packages and locals.
var shadowed = map[string]bool{
	"any": true, "append": true, "bool": true, "byte": true, "cap": true,
	"copy": true, "error": true, "false": true, "float32": true, "float64": true,
	"int": true, "int32": true, "int64": true, "len": true, "make": true,
	"nil": true, "string": true, "true": true, "new": true, "min": true, "max": true,

	"dto": true, "fmt": true, "regexp": true, "strings": true, "time": true, "utf8": true,

	"in": true, "out": true, "m": true, "v": true, "ok": true, "item": true,
	"invalid": true, "value": true, "err": true, "ref": true, "converted": true,
}

// reservedMethods are method names every generated model declares.
var reservedMethods = map[string]bool{
	"ToDTO": true,
}

// exportedName converts name to an exported Go identifier.
func exportedName(name string) string {
	ident := refine.ToPascalCase(name)
	if ident == "" {
		return "X"
	}
	first := []rune(ident)[0]
	if !unicode.IsUpper(first) {
		ident = "X" + ident
	}
	return ident
}

// typeName converts a metadata type or model name to a Go type name.
func typeName(name string) string {
	return exportedName(name)
}

// localName converts name to an unexported identifier that is safe to use as
// a struct field or parameter in generated code.
func localName(name string) string {
	runes := []rune(exportedName(name))
	upper := 0
	for upper < len(runes) && unicode.IsUpper(runes[upper]) {
		upper++
	}
	if upper > 1 && upper < len(runes) {
		upper--
	}
	for i := 0; i < upper; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	ident := string(runes)
	if goKeywords[ident] || shadowed[ident] {
		ident += "Value"
	}
	return ident
}

// packageName converts a namespace into a valid Go package name.
func packageName(namespace string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(namespace) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		return "generated"
	}
	if unicode.IsDigit([]rune(name)[0]) {
		name = "p" + name
	}
	if goKeywords[name] || name == "dto" {
		name += "pkg"
	}
	return name
}

// lowerFirst is used for package-level helper variables.
func lowerFirst(ident string) string {
	runes := []rune(ident)
	if len(runes) == 0 {
		return ident
	}
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// patternVarName names the compiled regexp of the i-th pattern of ident.
func patternVarName(ident string, i int) string {
	name := lowerFirst(ident) + "Pattern"
	if i > 0 {
		name += strconv.Itoa(i + 1)
	}
	return name
}

// primitiveDeclarations lists the package-level identifiers of the wrapper
// file of dt when it is emitted as ident.
func primitiveDeclarations(ident string, dt *metadata.DataType) []string {
	out := []string{ident, "IsValid" + ident, "TryNew" + ident, "New" + ident}
	if dt == nil {
		return out
	}
	patterns := 0
	for _, c := range dt.Constraints {
		if _, ok := c.(metadata.Pattern); ok {
			out = append(out, patternVarName(ident, patterns))
			patterns++
		}
	}
	return out
}

// modelDeclarations lists the package-level identifiers of the model file
// emitted as ident.
func modelDeclarations(ident string) []string {
	return []string{ident, "TryNew" + ident, "New" + ident, ident + "FromDTO", "build" + ident}
}
