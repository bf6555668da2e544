package golang

import (
	"bytes"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/tools/imports"
)

// docPolicy strips every HTML tag from descriptions.
var docPolicy = bluemonday.StrictPolicy()

// fileBuilder accumulates one Go source file.
type fileBuilder struct {
	pkg     string
	imports map[string]string
	body    bytes.Buffer
	indent  int
}

func newFileBuilder(pkg string) *fileBuilder {
	return &fileBuilder{pkg: pkg, imports: make(map[string]string)}
}

// use records an import. Named imports keep their alias.
func (b *fileBuilder) use(path string) {
	if path == "" {
		return
	}
	if _, ok := b.imports[path]; !ok {
		b.imports[path] = ""
	}
}

func (b *fileBuilder) useNamed(alias, path string) {
	b.imports[path] = alias
}

// useRaw records an additional import written as `path` or `alias path`.
// Imports without an alias are blank imports since nothing refers to them.
func (b *fileBuilder) useRaw(spec string) {
	fields := strings.Fields(spec)
	switch len(fields) {
	case 0:
		return
	case 1:
		path := strings.Trim(fields[0], `"`)
		if _, ok := b.imports[path]; !ok {
			b.imports[path] = "_"
		}
	default:
		b.imports[strings.Trim(fields[1], `"`)] = fields[0]
	}
}

func (b *fileBuilder) line(s string) {
	if s == "" {
		b.body.WriteByte('\n')
		return
	}
	b.body.WriteString(strings.Repeat("\t", b.indent))
	b.body.WriteString(s)
	b.body.WriteByte('\n')
}

func (b *fileBuilder) linef(format string, args ...any) {
	b.line(fmt.Sprintf(format, args...))
}

func (b *fileBuilder) blank() {
	b.body.WriteByte('\n')
}

// open writes a line ending in "{" and indents.
func (b *fileBuilder) open(format string, args ...any) {
	b.linef(format, args...)
	b.indent++
}

// close dedents and writes s, typically "}".
func (b *fileBuilder) close(s string) {
	b.indent--
	b.line(s)
}

// doc writes text as a comment block. HTML is stripped and blank lines are
// dropped.
func (b *fileBuilder) doc(text string) {
	for _, line := range docLines(text) {
		b.line("// " + line)
	}
}

func docLines(text string) []string {
	cleaned := html.UnescapeString(docPolicy.Sanitize(text))
	var out []string
	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// render assembles header, package clause, imports and body, then formats
// the result.
func (b *fileBuilder) render(filename, header string) ([]byte, error) {
	var src bytes.Buffer
	for _, line := range commentLines(header) {
		src.WriteString(line)
		src.WriteByte('\n')
	}
	if src.Len() > 0 {
		src.WriteByte('\n')
	}
	fmt.Fprintf(&src, "package %s\n\n", b.pkg)

	if len(b.imports) > 0 {
		paths := make([]string, 0, len(b.imports))
		for path := range b.imports {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		src.WriteString("import (\n")
		for _, path := range paths {
			if alias := b.imports[path]; alias != "" {
				fmt.Fprintf(&src, "\t%s %s\n", alias, strconv.Quote(path))
				continue
			}
			fmt.Fprintf(&src, "\t%s\n", strconv.Quote(path))
		}
		src.WriteString(")\n\n")
	}
	src.Write(b.body.Bytes())

	formatted, err := imports.Process(filename, src.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", filename, err)
	}
	return formatted, nil
}

// commentLines turns rendered header text into Go line comments.
func commentLines(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimRight(line, " \t\r")
		switch {
		case line == "":
			out = append(out, "//")
		case strings.HasPrefix(line, "//"):
			out = append(out, line)
		default:
			out = append(out, "// "+line)
		}
	}
	if len(out) == 1 && out[0] == "//" {
		return nil
	}
	return out
}
