// Package emit renders a synthesized capability as Go source.
//
// The output declares the enum type over the width's unsigned integer type,
// one constant per variant, and the conversion and arithmetic methods. The
// generated code imports the ordinal package for its fault type.
package emit

import (
	"bytes"
	_ "embed"
	"fmt"
	"go/token"
	"strings"
	"text/template"
	"unicode"

	"golang.org/x/tools/imports"

	"github.com/roach88/numberenum/internal/ir"
)

// RuntimeImport is the import path of the package generated code depends on.
const RuntimeImport = "github.com/roach88/numberenum/ordinal"

// FileSuffix is appended to the snake-cased type name to form the output file name.
const FileSuffix = "_numberenum.go"

//go:embed enum.go.tmpl
var enumTemplate string

var tmpl = template.Must(template.New("enum").Parse(enumTemplate))

// Config controls rendering.
type Config struct {
	// Package is the package clause of the generated file.
	Package string

	// Version is written into the generated header. Defaults to ir.GeneratorVersion.
	Version string
}

type variantData struct {
	Name    string
	Const   string
	Ordinal uint64
}

type operationData struct {
	Name     string
	Operator string
	Assign   bool
	Base     string
}

type fileData struct {
	Version    string
	ID         string
	Package    string
	Runtime    string
	Doc        []string
	Type       string
	GoType     string
	Variants   []variantData
	Operations []operationData
}

// Render produces formatted Go source for c.
func Render(c *ir.Capability, cfg Config) ([]byte, error) {
	if c == nil || c.Table == nil {
		return nil, fmt.Errorf("emit: capability has no ordinal table")
	}
	if !token.IsIdentifier(cfg.Package) {
		return nil, fmt.Errorf("emit %s: invalid package name %q", c.TypeName, cfg.Package)
	}

	data, err := buildData(c, cfg)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("emit %s: %w", c.TypeName, err)
	}

	out, err := imports.Process(FileName(c.TypeName), buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("emit %s: format: %w", c.TypeName, err)
	}
	return out, nil
}

func buildData(c *ir.Capability, cfg Config) (*fileData, error) {
	version := cfg.Version
	if version == "" {
		version = ir.GeneratorVersion
	}

	data := &fileData{
		Version: version,
		ID:      c.ID,
		Package: cfg.Package,
		Runtime: RuntimeImport,
		Doc:     docLines(c),
		Type:    c.TypeName,
		GoType:  c.Width.GoType,
	}

	// Names the file declares besides the constants.
	taken := map[string]bool{
		c.TypeName:                true,
		c.TypeName + "FromNumber": true,
		c.TypeName + "Values":     true,
	}
	for _, e := range c.Table.Entries() {
		name := c.TypeName + e.Variant
		if taken[name] {
			return nil, fmt.Errorf("emit %s: constant %s collides with a generated identifier", c.TypeName, name)
		}
		taken[name] = true
		data.Variants = append(data.Variants, variantData{
			Name:    e.Variant,
			Const:   name,
			Ordinal: e.Ordinal,
		})
	}

	for _, op := range c.Operations {
		data.Operations = append(data.Operations, operationData{
			Name:     op.Name,
			Operator: op.Operator,
			Assign:   op.Assign,
			Base:     baseOperation(c, op),
		})
	}
	return data, nil
}

// baseOperation returns the non-assigning operation an assign form delegates to.
func baseOperation(c *ir.Capability, op ir.Operation) string {
	if !op.Assign {
		return ""
	}
	for _, o := range c.Operations {
		if !o.Assign && o.Kind == op.Kind {
			return o.Name
		}
	}
	return strings.TrimSuffix(op.Name, "Assign")
}

func docLines(c *ir.Capability) []string {
	doc := strings.TrimSpace(c.Doc)
	if doc == "" {
		doc = fmt.Sprintf("%s is numbered by declaration order using %d-bit ordinals.", c.TypeName, c.Width.Bits)
	}
	var lines []string
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			lines = append(lines, "//")
			continue
		}
		lines = append(lines, "// "+line)
	}
	return lines
}

// FileName returns the output file name for a type, e.g. "http_status_numberenum.go"
// for HTTPStatus.
func FileName(typeName string) string {
	return snake(typeName) + FileSuffix
}

func snake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
