package annotate

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
)

// Style selects the comment delimiters used for inserted documentation.
type Style string

const (
	StyleLine  Style = "line"  // "// " per line
	StyleBlock Style = "block" // /* ... */
)

// ParseStyle accepts "line", "block" or "" (line).
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case "", StyleLine:
		return StyleLine, nil
	case StyleBlock:
		return StyleBlock, nil
	default:
		return "", fmt.Errorf("unknown doc style %q (want line or block)", s)
	}
}

// Render wraps text as a comment literal ending in a newline.
func (s Style) Render(text string) string {
	text = strings.Trim(text, "\n")

	if s == StyleBlock {
		return "/*\n" + text + "\n*/\n"
	}

	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			b.WriteString("//\n")
			continue
		}
		b.WriteString("// ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

var errEmptyDoc = errors.New("documentation is empty")

// validateDoc checks that literal parses as the doc comment of a
// declaration and still carries text.
func validateDoc(literal string) error {
	stub := "package p\n\n" + literal + "func _() {}\n"

	file, err := parser.ParseFile(token.NewFileSet(), "", stub, parser.ParseComments)
	if err != nil {
		return fmt.Errorf("invalid doc comment: %w", err)
	}
	if len(file.Decls) != 1 {
		return fmt.Errorf("invalid doc comment: %d declarations after insertion", len(file.Decls))
	}

	fn, ok := file.Decls[0].(*ast.FuncDecl)
	if !ok || fn.Doc == nil || strings.TrimSpace(fn.Doc.Text()) == "" {
		return errEmptyDoc
	}
	return nil
}
