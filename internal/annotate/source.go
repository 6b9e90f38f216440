package annotate

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"strings"
)

// SourceFile is a parsed Go file together with the bytes it was parsed from.
// Offsets of its nodes index into Src.
type SourceFile struct {
	Path    string
	Src     []byte
	Node    *ast.File
	FileSet *token.FileSet
}

// ParseSource parses src with comments attached.
func ParseSource(path string, src []byte) (*SourceFile, error) {
	fset := token.NewFileSet()

	node, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &SourceFile{
		Path:    path,
		Src:     src,
		Node:    node,
		FileSet: fset,
	}, nil
}

// Offset returns the byte offset of pos within Src.
func (f *SourceFile) Offset(pos token.Pos) int {
	return f.FileSet.Position(pos).Offset
}

// Function represents a function declaration with helper methods.
type Function struct {
	Node *ast.FuncDecl
	File *SourceFile
}

// Name returns the qualified name: Name for functions, Recv.Name for methods.
func (f *Function) Name() string {
	if recv := f.ReceiverType(); recv != "" {
		return recv + "." + f.Node.Name.Name
	}
	return f.Node.Name.Name
}

// IsMethod returns true if this is a method (has a receiver).
func (f *Function) IsMethod() bool {
	return f.Node.Recv != nil
}

// ReceiverType returns the receiver's base type name, without pointer or
// type parameters.
func (f *Function) ReceiverType() string {
	if !f.IsMethod() || len(f.Node.Recv.List) == 0 {
		return ""
	}
	return receiverName(f.Node.Recv.List[0].Type)
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.ParenExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	default:
		return ""
	}
}

// IsExported reports whether the function is part of the package API.
// Methods count only when their receiver type is exported too.
func (f *Function) IsExported() bool {
	if !f.Node.Name.IsExported() {
		return false
	}
	if f.IsMethod() {
		return ast.IsExported(f.ReceiverType())
	}
	return true
}

// HasDoc reports whether the declaration carries a doc comment with text.
// A group holding only directives such as //go:noinline does not count.
func (f *Function) HasDoc() bool {
	return f.Node.Doc != nil && strings.TrimSpace(f.Node.Doc.Text()) != ""
}

// InsertPos is where a new doc comment goes: before the directive-only
// comment group when there is one, so directives stay last.
func (f *Function) InsertPos() token.Pos {
	if f.Node.Doc != nil {
		return f.Node.Doc.Pos()
	}
	return f.Node.Pos()
}

// Code prints the declaration on its own. Comments are not carried.
func (f *Function) Code() (string, error) {
	decl := *f.Node
	decl.Doc = nil

	var buf bytes.Buffer
	cfg := printer.Config{Mode: printer.UseSpaces | printer.TabIndent, Tabwidth: 8}
	if err := cfg.Fprint(&buf, f.File.FileSet, &decl); err != nil {
		return "", fmt.Errorf("printing %s: %w", f.Name(), err)
	}
	return buf.String(), nil
}
