// Package annotate inserts synthesized doc comments into Go source files.
//
// The annotator walks a parsed file in document order, asks a Synthesizer for
// documentation of every function declaration without a doc comment, and
// splices the sanitized text back in front of the declaration. The result is
// gofmt'd and written next to the input; the input itself is never modified.
package annotate

import (
	"context"
	"fmt"
	"go/ast"
	"go/format"
	"io"
	"os"
	"slices"

	"golang.org/x/tools/go/ast/inspector"

	"github.com/romiras/go-doc-llm/internal/ai"
)

// OutputSuffix is appended to the input path to name the output file
const OutputSuffix = "~new"

// Synthesizer produces documentation text for one function.
// *ai.Synthesizer implements it.
type Synthesizer interface {
	Synthesize(ctx context.Context, name, code string) (string, error)
}

// Options configures an Annotator
type Options struct {
	Style        Style     // default: StyleLine
	ExportedOnly bool      // only document exported functions and methods
	Warnings     io.Writer // per-function skips, default os.Stderr
}

// Skip records a function whose documentation could not be inserted
type Skip struct {
	Name string
	Err  error
}

func (s Skip) String() string {
	return s.Name + ": " + s.Err.Error()
}

// Result summarizes one annotation run
type Result struct {
	Documented        []string
	Skipped           []Skip
	AlreadyDocumented int
}

// Annotator adds doc comments to undocumented functions
type Annotator struct {
	synth        Synthesizer
	style        Style
	exportedOnly bool
	warnings     io.Writer
}

type insertion struct {
	offset int
	text   string
}

// NewAnnotator creates a new annotator
func NewAnnotator(synth Synthesizer, opts Options) (*Annotator, error) {
	if synth == nil {
		return nil, fmt.Errorf("synthesizer is required")
	}

	style, err := ParseStyle(string(opts.Style))
	if err != nil {
		return nil, err
	}

	warnings := opts.Warnings
	if warnings == nil {
		warnings = os.Stderr
	}

	return &Annotator{
		synth:        synth,
		style:        style,
		exportedOnly: opts.ExportedOnly,
		warnings:     warnings,
	}, nil
}

// OutputPath returns the path AnnotateFile writes to
func OutputPath(path string) string {
	return path + OutputSuffix
}

// Annotate returns src with doc comments added. Parse, synthesis and
// formatting errors are fatal; a comment that would not parse in place
// only skips its function.
func (a *Annotator) Annotate(ctx context.Context, path string, src []byte) ([]byte, *Result, error) {
	file, err := ParseSource(path, src)
	if err != nil {
		return nil, nil, err
	}

	result := &Result{}
	var edits []insertion

	in := inspector.New([]*ast.File{file.Node})
	for decl := range inspector.All[*ast.FuncDecl](in) {
		if err := ctx.Err(); err != nil {
			return nil, result, err
		}

		fn := &Function{Node: decl, File: file}
		if fn.HasDoc() {
			result.AlreadyDocumented++
			continue
		}
		if a.exportedOnly && !fn.IsExported() {
			continue
		}

		name := fn.Name()
		code, err := fn.Code()
		if err != nil {
			return nil, result, err
		}

		text, err := a.synth.Synthesize(ctx, name, code)
		if err != nil {
			return nil, result, err
		}

		literal := a.style.Render(ai.Sanitize(text))
		if err := validateDoc(literal); err != nil {
			skip := Skip{Name: name, Err: err}
			result.Skipped = append(result.Skipped, skip)
			fmt.Fprintf(a.warnings, "⚠️  Skipping documentation for %s\n", skip)
			continue
		}

		edits = append(edits, insertion{offset: file.Offset(fn.InsertPos()), text: literal})
		result.Documented = append(result.Documented, name)
	}

	out, err := splice(src, edits)
	if err != nil {
		return nil, result, fmt.Errorf("failed to format %s: %w", path, err)
	}
	return out, result, nil
}

// AnnotateFile annotates the file at path and writes the result to
// OutputPath(path). Nothing is written when Annotate fails.
func (a *Annotator) AnnotateFile(ctx context.Context, path string) (string, *Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	out, result, err := a.Annotate(ctx, path, src)
	if err != nil {
		return "", result, err
	}

	outputPath := OutputPath(path)
	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return "", result, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return outputPath, result, nil
}

// splice applies edits last to first so earlier offsets stay valid, then
// runs gofmt over the result.
func splice(src []byte, edits []insertion) ([]byte, error) {
	slices.SortStableFunc(edits, func(x, y insertion) int { return x.offset - y.offset })

	out := slices.Clone(src)
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		text := e.text
		if e.offset > 0 && out[e.offset-1] != '\n' {
			text = "\n" + text
		}
		out = slices.Insert(out, e.offset, []byte(text)...)
	}

	return format.Source(out)
}
