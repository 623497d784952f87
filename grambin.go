// Package grambin is the public facade over the declarative binary
// format toolkit: build a grammar with the format package, analyze it
// once, then decode any number of buffers against it.
//
// Grounded on cmd/funxy/main.go's runPipeline (lex -> parse -> analyze
// -> execute, a single function wiring the whole toolkit together for
// callers who don't want to touch each stage's package directly) —
// grambin.go is the equivalent one-call wiring for this toolkit's three
// stages (format.Module -> analyzer.Analyze -> decoder.Decode).
package grambin

import (
	"github.com/grambin/grambin/internal/analyzer"
	"github.com/grambin/grambin/internal/config"
	"github.com/grambin/grambin/internal/decoder"
	"github.com/grambin/grambin/internal/format"
	"github.com/grambin/grambin/internal/prettyprint"
	"github.com/grambin/grambin/internal/value"
)

// Format re-exports the grammar IR so callers building a grammar need
// only import this package.
type Format = format.Format

// Module re-exports the grammar container.
type Module = format.Module

// Options re-exports the decode-run configuration.
type Options = config.Options

// DefaultOptions re-exports config.DefaultOptions.
func DefaultOptions() Options { return config.DefaultOptions() }

// NewModule re-exports format.NewModule.
func NewModule() *Module { return format.NewModule() }

// Grammar is an analyzed Module: the determinism/type analysis has
// already run, so every Decode call against it skips straight to the
// interpreter.
type Grammar struct {
	m   *Module
	res *analyzer.Result
}

// Analyze freezes m (if not already frozen) and runs the determinism
// and type analyzers over it once, returning a Grammar ready to decode
// against repeatedly.
func Analyze(m *Module) (*Grammar, error) {
	res, err := analyzer.Analyze(m)
	if err != nil {
		return nil, err
	}
	return &Grammar{m: m, res: res}, nil
}

// Decode runs top (normally the Call() of a FormatRef defined on g's
// Module) against buf.
func (g *Grammar) Decode(top Format, buf []byte, opts Options) (value.Value, error) {
	return decoder.Decode(g.m, g.res, top, buf, opts)
}

// Pretty renders v for display (diagnostics, the demo CLI).
func Pretty(v value.Value) string { return prettyprint.Value(v) }

// PrettyFormat renders f's grammar tree for display.
func PrettyFormat(f Format) string { return prettyprint.Format(f) }
