// Command grambin is a minimal demo harness for the grambin toolkit: it
// builds one of a few canned grammars, decodes a file (or stdin)
// against it, and pretty-prints the resulting Value tree.
//
// Grounded on cmd/funxy/main.go's CLI shape: a deferred panic-recovery
// handler that reports "Internal error" to stderr and exits 1, reading
// from stdin when piped (detected with isatty, the teacher's own
// builtins_term.go pattern) and otherwise from a file argument.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/grambin/grambin"
	"github.com/grambin/grambin/internal/byteset"
	"github.com/grambin/grambin/internal/config"
	"github.com/grambin/grambin/internal/format"
)

// demoGrammars are the spec's own worked examples (a single byte; a
// pair of bytes; a repeated run of uppercase-letter bytes), kept here rather than parsed
// from a grammar source file — a textual grammar front end is out of
// scope for this toolkit (see SPEC_FULL.md's Non-goals).
var demoGrammars = map[string]func() (*grambin.Module, format.Format){
	"byte": func() (*grambin.Module, format.Format) {
		m := grambin.NewModule()
		ref := m.DefineFormat("top", format.Byte{Set: byteset.Full})
		return m, ref.Call()
	},
	"tuple": func() (*grambin.Module, format.Format) {
		m := grambin.NewModule()
		ref := m.DefineFormat("top", format.Tuple{Elems: []format.Format{
			format.Byte{Set: byteset.Full},
			format.Byte{Set: byteset.Full},
		}})
		return m, ref.Call()
	},
	"letters": func() (*grambin.Module, format.Format) {
		m := grambin.NewModule()
		ref := m.DefineFormat("top", format.Repeat{Body: format.Byte{Set: byteset.Range('A', 'Z')}})
		return m, ref.Call()
	},
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <grammar> [file]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  grammar: one of byte, tuple, letters\n")
	fmt.Fprintf(os.Stderr, "  file:    input to decode (default: stdin)\n")
}

func readInput(path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return nil, fmt.Errorf("no file given and stdin is a terminal")
	}
	return io.ReadAll(os.Stdin)
}

func run() error {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	if os.Args[1] == "-version" || os.Args[1] == "--version" {
		fmt.Println(config.Version)
		return nil
	}
	build, ok := demoGrammars[os.Args[1]]
	if !ok {
		usage()
		return fmt.Errorf("unknown grammar %q", os.Args[1])
	}
	path := ""
	if len(os.Args) >= 3 {
		path = os.Args[2]
	}
	buf, err := readInput(path)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	m, top := build()
	g, err := grambin.Analyze(m)
	if err != nil {
		return fmt.Errorf("analyzing grammar: %w", err)
	}
	v, err := g.Decode(top, buf, grambin.DefaultOptions())
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}
	fmt.Println(grambin.Pretty(v))
	return nil
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			os.Exit(1)
		}
	}()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
