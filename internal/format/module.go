package format

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/grambin/grambin/internal/expr"
	"github.com/grambin/grambin/internal/label"
	"github.com/grambin/grambin/internal/value"
)

// Param is one declared parameter of a parameterized production.
type Param struct {
	Name label.Label
	Type value.ValueType
}

// Def is one named, possibly parameterized production (spec.md §3.1
// FormatModule). Type is filled in by the Component H inferencer; it
// is nil until analysis has run.
type Def struct {
	Name   string
	Params []Param
	Body   Format
	Type   value.ValueType
}

// Module is an ordered, frozen list of productions (spec.md §3.1,
// §3.2): "constructed once, then frozen. Type inference and
// determination analysis run on the frozen module." References between
// productions are by position (ItemVar.ID), so Module never removes or
// reorders a Def once added.
//
// Grounded on internal/ast's append-only *ast.Program statement list
// for the "ordered, growing IR" shape; Module.ID follows the teacher's
// uuid.New()-as-identity convention (internal/ext/*_test.go).
type Module struct {
	ID    uuid.UUID
	Defs  []*Def
	Names *label.Table

	frozen bool
	byName map[string]int
}

// NewModule creates an empty, mutable Module.
func NewModule() *Module {
	return &Module{
		ID:     uuid.New(),
		Names:  label.NewTable(),
		byName: make(map[string]int),
	}
}

// FormatRef is a handle to a defined production, returned by
// DefineFormat/DefineFormatArgs (spec.md §6).
type FormatRef struct {
	module *Module
	id     int
}

// Call produces an ItemVar reference to this production with no
// arguments.
func (r FormatRef) Call() Format {
	return ItemVar{ID: r.id}
}

// CallArgs produces an ItemVar reference with the given argument
// expressions. The caller is responsible for supplying exactly as many
// arguments as the production declares parameters; a mismatch is
// reported by Component H at analysis time (spec.md §4.D: "ItemVar
// arguments are type-checked against the declared parameter list at
// module-definition time"), not here.
func (r FormatRef) CallArgs(args []expr.Expr) Format {
	return ItemVar{ID: r.id, Args: args}
}

// DefineFormat registers a new, unparameterized production named name
// with body F, returning a reference to it. Panics if the module has
// already been frozen (Analyze/Infer having run) or if name is already
// defined, mirroring spec.md §3.2's "constructed once, then frozen".
func (m *Module) DefineFormat(name string, f Format) FormatRef {
	return m.define(name, nil, f)
}

// DefineFormatArgs registers a new, parameterized production.
func (m *Module) DefineFormatArgs(name string, params []Param, f Format) FormatRef {
	return m.define(name, params, f)
}

func (m *Module) define(name string, params []Param, f Format) FormatRef {
	if m.frozen {
		panic("format: cannot define a production on a frozen Module")
	}
	if _, exists := m.byName[name]; exists {
		panic(fmt.Sprintf("format: production %q already defined", name))
	}
	id := len(m.Defs)
	m.Defs = append(m.Defs, &Def{Name: name, Params: params, Body: f})
	m.byName[name] = id
	return FormatRef{module: m, id: id}
}

// Lookup resolves a production by name, for building Apply/ItemVar
// references by hand.
func (m *Module) Lookup(name string) (FormatRef, bool) {
	id, ok := m.byName[name]
	if !ok {
		return FormatRef{}, false
	}
	return FormatRef{module: m, id: id}, true
}

// Freeze marks the module as immutable; called by Analyze before the
// first fixed-point pass (spec.md §3.2).
func (m *Module) Freeze() { m.frozen = true }

// Frozen reports whether Freeze has been called.
func (m *Module) Frozen() bool { return m.frozen }

// Def returns the id'th production. Panics on an out-of-range id,
// since ItemVar ids are only ever produced by this package.
func (m *Module) Def(id int) *Def { return m.Defs[id] }
