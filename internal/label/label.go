// Package label implements Label interning (spec.md §3.1) and the
// append-only, balanced-release Scope frame stack used by both the
// decoder and the expression evaluator (spec.md §3.2).
package label

import (
	"sync"

	"github.com/google/uuid"
)

// Label is an interned, immutable name used for record fields, variant
// constructors, production names, and bound variables. Equality is
// structural: two Labels compare equal iff they were interned from the
// same string, in the same Table.
type Label struct {
	table *Table
	id    int
}

// Name returns the original string this Label was interned from.
func (l Label) Name() string {
	if l.table == nil {
		return ""
	}
	return l.table.names[l.id]
}

func (l Label) String() string { return l.Name() }

// Equal reports structural equality. Labels from different Tables are
// never equal, even if their underlying strings match, since cross-table
// comparison would defeat the O(1) identity check interning exists for.
func (l Label) Equal(o Label) bool {
	return l.table == o.table && l.id == o.id
}

// Table is an intern table: a bijection between strings and Labels. A
// FormatModule owns exactly one Table, identified by a UUID so that
// diagnostics and memo caches can be correlated across tables safely
// (spec.md §3.1 "Label" + the teacher's uuid.New()-as-identity idiom).
type Table struct {
	ID uuid.UUID

	mu    sync.Mutex
	byStr map[string]int
	names []string
}

// NewTable creates a fresh, empty intern table.
func NewTable() *Table {
	return &Table{
		ID:    uuid.New(),
		byStr: make(map[string]int),
	}
}

// Intern returns the Label for s, creating a new entry if s has not
// been seen by this table before.
func (t *Table) Intern(s string) Label {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.byStr[s]; ok {
		return Label{table: t, id: id}
	}
	id := len(t.names)
	t.names = append(t.names, s)
	t.byStr[s] = id
	return Label{table: t, id: id}
}

// Len returns the number of distinct strings interned so far.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.names)
}
