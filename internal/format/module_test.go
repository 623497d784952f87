package format

import (
	"testing"

	"github.com/grambin/grambin/internal/byteset"
)

func TestDefineAndCall(t *testing.T) {
	m := NewModule()
	ref := m.DefineFormat("byte42", Byte{Set: byteset.Single(0x42)})
	if len(m.Defs) != 1 {
		t.Fatalf("expected 1 def, got %d", len(m.Defs))
	}
	f := ref.Call()
	iv, ok := f.(ItemVar)
	if !ok || iv.ID != 0 {
		t.Fatalf("expected ItemVar{ID:0}, got %#v", f)
	}
}

func TestDuplicateNamePanics(t *testing.T) {
	m := NewModule()
	m.DefineFormat("a", Fail{})
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate name")
		}
	}()
	m.DefineFormat("a", Fail{})
}

func TestFreezeThenDefinePanics(t *testing.T) {
	m := NewModule()
	m.Freeze()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on define-after-freeze")
		}
	}()
	m.DefineFormat("a", Fail{})
}

func TestLookup(t *testing.T) {
	m := NewModule()
	m.DefineFormat("a", Fail{})
	ref, ok := m.Lookup("a")
	if !ok || ref.id != 0 {
		t.Fatalf("expected to find production 'a' at id 0")
	}
	if _, ok := m.Lookup("missing"); ok {
		t.Fatalf("did not expect to find 'missing'")
	}
}
