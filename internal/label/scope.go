package label

// Scope is a linked, append-only stack of (Label, binding) frames
// (spec.md §3.2). It is immutable: Push returns a new Scope that shares
// its parent's frames, so releasing a frame is simply discarding the
// returned Scope and continuing to use the one passed to Push — this
// makes the "released strictly in reverse order of acquisition"
// invariant (spec.md §3.2) a structural guarantee rather than something
// callers must remember to do, generalizing the teacher's
// NewEnclosedEnvironment (internal/evaluator/environment.go), which
// used a mutable outer-pointer chain because funxy also needs in-place
// `var` mutation that grambin's Scope never does.
//
// Bindings are untyped (interface{}) at this layer to avoid an import
// cycle between label, value (Component B), and format (Component D):
// a Let binds a value.Value, a Dynamic binds a decoder-internal
// dynamic-format handle. Callers type-assert on retrieval.
type Scope struct {
	parent *Scope
	name   Label
	binds  bool // false only for the empty root Scope
	value  interface{}
}

// Empty is the root Scope with no bindings.
var Empty = &Scope{}

// Push returns a new Scope that extends s with one binding of name to
// value. s itself is never mutated, so holding onto s after calling
// Push still observes the pre-push scope.
func (s *Scope) Push(name Label, value interface{}) *Scope {
	return &Scope{parent: s, name: name, binds: true, value: value}
}

// Lookup searches frames from most to least recently pushed and
// returns the first binding for name.
func (s *Scope) Lookup(name Label) (interface{}, bool) {
	for f := s; f != nil; f = f.parent {
		if f.binds && f.name.Equal(name) {
			return f.value, true
		}
	}
	return nil, false
}

// Depth returns the number of binding frames from s up to, but not
// counting, the root (spec.md §8 invariant 2).
func (s *Scope) Depth() int {
	n := 0
	for f := s; f != nil && f.binds; f = f.parent {
		n++
	}
	return n
}
