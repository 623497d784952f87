package decoder

import "github.com/grambin/grambin/internal/diagnostics"

// mode identifies what a pushed frame is for (spec.md §4.F).
type mode int

const (
	modeSlice mode = iota
	modeBits
	modePeek
	modePeekNot
	modeAlt
	modeOffset
)

// frame is one entry of the Cursor's frame stack. limit is always
// present (inherited from the parent frame unless narrowed by a
// Slice); savedPos/savedBitPos are only meaningful for the rewinding
// modes (peek, peek-not, alt, relative-offset).
type frame struct {
	mode        mode
	limit       int
	savedPos    int
	savedBitPos int
}

// Cursor is the decoder's buffer-and-frame-stack state (spec.md §4.F):
// the whole input plus a stack of scoped frames tracking slice bounds,
// bit mode, and save-points for peek/peek-not/alternation rollback.
//
// Grounded on internal/evaluator's NewEnclosedEnvironment push/pop
// discipline (internal/evaluator/environment.go), generalized from a
// variable-binding stack to a byte-position-and-mode stack; the
// explicit Mode flags are named directly after spec.md §4.F's own
// enumeration (normal/bits/peek/peek-not/alt).
type Cursor struct {
	buf    []byte
	pos    int
	bitPos int // 0 when byte-aligned; 1..7 mid-byte while in bits mode
	frames []frame
}

// NewCursor wraps buf for decoding, with one implicit root frame
// bounding reads to the whole buffer.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf, frames: []frame{{mode: modeSlice, limit: len(buf)}}}
}

// Depth returns the frame stack depth, for spec.md §8 invariant 3
// (frame balance): callers assert this is unchanged across a decode.
func (c *Cursor) Depth() int { return len(c.frames) }

// Pos returns the current absolute byte offset.
func (c *Cursor) Pos() int { return c.pos }

func (c *Cursor) top() frame { return c.frames[len(c.frames)-1] }

func (c *Cursor) limit() int { return c.top().limit }

// InBits reports whether the cursor is in bits mode: walking outward
// past save-point frames, the nearest bits or slice frame is a bits
// frame.
func (c *Cursor) InBits() bool {
	for i := len(c.frames) - 1; i >= 0; i-- {
		switch c.frames[i].mode {
		case modeBits:
			return true
		case modeSlice:
			return false
		}
	}
	return false
}

// AtEnd reports whether the cursor has reached the current frame's
// upper bound (byte-aligned check only; a partial bit position inside
// the last byte still counts as "not yet at end" for EndOfInput).
func (c *Cursor) AtEnd() bool {
	return c.pos >= c.limit() && c.bitPos == 0
}

// ReadByte returns the next byte (spec.md §4.F read_byte): a full
// byte::Normally, or a single LSB-first bit (as 0 or 1) if the
// innermost frame is in bits mode. Fails with UnexpectedEndOfInput at
// the current frame's bound.
func (c *Cursor) ReadByte() (byte, error) {
	if c.InBits() {
		return c.readBit()
	}
	if c.pos >= c.limit() {
		return 0, diagnostics.At(diagnostics.UnexpectedEndOfInput, diagnostics.Pos(c.pos), "end of input")
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

func (c *Cursor) readBit() (byte, error) {
	if c.pos >= c.limit() {
		return 0, diagnostics.At(diagnostics.UnexpectedEndOfInput, diagnostics.Pos(c.pos), "end of input (bit mode)")
	}
	bit := (c.buf[c.pos] >> uint(c.bitPos)) & 1
	c.bitPos++
	if c.bitPos == 8 {
		c.bitPos = 0
		c.pos++
	}
	return bit, nil
}

// ReadBit reads a single LSB-first bit regardless of the current
// frame's mode — used directly by the Huffman decoder (spec.md §4.G),
// which always consumes bits one at a time irrespective of whether the
// enclosing format happens to be in byte or bit mode.
func (c *Cursor) ReadBit() (int, error) {
	b, err := c.readBit()
	if err != nil {
		return 0, err
	}
	return int(b), nil
}

// PeekByte looks at the next byte (or bit, in bits mode) without
// consuming it, for the decoder's one-byte-lookahead dispatch at every
// Union and Repeat* (spec.md §4.F, §4.E). ok is false at the current
// frame's bound.
func (c *Cursor) PeekByte() (b byte, ok bool) {
	if c.pos >= c.limit() {
		return 0, false
	}
	if c.InBits() {
		return (c.buf[c.pos] >> uint(c.bitPos)) & 1, true
	}
	return c.buf[c.pos], true
}

// Remaining returns the number of whole bytes left in the current
// frame.
func (c *Cursor) Remaining() int {
	n := c.limit() - c.pos
	if n < 0 {
		return 0
	}
	return n
}

// StartSlice pushes a frame bounding reads to the next n bytes,
// failing if that would exceed the enclosing frame's own bound
// (spec.md §4.F start_slice, §8 invariant 8 "slice containment").
func (c *Cursor) StartSlice(n int) error {
	newLimit := c.pos + n
	if newLimit > c.limit() {
		return diagnostics.At(diagnostics.UnexpectedEndOfInput, diagnostics.Pos(c.pos),
			"slice of %d bytes exceeds enclosing bound", n)
	}
	c.frames = append(c.frames, frame{mode: modeSlice, limit: newLimit})
	return nil
}

// EndSlice pops the innermost slice frame. Per spec.md §4.F, this
// succeeds regardless of whether the inner offset reached the bound —
// a format is not required to consume every byte of its slice unless
// it explicitly ends in EndOfInput or SkipRemainder.
func (c *Cursor) EndSlice() {
	c.frames = c.frames[:len(c.frames)-1]
}

// EnterBits pushes a bits-mode frame (spec.md §4.F enter_bits_mode):
// subsequent ReadByte calls return single bits until ExitBits.
func (c *Cursor) EnterBits() {
	c.frames = append(c.frames, frame{mode: modeBits, limit: c.limit()})
}

// ExitBits pops the bits-mode frame and aligns to the next byte
// boundary if a partial byte was in progress (spec.md §4.F
// escape_bits_mode, §8 invariant 5 "bit mode closure").
func (c *Cursor) ExitBits() {
	c.frames = c.frames[:len(c.frames)-1]
	if c.bitPos != 0 {
		c.bitPos = 0
		c.pos++
	}
}

// OpenMark pushes a save-point of the given mode, remembering the
// current position so the caller can later rewind to it with
// CloseMark. Used for Peek, PeekNot, each Union/UnionNondet branch
// attempt, and WithRelativeOffset.
func (c *Cursor) OpenMark(m mode) {
	c.frames = append(c.frames, frame{mode: m, limit: c.limit(), savedPos: c.pos, savedBitPos: c.bitPos})
}

// CloseMark pops the innermost save-point. If rewind is true, the
// cursor position is restored to what it was at the matching OpenMark
// call; if false, the position reached since OpenMark is kept.
func (c *Cursor) CloseMark(rewind bool) {
	top := c.top()
	c.frames = c.frames[:len(c.frames)-1]
	if rewind {
		c.pos = top.savedPos
		c.bitPos = top.savedBitPos
	}
}

// Seek moves the cursor to an absolute byte offset within the current
// frame's bound, for WithRelativeOffset (spec.md §4.F
// with_relative_offset). offset must already be base+off combined by
// the caller.
func (c *Cursor) Seek(offset int) error {
	if offset < 0 || offset > c.limit() {
		return diagnostics.At(diagnostics.UnexpectedEndOfInput, diagnostics.Pos(offset),
			"relative offset %d out of bounds", offset)
	}
	c.pos = offset
	c.bitPos = 0
	return nil
}
