package decoder

// This file records the two spec.md §9 Open Questions as they bear on
// this package, rather than re-deriving them at each call site.
//
// UnionNondet ordering. decodeUnionNondet commits to the first branch,
// in source order, that decodes without error; branches are allowed to
// have overlapping FIRST sets precisely because they are tried
// sequentially with rewind-on-failure instead of dispatched by
// lookahead. This is the reference implementation's own choice
// (preserved, not redesigned): a lookahead table would be cheaper but
// would also reject grammars the original accepts.
//
// End-of-input strictness at top level. Decode's StrictEOF option
// defaults to true (config.DefaultOptions), matching spec.md's "the
// core treats leftover bytes as an error by default". With StrictEOF
// false, Decode skips the end-of-input check and any trailing bytes
// are ignored without error. A caller that wants the trailing bytes
// consumed as part of the grammar can wrap its top-level format in
// format.MonadSeq{First: f, Second: format.SkipRemainder{}};
// SkipRemainder then consumes (and discards) them explicitly.
