// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package pjson

// Token identifies the kind of lexical event the [Tokenizer] has just
// produced. Unlike a conventional JSON tokenizer, a string value may be
// reported as a sequence of StringStart, zero or more StringMiddle, and
// StringEnd events, since the content of a string literal can straddle
// chunk boundaries.
type Token byte

const (
	// Invalid is the zero Token and is never produced by the Tokenizer.
	Invalid Token = iota

	Null
	Boolean
	Number

	StringStart
	StringMiddle
	StringEnd

	ArrayStart
	ArrayEnd

	ObjectStart
	ObjectEnd

	// LineComment and BlockComment are only produced when the Tokenizer has
	// AllowComments enabled.
	LineComment
	BlockComment
)

func (t Token) String() string {
	switch t {
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case StringStart:
		return "string-start"
	case StringMiddle:
		return "string-middle"
	case StringEnd:
		return "string-end"
	case ArrayStart:
		return "array-start"
	case ArrayEnd:
		return "array-end"
	case ObjectStart:
		return "object-start"
	case ObjectEnd:
		return "object-end"
	case LineComment:
		return "line-comment"
	case BlockComment:
		return "block-comment"
	default:
		return "invalid"
	}
}
