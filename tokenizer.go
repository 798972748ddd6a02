// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package pjson

import (
	"context"
	"io"
	"unicode/utf8"

	"go4.org/mem"
)

// TokenHandler receives token events from a [Tokenizer]. Implementations
// must not retain text beyond the call; the Tokenizer reuses its internal
// buffers between calls. See
// [github.com/mjpartial/pjson/builder.Builder] for the handler that turns
// these events into [Value] snapshots.
type TokenHandler interface {
	// HandleToken reports a single token. text carries the token's payload
	// where one exists (the digits of a Number, a fragment of a string's
	// content for StringMiddle, the raw source of a comment); it is nil for
	// tokens with no payload (ArrayStart, ObjectEnd, and so on). Commas and
	// colons are structural and are consumed internally; they are never
	// reported to the handler.
	HandleToken(tok Token, text []byte) error
}

// frame is a single entry of the Tokenizer's container stack. It records
// only the kind of the open container, per the decoder's stack-frame data
// model: all other state needed to resume parsing lives in mode.
type frame struct {
	kind Token // ArrayStart or ObjectStart
}

// mode identifies what the Tokenizer currently expects to see next.
type mode int

const (
	mTopValue mode = iota
	mDone

	mArrayStart // '[' just consumed: a value or ']' is expected
	mArrayValue // after a comma: a value is expected
	mArrayNext  // after a value: ',' or ']' is expected

	mObjectStart // '{' just consumed: a string key or '}' is expected
	mObjectKey   // after a comma: a string key is expected
	mColon       // after a key: ':' is expected
	mObjectValue // after a colon: a value is expected
	mObjectNext  // after a value: ',' or '}' is expected
)

// stepStatus reports what a single call to Tokenizer.advance accomplished.
type stepStatus int

const (
	stepBlocked stepStatus = iota
	stepProgressed
	stepEmitted
	stepDone
)

// keyword scanning state, persisted across Pump calls since a keyword
// literal can straddle a chunk boundary.
type keywordScan struct {
	tok   Token
	want  string
	text  []byte
	total int
}

// number scanning state machine, persisted across Pump calls for the same
// reason. The states follow the JSON number grammar exactly.
type numState int

const (
	numStart numState = iota
	numAfterMinus
	numIntZero // saw a leading 0 digit; no further integer digits allowed
	numIntDigits
	numAfterDot
	numFracDigits
	numAfterE
	numAfterESign
	numExpDigits
)

type numberScan struct {
	state numState
	text  []byte
}

// string scanning state, persisted across Pump calls.
type stringScan struct {
	active    bool
	isKey     bool
	started   bool // StringStart already emitted
	closeOnly bool // body is fully scanned; only StringEnd remains to emit
	frag      []byte

	inEscape bool // just consumed an unescaped backslash, awaiting the escape char
	inHex    bool // collecting a \uXXXX escape
	hexDigit [4]byte
	hexLen   int
}

// comment scanning state, persisted across Pump calls.
type commentScan struct {
	active  bool
	block   bool // true for /* ... */, false for // ...\n
	sawStar bool // last byte seen inside a block comment was '*'
	text    []byte
}

// Tokenizer converts the bytes delivered by a [ChunkSource] into a stream
// of [Token] events, delivered to a [TokenHandler] by [Tokenizer.Pump].
//
// A Tokenizer is not safe for concurrent use.
type Tokenizer struct {
	buf   *buffer
	stack []frame
	mode  mode

	allowComments      bool
	allowTrailingComma bool

	kw  keywordScan
	num numberScan
	str stringScan
	cmt commentScan
}

// NewTokenizer constructs a Tokenizer that reads from src.
func NewTokenizer(src ChunkSource) *Tokenizer {
	return &Tokenizer{buf: newBuffer(src), mode: mTopValue}
}

// AllowComments configures whether the Tokenizer accepts "//" and "/* */"
// comments outside of string literals, reporting them to the handler as
// LineComment and BlockComment tokens. Comments are rejected by default.
func (t *Tokenizer) AllowComments(ok bool) { t.allowComments = ok }

// AllowTrailingCommas configures whether the Tokenizer accepts a trailing
// comma before the closing bracket of an array or brace of an object.
// Trailing commas are rejected by default.
func (t *Tokenizer) AllowTrailingCommas(ok bool) { t.allowTrailingComma = ok }

// IsDone reports whether the Tokenizer has finished parsing a complete
// top-level value and has observed no trailing non-whitespace content.
func (t *Tokenizer) IsDone() bool { return t.mode == mDone && !t.cmt.active }

// Pump delivers zero or more token events to h and returns. It blocks on
// the underlying ChunkSource only when it has not yet emitted any token
// during this call and genuinely needs more input to make progress; once it
// has emitted at least one token, it returns as soon as the next step would
// otherwise block, rather than waiting further. Callers are expected to
// call Pump repeatedly (for example in a loop around a context with a
// deadline) until it returns io.EOF.
//
// Pump returns io.EOF once a complete top-level value has been parsed and
// no further non-whitespace input remains. Any other error is of type
// [*Error].
func (t *Tokenizer) Pump(ctx context.Context, h TokenHandler) error {
	emitted := false
	for {
		status, err := t.advance(h)
		if err != nil {
			return err
		}
		switch status {
		case stepDone:
			return io.EOF
		case stepEmitted:
			emitted = true
			continue
		case stepProgressed:
			continue
		case stepBlocked:
			if emitted {
				return nil
			}
			exhausted, ferr := t.buf.fill(ctx)
			if ferr != nil {
				return ferr
			}
			if !exhausted {
				continue
			}
			// One more attempt now that the source reports exhaustion: some
			// transitions (e.g. a number terminated by end of input) only
			// resolve once no further bytes will ever arrive.
			status2, err2 := t.advance(h)
			if err2 != nil {
				return err2
			}
			switch status2 {
			case stepDone:
				return io.EOF
			case stepEmitted, stepProgressed:
				emitted = true
				continue
			default:
				if t.mode == mDone {
					return io.EOF
				}
				return t.unexpectedEOF()
			}
		}
	}
}

func (t *Tokenizer) unexpectedEOF() error {
	return syntaxErrorf(KindUnexpectedEndOfContent, t.buf.offset(), "unexpected end of content")
}

// advance performs a single unit of work: it emits at most one token, or
// makes some other internal transition (consuming whitespace, a comma, a
// colon), or reports that it is blocked for lack of buffered input.
func (t *Tokenizer) advance(h TokenHandler) (stepStatus, error) {
	if t.cmt.active {
		return t.scanComment(h)
	}
	if t.str.active {
		return t.scanString(h)
	}
	if t.kw.total > 0 {
		return t.scanKeyword(h)
	}
	if t.num.state != numStart || len(t.num.text) > 0 {
		return t.scanNumber(h)
	}

	b, ok := t.buf.peekByte()
	if !ok {
		return stepBlocked, nil
	}

	switch b {
	case ' ', '\t', '\n', '\r':
		t.buf.advance(1)
		return stepProgressed, nil
	case '/':
		if !t.allowComments {
			return stepBlocked, syntaxErrorf(KindSyntax, t.buf.offset(), "comments are not enabled")
		}
		return t.beginComment(h)
	}

	switch t.mode {
	case mDone:
		return stepBlocked, syntaxErrorf(KindUnexpectedTrailingContent, t.buf.offset(), "unexpected trailing content %q", b)

	case mArrayStart, mArrayValue:
		if b == ']' && (t.mode == mArrayStart || t.allowTrailingComma) {
			t.buf.advance(1)
			return t.closeContainer(h, ArrayEnd)
		}
		return t.beginValue(h, b)

	case mTopValue, mObjectValue:
		return t.beginValue(h, b)

	case mArrayNext:
		t.buf.advance(1)
		switch b {
		case ',':
			t.mode = mArrayValue
			return stepProgressed, nil
		case ']':
			return t.closeContainer(h, ArrayEnd)
		default:
			return stepBlocked, syntaxErrorf(KindExpectedCommaOrBracket, t.buf.offset()-1, "expected ',' or ']', got %q", b)
		}

	case mObjectStart:
		switch b {
		case '"':
			return t.beginString(h, true)
		case '}':
			t.buf.advance(1)
			return t.closeContainer(h, ObjectEnd)
		default:
			return stepBlocked, syntaxErrorf(KindExpectedObjectKey, t.buf.offset(), "expected object key or '}', got %q", b)
		}

	case mObjectKey:
		switch b {
		case '"':
			return t.beginString(h, true)
		case '}':
			if t.allowTrailingComma {
				t.buf.advance(1)
				return t.closeContainer(h, ObjectEnd)
			}
			fallthrough
		default:
			return stepBlocked, syntaxErrorf(KindExpectedObjectKey, t.buf.offset(), "expected object key, got %q", b)
		}

	case mColon:
		t.buf.advance(1)
		if b != ':' {
			return stepBlocked, syntaxErrorf(KindExpectedColon, t.buf.offset()-1, "expected ':', got %q", b)
		}
		t.mode = mObjectValue
		return stepProgressed, nil

	case mObjectNext:
		t.buf.advance(1)
		switch b {
		case ',':
			t.mode = mObjectKey
			return stepProgressed, nil
		case '}':
			return t.closeContainer(h, ObjectEnd)
		default:
			return stepBlocked, syntaxErrorf(KindExpectedCommaOrBrace, t.buf.offset()-1, "expected ',' or '}', got %q", b)
		}
	}
	return stepBlocked, internalErrorf(t.buf.offset(), "tokenizer in unreachable mode %d", t.mode)
}

// beginValue dispatches on the first byte of a value.
func (t *Tokenizer) beginValue(h TokenHandler, b byte) (stepStatus, error) {
	switch {
	case b == '"':
		return t.beginString(h, false)
	case b == '{':
		t.buf.advance(1)
		t.stack = append(t.stack, frame{kind: ObjectStart})
		t.mode = mObjectStart
		return stepEmitted, h.HandleToken(ObjectStart, nil)
	case b == '[':
		t.buf.advance(1)
		t.stack = append(t.stack, frame{kind: ArrayStart})
		t.mode = mArrayStart
		return stepEmitted, h.HandleToken(ArrayStart, nil)
	case b == 't':
		return t.beginKeyword(Boolean, "true")
	case b == 'f':
		return t.beginKeyword(Boolean, "false")
	case b == 'n':
		return t.beginKeyword(Null, "null")
	case b == '-' || (b >= '0' && b <= '9'):
		return t.scanNumber(h)
	default:
		return stepBlocked, syntaxErrorf(KindSyntax, t.buf.offset(), "unexpected character %q at start of value", b)
	}
}

// afterValue transitions mode once a complete value (scalar or a closed
// container) has just been produced.
func (t *Tokenizer) afterValue() {
	if len(t.stack) == 0 {
		t.mode = mDone
		return
	}
	switch t.stack[len(t.stack)-1].kind {
	case ArrayStart:
		t.mode = mArrayNext
	case ObjectStart:
		t.mode = mObjectNext
	}
}

func (t *Tokenizer) closeContainer(h TokenHandler, end Token) (stepStatus, error) {
	if len(t.stack) == 0 {
		return stepBlocked, internalErrorf(t.buf.offset(), "close with empty container stack")
	}
	t.stack = t.stack[:len(t.stack)-1]
	t.afterValue()
	return stepEmitted, h.HandleToken(end, nil)
}

// --- keywords ---

func (t *Tokenizer) beginKeyword(tok Token, want string) (stepStatus, error) {
	t.kw = keywordScan{tok: tok, want: want, total: 1, text: make([]byte, 0, len(want))}
	return stepProgressed, nil
}

func (t *Tokenizer) scanKeyword(h TokenHandler) (stepStatus, error) {
	for len(t.kw.text) < len(t.kw.want) {
		b, ok := t.buf.peekByte()
		if !ok {
			return stepBlocked, nil
		}
		if b != t.kw.want[len(t.kw.text)] {
			return stepBlocked, syntaxErrorf(KindSyntax, t.buf.offset(), "malformed keyword literal, want %q", t.kw.want)
		}
		t.buf.advance(1)
		t.kw.text = append(t.kw.text, b)
	}
	if !mem.B(t.kw.text).Equal(mem.S(t.kw.want)) {
		return stepBlocked, internalErrorf(t.buf.offset(), "keyword scan produced %q, wanted %q", t.kw.text, t.kw.want)
	}
	tok, text := t.kw.tok, t.kw.text
	t.kw = keywordScan{}
	t.afterValue()
	if tok == Boolean {
		return stepEmitted, h.HandleToken(Boolean, text)
	}
	return stepEmitted, h.HandleToken(Null, nil)
}

// --- numbers ---

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func (t *Tokenizer) scanNumber(h TokenHandler) (stepStatus, error) {
	for {
		b, ok := t.buf.peekByte()
		if !ok {
			if t.buf.exhausted {
				return t.finishNumber(h)
			}
			return stepBlocked, nil
		}
		switch t.num.state {
		case numStart:
			if b == '-' {
				t.num.state = numAfterMinus
				break
			}
			fallthrough
		case numAfterMinus:
			if b == '0' {
				t.num.state = numIntZero
			} else if isDigit(b) {
				t.num.state = numIntDigits
			} else {
				return stepBlocked, syntaxErrorf(KindInvalidNumber, t.buf.offset(), "invalid number")
			}
		case numIntZero:
			if b == '.' {
				t.num.state = numAfterDot
			} else if b == 'e' || b == 'E' {
				t.num.state = numAfterE
			} else if isDigit(b) {
				return stepBlocked, syntaxErrorf(KindInvalidNumber, t.buf.offset(), "invalid number: leading zero")
			} else {
				return t.finishNumber(h)
			}
		case numIntDigits:
			if isDigit(b) {
				// stay
			} else if b == '.' {
				t.num.state = numAfterDot
			} else if b == 'e' || b == 'E' {
				t.num.state = numAfterE
			} else {
				return t.finishNumber(h)
			}
		case numAfterDot:
			if isDigit(b) {
				t.num.state = numFracDigits
			} else {
				return stepBlocked, syntaxErrorf(KindInvalidNumber, t.buf.offset(), "invalid number: digit required after '.'")
			}
		case numFracDigits:
			if isDigit(b) {
				// stay
			} else if b == 'e' || b == 'E' {
				t.num.state = numAfterE
			} else {
				return t.finishNumber(h)
			}
		case numAfterE:
			if b == '+' || b == '-' {
				t.num.state = numAfterESign
			} else if isDigit(b) {
				t.num.state = numExpDigits
			} else {
				return stepBlocked, syntaxErrorf(KindInvalidNumber, t.buf.offset(), "invalid number: digit required in exponent")
			}
		case numAfterESign:
			if isDigit(b) {
				t.num.state = numExpDigits
			} else {
				return stepBlocked, syntaxErrorf(KindInvalidNumber, t.buf.offset(), "invalid number: digit required in exponent")
			}
		case numExpDigits:
			if isDigit(b) {
				// stay
			} else {
				return t.finishNumber(h)
			}
		}
		t.buf.advance(1)
		t.num.text = append(t.num.text, b)
	}
}

// finishNumber is reached either because a non-numeric delimiter was seen
// without being consumed, or because the source is exhausted.
func (t *Tokenizer) finishNumber(h TokenHandler) (stepStatus, error) {
	switch t.num.state {
	case numIntZero, numIntDigits, numFracDigits, numExpDigits:
		text := t.num.text
		t.num = numberScan{}
		t.afterValue()
		return stepEmitted, h.HandleToken(Number, text)
	default:
		return stepBlocked, syntaxErrorf(KindInvalidNumber, t.buf.offset(), "truncated number literal")
	}
}

// --- strings ---

func (t *Tokenizer) beginString(h TokenHandler, isKey bool) (stepStatus, error) {
	t.buf.advance(1) // opening quote
	t.str = stringScan{active: true, isKey: isKey}
	return t.scanString(h)
}

func (t *Tokenizer) scanString(h TokenHandler) (stepStatus, error) {
	if !t.str.started {
		t.str.started = true
		return stepEmitted, h.HandleToken(StringStart, nil)
	}
	if t.str.closeOnly {
		return t.finishString(h)
	}

	for {
		if t.str.inHex {
			for t.str.hexLen < 4 {
				b, ok := t.buf.peekByte()
				if !ok {
					return stepBlocked, nil
				}
				t.buf.advance(1)
				t.str.hexDigit[t.str.hexLen] = b
				t.str.hexLen++
			}
			r, err := decodeHex4(t.str.hexDigit)
			if err != nil {
				return stepBlocked, syntaxErrorf(KindBadUnicodeEscape, t.buf.offset(), "bad \\u escape: %v", err)
			}
			t.str.frag = appendRuneAsUTF8(t.str.frag, r)
			t.str.inHex = false
			t.str.hexLen = 0
			continue
		}

		if t.str.inEscape {
			b, ok := t.buf.peekByte()
			if !ok {
				return stepBlocked, nil
			}
			t.buf.advance(1)
			t.str.inEscape = false
			switch b {
			case '"', '\\', '/':
				t.str.frag = append(t.str.frag, b)
			case 'b':
				t.str.frag = append(t.str.frag, '\b')
			case 'f':
				t.str.frag = append(t.str.frag, '\f')
			case 'n':
				t.str.frag = append(t.str.frag, '\n')
			case 'r':
				t.str.frag = append(t.str.frag, '\r')
			case 't':
				t.str.frag = append(t.str.frag, '\t')
			case 'u':
				t.str.inHex = true
			default:
				return stepBlocked, syntaxErrorf(KindBadEscape, t.buf.offset(), "unrecognized escape \\%c", b)
			}
			continue
		}

		b, ok := t.buf.peekByte()
		if !ok {
			if len(t.str.frag) > 0 {
				frag := t.str.frag
				t.str.frag = nil
				return stepEmitted, h.HandleToken(StringMiddle, frag)
			}
			return stepBlocked, nil
		}

		switch {
		case b == '"':
			t.buf.advance(1)
			if len(t.str.frag) > 0 {
				frag := t.str.frag
				t.str.frag = nil
				t.str.closeOnly = true
				return stepEmitted, h.HandleToken(StringMiddle, frag)
			}
			return t.finishString(h)
		case b == '\\':
			t.buf.advance(1)
			t.str.inEscape = true
		case b < 0x20:
			return stepBlocked, syntaxErrorf(KindSyntax, t.buf.offset(), "control character in string")
		default:
			t.buf.advance(1)
			t.str.frag = append(t.str.frag, b)
		}
	}
}

func (t *Tokenizer) finishString(h TokenHandler) (stepStatus, error) {
	isKey := t.str.isKey
	t.str = stringScan{}
	if isKey {
		t.mode = mColon
	} else {
		t.afterValue()
	}
	return stepEmitted, h.HandleToken(StringEnd, nil)
}

func decodeHex4(digits [4]byte) (rune, error) {
	var v rune
	for _, d := range digits {
		v <<= 4
		switch {
		case d >= '0' && d <= '9':
			v |= rune(d - '0')
		case d >= 'a' && d <= 'f':
			v |= rune(d-'a') + 10
		case d >= 'A' && d <= 'F':
			v |= rune(d-'A') + 10
		default:
			return 0, io.ErrUnexpectedEOF
		}
	}
	return v, nil
}

// appendRuneAsUTF8 appends r to buf as UTF-8. A lone UTF-16 surrogate code
// point (neither combined with nor produced by its partner, per the
// decoder's design choice not to join surrogate pairs) is encoded as the
// Unicode replacement character, matching utf8.EncodeRune's behavior for
// any value that is not a valid rune.
func appendRuneAsUTF8(buf []byte, r rune) []byte {
	var tmp [utf8.UTFMax]byte
	n := utf8.EncodeRune(tmp[:], r)
	return append(buf, tmp[:n]...)
}

// --- comments ---

func (t *Tokenizer) beginComment(h TokenHandler) (stepStatus, error) {
	text := t.buf.peek(2)
	if len(text) < 2 {
		return stepBlocked, nil
	}
	t.buf.advance(1) // leading '/'
	switch text[1] {
	case '/':
		t.buf.advance(1)
		t.cmt = commentScan{active: true, block: false, text: []byte("//")}
	case '*':
		t.buf.advance(1)
		t.cmt = commentScan{active: true, block: true, text: []byte("/*")}
	default:
		return stepBlocked, syntaxErrorf(KindSyntax, t.buf.offset(), "unexpected character '/'")
	}
	return t.scanComment(h)
}

func (t *Tokenizer) scanComment(h TokenHandler) (stepStatus, error) {
	for {
		b, ok := t.buf.peekByte()
		if !ok {
			if t.cmt.block {
				return stepBlocked, nil
			}
			if t.buf.exhausted {
				return t.finishComment(h)
			}
			return stepBlocked, nil
		}
		t.buf.advance(1)
		t.cmt.text = append(t.cmt.text, b)
		if !t.cmt.block {
			if b == '\n' {
				return t.finishComment(h)
			}
			continue
		}
		if t.cmt.sawStar && b == '/' {
			return t.finishComment(h)
		}
		t.cmt.sawStar = b == '*'
	}
}

func (t *Tokenizer) finishComment(h TokenHandler) (stepStatus, error) {
	tok := LineComment
	if t.cmt.block {
		tok = BlockComment
	}
	text := t.cmt.text
	t.cmt = commentScan{}
	return stepEmitted, h.HandleToken(tok, text)
}
