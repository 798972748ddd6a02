// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package builder implements a [pjson.TokenHandler] that assembles the
// token events from a [pjson.Tokenizer] into [pjson.Value] snapshots,
// exposing the value under construction at any point, not only once it is
// complete.
package builder

import "github.com/mjpartial/pjson"

// Builder implements [pjson.TokenHandler]. Construct one with [New], feed
// it to a [pjson.Tokenizer]'s Pump, and call [Builder.Snapshot] whenever an
// up-to-date view of the value under construction is wanted.
//
// A Builder decodes exactly one top-level JSON value; call [Builder.Reset]
// to reuse it for a subsequent value.
type Builder struct {
	root Value
	done bool

	stack []frame

	curActive bool // a string is currently being scanned
	curIsKey  bool
	curFrag   []byte

	// progressed records whether a value-level change (as opposed to
	// object-key bookkeeping alone) has been observed since the last call
	// to TakeProgress. It backs the meaningful-progress contract a pull
	// loop needs: growing a key's characters across chunk boundaries must
	// not, by itself, look like a reportable change in the value.
	progressed bool
}

// Value is an alias kept local to this package only to shorten signatures
// below; it is exactly pjson.Value.
type Value = pjson.Value

// New constructs an empty Builder.
func New() *Builder { return &Builder{root: pjson.NullValue()} }

// Reset discards any in-progress or completed value and prepares b to
// decode a new top-level value.
func (b *Builder) Reset() {
	*b = Builder{root: pjson.NullValue()}
}

// Done reports whether a complete top-level value has been assembled.
func (b *Builder) Done() bool { return b.done }

// TakeProgress reports whether HandleToken has committed any value-level
// change — a scalar, a string value's content, or a container opening or
// closing — since the last call to TakeProgress, and clears the flag.
// Growing or completing an object member's key does not count: a caller
// pumping in a loop should keep pumping rather than report a fresh
// snapshot when only key bookkeeping, and no value, has changed.
func (b *Builder) TakeProgress() bool {
	p := b.progressed
	b.progressed = false
	return p
}

// Snapshot returns the current best-effort view of the value under
// construction. Before any token has arrived this is JSON null. The
// returned Value is an independent, immutable copy: later calls to
// Snapshot, or further tokens delivered to b, never modify a Value
// previously returned.
//
// Snapshot refreshes every currently open container on the path from the
// innermost one to the root, so its cost is proportional to the number of
// elements in containers that are still being filled in, not to the size
// of the whole value assembled so far.
func (b *Builder) Snapshot() Value {
	for i := len(b.stack) - 1; i >= 0; i-- {
		fr := b.stack[i]
		snap := fr.snapshot()
		if i == 0 {
			b.root = snap
			continue
		}
		b.stack[i-1].replaceLast(snap)
	}
	return b.root
}

func (f frame) snapshot() Value {
	if f.kind == frameArray {
		return f.arr.snapshot()
	}
	return f.obj.snapshot()
}

func (f frame) replaceLast(v Value) {
	if f.kind == frameArray {
		f.arr.replaceLast(v)
		return
	}
	f.obj.replaceLast(f.openKey, v)
}

// HandleToken implements [pjson.TokenHandler].
func (b *Builder) HandleToken(tok pjson.Token, text []byte) error {
	switch tok {
	case pjson.Null:
		return b.commitScalar(pjson.NullValue())
	case pjson.Boolean:
		return b.commitScalar(pjson.Bool(len(text) > 0 && text[0] == 't'))
	case pjson.Number:
		return b.commitScalar(pjson.RawNumber(string(text)))

	case pjson.StringStart:
		return b.beginString()
	case pjson.StringMiddle:
		return b.growString(text)
	case pjson.StringEnd:
		return b.endString()

	case pjson.ArrayStart:
		return b.pushContainer(frameArray)
	case pjson.ArrayEnd:
		return b.popContainer(frameArray)
	case pjson.ObjectStart:
		return b.pushContainer(frameObject)
	case pjson.ObjectEnd:
		return b.popContainer(frameObject)

	case pjson.LineComment, pjson.BlockComment:
		return nil // comments carry no value and are discarded

	default:
		return &pjson.Error{Kind: pjson.KindInternal, Message: "builder: unexpected token " + tok.String()}
	}
}

func (b *Builder) commitScalar(v Value) error {
	b.commitValue(v)
	if len(b.stack) == 0 {
		b.done = true
	}
	return nil
}

// commitValue inserts a new value into whatever slot is currently open:
// appended to the top array, set against the pending key of the top
// object, or, if no container is open, the top-level value itself.
func (b *Builder) commitValue(v Value) {
	b.progressed = true
	if len(b.stack) == 0 {
		b.root = v
		return
	}
	top := &b.stack[len(b.stack)-1]
	if top.kind == frameArray {
		top.arr.append(v)
		return
	}
	top.obj.set(top.pendingKey, v)
	top.openKey = top.pendingKey
	top.pendingKey = ""
	top.expectKey = true
}

// replaceTopSlot overwrites the value most recently inserted by
// commitValue into the current slot, used while a string's content is
// still growing and when a container just closed. For an object frame this
// targets the member named by openKey, not whichever member is physically
// last, since a duplicate key can overwrite an earlier member in place.
func (b *Builder) replaceTopSlot(v Value) {
	if len(b.stack) == 0 {
		b.root = v
		return
	}
	top := &b.stack[len(b.stack)-1]
	if top.kind == frameArray {
		top.arr.replaceLast(v)
		return
	}
	top.obj.replaceLast(top.openKey, v)
}

func (b *Builder) beginString() error {
	b.curActive = true
	b.curFrag = b.curFrag[:0]

	if len(b.stack) > 0 {
		top := &b.stack[len(b.stack)-1]
		if top.kind == frameObject && top.expectKey {
			b.curIsKey = true
			return nil
		}
	}
	b.curIsKey = false
	b.commitValue(pjson.String(""))
	return nil
}

func (b *Builder) growString(text []byte) error {
	if !b.curActive {
		return &pjson.Error{Kind: pjson.KindInternal, Message: "builder: string-middle with no open string"}
	}
	b.curFrag = append(b.curFrag, text...)
	if !b.curIsKey {
		b.replaceTopSlot(pjson.String(string(b.curFrag)))
		b.progressed = true
	}
	return nil
}

func (b *Builder) endString() error {
	if !b.curActive {
		return &pjson.Error{Kind: pjson.KindInternal, Message: "builder: string-end with no open string"}
	}
	text := string(b.curFrag)
	isKey := b.curIsKey
	b.curActive = false
	b.curIsKey = false
	b.curFrag = nil

	if isKey {
		if len(b.stack) == 0 {
			return &pjson.Error{Kind: pjson.KindInternal, Message: "builder: object key outside any object"}
		}
		top := &b.stack[len(b.stack)-1]
		top.pendingKey = text
		top.expectKey = false
		return nil
	}

	b.replaceTopSlot(pjson.String(text))
	if len(b.stack) == 0 {
		b.done = true
	}
	return nil
}

func (b *Builder) pushContainer(kind frameKind) error {
	var fr frame
	var placeholder Value
	switch kind {
	case frameArray:
		fr = frame{kind: frameArray, arr: newLiveArray()}
		placeholder = pjson.Array(nil)
	case frameObject:
		fr = frame{kind: frameObject, obj: newLiveObject(), expectKey: true}
		placeholder = pjson.Object(nil)
	}
	b.commitValue(placeholder)
	b.stack = append(b.stack, fr)
	return nil
}

func (b *Builder) popContainer(kind frameKind) error {
	if len(b.stack) == 0 || b.stack[len(b.stack)-1].kind != kind {
		return &pjson.Error{Kind: pjson.KindInternal, Message: "builder: close does not match open container"}
	}
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.replaceTopSlot(top.snapshot())
	b.progressed = true
	if len(b.stack) == 0 {
		b.done = true
	}
	return nil
}
