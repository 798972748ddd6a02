// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package stream implements a pull-style façade over [pjson.Tokenizer] and
// [builder.Builder], shaped like a conventional scanner: construct a
// [Decoder], call [Decoder.Next] in a loop, and inspect [Decoder.Value]
// after each call that returns true.
package stream

import (
	"context"
	"io"

	"github.com/mjpartial/pjson"
	"github.com/mjpartial/pjson/builder"
)

// Decoder incrementally decodes a single JSON value from a [pjson.ChunkSource].
//
// Construct one with [NewDecoder] and call [Decoder.Next] in a loop:
//
//	dec := stream.NewDecoder(src)
//	for dec.Next(ctx) {
//	    partial := dec.Value() // best-effort snapshot so far
//	}
//	if err := dec.Err(); err != nil {
//	    log.Fatalf("decode failed: %v", err)
//	}
//	final := dec.Value()
//
// Next returns false both when decoding is complete and when an error
// occurred; use [Decoder.Err] to tell them apart, exactly as with
// [bufio.Scanner].
type Decoder struct {
	tok *pjson.Tokenizer
	b   *builder.Builder

	cur pjson.Value
	err error
	eof bool
}

// NewDecoder constructs a Decoder reading from src.
func NewDecoder(src pjson.ChunkSource) *Decoder {
	return &Decoder{tok: pjson.NewTokenizer(src), b: builder.New()}
}

// AllowComments configures whether "//" and "/* */" comments are accepted
// outside of string literals. Disabled by default.
func (d *Decoder) AllowComments(ok bool) { d.tok.AllowComments(ok) }

// AllowTrailingCommas configures whether a trailing comma is accepted
// before a closing bracket or brace. Disabled by default.
func (d *Decoder) AllowTrailingCommas(ok bool) { d.tok.AllowTrailingCommas(ok) }

// Next advances the decoder by pumping the underlying Tokenizer until a
// meaningful, value-level change has been committed — it will not report a
// fresh snapshot merely because an object key's characters arrived, since
// that would surface two consecutive, structurally identical snapshots to
// the caller. It reports whether a fresh, possibly still-incomplete
// snapshot is available via [Decoder.Value]. It returns false once the
// value is complete or an error has occurred; call [Decoder.Err] to
// distinguish the two.
func (d *Decoder) Next(ctx context.Context) bool {
	if d.err != nil || d.eof {
		return false
	}
	for {
		err := d.tok.Pump(ctx, d.b)
		if err == io.EOF {
			d.cur = d.b.Snapshot()
			d.eof = true
			return false
		} else if err != nil {
			d.err = err
			return false
		}
		if d.b.TakeProgress() {
			d.cur = d.b.Snapshot()
			return true
		}
	}
}

// Value returns the most recent snapshot produced by Next. Before the
// first call to Next it is JSON null.
func (d *Decoder) Value() pjson.Value { return d.cur }

// Done reports whether a complete top-level value has been decoded.
func (d *Decoder) Done() bool { return d.b.Done() }

// Err returns the error that stopped decoding, or nil if decoding is still
// in progress or completed successfully.
func (d *Decoder) Err() error { return d.err }
