// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package pjson implements an incremental JSON decoder.
//
// Unlike a conventional decoder, which blocks until a value is fully read,
// pjson is built around a [Tokenizer] that consumes input as it arrives in
// chunks and a builder (see [github.com/mjpartial/pjson/builder]) that
// exposes a best-effort snapshot of the value under construction at any
// point, even before the input is complete.
//
// # Tokenizing
//
// A [Tokenizer] is constructed around a [ChunkSource], which supplies input
// on demand:
//
//	tok := pjson.NewTokenizer(src)
//	for {
//	    if err := tok.Pump(ctx, handler); err != nil {
//	        if err == io.EOF {
//	            break
//	        }
//	        log.Fatalf("Pump failed: %v", err)
//	    }
//	}
//
// Pump delivers zero or more token events to handler and returns. It blocks
// on src only when it has no token to report and needs more input to make
// progress.
//
// # Values
//
// [Value] is an immutable tagged union representing a JSON value: null, a
// boolean, a number, a string, an array, or an object. Values are produced
// as snapshots by a builder; see [github.com/mjpartial/pjson/builder] and
// [github.com/mjpartial/pjson/stream] for the pull-style façade most callers
// want.
package pjson
