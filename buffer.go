// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package pjson

import (
	"context"
	"io"
)

// ChunkSource supplies the raw bytes of a JSON document on demand. Unlike
// an io.Reader, NextChunk is expected to be called only when the Tokenizer
// has exhausted its buffered input and genuinely needs more to make
// progress, which lets a ChunkSource block on a slow producer (a network
// socket, an LLM token stream, a pipe) without the Tokenizer itself ever
// blocking unnecessarily.
//
// NextChunk returns io.EOF once the source is exhausted. It may also return
// io.EOF together with a final non-empty chunk.
type ChunkSource interface {
	NextChunk(ctx context.Context) ([]byte, error)
}

// buffer is a growable window over the bytes delivered by a ChunkSource. It
// mirrors the read-ahead discipline of a conventional buffered reader, but
// pulls more input only when asked (pump) rather than eagerly.
type buffer struct {
	src ChunkSource

	data []byte // buffered, unconsumed bytes
	pos  int    // read cursor into data

	base      Offset // stream offset of data[0]
	exhausted bool   // true once src has reported io.EOF
}

func newBuffer(src ChunkSource) *buffer {
	return &buffer{src: src}
}

// offset reports the stream offset of the next unread byte.
func (b *buffer) offset() Offset { return b.base + Offset(b.pos) }

// compact discards already-consumed bytes from the front of data so the
// buffer doesn't grow without bound over a long-running stream.
func (b *buffer) compact() {
	if b.pos == 0 {
		return
	}
	b.base += Offset(b.pos)
	n := copy(b.data, b.data[b.pos:])
	b.data = b.data[:n]
	b.pos = 0
}

// fill requests one more chunk from the source and appends it to data. It
// reports whether the source is now exhausted.
func (b *buffer) fill(ctx context.Context) (bool, error) {
	if b.exhausted {
		return true, nil
	}
	b.compact()
	chunk, err := b.src.NextChunk(ctx)
	if len(chunk) > 0 {
		b.data = append(b.data, chunk...)
	}
	if err == io.EOF {
		b.exhausted = true
		return true, nil
	} else if err != nil {
		return false, err
	}
	return false, nil
}

// avail reports how many unconsumed bytes are currently buffered, without
// requesting more from the source.
func (b *buffer) avail() int { return len(b.data) - b.pos }

// peek returns up to the next n unconsumed bytes without advancing the read
// cursor. The returned slice may be shorter than n if fewer bytes are
// buffered; it is never longer.
func (b *buffer) peek(n int) []byte {
	end := b.pos + n
	if end > len(b.data) {
		end = len(b.data)
	}
	return b.data[b.pos:end]
}

// peekByte returns the next unconsumed byte without advancing the cursor.
// The second result is false if no byte is currently buffered.
func (b *buffer) peekByte() (byte, bool) {
	if b.avail() == 0 {
		return 0, false
	}
	return b.data[b.pos], true
}

// advance consumes n buffered bytes. The caller must ensure n <= avail().
func (b *buffer) advance(n int) { b.pos += n }

// next consumes and returns the next buffered byte. The caller must ensure
// avail() > 0.
func (b *buffer) next() byte {
	c := b.data[b.pos]
	b.pos++
	return c
}
