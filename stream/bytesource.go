// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package stream

import (
	"bufio"
	"context"
	"io"

	"github.com/mjpartial/pjson"
)

// chunkSize is the amount of input ByteSource asks its underlying reader
// for at a time.
const chunkSize = 4096

// ByteSource adapts an [io.Reader] into a [pjson.ChunkSource], grounded on
// the teacher's own discipline of wrapping a reader in a [bufio.Reader]
// and pulling bytes from it on demand (see Scanner.rune in the teacher),
// generalized here to pull whole chunks at a time rather than one byte at
// a time, since a ChunkSource is meant to amortize the cost of each read.
type ByteSource struct {
	r *bufio.Reader
}

// NewByteSource constructs a ByteSource reading from r.
func NewByteSource(r io.Reader) *ByteSource {
	return &ByteSource{r: bufio.NewReaderSize(r, chunkSize)}
}

// NextChunk implements [pjson.ChunkSource].
func (s *ByteSource) NextChunk(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf := make([]byte, chunkSize)
	n, err := s.r.Read(buf)
	return buf[:n], err
}

var _ pjson.ChunkSource = (*ByteSource)(nil)
