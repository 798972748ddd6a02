// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package stream

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

// NewGzipByteSource wraps r, which is expected to deliver a gzip-compressed
// JSON document, in a decompressing [ByteSource]. It uses
// github.com/klauspost/compress's gzip implementation, a faster drop-in
// replacement for the standard library's compress/gzip, for the transport
// concern of a chunk source whose upstream producer compresses its
// output (e.g. a log-shipping pipeline or an HTTP response with
// Content-Encoding: gzip).
func NewGzipByteSource(r io.Reader) (*ByteSource, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	return NewByteSource(zr), nil
}
