// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package stream

import (
	"bytes"
	"io"

	"github.com/mjpartial/pjson"
	"github.com/tailscale/hujson"
)

// StandardizeJWCC strips comments and trailing commas from data, a JSON
// document with Comments and Commas (JWCC, as used by tools such as VS
// Code's settings.json and tailscale.com's own config files), returning
// plain JSON. It is a one-shot, whole-document operation: hujson.Standardize
// needs to see the entire input to relocate the comment and trailing-comma
// handling correctly, so it cannot itself be streamed.
//
// The teacher repository declares github.com/tailscale/hujson as a direct
// dependency but never actually imports it; this is the first real use of
// it in this module.
func StandardizeJWCC(data []byte) ([]byte, error) {
	return hujson.Standardize(data)
}

// NewJWCCSource reads all of r, standardizes it as JWCC, and returns a
// [pjson.ChunkSource] over the resulting plain JSON so it can be decoded
// through the normal chunked pipeline. Prefer [pjson.Tokenizer.AllowComments]
// directly when the input is already known to be well-formed JSON with
// comments and no trailing commas; NewJWCCSource additionally tolerates
// trailing commas.
func NewJWCCSource(r io.Reader) (pjson.ChunkSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	std, err := StandardizeJWCC(data)
	if err != nil {
		return nil, err
	}
	return NewByteSource(bytes.NewReader(std)), nil
}
