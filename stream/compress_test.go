// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package stream_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/mjpartial/pjson"
	"github.com/mjpartial/pjson/stream"
)

func TestNewGzipByteSourceRoundTrip(t *testing.T) {
	const input = `{"a": [1, 2, 3], "b": "hello"}`

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(input)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}

	src, err := stream.NewGzipByteSource(&buf)
	if err != nil {
		t.Fatalf("NewGzipByteSource: %v", err)
	}
	dec := stream.NewDecoder(src)
	for dec.Next(context.Background()) {
	}
	if err := dec.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}

	plainDec := stream.NewDecoder(stream.NewByteSource(bytes.NewReader([]byte(input))))
	for plainDec.Next(context.Background()) {
	}
	if err := plainDec.Err(); err != nil {
		t.Fatalf("plain Err() = %v, want nil", err)
	}

	if !dec.Value().Equal(plainDec.Value()) {
		t.Errorf("gzip-decoded value = %+v, want %+v", dec.Value(), plainDec.Value())
	}
	want := pjson.Object([]pjson.Member{
		{Key: "a", Value: pjson.Array([]pjson.Value{
			pjson.NumberFromInt64(1), pjson.NumberFromInt64(2), pjson.NumberFromInt64(3),
		})},
		{Key: "b", Value: pjson.String("hello")},
	})
	if !dec.Value().Equal(want) {
		t.Errorf("gzip-decoded value = %+v, want %+v", dec.Value(), want)
	}
}
