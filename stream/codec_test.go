// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package stream_test

import (
	"context"
	"strings"
	"testing"

	"github.com/mjpartial/pjson/stream"
)

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func TestDecoderInto(t *testing.T) {
	dec := stream.NewDecoder(stream.NewByteSource(strings.NewReader(`{"x": 3, "y": 4}`)))
	for dec.Next(context.Background()) {
	}
	if err := dec.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}

	var p point
	if err := dec.Into(&p); err != nil {
		t.Fatalf("Into: %v", err)
	}
	if p != (point{X: 3, Y: 4}) {
		t.Errorf("Into result = %+v, want {3 4}", p)
	}
}

func TestDecoderIntoWithGoccy(t *testing.T) {
	dec := stream.NewDecoder(stream.NewByteSource(strings.NewReader(`{"x": 5, "y": 6}`)))
	for dec.Next(context.Background()) {
	}
	if err := dec.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}

	var p point
	if err := dec.IntoWith(&p, stream.GoccyCodec{}); err != nil {
		t.Fatalf("IntoWith: %v", err)
	}
	if p != (point{X: 5, Y: 6}) {
		t.Errorf("IntoWith result = %+v, want {5 6}", p)
	}
}
