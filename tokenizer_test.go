// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package pjson_test

import (
	"context"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mjpartial/pjson"
)

// chunkSource serves a fixed sequence of byte chunks, one per NextChunk
// call, to exercise the Tokenizer's ability to resume mid-token across
// chunk boundaries.
type chunkSource struct {
	chunks [][]byte
	i      int
}

func (s *chunkSource) NextChunk(context.Context) ([]byte, error) {
	if s.i >= len(s.chunks) {
		return nil, io.EOF
	}
	c := s.chunks[s.i]
	s.i++
	if s.i == len(s.chunks) {
		return c, io.EOF
	}
	return c, nil
}

// event mirrors a single HandleToken call for comparison in tests.
type event struct {
	Tok  pjson.Token
	Text string
}

type recorder struct{ events []event }

func (r *recorder) HandleToken(tok pjson.Token, text []byte) error {
	var s string
	if text != nil {
		s = string(text)
	}
	r.events = append(r.events, event{Tok: tok, Text: s})
	return nil
}

// runAll pumps tok to completion against a fresh recorder and returns the
// recorded events, or fails the test if a non-EOF error occurs.
func runAll(t *testing.T, tok *pjson.Tokenizer) []event {
	t.Helper()
	var rec recorder
	ctx := context.Background()
	for {
		err := tok.Pump(ctx, &rec)
		if err == io.EOF {
			return rec.events
		} else if err != nil {
			t.Fatalf("Pump: %v", err)
		}
	}
}

func TestTokenizerWholeChunks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []event
	}{
		{"null", `null`, []event{{pjson.Null, ""}}},
		{"true", `true`, []event{{pjson.Boolean, "true"}}},
		{"false", `false`, []event{{pjson.Boolean, "false"}}},
		{"number", `  -12.5e+2  `, []event{{pjson.Number, "-12.5e+2"}}},
		{"empty string", `""`, []event{
			{pjson.StringStart, ""}, {pjson.StringEnd, ""},
		}},
		{"string with escape", `"a\nb"`, []event{
			{pjson.StringStart, ""}, {pjson.StringMiddle, "a\nb"}, {pjson.StringEnd, ""},
		}},
		{"empty array", `[]`, []event{{pjson.ArrayStart, ""}, {pjson.ArrayEnd, ""}}},
		{"array of numbers", `[1, 2, 3]`, []event{
			{pjson.ArrayStart, ""},
			{pjson.Number, "1"}, {pjson.Number, "2"}, {pjson.Number, "3"},
			{pjson.ArrayEnd, ""},
		}},
		{"empty object", `{}`, []event{{pjson.ObjectStart, ""}, {pjson.ObjectEnd, ""}}},
		{"object", `{"a": 1, "b": true}`, []event{
			{pjson.ObjectStart, ""},
			{pjson.StringStart, ""}, {pjson.StringMiddle, "a"}, {pjson.StringEnd, ""},
			{pjson.Number, "1"},
			{pjson.StringStart, ""}, {pjson.StringMiddle, "b"}, {pjson.StringEnd, ""},
			{pjson.Boolean, "true"},
			{pjson.ObjectEnd, ""},
		}},
		{"nested", `{"a": [1, {"b": null}]}`, []event{
			{pjson.ObjectStart, ""},
			{pjson.StringStart, ""}, {pjson.StringMiddle, "a"}, {pjson.StringEnd, ""},
			{pjson.ArrayStart, ""},
			{pjson.Number, "1"},
			{pjson.ObjectStart, ""},
			{pjson.StringStart, ""}, {pjson.StringMiddle, "b"}, {pjson.StringEnd, ""},
			{pjson.Null, ""},
			{pjson.ObjectEnd, ""},
			{pjson.ArrayEnd, ""},
			{pjson.ObjectEnd, ""},
		}},
		{"duplicate keys", `{"a": 1, "a": 2}`, []event{
			{pjson.ObjectStart, ""},
			{pjson.StringStart, ""}, {pjson.StringMiddle, "a"}, {pjson.StringEnd, ""},
			{pjson.Number, "1"},
			{pjson.StringStart, ""}, {pjson.StringMiddle, "a"}, {pjson.StringEnd, ""},
			{pjson.Number, "2"},
			{pjson.ObjectEnd, ""},
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tok := pjson.NewTokenizer(&chunkSource{chunks: [][]byte{[]byte(test.input)}})
			got := runAll(t, tok)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("events (-want +got):\n%s", diff)
			}
		})
	}
}

// joinStringMiddles merges each run of adjacent StringMiddle events into
// one, since how a string's content is divided among StringMiddle events
// depends on where the chunk boundaries fall.
func joinStringMiddles(events []event) []event {
	var out []event
	for _, e := range events {
		if n := len(out); n > 0 && e.Tok == pjson.StringMiddle && out[n-1].Tok == pjson.StringMiddle {
			out[n-1].Text += e.Text
			continue
		}
		out = append(out, e)
	}
	return out
}

// TestTokenizerChunkBoundaries verifies that splitting the same input at
// every possible byte offset produces identical token events once adjacent
// StringMiddle fragments are joined, since a ChunkSource may hand the
// Tokenizer arbitrarily small chunks.
func TestTokenizerChunkBoundaries(t *testing.T) {
	const input = `{"greeting": "hello, world", "nums": [1, -2.5e1, null, true, false]}`
	want := joinStringMiddles(runAll(t, pjson.NewTokenizer(&chunkSource{chunks: [][]byte{[]byte(input)}})))

	for split := 1; split < len(input); split++ {
		src := &chunkSource{chunks: [][]byte{[]byte(input[:split]), []byte(input[split:])}}
		got := joinStringMiddles(runAll(t, pjson.NewTokenizer(src)))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("split at %d: events (-want +got):\n%s", split, diff)
		}
	}
}

func TestTokenizerByteAtATime(t *testing.T) {
	const input = `[true, "a\tb", {"x":1.5}]`
	chunks := make([][]byte, len(input))
	for i, b := range []byte(input) {
		chunks[i] = []byte{b}
	}
	tok := pjson.NewTokenizer(&chunkSource{chunks: chunks})
	got := runAll(t, tok)
	want := []event{
		{pjson.ArrayStart, ""},
		{pjson.Boolean, "true"},
		{pjson.StringStart, ""},
		{pjson.StringMiddle, "a"}, {pjson.StringMiddle, "\t"}, {pjson.StringMiddle, "b"},
		{pjson.StringEnd, ""},
		{pjson.ObjectStart, ""},
		{pjson.StringStart, ""}, {pjson.StringMiddle, "x"}, {pjson.StringEnd, ""},
		{pjson.Number, "1.5"},
		{pjson.ObjectEnd, ""},
		{pjson.ArrayEnd, ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestTokenizerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  pjson.ErrorKind
	}{
		{"trailing content", `1 2`, pjson.KindUnexpectedTrailingContent},
		{"truncated object", `{"a":1`, pjson.KindUnexpectedEndOfContent},
		{"truncated array", `[1,2`, pjson.KindUnexpectedEndOfContent},
		{"bad number", `01`, pjson.KindInvalidNumber},
		{"bad escape", `"\q"`, pjson.KindBadEscape},
		{"bad keyword", `nul1`, pjson.KindSyntax},
		{"missing colon", `{"a" 1}`, pjson.KindExpectedColon},
		{"missing comma array", `[1 2]`, pjson.KindExpectedCommaOrBracket},
		{"missing comma object", `{"a":1 "b":2}`, pjson.KindExpectedCommaOrBrace},
		{"bad object key", `{1:2}`, pjson.KindExpectedObjectKey},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tok := pjson.NewTokenizer(&chunkSource{chunks: [][]byte{[]byte(test.input)}})
			var rec recorder
			var err error
			for {
				err = tok.Pump(context.Background(), &rec)
				if err != nil {
					break
				}
			}
			if err == io.EOF {
				t.Fatalf("expected an error, got io.EOF (events: %+v)", rec.events)
			}
			perr, ok := err.(*pjson.Error)
			if !ok {
				t.Fatalf("expected *pjson.Error, got %T (%v)", err, err)
			}
			if perr.Kind != test.kind {
				t.Errorf("error kind = %v, want %v (message: %s)", perr.Kind, test.kind, perr.Message)
			}
		})
	}
}

func TestTokenizerAllowComments(t *testing.T) {
	const input = "// leading\n{ /* mid */ \"a\": 1 }\n"
	tok := pjson.NewTokenizer(&chunkSource{chunks: [][]byte{[]byte(input)}})
	tok.AllowComments(true)
	got := runAll(t, tok)
	want := []event{
		{pjson.LineComment, "// leading\n"},
		{pjson.ObjectStart, ""},
		{pjson.BlockComment, "/* mid */"},
		{pjson.StringStart, ""}, {pjson.StringMiddle, "a"}, {pjson.StringEnd, ""},
		{pjson.Number, "1"},
		{pjson.ObjectEnd, ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestTokenizerCommentsRejectedByDefault(t *testing.T) {
	tok := pjson.NewTokenizer(&chunkSource{chunks: [][]byte{[]byte("// nope\n1")}})
	var rec recorder
	err := tok.Pump(context.Background(), &rec)
	perr, ok := err.(*pjson.Error)
	if !ok || perr.Kind != pjson.KindSyntax {
		t.Fatalf("Pump error = %v, want a KindSyntax *pjson.Error", err)
	}
}

func TestTokenizerAllowTrailingCommas(t *testing.T) {
	tok := pjson.NewTokenizer(&chunkSource{chunks: [][]byte{[]byte(`[1, 2,]`)}})
	tok.AllowTrailingCommas(true)
	got := runAll(t, tok)
	want := []event{
		{pjson.ArrayStart, ""}, {pjson.Number, "1"}, {pjson.Number, "2"}, {pjson.ArrayEnd, ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}
