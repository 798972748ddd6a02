// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package query implements path-based lookups against a decoded
// [pjson.Value] snapshot: read one field out of a value that is still
// being streamed in, without waiting for it to finish.
//
// This is a deliberately small subset of the teacher's own jpath grammar
// (object-key and array-index steps only; no wildcards, recursive descent,
// or filter scripts), since snapshot lookups are the only query need the
// streaming decoder itself has.
package query

import (
	"fmt"

	"github.com/mjpartial/pjson"
)

// Get traverses a sequential path into v, where each element is either a
// string (an object member name) or an int (an array index; negative
// counts back from the end, as in Python slicing). It returns an error if
// the path cannot be fully resolved, for example because a step names a
// key that is not present or indexes into a value that isn't an array.
func Get(v pjson.Value, path ...any) (pjson.Value, error) {
	cur := v
	for i, step := range path {
		next, err := get1(cur, step)
		if err != nil {
			return pjson.Value{}, fmt.Errorf("path element %d (%v): %w", i, step, err)
		}
		cur = next
	}
	return cur, nil
}

func get1(v pjson.Value, step any) (pjson.Value, error) {
	switch key := step.(type) {
	case string:
		if v.Kind() != pjson.KObject {
			return pjson.Value{}, fmt.Errorf("got %v, want object", v.Kind())
		}
		mv, ok := v.Find(key)
		if !ok {
			return pjson.Value{}, fmt.Errorf("no member %q", key)
		}
		return mv, nil
	case int:
		if v.Kind() != pjson.KArray {
			return pjson.Value{}, fmt.Errorf("got %v, want array", v.Kind())
		}
		elems := v.Elements()
		idx := key
		if idx < 0 {
			idx += len(elems)
		}
		if idx < 0 || idx >= len(elems) {
			return pjson.Value{}, fmt.Errorf("index %d out of range (length %d)", key, len(elems))
		}
		return elems[idx], nil
	default:
		return pjson.Value{}, fmt.Errorf("invalid path element type %T", step)
	}
}
