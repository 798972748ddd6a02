// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package query

import (
	"github.com/mjpartial/pjson"
	"github.com/tidwall/gjson"
)

// GJSON marshals v to JSON and evaluates a github.com/tidwall/gjson path
// expression against it. Unlike [Get], gjson's path language supports
// wildcards, queries, and nested selectors, at the cost of re-marshaling v
// on every call; prefer [Get] for a simple fixed path evaluated repeatedly
// against a value that is still being streamed in.
func GJSON(v pjson.Value, path string) (gjson.Result, error) {
	data, err := v.MarshalJSON()
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.GetBytes(data, path), nil
}
