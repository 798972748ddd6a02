// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package builder

import "github.com/mjpartial/pjson"

// liveArray is the mutable container behind an in-progress JSON array. It
// mirrors ast/parser.go's stack discipline (push elements as they complete,
// reduce into the parent on close) but never discards its elements: a
// snapshot is taken by copying the current element slice wholesale, so the
// caller's [pjson.Value] never observes a later append or replaceLast.
type liveArray struct {
	elems []pjson.Value
}

func newLiveArray() *liveArray { return &liveArray{} }

func (a *liveArray) append(v pjson.Value) { a.elems = append(a.elems, v) }

// replaceLast overwrites the most recently appended element, used when a
// nested container that was appended as a placeholder value is later
// refreshed with an up-to-date snapshot. It panics if a is empty, which
// indicates a bug in the Builder's own bookkeeping, not malformed input.
func (a *liveArray) replaceLast(v pjson.Value) {
	if len(a.elems) == 0 {
		panic("builder: replaceLast on empty array")
	}
	a.elems[len(a.elems)-1] = v
}

// snapshot returns an immutable Value reflecting a's current elements. The
// top-level slice is copied (pjson.Array already does this); a's own
// backing array may keep growing afterward without affecting the result.
func (a *liveArray) snapshot() pjson.Value { return pjson.Array(a.elems) }

// liveObject is the mutable container behind an in-progress JSON object.
// Duplicate keys follow last-write-wins, matching spec's resolution of
// Open Question "duplicate object keys".
type liveObject struct {
	members []pjson.Member
	index   map[string]int
}

func newLiveObject() *liveObject {
	return &liveObject{index: make(map[string]int)}
}

// set adds or overwrites the member for key.
func (o *liveObject) set(key string, v pjson.Value) {
	if i, ok := o.index[key]; ok {
		o.members[i].Value = v
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, pjson.Member{Key: key, Value: v})
}

// replaceLast overwrites the value of the member for key, wherever it sits
// in members — not necessarily last, since set's in-place duplicate-key
// overwrite can leave the currently open member anywhere in the slice. It
// panics if key names no member, which indicates a bug in the Builder's
// own bookkeeping, not malformed input.
func (o *liveObject) replaceLast(key string, v pjson.Value) {
	i, ok := o.index[key]
	if !ok {
		panic("builder: replaceLast for unknown key " + key)
	}
	o.members[i].Value = v
}

func (o *liveObject) snapshot() pjson.Value { return pjson.Object(o.members) }
