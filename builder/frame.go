// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package builder

// frameKind identifies which kind of container a frame tracks, mirroring
// the Tokenizer's own container stack (see pjson.frame) but kept
// independently here: the Builder only ever learns about structure through
// the TokenHandler events it receives, the same contract any TokenHandler
// implementation has to work from.
type frameKind int

const (
	frameArray frameKind = iota
	frameObject
)

// frame is one entry of the Builder's parser stack. For an object frame,
// expectKey records whether the next string is a member key (the Builder
// reads it at StringStart to decide the string's role; a key's text is
// stored in pendingKey only at StringEnd, once complete) or whether
// pendingKey already holds a key awaiting its value. openKey records which member's value slot is currently being
// filled in (growing string, or a nested container awaiting its close), so
// a later refresh replaces that member specifically rather than whichever
// member happens to sit last in the object, which is not necessarily the
// same thing once duplicate keys overwrite an earlier member in place.
type frame struct {
	kind frameKind
	arr  *liveArray
	obj  *liveObject

	expectKey  bool
	pendingKey string
	openKey    string
}
