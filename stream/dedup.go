// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package stream

import (
	"context"

	"github.com/cespare/xxhash/v2"
)

// DedupDecoder wraps a [Decoder] so that [Decoder.Next] only reports true
// when the new snapshot is structurally different from the previous one it
// reported. Consecutive snapshots are compared by hashing their marshaled
// JSON with xxhash rather than by a deep structural comparison, since a
// 64-bit hash collision is an acceptable risk for a dedup filter and is far
// cheaper than repeatedly deep-comparing a growing value in a hot loop.
type DedupDecoder struct {
	*Decoder

	haveLast bool
	lastHash uint64
}

// SkipDuplicateSnapshots wraps d so that structurally identical consecutive
// snapshots are suppressed.
func SkipDuplicateSnapshots(d *Decoder) *DedupDecoder {
	return &DedupDecoder{Decoder: d}
}

// Next implements the same contract as [Decoder.Next], but skips ahead
// past any snapshot identical to the last one reported.
func (d *DedupDecoder) Next(ctx context.Context) bool {
	for d.Decoder.Next(ctx) {
		data, err := d.Value().MarshalJSON()
		if err != nil {
			// Can't hash it; report it rather than silently drop it.
			return true
		}
		h := xxhash.Sum64(data)
		if d.haveLast && h == d.lastHash {
			continue
		}
		d.haveLast = true
		d.lastHash = h
		return true
	}
	return false
}
