// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package stream

import gojson "github.com/goccy/go-json"

// GoccyCodec decodes using github.com/goccy/go-json, a drop-in,
// higher-throughput replacement for encoding/json's Unmarshal. It is
// useful for the decode-into-T mode when the target types are large or the
// decode happens in a hot path.
type GoccyCodec struct{}

func (GoccyCodec) Decode(data []byte, v any) error { return gojson.Unmarshal(data, v) }

var _ Codec = GoccyCodec{}
