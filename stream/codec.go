// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package stream

import "encoding/json"

// Codec decodes a JSON document into a Go value, the "decode into T" mode
// of the streaming façade's external interface. The default implementation
// uses [encoding/json]; see [GoccyCodec] for a drop-in, higher-throughput
// alternative.
type Codec interface {
	Decode(data []byte, v any) error
}

type jsonCodec struct{}

func (jsonCodec) Decode(data []byte, v any) error { return json.Unmarshal(data, v) }

// DefaultCodec decodes using [encoding/json].
var DefaultCodec Codec = jsonCodec{}

// Into decodes the Decoder's current snapshot into v using [DefaultCodec].
// It is typically called once Decoder.Done reports true, but may be called
// against a partial snapshot as well, in which case v receives whatever
// the snapshot contains so far.
func (d *Decoder) Into(v any) error { return d.IntoWith(v, DefaultCodec) }

// IntoWith decodes the Decoder's current snapshot into v using c.
func (d *Decoder) IntoWith(v any, c Codec) error {
	data, err := d.cur.MarshalJSON()
	if err != nil {
		return err
	}
	return c.Decode(data, v)
}
