// ============================================================================
// livelog - Echtzeit Log Viewer
// ============================================================================
//
// Package:     envelope
// Description: Decodes subscription event payloads into log entries
// Author:      Mike Stoffels
// Created:     2026-10-02
// License:     MIT
// ============================================================================

package envelope

import (
	"errors"
	"fmt"

	"github.com/valyala/fastjson"

	mdwerror "github.com/msto63/livelog/foundation/core/error"
	"github.com/msto63/livelog/internal/model"
)

// ErrMalformed marks payloads that are not a well-formed log envelope
var ErrMalformed = errors.New("malformed log envelope")

// Decoder turns raw event payloads into log entries.
// The zero value decodes plain JSON envelopes.
type Decoder struct {
	parser fastjson.ParserPool
	cipher *Cipher
}

// NewDecoder creates a decoder. A nil cipher decodes unencrypted payloads.
func NewDecoder(cipher *Cipher) *Decoder {
	return &Decoder{cipher: cipher}
}

// Decode parses {"data": {"type", "tags", "data", "timestamp"?, "id"?}}.
// type must be a non-empty string, tags an array of strings and data a
// non-empty string or a JSON object/array, which is kept as JSON text.
func (d *Decoder) Decode(raw []byte) (model.LogEntry, error) {
	if d.cipher != nil {
		plain, err := d.cipher.Open(raw)
		if err != nil {
			return model.LogEntry{}, malformed("decrypt", err)
		}
		raw = plain
	}

	p := d.parser.Get()
	defer d.parser.Put(p)

	v, err := p.ParseBytes(raw)
	if err != nil {
		return model.LogEntry{}, malformed("parse", err)
	}

	inner := v.Get("data")
	if inner == nil || inner.Type() != fastjson.TypeObject {
		return model.LogEntry{}, malformed("data", fmt.Errorf("missing data object"))
	}

	entry := model.LogEntry{
		ID:        string(inner.GetStringBytes("id")),
		Timestamp: string(inner.GetStringBytes("timestamp")),
	}

	typ := inner.Get("type")
	if typ == nil || typ.Type() != fastjson.TypeString || len(typ.GetStringBytes()) == 0 {
		return model.LogEntry{}, malformed("type", fmt.Errorf("missing type"))
	}
	entry.Type = string(typ.GetStringBytes())

	tags := inner.Get("tags")
	if tags == nil || tags.Type() != fastjson.TypeArray {
		return model.LogEntry{}, malformed("tags", fmt.Errorf("missing tags array"))
	}
	items, _ := tags.Array()
	entry.Tags = make([]string, 0, len(items))
	for _, item := range items {
		if item.Type() != fastjson.TypeString {
			return model.LogEntry{}, malformed("tags", fmt.Errorf("tag is %s, not string", item.Type()))
		}
		entry.Tags = append(entry.Tags, string(item.GetStringBytes()))
	}

	data := inner.Get("data")
	switch {
	case data == nil:
		return model.LogEntry{}, malformed("data", fmt.Errorf("missing data"))
	case data.Type() == fastjson.TypeString && len(data.GetStringBytes()) > 0:
		entry.Data = string(data.GetStringBytes())
	case data.Type() == fastjson.TypeObject || data.Type() == fastjson.TypeArray:
		entry.Data = string(data.MarshalTo(nil))
	default:
		return model.LogEntry{}, malformed("data", fmt.Errorf("empty or unsupported data"))
	}

	return entry, nil
}

func malformed(field string, cause error) error {
	return mdwerror.Wrap(fmt.Errorf("%w: %v", ErrMalformed, cause), "decode log envelope").
		WithCode(mdwerror.CodeInvalidFormat).
		WithDetail("field", field)
}
