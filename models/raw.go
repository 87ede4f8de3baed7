package models

import (
	"bytes"
	"encoding/json"
)

// Raw keeps the verbatim JSON body a model was decoded from, so fields the SDK
// does not model are still available to the caller.
type Raw struct {
	Body json.RawMessage `json:"-"`
}

// SetRaw stores a copy of body.
func (r *Raw) SetRaw(body []byte) {
	r.Body = append(json.RawMessage(nil), body...)
}

// RawJSON returns the verbatim body.
func (r Raw) RawJSON() json.RawMessage {
	return r.Body
}

// Decode records body on v when v embeds Raw, then fills the typed fields.
// The body is recorded even when it does not match v; the returned error
// only describes the mismatch and fields that did match are still set.
func Decode(body []byte, v any) error {
	if r, ok := v.(interface{ SetRaw([]byte) }); ok {
		r.SetRaw(body)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

// List is a list response. Items holds whatever elements could be decoded;
// RawJSON always returns the verbatim body.
type List[T any] struct {
	Items []T

	Raw
}

// Len returns the number of decoded items.
func (l *List[T]) Len() int {
	return len(l.Items)
}

// MarshalJSON encodes the decoded items as an array.
func (l List[T]) MarshalJSON() ([]byte, error) {
	if l.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.Items)
}

// DecodeList decodes a list response. A JSON array is used as is; an object
// wrapping a single array (e.g. {"folders":[...]}) is unwrapped. The returned
// list is never nil and always carries the body; a non-nil error only reports
// that some or all items could not be decoded.
func DecodeList[T any, PT interface {
	*T
	SetRaw([]byte)
}](body []byte) (*List[T], error) {
	list := &List[T]{Items: []T{}}
	list.SetRaw(body)

	if len(bytes.TrimSpace(body)) == 0 {
		return list, nil
	}

	items, err := listElements(body)
	if err != nil {
		return list, err
	}

	var firstErr error
	for _, item := range items {
		var v T
		if err := Decode(item, PT(&v)); err != nil && firstErr == nil {
			firstErr = err
		}
		list.Items = append(list.Items, v)
	}
	return list, firstErr
}

func listElements(body []byte) ([]json.RawMessage, error) {
	var items []json.RawMessage
	arrayErr := json.Unmarshal(body, &items)
	if arrayErr == nil {
		return items, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, arrayErr
	}

	var found []json.RawMessage
	arrays := 0
	for _, value := range wrapper {
		var candidate []json.RawMessage
		if json.Unmarshal(value, &candidate) == nil && candidate != nil {
			found = candidate
			arrays++
		}
	}
	if arrays != 1 {
		return nil, arrayErr
	}
	return found, nil
}
