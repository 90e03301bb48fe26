// ABOUTME: Decodes backend responses that may or may not be wrapped in an envelope
// ABOUTME: Accepts a bare value, {"<key>": value} or {"data": value}
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeList extracts a list from raw. key is the collection name, e.g.
// "contacts". A null body yields an empty list.
func DecodeList[T any](raw json.RawMessage, key string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	if raw[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("failed to decode %s envelope: %w", key, err)
		}
		inner, ok := envelope[key]
		if !ok {
			inner, ok = envelope["data"]
		}
		if !ok {
			return nil, fmt.Errorf("unexpected %s response: no %q or \"data\" field", key, key)
		}
		raw = bytes.TrimSpace(inner)
		if len(raw) > 0 && raw[0] == '{' {
			// {"data": {"contacts": [...]}}
			return DecodeList[T](raw, key)
		}
	}

	list := []T{}
	if bytes.Equal(raw, []byte("null")) {
		return list, nil
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return list, nil
}

// DecodeOne extracts a single record from raw. key is the singular name,
// e.g. "contact".
func DecodeOne[T any](raw json.RawMessage, key string) (T, error) {
	var out T
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return out, fmt.Errorf("empty %s response", key)
	}

	if raw[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return out, fmt.Errorf("failed to decode %s: %w", key, err)
		}
		for _, k := range []string{key, "data"} {
			if inner, ok := envelope[k]; ok && isObject(inner) {
				raw = inner
				break
			}
		}
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return out, nil
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
