package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Artifacts is the per-session key-value store every collaborator reads its
// inputs from and writes its single output key to. Values are raw JSON so the
// whole session serializes in one piece; typed payload structs live in the
// collaborator packages that own them.
type Artifacts map[string]json.RawMessage

// Set marshals v and stores it under key.
func (a Artifacts) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal artifact %q: %w", key, err)
	}
	a[key] = data
	return nil
}

// SetText stores a plain text blob under key.
func (a Artifacts) SetText(key, text string) error {
	data, err := json.Marshal(text)
	if err != nil {
		return fmt.Errorf("marshal artifact %q: %w", key, err)
	}
	a[key] = data
	return nil
}

// Get unmarshals the value under key into out.
func (a Artifacts) Get(key string, out any) error {
	raw, ok := a[key]
	if !ok {
		return fmt.Errorf("artifact %q not found", key)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal artifact %q: %w", key, err)
	}
	return nil
}

// Text returns the value under key as a text blob.
func (a Artifacts) Text(key string) (string, bool) {
	raw, ok := a[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Has reports whether key holds a non-empty value. Empty strings, nulls and
// empty collections do not count: a collaborator that wrote one of those has
// not fulfilled its output contract.
func (a Artifacts) Has(key string) bool {
	raw, ok := a[key]
	if !ok {
		return false
	}
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", `""`, "null", "[]", "{}":
		return false
	}
	return true
}
