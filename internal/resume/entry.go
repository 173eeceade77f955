package resume

import (
	"bytes"
	"encoding/json"
)

// Entry is one item of a list field. Models return either plain strings
// ("BSc, MIT, 2020") or objects ({"degree": "BSc", ...}); both are kept.
type Entry struct {
	raw json.RawMessage
}

// TextEntry builds a plain-text entry.
func TextEntry(s string) Entry {
	raw, _ := marshalRaw(s)
	return Entry{raw: raw}
}

// RawEntry wraps an arbitrary JSON value.
func RawEntry(raw json.RawMessage) Entry {
	return Entry{raw: append(json.RawMessage(nil), raw...)}
}

// Raw returns the entry's JSON value.
func (e Entry) Raw() json.RawMessage {
	if len(e.raw) == 0 {
		return json.RawMessage("null")
	}
	return e.raw
}

// IsObject reports whether the entry is a JSON object.
func (e Entry) IsObject() bool {
	trimmed := bytes.TrimSpace(e.raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// Text renders the entry on one line: strings as-is, null as empty, anything
// else as compact JSON.
func (e Entry) Text() string {
	return ValueText(e.raw)
}

// Field returns an object entry's key rendered as text.
func (e Entry) Field(key string) string {
	if !e.IsObject() {
		return ""
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(e.raw, &obj); err != nil {
		return ""
	}
	v, ok := obj[key]
	if !ok {
		return ""
	}
	return ValueText(v)
}

func (e Entry) MarshalJSON() ([]byte, error) {
	return e.Raw(), nil
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	e.raw = append(e.raw[:0], data...)
	return nil
}

// ValueText renders any JSON value on one line.
func ValueText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var decoded string
		if err := json.Unmarshal(trimmed, &decoded); err == nil {
			return decoded
		}
		return string(trimmed)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}
