// Package resume defines the record the model extracts from a résumé.
//
// A Record is either structured (a Profile whose every field is optional) or a
// fallback that carries the model's raw reply when it was not a JSON object.
package resume

import (
	"encoding/json"
	"errors"
)

// RawOutputKey is the only key of a serialized fallback record.
const RawOutputKey = "raw_output"

// Kind tags which variant a Record holds.
type Kind int

const (
	KindStructured Kind = iota
	KindFallback
)

func (k Kind) String() string {
	switch k {
	case KindStructured:
		return "structured"
	case KindFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Record is the result of one extraction.
type Record struct {
	Kind      Kind
	Profile   Profile
	RawOutput string
}

// Structured wraps a profile.
func Structured(p Profile) Record {
	return Record{Kind: KindStructured, Profile: p}
}

// Fallback wraps a reply that could not be parsed as a JSON object.
func Fallback(raw string) Record {
	return Record{Kind: KindFallback, RawOutput: raw}
}

// IsFallback reports whether the record only carries raw model output.
func (r Record) IsFallback() bool {
	return r.Kind == KindFallback
}

// Fields returns the record's top-level keys in output order.
func (r Record) Fields() []Field {
	if r.IsFallback() {
		raw, _ := marshalRaw(r.RawOutput)
		return []Field{{Key: RawOutputKey, Value: raw}}
	}
	return r.Profile.Fields()
}

// ParseReply turns the model's message content into a record. Content that is
// not a JSON object becomes a fallback holding the content verbatim.
func ParseReply(content string) Record {
	var p Profile
	if err := json.Unmarshal([]byte(content), &p); err != nil {
		return Fallback(content)
	}
	return Structured(p)
}

// MarshalJSON writes a fallback as {"raw_output": text} and a profile as an
// object in schema order.
func (r Record) MarshalJSON() ([]byte, error) {
	return encodeObject(r.Fields())
}

// UnmarshalJSON treats an object whose only key is a string raw_output as a
// fallback; any other object is a profile.
func (r *Record) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}
	if len(fields) == 1 && fields[0].Key == RawOutputKey {
		var raw string
		if err := json.Unmarshal(fields[0].Value, &raw); err == nil {
			*r = Fallback(raw)
			return nil
		}
	}
	var p Profile
	p.apply(fields)
	*r = Structured(p)
	return nil
}

var errNotObject = errors.New("resume: value is not a JSON object")
