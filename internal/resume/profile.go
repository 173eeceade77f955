package resume

import (
	"bytes"
	"encoding/json"
)

// Keys recognized by Profile, in output order.
const (
	KeyName       = "name"
	KeyEmail      = "email"
	KeyPhone      = "phone"
	KeyLinks      = "links"
	KeySkills     = "skills"
	KeyEducation  = "education"
	KeyExperience = "experience"
	KeySections   = "sections"
	KeySummary    = "summary"
)

// Field is one top-level key with its JSON value.
type Field struct {
	Key   string
	Value json.RawMessage
}

// Section is a named group of entries such as projects or certificates.
// Single marks a section whose value was one item rather than a list; it
// holds exactly that entry and is encoded unwrapped.
type Section struct {
	Name    string
	Entries []Entry
	Single  bool
}

// Profile is the structured variant of a record. Nil means the model did not
// return the field. List fields accept items of any JSON type. Recognized
// keys whose value had an unexpected JSON type, and keys outside the schema,
// are kept in Extra so nothing is dropped.
type Profile struct {
	Name       *string
	Email      *string
	Phone      *string
	Links      []Entry
	Skills     []Entry
	Education  []Entry
	Experience []Entry
	Sections   []Section
	Summary    *string
	Extra      []Field
}

// Section returns the named section, if present.
func (p Profile) Section(name string) (Section, bool) {
	for _, s := range p.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// ExtraValue returns the raw value of an unrecognized key.
func (p Profile) ExtraValue(key string) (json.RawMessage, bool) {
	for _, f := range p.Extra {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// SetExtra adds or replaces an unrecognized key.
func (p *Profile) SetExtra(key string, value json.RawMessage) {
	for i := range p.Extra {
		if p.Extra[i].Key == key {
			p.Extra[i].Value = value
			return
		}
	}
	p.Extra = append(p.Extra, Field{Key: key, Value: value})
}

// Fields returns the profile's keys in schema order followed by extras in
// arrival order. An extra that shadows a populated recognized key is skipped.
func (p Profile) Fields() []Field {
	var out []Field
	set := map[string]bool{}
	add := func(key string, v any) {
		raw, err := marshalRaw(v)
		if err != nil {
			return
		}
		set[key] = true
		out = append(out, Field{Key: key, Value: raw})
	}

	if p.Name != nil {
		add(KeyName, *p.Name)
	}
	if p.Email != nil {
		add(KeyEmail, *p.Email)
	}
	if p.Phone != nil {
		add(KeyPhone, *p.Phone)
	}
	if p.Links != nil {
		add(KeyLinks, p.Links)
	}
	if p.Skills != nil {
		add(KeySkills, p.Skills)
	}
	if p.Education != nil {
		add(KeyEducation, p.Education)
	}
	if p.Experience != nil {
		add(KeyExperience, p.Experience)
	}
	if p.Sections != nil {
		if raw, err := encodeSections(p.Sections); err == nil {
			set[KeySections] = true
			out = append(out, Field{Key: KeySections, Value: raw})
		}
	}
	if p.Summary != nil {
		add(KeySummary, *p.Summary)
	}
	for _, f := range p.Extra {
		if set[f.Key] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// MarshalJSON encodes the profile as an ordered object.
func (p Profile) MarshalJSON() ([]byte, error) {
	return encodeObject(p.Fields())
}

// UnmarshalJSON decodes an object leniently; it fails only when data is not
// a JSON object.
func (p *Profile) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}
	*p = Profile{}
	p.apply(fields)
	return nil
}

func (p *Profile) apply(fields []Field) {
	for _, f := range fields {
		if !p.applyKnown(f) {
			p.SetExtra(f.Key, f.Value)
		}
	}
}

// applyKnown decodes a recognized key into its typed field. It returns false
// for unknown keys, nulls and values of the wrong type.
func (p *Profile) applyKnown(f Field) bool {
	if isNull(f.Value) {
		return false
	}
	switch f.Key {
	case KeyName:
		return decodeString(f.Value, &p.Name)
	case KeyEmail:
		return decodeString(f.Value, &p.Email)
	case KeyPhone:
		return decodeString(f.Value, &p.Phone)
	case KeySummary:
		return decodeString(f.Value, &p.Summary)
	case KeyLinks:
		return decodeEntries(f.Value, &p.Links)
	case KeySkills:
		return decodeEntries(f.Value, &p.Skills)
	case KeyEducation:
		return decodeEntries(f.Value, &p.Education)
	case KeyExperience:
		return decodeEntries(f.Value, &p.Experience)
	case KeySections:
		sections, err := decodeSections(f.Value)
		if err != nil {
			return false
		}
		p.Sections = sections
		return true
	default:
		return false
	}
}

// MergeMissing copies each field of other into p where p's field is absent
// or falsy, so values already on p win. A recognized key p only holds in
// Extra, because its type was unexpected, still counts as present.
func (p *Profile) MergeMissing(other Profile) {
	if blank(p.Name) && !p.extraSet(KeyName) {
		p.Name = other.Name
	}
	if blank(p.Email) && !p.extraSet(KeyEmail) {
		p.Email = other.Email
	}
	if blank(p.Phone) && !p.extraSet(KeyPhone) {
		p.Phone = other.Phone
	}
	if len(p.Links) == 0 && other.Links != nil && !p.extraSet(KeyLinks) {
		p.Links = other.Links
	}
	if len(p.Skills) == 0 && other.Skills != nil && !p.extraSet(KeySkills) {
		p.Skills = other.Skills
	}
	if len(p.Education) == 0 && other.Education != nil && !p.extraSet(KeyEducation) {
		p.Education = other.Education
	}
	if len(p.Experience) == 0 && other.Experience != nil && !p.extraSet(KeyExperience) {
		p.Experience = other.Experience
	}
	if len(p.Sections) == 0 && other.Sections != nil && !p.extraSet(KeySections) {
		p.Sections = other.Sections
	}
	if blank(p.Summary) && !p.extraSet(KeySummary) {
		p.Summary = other.Summary
	}
	for _, f := range other.Extra {
		if cur, ok := p.ExtraValue(f.Key); ok && !IsFalsy(cur) {
			continue
		}
		p.SetExtra(f.Key, f.Value)
	}
}

func (p Profile) extraSet(key string) bool {
	raw, ok := p.ExtraValue(key)
	return ok && !IsFalsy(raw)
}

// Texts renders each entry with Entry.Text.
func Texts(list []Entry) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.Text())
	}
	return out
}

// TextEntries wraps plain strings as entries.
func TextEntries(items ...string) []Entry {
	out := make([]Entry, 0, len(items))
	for _, s := range items {
		out = append(out, TextEntry(s))
	}
	return out
}

// String dereferences an optional text field.
func String(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func blank(s *string) bool {
	return s == nil || *s == ""
}

func decodeString(raw json.RawMessage, dst **string) bool {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false
	}
	*dst = &s
	return true
}

func decodeEntries(raw json.RawMessage, dst *[]Entry) bool {
	var list []Entry
	if err := json.Unmarshal(raw, &list); err != nil {
		return false
	}
	*dst = list
	return true
}

// decodeSections reads each section on its own. A section whose value is not
// a list becomes a Single section so the others still decode.
func decodeSections(raw json.RawMessage) ([]Section, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	sections := make([]Section, 0, len(fields))
	for _, f := range fields {
		s := Section{Name: f.Key}
		if !isNull(f.Value) && !decodeEntries(f.Value, &s.Entries) {
			s.Entries = []Entry{RawEntry(f.Value)}
			s.Single = true
		}
		sections = append(sections, s)
	}
	return sections, nil
}

func encodeSections(sections []Section) (json.RawMessage, error) {
	fields := make([]Field, 0, len(sections))
	for _, s := range sections {
		if s.Single && len(s.Entries) == 1 {
			fields = append(fields, Field{Key: s.Name, Value: s.Entries[0].Raw()})
			continue
		}
		entries := s.Entries
		if entries == nil {
			entries = []Entry{}
		}
		raw, err := marshalRaw(entries)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Key: s.Name, Value: raw})
	}
	return encodeObject(fields)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
