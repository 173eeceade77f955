package dashboard

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"smart-resume/internal/resume"
)

// Placeholder stands in for every absent value.
const Placeholder = "—"

// Render writes v as a text dashboard. Every section is printed even when
// the record lacks it. baseURL prefixes the backend export links.
func Render(w io.Writer, v View, baseURL string) error {
	var b strings.Builder
	p := v.Profile

	b.WriteString(orPlaceholder(text(p, resume.KeyName, p.Name)) + "\n")
	fmt.Fprintf(&b, "  Email:   %s\n", orPlaceholder(text(p, resume.KeyEmail, p.Email)))
	fmt.Fprintf(&b, "  Phone:   %s\n", orPlaceholder(text(p, resume.KeyPhone, p.Phone)))
	fmt.Fprintf(&b, "  Summary: %s\n", orPlaceholder(text(p, resume.KeySummary, p.Summary)))
	if v.ExportID != "" {
		fmt.Fprintf(&b, "  Export:  %s\n", v.ExportID)
	}

	heading(&b, "Skills")
	if skills := list(p, resume.KeySkills, p.Skills); len(skills) == 0 {
		b.WriteString("  " + Placeholder + "\n")
	} else {
		b.WriteString("  " + strings.Join(resume.Texts(skills), ", ") + "\n")
	}

	heading(&b, "Education")
	entries(&b, list(p, resume.KeyEducation, p.Education), func(e resume.Entry) []string {
		return []string{
			fmt.Sprintf("%s in %s", field(e, "degree"), field(e, "subject")),
			"College: " + field(e, "college"),
			"Year: " + field(e, "year"),
		}
	})

	heading(&b, "Experience")
	entries(&b, list(p, resume.KeyExperience, p.Experience), func(e resume.Entry) []string {
		return []string{
			field(e, "role"),
			"Project: " + field(e, "project"),
		}
	})

	for _, s := range p.Sections {
		heading(&b, capitalize(s.Name))
		if s.Single {
			b.WriteString("  - " + orPlaceholder(s.Entries[0].Text()) + "\n")
			continue
		}
		entries(&b, s.Entries, func(e resume.Entry) []string {
			title := e.Field("title")
			if title == "" {
				title = "Untitled"
			}
			return []string{title, field(e, "description")}
		})
	}

	heading(&b, "Links")
	links := list(p, resume.KeyLinks, p.Links)
	if len(links) == 0 {
		b.WriteString("  " + Placeholder + "\n")
	}
	for _, link := range links {
		b.WriteString("  - " + link.Text() + "\n")
	}

	heading(&b, "Backend Exports")
	if len(v.Downloads) == 0 {
		b.WriteString("  " + Placeholder + "\n")
	}
	base := strings.TrimRight(baseURL, "/")
	for _, d := range v.Downloads {
		fmt.Fprintf(&b, "  - %s: %s%s\n", strings.ToUpper(d.Label), base, d.Path)
	}

	if v.RepairError != nil {
		heading(&b, "Repair Error")
		fmt.Fprintf(&b, "  error: %s\n", v.RepairError.Message)
		fmt.Fprintf(&b, "  raw_text: %s\n", v.RepairError.RawText)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func heading(b *strings.Builder, title string) {
	b.WriteString("\n" + title + "\n")
}

// entries writes one bullet per entry. Object entries are laid out by
// describe; plain entries print their text.
func entries(b *strings.Builder, items []resume.Entry, describe func(resume.Entry) []string) {
	if len(items) == 0 {
		b.WriteString("  " + Placeholder + "\n")
		return
	}
	for _, e := range items {
		if !e.IsObject() {
			b.WriteString("  - " + orPlaceholder(e.Text()) + "\n")
			continue
		}
		for i, line := range describe(e) {
			if i == 0 {
				b.WriteString("  - " + line + "\n")
			} else {
				b.WriteString("    " + line + "\n")
			}
		}
	}
}

// text returns a text field, or the value the model sent under key when it
// was not a string.
func text(p resume.Profile, key string, s *string) string {
	if s != nil {
		return *s
	}
	if raw, ok := p.ExtraValue(key); ok {
		return resume.ValueText(raw)
	}
	return ""
}

// list returns a list field, or the value the model sent under key when it
// was not a list, as a single entry.
func list(p resume.Profile, key string, typed []resume.Entry) []resume.Entry {
	if len(typed) > 0 {
		return typed
	}
	raw, ok := p.ExtraValue(key)
	if !ok || resume.IsFalsy(raw) {
		return nil
	}
	return []resume.Entry{resume.RawEntry(raw)}
}

func field(e resume.Entry, key string) string {
	return orPlaceholder(e.Field(key))
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
