package dashboard

import (
	"encoding/json"
	"regexp"
	"strings"

	"smart-resume/internal/resume"
)

// ParsedListKey holds a repaired reply that was valid JSON but not an object.
const ParsedListKey = "parsed_list"

var (
	jsonFence     = regexp.MustCompile("(?is)```json(.*?)```")
	anyFence      = regexp.MustCompile("(?s)```(.*?)```")
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)

	typographicQuotes = strings.NewReplacer(
		"’", "'",
		"‘", "'",
		"“", `"`,
		"”", `"`,
	)
)

// RepairError reports a reply that stayed unparseable after repair.
type RepairError struct {
	Message string `json:"error"`
	RawText string `json:"raw_text"`
}

func (e *RepairError) Error() string { return e.Message }

// RepairJSON makes one best-effort attempt to read a raw model reply as JSON.
// The passes run in a fixed order: unwrap the first fenced block, drop stray
// fences, straighten typographic quotes, turn single quotes into double
// quotes, remove trailing commas. The result is parsed once. An object becomes
// a profile; any other JSON value is kept under ParsedListKey. RawText on the
// error is the reply as received.
func RepairJSON(raw string) (resume.Profile, *RepairError) {
	text := repairText(raw)

	var value json.RawMessage
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return resume.Profile{}, &RepairError{Message: err.Error(), RawText: raw}
	}

	rec := resume.ParseReply(text)
	if !rec.IsFallback() {
		return rec.Profile, nil
	}
	var p resume.Profile
	p.SetExtra(ParsedListKey, value)
	return p, nil
}

func repairText(raw string) string {
	text := raw
	if m := jsonFence.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	} else if m := anyFence.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	text = strings.TrimSpace(strings.ReplaceAll(text, "```", ""))
	text = typographicQuotes.Replace(text)
	text = strings.ReplaceAll(text, "'", `"`)
	return trailingComma.ReplaceAllString(text, "$1")
}
