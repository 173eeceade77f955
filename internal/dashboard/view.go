package dashboard

import (
	"bytes"
	"encoding/json"

	"smart-resume/internal/resume"
)

// View is what the dashboard shows for one upload.
type View struct {
	Profile     resume.Profile
	RawOutput   string
	Repaired    bool
	RepairError *RepairError
	ExportID    string
	Downloads   []Download
}

// Download is one server-side artifact link.
type Download struct {
	Label string
	Path  string
}

// BuildView prepares an upload response for rendering. When the record holds
// a raw_output string, the reply is repaired and its fields fill only the
// ones the record left absent or falsy.
func BuildView(resp UploadResponse) View {
	rec := resp.Record()
	v := View{ExportID: resp.ExportID, Downloads: resp.DownloadLinks()}

	raw, ok := rawOutput(rec)
	if rec.IsFallback() {
		v.Profile.SetExtra(resume.RawOutputKey, quote(raw))
	} else {
		v.Profile = rec.Profile
	}
	if !ok {
		return v
	}

	v.RawOutput = raw
	repaired, repairErr := RepairJSON(raw)
	if repairErr != nil {
		v.RepairError = repairErr
		return v
	}
	v.Profile.MergeMissing(repaired)
	v.Repaired = true
	return v
}

// Record returns the merged data as a record for export.
func (v View) Record() resume.Record {
	return resume.Structured(v.Profile)
}

func rawOutput(rec resume.Record) (string, bool) {
	if rec.IsFallback() {
		return rec.RawOutput, true
	}
	value, ok := rec.Profile.ExtraValue(resume.RawOutputKey)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return "", false
	}
	return s, true
}

func quote(s string) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return bytes.TrimRight(buf.Bytes(), "\n")
}
