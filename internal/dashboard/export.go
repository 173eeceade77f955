package dashboard

import (
	"encoding/csv"
	"io"

	"smart-resume/internal/resume"
)

// EncodeSectionsCSV writes the client-side CSV: a section,value header and
// one row per skill, education entry and experience entry. Object entries
// are written as compact JSON. A field the model sent as a single value
// rather than a list is one row.
func EncodeSectionsCSV(w io.Writer, p resume.Profile) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"section", "value"}); err != nil {
		return err
	}
	for _, sec := range []struct {
		name    string
		entries []resume.Entry
	}{
		{resume.KeySkills, list(p, resume.KeySkills, p.Skills)},
		{resume.KeyEducation, list(p, resume.KeyEducation, p.Education)},
		{resume.KeyExperience, list(p, resume.KeyExperience, p.Experience)},
	} {
		for _, e := range sec.entries {
			if err := cw.Write([]string{sec.name, e.Text()}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
