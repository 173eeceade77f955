package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-resume/internal/resume"
)

func TestRepairJSON_FencedSingleQuotesTrailingComma(t *testing.T) {
	p, repairErr := RepairJSON("```json\n{\"name\": 'Ann',}\n```")
	require.Nil(t, repairErr)
	assert.Equal(t, "Ann", resume.String(p.Name))
	assert.Empty(t, p.Extra)
}

func TestRepairJSON_Passes(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, p resume.Profile)
	}{
		{
			name: "uppercase json fence with prose around it",
			raw:  "Here you go:\n```JSON\n{\"email\": \"a@b.co\"}\n```\nThanks",
			check: func(t *testing.T, p resume.Profile) {
				assert.Equal(t, "a@b.co", resume.String(p.Email))
			},
		},
		{
			name: "bare fence",
			raw:  "```\n{\"skills\": [\"Go\", \"SQL\",]}\n```",
			check: func(t *testing.T, p resume.Profile) {
				assert.Equal(t, []string{"Go", "SQL"}, resume.Texts(p.Skills))
			},
		},
		{
			name: "typographic quotes",
			raw:  "{“name”: “Bo”, “summary”: ‘Ops’}",
			check: func(t *testing.T, p resume.Profile) {
				assert.Equal(t, "Bo", resume.String(p.Name))
				assert.Equal(t, "Ops", resume.String(p.Summary))
			},
		},
		{
			name: "array becomes parsed_list",
			raw:  "[1, 2,]",
			check: func(t *testing.T, p resume.Profile) {
				value, ok := p.ExtraValue(ParsedListKey)
				require.True(t, ok)
				assert.JSONEq(t, `[1,2]`, string(value))
			},
		},
		{
			name: "nested trailing commas",
			raw:  "{\"education\": [{\"degree\": \"BSc\",},], \"sections\": {\"projects\": [],},}",
			check: func(t *testing.T, p resume.Profile) {
				require.Len(t, p.Education, 1)
				assert.Equal(t, "BSc", p.Education[0].Field("degree"))
				_, ok := p.Section("projects")
				assert.True(t, ok)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, repairErr := RepairJSON(tt.raw)
			require.Nil(t, repairErr)
			tt.check(t, p)
		})
	}
}

func TestRepairJSON_FailureKeepsOriginal(t *testing.T) {
	raw := "```json\nname: Ann\n```"
	p, repairErr := RepairJSON(raw)
	require.NotNil(t, repairErr)
	assert.NotEmpty(t, repairErr.Message)
	assert.Equal(t, raw, repairErr.RawText)
	assert.Empty(t, p.Fields())
}

func TestRepairJSON_ApostropheInValueBreaksParse(t *testing.T) {
	// Single quotes are swapped blindly, so prose apostrophes corrupt the text.
	_, repairErr := RepairJSON(`{"summary": "Ann's resume"}`)
	require.NotNil(t, repairErr)
}
