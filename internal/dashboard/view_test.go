package dashboard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-resume/internal/resume"
)

func TestBuildView_StructuredRecordIsUntouched(t *testing.T) {
	resp := UploadResponse{
		ExportID:  "abc",
		Downloads: map[string]string{"csv": "/download/csv/abc", "json": "/download/json/abc", "xlsx": "/download/xlsx/abc"},
		Data:      json.RawMessage(`{"name":"Ann","skills":["Go"]}`),
	}
	v := BuildView(resp)
	assert.Nil(t, v.RepairError)
	assert.False(t, v.Repaired)
	assert.Equal(t, "Ann", resume.String(v.Profile.Name))
	require.Len(t, v.Downloads, 3)
	assert.Equal(t, "json", v.Downloads[0].Label)
	assert.Equal(t, "csv", v.Downloads[1].Label)
	assert.Equal(t, "xlsx", v.Downloads[2].Label)
}

func TestBuildView_RepairsFallback(t *testing.T) {
	resp := UploadResponse{Data: json.RawMessage(`{"raw_output":"` + "```json\\n{\\\"name\\\": 'Ann', \\\"skills\\\": ['Go',]}\\n```" + `"}`)}
	v := BuildView(resp)
	require.Nil(t, v.RepairError)
	assert.True(t, v.Repaired)
	assert.Equal(t, "Ann", resume.String(v.Profile.Name))
	assert.Equal(t, []string{"Go"}, resume.Texts(v.Profile.Skills))
	assert.NotEmpty(t, v.RawOutput)
	_, ok := v.Profile.ExtraValue(resume.RawOutputKey)
	assert.True(t, ok, "raw output stays in the data")
}

func TestBuildView_ModelFieldsWin(t *testing.T) {
	resp := UploadResponse{Data: json.RawMessage(`{"name":"Direct","email":"","raw_output":"{\"name\": \"Repaired\", \"email\": \"r@x.io\", \"phone\": \"123\"}"}`)}
	v := BuildView(resp)
	require.Nil(t, v.RepairError)
	assert.Equal(t, "Direct", resume.String(v.Profile.Name))
	assert.Equal(t, "r@x.io", resume.String(v.Profile.Email), "falsy fields are filled")
	assert.Equal(t, "123", resume.String(v.Profile.Phone))
}

func TestBuildView_RepairErrorIsSurfaced(t *testing.T) {
	resp := UploadResponse{Data: json.RawMessage(`{"raw_output":"no json here"}`)}
	v := BuildView(resp)
	require.NotNil(t, v.RepairError)
	assert.Equal(t, "no json here", v.RepairError.RawText)
	assert.Nil(t, v.Profile.Name)
}

func TestBuildView_NullData(t *testing.T) {
	v := BuildView(UploadResponse{Data: json.RawMessage(`null`)})
	assert.Nil(t, v.RepairError)
	assert.Empty(t, v.Profile.Fields())
}

func TestBuildView_MistypedModelFieldWinsOverRepair(t *testing.T) {
	resp := UploadResponse{Data: json.RawMessage(`{"skills":"Go and Rust","raw_output":"{\"skills\": [\"Cobol\"], \"name\": \"Ann\"}"}`)}
	v := BuildView(resp)
	require.Nil(t, v.RepairError)
	assert.Nil(t, v.Profile.Skills)
	assert.Equal(t, "Ann", resume.String(v.Profile.Name))

	out, err := json.Marshal(v.Record())
	require.NoError(t, err)
	assert.Contains(t, string(out), `"skills":"Go and Rust"`)
	assert.NotContains(t, string(out), `"skills":["Cobol"]`)
}
