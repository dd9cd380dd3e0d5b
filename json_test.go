package gantt

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDocument(t *testing.T) {
	doc, err := ReadDocument(strings.NewReader(`{
		"sheets": [{
			"name": "Plan",
			"title": "Project X",
			"tasks": [
				{"name": "spec", "start": "2024-01-01", "end": "2024-01-05"},
				{"name": "build", "start": "2024-01-06", "end": "2024-01-20", "color": "00FF00"}
			]
		}],
		"meta": {"author": "PM", "outputFileName": "plan.xlsx"},
		"options": {"leftPadding": 2, "minDaysForMonth": 0, "borderStyle": "thin"}
	}`))
	require.NoError(t, err)
	require.Len(t, doc.Sheets, 1)
	s := doc.Sheets[0]
	assert.Equal(t, "Project X", s.Title)
	require.Len(t, s.Tasks, 2)
	assert.Equal(t, day(2024, 1, 1), s.Tasks[0].Start)
	assert.Equal(t, "00FF00", s.Tasks[1].Color)
	require.NotNil(t, doc.Meta)
	assert.Equal(t, "PM", doc.Meta.Author)
	require.NotNil(t, doc.Options)
	assert.Equal(t, 2, doc.Options.LeftPadding)
	require.NotNil(t, doc.Options.MinDaysForMonth)
	assert.Equal(t, 0, *doc.Options.MinDaysForMonth)
	assert.Equal(t, BorderThin, doc.Options.Border)
}

func TestDateDecodesGarbageToZero(t *testing.T) {
	var task Task
	require.NoError(t, json.Unmarshal([]byte(
		`{"name":"x","start":"whenever","end":"2024-01-02"}`), &task))
	assert.True(t, task.Start.IsZero())
	assert.False(t, task.End.IsZero())
}

func TestReadDocumentBadJSON(t *testing.T) {
	_, err := ReadDocument(strings.NewReader("{"))
	assert.Error(t, err)
}

func TestTaskJSONRoundTrip(t *testing.T) {
	in := Task{Name: "spec", Start: day(2024, 1, 1), End: day(2024, 1, 5), Color: "AABBCC"}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"spec","start":"2024-01-01","end":"2024-01-05","color":"AABBCC"}`,
		string(b))
	var out Task
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestUnknownBorderFailsDocument(t *testing.T) {
	_, err := ReadDocument(strings.NewReader(
		`{"sheets":[],"options":{"borderStyle":"wavy"}}`))
	assert.Error(t, err)
}
