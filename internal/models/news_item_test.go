package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsItemDecodesBackendPayload(t *testing.T) {
	payload := `{
		"id": 42,
		"type": "DIGITAL",
		"title": "ક્રિકેટ અપડેટ",
		"shortDescription": "short",
		"category": "My Gujarat",
		"mediaUrls": ["/uploads/raw.mp4"],
		"finalVideoUrl": null,
		"audioUrl": "/uploads/voice.mp3",
		"anchorName": "Riya"
	}`

	var item NewsItem
	require.NoError(t, json.Unmarshal([]byte(payload), &item))

	assert.Equal(t, ItemID("42"), item.ID)
	assert.True(t, item.IsDigital())
	assert.True(t, item.Processing())
	assert.Equal(t, "/uploads/raw.mp4", item.PrimaryMedia())
	assert.Equal(t, "My Gujarat", item.Category)
}

func TestItemIDForms(t *testing.T) {
	tests := []struct {
		raw  string
		want ItemID
	}{
		{`"abc-1"`, "abc-1"},
		{`17`, "17"},
		{`null`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var id ItemID
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &id))
			assert.Equal(t, tt.want, id)
		})
	}

	var id ItemID
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &id))
}

func TestItemIDKeepsNumericForm(t *testing.T) {
	out, err := json.Marshal(struct {
		A ItemID `json:"a"`
		B ItemID `json:"b"`
	}{A: "42", B: "x-9"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":42,"b":"x-9"}`, string(out))
}

func TestBodyAndProcessing(t *testing.T) {
	story := NewsItem{Type: TypeStory, ShortDescription: "short", FullContext: "full"}
	assert.Equal(t, "full", story.Body())
	assert.False(t, story.Processing())

	story.FullContext = ""
	assert.Equal(t, "short", story.Body())

	digital := NewsItem{Type: TypeDigital, ShortDescription: "short", FullContext: "ignored", FinalVideoURL: "/final.mp4"}
	assert.Equal(t, "short", digital.Body())
	assert.False(t, digital.Processing())
	assert.Equal(t, "", digital.PrimaryMedia())
}
