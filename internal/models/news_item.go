package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// NewsType tells which presentation a news item gets.
type NewsType string

const (
	TypeStory   NewsType = "STORY"
	TypeDigital NewsType = "DIGITAL"
)

// NewsItem is a snapshot of one backend news item. Items are never mutated
// after decoding; every page load fetches them again.
type NewsItem struct {
	ID               ItemID   `json:"id"`
	Type             NewsType `json:"type"`
	Title            string   `json:"title"`
	ShortDescription string   `json:"shortDescription"`
	FullContext      string   `json:"fullContext,omitempty"`
	Category         string   `json:"category,omitempty"`
	MediaURLs        []string `json:"mediaUrls,omitempty"`
	FinalVideoURL    string   `json:"finalVideoUrl,omitempty"`
	AudioURL         string   `json:"audioUrl,omitempty"`
	AnchorName       string   `json:"anchorName,omitempty"`
}

// IsDigital reports whether the item is a video segment.
func (n NewsItem) IsDigital() bool {
	return n.Type == TypeDigital
}

// PrimaryMedia returns mediaUrls[0], or "" when there is none.
func (n NewsItem) PrimaryMedia() string {
	if len(n.MediaURLs) == 0 {
		return ""
	}
	return n.MediaURLs[0]
}

// Processing reports whether a digital item still waits for its merged
// video. A missing finalVideoUrl is the only signal.
func (n NewsItem) Processing() bool {
	return n.IsDigital() && n.FinalVideoURL == ""
}

// Body is the text shown on the detail page.
func (n NewsItem) Body() string {
	if n.Type == TypeStory && n.FullContext != "" {
		return n.FullContext
	}
	return n.ShortDescription
}

// ItemID accepts both numeric and string identifiers from the backend and
// keeps them as text.
type ItemID string

func (id ItemID) String() string {
	return string(id)
}

func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("news id must be a string or number: %w", err)
	}
	*id = ItemID(n.String())
	return nil
}

// MarshalJSON writes integer ids back as numbers so they round-trip.
func (id ItemID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}
