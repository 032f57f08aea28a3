package view

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/Shym0608/News-Panel/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// ErrNoPayload means the detail link carried no item.
	ErrNoPayload = errors.New("detail link has no news data")
	// ErrInvalidPayload means the item could not be decoded or validated.
	ErrInvalidPayload = errors.New("detail link has invalid news data")
)

// Message is the text shown to the reader for a detail decoding error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrNoPayload):
		return "No news data found"
	case errors.Is(err, ErrInvalidPayload):
		return "Invalid news data"
	default:
		return "Something went wrong"
	}
}

var validate = validator.New()

// transfer is the item as carried in a detail link. It holds only what the
// detail page reads, which keeps the URL short.
type transfer struct {
	ID               models.ItemID   `json:"id" validate:"required"`
	Type             models.NewsType `json:"type" validate:"oneof=STORY DIGITAL"`
	Title            string          `json:"title"`
	ShortDescription string          `json:"shortDescription,omitempty"`
	FullContext      string          `json:"fullContext,omitempty"`
	Category         string          `json:"category,omitempty"`
	MediaURLs        []string        `json:"mediaUrls,omitempty"`
	FinalVideoURL    string          `json:"finalVideoUrl,omitempty"`
	AudioURL         string          `json:"audioUrl,omitempty"`
	AnchorName       string          `json:"anchorName,omitempty"`
}

func toTransfer(item models.NewsItem) transfer {
	t := transfer{
		ID:               item.ID,
		Type:             item.Type,
		Title:            item.Title,
		ShortDescription: item.ShortDescription,
		Category:         item.Category,
		AudioURL:         item.AudioURL,
	}
	switch item.Type {
	case models.TypeStory:
		t.FullContext = item.FullContext
		if p := item.PrimaryMedia(); p != "" {
			t.MediaURLs = []string{p}
		}
	case models.TypeDigital:
		t.FinalVideoURL = item.FinalVideoURL
		t.AnchorName = item.AnchorName
	}
	return t
}

func (t transfer) item() models.NewsItem {
	return models.NewsItem{
		ID:               t.ID,
		Type:             t.Type,
		Title:            t.Title,
		ShortDescription: t.ShortDescription,
		FullContext:      t.FullContext,
		Category:         t.Category,
		MediaURLs:        t.MediaURLs,
		FinalVideoURL:    t.FinalVideoURL,
		AudioURL:         t.AudioURL,
		AnchorName:       t.AnchorName,
	}
}

// DetailHref builds the detail link /news/{id}?data=<json>.
func DetailHref(item models.NewsItem) string {
	data, err := json.Marshal(toTransfer(item))
	if err != nil {
		return "/news/" + url.PathEscape(item.ID.String())
	}
	return "/news/" + url.PathEscape(item.ID.String()) + "?data=" + url.QueryEscape(string(data))
}

// DecodeDetail decodes and validates the data parameter of a detail link.
func DecodeDetail(raw string) (models.NewsItem, error) {
	if raw == "" {
		return models.NewsItem{}, ErrNoPayload
	}

	var t transfer
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return models.NewsItem{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := validate.Struct(t); err != nil {
		return models.NewsItem{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return t.item(), nil
}
