package view

import (
	"github.com/Shym0608/News-Panel/internal/media"
	"github.com/Shym0608/News-Panel/internal/models"
)

// Detail is the detail page of one item. Exactly one of ImageURL,
// VideoURL and Processing is set, depending on the type.
type Detail struct {
	ID         string
	Type       models.NewsType
	Title      string
	Category   string
	AnchorName string
	Body       string

	ImageURL   string
	VideoURL   string
	Processing bool
	AudioURL   string
}

// NewDetail applies the detail policy: stories show their image, digital
// items show the final video or, while it is missing, the processing
// placeholder. The raw upload is never played here.
func NewDetail(item models.NewsItem, r *media.Resolver) Detail {
	d := Detail{
		ID:       item.ID.String(),
		Type:     item.Type,
		Title:    item.Title,
		Category: item.Category,
		Body:     item.Body(),
	}

	switch item.Type {
	case models.TypeStory:
		d.ImageURL = r.Resolve(item.PrimaryMedia())
	case models.TypeDigital:
		if item.Processing() {
			d.Processing = true
		} else {
			d.VideoURL = r.Resolve(item.FinalVideoURL)
		}
		d.AnchorName = item.AnchorName
		d.AudioURL = r.Resolve(item.AudioURL)
	}
	return d
}

func (d Detail) IsStory() bool   { return d.Type == models.TypeStory }
func (d Detail) IsDigital() bool { return d.Type == models.TypeDigital }
