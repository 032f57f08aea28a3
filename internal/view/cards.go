// Package view turns news items into what the templates render: resolved
// media URLs and the per-type presentation decisions.
package view

import (
	"github.com/Shym0608/News-Panel/internal/media"
	"github.com/Shym0608/News-Panel/internal/models"
)

// Card is one entry of a news list.
type Card struct {
	ID          string
	Title       string
	Description string
	Category    string
	AnchorName  string
	Href        string
	FullText    string

	ImageURL   string // stories only
	VideoURL   string // digital only
	AudioURL   string // digital only
	Processing bool
}

// StoryCard shows the primary image when there is one.
func StoryCard(item models.NewsItem, r *media.Resolver) Card {
	c := baseCard(item)
	c.ImageURL = r.Resolve(item.PrimaryMedia())
	c.FullText = item.FullContext
	return c
}

// DigitalCard previews the final video, or the raw upload while the final
// one is processing. The raw fallback is a list-only policy; the detail
// page never plays it.
func DigitalCard(item models.NewsItem, r *media.Resolver) Card {
	c := baseCard(item)
	if item.FinalVideoURL != "" {
		c.VideoURL = r.Resolve(item.FinalVideoURL)
	} else {
		c.VideoURL = r.Resolve(item.PrimaryMedia())
	}
	c.Processing = item.Processing()
	c.AudioURL = r.Resolve(item.AudioURL)
	c.AnchorName = item.AnchorName
	return c
}

// RailVideo is the autoplaying clip of the live and sliding rails.
func RailVideo(item models.NewsItem, r *media.Resolver) Card {
	c := baseCard(item)
	c.VideoURL = r.Resolve(item.PrimaryMedia())
	return c
}

// Cards applies fn to every item.
func Cards(items []models.NewsItem, r *media.Resolver, fn func(models.NewsItem, *media.Resolver) Card) []Card {
	out := make([]Card, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item, r))
	}
	return out
}

func baseCard(item models.NewsItem) Card {
	return Card{
		ID:          item.ID.String(),
		Title:       item.Title,
		Description: item.ShortDescription,
		Category:    item.Category,
		Href:        DetailHref(item),
	}
}
