package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Shym0608/News-Panel/internal/config"
	"github.com/Shym0608/News-Panel/internal/feed"
	"github.com/Shym0608/News-Panel/internal/logger"
	"github.com/Shym0608/News-Panel/internal/models"
	"github.com/urfave/cli/v2"
)

func probeCmd() *cli.Command {
	return &cli.Command{
		Name:  "probe",
		Usage: "Call every feed endpoint once and print the item counts",
		Description: `Smoke check against the configured API_BASE_URL. Exits
		non-zero when any feed fails.`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 30 * time.Second,
				Usage: "Overall time limit of the probe",
			},
			&cli.StringFlag{
				Name:  "keyword",
				Usage: "Keyword for the search endpoint",
			},
		},
		Action: probe,
	}
}

func probe(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Config{Level: "warn", Output: "stderr", Pretty: true}); err != nil {
		return err
	}

	client := feed.NewClient(feed.Config{
		BaseURL:        cfg.APIBaseURL,
		Timeout:        cfg.BackendTimeout,
		LiveVideoLimit: cfg.LiveVideoLimit,
	})

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	filter := feed.FilterQuery{Keyword: c.String("keyword"), PageSize: cfg.FilterPageSize}

	checks := []struct {
		name  string
		fetch func(context.Context) ([]models.NewsItem, error)
	}{
		{"homepage", client.AggregateHome},
		{"story", client.StoryList},
		{"digital", client.DigitalList},
		{"live videos", client.LiveVideos},
		{"sliding videos", client.SlidingVideos},
		{"search", func(ctx context.Context) ([]models.NewsItem, error) {
			return client.Filtered(ctx, filter)
		}},
	}

	failed := 0
	for _, check := range checks {
		items, err := check.fetch(ctx)
		if err != nil {
			failed++
			fmt.Fprintf(c.App.Writer, "%-15s FAIL %v\n", check.name, err)
			continue
		}
		fmt.Fprintf(c.App.Writer, "%-15s ok   %d items\n", check.name, len(items))
	}

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d feeds failed", failed, len(checks)), 1)
	}
	return nil
}
