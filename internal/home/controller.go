// Package home drives the home page: which feeds to load for the current
// search and category, and which state the page is in.
package home

import (
	"context"
	"sync"

	"github.com/Shym0608/News-Panel/internal/feed"
	"github.com/Shym0608/News-Panel/internal/models"
	"github.com/samber/lo"
)

type State string

const (
	StateInitial   State = "INITIAL"
	StateLoading   State = "LOADING"
	StatePopulated State = "POPULATED"
	StateEmpty     State = "EMPTY"
	StateError     State = "ERROR"
)

// Query is the pair of URL parameters that selects the home feed.
type Query struct {
	Search   string
	Category string
}

// Searching reports whether a search or category filter is active.
func (q Query) Searching() bool {
	return q.Search != "" || q.Category != ""
}

// FeedSource is the subset of the backend client the home page reads.
type FeedSource interface {
	AggregateHome(ctx context.Context) ([]models.NewsItem, error)
	LiveVideos(ctx context.Context) ([]models.NewsItem, error)
	SlidingVideos(ctx context.Context) ([]models.NewsItem, error)
	Filtered(ctx context.Context, q feed.FilterQuery) ([]models.NewsItem, error)
}

// Snapshot is what the page renders.
type Snapshot struct {
	State   State
	Query   Query
	News    []models.NewsItem
	Stories []models.NewsItem
	Digital []models.NewsItem
	Live    []models.NewsItem
	Sliding []models.NewsItem
	Err     error
}

func (s Snapshot) Searching() bool {
	return s.Query.Searching()
}

func (s Snapshot) Loading() bool {
	return s.State == StateLoading
}

// NoResults reports whether the "nothing found" message applies: a search
// is active, loading finished and nothing came back.
func (s Snapshot) NoResults() bool {
	return s.Searching() && !s.Loading() && len(s.News) == 0
}

// Controller holds the home page state of one browser. Load may be called
// concurrently. Every call returns the result of its own query; only the
// retained state (the live rails and the latest snapshot) is guarded so
// that an older result never replaces a newer one.
type Controller struct {
	feeds    FeedSource
	pageSize int

	mu        sync.Mutex
	state     State
	query     Query
	news      []models.NewsItem
	live      []models.NewsItem
	sliding   []models.NewsItem
	err       error
	requested uint64
	applied   uint64
}

func NewController(feeds FeedSource, pageSize int) *Controller {
	return &Controller{
		feeds:    feeds,
		pageSize: pageSize,
		state:    StateInitial,
	}
}

type result struct {
	state   State
	news    []models.NewsItem
	live    []models.NewsItem // nil leaves the rail untouched
	sliding []models.NewsItem // nil leaves the rail untouched
	err     error
}

// Load fetches the feeds for q and returns the snapshot of that query. The
// returned state is never LOADING.
func (c *Controller) Load(ctx context.Context, q Query) Snapshot {
	gen, haveLive := c.begin()

	var res result
	if q.Searching() {
		res = c.loadFiltered(ctx, q, haveLive)
	} else {
		res = c.loadAggregate(ctx)
	}

	return c.apply(gen, q, res)
}

// Snapshot returns the retained state without fetching. It is LOADING while
// a load newer than the last applied one is running.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) begin() (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requested++
	c.state = StateLoading
	return c.requested, len(c.live) > 0
}

// apply retains res unless a newer load was applied already, and returns
// the snapshot of q itself. Rails the load did not fetch come from the
// retained ones.
func (c *Controller) apply(gen uint64, q Query, res result) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen > c.applied {
		c.applied = gen
		c.query = q
		c.news = res.news
		c.err = res.err
		if res.live != nil {
			c.live = res.live
		}
		if res.sliding != nil {
			c.sliding = res.sliding
		}
		if gen == c.requested {
			c.state = res.state
		}
	}

	live := res.live
	if live == nil {
		live = c.live
	}
	sliding := res.sliding
	if sliding == nil {
		sliding = c.sliding
	}
	return newSnapshot(res.state, q, res.news, orEmpty(live), orEmpty(sliding), res.err)
}

func (c *Controller) loadAggregate(ctx context.Context) result {
	var (
		wg                  sync.WaitGroup
		news, live, sliding []models.NewsItem
		newsErr             error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		news, newsErr = c.feeds.AggregateHome(ctx)
	}()
	go func() {
		defer wg.Done()
		live, _ = c.feeds.LiveVideos(ctx)
	}()
	go func() {
		defer wg.Done()
		sliding, _ = c.feeds.SlidingVideos(ctx)
	}()
	wg.Wait()

	res := result{
		state:   StatePopulated,
		news:    orEmpty(news),
		live:    orEmpty(live),
		sliding: orEmpty(sliding),
		err:     newsErr,
	}
	if newsErr != nil {
		res.state = StateError
	}
	return res
}

func (c *Controller) loadFiltered(ctx context.Context, q Query, haveLive bool) result {
	news, err := c.feeds.Filtered(ctx, feed.FilterQuery{
		Keyword:  q.Search,
		Category: q.Category,
		Page:     0,
		PageSize: c.pageSize,
	})

	res := result{news: orEmpty(news), err: err}
	switch {
	case err != nil:
		res.state = StateError
	case len(news) == 0:
		res.state = StateEmpty
	default:
		res.state = StatePopulated
	}

	// Keep the live rail on screen while searching.
	if !haveLive {
		live, _ := c.feeds.LiveVideos(ctx)
		res.live = orEmpty(live)
	}
	return res
}

func (c *Controller) snapshotLocked() Snapshot {
	return newSnapshot(c.state, c.query, c.news, c.live, c.sliding, c.err)
}

func newSnapshot(state State, q Query, news, live, sliding []models.NewsItem, err error) Snapshot {
	stories, digital := Partition(news)
	return Snapshot{
		State:   state,
		Query:   q,
		News:    news,
		Stories: stories,
		Digital: digital,
		Live:    live,
		Sliding: sliding,
		Err:     err,
	}
}

// Partition splits items into stories (anything not DIGITAL) and digital
// segments, keeping the backend order inside each group.
func Partition(items []models.NewsItem) (stories, digital []models.NewsItem) {
	stories = lo.Filter(items, func(item models.NewsItem, _ int) bool {
		return !item.IsDigital()
	})
	digital = lo.Filter(items, func(item models.NewsItem, _ int) bool {
		return item.IsDigital()
	})
	return stories, digital
}

func orEmpty(items []models.NewsItem) []models.NewsItem {
	if items == nil {
		return []models.NewsItem{}
	}
	return items
}
