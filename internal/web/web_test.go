package web

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Shym0608/News-Panel/internal/feed"
	"github.com/Shym0608/News-Panel/internal/home"
	"github.com/Shym0608/News-Panel/internal/media"
	"github.com/Shym0608/News-Panel/internal/middleware"
	"github.com/Shym0608/News-Panel/internal/models"
	"github.com/Shym0608/News-Panel/internal/session"
	"github.com/Shym0608/News-Panel/internal/storage"
	"github.com/Shym0608/News-Panel/internal/view"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu       sync.Mutex
	home     []models.NewsItem
	stories  []models.NewsItem
	filtered []models.NewsItem
	filterFn func(q feed.FilterQuery) []models.NewsItem
	queries  []feed.FilterQuery

	token    string
	loginErr error
}

func (f *fakeBackend) AggregateHome(ctx context.Context) ([]models.NewsItem, error) {
	return f.home, nil
}

func (f *fakeBackend) LiveVideos(ctx context.Context) ([]models.NewsItem, error) {
	return []models.NewsItem{}, nil
}

func (f *fakeBackend) SlidingVideos(ctx context.Context) ([]models.NewsItem, error) {
	return []models.NewsItem{}, nil
}

func (f *fakeBackend) Filtered(ctx context.Context, q feed.FilterQuery) ([]models.NewsItem, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	fn := f.filterFn
	f.mu.Unlock()
	if fn != nil {
		return fn(q), nil
	}
	return f.filtered, nil
}

func (f *fakeBackend) StoryList(ctx context.Context) ([]models.NewsItem, error) {
	return f.stories, nil
}

func (f *fakeBackend) DigitalList(ctx context.Context) ([]models.NewsItem, error) {
	return []models.NewsItem{}, errors.New("down")
}

func (f *fakeBackend) Login(ctx context.Context, username, password string) (string, error) {
	return f.token, f.loginErr
}

type harness struct {
	app     *fiber.App
	backend *fakeBackend
	store   *session.MemoryStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.css"), []byte("body{}"), 0644))
	assets, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	backend := &fakeBackend{}
	store := session.NewMemoryStore()
	h := NewHandlers(Deps{
		Backend:  backend,
		Resolver: media.NewResolver("http://media.test"),
		Sessions: session.NewManager(store),
		Homes: home.NewRegistry(func() *home.Controller {
			return home.NewController(backend, 20)
		}, time.Minute),
		Assets:     assets,
		CookieName: "np_session",
		SessionTTL: time.Hour,
	})
	t.Cleanup(h.Close)

	app := fiber.New(fiber.Config{
		Views:        NewEngine(),
		ErrorHandler: middleware.NewErrorHandler(ErrorPage),
	})
	SetupRoutes(app, h)

	return &harness{app: app, backend: backend, store: store}
}

func (hs *harness) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := hs.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func get(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func postForm(target string, v url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(v.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHomeAggregate(t *testing.T) {
	hs := newHarness(t)
	hs.backend.home = []models.NewsItem{
		{ID: "1", Type: models.TypeStory, Title: "Rain in Surat", MediaURLs: []string{"uploads/rain.jpg"}},
		{ID: "2", Type: models.TypeDigital, Title: "Match report", MediaURLs: []string{"/uploads/raw.mp4"}},
	}

	resp, body := hs.do(t, get("/"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Rain in Surat")
	assert.Contains(t, body, "http://media.test/uploads/rain.jpg")
	assert.Contains(t, body, "Processing...")
	assert.Contains(t, body, "Login")
	assert.NotContains(t, body, "કોઈ સમાચાર મળ્યા નહીં")
	assert.Empty(t, hs.backend.queries)
}

func TestHomeSearchWithoutResults(t *testing.T) {
	hs := newHarness(t)

	resp, body := hs.do(t, get("/?search="+url.QueryEscape("વરસાદ")))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "વરસાદ")
	assert.Contains(t, body, "કોઈ સમાચાર મળ્યા નહીં")

	require.Len(t, hs.backend.queries, 1)
	assert.Equal(t, feed.FilterQuery{Keyword: "વરસાદ", Page: 0, PageSize: 20}, hs.backend.queries[0])
}

func TestConcurrentSearchesRenderTheirOwnQuery(t *testing.T) {
	hs := newHarness(t)

	started := make(chan struct{})
	release := make(chan struct{})
	hs.backend.filterFn = func(q feed.FilterQuery) []models.NewsItem {
		if q.Keyword == "india" {
			close(started)
			<-release
		}
		return []models.NewsItem{{ID: models.ItemID(q.Keyword), Type: models.TypeStory, Title: "Headline " + q.Keyword}}
	}

	cookie := &http.Cookie{Name: "np_session", Value: session.NewID()}
	search := func(q string) *http.Request {
		req := get("/?search=" + q)
		req.AddCookie(cookie)
		return req
	}

	type page struct {
		status int
		body   string
	}
	slow := make(chan page, 1)
	go func() {
		resp, err := hs.app.Test(search("india"), -1)
		if err != nil {
			slow <- page{}
			return
		}
		body, _ := io.ReadAll(resp.Body)
		slow <- page{resp.StatusCode, string(body)}
	}()
	<-started

	resp, body := hs.do(t, search("cricket"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Headline cricket")
	assert.NotContains(t, body, "Headline india")

	close(release)
	var india page
	select {
	case india = <-slow:
	case <-time.After(5 * time.Second):
		t.Fatal("india search did not finish")
	}
	assert.Equal(t, http.StatusOK, india.status)
	assert.Contains(t, india.body, `"india"`)
	assert.Contains(t, india.body, "Headline india")
	assert.NotContains(t, india.body, "Headline cricket")
	assert.NotContains(t, india.body, `class="spinner"`)
}

func TestSearchRedirects(t *testing.T) {
	hs := newHarness(t)

	resp, _ := hs.do(t, get("/search?q=%20%20"))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, _ = hs.do(t, get("/search?q=+cricket+"))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/?search=cricket", resp.Header.Get("Location"))
}

func TestCategoryRedirects(t *testing.T) {
	hs := newHarness(t)

	resp, _ := hs.do(t, get("/category/My%20City"))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/?category=My+City", resp.Header.Get("Location"))

	resp, _ = hs.do(t, get("/category/All"))
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestStoryAndDigitalPages(t *testing.T) {
	hs := newHarness(t)
	hs.backend.stories = []models.NewsItem{
		{ID: "7", Type: models.TypeStory, Title: "Budget", FullContext: "The full budget story"},
	}

	resp, body := hs.do(t, get("/story-news"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Latest Story News")
	assert.Contains(t, body, "The full budget story")

	// A failing backend still renders an empty page.
	resp, body = hs.do(t, get("/digital-news"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Latest Digital News")
}

func TestDetailPage(t *testing.T) {
	hs := newHarness(t)

	item := models.NewsItem{ID: "9", Type: models.TypeDigital, Title: "Flood update", ShortDescription: "Water levels rise", MediaURLs: []string{"raw.mp4"}}
	resp, body := hs.do(t, get(view.DetailHref(item)))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Flood update")
	assert.Contains(t, body, "Video is being processed. Please check back shortly.")
	assert.NotContains(t, body, "raw.mp4")

	resp, body = hs.do(t, get("/news/9"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "No news data found")

	resp, body = hs.do(t, get("/news/9?data=%7Bbroken"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Invalid news data")
}

func TestLoginRequiresBothFields(t *testing.T) {
	hs := newHarness(t)

	resp, body := hs.do(t, postForm("/login", url.Values{"username": {"editor"}}))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Please enter both username and password")
	assert.Contains(t, body, `value="editor"`)
}

func TestLoginRejected(t *testing.T) {
	hs := newHarness(t)
	hs.backend.loginErr = &feed.AuthError{Status: 401, Message: "Bad credentials"}

	resp, body := hs.do(t, postForm("/login", url.Values{"username": {"u"}, "password": {"p"}}))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Bad credentials")
	assert.Empty(t, resp.Header.Get("Location"))
}

func TestLoginBackendDown(t *testing.T) {
	hs := newHarness(t)
	hs.backend.loginErr = feed.ErrNetwork

	resp, body := hs.do(t, postForm("/login", url.Values{"username": {"u"}, "password": {"p"}}))
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, "Login failed")
}

func TestLoginThenLogout(t *testing.T) {
	hs := newHarness(t)
	hs.backend.token = "tok-123"

	id := session.NewID()
	cookie := &http.Cookie{Name: "np_session", Value: id}

	req := postForm("/login", url.Values{"username": {"u"}, "password": {"p"}})
	req.AddCookie(cookie)
	resp, _ := hs.do(t, req)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	token, err := hs.store.Get(context.Background(), session.KeyFor(id))
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	req = get("/")
	req.AddCookie(cookie)
	_, body := hs.do(t, req)
	assert.Contains(t, body, "Logout")

	req = postForm("/logout", nil)
	req.AddCookie(cookie)
	resp, _ = hs.do(t, req)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	token, err = hs.store.Get(context.Background(), session.KeyFor(id))
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestLoginWithoutTokenStaysLoggedOut(t *testing.T) {
	hs := newHarness(t)

	id := session.NewID()
	req := postForm("/login", url.Values{"username": {"u"}, "password": {"p"}})
	req.AddCookie(&http.Cookie{Name: "np_session", Value: id})
	resp, _ := hs.do(t, req)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	token, err := hs.store.Get(context.Background(), session.KeyFor(id))
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestToggleLanguage(t *testing.T) {
	hs := newHarness(t)

	req := postForm("/lang", nil)
	req.Header.Set("Referer", "http://portal.test/story-news?x=1")
	resp, _ := hs.do(t, req)
	assert.Equal(t, "/story-news?x=1", resp.Header.Get("Location"))

	var lang *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == langCookie {
			lang = c
		}
	}
	require.NotNil(t, lang)
	assert.Equal(t, langEn, lang.Value)

	req = get("/")
	req.AddCookie(lang)
	_, body := hs.do(t, req)
	assert.Contains(t, body, "Gujarat TV")
}

func TestBackPath(t *testing.T) {
	assert.Equal(t, "/", backPath(""))
	assert.Equal(t, "/", backPath("https://evil.test"))
	assert.Equal(t, "/", backPath("//evil.test/x"))
	assert.Equal(t, "/news/1?data=x", backPath("https://portal.test/news/1?data=x"))
}

func TestStaticAssets(t *testing.T) {
	hs := newHarness(t)

	resp, body := hs.do(t, get("/static/site.css"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "body{}", body)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/css")
	assert.Empty(t, resp.Cookies())

	resp, _ = hs.do(t, get("/static/missing.png"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndNotFound(t *testing.T) {
	hs := newHarness(t)

	resp, body := hs.do(t, get("/health"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"status":"ok"`)

	resp, _ = hs.do(t, get("/nope"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStreamEvents(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	events := make(chan session.Event, 1)
	events <- session.Event{LoggedIn: true}
	close(events)

	err := streamEvents(w, session.Event{LoggedIn: false}, events, nil, nil)
	require.NoError(t, err)

	assert.Equal(t,
		"event: session\ndata: {\"loggedIn\":false}\n\n"+
			"event: session\ndata: {\"loggedIn\":true}\n\n",
		buf.String())
}

func TestStreamEventsStopsOnDone(t *testing.T) {
	var buf bytes.Buffer
	done := make(chan struct{})
	close(done)

	err := streamEvents(bufio.NewWriter(&buf), session.Event{}, make(chan session.Event), nil, done)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "event: session")
}
