package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/Shym0608/News-Panel/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var templateFS embed.FS

const layout = "layouts/main"

// NewEngine parses the embedded page templates.
func NewEngine() *html.Engine {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}

// Categories are the category buttons of the navigation bar.
var Categories = []string{
	"My City",
	"My Gujarat",
	"Cricket",
	"Entertainment",
	"India",
	"Sport",
	"World",
	"Technology",
}

var breakingNews = []string{
	"🔴 Latest Breaking News Updates",
	"ગુજરાતી ન્યૂઝ - તાજા સમાચાર",
	"📺 Watch Digital News for Video Coverage",
}

const (
	langCookie = "np_lang"
	langGu     = "gu"
	langEn     = "en"
)

var labels = map[string]map[string]string{
	langGu: {
		"Language":     "ગુજરાતી",
		"Brand":        "ગુજરાત TV",
		"Search":       "શોધો... / Search...",
		"Login":        "Login",
		"Logout":       "Logout",
		"Live":         "Live News",
		"SearchResult": "શોધ પરિણામ",
		"Category":     "કેટેગરી",
		"Searching":    "શોધી રહ્યા છીએ...",
		"Found":        "સમાચાર મળ્યા",
		"AllNews":      "બધા સમાચાર",
		"NoResults":    "કોઈ સમાચાર મળ્યા નહીં",
		"TryAnother":   "બીજો શબ્દ અજમાવો અથવા",
		"SeeAll":       "બધા સમાચાર જુઓ",
		"ReadMore":     "Read More →",
		"Back":         "← Back",
	},
	langEn: {
		"Language":     "English",
		"Brand":        "Gujarat TV",
		"Search":       "Search...",
		"Login":        "Login",
		"Logout":       "Logout",
		"Live":         "Live News",
		"SearchResult": "Search results",
		"Category":     "Category",
		"Searching":    "Searching...",
		"Found":        "stories found",
		"AllNews":      "All news",
		"NoResults":    "No news found",
		"TryAnother":   "Try another word or",
		"SeeAll":       "see all news",
		"ReadMore":     "Read More →",
		"Back":         "← Back",
	},
}

func language(c *fiber.Ctx) string {
	if c.Cookies(langCookie) == langEn {
		return langEn
	}
	return langGu
}

// render executes a page inside the main layout with the navigation data
// every page needs.
func render(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	lang := language(c)
	sess := middleware.CurrentSession(c)

	data["Lang"] = lang
	data["L"] = labels[lang]
	data["LoggedIn"] = sess != nil && sess.LoggedIn()
	data["Categories"] = Categories
	data["Breaking"] = breakingNews
	if _, ok := data["Title"]; !ok {
		data["Title"] = "Gujarat News"
	}
	return c.Render(name, data, layout)
}

// ErrorPage renders the error template; it is the page behind the app's
// error handler.
func ErrorPage(c *fiber.Ctx, code int, message string) error {
	return render(c, "error", fiber.Map{
		"Title":   message,
		"Code":    code,
		"Message": message,
	})
}
