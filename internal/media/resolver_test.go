package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	r := NewResolver("https://news.example.com")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty", "", ""},
		{"absolute http", "http://cdn.example.com/a b.jpg", "http://cdn.example.com/a b.jpg"},
		{"absolute https", "https://cdn.example.com/x.mp4", "https://cdn.example.com/x.mp4"},
		{"leading slash", "/uploads/a.jpg", "https://news.example.com/uploads/a.jpg"},
		{"no leading slash", "uploads/a.jpg", "https://news.example.com/uploads/a.jpg"},
		{"repeated slashes", "//uploads/a.jpg", "https://news.example.com/uploads/a.jpg"},
		{"http mid-string", "/media/http-cache/a.jpg", "https://news.example.com/media/http-cache/a.jpg"},
		{"space", "/uploads/my photo.jpg", "https://news.example.com/uploads/my%20photo.jpg"},
		{"gujarati", "/uploads/ક.jpg", "https://news.example.com/uploads/%E0%AA%95.jpg"},
		{"percent", "/uploads/100%.jpg", "https://news.example.com/uploads/100%25.jpg"},
		{"query kept", "/v.mp4?t=1&x=2", "https://news.example.com/v.mp4?t=1&x=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.path))
		})
	}
}

func TestResolveTrimsBaseSlash(t *testing.T) {
	r := NewResolver("http://localhost:8080/")
	assert.Equal(t, "http://localhost:8080", r.Base())
	assert.Equal(t, "http://localhost:8080/a.png", r.Resolve("a.png"))
}

func TestResolveProperties(t *testing.T) {
	r := NewResolver("http://localhost:8080")
	paths := []string{"a", "/a", "b/c.mp4", "/x/y/z.png", "hello", "/0"}
	for _, p := range paths {
		got := r.Resolve(p)
		assert.NotEmpty(t, got)
		assert.True(t, strings.HasPrefix(got, r.Base()+"/"), got)
		assert.Equal(t, strings.TrimLeft(p, "/"), strings.TrimPrefix(got, r.Base()+"/"))
	}
}

func TestEncodeURIKeepsReservedCharacters(t *testing.T) {
	in := "https://h/p;a,b/?q=1&r=$+@:#frag!~*'()"
	assert.Equal(t, in, EncodeURI(in))
	assert.Equal(t, "%22%3C%3E%5C%5E%60%7B%7C%7D", EncodeURI(`"<>\^`+"`{|}"))
}
