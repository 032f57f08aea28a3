// Package media turns backend media paths into absolute URLs for
// <img>, <video> and <audio> sources.
package media

import "strings"

// Resolver resolves media paths against a fixed base origin.
type Resolver struct {
	base string
}

func NewResolver(baseOrigin string) *Resolver {
	return &Resolver{base: strings.TrimRight(baseOrigin, "/")}
}

// Base returns the configured origin without a trailing separator.
func (r *Resolver) Base() string {
	return r.base
}

// Resolve returns "" for an empty path and the path itself when it already
// starts with "http". Anything else is joined to the base with exactly one
// "/" and percent-encoded.
func (r *Resolver) Resolve(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") {
		return path
	}
	return EncodeURI(r.base + "/" + strings.TrimLeft(path, "/"))
}

const uriKeep = "-_.!~*'();/?:@&=+$,#"

// EncodeURI percent-encodes every byte that is neither alphanumeric ASCII
// nor one of the characters allowed to stay literal in a full URI.
func EncodeURI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAlnum(c) || strings.IndexByte(uriKeep, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

const hex = "0123456789ABCDEF"

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
