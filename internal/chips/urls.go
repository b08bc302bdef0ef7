package chips

import (
	"net/url"
	"strings"
)

// URLPolicy decides which hrefs may appear on a chip.
type URLPolicy struct {
	allowedSchemes map[string]struct{}
}

// NewURLPolicy allows http, https, mailto and relative URLs.
func NewURLPolicy() *URLPolicy {
	return &URLPolicy{
		allowedSchemes: map[string]struct{}{
			"http":   {},
			"https":  {},
			"mailto": {},
			"":       {},
		},
	}
}

// Usable reports whether raw can be used as a chip href.
func (p *URLPolicy) Usable(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return false
	}
	_, ok := p.allowedSchemes[strings.ToLower(parsed.Scheme)]
	return ok
}

// IsHTTP reports whether raw is an absolute http(s) URL.
func IsHTTP(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" {
		return false
	}
	scheme := strings.ToLower(parsed.Scheme)
	return scheme == "http" || scheme == "https"
}
