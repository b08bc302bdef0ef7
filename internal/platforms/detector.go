package platforms

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Detected is a bare URL that matched a platform pattern.
type Detected struct {
	Platform string
	Slug     string
	URL      string
	Match    string
	Start    int
}

// End returns the offset just past the matched text.
func (d Detected) End() int {
	return d.Start + len(d.Match)
}

// Pattern recognizes the URLs of one platform.
type Pattern struct {
	Name  string
	Hosts []string
	Match func(u *url.URL) bool
}

func (p Pattern) matches(u *url.URL) bool {
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for _, candidate := range p.Hosts {
		if host == candidate || strings.HasSuffix(host, "."+candidate) {
			return p.Match(u)
		}
	}
	return false
}

// DefaultPatterns is evaluated in declaration order; the first match wins.
var DefaultPatterns = []Pattern{
	{
		Name:  "youtube",
		Hosts: []string{"youtube.com", "youtu.be"},
		Match: func(u *url.URL) bool {
			if strings.HasSuffix(strings.ToLower(u.Hostname()), "youtu.be") {
				return validID(firstSegment(u.Path))
			}
			if segments := pathSegments(u.Path); len(segments) == 2 && segments[0] == "shorts" {
				return validID(segments[1])
			}
			return u.Path == "/watch" && validID(u.Query().Get("v"))
		},
	},
	{
		Name:  "github",
		Hosts: []string{"github.com"},
		Match: func(u *url.URL) bool {
			segments := pathSegments(u.Path)
			return len(segments) >= 2 && segments[0] != "" && segments[1] != ""
		},
	},
	{
		Name:  "x",
		Hosts: []string{"twitter.com", "x.com"},
		Match: func(u *url.URL) bool {
			return firstSegment(u.Path) != ""
		},
	},
	{
		Name:  "linkedin",
		Hosts: []string{"linkedin.com"},
		Match: func(u *url.URL) bool {
			segments := pathSegments(u.Path)
			return len(segments) >= 2 && (segments[0] == "in" || segments[0] == "company") && segments[1] != ""
		},
	},
}

// Detector finds bare URLs and classifies them against an ordered table.
type Detector struct {
	patterns []Pattern
}

// NewDetector returns a detector over patterns, or DefaultPatterns when none are given.
func NewDetector(patterns ...Pattern) *Detector {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	return &Detector{patterns: patterns}
}

// Classify returns the platform of rawURL.
func (d *Detector) Classify(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "", false
	}
	for _, pattern := range d.patterns {
		if pattern.matches(parsed) {
			return pattern.Name, true
		}
	}
	return "", false
}

// Detect returns the platform URLs in text in ascending offset order. URLs
// that match no platform are skipped.
func (d *Detector) Detect(text string) []Detected {
	var out []Detected
	for _, span := range ScanURLs(text) {
		raw := text[span[0]:span[1]]
		platform, ok := d.Classify(raw)
		if !ok {
			continue
		}
		out = append(out, Detected{
			Platform: platform,
			Slug:     platform,
			URL:      raw,
			Match:    raw,
			Start:    span[0],
		})
	}
	return out
}

// ScanURLs returns the [start, end) byte ranges of every bare http(s) URL.
// A URL runs until whitespace or one of < > ) ].
func ScanURLs(text string) [][2]int {
	var spans [][2]int
	pos := 0
	for pos < len(text) {
		idx := strings.Index(text[pos:], "http")
		if idx < 0 {
			break
		}
		start := pos + idx
		rest := text[start:]
		var prefix int
		switch {
		case strings.HasPrefix(rest, "https://"):
			prefix = len("https://")
		case strings.HasPrefix(rest, "http://"):
			prefix = len("http://")
		default:
			pos = start + 1
			continue
		}
		end := start + prefix
		for end < len(text) {
			r, size := utf8.DecodeRuneInString(text[end:])
			if isTerminator(r) {
				break
			}
			end += size
		}
		if end == start+prefix {
			pos = end
			continue
		}
		spans = append(spans, [2]int{start, end})
		pos = end
	}
	return spans
}

func isTerminator(r rune) bool {
	switch r {
	case '<', '>', ')', ']':
		return true
	}
	return unicode.IsSpace(r)
}

// StripScheme removes a leading http:// or https://.
func StripScheme(rawURL string) string {
	if rest, ok := strings.CutPrefix(rawURL, "https://"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(rawURL, "http://"); ok {
		return rest
	}
	return rawURL
}

func pathSegments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func firstSegment(path string) string {
	segments := pathSegments(path)
	if len(segments) == 0 {
		return ""
	}
	return segments[0]
}

func validID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
