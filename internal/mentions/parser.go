package mentions

import (
	"strings"

	"github.com/goliatone/go-entitychips/internal/registry"
)

// Marker opens a mention token.
const Marker = "@["

// Lookup resolves a lowercased slug.
type Lookup interface {
	Get(slug string) (registry.Entity, bool)
}

// Token is one syntactic match of @[label] or @[label](url).
type Token struct {
	Start int
	End   int
	Label string
	URL   string
}

// Text returns the literal source of the token.
func (t Token) Text(source string) string {
	return source[t.Start:t.End]
}

// Mention is a token resolved against the registry.
type Mention struct {
	Slug        string
	Entity      *registry.Entity
	DisplayName string
	URL         string
	Match       string
	Start       int
}

// End returns the offset just past the matched text.
func (m Mention) End() int {
	return m.Start + len(m.Match)
}

// Resolvable reports whether the mention can render as a link.
func (m Mention) Resolvable() bool {
	return m.Entity != nil || m.URL != ""
}

// Scan returns every token in text in ascending offset order. Matching
// restarts right after each token, and one byte after a failed attempt.
func Scan(text string) []Token {
	var tokens []Token
	pos := 0
	for pos < len(text) {
		idx := strings.Index(text[pos:], Marker)
		if idx < 0 {
			break
		}
		start := pos + idx
		token, ok := scanAt(text, start)
		if !ok {
			pos = start + 1
			continue
		}
		tokens = append(tokens, token)
		pos = token.End
	}
	return tokens
}

func scanAt(text string, start int) (Token, bool) {
	labelStart := start + len(Marker)
	closing := strings.IndexByte(text[labelStart:], ']')
	if closing <= 0 {
		return Token{}, false
	}
	labelEnd := labelStart + closing
	token := Token{
		Start: start,
		End:   labelEnd + 1,
		Label: text[labelStart:labelEnd],
	}

	rest := text[token.End:]
	if !strings.HasPrefix(rest, "(") {
		return token, true
	}
	paren := strings.IndexByte(rest[1:], ')')
	if paren <= 0 {
		// "()" or an unterminated paren stays literal text after the token
		return token, true
	}
	token.URL = rest[1 : 1+paren]
	token.End += paren + 2
	return token, true
}

// Parse scans text and resolves each token against lookup.
func Parse(text string, lookup Lookup) []Mention {
	tokens := Scan(text)
	if len(tokens) == 0 {
		return nil
	}
	out := make([]Mention, 0, len(tokens))
	for _, token := range tokens {
		out = append(out, Resolve(token.Label, token.URL, lookup, token.Start, token.Text(text)))
	}
	return out
}

// Resolve builds a Mention from a label and an optional explicit URL. It is
// shared by the text scanner and link fusion.
func Resolve(label, explicitURL string, lookup Lookup, start int, match string) Mention {
	slug := strings.ToLower(label)
	mention := Mention{
		Slug:        slug,
		DisplayName: label,
		URL:         explicitURL,
		Match:       match,
		Start:       start,
	}
	if lookup != nil {
		if entity, ok := lookup.Get(slug); ok {
			mention.Entity = &entity
			mention.DisplayName = entity.Name
			if mention.URL == "" {
				mention.URL = entity.URL
			}
		}
	}
	return mention
}
