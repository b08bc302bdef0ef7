package chips_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-entitychips/internal/chips"
	"github.com/goliatone/go-entitychips/internal/mentions"
	"github.com/goliatone/go-entitychips/internal/platforms"
	"github.com/goliatone/go-entitychips/internal/registry"
)

type stubIcons struct {
	entity string
	urls   map[string]string
}

func (s stubIcons) ForEntity(string, *registry.Entity) (string, bool) {
	return s.entity, s.entity != ""
}

func (s stubIcons) ForURL(rawURL, fallback string) (string, bool) {
	if icon, ok := s.urls[rawURL]; ok {
		return icon, true
	}
	if fallback != "" {
		return "/" + fallback + ".png", true
	}
	return "", false
}

func assertContains(t *testing.T, html string, parts ...string) {
	t.Helper()
	for _, part := range parts {
		if !strings.Contains(html, part) {
			t.Fatalf("expected %q in\n%s", part, html)
		}
	}
}

func assertNotContains(t *testing.T, html string, parts ...string) {
	t.Helper()
	for _, part := range parts {
		if strings.Contains(html, part) {
			t.Fatalf("did not expect %q in\n%s", part, html)
		}
	}
}

var stripe = registry.Entity{Slug: "stripe", Name: "Stripe", URL: "https://stripe.com", Type: registry.TypeCompany}

func TestMentionEntityChip(t *testing.T) {
	r := chips.NewRenderer(chips.ClassNames{}, stubIcons{entity: "/icons/stripe.png"})
	m := mentions.Mention{Slug: "stripe", Entity: &stripe, DisplayName: "Stripe", URL: "https://stripe.com/pricing"}

	html := r.Mention(m)
	assertContains(t, html,
		`<a href="https://stripe.com/pricing"`,
		`class="entity-chip"`,
		`data-entity="stripe"`,
		`data-type="company"`,
		`<img src="/icons/stripe.png" alt="Stripe" width="16" height="16" class="entity-favicon" />`,
		`<span class="entity-name">Stripe</span></a>`,
	)
	if r.KindOf(m) != chips.KindEntity {
		t.Fatalf("expected entity kind")
	}
}

func TestMentionEntityChipWithoutIcon(t *testing.T) {
	r := chips.NewRenderer(chips.ClassNames{}, stubIcons{})
	html := r.Mention(mentions.Mention{Slug: "stripe", Entity: &stripe, DisplayName: "Stripe", URL: "https://stripe.com"})
	assertContains(t, html, `<a href="https://stripe.com"`)
	assertNotContains(t, html, "<img")
}

func TestMentionGenericLinkChip(t *testing.T) {
	icons := stubIcons{urls: map[string]string{"https://github.com/acme": "/github.png"}}
	r := chips.NewRenderer(chips.ClassNames{}, icons)

	mapped := r.Mention(mentions.Mention{Slug: "acme", DisplayName: "Acme", URL: "https://github.com/acme"})
	assertContains(t, mapped, `data-type="link"`, `data-entity="acme"`, `<img src="/github.png"`, `>Acme</span>`)

	unmapped := r.Mention(mentions.Mention{Slug: "acme", DisplayName: "Acme", URL: "https://acme.dev"})
	assertContains(t, unmapped, `<a href="https://acme.dev"`, `data-type="link"`)
	assertNotContains(t, unmapped, "<img")
}

func TestMentionInertChip(t *testing.T) {
	r := chips.NewRenderer(chips.ClassNames{}, stubIcons{entity: "/never.png"})
	m := mentions.Mention{Slug: "unknown-entity-xyz", DisplayName: "unknown-entity-xyz"}

	html := r.Mention(m)
	want := `<span class="entity-chip" data-entity="unknown-entity-xyz" data-type="generic"><span class="entity-name">unknown-entity-xyz</span></span>`
	if html != want {
		t.Fatalf("unexpected inert chip\nwant %s\n got %s", want, html)
	}
	if r.KindOf(m) != chips.KindInert {
		t.Fatalf("expected inert kind")
	}
}

func TestMentionUnsafeURL(t *testing.T) {
	r := chips.NewRenderer(chips.ClassNames{}, nil)

	html := r.Mention(mentions.Mention{Slug: "x", DisplayName: "x", URL: "javascript:alert(1)"})
	assertContains(t, html, `data-type="generic"`)
	assertNotContains(t, html, "javascript", "<a ")

	fallback := r.Mention(mentions.Mention{Slug: "stripe", Entity: &stripe, DisplayName: "Stripe", URL: "javascript:alert(1)"})
	assertContains(t, fallback, `<a href="https://stripe.com"`)
}

func TestPlatformChip(t *testing.T) {
	r := chips.NewRenderer(chips.ClassNames{}, stubIcons{})
	d := platforms.Detected{Platform: "x", Slug: "x", URL: "https://twitter.com/elonmusk", Match: "https://twitter.com/elonmusk"}

	html := r.Platform(d)
	assertContains(t, html,
		`<a href="https://twitter.com/elonmusk"`,
		`data-entity="x"`,
		`data-type="platform"`,
		`<img src="/x.png" alt="twitter.com/elonmusk" width="16" height="16"`,
		`<span class="entity-name">twitter.com/elonmusk</span>`,
	)
}

func TestEscaping(t *testing.T) {
	r := chips.NewRenderer(chips.ClassNames{Chip: "c", Favicon: "f", Name: "n"}, nil)
	html := r.Mention(mentions.Mention{Slug: `<b>"&`, DisplayName: `<b>"&`, URL: `https://a.dev/?q="x"&y=<z>`})

	assertContains(t, html,
		`href="https://a.dev/?q=&quot;x&quot;&amp;y=&lt;z&gt;"`,
		`class="c"`,
		`data-entity="&lt;b&gt;&quot;&amp;"`,
		`<span class="n">&lt;b&gt;&quot;&amp;</span>`,
	)
	assertNotContains(t, html, "<b>")
}

func TestEscape(t *testing.T) {
	if got := chips.Escape(`a & b < c > d "e" 'f'`); got != `a &amp; b &lt; c &gt; d &quot;e&quot; 'f'` {
		t.Fatalf("unexpected escape %q", got)
	}
}

func TestURLPolicy(t *testing.T) {
	policy := chips.NewURLPolicy()
	for raw, want := range map[string]bool{
		"https://a.dev":       true,
		"http://a.dev":        true,
		"mailto:me@a.dev":     true,
		"/relative/path":      true,
		"":                    false,
		"javascript:alert(1)": false,
		"data:text/html,hi":   false,
	} {
		if got := policy.Usable(raw); got != want {
			t.Fatalf("Usable(%q) = %v, want %v", raw, got, want)
		}
	}
	if chips.IsHTTP("/relative") || !chips.IsHTTP("https://a.dev") || chips.IsHTTP("mailto:me@a.dev") {
		t.Fatalf("IsHTTP misclassified")
	}
}
