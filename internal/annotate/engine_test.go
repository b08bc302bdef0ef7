package annotate_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/goliatone/go-entitychips/internal/annotate"
	"github.com/goliatone/go-entitychips/internal/chips"
	"github.com/goliatone/go-entitychips/internal/icons"
	"github.com/goliatone/go-entitychips/internal/registry"
)

const favicon = "https://icons.example/fav?d={domain}"

func newEngine(t testing.TB, overrides string, opts ...annotate.Option) *annotate.Engine {
	t.Helper()
	reg := registry.New(registry.WithOverrideFile(overrides))
	resolver := icons.NewResolver(icons.NewChain(nil, favicon), reg)
	renderer := chips.NewRenderer(chips.ClassNames{}, resolver)
	return annotate.New(reg, renderer, opts...)
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mustContain(t *testing.T, html string, parts ...string) {
	t.Helper()
	for _, part := range parts {
		if !strings.Contains(html, part) {
			t.Fatalf("expected %q in\n%s", part, html)
		}
	}
}

func TestScenarioBuiltinMention(t *testing.T) {
	engine := newEngine(t, "")
	fragments := engine.Fragments("Check out @[stripe]")
	if len(fragments) != 2 {
		t.Fatalf("expected 2 fragments, got %+v", fragments)
	}
	if fragments[0].Kind != annotate.Literal || fragments[0].Text != "Check out " {
		t.Fatalf("expected leading literal, got %+v", fragments[0])
	}
	mustContain(t, fragments[1].HTML, `<a href="https://stripe.com"`, `>Stripe</span>`, `<img src="https://icons.example/fav?d=stripe.com"`)
}

func TestScenarioUnknownMention(t *testing.T) {
	engine := newEngine(t, "")
	fragments := engine.Fragments("@[unknown-entity-xyz]")
	if len(fragments) != 1 || fragments[0].Kind != annotate.Chip {
		t.Fatalf("expected one chip, got %+v", fragments)
	}
	html := fragments[0].HTML
	mustContain(t, html, `data-type="generic"`, `data-entity="unknown-entity-xyz"`)
	if strings.Contains(html, "<img") || strings.Contains(html, "<a ") {
		t.Fatalf("inert chip must have no icon or link: %s", html)
	}
}

func TestScenarioExplicitURL(t *testing.T) {
	engine := newEngine(t, "")
	html := engine.RenderHTML("@[stripe](https://stripe.com/pricing)")
	mustContain(t, html, `href="https://stripe.com/pricing"`, `>Stripe</span>`)
	if strings.Count(html, "<a ") != 1 {
		t.Fatalf("URL inside a mention must not render its own chip: %s", html)
	}
}

func TestScenarioPlatformURL(t *testing.T) {
	engine := newEngine(t, "")
	html := engine.RenderHTML("Follow https://twitter.com/elonmusk")
	mustContain(t, html, "Follow ", `data-type="platform"`, `>twitter.com/elonmusk</span>`)

	disabled := engine.With(annotate.WithAutoDetectURLs(false))
	if got := disabled.Fragments("Follow https://twitter.com/elonmusk"); got != nil {
		t.Fatalf("expected no fragments with detection off, got %+v", got)
	}
}

func TestScenarioOverrideFile(t *testing.T) {
	path := t.TempDir() + "/entity-chips.json"
	writeFile(t, path, `{"stripe": {"name": "Stripe Payments", "url": "https://payments.example", "category": "payments", "type": "company"}}`)

	engine := newEngine(t, path)
	html := engine.RenderHTML("@[stripe]")
	mustContain(t, html, `href="https://payments.example"`, `>Stripe Payments</span>`)
	if strings.Contains(html, "https://stripe.com") {
		t.Fatalf("built-in fields must not leak through the override: %s", html)
	}
}

func TestScenarioSurroundingText(t *testing.T) {
	engine := newEngine(t, "")
	fragments := engine.Fragments("Before @[stripe] after")
	if len(fragments) != 3 {
		t.Fatalf("expected 3 fragments, got %+v", fragments)
	}
	if fragments[0].Text != "Before " || fragments[2].Text != " after" {
		t.Fatalf("surrounding text not preserved: %+v", fragments)
	}
}

func TestScanTextSplice(t *testing.T) {
	engine := newEngine(t, "")
	splice, ok := engine.ScanText(4, "a @[stripe] b https://github.com/a/b c")
	if !ok {
		t.Fatalf("expected splice")
	}
	if splice.Start != 4 || splice.Remove != 1 || len(splice.Fragments) != 5 || splice.Resume != 9 {
		t.Fatalf("unexpected splice %+v", splice)
	}
	if _, ok := engine.ScanText(0, "nothing to see"); ok {
		t.Fatalf("plain text must not produce a splice")
	}
}

func TestFuseLink(t *testing.T) {
	engine := newEngine(t, "")

	splice, ok := engine.FuseLink(3, "Paid with @", "Stripe", "https://stripe.com/docs")
	if !ok {
		t.Fatalf("expected fusion")
	}
	if splice.Start != 2 || splice.Remove != 2 || splice.Resume != 4 || len(splice.Fragments) != 2 {
		t.Fatalf("unexpected splice %+v", splice)
	}
	if splice.Fragments[0].Text != "Paid with " {
		t.Fatalf("marker must be stripped, got %q", splice.Fragments[0].Text)
	}
	mustContain(t, splice.Fragments[1].HTML, `href="https://stripe.com/docs"`, `data-entity="stripe"`, `>Stripe</span>`)

	only, ok := engine.FuseLink(1, "@", "Acme", "https://acme.dev")
	if !ok || len(only.Fragments) != 1 || only.Resume != 1 {
		t.Fatalf("empty text must be dropped, got %+v", only)
	}
	mustContain(t, only.Fragments[0].HTML, `data-type="link"`)

	for _, tc := range []struct {
		index int
		prev  string
		label string
	}{
		{0, "@", "x"},
		{1, "no marker", "x"},
	} {
		if _, ok := engine.FuseLink(tc.index, tc.prev, tc.label, "https://x.dev"); ok {
			t.Fatalf("unexpected fusion for %+v", tc)
		}
	}
}

func TestFuseLinkEmptyLabelUsesTarget(t *testing.T) {
	engine := newEngine(t, "")

	splice, ok := engine.FuseLink(1, "see @", "", "https://x.com")
	if !ok || len(splice.Fragments) != 2 {
		t.Fatalf("expected fusion, got %+v", splice)
	}
	if splice.Fragments[1].Text != "@[](https://x.com)" {
		t.Fatalf("unexpected match text %q", splice.Fragments[1].Text)
	}
	mustContain(t, splice.Fragments[1].HTML, `href="https://x.com"`, `data-type="link"`, `<span class="entity-name">x.com</span>`)
}

func TestTransformLink(t *testing.T) {
	engine := newEngine(t, "")
	if _, ok := engine.TransformLink(0, "docs", "https://stripe.com/docs"); ok {
		t.Fatalf("link transformation must default off")
	}

	engine = engine.With(annotate.WithTransformLinks(true))
	splice, ok := engine.TransformLink(2, "docs", "https://stripe.com/docs")
	if !ok || splice.Start != 2 || splice.Remove != 1 || splice.Resume != 3 {
		t.Fatalf("unexpected splice %+v", splice)
	}
	mustContain(t, splice.Fragments[0].HTML, `data-type="link"`, `<img src="https://icons.example/fav?d=stripe.com"`)

	if _, ok := engine.TransformLink(0, "local", "/about"); ok {
		t.Fatalf("relative links must stay untouched")
	}
}

func TestPlatformLink(t *testing.T) {
	engine := newEngine(t, "")
	splice, ok := engine.PlatformLink(1, "https://github.com/golang/go")
	if !ok || splice.Start != 1 || splice.Remove != 1 || splice.Resume != 2 {
		t.Fatalf("unexpected splice %+v", splice)
	}
	mustContain(t, splice.Fragments[0].HTML, `data-type="platform"`, `data-entity="github"`, `>github.com/golang/go</span>`)

	if _, ok := engine.PlatformLink(0, "https://example.com/page"); ok {
		t.Fatalf("non-platform URLs must not produce a chip")
	}
	off := engine.With(annotate.WithAutoDetectURLs(false))
	if _, ok := off.PlatformLink(0, "https://github.com/golang/go"); ok {
		t.Fatalf("detection off must skip platform links")
	}
}

func TestMetricsObservations(t *testing.T) {
	metrics := &countingMetrics{chips: map[string]int{}}
	engine := newEngine(t, "", annotate.WithMetrics(metrics))

	engine.Fragments("@[stripe] @[nope] https://x.com/golang")
	engine.FuseLink(1, "@", "paypal", "https://paypal.com")

	if metrics.scans != 1 || metrics.fusions != 1 {
		t.Fatalf("unexpected counts %+v", metrics)
	}
	if metrics.chips["entity"] != 2 || metrics.chips["inert"] != 1 || metrics.chips["platform"] != 1 {
		t.Fatalf("unexpected chip counts %+v", metrics.chips)
	}
}

var pieces = []string{
	"plain ", "text", " ", "\n", "@", "[", "]", "(", ")", "@[stripe]", "@[Stripe]", "@[nope]",
	"@[acme](https://acme.dev)", "https://github.com/a/b", "https://x.com/golang", "https://stripe.com",
	"@[x](https://twitter.com/a)", "é", "http", "https://", "<b>",
}

func drawText(t *rapid.T) string {
	return strings.Join(rapid.SliceOfN(rapid.SampledFrom(pieces), 0, 12).Draw(t, "pieces"), "")
}

func TestFragmentsReconstructSource(t *testing.T) {
	engine := newEngine(t, "")
	rapid.Check(t, func(rt *rapid.T) {
		text := drawText(rt)
		fragments := engine.Fragments(text)
		if fragments == nil {
			if len(engine.Replacements(text)) != 0 {
				rt.Fatalf("replacements without fragments")
			}
			return
		}
		var rebuilt strings.Builder
		cursor := 0
		for _, f := range fragments {
			if f.Start != cursor || f.End < f.Start {
				rt.Fatalf("fragments must be contiguous: %+v", fragments)
			}
			if text[f.Start:f.End] != f.Text {
				rt.Fatalf("fragment text mismatch %+v", f)
			}
			if f.Kind == annotate.Chip && f.HTML == "" {
				rt.Fatalf("chip without markup %+v", f)
			}
			rebuilt.WriteString(f.Text)
			cursor = f.End
		}
		if rebuilt.String() != text || cursor != len(text) {
			rt.Fatalf("reconstruction mismatch\nwant %q\n got %q", text, rebuilt.String())
		}
	})
}

func TestReplacementsSortedAndDisjoint(t *testing.T) {
	engine := newEngine(t, "")
	rapid.Check(t, func(rt *rapid.T) {
		text := drawText(rt)
		replacements := engine.Replacements(text)
		for i := 1; i < len(replacements); i++ {
			if replacements[i].Start < replacements[i-1].End() {
				rt.Fatalf("replacements overlap or are unsorted: %+v", replacements)
			}
		}
	})
}

func TestTextWithoutTokensIsUntouched(t *testing.T) {
	engine := newEngine(t, "")
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringMatching(`[a-zA-Z0-9 .,:;!?()\[\]\n-]{0,60}`).Draw(rt, "text")
		if strings.Contains(text, "@[") || strings.Contains(text, "http") {
			return
		}
		if got := engine.Fragments(text); got != nil {
			rt.Fatalf("expected no fragments for %q, got %+v", text, got)
		}
	})
}

func TestMentionLookupIsCaseInsensitive(t *testing.T) {
	engine := newEngine(t, "")
	rapid.Check(t, func(rt *rapid.T) {
		label := rapid.SampledFrom([]string{"stripe", "Stripe", "STRIPE", "sTrIpE"}).Draw(rt, "label")
		got := engine.Fragments("@[" + label + "]")
		want := engine.Fragments("@[stripe]")
		if len(got) != 1 || got[0].HTML != want[0].HTML {
			rt.Fatalf("case variants must render identically: %+v vs %+v", got, want)
		}
	})
}

type countingMetrics struct {
	scans   int
	fusions int
	chips   map[string]int
}

func (m *countingMetrics) ObserveScan(time.Duration, int) { m.scans++ }
func (m *countingMetrics) IncrementChip(kind string)      { m.chips[kind]++ }
func (m *countingMetrics) IncrementFusion()               { m.fusions++ }
