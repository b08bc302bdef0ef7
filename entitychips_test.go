package entitychips_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yuin/goldmark"

	"github.com/goliatone/go-entitychips"
	"github.com/goliatone/go-entitychips/internal/logging/gologger"
	"github.com/goliatone/go-entitychips/internal/registry"
)

func newModule(t *testing.T, mutate func(*entitychips.Config)) (*entitychips.Module, string) {
	t.Helper()
	root := t.TempDir()
	cfg := entitychips.DefaultConfig()
	cfg.ProjectRoot = root
	if mutate != nil {
		mutate(&cfg)
	}
	module, err := entitychips.New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return module, root
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func expectContains(t *testing.T, got string, parts ...string) {
	t.Helper()
	for _, part := range parts {
		if !strings.Contains(got, part) {
			t.Fatalf("expected %q in\n%s", part, got)
		}
	}
}

func TestRenderHTMLWithDefaults(t *testing.T) {
	module, _ := newModule(t, nil)

	html := module.RenderHTML("Check out @[stripe]")
	expectContains(t, html,
		"Check out ",
		`href="https://stripe.com"`,
		`data-type="company"`,
		"favicons?domain=stripe.com",
		`<span class="entity-name">Stripe</span>`,
	)

	inert := module.RenderHTML("@[unknown-entity-xyz]")
	expectContains(t, inert, `data-type="generic"`, `data-entity="unknown-entity-xyz"`)
	if strings.Contains(inert, "<a ") || strings.Contains(inert, "<img") {
		t.Fatalf("inert chip must not link or carry an icon: %s", inert)
	}
}

func TestAnnotateReturnsNilForPlainText(t *testing.T) {
	module, _ := newModule(t, nil)
	if fragments := module.Annotate("nothing to see"); fragments != nil {
		t.Fatalf("expected nil fragments, got %#v", fragments)
	}
	if fragments := module.Annotate("see @[go] now"); len(fragments) != 3 {
		t.Fatalf("expected 3 fragments, got %d", len(fragments))
	}
}

func TestOverrideFileIsResolvedAgainstProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "entity-chips.json"), `{
  "acme": {"name": "Acme", "url": "https://acme.example", "category": "tools", "type": "company"},
  "stripe": {"name": "Stripe Inc", "url": "https://stripe.example", "category": "payments", "type": "company"}
}`)

	cfg := entitychips.DefaultConfig()
	cfg.ProjectRoot = root
	module, err := entitychips.New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	expectContains(t, module.RenderHTML("@[acme] and @[stripe]"),
		`href="https://acme.example"`,
		"favicons?domain=acme.example",
		`href="https://stripe.example"`,
		"Stripe Inc",
	)

	all := module.Registry().All()
	if last := all[len(all)-1]; last.Slug != "acme" {
		t.Fatalf("expected new override slug appended last, got %q", last.Slug)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := entitychips.DefaultConfig()
	cfg.FaviconService = "https://icons.example/static.png"
	if _, err := entitychips.New(cfg); !errors.Is(err, entitychips.ErrFaviconTemplateInvalid) {
		t.Fatalf("expected ErrFaviconTemplateInvalid, got %v", err)
	}

	cfg = entitychips.DefaultConfig()
	cfg.Logging.Provider = "syslog"
	if _, err := entitychips.New(cfg); !errors.Is(err, entitychips.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestIconResolverRunsFirst(t *testing.T) {
	module, _ := newModule(t, func(cfg *entitychips.Config) {
		cfg.IconResolver = func(slug string, entity *registry.Entity) string {
			if entity == nil {
				return ""
			}
			return "/custom/" + slug + ".svg"
		}
	})
	expectContains(t, module.RenderHTML("@[go]"), `<img src="/custom/go.svg"`)
}

func TestLocalAssetsFallBackToFaviconService(t *testing.T) {
	module, root := newModule(t, func(cfg *entitychips.Config) {
		cfg.Icons.UseLocalAssets = true
	})
	writeFile(t, filepath.Join(root, "public", "entities", "stripe.png"), "png")

	html := module.RenderHTML("@[stripe] @[go]")
	expectContains(t, html, `<img src="/entities/stripe.png"`, "favicons?domain=go.dev")
}

func TestToggleDefaults(t *testing.T) {
	module, _ := newModule(t, nil)
	expectContains(t, module.RenderHTML("watch https://youtube.com/watch?v=abc"), `data-type="platform"`)

	off, _ := newModule(t, func(cfg *entitychips.Config) { cfg.DisableAutoDetectURLs = true })
	if html := off.RenderHTML("watch https://youtube.com/watch?v=abc"); strings.Contains(html, "data-type") {
		t.Fatalf("expected no platform chip when detection is off: %s", html)
	}
}

func TestZeroConfigDetectsURLs(t *testing.T) {
	module, err := entitychips.New(entitychips.Config{ProjectRoot: t.TempDir()})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if !module.Config().AutoDetectURLs() {
		t.Fatal("expected URL auto-detection on for a zero Config")
	}
	expectContains(t, module.RenderHTML("watch https://youtube.com/watch?v=abc"), `data-type="platform"`)
}

func TestGoLoggerProviderSelected(t *testing.T) {
	module, _ := newModule(t, func(cfg *entitychips.Config) {
		cfg.Logging.Provider = "gologger"
		cfg.Logging.Level = "error"
		cfg.Logging.Format = "json"
	})
	if _, ok := module.LoggerProvider().(*gologger.Provider); !ok {
		t.Fatalf("expected go-logger provider, got %T", module.LoggerProvider())
	}
}

func TestExtensionPlugsIntoGoldmark(t *testing.T) {
	module, _ := newModule(t, nil)
	md := goldmark.New(goldmark.WithExtensions(module.Extension()))

	var buf bytes.Buffer
	if err := md.Convert([]byte("Built with @[go].\n"), &buf); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	expectContains(t, buf.String(), "<p>Built with ", `href="https://go.dev"`, "</a>.</p>")
}

func TestMarkdownServiceUsesProjectRoot(t *testing.T) {
	module, root := newModule(t, nil)
	writeFile(t, filepath.Join(root, "docs", "intro.md"), "---\ntitle: Intro\n---\nUses @[postgres].\n")

	svc, err := module.Markdown("", entitychips.ParseOptions{})
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	docs, err := svc.LoadDirectory(context.Background(), "docs", entitychips.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 1 || docs[0].FrontMatter.Title != "Intro" {
		t.Fatalf("unexpected documents: %#v", docs)
	}
	expectContains(t, string(docs[0].BodyHTML), `data-entity="postgres"`)
}

func TestIconFetchConfigAndTargets(t *testing.T) {
	module, root := newModule(t, nil)

	cfg := module.IconFetchConfig()
	if cfg.OutputDir != filepath.Join(root, "public", "entities") {
		t.Fatalf("unexpected output dir %q", cfg.OutputDir)
	}
	if cfg.Size != 16 || cfg.RequestsPerSecond != 5 {
		t.Fatalf("unexpected fetch defaults: %+v", cfg)
	}

	targets := module.IconTargets()
	if len(targets) != len(module.Registry().All()) {
		t.Fatalf("expected a target for every built-in entity, got %d", len(targets))
	}
	if module.IconFetcher() == nil {
		t.Fatal("expected fetcher")
	}
}
