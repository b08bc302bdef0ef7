package icons_test

import (
	"os"
	"path/filepath"
	"testing"

	"pgregory.net/rapid"

	"github.com/goliatone/go-entitychips/internal/icons"
	"github.com/goliatone/go-entitychips/internal/registry"
)

const favicon = "https://icons.example/fav?d={domain}"

func TestChainPriorityProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		custom := rapid.SampledFrom([]string{"", "/custom.svg"}).Draw(rt, "custom")
		explicit := rapid.SampledFrom([]string{"", "/entity.png", "https://cdn.example/e.png"}).Draw(rt, "explicit")
		domain := rapid.SampledFrom([]string{"", "acme.dev", "www.acme.dev"}).Draw(rt, "domain")
		canonical := rapid.SampledFrom([]string{"", "https://acme.dev/home", "::broken"}).Draw(rt, "url")
		withEntity := rapid.Bool().Draw(rt, "with_entity")

		var entity *registry.Entity
		if withEntity {
			entity = &registry.Entity{Slug: "acme", Domain: domain, URL: canonical, Icon: explicit}
		}
		chain := icons.NewChain(func(string, *registry.Entity) string { return custom }, favicon)
		got, ok := chain.Icon("acme", entity)

		switch {
		case custom != "":
			if got != custom {
				rt.Fatalf("callback must win, got %q", got)
			}
		case entity != nil && explicit != "":
			if got != explicit {
				rt.Fatalf("entity icon must win over favicon, got %q", got)
			}
		case entity != nil && entity.IconDomain() != "":
			if got != "https://icons.example/fav?d=acme.dev" {
				rt.Fatalf("expected favicon fallback, got %q", got)
			}
		default:
			if ok || got != "" {
				rt.Fatalf("expected no icon, got %q", got)
			}
		}
	})
}

func TestChainWithoutCallback(t *testing.T) {
	chain := icons.NewChain(nil, "")
	entity := &registry.Entity{Domain: "stripe.com"}
	if got, ok := chain.Icon("stripe", entity); ok {
		t.Fatalf("expected no icon without a favicon service, got %q", got)
	}

	entity.Icon = "/stripe.svg"
	if got, _ := chain.Icon("stripe", entity); got != "/stripe.svg" {
		t.Fatalf("expected explicit icon, got %q", got)
	}
}

func TestResolverForURL(t *testing.T) {
	reg := registry.New(registry.WithOverrideFile(""))
	resolver := icons.NewResolver(icons.NewChain(nil, favicon), reg)

	if got, _ := resolver.ForURL("https://in.linkedin.com/in/someone", "linkedin"); got != "https://icons.example/fav?d=linkedin.com" {
		t.Fatalf("expected linkedin favicon, got %q", got)
	}
	if got, _ := resolver.ForURL("https://twitter.com/golang", "x"); got != "https://icons.example/fav?d=twitter.com" {
		t.Fatalf("expected mapped domain to win over platform tag, got %q", got)
	}
	if got, _ := resolver.ForURL("https://unknown.example/a/b", "github"); got != "https://icons.example/fav?d=github.com" {
		t.Fatalf("expected platform fallback, got %q", got)
	}
	if got, ok := resolver.ForURL("https://unknown.example", ""); ok {
		t.Fatalf("expected no icon for unmapped generic link, got %q", got)
	}
}

func TestAssetResolver(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stripe.png"), []byte("png"), 0o644); err != nil {
		t.Fatalf("write asset: %v", err)
	}
	resolve := icons.AssetResolver(dir, "/entities/")

	if got := resolve("stripe", nil); got != "/entities/stripe.png" {
		t.Fatalf("expected local asset, got %q", got)
	}
	if got := resolve("paypal", nil); got != "" {
		t.Fatalf("expected missing asset to fall through, got %q", got)
	}

	chain := icons.NewChain(resolve, favicon)
	entity := &registry.Entity{Slug: "paypal", Domain: "paypal.com"}
	if got, _ := chain.Icon("paypal", entity); got != "https://icons.example/fav?d=paypal.com" {
		t.Fatalf("expected favicon after missing asset, got %q", got)
	}
}
