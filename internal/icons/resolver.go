package icons

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-entitychips/internal/registry"
)

// DomainPlaceholder is replaced with the entity domain in favicon templates.
const DomainPlaceholder = "{domain}"

// Strategy is one link of the icon resolution chain. It returns "" when it
// has nothing to offer.
type Strategy interface {
	Icon(slug string, entity *registry.Entity) string
}

// Callback delegates to a host-supplied function. Any non-empty result wins,
// even when the entity carries its own icon.
type Callback func(slug string, entity *registry.Entity) string

func (c Callback) Icon(slug string, entity *registry.Entity) string {
	if c == nil {
		return ""
	}
	return c(slug, entity)
}

// EntityIcon returns the entity's explicit icon field unchanged.
type EntityIcon struct{}

func (EntityIcon) Icon(_ string, entity *registry.Entity) string {
	if entity == nil {
		return ""
	}
	return entity.Icon
}

// FaviconService builds a favicon URL from the entity's declared domain, or
// from the host of its canonical URL.
type FaviconService struct {
	Template string
}

func (f FaviconService) Icon(_ string, entity *registry.Entity) string {
	if entity == nil || f.Template == "" {
		return ""
	}
	domain := entity.IconDomain()
	if domain == "" {
		return ""
	}
	return strings.ReplaceAll(f.Template, DomainPlaceholder, url.QueryEscape(domain))
}

// Chain evaluates strategies in order and stops at the first non-empty result.
type Chain []Strategy

// NewChain assembles the fixed priority order: callback, entity icon,
// favicon service. Nil or blank members are skipped.
func NewChain(callback Callback, faviconTemplate string) Chain {
	chain := Chain{}
	if callback != nil {
		chain = append(chain, callback)
	}
	chain = append(chain, EntityIcon{})
	if strings.TrimSpace(faviconTemplate) != "" {
		chain = append(chain, FaviconService{Template: faviconTemplate})
	}
	return chain
}

// Icon returns the first icon any strategy produces.
func (c Chain) Icon(slug string, entity *registry.Entity) (string, bool) {
	for _, strategy := range c {
		if src := strategy.Icon(slug, entity); src != "" {
			return src, true
		}
	}
	return "", false
}

// Source is the registry surface the resolver needs.
type Source interface {
	Get(slug string) (registry.Entity, bool)
	LookupURL(rawURL string) (string, bool)
}

// Resolver applies a chain to slugs and URLs.
type Resolver struct {
	chain  Chain
	source Source
}

// NewResolver binds chain to the registry.
func NewResolver(chain Chain, source Source) *Resolver {
	return &Resolver{chain: chain, source: source}
}

// ForEntity resolves the icon of a mention. entity may be nil.
func (r *Resolver) ForEntity(slug string, entity *registry.Entity) (string, bool) {
	return r.chain.Icon(slug, entity)
}

// ForURL maps the URL's host to a known slug first. When the host is unknown
// the fallback slug is used instead; a blank fallback yields no icon.
func (r *Resolver) ForURL(rawURL, fallback string) (string, bool) {
	key, ok := "", false
	if r.source != nil {
		key, ok = r.source.LookupURL(rawURL)
	}
	if !ok {
		if fallback == "" {
			return "", false
		}
		key = fallback
	}
	var entity *registry.Entity
	if r.source != nil {
		if found, exists := r.source.Get(key); exists {
			entity = &found
		}
	}
	return r.chain.Icon(key, entity)
}

// AssetResolver serves icons written by the fetch tool. It returns
// publicPath/<slug>.png when the file exists under dir, and "" otherwise so
// the rest of the chain can run.
func AssetResolver(dir, publicPath string) Callback {
	return func(key string, _ *registry.Entity) string {
		name, err := AssetName(key)
		if err != nil {
			return ""
		}
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return ""
		}
		return strings.TrimRight(publicPath, "/") + "/" + name
	}
}

// AssetName is the file name an icon for key is stored under.
func AssetName(key string) (string, error) {
	normalized, err := slug.Normalize(key)
	if err != nil {
		return "", err
	}
	return normalized + ".png", nil
}
