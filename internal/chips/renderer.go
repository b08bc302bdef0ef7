package chips

import (
	"strings"

	"github.com/goliatone/go-entitychips/internal/mentions"
	"github.com/goliatone/go-entitychips/internal/platforms"
	"github.com/goliatone/go-entitychips/internal/registry"
)

const (
	DefaultChipClass    = "entity-chip"
	DefaultFaviconClass = "entity-favicon"
	DefaultNameClass    = "entity-name"
)

// Data types written to data-type besides the entity types.
const (
	TypeLink     = "link"
	TypeGeneric  = "generic"
	TypePlatform = "platform"
)

// Kind is the observable shape of a rendered chip.
type Kind int

const (
	KindInert Kind = iota
	KindEntity
	KindLink
	KindPlatform
)

// ClassNames are the CSS classes on chip markup.
type ClassNames struct {
	Chip    string
	Favicon string
	Name    string
}

func (c ClassNames) withDefaults() ClassNames {
	if c.Chip == "" {
		c.Chip = DefaultChipClass
	}
	if c.Favicon == "" {
		c.Favicon = DefaultFaviconClass
	}
	if c.Name == "" {
		c.Name = DefaultNameClass
	}
	return c
}

// IconSource resolves icons for mentions and URLs.
type IconSource interface {
	ForEntity(slug string, entity *registry.Entity) (string, bool)
	ForURL(rawURL, fallback string) (string, bool)
}

// Renderer turns resolved mentions and detected URLs into markup.
type Renderer struct {
	classes ClassNames
	icons   IconSource
	policy  *URLPolicy
}

// NewRenderer builds a renderer. A nil icon source renders every chip without an icon.
func NewRenderer(classes ClassNames, icons IconSource) *Renderer {
	return &Renderer{
		classes: classes.withDefaults(),
		icons:   icons,
		policy:  NewURLPolicy(),
	}
}

// Href returns the link target a mention renders with, or "" when it has none.
// An unusable explicit URL falls back to the entity's canonical URL.
func (r *Renderer) Href(m mentions.Mention) string {
	if r.policy.Usable(m.URL) {
		return strings.TrimSpace(m.URL)
	}
	if m.Entity != nil && r.policy.Usable(m.Entity.URL) {
		return m.Entity.URL
	}
	return ""
}

// KindOf reports which chip shape m renders as.
func (r *Renderer) KindOf(m mentions.Mention) Kind {
	switch {
	case r.Href(m) == "":
		return KindInert
	case m.Entity != nil:
		return KindEntity
	default:
		return KindLink
	}
}

// Mention renders an entity chip, a generic link chip, or an inert chip.
func (r *Renderer) Mention(m mentions.Mention) string {
	href := r.Href(m)
	switch {
	case href == "":
		return r.inert(m.DisplayName)
	case m.Entity != nil:
		icon, _ := r.iconForEntity(m.Slug, m.Entity)
		return r.anchor(href, m.Slug, string(m.Entity.Type), icon, m.DisplayName)
	default:
		return r.Link(m.DisplayName, href)
	}
}

// Link renders a generic link chip. The icon is attached only when the
// URL's host maps to a known entity.
func (r *Renderer) Link(label, href string) string {
	if !r.policy.Usable(href) {
		return r.inert(label)
	}
	icon := ""
	if r.icons != nil {
		icon, _ = r.icons.ForURL(href, "")
	}
	return r.anchor(href, strings.ToLower(label), TypeLink, icon, label)
}

// Platform renders a detected platform URL. The label is the URL without
// its scheme.
func (r *Renderer) Platform(d platforms.Detected) string {
	icon := ""
	if r.icons != nil {
		icon, _ = r.icons.ForURL(d.URL, d.Slug)
	}
	return r.anchor(d.URL, d.Platform, TypePlatform, icon, platforms.StripScheme(d.URL))
}

func (r *Renderer) iconForEntity(slug string, entity *registry.Entity) (string, bool) {
	if r.icons == nil {
		return "", false
	}
	return r.icons.ForEntity(slug, entity)
}

func (r *Renderer) anchor(href, entity, dataType, icon, label string) string {
	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(Escape(href))
	b.WriteString(`" class="`)
	b.WriteString(Escape(r.classes.Chip))
	b.WriteString(`" data-entity="`)
	b.WriteString(Escape(entity))
	b.WriteString(`" data-type="`)
	b.WriteString(Escape(dataType))
	b.WriteString(`">`)
	if icon != "" {
		b.WriteString(`<img src="`)
		b.WriteString(Escape(icon))
		b.WriteString(`" alt="`)
		b.WriteString(Escape(label))
		b.WriteString(`" width="16" height="16" class="`)
		b.WriteString(Escape(r.classes.Favicon))
		b.WriteString(`" />`)
	}
	r.writeName(&b, label)
	b.WriteString(`</a>`)
	return b.String()
}

func (r *Renderer) inert(label string) string {
	var b strings.Builder
	b.WriteString(`<span class="`)
	b.WriteString(Escape(r.classes.Chip))
	b.WriteString(`" data-entity="`)
	b.WriteString(Escape(label))
	b.WriteString(`" data-type="`)
	b.WriteString(TypeGeneric)
	b.WriteString(`">`)
	r.writeName(&b, label)
	b.WriteString(`</span>`)
	return b.String()
}

func (r *Renderer) writeName(b *strings.Builder, label string) {
	b.WriteString(`<span class="`)
	b.WriteString(Escape(r.classes.Name))
	b.WriteString(`">`)
	b.WriteString(Escape(label))
	b.WriteString(`</span>`)
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Escape encodes & < > and " for attribute values and text content.
func Escape(s string) string {
	return escaper.Replace(s)
}

func (k Kind) String() string {
	switch k {
	case KindEntity:
		return "entity"
	case KindLink:
		return TypeLink
	case KindPlatform:
		return TypePlatform
	default:
		return "inert"
	}
}
