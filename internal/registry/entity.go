package registry

import (
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// EntityType classifies the thing a chip points at.
type EntityType string

const (
	TypeCompany  EntityType = "company"
	TypePerson   EntityType = "person"
	TypePlatform EntityType = "platform"
	TypeProject  EntityType = "project"
)

// Entity is a single registry record. Slug is the map key and is not part of
// the JSON payload.
type Entity struct {
	Slug     string     `json:"-"`
	Name     string     `json:"name"`
	Domain   string     `json:"domain,omitempty"`
	URL      string     `json:"url"`
	Category string     `json:"category"`
	Type     EntityType `json:"type"`
	Icon     string     `json:"icon,omitempty"`
	Twitter  string     `json:"twitter,omitempty"`
	GitHub   string     `json:"github,omitempty"`
}

// Validate checks the record shape. Overrides that fail validation are
// discarded as a whole file.
func (e Entity) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required),
		validation.Field(&e.URL, validation.Required, is.URL),
		validation.Field(&e.Domain, is.Domain),
		validation.Field(&e.Category, validation.Required),
		validation.Field(&e.Type, validation.Required, validation.In(TypeCompany, TypePerson, TypePlatform, TypeProject)),
	)
}

// IconDomain returns the declared domain, or the host of the canonical URL
// when no domain is declared. The result is normalized.
func (e Entity) IconDomain() string {
	if domain := NormalizeDomain(e.Domain); domain != "" {
		return domain
	}
	if e.URL == "" {
		return ""
	}
	parsed, err := url.Parse(e.URL)
	if err != nil {
		return ""
	}
	return NormalizeDomain(parsed.Hostname())
}

// NormalizeDomain lowercases a host and strips a leading "www.".
func NormalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	domain = strings.TrimSuffix(domain, ".")
	return strings.TrimPrefix(domain, "www.")
}
