package registry

import (
	"net/url"
	"strings"
)

// DomainIndex maps a normalized domain to the slug that first declared it.
type DomainIndex struct {
	slugs map[string]string
}

// NewDomainIndex builds the reverse map from resolved, walking entities in
// overlay order. Later entities never displace an earlier domain.
func NewDomainIndex(resolved *Resolved) *DomainIndex {
	index := &DomainIndex{slugs: map[string]string{}}
	if resolved == nil {
		return index
	}
	for _, entity := range resolved.Entities() {
		domain := NormalizeDomain(entity.Domain)
		if domain == "" {
			continue
		}
		if _, taken := index.slugs[domain]; taken {
			continue
		}
		index.slugs[domain] = entity.Slug
	}
	return index
}

// Len reports how many domains are indexed.
func (d *DomainIndex) Len() int {
	if d == nil {
		return 0
	}
	return len(d.slugs)
}

// LookupDomain resolves a bare host name.
func (d *DomainIndex) LookupDomain(domain string) (string, bool) {
	if d == nil {
		return "", false
	}
	host := NormalizeDomain(domain)
	if host == "" {
		return "", false
	}
	if slug, ok := d.slugs[host]; ok {
		return slug, true
	}
	labels := strings.Split(host, ".")
	if len(labels) <= 2 {
		return "", false
	}
	slug, ok := d.slugs[strings.Join(labels[len(labels)-2:], ".")]
	return slug, ok
}

// Lookup resolves the host of rawURL. Unparseable URLs and URLs without a
// host report no match.
func (d *DomainIndex) Lookup(rawURL string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}
	return d.LookupDomain(parsed.Hostname())
}
