// Package content filters documents and videos and caches the raw record sets.
package content

import (
	"edunova/models"
	"net/url"
	"strings"
)

// Filter holds the recognized criteria. Empty fields are ignored; the rest are ANDed.
type Filter struct {
	Search  string `form:"search" json:"search,omitempty"`   // Case-insensitive substring of title, description or subject
	Subject string `form:"subject" json:"subject,omitempty"` // Exact match
	Level   string `form:"level" json:"level,omitempty"`     // Exact match
	Type    string `form:"type" json:"type,omitempty"`       // Exact match, documents only
}

// IsZero reports whether no criterion is set.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Values encodes the filter as query parameters, omitting empty criteria.
func (f Filter) Values() url.Values {
	v := url.Values{}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Subject != "" {
		v.Set("subject", f.Subject)
	}
	if f.Level != "" {
		v.Set("level", f.Level)
	}
	if f.Type != "" {
		v.Set("type", f.Type)
	}
	return v
}

// FilterFromValues reads a filter from query parameters.
func FilterFromValues(v url.Values) Filter {
	return Filter{
		Search:  v.Get("search"),
		Subject: v.Get("subject"),
		Level:   v.Get("level"),
		Type:    v.Get("type"),
	}
}

// Record is anything the filter can inspect.
type Record interface {
	Facets() models.ContentFacets
}

// Query returns the records matching every criterion of f, in their original order.
// The result never aliases records.
func Query[T Record](records []T, f Filter) []T {
	out := make([]T, 0, len(records))
	term := strings.ToLower(f.Search)
	for _, r := range records {
		if Match(r.Facets(), f, term) {
			out = append(out, r)
		}
	}
	return out
}

// Match applies f to one record. term is the lowercased search string.
func Match(facets models.ContentFacets, f Filter, term string) bool {
	if term != "" &&
		!strings.Contains(strings.ToLower(facets.Title), term) &&
		!strings.Contains(strings.ToLower(facets.Description), term) &&
		!strings.Contains(strings.ToLower(facets.Subject), term) {
		return false
	}
	if f.Subject != "" && facets.Subject != f.Subject {
		return false
	}
	if f.Level != "" && facets.Level != f.Level {
		return false
	}
	if f.Type != "" && facets.HasType && facets.Type != f.Type {
		return false
	}
	return true
}
