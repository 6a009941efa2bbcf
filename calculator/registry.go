// Package calculator holds the contract every calculator page follows:
// a registry of content objects keyed by slug, coercion of raw form values
// into typed values, and evaluation that checks result shape.
package calculator

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"propcalc/domain"
)

var (
	ErrInvalidContent = errors.New("invalid calculator content")
	ErrDuplicateSlug  = errors.New("duplicate calculator slug")
)

// Registry maps slugs to calculator content. It is filled once at startup
// and read concurrently afterwards.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]domain.Content
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]domain.Content)}
}

// NewRegistryFrom registers every content object, failing on the first
// invalid or duplicate entry.
func NewRegistryFrom(contents ...domain.Content) (*Registry, error) {
	r := NewRegistry()
	for _, c := range contents {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(c domain.Content) error {
	if err := validateContent(c); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[c.Slug]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateSlug, c.Slug)
	}
	c.Calculator.Fields = append([]domain.FieldSpec(nil), c.Calculator.Fields...)
	c.Calculator.Results = append([]domain.ResultSpec(nil), c.Calculator.Results...)
	r.entries[c.Slug] = c
	return nil
}

func (r *Registry) Lookup(slug string) (domain.Content, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.entries[slug]
	return c, ok
}

// All returns every entry sorted by category, then title.
func (r *Registry) All() []domain.Content {
	r.mu.RLock()
	out := make([]domain.Content, 0, len(r.entries))
	for _, c := range r.entries {
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Title < out[j].Title
	})
	return out
}

func (r *Registry) Categories() []string {
	r.mu.RLock()
	seen := make(map[string]bool)
	for _, c := range r.entries {
		seen[c.Category] = true
	}
	r.mu.RUnlock()

	cats := make([]string, 0, len(seen))
	for c := range seen {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func validateContent(c domain.Content) error {
	if c.Slug == "" {
		return fmt.Errorf("%w: empty slug", ErrInvalidContent)
	}
	if c.Title == "" {
		return fmt.Errorf("%w: %s: empty title", ErrInvalidContent, c.Slug)
	}
	if c.Calculator.Calculate == nil {
		return fmt.Errorf("%w: %s: nil calculate function", ErrInvalidContent, c.Slug)
	}
	if len(c.Calculator.Results) == 0 {
		return fmt.Errorf("%w: %s: no result specs", ErrInvalidContent, c.Slug)
	}

	names := make(map[string]bool, len(c.Calculator.Fields))
	for _, f := range c.Calculator.Fields {
		if f.Name == "" {
			return fmt.Errorf("%w: %s: field without name", ErrInvalidContent, c.Slug)
		}
		if names[f.Name] {
			return fmt.Errorf("%w: %s: duplicate field %q", ErrInvalidContent, c.Slug, f.Name)
		}
		names[f.Name] = true

		switch f.Type {
		case domain.FieldNumber, domain.FieldText, domain.FieldBoolean:
		case domain.FieldSelect:
			if len(f.Options) == 0 {
				return fmt.Errorf("%w: %s: select field %q has no options", ErrInvalidContent, c.Slug, f.Name)
			}
		default:
			return fmt.Errorf("%w: %s: field %q has unknown type %q", ErrInvalidContent, c.Slug, f.Name, f.Type)
		}
	}
	return nil
}
