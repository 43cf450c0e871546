package provider

import "strings"

// Info describes one selectable provider for presentation purposes.
type Info struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Entry binds a stable identifier to an extractor implementation.
type Entry struct {
	ID          string
	DisplayName string
	Extractor   TaskExtractor
}

// Registry maps provider identifiers to extractor instances. Lookups are
// case-insensitive and never fail: an unknown, stale or garbled identifier
// resolves to the designated default so a bad setting cannot block task
// capture.
type Registry struct {
	byID     map[string]TaskExtractor
	order    []Info
	fallback TaskExtractor
}

// NewRegistry builds a registry from the given entries. The entry whose ID
// matches defaultID becomes the fallback; if none matches, the first entry
// does. Entries must not be empty; an empty table would make Get return nil.
func NewRegistry(defaultID string, entries []Entry) *Registry {
	if len(entries) == 0 {
		panic("provider: registry requires at least one entry")
	}
	r := &Registry{byID: make(map[string]TaskExtractor, len(entries))}
	for _, e := range entries {
		id := strings.ToLower(e.ID)
		r.byID[id] = e.Extractor
		r.order = append(r.order, Info{ID: e.ID, DisplayName: e.DisplayName})
		if r.fallback == nil || id == strings.ToLower(defaultID) {
			r.fallback = e.Extractor
		}
	}
	return r
}

// Get resolves an identifier to an extractor, falling back to the default
// provider for unknown identifiers.
func (r *Registry) Get(id string) TaskExtractor {
	if extractor, ok := r.byID[strings.ToLower(strings.TrimSpace(id))]; ok {
		return extractor
	}
	return r.fallback
}

// Supported returns the ordered list of selectable providers.
func (r *Registry) Supported() []Info {
	out := make([]Info, len(r.order))
	copy(out, r.order)
	return out
}
