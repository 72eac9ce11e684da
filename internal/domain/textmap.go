package domain

import "strings"

// TextMap is an insertion-ordered mapping from original text to its
// translation. A nil value means "untranslated / identical to source".
type TextMap struct {
	keys []string
	vals map[string]*string
}

func NewTextMap() *TextMap {
	return &TextMap{vals: map[string]*string{}}
}

// StripOrNone trims s and returns nil when nothing remains.
func StripOrNone(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Normalized converts a raw translated value into its stored form: trimmed,
// nil when empty, and nil when it equals the original key. This is the single
// place the self-equal-means-untranslated rule lives; every convertor goes
// through it.
func Normalized(key, value string) *string {
	v := StripOrNone(value)
	if v != nil && *v == key {
		return nil
	}
	return v
}

// Add normalizes value against key and inserts the pair. Keys that are blank
// after trimming are dropped. Reports whether the pair was kept.
func (m *TextMap) Add(key, value string) bool {
	if strings.TrimSpace(key) == "" {
		return false
	}
	m.Set(key, Normalized(key, value))
	return true
}

// Set inserts or updates a pair without normalization. New keys keep their
// insertion position; existing keys keep their original position.
func (m *TextMap) Set(key string, value *string) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = value
}

func (m *TextMap) Get(key string) (*string, bool) {
	v, ok := m.vals[key]
	return v, ok
}

func (m *TextMap) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not modify it.
func (m *TextMap) Keys() []string { return m.keys }

// Equal reports whether both maps hold the same pairs in the same order.
func (m *TextMap) Equal(o *TextMap) bool {
	if m.Len() != o.Len() {
		return false
	}
	for i, k := range m.keys {
		if o.keys[i] != k {
			return false
		}
		a, b := m.vals[k], o.vals[k]
		if (a == nil) != (b == nil) {
			return false
		}
		if a != nil && *a != *b {
			return false
		}
	}
	return true
}
