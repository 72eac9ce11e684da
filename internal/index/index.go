// Package index implements persisted, project-bound translation indexes.
package index

import (
	"context"
	"fmt"
	"regexp"

	"transdex/internal/domain"
	"transdex/internal/ports"
)

// Options are shared across index variants. SayOnly only matters for
// dialogue-capable indexes; file indexes accept it for API parity and
// ignore it.
type Options struct {
	TranslatedOnly bool
	SayOnly        bool
}

func DefaultOptions() Options {
	return Options{TranslatedOnly: true, SayOnly: true}
}

// TranslationIndex carries the state shared by all index variants: the
// persisted document and the store it lives in.
type TranslationIndex struct {
	doc   *domain.IndexDoc
	store ports.Store
}

func newTranslationIndex(doc *domain.IndexDoc, store ports.Store) TranslationIndex {
	if doc.Stats == nil {
		doc.Stats = domain.Stats{}
	}
	return TranslationIndex{doc: doc, store: store}
}

func (x *TranslationIndex) Doc() *domain.IndexDoc   { return x.doc }
func (x *TranslationIndex) DocID() int64            { return x.doc.DocID }
func (x *TranslationIndex) Nickname() string        { return x.doc.Nickname }
func (x *TranslationIndex) Tag() string             { return x.doc.Tag }
func (x *TranslationIndex) Project() domain.Project { return x.doc.Project }
func (x *TranslationIndex) Stats() domain.Stats     { return x.doc.Stats }

// Save persists the index document, assigning its doc id on first save.
func (x *TranslationIndex) Save(ctx context.Context) error {
	return x.store.WithSession(ctx, func(s ports.Session) error {
		return s.SaveIndex(x.doc)
	})
}

var tableNameSanitizer = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// stringTable derives the record-table identity for a language. Scoping by
// doc id keeps distinct indexes from sharing record sets.
func (x *TranslationIndex) stringTable(lang string) string {
	return fmt.Sprintf("idx%d_%s_strings", x.doc.DocID, tableNameSanitizer.ReplaceAllString(lang, "_"))
}

// updateTranslationStats recomputes one language's aggregate inside the
// given session and persists it on the index document.
func (x *TranslationIndex) updateTranslationStats(s ports.Session, lang string) error {
	stats, err := s.CountRecords(x.stringTable(lang))
	if err != nil {
		return err
	}
	x.doc.Stats[lang] = stats
	return s.UpdateStats(x.doc.DocID, x.doc.Stats)
}
