package ports

import (
	"context"

	"transdex/internal/domain"
)

// Session is one scoped unit of work against the record store. All methods
// run inside the same transaction; the transaction commits when the session
// function returns nil and rolls back on any error.
type Session interface {
	// Record tables. Table identity is derived from (index, language) by the
	// caller; the store treats it as an opaque name.
	AddBatch(table string, recs []*domain.TranslationRecord) error
	ListRecords(table string) ([]*domain.TranslationRecord, error)
	DropRecords(table string) error
	CountRecords(table string) (domain.LangStats, error)
	HasRecords(table string) (bool, error)

	// Index documents.
	SaveIndex(doc *domain.IndexDoc) error
	GetIndex(id int64) (*domain.IndexDoc, error)
	ListIndexes() ([]*domain.IndexDoc, error)
	UpdateStats(id int64, stats domain.Stats) error
	DeleteIndex(id int64) error
}

// Store hands out scoped sessions. Guaranteed release on every exit path:
// commit on success, rollback on error or panic.
type Store interface {
	WithSession(ctx context.Context, fn func(Session) error) error
	Close() error
}
