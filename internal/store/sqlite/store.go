// Package sqlite persists index documents and per-language translation
// record sets. Record tables are logical: callers derive a table name from
// (index, language) and the store scopes rows by it, so drop-then-insert for
// one language never touches another language's records.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"transdex/internal/domain"
	"transdex/internal/ports"
)

type Store struct {
	db *sql.DB
	sq sq.StatementBuilderType
}

// Open initializes the database file and returns a Store.
func Open(dbPath string) (*Store, error) {
	db, err := Init(dbPath)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, sq: sq.StatementBuilder}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// WithSession runs fn inside one transaction: commit when fn returns nil,
// rollback otherwise. This is the only way callers touch storage, so no
// caller ever observes a partially replaced record set.
func (s *Store) WithSession(ctx context.Context, fn func(ports.Session) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	sess := &session{ctx: ctx, tx: tx, sq: s.sq}
	if err := fn(sess); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type session struct {
	ctx context.Context
	tx  *sql.Tx
	sq  sq.StatementBuilderType
}

func (s *session) AddBatch(table string, recs []*domain.TranslationRecord) error {
	if len(recs) == 0 {
		return nil
	}
	ib := s.sq.Insert("records").Columns("tbl", "language", "filename", "linenumber", "identifier", "translated", "blocks_json")
	for _, r := range recs {
		blocks, err := json.Marshal(r.Blocks)
		if err != nil {
			return fmt.Errorf("marshal blocks for %q: %w", r.Identifier, err)
		}
		translated := 0
		if r.Translated() {
			translated = 1
		}
		ib = ib.Values(table, r.Language, r.Filename, r.LineNumber, r.Identifier, translated, string(blocks))
	}
	sqlStr, args, err := ib.ToSql()
	if err != nil {
		return err
	}
	_, err = s.tx.ExecContext(s.ctx, sqlStr, args...)
	return err
}

func (s *session) ListRecords(table string) ([]*domain.TranslationRecord, error) {
	q := s.sq.Select("language", "filename", "linenumber", "identifier", "blocks_json").
		From("records").Where(sq.Eq{"tbl": table}).OrderBy("id")
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.tx.QueryContext(s.ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.TranslationRecord
	for rows.Next() {
		var r domain.TranslationRecord
		var blocks string
		if err := rows.Scan(&r.Language, &r.Filename, &r.LineNumber, &r.Identifier, &blocks); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(blocks), &r.Blocks); err != nil {
			return nil, fmt.Errorf("unmarshal blocks for %q: %w", r.Identifier, err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *session) DropRecords(table string) error {
	q := s.sq.Delete("records").Where(sq.Eq{"tbl": table})
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}
	_, err = s.tx.ExecContext(s.ctx, sqlStr, args...)
	return err
}

func (s *session) CountRecords(table string) (domain.LangStats, error) {
	q := s.sq.Select("COUNT(*)", "COALESCE(SUM(translated), 0)").
		From("records").Where(sq.Eq{"tbl": table})
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return domain.LangStats{}, err
	}
	var st domain.LangStats
	if err := s.tx.QueryRowContext(s.ctx, sqlStr, args...).Scan(&st.Total, &st.Translated); err != nil {
		return domain.LangStats{}, err
	}
	return st, nil
}

func (s *session) HasRecords(table string) (bool, error) {
	st, err := s.CountRecords(table)
	if err != nil {
		return false, err
	}
	return st.Total > 0, nil
}

func (s *session) SaveIndex(doc *domain.IndexDoc) error {
	now := time.Now().UTC()
	stats, err := json.Marshal(doc.Stats)
	if err != nil {
		return err
	}
	if doc.DocID == 0 {
		q := s.sq.Insert("indexes").
			Columns("itype", "nickname", "tag", "project_path", "project_type", "project_name", "stats_json", "created_at", "updated_at").
			Values(doc.Type, doc.Nickname, doc.Tag, doc.Project.FilePath, doc.Project.FileType, doc.Project.Name,
				string(stats), now.Format(time.RFC3339), now.Format(time.RFC3339))
		sqlStr, args, err := q.ToSql()
		if err != nil {
			return err
		}
		res, err := s.tx.ExecContext(s.ctx, sqlStr, args...)
		if err != nil {
			return err
		}
		id, _ := res.LastInsertId()
		doc.DocID = id
		doc.CreatedAt = now
		doc.UpdatedAt = now
		return nil
	}
	q := s.sq.Update("indexes").
		Set("nickname", doc.Nickname).Set("tag", doc.Tag).
		Set("project_path", doc.Project.FilePath).Set("project_type", doc.Project.FileType).Set("project_name", doc.Project.Name).
		Set("stats_json", string(stats)).Set("updated_at", now.Format(time.RFC3339)).
		Where(sq.Eq{"id": doc.DocID})
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}
	if _, err := s.tx.ExecContext(s.ctx, sqlStr, args...); err != nil {
		return err
	}
	doc.UpdatedAt = now
	return nil
}

func (s *session) GetIndex(id int64) (*domain.IndexDoc, error) {
	q := s.sq.Select(indexColumns...).From("indexes").Where(sq.Eq{"id": id}).Limit(1)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return scanIndex(s.tx.QueryRowContext(s.ctx, sqlStr, args...))
}

func (s *session) ListIndexes() ([]*domain.IndexDoc, error) {
	q := s.sq.Select(indexColumns...).From("indexes").OrderBy("id")
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.tx.QueryContext(s.ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.IndexDoc
	for rows.Next() {
		doc, err := scanIndex(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (s *session) UpdateStats(id int64, stats domain.Stats) error {
	b, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	q := s.sq.Update("indexes").Set("stats_json", string(b)).
		Set("updated_at", time.Now().UTC().Format(time.RFC3339)).
		Where(sq.Eq{"id": id})
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}
	_, err = s.tx.ExecContext(s.ctx, sqlStr, args...)
	return err
}

func (s *session) DeleteIndex(id int64) error {
	q := s.sq.Delete("indexes").Where(sq.Eq{"id": id})
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}
	_, err = s.tx.ExecContext(s.ctx, sqlStr, args...)
	return err
}

var indexColumns = []string{"id", "itype", "nickname", "tag", "project_path", "project_type", "project_name", "stats_json", "created_at", "updated_at"}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIndex(row rowScanner) (*domain.IndexDoc, error) {
	var doc domain.IndexDoc
	var stats, created, updated string
	if err := row.Scan(&doc.DocID, &doc.Type, &doc.Nickname, &doc.Tag,
		&doc.Project.FilePath, &doc.Project.FileType, &doc.Project.Name,
		&stats, &created, &updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(stats), &doc.Stats); err != nil {
		return nil, fmt.Errorf("unmarshal stats for index %d: %w", doc.DocID, err)
	}
	doc.CreatedAt, _ = time.Parse(time.RFC3339, created)
	doc.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &doc, nil
}
