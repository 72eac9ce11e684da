package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"transdex/internal/domain"
	"transdex/internal/ports"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func strptr(s string) *string { return &s }

func TestAddBatchListDrop(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	recs := []*domain.TranslationRecord{
		domain.StringRecord("chinese", "/tmp/f.json", "hello", strptr("你好")),
		domain.StringRecord("chinese", "/tmp/f.json", "bye", nil),
	}
	err := s.WithSession(ctx, func(sess ports.Session) error {
		return sess.AddBatch("idx1_chinese_strings", recs)
	})
	if err != nil {
		t.Fatalf("add batch: %v", err)
	}

	err = s.WithSession(ctx, func(sess ports.Session) error {
		got, err := sess.ListRecords("idx1_chinese_strings")
		if err != nil {
			return err
		}
		if len(got) != 2 {
			t.Fatalf("want 2 records, got %d", len(got))
		}
		if got[0].Identifier != "hello" || got[1].Identifier != "bye" {
			t.Fatalf("insertion order lost: %v %v", got[0].Identifier, got[1].Identifier)
		}
		if got[0].Blocks[0].Translated == nil || *got[0].Blocks[0].Translated != "你好" {
			t.Fatalf("translated block lost: %+v", got[0].Blocks[0])
		}
		if got[1].Blocks[0].Translated != nil {
			t.Fatalf("untranslated block should stay nil: %+v", got[1].Blocks[0])
		}
		st, err := sess.CountRecords("idx1_chinese_strings")
		if err != nil {
			return err
		}
		if st.Total != 2 || st.Translated != 1 {
			t.Fatalf("want 2/1, got %+v", st)
		}
		// Other tables are untouched.
		other, err := sess.CountRecords("idx1_german_strings")
		if err != nil {
			return err
		}
		if other.Total != 0 {
			t.Fatalf("foreign table sees records: %+v", other)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	err = s.WithSession(ctx, func(sess ports.Session) error {
		if err := sess.DropRecords("idx1_chinese_strings"); err != nil {
			return err
		}
		has, err := sess.HasRecords("idx1_chinese_strings")
		if err != nil {
			return err
		}
		if has {
			t.Fatal("records survived drop")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestSessionRollsBackOnError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithSession(ctx, func(sess ports.Session) error {
		if err := sess.AddBatch("t", []*domain.TranslationRecord{
			domain.StringRecord("l", "f", "k", nil),
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want wrapped error, got %v", err)
	}

	err = s.WithSession(ctx, func(sess ports.Session) error {
		has, err := sess.HasRecords("t")
		if err != nil {
			return err
		}
		if has {
			t.Fatal("failed session leaked records")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestIndexDocLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	doc := &domain.IndexDoc{
		Type:     domain.IndexTypeFile,
		Nickname: "game",
		Tag:      "v1",
		Project:  domain.Project{FilePath: "/tmp/f.json", FileType: "mt", Name: "f.json"},
		Stats:    domain.Stats{},
	}
	err := s.WithSession(ctx, func(sess ports.Session) error {
		return sess.SaveIndex(doc)
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if doc.DocID == 0 {
		t.Fatal("save did not assign a doc id")
	}

	err = s.WithSession(ctx, func(sess ports.Session) error {
		got, err := sess.GetIndex(doc.DocID)
		if err != nil {
			return err
		}
		if got.Nickname != "game" || got.Project.FileType != "mt" {
			t.Fatalf("loaded doc differs: %+v", got)
		}
		if err := sess.UpdateStats(doc.DocID, domain.Stats{"chinese": {Total: 3, Translated: 1}}); err != nil {
			return err
		}
		got, err = sess.GetIndex(doc.DocID)
		if err != nil {
			return err
		}
		if got.Stats["chinese"].Total != 3 || got.Stats["chinese"].Translated != 1 {
			t.Fatalf("stats not persisted: %+v", got.Stats)
		}
		all, err := sess.ListIndexes()
		if err != nil {
			return err
		}
		if len(all) != 1 {
			t.Fatalf("want 1 index, got %d", len(all))
		}
		if err := sess.DeleteIndex(doc.DocID); err != nil {
			return err
		}
		if _, err := sess.GetIndex(doc.DocID); err == nil {
			t.Fatal("deleted index still loads")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
