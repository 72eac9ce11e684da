package index

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"transdex/internal/convertor/registry"
	"transdex/internal/domain"
	"transdex/internal/ports"
)

// FileIndex is a translation index bound to one external translation-memory
// file. The file's format tag is fixed at bind time and selects the
// convertor for every import and export.
type FileIndex struct {
	TranslationIndex
}

// FromFile binds a new index to an existing translation file. nickname
// defaults to the file's base name and tag to "v1" when blank.
func FromFile(store ports.Store, filePath, fileType, nickname, tag string) (*FileIndex, error) {
	if !registry.Valid(fileType) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownFormat, fileType)
	}
	st, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a file", fs.ErrNotExist, filePath)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a file", fs.ErrNotExist, filePath)
	}
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(abs)
	if strings.TrimSpace(nickname) == "" {
		nickname = name
	}
	if strings.TrimSpace(tag) == "" {
		tag = "v1"
	}
	doc := &domain.IndexDoc{
		Type:     domain.IndexTypeFile,
		Nickname: strings.TrimSpace(nickname),
		Tag:      strings.TrimSpace(tag),
		Project:  domain.Project{FilePath: abs, FileType: fileType, Name: name},
		Stats:    domain.Stats{},
	}
	return &FileIndex{newTranslationIndex(doc, store)}, nil
}

// FromIndex down-casts a generically loaded index document into a FileIndex.
func FromIndex(store ports.Store, doc *domain.IndexDoc) (*FileIndex, error) {
	if doc.Type != domain.IndexTypeFile {
		return nil, fmt.Errorf("%w: cannot cast index %q (type %q) to a file index",
			domain.ErrTypeMismatch, doc.Nickname, doc.Type)
	}
	return &FileIndex{newTranslationIndex(doc, store)}, nil
}

// Load fetches an index document by id and down-casts it.
func Load(ctx context.Context, store ports.Store, id int64) (*FileIndex, error) {
	var doc *domain.IndexDoc
	err := store.WithSession(ctx, func(s ports.Session) error {
		var err error
		doc, err = s.GetIndex(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return FromIndex(store, doc)
}

// ImportTranslations replaces the stored record set for lang with the pairs
// extracted from the bound file. An empty extraction is a no-op: existing
// records survive. A non-empty one is a full replace, never a merge.
func (x *FileIndex) ImportTranslations(ctx context.Context, lang string, opts Options) error {
	lang, err := domain.NotBlank(lang, "lang")
	if err != nil {
		return err
	}
	conv, err := registry.Get(x.doc.Project.FileType)
	if err != nil {
		return err
	}
	tm, err := conv.GetTextMap(x.doc.Project.FilePath)
	if err != nil {
		return err
	}
	if tm.Len() == 0 {
		log.Printf("empty translations of language %s", lang)
		log.Printf("%s: 0 dialogue translations and 0 string translations found", lang)
		return nil
	}
	err = x.store.WithSession(ctx, func(s ports.Session) error {
		tbl := x.stringTable(lang)
		if err := s.DropRecords(tbl); err != nil {
			return err
		}
		recs := make([]*domain.TranslationRecord, 0, tm.Len())
		for _, k := range tm.Keys() {
			v, _ := tm.Get(k)
			recs = append(recs, domain.StringRecord(lang, x.doc.Project.FilePath, k, v))
		}
		if err := s.AddBatch(tbl, recs); err != nil {
			return err
		}
		return x.updateTranslationStats(s, lang)
	})
	if err != nil {
		return err
	}
	log.Printf("%s: 0 dialogue translations and %d string translations found", lang, tm.Len())
	return nil
}

// ExportTranslations writes the stored translations for lang to a sibling of
// the source file named <stem>_<lang><ext>. With opts.TranslatedOnly set,
// untranslated entries are omitted; otherwise they fall back to the original
// text. Missing or empty record sets are reported and leave no output file.
func (x *FileIndex) ExportTranslations(ctx context.Context, lang string, opts Options) error {
	lang, err := domain.NotBlank(lang, "lang")
	if err != nil {
		return err
	}
	tm := domain.NewTextMap()
	var exists bool
	err = x.store.WithSession(ctx, func(s ports.Session) error {
		tbl := x.stringTable(lang)
		exists, err = s.HasRecords(tbl)
		if err != nil || !exists {
			return err
		}
		recs, err := s.ListRecords(tbl)
		if err != nil {
			return err
		}
		for _, r := range recs {
			for _, b := range r.Blocks {
				if b.Translated != nil {
					tm.Set(b.Original, b.Translated)
				} else if !opts.TranslatedOnly {
					original := b.Original
					tm.Set(b.Original, &original)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !exists {
		log.Printf("no %s translations to export", lang)
		return nil
	}
	if tm.Len() == 0 {
		log.Printf("no %s translations in this TranslationIndex to export", lang)
		return nil
	}
	log.Printf("%s: 0 dialogue and %d string translations are ready to export", lang, tm.Len())
	conv, err := registry.Get(x.doc.Project.FileType)
	if err != nil {
		return err
	}
	saveFn := exportPath(x.doc.Project.FilePath, lang)
	if err := conv.SaveTo(saveFn, tm); err != nil {
		return err
	}
	log.Printf("we have written translations to: %s", saveFn)
	return nil
}

// ListTranslations returns the stored record set for lang in insertion order.
func (x *FileIndex) ListTranslations(ctx context.Context, lang string) ([]*domain.TranslationRecord, error) {
	lang, err := domain.NotBlank(lang, "lang")
	if err != nil {
		return nil, err
	}
	var recs []*domain.TranslationRecord
	err = x.store.WithSession(ctx, func(s ports.Session) error {
		recs, err = s.ListRecords(x.stringTable(lang))
		return err
	})
	return recs, err
}

// CountTranslations recomputes one language's aggregate from stored records.
// Detailed per-record breakdowns are a dialogue-index feature and are not
// available here.
func (x *FileIndex) CountTranslations(ctx context.Context, lang string) (domain.LangStats, error) {
	lang, err := domain.NotBlank(lang, "lang")
	if err != nil {
		return domain.LangStats{}, err
	}
	var stats domain.LangStats
	err = x.store.WithSession(ctx, func(s ports.Session) error {
		stats, err = s.CountRecords(x.stringTable(lang))
		return err
	})
	return stats, err
}

// exportPath inserts _<lang> before the source file's extension, keeping the
// export beside the source without ever overwriting it.
func exportPath(src, lang string) string {
	ext := filepath.Ext(src)
	return strings.TrimSuffix(src, ext) + "_" + lang + ext
}
