package domain

import "time"

const BlockKindString = "String"

// Block is one translatable unit inside a record. File-backed indexes only
// ever produce String-kind blocks with an empty code.
type Block struct {
	Kind       string  `json:"type"`
	Original   string  `json:"what"`
	Code       string  `json:"code"`
	Translated *string `json:"new_code"`
}

// TranslationRecord is one (language, original text) entry. Identifier is the
// original text and is unique within a language's record set; uniqueness is
// enforced by drop-then-insert on import, not by merging.
type TranslationRecord struct {
	Language   string  `json:"language"`
	Filename   string  `json:"filename"`
	LineNumber int     `json:"linenumber"`
	Identifier string  `json:"identifier"`
	Blocks     []Block `json:"block"`
}

// StringBlock builds a String-kind block for the given original text.
func StringBlock(original string, translated *string) Block {
	return Block{Kind: BlockKindString, Original: original, Code: "", Translated: translated}
}

// StringRecord builds the record shape produced on import: one String block,
// line number fixed at 0 (line-accurate positions are the extractor's
// concern, not this store's).
func StringRecord(lang, filename, original string, translated *string) *TranslationRecord {
	return &TranslationRecord{
		Language:   lang,
		Filename:   filename,
		LineNumber: 0,
		Identifier: original,
		Blocks:     []Block{StringBlock(original, translated)},
	}
}

// Translated reports whether any block carries a non-nil translation.
func (r *TranslationRecord) Translated() bool {
	for _, b := range r.Blocks {
		if b.Translated != nil {
			return true
		}
	}
	return false
}

// LangStats is the per-language aggregate refreshed on import.
type LangStats struct {
	Total      int `json:"total"`
	Translated int `json:"translated"`
}

// Stats maps a language to its aggregate counts.
type Stats map[string]LangStats

// Project binds an index to one source file. The format tag selects the
// convertor once at bind time and is never re-detected.
type Project struct {
	FilePath string `json:"file_path"`
	FileType string `json:"file_type"`
	Name     string `json:"name"`
}

// Index document types.
const (
	IndexTypeFile = "file"
)

// IndexDoc is the persisted form of a translation index.
type IndexDoc struct {
	DocID     int64     `json:"doc_id"`
	Type      string    `json:"type"`
	Nickname  string    `json:"nickname"`
	Tag       string    `json:"tag"`
	Project   Project   `json:"project"`
	Stats     Stats     `json:"stats"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
