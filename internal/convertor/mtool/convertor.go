// Package mtool reads and writes ManualTransFile.json files: one flat JSON
// object of original -> translated text.
package mtool

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"transdex/internal/domain"
)

const FormatTag = "mt"

type Convertor struct{}

func New() *Convertor { return &Convertor{} }

func (c *Convertor) Tag() string { return FormatTag }

func (c *Convertor) GetTextMap(path string) (*domain.TextMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = stripBOM(data)
	tm := domain.NewTextMap()
	if len(bytes.TrimSpace(data)) == 0 {
		return tm, nil
	}
	// Token-level decode keeps the object's key order, which a plain
	// map[string]any unmarshal would lose.
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, c.malformed(path, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, c.malformed(path, fmt.Errorf("expected top-level object, got %v", tok))
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, c.malformed(path, err)
		}
		key := keyTok.(string)
		valTok, err := dec.Token()
		if err != nil {
			return nil, c.malformed(path, err)
		}
		switch v := valTok.(type) {
		case string:
			tm.Add(key, v)
		case nil:
			// Explicit null counts as "no translation yet".
			if strings.TrimSpace(key) != "" {
				tm.Set(key, nil)
			}
		case json.Delim:
			if err := skipValue(dec, v); err != nil {
				return nil, c.malformed(path, err)
			}
		default:
			// Numbers and booleans are not translation candidates.
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, c.malformed(path, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, c.malformed(path, errors.New("trailing data after object"))
	}
	return tm, nil
}

func (c *Convertor) SaveTo(path string, tm *domain.TextMap) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range tm.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n    ")
		buf.Write(encodeString(k))
		buf.WriteString(": ")
		if v, _ := tm.Get(k); v == nil {
			buf.WriteString("null")
		} else {
			buf.Write(encodeString(*v))
		}
	}
	if tm.Len() > 0 {
		buf.WriteByte('\n')
	}
	buf.WriteByte('}')
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func (c *Convertor) malformed(path string, err error) error {
	return &domain.MalformedError{Format: FormatTag, Path: path, Err: err}
}

// encodeString marshals one JSON string with UTF-8 passthrough: non-ASCII
// and HTML characters are written verbatim.
func encodeString(s string) []byte {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return bytes.TrimRight(b.Bytes(), "\n")
}

// skipValue consumes the remainder of a compound value whose opening
// delimiter has already been read.
func skipValue(dec *json.Decoder, open json.Delim) error {
	if open != '{' && open != '[' {
		return fmt.Errorf("unexpected delimiter %v", open)
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}
