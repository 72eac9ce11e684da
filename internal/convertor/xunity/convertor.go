// Package xunity reads and writes _AutoGeneratedTranslations.txt files
// produced by XUnity Auto Translator: newline-delimited key=value pairs.
package xunity

import (
	"bytes"
	"os"
	"strings"

	"transdex/internal/domain"
)

const FormatTag = "xu"

var (
	escape   = strings.NewReplacer("\n", `\n`, "\r", `\r`)
	unescape = strings.NewReplacer(`\n`, "\n", `\r`, "\r")
)

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
	for _, line := range strings.Split(string(data), "\n") {
		// The first '=' separates key from value; later ones belong to
		// the value. Lines without '=' are ignored.
		pos := strings.Index(line, "=")
		if pos < 0 {
			continue
		}
		line = strings.TrimRight(line, " \t\r\n")
		key := line[:pos]
		if strings.TrimSpace(key) == "" {
			continue
		}
		tm.Add(key, unescape.Replace(line[pos+1:]))
	}
	return tm, nil
}

func (c *Convertor) SaveTo(path string, tm *domain.TextMap) error {
	var buf bytes.Buffer
	for _, k := range tm.Keys() {
		val := ""
		if v, _ := tm.Get(k); v != nil {
			val = *v
		}
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(escape.Replace(val))
		buf.WriteByte('\n')
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}
