// Package transpp reads and writes Translator++ spreadsheets. Input uses the
// first two columns (original, translated) below a header row; output emits
// the five-column staged-review layout the Translator++ ecosystem expects,
// leaving the machine/better/best review columns blank. The 2-in/5-out
// asymmetry is intentional.
package transpp

import (
	"os"

	"github.com/xuri/excelize/v2"

	"transdex/internal/domain"
)

const FormatTag = "tp"

var header = []interface{}{
	"Original Text", "Initial", "Machine translation", "Better translation", "Best translation",
}

type Convertor struct{}

func New() *Convertor { return &Convertor{} }

func (c *Convertor) Tag() string { return FormatTag }

func (c *Convertor) GetTextMap(path string) (*domain.TextMap, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	tm := domain.NewTextMap()
	if st.Size() == 0 {
		return tm, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &domain.MalformedError{Format: FormatTag, Path: path, Err: err}
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, &domain.MalformedError{Format: FormatTag, Path: path, Err: err}
	}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		var original, translated string
		if len(row) > 0 {
			original = row[0]
		}
		if len(row) > 1 {
			translated = row[1]
		}
		tm.Add(original, translated)
	}
	return tm, nil
}

func (c *Convertor) SaveTo(path string, tm *domain.TextMap) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, k := range tm.Keys() {
		row := []interface{}{k, nil, nil, nil, nil}
		if v, _ := tm.Get(k); v != nil {
			row[1] = *v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
