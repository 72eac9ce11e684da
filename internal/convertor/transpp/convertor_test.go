package transpp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"transdex/internal/domain"
)

func writeSheet(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "in.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGetTextMap(t *testing.T) {
	path := writeSheet(t, [][]interface{}{
		{"Original Text", "Initial"},
		{"hi", "你好"},
		{"skip", "skip"},
		{"untouched", nil},
		{"", "orphan"},
	})
	tm, err := New().GetTextMap(path)
	if err != nil {
		t.Fatalf("get text map: %v", err)
	}
	if tm.Len() != 3 {
		t.Fatalf("want 3 entries, got %d (%v)", tm.Len(), tm.Keys())
	}
	if v, _ := tm.Get("hi"); v == nil || *v != "你好" {
		t.Fatalf("translated pair lost: %v", v)
	}
	if v, ok := tm.Get("skip"); !ok || v != nil {
		t.Fatalf("self-equal pair should normalize to nil, got %v (%v)", v, ok)
	}
	if v, ok := tm.Get("untouched"); !ok || v != nil {
		t.Fatalf("empty cell should mean untranslated, got %v (%v)", v, ok)
	}
}

func TestGetTextMapZeroLengthFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	tm, err := New().GetTextMap(path)
	if err != nil {
		t.Fatalf("zero-length file should not error: %v", err)
	}
	if tm.Len() != 0 {
		t.Fatalf("want empty map, got %d entries", tm.Len())
	}
}

func TestGetTextMapMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	if err := os.WriteFile(path, []byte("not a spreadsheet"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := New().GetTextMap(path)
	if _, ok := err.(*domain.MalformedError); !ok {
		t.Fatalf("want MalformedError, got %v", err)
	}
}

func TestSaveToFiveColumns(t *testing.T) {
	tm := domain.NewTextMap()
	tm.Add("hi", "你好")
	tm.Add("untouched", "")

	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := New().SaveTo(path, tm); err != nil {
		t.Fatalf("save: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("want header + 2 rows, got %d", len(rows))
	}
	wantHeader := []string{"Original Text", "Initial", "Machine translation", "Better translation", "Best translation"}
	for i, h := range wantHeader {
		if rows[0][i] != h {
			t.Fatalf("header %d: want %q, got %q", i, h, rows[0][i])
		}
	}
	if rows[1][0] != "hi" || rows[1][1] != "你好" {
		t.Fatalf("data row wrong: %v", rows[1])
	}
	// Review columns stay blank.
	for i := 2; i < len(rows[1]); i++ {
		if rows[1][i] != "" {
			t.Fatalf("review column %d should be blank, got %q", i, rows[1][i])
		}
	}
}

func TestRoundTrip(t *testing.T) {
	tm := domain.NewTextMap()
	tm.Add("hi", "你好")
	tm.Add("skip", "skip")

	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := New().SaveTo(path, tm); err != nil {
		t.Fatal(err)
	}
	got, err := New().GetTextMap(path)
	if err != nil {
		t.Fatal(err)
	}
	if !tm.Equal(got) {
		t.Fatalf("round trip lost data: %v vs %v", tm.Keys(), got.Keys())
	}
}
