package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"transdex/internal/config"
	"transdex/internal/domain"
	"transdex/internal/store/sqlite"
)

func testServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := sqlite.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	src := filepath.Join(dir, "ManualTransFile.json")
	if err := os.WriteFile(src, []byte(`{"hello world": "你好世界", "skip": "skip"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(New(store, config.Default()).Router())
	t.Cleanup(ts.Close)
	return ts, src
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestFormatsEndpoint(t *testing.T) {
	ts, _ := testServer(t)
	resp, err := http.Get(ts.URL + "/formats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var formats []struct {
		Tag, Description string
	}
	if err := json.NewDecoder(resp.Body).Decode(&formats); err != nil {
		t.Fatal(err)
	}
	if len(formats) != 3 || formats[0].Tag != "mt" {
		t.Fatalf("unexpected formats: %+v", formats)
	}
}

func TestIndexLifecycleOverHTTP(t *testing.T) {
	ts, src := testServer(t)

	resp := postJSON(t, ts.URL+"/indexes", fmt.Sprintf(`{"file": %q, "type": "mt"}`, src))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status %d", resp.StatusCode)
	}
	var doc domain.IndexDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if doc.DocID == 0 || doc.Project.FileType != "mt" {
		t.Fatalf("unexpected doc: %+v", doc)
	}

	resp = postJSON(t, fmt.Sprintf("%s/indexes/%d/import/chinese", ts.URL, doc.DocID), "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("import status %d", resp.StatusCode)
	}

	resp, err := http.Get(fmt.Sprintf("%s/indexes/%d/translations/chinese", ts.URL, doc.DocID))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var recs []*domain.TranslationRecord
	if err := json.NewDecoder(resp.Body).Decode(&recs); err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("want 2 records, got %d", len(recs))
	}

	resp = postJSON(t, fmt.Sprintf("%s/indexes/%d/export/chinese", ts.URL, doc.DocID), "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status %d", resp.StatusCode)
	}
	ext := filepath.Ext(src)
	if _, err := os.Stat(strings.TrimSuffix(src, ext) + "_chinese" + ext); err != nil {
		t.Fatalf("export wrote nothing: %v", err)
	}
}

func TestCreateIndexErrors(t *testing.T) {
	ts, src := testServer(t)

	resp := postJSON(t, ts.URL+"/indexes", fmt.Sprintf(`{"file": %q, "type": "nope"}`, src))
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown format: want 400, got %d", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/indexes", `{"file": "/does/not/exist.json", "type": "mt"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing file: want 404, got %d", resp.StatusCode)
	}

	resp, err := http.Get(ts.URL + "/indexes/9999")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing index: want 404, got %d", resp.StatusCode)
	}
}
