// Package server provides a JSON API over the translation indexes: binding
// files, importing and exporting languages, and inspecting stored records.
package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"transdex/internal/config"
	"transdex/internal/convertor/registry"
	"transdex/internal/domain"
	"transdex/internal/index"
	"transdex/internal/ports"
)

type Server struct {
	store ports.Store
	cfg   config.Config
}

func New(store ports.Store, cfg config.Config) *Server {
	return &Server{store: store, cfg: cfg}
}

func checkHTTPWithStatus(e error, w http.ResponseWriter, status int) (hadError bool) {
	if e != nil {
		w.WriteHeader(status)
		errMsg := e.Error()
		// Don't expose the 'sql: no rows in result set' message to the user
		if status == http.StatusNotFound {
			errMsg = "not found"
		}
		jsonErr := struct {
			Error string `json:"error"`
		}{
			Error: errMsg,
		}
		enc := json.NewEncoder(w)
		enc.Encode(jsonErr)
		return true
	}
	return false
}

func checkHTTP(e error, w http.ResponseWriter) (hadError bool) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(e, sql.ErrNoRows), errors.Is(e, fs.ErrNotExist):
		status = http.StatusNotFound
	case errors.Is(e, domain.ErrUnknownFormat),
		errors.Is(e, domain.ErrBlankArgument),
		errors.Is(e, domain.ErrTypeMismatch):
		status = http.StatusBadRequest
	}
	var malformed *domain.MalformedError
	if errors.As(e, &malformed) {
		status = http.StatusUnprocessableEntity
	}
	return checkHTTPWithStatus(e, w, status)
}

func setJSONHeaders(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		h.ServeHTTP(w, r)
	})
}

func writeOK(w http.ResponseWriter) {
	w.Write([]byte("{\"result\":\"ok\"}\n"))
}

// Lists registered format tags with their descriptions.
func (s *Server) getFormatsHandler(w http.ResponseWriter, r *http.Request) {
	type format struct {
		Tag         string `json:"tag"`
		Description string `json:"description"`
	}
	var out []format
	for _, info := range registry.Info() {
		out = append(out, format{Tag: info[0], Description: info[1]})
	}
	enc := json.NewEncoder(w)
	checkHTTP(enc.Encode(out), w)
}

func (s *Server) getIndexesHandler(w http.ResponseWriter, r *http.Request) {
	var docs []*domain.IndexDoc
	err := s.store.WithSession(r.Context(), func(sess ports.Session) error {
		var err error
		docs, err = sess.ListIndexes()
		return err
	})
	if checkHTTP(err, w) {
		return
	}
	if docs == nil {
		docs = []*domain.IndexDoc{}
	}
	enc := json.NewEncoder(w)
	checkHTTP(enc.Encode(docs), w)
}

// Binds a translation file as a new index.
func (s *Server) createIndexHandler(w http.ResponseWriter, r *http.Request) {
	var content struct {
		File     string `json:"file"`
		Type     string `json:"type"`
		Nickname string `json:"nickname"`
		Tag      string `json:"tag"`
	}
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&content); err != nil {
		http.Error(w, fmt.Sprintf("Could not decode request (%v)", err.Error()), http.StatusBadRequest)
		return
	}
	idx, err := index.FromFile(s.store, content.File, content.Type, content.Nickname, content.Tag)
	if checkHTTP(err, w) {
		return
	}
	if checkHTTP(idx.Save(r.Context()), w) {
		return
	}
	enc := json.NewEncoder(w)
	checkHTTP(enc.Encode(idx.Doc()), w)
}

func (s *Server) getIndexHandler(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.loadIndex(w, r)
	if !ok {
		return
	}
	enc := json.NewEncoder(w)
	checkHTTP(enc.Encode(idx.Doc()), w)
}

func (s *Server) deleteIndexHandler(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.loadIndex(w, r)
	if !ok {
		return
	}
	err := s.store.WithSession(r.Context(), func(sess ports.Session) error {
		return sess.DeleteIndex(idx.DocID())
	})
	if checkHTTP(err, w) {
		return
	}
	writeOK(w)
}

func (s *Server) importHandler(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.loadIndex(w, r)
	if !ok {
		return
	}
	lang := mux.Vars(r)["lang"]
	if checkHTTP(idx.ImportTranslations(r.Context(), lang, s.options(r)), w) {
		return
	}
	enc := json.NewEncoder(w)
	checkHTTP(enc.Encode(idx.Doc().Stats), w)
}

func (s *Server) exportHandler(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.loadIndex(w, r)
	if !ok {
		return
	}
	lang := mux.Vars(r)["lang"]
	if checkHTTP(idx.ExportTranslations(r.Context(), lang, s.options(r)), w) {
		return
	}
	writeOK(w)
}

func (s *Server) getTranslationsHandler(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.loadIndex(w, r)
	if !ok {
		return
	}
	lang := mux.Vars(r)["lang"]
	recs, err := idx.ListTranslations(r.Context(), lang)
	if checkHTTP(err, w) {
		return
	}
	if recs == nil {
		recs = []*domain.TranslationRecord{}
	}
	enc := json.NewEncoder(w)
	checkHTTP(enc.Encode(recs), w)
}

func (s *Server) loadIndex(w http.ResponseWriter, r *http.Request) (*index.FileIndex, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		checkHTTPWithStatus(err, w, http.StatusBadRequest)
		return nil, false
	}
	idx, err := index.Load(r.Context(), s.store, id)
	if checkHTTP(err, w) {
		return nil, false
	}
	return idx, true
}

// options folds the configured export default with per-request overrides.
func (s *Server) options(r *http.Request) index.Options {
	opts := index.DefaultOptions()
	opts.TranslatedOnly = s.cfg.Export.TranslatedOnly
	if v := r.URL.Query().Get("translated_only"); v != "" {
		opts.TranslatedOnly = v == "true" || v == "1"
	}
	return opts
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter().StrictSlash(true)
	r.HandleFunc("/formats", s.getFormatsHandler).Methods("GET")
	r.HandleFunc("/indexes", s.getIndexesHandler).Methods("GET")
	r.HandleFunc("/indexes", s.createIndexHandler).Methods("POST")
	r.HandleFunc("/indexes/{id}", s.getIndexHandler).Methods("GET")
	r.HandleFunc("/indexes/{id}", s.deleteIndexHandler).Methods("DELETE")
	r.HandleFunc("/indexes/{id}/import/{lang}", s.importHandler).Methods("POST")
	r.HandleFunc("/indexes/{id}/export/{lang}", s.exportHandler).Methods("POST")
	r.HandleFunc("/indexes/{id}/translations/{lang}", s.getTranslationsHandler).Methods("GET")
	return handlers.CombinedLoggingHandler(os.Stdout, setJSONHeaders(r))
}

// Serve blocks listening on the configured port.
func (s *Server) Serve() error {
	fmt.Printf("Listening on port %v\n", s.cfg.Server.Port)
	return http.ListenAndServe(fmt.Sprintf(":%v", s.cfg.Server.Port), s.Router())
}
