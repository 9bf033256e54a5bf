package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/contentsheet/internal/application"
	"github.com/JonMunkholm/contentsheet/internal/core"
	"github.com/JonMunkholm/contentsheet/internal/docs"
	"github.com/JonMunkholm/contentsheet/internal/logging"
	"github.com/JonMunkholm/contentsheet/internal/store"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	templ.Handler(Page(s.app.Kinds())).ServeHTTP(w, r)
}

func (s *Server) handleKinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Kinds())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, r, errNoStore, http.StatusServiceUnavailable)
		return
	}
	if err := s.store.Ping(r.Context()); err != nil {
		respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "store": s.store.Describe()})
}

// handleUploads lists the upload history, newest first.
// Query parameters: partition (optional), limit (default 50).
func (s *Server) handleUploads(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, r, errNoStore, http.StatusServiceUnavailable)
		return
	}
	filter := store.UploadFilter{
		PartitionKey: r.URL.Query().Get("partition"),
		Limit:        parseIntParam(r, "limit", store.DefaultUploadLimit),
	}
	uploads, err := s.store.Uploads(r.Context(), filter)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if uploads == nil {
		uploads = []store.Upload{}
	}
	writeJSON(w, http.StatusOK, uploads)
}

// ValidateResponse is the body of a passed check.
type ValidateResponse struct {
	Valid    bool   `json:"valid"`
	Kind     string `json:"kind"`
	Workbook string `json:"workbook"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	var name string
	err := s.withUpload(w, r, func(ctx context.Context, file io.Reader, filename string) error {
		name = filename
		_, err := s.app.Check(ctx, kind, file, filename)
		return err
	})
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	if !wantsJSON(r) {
		templ.Handler(ValidAlert(kind, name)).ServeHTTP(w, r)
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: true, Kind: kind, Workbook: name})
}

// handleParse returns the documents of a valid workbook as a file
// download. ?format=yaml selects YAML.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = docs.FormatJSON
	}
	if format != docs.FormatJSON && format != docs.FormatYAML {
		respondError(w, r, fmt.Errorf("unknown output format %q", format), http.StatusBadRequest)
		return
	}

	var (
		bundle *docs.Bundle
		name   string
	)
	err := s.withUpload(w, r, func(ctx context.Context, file io.Reader, filename string) error {
		name = filename
		var err error
		bundle, err = s.app.Parse(ctx, kind, file, filename)
		return err
	})
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	contentType := "application/json"
	if format == docs.FormatYAML {
		contentType = "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", attachment(application.BundleName(name, format)))
	if err := bundle.Encode(w, format); err != nil {
		logging.FromContext(r.Context()).Error("bundle encode error", "error", err)
	}
}

// withUpload reads the multipart "file" field and runs fn on it while
// holding an upload slot, bounded by the upload timeout.
func (s *Server) withUpload(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, file io.Reader, filename string) error) error {
	if _, err := core.Lookup(chi.URLParam(r, "kind")); err != nil {
		return err
	}

	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || core.MapError(err).Code == codeTooLarge {
			return err
		}
		return errNoFile
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return errNoFile
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Upload.Timeout)
	defer cancel()

	if err := s.limiter.Acquire(ctx); err != nil {
		return err
	}
	defer s.limiter.Release()

	return fn(ctx, file, uploadName(header))
}

// attachment formats a Content-Disposition header, quoting filename as needed.
func attachment(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

func uploadName(h *multipart.FileHeader) string {
	if h == nil || h.Filename == "" {
		return "upload.xlsx"
	}
	return h.Filename
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
