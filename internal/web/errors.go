package web

// errors.go turns handler errors into responses.
//
// Every error is logged with its technical text and request id, mapped
// through core.MapError, and returned as JSON for API calls or as an HTML
// alert for the upload page. Validation errors also carry the sheet and
// the failed check so the page can point at the cell to fix.

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/JonMunkholm/contentsheet/internal/core"
	"github.com/JonMunkholm/contentsheet/internal/logging"
)

var (
	errNoFile      = errors.New("no file provided")
	errRateLimited = errors.New("rate limit exceeded")
	errNoStore     = errors.New("no document store configured")
)

// codeTooLarge is the user error code of an oversized upload.
const codeTooLarge = "FILE001"

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`

	// Set for workbook validation failures.
	Kind   string `json:"kind,omitempty"`
	Sheet  string `json:"sheet,omitempty"`
	Check  string `json:"check,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func newErrorResponse(err error) ErrorResponse {
	msg := core.MapError(err)
	resp := ErrorResponse{Error: msg.Message, Message: msg.Message, Action: msg.Action, Code: msg.Code}
	if ve, ok := core.AsValidationError(err); ok {
		resp.Kind = string(ve.Kind)
		resp.Sheet = ve.Sheet
		resp.Check = ve.Check
		resp.Detail = ve.Message
	}
	return resp
}

// statusFor picks the HTTP status of an error.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errNoFile):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrUnknownKind):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyUploads), errors.Is(err, errNoStore):
		return http.StatusServiceUnavailable
	}
	if _, ok := core.AsValidationError(err); ok {
		return http.StatusUnprocessableEntity
	}
	code := core.MapError(err).Code
	if code == codeTooLarge {
		return http.StatusRequestEntityTooLarge
	}
	if strings.HasPrefix(code, "FILE") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes the mapped message in the format the
// client expects.
func respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	resp := newErrorResponse(err)

	log := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", resp.Code,
	}
	if status >= 500 {
		log.Error("request error", attrs...)
	} else {
		log.Warn("request error", attrs...)
	}

	if wantsJSON(r) {
		writeJSON(w, status, resp)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	ErrorAlert(resp).Render(r.Context(), w)
}

// wantsJSON reports whether the client prefers JSON. API routes answer
// JSON unless the upload page asks for an HTML fragment.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		return false
	}
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

// clientIP strips the port from a RemoteAddr.
func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
