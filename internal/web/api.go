package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/evcraddock/realty-site/internal/catalog"
	"github.com/evcraddock/realty-site/internal/listing"
	"github.com/evcraddock/realty-site/internal/message"
	"github.com/evcraddock/realty-site/internal/user"
)

// maxBodyBytes caps request bodies; listings carry image URLs, not files.
const maxBodyBytes = 1 << 20

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"message": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("encoding error response", "error", err)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// decodeJSON reads a JSON body into dst, answering 400 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst); err != nil {
		apiError(w, "Invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

// pathID parses the {id} URL parameter, answering 400 itself on failure.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		apiError(w, "Invalid ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// writeError maps domain errors to status codes. Anything unrecognized is
// logged and answered with 500 so storage details never reach the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, listing.ErrNotFound):
		apiError(w, "Listing not found", http.StatusNotFound)
	case errors.Is(err, message.ErrNotFound):
		apiError(w, "Message not found", http.StatusNotFound)
	case errors.Is(err, catalog.ErrNotFound):
		apiError(w, "Not found", http.StatusNotFound)
	case errors.Is(err, user.ErrNotFound):
		apiError(w, "User not found", http.StatusNotFound)
	case errors.Is(err, listing.ErrInvalid), errors.Is(err, message.ErrInvalid):
		apiError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, listing.ErrIllegalTransition), errors.Is(err, message.ErrIllegalTransition):
		apiError(w, err.Error(), http.StatusConflict)
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		apiError(w, "Internal server error", http.StatusInternalServerError)
	}
}
