// Package handlers implements the JSON API surface of the Newsdesk server:
// authentication, the watcher and moderator article workflows, and the
// public read endpoints guarded by the access decision.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"newsdesk/internal/lifecycle"
)

// respondJSON writes a JSON body with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// errorBody is the uniform error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// respondError maps a lifecycle error to its HTTP status and writes the
// error envelope. Unknown errors become an opaque 500 so internal details
// never leak to the client.
func respondError(w http.ResponseWriter, err error) {
	var (
		validation *lifecycle.ValidationError
		illegal    *lifecycle.IllegalTransitionError
		authz      *lifecycle.AuthorizationError
		conflict   *lifecycle.ConflictError
		notFound   *lifecycle.NotFoundError
	)

	switch {
	case errors.As(err, &validation):
		respondJSON(w, http.StatusUnprocessableEntity, errorBody{Error: validation.Error()})
	case errors.As(err, &illegal):
		respondJSON(w, http.StatusConflict, errorBody{Error: illegal.Error()})
	case errors.As(err, &authz):
		respondJSON(w, http.StatusForbidden, errorBody{Error: authz.Error()})
	case errors.As(err, &conflict):
		respondJSON(w, http.StatusConflict, errorBody{Error: conflict.Error()})
	case errors.As(err, &notFound):
		respondJSON(w, http.StatusNotFound, errorBody{Error: notFound.Error()})
	default:
		slog.Error("internal error", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

// decodeBody parses a JSON request body into dst. Returns false after
// writing a 400 when the body is malformed.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return false
	}
	return true
}
