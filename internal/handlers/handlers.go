// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the portfolio: the public
// site, the read-only JSON API, operator authentication and the back-office
// JSON API.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"portfolio/internal/service"
)

// maxJSONBody caps request bodies decoded by decodeJSON.
const maxJSONBody = 1 << 20

// writeJSON sends v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode json response failed", "error", err)
	}
}

// writeJSONError sends {"error": msg}.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a JSON request body into v. Unknown fields are rejected
// so typos in field names do not silently drop data.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// urlID parses the {id} route parameter.
func urlID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// wantsJSON reports whether the client asked for a JSON answer: an XHR
// request or an Accept header naming application/json.
func wantsJSON(r *http.Request) bool {
	if r.Header.Get("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// writeServiceError maps service errors onto JSON responses. Validation
// failures carry their field map; anything unrecognized is logged and
// reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if fields, ok := service.AsValidation(err); ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fields})
		return
	}
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, service.ErrProfileExists):
		writeJSONError(w, http.StatusConflict, "A profile already exists.")
	case errors.Is(err, service.ErrProfileUndeletable):
		writeJSONError(w, http.StatusForbidden, "The profile cannot be deleted.")
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error.")
	}
}
