// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsdesk/internal/lifecycle"
	"newsdesk/internal/models"
)

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &lifecycle.ValidationError{Field: "section", Reason: "missing"}, http.StatusUnprocessableEntity},
		{"illegal transition", &lifecycle.IllegalTransitionError{From: models.StatusDraft, Event: "approve"}, http.StatusConflict},
		{"authorization", &lifecycle.AuthorizationError{Action: "edit", Reason: "not the owner"}, http.StatusForbidden},
		{"conflict", &lifecycle.ConflictError{ArticleID: "abc"}, http.StatusConflict},
		{"not found", &lifecycle.NotFoundError{ArticleID: "abc"}, http.StatusNotFound},
		{"wrapped validation", fmt.Errorf("outer: %w", &lifecycle.ValidationError{Field: "title", Reason: "empty"}), http.StatusUnprocessableEntity},
		{"unknown error", errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, tt.err)

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}

			var body errorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Error == "" {
				t.Error("error envelope must carry a message")
			}
			if tt.want == http.StatusInternalServerError && body.Error != "internal server error" {
				t.Errorf("internal details leaked: %q", body.Error)
			}
		})
	}
}
