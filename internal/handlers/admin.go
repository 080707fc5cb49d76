package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"newsdesk/internal/models"
	"newsdesk/internal/store"
)

// Admin groups account-management handlers: user listing, 2FA resets, and
// the endpoint the billing system pushes subscription facts to.
type Admin struct {
	userStore     *store.UserStore
	subscriptions *store.SubscriptionStore
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(userStore *store.UserStore, subscriptions *store.SubscriptionStore) *Admin {
	return &Admin{userStore: userStore, subscriptions: subscriptions}
}

// UsersList returns all accounts.
func (h *Admin) UsersList(w http.ResponseWriter, r *http.Request) {
	users, err := h.userStore.List()
	if err != nil {
		slog.Error("list users failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// UserResetTwoFA clears a staff member's TOTP enrollment. They will be
// forced through setup again on their next login.
func (h *Admin) UserResetTwoFA(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.userStore.ResetTOTP(id); err != nil {
		slog.Error("reset totp failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type subscriptionFactRequest struct {
	SubscriptionID uuid.UUID                 `json:"subscription_id"`
	Status         models.SubscriptionStatus `json:"status"`
	ExpiresAt      time.Time                 `json:"expires_at"`
}

// RecordSubscription mirrors a subscription fact pushed by the external
// billing system. The access decision reads these rows on every premium
// request, so the fact takes effect immediately.
func (h *Admin) RecordSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(w, r)
	if !ok {
		return
	}

	var req subscriptionFactRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.SubscriptionID == uuid.Nil {
		req.SubscriptionID = uuid.New()
	}
	if req.Status != models.SubscriptionActive && req.Status != models.SubscriptionCanceled {
		respondJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "unknown subscription status"})
		return
	}

	sub := &models.Subscription{
		ID:        req.SubscriptionID,
		UserID:    userID,
		Status:    req.Status,
		ExpiresAt: req.ExpiresAt,
	}
	if err := h.subscriptions.Upsert(sub); err != nil {
		slog.Error("record subscription failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}
	respondJSON(w, http.StatusOK, sub)
}
