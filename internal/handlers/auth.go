package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"newsdesk/internal/middleware"
	"newsdesk/internal/session"
	"newsdesk/internal/store"
)

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions      *session.Store
	userStore     *store.UserStore
	subscriptions *store.SubscriptionStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore, subscriptions *store.SubscriptionStore) *Auth {
	return &Auth{
		sessions:      sessions,
		userStore:     userStore,
		subscriptions: subscriptions,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Role     string `json:"role"`
	NextStep string `json:"next_step"` // "", "2fa_setup" or "2fa_verify"
}

// Login processes credentials and opens a session. Readers are fully
// authenticated right away; staff must still pass 2FA before the session
// unlocks the editorial endpoints.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := a.userStore.FindByEmail(req.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		respondJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid email or password"})
		return
	}

	// Staff sessions start locked until the TOTP code is verified.
	twoFADone := !user.IsStaff()
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		TwoFADone:   twoFADone,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	resp := loginResponse{Role: string(user.Role)}
	switch {
	case !user.IsStaff():
		resp.NextStep = ""
	case user.Needs2FASetup():
		resp.NextStep = "2fa_setup"
	default:
		resp.NextStep = "2fa_verify"
	}
	respondJSON(w, http.StatusOK, resp)
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

type twoFASetupResponse struct {
	Secret string `json:"secret"`
	QRCode string `json:"qr_code"` // base64-encoded PNG of the otpauth URL
}

// TwoFASetup generates a TOTP secret for the logged-in staff account and
// returns it with an enrollment QR code.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil || !sess.IsStaff() {
		respondJSON(w, http.StatusForbidden, errorBody{Error: "staff role required"})
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Newsdesk",
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	if err := a.userStore.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	respondJSON(w, http.StatusOK, twoFASetupResponse{
		Secret: key.Secret(),
		QRCode: base64.StdEncoding.EncodeToString(qrPNG),
	})
}

type twoFAVerifyRequest struct {
	Code string `json:"code"`
}

// TwoFAVerify checks the submitted TOTP code and unlocks the session.
// On the very first successful verification 2FA is marked enabled.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil || !sess.IsStaff() {
		respondJSON(w, http.StatusForbidden, errorBody{Error: "staff role required"})
		return
	}

	var req twoFAVerifyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil || user == nil || user.TOTPSecret == nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "2fa is not set up"})
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		respondJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid code"})
		return
	}

	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(user.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type meResponse struct {
	Email                 string `json:"email"`
	DisplayName           string `json:"display_name"`
	Role                  string `json:"role"`
	HasActiveSubscription bool   `json:"has_active_subscription"`
}

// Me returns the logged-in account's identity and its current subscription
// fact, looked up fresh so a lapse shows up on the next call.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
		return
	}

	active, err := a.subscriptions.HasActive(sess.UserID, time.Now())
	if err != nil {
		slog.Error("subscription lookup failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	respondJSON(w, http.StatusOK, meResponse{
		Email:                 sess.Email,
		DisplayName:           sess.DisplayName,
		Role:                  string(sess.Role),
		HasActiveSubscription: active,
	})
}
