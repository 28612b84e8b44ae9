package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/custodykeeper/internal/auth"
	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/session"
)

type AuthHandler struct {
	sess   *session.Manager
	logger *slog.Logger
}

func NewAuthHandler(sess *session.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{sess: sess, logger: logger}
}

type signedIn struct {
	User        *model.User `json:"user,omitempty"`
	RequiresTwo bool        `json:"requires_2fa,omitempty"`
	Email       string      `json:"email,omitempty"`
}

// respond answers a sign-in attempt: the user on success, a two-factor
// challenge when the backend asks for a code.
func (h *AuthHandler) respond(w http.ResponseWriter, r *http.Request, email string, user *model.User, err error) {
	switch {
	case errors.Is(err, session.ErrTwoFactorRequired):
		writeJSON(w, http.StatusAccepted, signedIn{RequiresTwo: true, Email: email})
	case err != nil:
		writeError(w, r, h.logger, err)
	default:
		h.logger.Info("signed in", "user_id", user.UserID)
		writeJSON(w, http.StatusOK, signedIn{User: user})
	}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in model.LoginInput
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Email = strings.TrimSpace(in.Email)
	user, err := h.sess.Login(r.Context(), in)
	h.respond(w, r, in.Email, user, err)
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in model.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Email = strings.TrimSpace(in.Email)
	user, err := h.sess.Register(r.Context(), in)
	h.respond(w, r, in.Email, user, err)
}

// Google handles POST /api/auth/google with the session id returned by the
// OAuth redirect.
func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeMessage(w, http.StatusBadRequest, "session_id is required")
		return
	}
	user, err := h.sess.CompleteGoogleSession(r.Context(), req.SessionID)
	h.respond(w, r, "", user, err)
}

type twoFactorRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// SendCode handles POST /api/auth/2fa/send
func (h *AuthHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req twoFactorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeMessage(w, http.StatusBadRequest, "email is required")
		return
	}
	sent, err := h.sess.Public().SendTwoFactorCode(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sent)
}

// VerifyCode handles POST /api/auth/2fa/verify
func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req twoFactorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Code) == "" {
		writeMessage(w, http.StatusBadRequest, "email and code are required")
		return
	}
	user, err := h.sess.VerifyTwoFactor(r.Context(), strings.TrimSpace(req.Email), strings.TrimSpace(req.Code))
	h.respond(w, r, req.Email, user, err)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sess.Logout(); err != nil {
		h.logger.Error("logout", "error", err)
		writeMessage(w, http.StatusInternalServerError, "failed to sign out")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"redirect": "/login"})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, auth.User(r.Context()))
}

// UpdateProfile handles PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in model.ProfileInput
	if !decodeJSON(w, r, &in) {
		return
	}
	user, err := h.sess.UpdateProfile(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// TwoFactorStatus handles GET /api/auth/2fa
func (h *AuthHandler) TwoFactorStatus(w http.ResponseWriter, r *http.Request) {
	status, err := client(r).TwoFactorStatus(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// SetTwoFactor handles PUT /api/auth/2fa
func (h *AuthHandler) SetTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req model.TwoFactorStatus
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := client(r).SetTwoFactor(r.Context(), req.Enabled); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}
