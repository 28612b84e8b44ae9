package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/session"
	"github.com/dukerupert/custodykeeper/internal/websocket"
)

type SettingsHandler struct {
	broadcaster
	sess   *session.Manager
	logger *slog.Logger
}

func NewSettingsHandler(sess *session.Manager, hub *websocket.Hub, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{broadcaster: broadcaster{hub}, sess: sess, logger: logger}
}

type themeBody struct {
	Theme model.Theme `json:"theme"`
}

// GetTheme handles GET /api/settings/theme. The theme is readable before
// sign-in so the login page can use it.
func (h *SettingsHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, themeBody{Theme: h.sess.Theme()})
}

// SetTheme handles PUT /api/settings/theme
func (h *SettingsHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeBody
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Theme.Valid() {
		writeMessage(w, http.StatusBadRequest, "theme must be light or dark")
		return
	}
	h.save(w, req.Theme, h.sess.SetTheme(req.Theme))
}

// ToggleTheme handles POST /api/settings/theme/toggle
func (h *SettingsHandler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.sess.ToggleTheme()
	h.save(w, theme, err)
}

func (h *SettingsHandler) save(w http.ResponseWriter, theme model.Theme, err error) {
	if err != nil {
		h.logger.Error("save theme", "error", err)
		writeMessage(w, http.StatusInternalServerError, "failed to save theme")
		return
	}
	h.broadcast("settings", "updated", "theme")
	writeJSON(w, http.StatusOK, themeBody{Theme: theme})
}
