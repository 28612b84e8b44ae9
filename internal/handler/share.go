package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/session"
	"github.com/dukerupert/custodykeeper/internal/websocket"
)

type ShareHandler struct {
	broadcaster
	sess   *session.Manager
	logger *slog.Logger
}

func NewShareHandler(sess *session.Manager, hub *websocket.Hub, logger *slog.Logger) *ShareHandler {
	return &ShareHandler{broadcaster: broadcaster{hub}, sess: sess, logger: logger}
}

func (h *ShareHandler) ListTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := client(r).ListShareTokens(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

// CreateToken handles POST /api/share/tokens. Fields left out of the body
// take the defaults of a new link.
func (h *ShareHandler) CreateToken(w http.ResponseWriter, r *http.Request) {
	in := model.NewShareTokenInput("")
	if !decodeJSON(w, r, &in) {
		return
	}
	token, err := client(r).CreateShareToken(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.broadcast("share_token", "created", token.TokenID)
	writeJSON(w, http.StatusCreated, token)
}

func (h *ShareHandler) RevokeToken(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := client(r).RevokeShareToken(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.broadcast("share_token", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

type sharedView struct {
	*model.SharedView
	DefaultTab  string `json:"default_tab"`
	CanPrint    bool   `json:"can_print"`
	CanDownload bool   `json:"can_download"`
}

// Shared handles GET /api/shared/{token}, the public view behind a link.
// It needs no session.
func (h *ShareHandler) Shared(w http.ResponseWriter, r *http.Request) {
	view, err := h.sess.Public().SharedView(r.Context(), r.PathValue("token"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sharedView{
		SharedView:  view,
		DefaultTab:  view.DefaultTab(),
		CanPrint:    view.PermissionLevel.CanPrint(),
		CanDownload: view.PermissionLevel.CanDownload(),
	})
}
