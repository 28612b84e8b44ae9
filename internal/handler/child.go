package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/websocket"
)

type ChildHandler struct {
	broadcaster
	logger *slog.Logger
}

func NewChildHandler(hub *websocket.Hub, logger *slog.Logger) *ChildHandler {
	return &ChildHandler{broadcaster: broadcaster{hub}, logger: logger}
}

func (h *ChildHandler) List(w http.ResponseWriter, r *http.Request) {
	children, err := client(r).ListChildren(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, children)
}

func (h *ChildHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.ChildInput
	if !decodeJSON(w, r, &in) {
		return
	}
	child, err := client(r).CreateChild(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.broadcast("child", "created", child.ChildID)
	writeJSON(w, http.StatusCreated, child)
}

func (h *ChildHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var in model.ChildInput
	if !decodeJSON(w, r, &in) {
		return
	}
	child, err := client(r).UpdateChild(r.Context(), id, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.broadcast("child", "updated", id)
	writeJSON(w, http.StatusOK, child)
}

func (h *ChildHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := client(r).DeleteChild(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.broadcast("child", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
