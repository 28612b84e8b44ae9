package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/websocket"
)

type ViolationHandler struct {
	broadcaster
	logger *slog.Logger
}

func NewViolationHandler(hub *websocket.Hub, logger *slog.Logger) *ViolationHandler {
	return &ViolationHandler{broadcaster: broadcaster{hub}, logger: logger}
}

// List handles GET /api/violations?page=&page_size=&severity=
func (h *ViolationHandler) List(w http.ResponseWriter, r *http.Request) {
	p := pageParams(r)
	if p.Severity != "" && !p.Severity.Valid() {
		writeMessage(w, http.StatusBadRequest, "severity must be low, medium or high")
		return
	}
	violations, err := client(r).ListViolations(r.Context(), p)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, violations)
}

func (h *ViolationHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := client(r).GetViolation(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *ViolationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.ViolationInput
	if !decodeJSON(w, r, &in) {
		return
	}
	v, err := client(r).CreateViolation(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.broadcast("violation", "created", v.ViolationID)
	writeJSON(w, http.StatusCreated, v)
}

func (h *ViolationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var in model.ViolationInput
	if !decodeJSON(w, r, &in) {
		return
	}
	v, err := client(r).UpdateViolation(r.Context(), id, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.broadcast("violation", "updated", id)
	writeJSON(w, http.StatusOK, v)
}

func (h *ViolationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := client(r).DeleteViolation(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.broadcast("violation", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
