package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/websocket"
)

type ContactHandler struct {
	broadcaster
	logger *slog.Logger
}

func NewContactHandler(hub *websocket.Hub, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{broadcaster: broadcaster{hub}, logger: logger}
}

// List handles GET /api/contacts?q= ; q filters by name, email or phone.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := client(r).ListContacts(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if q := r.URL.Query().Get("q"); q != "" {
		matched := contacts[:0]
		for _, c := range contacts {
			if c.Matches(q) {
				matched = append(matched, c)
			}
		}
		contacts = matched
	}
	writeJSON(w, http.StatusOK, contacts)
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.ContactInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := client(r).CreateContact(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.broadcast("contact", "created", c.ContactID)
	writeJSON(w, http.StatusCreated, c)
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var in model.ContactInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := client(r).UpdateContact(r.Context(), id, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.broadcast("contact", "updated", id)
	writeJSON(w, http.StatusOK, c)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := client(r).DeleteContact(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.broadcast("contact", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
