package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/custodykeeper/internal/api"
	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/websocket"
)

type JournalHandler struct {
	broadcaster
	logger *slog.Logger
}

func NewJournalHandler(hub *websocket.Hub, logger *slog.Logger) *JournalHandler {
	return &JournalHandler{broadcaster: broadcaster{hub}, logger: logger}
}

// pageParams reads page, page_size and severity from the query string.
// Missing or malformed numbers fall back to the backend defaults.
func pageParams(r *http.Request) api.Page {
	q := r.URL.Query()
	p := api.Page{Severity: model.Severity(q.Get("severity"))}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(q.Get("page_size")); err == nil && n > 0 {
		p.PageSize = n
	}
	return p
}

// List handles GET /api/journals?page=&page_size=
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := client(r).ListJournals(r.Context(), pageParams(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := client(r).GetJournal(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.JournalInput
	if !decodeJSON(w, r, &in) {
		return
	}
	entry, err := client(r).CreateJournal(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.broadcast("journal", "created", entry.JournalID)
	writeJSON(w, http.StatusCreated, entry)
}

func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var in model.JournalInput
	if !decodeJSON(w, r, &in) {
		return
	}
	entry, err := client(r).UpdateJournal(r.Context(), id, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.broadcast("journal", "updated", id)
	writeJSON(w, http.StatusOK, entry)
}

func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := client(r).DeleteJournal(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.broadcast("journal", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// Summary handles POST /api/journals/summary, the AI summary of selected
// entries.
func (h *JournalHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var in model.JournalSummaryRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if len(in.JournalIDs) == 0 {
		writeMessage(w, http.StatusBadRequest, "select at least one entry")
		return
	}
	summary, err := client(r).JournalSummary(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
