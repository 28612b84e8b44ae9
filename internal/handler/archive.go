package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/custodykeeper/internal/archive"
	"github.com/dukerupert/custodykeeper/internal/auth"
)

// ArchiveHandler stores sealed copies of the full export off-site.
type ArchiveHandler struct {
	archiver *archive.Archiver
	logger   *slog.Logger
}

func NewArchiveHandler(archiver *archive.Archiver, logger *slog.Logger) *ArchiveHandler {
	return &ArchiveHandler{archiver: archiver, logger: logger}
}

func (h *ArchiveHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, archive.ErrDisabled):
		writeMessage(w, http.StatusServiceUnavailable, "Archive storage is not configured")
	case errors.Is(err, archive.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Archive not found")
	default:
		h.logger.Error("archive", "error", err)
		writeMessage(w, http.StatusBadGateway, "Archive storage unavailable")
	}
}

// List handles GET /api/archives
func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	archives, err := h.archiver.List(auth.UserID(r.Context()))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, archives)
}

// Create handles POST /api/archives: export everything, seal it, upload it
// and prune old copies.
func (h *ArchiveHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.archiver.Enabled() {
		h.fail(w, archive.ErrDisabled)
		return
	}
	bundle, err := client(r).ExportAll(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	userID := auth.UserID(r.Context())
	rec, err := h.archiver.Upload(r.Context(), userID, bundle)
	if err != nil {
		h.fail(w, err)
		return
	}
	if _, err := h.archiver.Cleanup(r.Context(), userID); err != nil {
		h.logger.Warn("archive cleanup", "error", err)
	}
	writeJSON(w, http.StatusCreated, rec)
}

// Download handles GET /api/archives/{id}
func (h *ArchiveHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	data, err := h.archiver.Fetch(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	attachment(w, "application/json", "custodykeeper_archive_"+strconv.FormatInt(id, 10)+".json")
	w.Write(data)
}
