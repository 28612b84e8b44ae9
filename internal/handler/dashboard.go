package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/session"
)

// DashboardHandler serves the dashboard and the reference material around
// it: state laws, resources, writing help and email sharing.
type DashboardHandler struct {
	sess   *session.Manager
	logger *slog.Logger
}

func NewDashboardHandler(sess *session.Manager, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{sess: sess, logger: logger}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := client(r).DashboardStats(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// StateLaws handles GET /api/state-laws; it needs no session.
func (h *DashboardHandler) StateLaws(w http.ResponseWriter, r *http.Request) {
	laws, err := h.sess.Public().StateLaws(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, laws)
}

func (h *DashboardHandler) StateLaw(w http.ResponseWriter, r *http.Request) {
	law, err := h.sess.Public().StateLaw(r.Context(), r.PathValue("state"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, law)
}

func (h *DashboardHandler) Resources(w http.ResponseWriter, r *http.Request) {
	resources, err := client(r).ParentalAlienationResources(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resources)
}

// WritingAssist handles POST /api/ai/writing-assist
func (h *DashboardHandler) WritingAssist(w http.ResponseWriter, r *http.Request) {
	var in model.WritingAssistRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Text) == "" {
		writeMessage(w, http.StatusBadRequest, "text is required")
		return
	}
	out, err := client(r).WritingAssist(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// SendEmail handles POST /api/email/send
func (h *DashboardHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var in model.EmailRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	out, err := client(r).SendEmail(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.logger.Info("records emailed", "content_type", in.ContentType, "count", len(in.ContentIDs))
	writeJSON(w, http.StatusOK, out)
}
