package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/custodykeeper/internal/timeline"
)

type TimelineHandler struct {
	now    func() time.Time
	logger *slog.Logger
}

func NewTimelineHandler(logger *slog.Logger) *TimelineHandler {
	return &TimelineHandler{now: time.Now, logger: logger}
}

// List handles GET /api/timeline?type=&q=&from=&to=&order=asc|desc
func (h *TimelineHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := timeline.Filter{
		Type:      timeline.RecordType(q.Get("type")),
		Query:     q.Get("q"),
		From:      q.Get("from"),
		To:        q.Get("to"),
		Ascending: q.Get("order") == "asc",
	}
	if f.Type != "" && f.Type != "all" && !f.Type.Valid() {
		writeMessage(w, http.StatusBadRequest, "type must be all, journal, violation, event or document")
		return
	}

	src, err := client(r).LoadTimeline(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	all := timeline.Build(*src, h.now())
	records, err := f.Apply(all)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"counts":  timeline.Counts(all),
		"total":   len(all),
	})
}
