package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/custodykeeper/internal/recurrence"
	"github.com/dukerupert/custodykeeper/internal/reminder"
)

// ReminderHandler exposes upcoming-event reminders and lets a page ask for
// an immediate check instead of waiting for the scheduler.
type ReminderHandler struct {
	scheduler *reminder.Scheduler
	opts      recurrence.Options
	window    time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

func NewReminderHandler(scheduler *reminder.Scheduler, opts recurrence.Options, window time.Duration, logger *slog.Logger) *ReminderHandler {
	return &ReminderHandler{scheduler: scheduler, opts: opts, window: window, now: time.Now, logger: logger}
}

type upcomingEvent struct {
	EventID string `json:"event_id"`
	Date    string `json:"date"`
	Hours   int    `json:"hours_until"`
	Title   string `json:"title"`
	Body    string `json:"body"`
}

// Upcoming handles GET /api/reminders?hours=
func (h *ReminderHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	window := h.window
	if s := r.URL.Query().Get("hours"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 24*31 {
			writeMessage(w, http.StatusBadRequest, "hours must be between 1 and 744")
			return
		}
		window = time.Duration(n) * time.Hour
	}

	events, err := client(r).ListEvents(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out := []upcomingEvent{}
	for _, rem := range reminder.Upcoming(events, h.now(), window, h.opts) {
		title, body := reminder.Format(rem)
		out = append(out, upcomingEvent{
			EventID: rem.Event.EventID,
			Date:    rem.Date,
			Hours:   rem.Hours,
			Title:   title,
			Body:    body,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Check handles POST /api/reminders/check
func (h *ReminderHandler) Check(w http.ResponseWriter, r *http.Request) {
	if h.scheduler == nil {
		writeMessage(w, http.StatusServiceUnavailable, "reminders are disabled")
		return
	}
	sent := h.scheduler.Check(r.Context())
	writeJSON(w, http.StatusOK, map[string]int{"sent": sent})
}
