package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/recurrence"
	"github.com/dukerupert/custodykeeper/internal/websocket"
)

type CalendarEventHandler struct {
	broadcaster
	opts   recurrence.Options
	now    func() time.Time
	logger *slog.Logger
}

// NewCalendarEventHandler creates a new CalendarEventHandler.
func NewCalendarEventHandler(hub *websocket.Hub, opts recurrence.Options, logger *slog.Logger) *CalendarEventHandler {
	return &CalendarEventHandler{broadcaster: broadcaster{hub}, opts: opts, now: time.Now, logger: logger}
}

// List handles GET /api/calendar: the stored events, templates unexpanded.
func (h *CalendarEventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := client(r).ListEvents(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

type monthView struct {
	Month    string                `json:"month"`
	Days     []recurrence.Day      `json:"days"`
	Children []model.Child         `json:"children"`
	Series   map[string]string     `json:"series,omitempty"`
	Events   []model.CalendarEvent `json:"events"`
}

// parseMonth reads a yyyy-MM value, defaulting to the current month.
func (h *CalendarEventHandler) parseMonth(s string) (time.Time, bool) {
	if s == "" {
		now := h.now()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), true
	}
	t, err := time.Parse("2006-01", s)
	return t, err == nil
}

// Month handles GET /api/calendar/month?month=yyyy-MM: a Sunday-first grid
// with stored and derived events per day.
func (h *CalendarEventHandler) Month(w http.ResponseWriter, r *http.Request) {
	month, ok := h.parseMonth(r.URL.Query().Get("month"))
	if !ok {
		writeMessage(w, http.StatusBadRequest, "month must be yyyy-MM")
		return
	}
	data, err := client(r).LoadCalendar(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	series := make(map[string]string)
	for _, e := range data.Events {
		if e.Recurring {
			series[e.EventID] = recurrence.DescribeEvent(e)
		}
	}
	writeJSON(w, http.StatusOK, monthView{
		Month:    month.Format("2006-01"),
		Days:     recurrence.Month(data.Events, month, h.opts),
		Children: data.Children,
		Series:   series,
		Events:   data.Events,
	})
}

// Occurrences handles GET /api/calendar/occurrences?from=&to=
func (h *CalendarEventHandler) Occurrences(w http.ResponseWriter, r *http.Request) {
	from, err := model.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "from must be yyyy-MM-dd")
		return
	}
	to, err := model.ParseDate(r.URL.Query().Get("to"))
	if err != nil || to.Before(from) {
		writeMessage(w, http.StatusBadRequest, "to must be a yyyy-MM-dd date on or after from")
		return
	}
	if to.After(recurrence.AddMonths(from, 12)) {
		writeMessage(w, http.StatusBadRequest, "range is limited to 12 months")
		return
	}
	events, err := client(r).ListEvents(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out := recurrence.Occurrences(events, from, to, h.opts)
	if out == nil {
		out = []model.CalendarEvent{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CalendarEventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.EventInput
	if !decodeJSON(w, r, &in) {
		return
	}
	event, err := client(r).CreateEvent(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.broadcast("calendar_event", "created", event.EventID)
	writeJSON(w, http.StatusCreated, event)
}

// Update handles PUT /api/calendar/{id} for stored events. Derived
// instances are edited through Edit, which needs a scope.
func (h *CalendarEventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, _, ok := recurrence.SplitInstanceID(id); ok {
		writeMessage(w, http.StatusBadRequest, "recurring instances are edited with a scope")
		return
	}
	var in model.EventInput
	if !decodeJSON(w, r, &in) {
		return
	}
	event, err := client(r).UpdateEvent(r.Context(), id, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.broadcast("calendar_event", "updated", id)
	writeJSON(w, http.StatusOK, event)
}

// Edit handles POST /api/calendar/{id}/edit?scope=occurrence|series. id is
// a stored event id or a derived instance id. The edit resolves to exactly
// one backend call: a detached copy for a single occurrence, or an update
// of the template for the whole series.
func (h *CalendarEventHandler) Edit(w http.ResponseWriter, r *http.Request) {
	scope, err := recurrence.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	var in model.EventInput
	if !decodeJSON(w, r, &in) {
		return
	}

	id := r.PathValue("id")
	templateID, occurrence := id, ""
	if tid, date, ok := recurrence.SplitInstanceID(id); ok {
		templateID, occurrence = tid, date
	}

	c := client(r)
	events, err := c.ListEvents(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var template *model.CalendarEvent
	for i := range events {
		if events[i].EventID == templateID {
			template = &events[i]
			break
		}
	}
	if template == nil {
		writeMessage(w, http.StatusNotFound, "event not found")
		return
	}

	m := recurrence.ResolveEdit(*template, occurrence, in, scope)
	var event *model.CalendarEvent
	switch m.Action {
	case recurrence.ActionCreate:
		event, err = c.CreateEvent(r.Context(), m.Input)
	default:
		event, err = c.UpdateEvent(r.Context(), m.EventID, m.Input)
	}
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.Info("event edited", "id", id, "scope", scope.String(), "result_id", event.EventID)
	if m.Action == recurrence.ActionCreate {
		h.broadcast("calendar_event", "created", event.EventID)
		writeJSON(w, http.StatusCreated, event)
		return
	}
	h.broadcast("calendar_event", "updated", event.EventID)
	writeJSON(w, http.StatusOK, event)
}

// Delete handles DELETE /api/calendar/{id}. Deleting a derived instance
// deletes its series.
func (h *CalendarEventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if tid, _, ok := recurrence.SplitInstanceID(id); ok {
		id = tid
	}
	if err := client(r).DeleteEvent(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.broadcast("calendar_event", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
