package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dukerupert/custodykeeper/internal/api"
	"github.com/dukerupert/custodykeeper/internal/auth"
	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/recurrence"
	"github.com/google/go-cmp/cmp"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type call struct {
	Method string
	Path   string
	Body   string
}

// backend is a fake REST backend that records every call and answers from
// a route table keyed by "METHOD /path".
type backend struct {
	mu     sync.Mutex
	calls  []call
	routes map[string]func(w http.ResponseWriter, body string)
	srv    *httptest.Server
}

func newBackend(t *testing.T, routes map[string]func(w http.ResponseWriter, body string)) *backend {
	t.Helper()
	b := &backend{routes: routes}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.calls = append(b.calls, call{Method: r.Method, Path: r.URL.Path, Body: string(data)})
		b.mu.Unlock()
		if fn, ok := b.routes[r.Method+" "+r.URL.Path]; ok {
			fn(w, string(data))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"detail":"Not found"}`)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) recorded() []call {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]call, len(b.calls))
	copy(out, b.calls)
	return out
}

// asUser wraps h the way RequireSession does, binding a client to the
// fake backend.
func asUser(baseURL string, h http.Handler) http.Handler {
	c := api.New(baseURL+"/api", api.WithToken("tok"))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := auth.WithAuth(r.Context(), auth.AuthContext{User: model.User{UserID: "u1", FullName: "Pat Doe"}, Client: c})
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

func jsonReply(v any) func(http.ResponseWriter, string) {
	return func(w http.ResponseWriter, _ string) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}
}

var weeklyPickup = model.CalendarEvent{
	EventID:           "e1",
	Title:             "Pickup",
	StartDate:         "2024-01-01",
	EndDate:           "2024-01-01",
	EventType:         model.EventExchange,
	Recurring:         true,
	RecurrencePattern: model.PatternWeekly,
}

func calendarMux(h *CalendarEventHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/calendar/{id}", h.Update)
	mux.HandleFunc("POST /api/calendar/{id}/edit", h.Edit)
	mux.HandleFunc("DELETE /api/calendar/{id}", h.Delete)
	return mux
}

func TestCalendarEditScope(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		wantCall   call
		wantInput  model.EventInput
	}{
		{
			name:       "occurrence detaches",
			target:     "/api/calendar/e1-2024-01-08/edit?scope=occurrence",
			body:       `{"title":"Pickup moved","event_type":"exchange","recurring":true,"recurrence_pattern":"weekly"}`,
			wantStatus: http.StatusCreated,
			wantCall:   call{Method: http.MethodPost, Path: "/api/calendar"},
			wantInput: model.EventInput{
				Title:     "Pickup moved",
				StartDate:        "2024-01-08",
				EndDate:          "2024-01-08",
				EventType:        model.EventExchange,
				ChildrenInvolved: []string{},
			},
		},
		{
			name:       "series updates template",
			target:     "/api/calendar/e1-2024-01-08/edit?scope=series",
			body:       `{"title":"Pickup at school","start_date":"2024-01-08","event_type":"exchange","recurring":true,"recurrence_pattern":"weekly"}`,
			wantStatus: http.StatusOK,
			wantCall:   call{Method: http.MethodPut, Path: "/api/calendar/e1"},
			wantInput: model.EventInput{
				Title:             "Pickup at school",
				StartDate:         "2024-01-01",
				EndDate:           "2024-01-01",
				EventType:         model.EventExchange,
				ChildrenInvolved:  []string{},
				Recurring:         true,
				RecurrencePattern: model.PatternWeekly,
			},
		},
		{
			name:       "stored event updates itself",
			target:     "/api/calendar/e1/edit?scope=occurrence",
			body:       `{"title":"Pickup","start_date":"2024-01-02","event_type":"exchange"}`,
			wantStatus: http.StatusOK,
			wantCall:   call{Method: http.MethodPut, Path: "/api/calendar/e1"},
			wantInput: model.EventInput{
				Title:            "Pickup",
				StartDate:        "2024-01-02",
				EndDate:          "2024-01-02",
				EventType:        model.EventExchange,
				ChildrenInvolved: []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend(t, map[string]func(http.ResponseWriter, string){
				"GET /api/calendar":    jsonReply([]model.CalendarEvent{weeklyPickup}),
				"POST /api/calendar":   jsonReply(model.CalendarEvent{EventID: "e2", Title: "Pickup moved"}),
				"PUT /api/calendar/e1": jsonReply(weeklyPickup),
			})
			h := NewCalendarEventHandler(nil, recurrence.DefaultOptions(), discard)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader(tt.body))
			asUser(b.srv.URL, calendarMux(h)).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			calls := b.recorded()
			if len(calls) != 2 {
				t.Fatalf("backend calls = %+v, want list then one mutation", calls)
			}
			got := calls[1]
			if got.Method != tt.wantCall.Method || got.Path != tt.wantCall.Path {
				t.Errorf("mutation = %s %s, want %s %s", got.Method, got.Path, tt.wantCall.Method, tt.wantCall.Path)
			}
			var in model.EventInput
			if err := json.Unmarshal([]byte(got.Body), &in); err != nil {
				t.Fatalf("decode mutation body: %v", err)
			}
			if diff := cmp.Diff(tt.wantInput, in); diff != "" {
				t.Errorf("mutation input mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCalendarEditErrors(t *testing.T) {
	b := newBackend(t, map[string]func(http.ResponseWriter, string){
		"GET /api/calendar": jsonReply([]model.CalendarEvent{weeklyPickup}),
	})
	h := NewCalendarEventHandler(nil, recurrence.DefaultOptions(), discard)
	router := asUser(b.srv.URL, calendarMux(h))

	tests := []struct {
		name   string
		method string
		target string
		want   int
	}{
		{"unknown scope", http.MethodPost, "/api/calendar/e1-2024-01-08/edit?scope=all", http.StatusBadRequest},
		{"missing template", http.MethodPost, "/api/calendar/e9-2024-01-08/edit", http.StatusNotFound},
		{"plain update of instance", http.MethodPut, "/api/calendar/e1-2024-01-08", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, strings.NewReader(`{"title":"x"}`)))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestCalendarDeleteInstanceDeletesSeries(t *testing.T) {
	b := newBackend(t, map[string]func(http.ResponseWriter, string){
		"DELETE /api/calendar/e1": func(w http.ResponseWriter, _ string) { w.WriteHeader(http.StatusNoContent) },
	})
	h := NewCalendarEventHandler(nil, recurrence.DefaultOptions(), discard)

	rec := httptest.NewRecorder()
	asUser(b.srv.URL, calendarMux(h)).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/calendar/e1-2024-01-08", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	calls := b.recorded()
	if len(calls) != 1 || calls[0].Path != "/api/calendar/e1" {
		t.Errorf("calls = %+v", calls)
	}
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		reply      func(http.ResponseWriter, string)
		wantStatus int
		wantBody   string
	}{
		{
			name: "backend detail kept",
			reply: func(w http.ResponseWriter, _ string) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				io.WriteString(w, `{"detail":"Name already used"}`)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "Name already used",
		},
		{
			name: "rejected token redirects",
			reply: func(w http.ResponseWriter, _ string) {
				w.WriteHeader(http.StatusUnauthorized)
				io.WriteString(w, `{"detail":"Token expired"}`)
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `"redirect":"/login"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend(t, map[string]func(http.ResponseWriter, string){"GET /api/children": tt.reply})
			h := NewChildHandler(nil, discard)

			rec := httptest.NewRecorder()
			asUser(b.srv.URL, http.HandlerFunc(h.List)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/children", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want it to contain %s", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestWriteErrorBackendDown(t *testing.T) {
	b := newBackend(t, nil)
	url := b.srv.URL
	b.srv.Close()

	h := NewChildHandler(nil, discard)
	rec := httptest.NewRecorder()
	asUser(url, http.HandlerFunc(h.List)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/children", nil))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestValidationErrorIsBadRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	writeError(rec, req, discard, &model.ValidationError{Field: "title", Message: "title is required"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["field"] != "title" {
		t.Errorf("body = %v", body)
	}
}

func TestViolationListRejectsSeverity(t *testing.T) {
	b := newBackend(t, nil)
	h := NewViolationHandler(nil, discard)

	rec := httptest.NewRecorder()
	asUser(b.srv.URL, http.HandlerFunc(h.List)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/violations?severity=extreme", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if n := len(b.recorded()); n != 0 {
		t.Errorf("backend called %d times for an invalid filter", n)
	}
}

func TestSanitizeFileName(t *testing.T) {
	got := sanitizeFileName("a\"b\\c\r\nd.pdf")
	if got != "a_b_c__d.pdf" {
		t.Errorf("sanitizeFileName = %q", got)
	}
}
