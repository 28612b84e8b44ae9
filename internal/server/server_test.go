package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/custodykeeper/internal/api"
	"github.com/dukerupert/custodykeeper/internal/database"
	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/secure"
	"github.com/dukerupert/custodykeeper/internal/session"
	"github.com/dukerupert/custodykeeper/internal/store"
	ws "github.com/dukerupert/custodykeeper/internal/websocket"
)

var testUser = model.User{UserID: "u1", Email: "pat@example.com", FullName: "Pat Doe", State: "Ohio"}

func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var in model.LoginInput
			json.NewDecoder(r.Body).Decode(&in)
			if in.Password != "correct-horse" {
				w.WriteHeader(http.StatusUnauthorized)
				io.WriteString(w, `{"detail":"Invalid credentials"}`)
				return
			}
			json.NewEncoder(w).Encode(model.TokenResponse{AccessToken: "tok", TokenType: "bearer", User: testUser})
		case "/api/children":
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode([]model.Child{{ChildID: "c1", Name: "Sam"}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setupServer(t *testing.T) (*Server, *session.Manager) {
	t.Helper()
	backend := fakeBackend(t)

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sess := session.NewManager(store.NewStateStore(db), secure.NewSealer(""), api.New(backend.URL+"/api"), logger)
	if err := sess.Init(context.Background()); err != nil {
		t.Fatalf("init session: %v", err)
	}
	return New(sess, ws.NewHub(logger), nil, Config{}, logger), sess
}

func TestHealth(t *testing.T) {
	srv, _ := setupServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]any
	json.NewDecoder(rec.Body).Decode(&body)
	if body["status"] != "ok" || body["signed_in"] != false {
		t.Errorf("body = %v", body)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestProtectedRouteRequiresSession(t *testing.T) {
	srv, _ := setupServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/children", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["redirect"] != "/login" {
		t.Errorf("redirect = %q, want /login", body["redirect"])
	}
}

func TestLoginThenList(t *testing.T) {
	srv, sess := setupServer(t)
	router := srv.Router()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"pat@example.com","password":"correct-horse"}`))
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !sess.SignedIn() {
		t.Fatal("session should be signed in after login")
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/children", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, body %s", rec.Code, rec.Body.String())
	}
	var children []model.Child
	json.NewDecoder(rec.Body).Decode(&children)
	if len(children) != 1 || children[0].Name != "Sam" {
		t.Errorf("children = %+v", children)
	}
}

func TestLoginFailureKeepsBackendMessage(t *testing.T) {
	srv, _ := setupServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"pat@example.com","password":"wrong"}`))
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid credentials") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestLoginRateLimited(t *testing.T) {
	srv, _ := setupServer(t)
	router := srv.Router()

	var last int
	for i := 0; i < 11; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"pat@example.com","password":"wrong"}`))
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(rec, req)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("11th attempt status = %d, want 429", last)
	}
}

func TestRemindersWithoutScheduler(t *testing.T) {
	srv, _ := setupServer(t)
	router := srv.Router()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"pat@example.com","password":"correct-horse"}`))
	router.ServeHTTP(rec, req)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reminders/check", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestArchivesWithoutStorage(t *testing.T) {
	srv, _ := setupServer(t)
	router := srv.Router()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"pat@example.com","password":"correct-horse"}`))
	router.ServeHTTP(rec, req)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/archives", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
