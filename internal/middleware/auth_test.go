package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/custodykeeper/internal/api"
	"github.com/dukerupert/custodykeeper/internal/auth"
	"github.com/dukerupert/custodykeeper/internal/model"
)

type fakeSession struct {
	user   *model.User
	client *api.Client
}

func (f fakeSession) User() (model.User, bool) {
	if f.user == nil {
		return model.User{}, false
	}
	return *f.user, true
}

func (f fakeSession) Client() (*api.Client, error) {
	if f.user == nil {
		return nil, http.ErrNoCookie
	}
	return f.client, nil
}

func TestRequireSessionSignedOut(t *testing.T) {
	handler := RequireSession(fakeSession{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/api/journals", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["redirect"] != "/login" {
		t.Errorf("redirect = %q, want /login", body["redirect"])
	}
	if body["error"] == "" {
		t.Error("expected an error message")
	}
}

func TestRequireSessionBrowser(t *testing.T) {
	handler := RequireSession(fakeSession{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/calendar", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want %q", loc, "/login")
	}
}

func TestRequireSessionSignedIn(t *testing.T) {
	client := api.New("http://backend.test/api", api.WithToken("tok"))
	sess := fakeSession{user: &model.User{UserID: "u1", FullName: "Alex"}, client: client}

	var got auth.AuthContext
	handler := RequireSession(sess)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac, ok := auth.FromContext(r.Context())
		if !ok {
			t.Fatal("expected AuthContext in request context")
		}
		got = ac
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/journals", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got.User.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", got.User.UserID)
	}
	if got.Client != client {
		t.Error("expected the session's client in the context")
	}
}
