package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dukerupert/custodykeeper/internal/api"
	"github.com/dukerupert/custodykeeper/internal/auth"
	"github.com/dukerupert/custodykeeper/internal/model"
)

// LoginPath is where signed-out callers are sent.
const LoginPath = "/login"

// Session is the part of session.Manager the gate needs.
type Session interface {
	User() (model.User, bool)
	Client() (*api.Client, error)
}

// RequireSession lets a request through only while a user is signed in and
// populates AuthContext with the user and a token-bound client.
func RequireSession(sess Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := sess.User()
			if !ok {
				Unauthorized(w, r, "Not authenticated")
				return
			}
			client, err := sess.Client()
			if err != nil {
				Unauthorized(w, r, "Not authenticated")
				return
			}

			ctx := auth.WithAuth(r.Context(), auth.AuthContext{User: user, Client: client})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Unauthorized answers JSON callers with 401 and a redirect hint, and
// browsers navigating to a page with a redirect to the login page.
func Unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error":    msg,
		"redirect": LoginPath,
	})
}
