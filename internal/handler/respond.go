package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/custodykeeper/internal/api"
	"github.com/dukerupert/custodykeeper/internal/auth"
	"github.com/dukerupert/custodykeeper/internal/middleware"
	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/preview"
	"github.com/dukerupert/custodykeeper/internal/session"
	"github.com/dukerupert/custodykeeper/internal/websocket"
)

// maxJSONBody caps request bodies that are not file uploads.
const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

// writeError maps err onto a response: validation failures are 400, backend
// errors keep the backend's status and detail, and anything else means the
// backend was unreachable. A 401 on a signed-in request means the token was
// rejected and answers with a login redirect; on a sign-in attempt it is
// the backend's own message.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var validation *model.ValidationError
	var upload *preview.UploadError
	var apiErr *api.APIError

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": validation.Error(), "field": validation.Field})
	case errors.As(err, &upload):
		writeMessage(w, http.StatusBadRequest, upload.Reason)
	case errors.Is(err, api.ErrUnauthorized) && auth.Client(r.Context()) != nil:
		middleware.Unauthorized(w, r, "Session expired. Please sign in again.")
	case errors.Is(err, session.ErrNotSignedIn):
		middleware.Unauthorized(w, r, "Not authenticated")
	case errors.As(err, &apiErr):
		writeMessage(w, apiErr.Status, apiErr.Detail)
	case errors.Is(err, context.Canceled):
		logger.Debug("request cancelled", "path", r.URL.Path)
	default:
		logger.Error("backend request failed", "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusBadGateway, "Backend unavailable")
	}
}

// client returns the token-bound backend client RequireSession attached.
func client(r *http.Request) *api.Client {
	return auth.Client(r.Context())
}

type broadcaster struct {
	hub *websocket.Hub
}

func (b broadcaster) broadcast(entity, action, id string) {
	if b.hub != nil {
		b.hub.Broadcast(websocket.NewMessage(entity, action, id, nil))
	}
}

// attachment sets the headers for a file download.
func attachment(w http.ResponseWriter, contentType, fileName string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+sanitizeFileName(fileName)+`"`)
}

func sanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '"', '\\', '\r', '\n':
			return '_'
		}
		return r
	}, name)
}
