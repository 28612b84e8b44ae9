package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/custodykeeper/internal/archive"
	"github.com/dukerupert/custodykeeper/internal/handler"
	"github.com/dukerupert/custodykeeper/internal/middleware"
	"github.com/dukerupert/custodykeeper/internal/recurrence"
	"github.com/dukerupert/custodykeeper/internal/reminder"
	"github.com/dukerupert/custodykeeper/internal/session"
	ws "github.com/dukerupert/custodykeeper/internal/websocket"
)

// Config carries the settings the routes need.
type Config struct {
	Recurrence     recurrence.Options
	ReminderWindow time.Duration
	// WebSocketOrigins are extra host patterns allowed to open /ws.
	WebSocketOrigins []string
	// Archiver may be nil; the archive routes then answer 503.
	Archiver *archive.Archiver
}

type Server struct {
	sess        *session.Manager
	hub         *ws.Hub
	scheduler   *reminder.Scheduler
	cfg         Config
	authH       *handler.AuthHandler
	childH      *handler.ChildHandler
	journalH    *handler.JournalHandler
	violationH  *handler.ViolationHandler
	calendarH   *handler.CalendarEventHandler
	documentH   *handler.DocumentHandler
	contactH    *handler.ContactHandler
	shareH      *handler.ShareHandler
	timelineH   *handler.TimelineHandler
	dashboardH  *handler.DashboardHandler
	transferH   *handler.TransferHandler
	settingsH   *handler.SettingsHandler
	reminderH   *handler.ReminderHandler
	archiveH    *handler.ArchiveHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

// New wires every handler. scheduler may be nil when reminders are off.
func New(sess *session.Manager, hub *ws.Hub, scheduler *reminder.Scheduler, cfg Config, logger *slog.Logger) *Server {
	return &Server{
		sess:        sess,
		hub:         hub,
		scheduler:   scheduler,
		cfg:         cfg,
		authH:       handler.NewAuthHandler(sess, logger.With("component", "auth")),
		childH:      handler.NewChildHandler(hub, logger.With("component", "child")),
		journalH:    handler.NewJournalHandler(hub, logger.With("component", "journal")),
		violationH:  handler.NewViolationHandler(hub, logger.With("component", "violation")),
		calendarH:   handler.NewCalendarEventHandler(hub, cfg.Recurrence, logger.With("component", "calendar")),
		documentH:   handler.NewDocumentHandler(hub, logger.With("component", "document")),
		contactH:    handler.NewContactHandler(hub, logger.With("component", "contact")),
		shareH:      handler.NewShareHandler(sess, hub, logger.With("component", "share")),
		timelineH:   handler.NewTimelineHandler(logger.With("component", "timeline")),
		dashboardH:  handler.NewDashboardHandler(sess, logger.With("component", "dashboard")),
		transferH:   handler.NewTransferHandler(hub, cfg.Recurrence, logger.With("component", "transfer")),
		settingsH:   handler.NewSettingsHandler(sess, hub, logger.With("component", "settings")),
		reminderH:   handler.NewReminderHandler(scheduler, cfg.Recurrence, cfg.ReminderWindow, logger.With("component", "reminder")),
		archiveH:    handler.NewArchiveHandler(cfg.Archiver, logger.With("component", "archive")),
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no session required)
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("POST /api/auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/auth/google", s.rateLimitedHandler(s.authH.Google))
	outerMux.HandleFunc("POST /api/auth/2fa/send", s.codeLimitedHandler(s.authH.SendCode))
	outerMux.HandleFunc("POST /api/auth/2fa/verify", s.rateLimitedHandler(s.authH.VerifyCode))
	outerMux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	outerMux.HandleFunc("GET /api/shared/{token}", s.shareH.Shared)
	outerMux.HandleFunc("GET /api/state-laws", s.dashboardH.StateLaws)
	outerMux.HandleFunc("GET /api/state-laws/{state}", s.dashboardH.StateLaw)
	outerMux.HandleFunc("GET /api/settings/theme", s.settingsH.GetTheme)
	outerMux.HandleFunc("PUT /api/settings/theme", s.settingsH.SetTheme)
	outerMux.HandleFunc("POST /api/settings/theme/toggle", s.settingsH.ToggleTheme)
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes, wrapped with RequireSession
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	gate := middleware.RequireSession(s.sess)
	outerMux.Handle("/", gate(protectedMux))

	logged := middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
	return middleware.RequestID(logged)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"signed_in": s.sess.SignedIn(),
		"clients":   s.hub.ClientCount(),
	})
}

// greeting tells a freshly opened page who is signed in and which theme
// to render.
func (s *Server) greeting() ws.Message {
	extra := map[string]any{"signed_in": s.sess.SignedIn(), "theme": s.sess.Theme()}
	if user, ok := s.sess.User(); ok {
		extra["user_id"] = user.UserID
	}
	return ws.NewMessage("session", "state", "", extra)
}

// Sign-in attempts are throttled on failures only; code emails on every
// request.
var (
	signInPolicy   = middleware.Policy{Limit: 10, Window: 15 * time.Minute}
	sendCodePolicy = middleware.Policy{Limit: 5, Window: 15 * time.Minute}
)

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	return middleware.ThrottleFailures(s.rateLimiter, middleware.ByIPAndPath, signInPolicy)(h).ServeHTTP
}

func (s *Server) codeLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	return middleware.RateLimit(s.rateLimiter, middleware.ByIPAndPath, sendCodePolicy)(h).ServeHTTP
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/auth/me", s.authH.Me)
	mux.HandleFunc("PUT /api/auth/profile", s.authH.UpdateProfile)
	mux.HandleFunc("GET /api/auth/2fa", s.authH.TwoFactorStatus)
	mux.HandleFunc("PUT /api/auth/2fa", s.authH.SetTwoFactor)

	mux.HandleFunc("GET /api/children", s.childH.List)
	mux.HandleFunc("POST /api/children", s.childH.Create)
	mux.HandleFunc("PUT /api/children/{id}", s.childH.Update)
	mux.HandleFunc("DELETE /api/children/{id}", s.childH.Delete)

	mux.HandleFunc("GET /api/journals", s.journalH.List)
	mux.HandleFunc("POST /api/journals", s.journalH.Create)
	mux.HandleFunc("POST /api/journals/summary", s.journalH.Summary)
	mux.HandleFunc("GET /api/journals/{id}", s.journalH.Get)
	mux.HandleFunc("PUT /api/journals/{id}", s.journalH.Update)
	mux.HandleFunc("DELETE /api/journals/{id}", s.journalH.Delete)

	mux.HandleFunc("GET /api/violations", s.violationH.List)
	mux.HandleFunc("POST /api/violations", s.violationH.Create)
	mux.HandleFunc("GET /api/violations/{id}", s.violationH.Get)
	mux.HandleFunc("PUT /api/violations/{id}", s.violationH.Update)
	mux.HandleFunc("DELETE /api/violations/{id}", s.violationH.Delete)

	mux.HandleFunc("GET /api/calendar", s.calendarH.List)
	mux.HandleFunc("POST /api/calendar", s.calendarH.Create)
	mux.HandleFunc("GET /api/calendar/month", s.calendarH.Month)
	mux.HandleFunc("GET /api/calendar/occurrences", s.calendarH.Occurrences)
	mux.HandleFunc("PUT /api/calendar/{id}", s.calendarH.Update)
	mux.HandleFunc("POST /api/calendar/{id}/edit", s.calendarH.Edit)
	mux.HandleFunc("DELETE /api/calendar/{id}", s.calendarH.Delete)

	mux.HandleFunc("GET /api/documents", s.documentH.List)
	mux.HandleFunc("POST /api/documents", s.documentH.Upload)
	mux.HandleFunc("GET /api/documents/{id}/download", s.documentH.Download)
	mux.HandleFunc("GET /api/documents/{id}/preview", s.documentH.Preview)
	mux.HandleFunc("DELETE /api/documents/{id}", s.documentH.Delete)

	mux.HandleFunc("GET /api/contacts", s.contactH.List)
	mux.HandleFunc("POST /api/contacts", s.contactH.Create)
	mux.HandleFunc("PUT /api/contacts/{id}", s.contactH.Update)
	mux.HandleFunc("DELETE /api/contacts/{id}", s.contactH.Delete)

	mux.HandleFunc("GET /api/share/tokens", s.shareH.ListTokens)
	mux.HandleFunc("POST /api/share/tokens", s.shareH.CreateToken)
	mux.HandleFunc("DELETE /api/share/tokens/{id}", s.shareH.RevokeToken)

	mux.HandleFunc("GET /api/timeline", s.timelineH.List)
	mux.HandleFunc("GET /api/dashboard", s.dashboardH.Stats)
	mux.HandleFunc("GET /api/resources/parental-alienation", s.dashboardH.Resources)
	mux.HandleFunc("POST /api/ai/writing-assist", s.dashboardH.WritingAssist)
	mux.HandleFunc("POST /api/email/send", s.dashboardH.SendEmail)

	mux.HandleFunc("GET /api/export/journals.pdf", s.transferH.JournalsPDF)
	mux.HandleFunc("GET /api/export/violations.pdf", s.transferH.ViolationsPDF)
	mux.HandleFunc("GET /api/export/calendar.pdf", s.transferH.CalendarPDF)
	mux.HandleFunc("GET /api/export/all", s.transferH.ExportAll)
	mux.HandleFunc("GET /api/export/{kind}", s.transferH.ExportRecords)
	mux.HandleFunc("GET /api/import/{type}/template", s.transferH.ImportTemplate)
	mux.HandleFunc("POST /api/import/{type}", s.transferH.Import)

	mux.HandleFunc("GET /api/archives", s.archiveH.List)
	mux.HandleFunc("POST /api/archives", s.archiveH.Create)
	mux.HandleFunc("GET /api/archives/{id}", s.archiveH.Download)

	mux.HandleFunc("GET /api/reminders", s.reminderH.Upcoming)
	mux.HandleFunc("POST /api/reminders/check", s.reminderH.Check)

	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, ws.HandlerOptions{
		OriginPatterns: s.cfg.WebSocketOrigins,
		Greeting:       s.greeting,
	}))
}
