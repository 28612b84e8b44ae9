package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/custodykeeper/internal/logging"
	"github.com/dukerupert/custodykeeper/internal/reminder"
	"github.com/dukerupert/custodykeeper/internal/server"
	"github.com/dukerupert/custodykeeper/internal/store"
	"github.com/dukerupert/custodykeeper/internal/websocket"
	"github.com/spf13/cobra"
)

var (
	servePort   string
	noReminders bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local JSON gateway",
	Long: `Serve the CustodyKeeper JSON API, the change notification websocket and
the reminder scheduler until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Listen port (default from CUSTODYKEEPER_PORT)")
	serveCmd.Flags().BoolVar(&noReminders, "no-reminders", false, "Disable the reminder scheduler")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	if servePort != "" {
		a.cfg.Port = servePort
	}

	hub := websocket.NewHub(a.logger)
	a.sess.OnLogout(func() { hub.CloseAll("signed out", websocket.SignedOut()) })

	var scheduler *reminder.Scheduler
	if !noReminders {
		sent := store.NewReminderLog(a.db)
		scheduler = reminder.NewScheduler(a.sess, sent, hub, reminder.Config{
			Interval: a.cfg.ReminderInterval,
			Window:   a.cfg.ReminderWindow,
			Options:  a.recurrence(),
		}, a.logger)
		a.sess.OnLogout(func() {
			if err := sent.Clear(); err != nil {
				a.logger.Error("clear reminder log", "error", err)
			}
		})
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	srv := server.New(a.sess, hub, scheduler, server.Config{
		Recurrence:       a.recurrence(),
		ReminderWindow:   a.cfg.ReminderWindow,
		WebSocketOrigins: a.cfg.AllowedOrigins,
		Archiver:         a.archiver(),
	}, a.logger)
	go srv.RateLimiter().RunCleanup(ctx, 5*time.Minute)

	httpServer := &http.Server{
		Addr:         a.cfg.Addr(),
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log := logging.Component(a.logger, "http")
		log.Info("CustodyKeeper running", "url", fmt.Sprintf("http://localhost:%s", a.cfg.Port), "signed_in", a.sess.SignedIn())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}
