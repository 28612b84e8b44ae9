package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/dukerupert/custodykeeper/internal/api"
	"github.com/dukerupert/custodykeeper/internal/archive"
	"github.com/dukerupert/custodykeeper/internal/config"
	"github.com/dukerupert/custodykeeper/internal/database"
	"github.com/dukerupert/custodykeeper/internal/logging"
	"github.com/dukerupert/custodykeeper/internal/recurrence"
	"github.com/dukerupert/custodykeeper/internal/secure"
	"github.com/dukerupert/custodykeeper/internal/session"
	"github.com/dukerupert/custodykeeper/internal/store"
	"github.com/spf13/cobra"
)

var (
	envFile  string
	logLevel string
	dbPath   string
)

var rootCmd = &cobra.Command{
	Use:   "custodykeeper",
	Short: "Family court record keeping client",
	Long: `CustodyKeeper keeps journals, violation logs, calendar events, documents
and contacts in the CustodyKeeper backend and produces court-ready PDFs.

Run "custodykeeper serve" for the local JSON gateway, or use the other
commands directly from the terminal.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load (missing is fine)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Client state database path")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(archiveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds what every command shares once configuration is loaded.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	db     *sql.DB
	sess   *session.Manager
}

// openApp loads configuration, opens the state database and restores the
// persisted session.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if err := cfg.RequireBackend(); err != nil {
		return nil, err
	}

	logger := logging.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	client := api.New(cfg.APIBase(),
		api.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		api.WithLogger(logging.Component(logger, "api")),
	)
	sess := session.NewManager(store.NewStateStore(db), secure.NewSealer(cfg.StateKey), client, logger)
	if err := sess.Init(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	return &app{cfg: cfg, logger: logger, db: db, sess: sess}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) recurrence() recurrence.Options {
	return recurrence.Options{HorizonMonths: a.cfg.HorizonMonths}
}

// client returns the authenticated client or a message telling the user
// to log in.
func (a *app) client() (*api.Client, error) {
	c, err := a.sess.Client()
	if err != nil {
		return nil, fmt.Errorf("not signed in, run \"custodykeeper login\" first")
	}
	return c, nil
}

func (a *app) archiver() *archive.Archiver {
	c := a.cfg.Archive
	return archive.New(archive.Config{
		Endpoint:   c.Endpoint,
		Bucket:     c.Bucket,
		Region:     c.Region,
		AccessKey:  c.AccessKey,
		SecretKey:  c.SecretKey,
		Passphrase: c.Passphrase,
		Keep:       c.Keep,
	}, store.NewArchiveStore(a.db), a.logger)
}
