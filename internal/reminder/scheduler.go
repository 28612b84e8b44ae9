package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/custodykeeper/internal/api"
	"github.com/dukerupert/custodykeeper/internal/recurrence"
	"github.com/dukerupert/custodykeeper/internal/store"
	"github.com/dukerupert/custodykeeper/internal/websocket"
)

// Session is the part of session.Manager the scheduler needs.
type Session interface {
	SignedIn() bool
	Client() (*api.Client, error)
}

// Broadcaster delivers reminder messages, normally a *websocket.Hub.
type Broadcaster interface {
	Broadcast(websocket.Message)
}

// retention bounds how long sent reminders are remembered.
const retention = 7 * 24 * time.Hour

type Config struct {
	Interval time.Duration
	Window   time.Duration
	Options  recurrence.Options
}

// Scheduler polls the calendar while a session is active and broadcasts
// each upcoming occurrence once.
type Scheduler struct {
	mu      sync.RWMutex
	session Session
	sent    *store.ReminderLog
	out     Broadcaster
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewScheduler(sess Session, sent *store.ReminderLog, out Broadcaster, cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	return &Scheduler{
		session: sess,
		sent:    sent,
		out:     out,
		cfg:     cfg,
		logger:  logger.With("component", "reminder"),
		now:     time.Now,
	}
}

// Start runs a check immediately and then on every interval until ctx is
// cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()

		s.Check(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Check(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Check fetches the calendar and broadcasts reminders that have not been
// sent yet. It returns the number broadcast.
func (s *Scheduler) Check(ctx context.Context) int {
	if !s.session.SignedIn() {
		return 0
	}
	client, err := s.session.Client()
	if err != nil {
		return 0
	}
	events, err := client.ListEvents(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("list events", "error", err)
		}
		return 0
	}

	now := s.now()
	if _, err := s.sent.Prune(now.Add(-retention)); err != nil {
		s.logger.Warn("prune reminder log", "error", err)
	}

	sent := 0
	for _, r := range Upcoming(events, now, s.cfg.Window, s.cfg.Options) {
		id, date := r.Key()
		fresh, err := s.sent.MarkSent(id, date)
		if err != nil {
			s.logger.Error("record reminder", "event_id", id, "error", err)
			continue
		}
		if !fresh {
			continue
		}
		title, body := Format(r)
		s.out.Broadcast(websocket.NewReminder(r.Event.EventID, date, title, body))
		s.logger.Info("reminder sent", "event_id", id, "date", date, "hours", r.Hours)
		sent++
	}
	return sent
}
