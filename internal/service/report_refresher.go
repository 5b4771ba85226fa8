package service

import (
	"context"
	"sync"
	"time"

	"github.com/pacerapp/pacer-backend/internal/websocket"
	"github.com/rs/zerolog"
)

// ReportInvalidator receives change notifications from the CRUD services.
// Implementations must not block the caller.
type ReportInvalidator interface {
	Notify(userID string)
}

// NoOpInvalidator discards notifications (for tests and tools that don't run
// the refresher).
type NoOpInvalidator struct{}

// Notify does nothing
func (NoOpInvalidator) Notify(userID string) {}

// DefaultReportDebounce coalesces bursts of change notifications before a
// recomputation pass. A full pass is O(active budgets x transactions), so
// re-running on every single write would be wasted work during seeding or
// batch edits.
const DefaultReportDebounce = 200 * time.Millisecond

// ReportRefresher is a background worker that rebuilds a user's active budget
// reports after their data changes, coalescing notification bursts within a
// debounce window, and publishes the rebuilt set to the user's WebSocket
// clients.
type ReportRefresher struct {
	reports   *ReportService
	publisher websocket.EventPublisher
	logger    zerolog.Logger
	debounce  time.Duration
	notifyCh  chan string
	stopCh    chan struct{}
	doneCh    chan struct{}
	mu        sync.Mutex
	running   bool
}

// NewReportRefresher creates a new ReportRefresher
func NewReportRefresher(
	reports *ReportService,
	publisher websocket.EventPublisher,
	logger zerolog.Logger,
	debounce time.Duration,
) *ReportRefresher {
	if debounce <= 0 {
		debounce = DefaultReportDebounce
	}

	return &ReportRefresher{
		reports:   reports,
		publisher: publisher,
		logger:    logger.With().Str("component", "report_refresher").Logger(),
		debounce:  debounce,
		notifyCh:  make(chan string, 64),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Notify marks a user's reports dirty. Non-blocking: when the queue is full
// the notification is dropped, which is safe because any later change will
// re-notify and a pass rebuilds everything from scratch anyway.
func (w *ReportRefresher) Notify(userID string) {
	select {
	case w.notifyCh <- userID:
	default:
		w.logger.Warn().Str("user_id", userID).Msg("Refresh queue full, dropping notification")
	}
}

// Start begins the background refresh loop
func (w *ReportRefresher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().Dur("debounce", w.debounce).Msg("Starting report refresher")

	go w.run(ctx)
}

// Stop gracefully stops the refresher
func (w *ReportRefresher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping report refresher")
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info().Msg("Report refresher stopped")
}

// IsRunning returns whether the refresher is currently running
func (w *ReportRefresher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// run is the main loop: collect dirty users until the debounce window fires,
// then rebuild each dirty user's reports once.
func (w *ReportRefresher) run(ctx context.Context) {
	defer close(w.doneCh)

	dirty := make(map[string]bool)
	var flush <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.setStopped()
			return
		case <-w.stopCh:
			w.setStopped()
			return
		case userID := <-w.notifyCh:
			dirty[userID] = true
			if flush == nil {
				flush = time.After(w.debounce)
			}
		case <-flush:
			flush = nil
			for userID := range dirty {
				delete(dirty, userID)
				w.refresh(userID)
			}
		}
	}
}

func (w *ReportRefresher) setStopped() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

// refresh rebuilds one user's active reports and publishes the result.
func (w *ReportRefresher) refresh(userID string) {
	startTime := time.Now()

	reports, err := w.reports.ActiveReports(userID, time.Now())
	if err != nil {
		w.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to rebuild reports")
		return
	}

	w.publisher.Publish(userID, websocket.ReportRefreshed(reports))

	w.logger.Debug().
		Str("user_id", userID).
		Int("reports", len(reports)).
		Dur("elapsed", time.Since(startTime)).
		Msg("Rebuilt reports")
}
