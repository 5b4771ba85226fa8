package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pacerapp/pacer-backend/internal/domain"
	"github.com/pacerapp/pacer-backend/internal/testutil"
	"github.com/pacerapp/pacer-backend/internal/websocket"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// capturePublisher records published events for assertions
type capturePublisher struct {
	mu     sync.Mutex
	events []websocket.Event
	users  []string
}

func (p *capturePublisher) Publish(userID string, event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users = append(p.users, userID)
	p.events = append(p.events, event)
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func newRefresherFixture(debounce time.Duration) (*ReportRefresher, *capturePublisher, *testutil.MockBudgetRepository) {
	budgetRepo := testutil.NewMockBudgetRepository()
	reports := NewReportService(budgetRepo, testutil.NewMockCategoryRepository(),
		testutil.NewMockAllocationRepository(), testutil.NewMockTransactionRepository(),
		NewBARCalculator(DefaultCurveFactor))
	publisher := &capturePublisher{}
	refresher := NewReportRefresher(reports, publisher, zerolog.Nop(), debounce)
	return refresher, publisher, budgetRepo
}

func TestReportRefresher_CoalescesBurst(t *testing.T) {
	refresher, publisher, budgetRepo := newRefresherFixture(30 * time.Millisecond)

	now := time.Now().UTC()
	budgetRepo.AddBudget(&domain.Budget{
		ID: uuid.New(), UserID: testUserID, Name: "Current", Amount: decimal.NewFromInt(100),
		StartDate: now.AddDate(0, 0, -5), EndDate: now.AddDate(0, 0, 5),
	})

	refresher.Start(context.Background())
	defer refresher.Stop()

	// A burst of notifications inside one debounce window yields one pass
	for i := 0; i < 10; i++ {
		refresher.Notify(testUserID)
	}

	deadline := time.After(500 * time.Millisecond)
	for publisher.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("Expected a published refresh before the deadline")
		case <-time.After(10 * time.Millisecond):
		}
	}

	// Allow a second window to pass; no further notifications means no
	// further publishes
	time.Sleep(100 * time.Millisecond)
	if got := publisher.count(); got != 1 {
		t.Errorf("Expected 1 coalesced refresh, got %d", got)
	}

	publisher.mu.Lock()
	event := publisher.events[0]
	publisher.mu.Unlock()
	if event.Type != "report.refreshed" || event.Entity != websocket.EntityTypeReport {
		t.Errorf("Expected report.refreshed event, got %s", event.Type)
	}
}

func TestReportRefresher_SeparateUsersRefreshedSeparately(t *testing.T) {
	refresher, publisher, budgetRepo := newRefresherFixture(20 * time.Millisecond)

	now := time.Now().UTC()
	for _, userID := range []string{"auth0|a", "auth0|b"} {
		budgetRepo.AddBudget(&domain.Budget{
			ID: uuid.New(), UserID: userID, Amount: decimal.NewFromInt(100),
			StartDate: now.AddDate(0, 0, -1), EndDate: now.AddDate(0, 0, 1),
		})
	}

	refresher.Start(context.Background())
	defer refresher.Stop()

	refresher.Notify("auth0|a")
	refresher.Notify("auth0|b")

	deadline := time.After(500 * time.Millisecond)
	for publisher.count() < 2 {
		select {
		case <-deadline:
			t.Fatalf("Expected 2 published refreshes, got %d", publisher.count())
		case <-time.After(10 * time.Millisecond):
		}
	}

	publisher.mu.Lock()
	users := map[string]bool{}
	for _, u := range publisher.users {
		users[u] = true
	}
	publisher.mu.Unlock()
	if !users["auth0|a"] || !users["auth0|b"] {
		t.Errorf("Expected refreshes for both users, got %v", users)
	}
}

func TestReportRefresher_StartStopLifecycle(t *testing.T) {
	refresher, _, _ := newRefresherFixture(10 * time.Millisecond)

	if refresher.IsRunning() {
		t.Error("Expected refresher not running before Start")
	}

	refresher.Start(context.Background())
	if !refresher.IsRunning() {
		t.Error("Expected refresher running after Start")
	}

	// Second Start is a no-op
	refresher.Start(context.Background())

	refresher.Stop()
	if refresher.IsRunning() {
		t.Error("Expected refresher stopped after Stop")
	}

	// Second Stop is a no-op
	refresher.Stop()
}

func TestReportRefresher_NotifyNeverBlocks(t *testing.T) {
	refresher, _, _ := newRefresherFixture(10 * time.Millisecond)

	// Not started: the queue fills and overflow is dropped without blocking
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			refresher.Notify(testUserID)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full queue")
	}
}

func TestNoOpInvalidator(t *testing.T) {
	// Must be safe to call with no wiring at all
	NoOpInvalidator{}.Notify(testUserID)
}
