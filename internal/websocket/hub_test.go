package websocket

import (
	"sync"
	"testing"
	"time"
)

// fakeClient implements ClientInterface for hub tests
type fakeClient struct {
	id     string
	userID string

	mu   sync.Mutex
	sent [][]byte
}

func (c *fakeClient) ID() string     { return c.id }
func (c *fakeClient) UserID() string { return c.userID }
func (c *fakeClient) Close() error   { return nil }

func (c *fakeClient) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, data)
	return nil
}

func (c *fakeClient) sentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	client := &fakeClient{id: "c1", userID: "auth0|user-1"}

	hub.Register(client)
	if got := hub.ClientCount("auth0|user-1"); got != 1 {
		t.Errorf("Expected 1 client, got %d", got)
	}

	hub.Unregister(client)
	if got := hub.ClientCount("auth0|user-1"); got != 0 {
		t.Errorf("Expected 0 clients after unregister, got %d", got)
	}
}

func TestHubUnregisterUnknownClient(t *testing.T) {
	hub := NewHub()

	// Must not panic
	hub.Unregister(&fakeClient{id: "ghost", userID: "auth0|user-1"})
}

func TestHubBroadcastOnlyReachesOwner(t *testing.T) {
	hub := NewHub()

	mine := &fakeClient{id: "c1", userID: "auth0|user-1"}
	mineToo := &fakeClient{id: "c2", userID: "auth0|user-1"}
	theirs := &fakeClient{id: "c3", userID: "auth0|user-2"}

	hub.Register(mine)
	hub.Register(mineToo)
	hub.Register(theirs)

	hub.Broadcast("auth0|user-1", BudgetCreated(map[string]string{"id": "b1"}))

	// Sends are asynchronous
	deadline := time.After(time.Second)
	for mine.sentCount() == 0 || mineToo.sentCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("Expected both of the owner's clients to receive the event")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if theirs.sentCount() != 0 {
		t.Errorf("Expected other user's client to receive nothing, got %d", theirs.sentCount())
	}
}

func TestHubBroadcastNoClients(t *testing.T) {
	hub := NewHub()

	// Must not panic or block
	hub.Broadcast("auth0|nobody", BudgetUpdated(nil))
}

func TestHubTotalClientCount(t *testing.T) {
	hub := NewHub()

	hub.Register(&fakeClient{id: "c1", userID: "auth0|user-1"})
	hub.Register(&fakeClient{id: "c2", userID: "auth0|user-2"})

	if got := hub.TotalClientCount(); got != 2 {
		t.Errorf("Expected 2 total clients, got %d", got)
	}
}

func TestHubConcurrentAccess(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			client := &fakeClient{id: string(rune('a' + n)), userID: "auth0|user-1"}
			hub.Register(client)
			hub.Broadcast("auth0|user-1", TransactionCreated(nil))
			hub.Unregister(client)
		}(i)
	}
	wg.Wait()

	if got := hub.ClientCount("auth0|user-1"); got != 0 {
		t.Errorf("Expected 0 clients after all unregistered, got %d", got)
	}
}
