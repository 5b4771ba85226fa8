package websocket

import (
	"encoding/json"
	"testing"
)

func TestNewEventCombinesType(t *testing.T) {
	event := NewEvent(EventTypeCreated, EntityTypeTransaction, nil)

	if event.Type != "transaction.created" {
		t.Errorf("Expected type transaction.created, got %s", event.Type)
	}
	if event.Entity != EntityTypeTransaction {
		t.Errorf("Expected entity transaction, got %s", event.Entity)
	}
	if event.Timestamp.IsZero() {
		t.Error("Expected timestamp to be set")
	}
}

func TestEventConstructors(t *testing.T) {
	tests := []struct {
		event    Event
		wantType string
	}{
		{BudgetCreated(nil), "budget.created"},
		{BudgetUpdated(nil), "budget.updated"},
		{BudgetDeleted(nil), "budget.deleted"},
		{CategoryDeleted(nil), "category.deleted"},
		{AllocationCreated(nil), "allocation.created"},
		{TransactionUpdated(nil), "transaction.updated"},
		{ReportRefreshed(nil), "report.refreshed"},
	}

	for _, tt := range tests {
		if tt.event.Type != tt.wantType {
			t.Errorf("Expected type %s, got %s", tt.wantType, tt.event.Type)
		}
	}
}

func TestEventToJSON(t *testing.T) {
	event := BudgetCreated(map[string]string{"id": "b1", "name": "December"})

	data, err := event.ToJSON()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}

	for _, field := range []string{"type", "entity", "payload", "timestamp"} {
		if _, ok := decoded[field]; !ok {
			t.Errorf("Expected field %q in serialized event", field)
		}
	}
}
