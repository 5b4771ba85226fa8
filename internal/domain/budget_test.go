package domain

import (
	"testing"
	"time"
)

func TestBudgetIsActive(t *testing.T) {
	budget := &Budget{
		StartDate: time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"day before start", time.Date(2024, time.November, 30, 23, 59, 0, 0, time.UTC), false},
		{"first day", time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), true},
		{"mid period", time.Date(2024, time.December, 16, 12, 0, 0, 0, time.UTC), true},
		{"last day late evening", time.Date(2024, time.December, 31, 23, 30, 0, 0, time.UTC), true},
		{"day after end", time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := budget.IsActive(tt.now); got != tt.want {
				t.Errorf("IsActive(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestBudgetIsActive_SingleDay(t *testing.T) {
	day := time.Date(2024, time.December, 25, 0, 0, 0, 0, time.UTC)
	budget := &Budget{StartDate: day, EndDate: day}

	if !budget.IsActive(day.Add(9 * time.Hour)) {
		t.Error("Expected single-day budget active on its day")
	}
	if budget.IsActive(day.AddDate(0, 0, 1)) {
		t.Error("Expected single-day budget inactive the next day")
	}
}
