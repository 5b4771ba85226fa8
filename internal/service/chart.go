package service

import (
	"github.com/google/uuid"
	"github.com/pacerapp/pacer-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// BuildChartData joins allocations, transactions, and categories into one
// budgeted-vs-spent datum per category. Every category in the input list gets
// exactly one datum, in input order, zero-filled when it has neither an
// allocation nor spend. Category IDs referenced by an allocation or debit
// transaction but missing from the list are appended as "Unknown Category"
// sentinel entries so their amounts are never silently dropped.
//
// Pure transform: no I/O, no shared state, structurally equal output for equal
// inputs.
func BuildChartData(allocations []*domain.Allocation, transactions []*domain.Transaction, categories []*domain.Category) []domain.ChartDatum {
	allocated := make(map[uuid.UUID]decimal.Decimal)
	for _, a := range allocations {
		allocated[a.CategoryID] = allocated[a.CategoryID].Add(a.Amount)
	}

	spent := make(map[uuid.UUID]decimal.Decimal)
	for _, t := range transactions {
		if !t.IsSpend() || t.CategoryID == nil {
			continue
		}
		spent[*t.CategoryID] = spent[*t.CategoryID].Add(t.Amount)
	}

	data := make([]domain.ChartDatum, 0, len(categories))
	known := make(map[uuid.UUID]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = true
		data = append(data, domain.ChartDatum{
			CategoryID:        c.ID,
			CategoryName:      c.Name,
			CategoryIconName:  c.IconName,
			AllocationAmount:  amountOrZero(allocated, c.ID),
			TransactionAmount: amountOrZero(spent, c.ID),
		})
	}

	// Dangling references degrade to sentinel entries, in first-seen order.
	for _, id := range danglingCategoryIDs(allocations, transactions, known) {
		data = append(data, domain.ChartDatum{
			CategoryID:        id,
			CategoryName:      domain.UnknownCategoryName,
			AllocationAmount:  amountOrZero(allocated, id),
			TransactionAmount: amountOrZero(spent, id),
		})
	}

	return data
}

func danglingCategoryIDs(allocations []*domain.Allocation, transactions []*domain.Transaction, known map[uuid.UUID]bool) []uuid.UUID {
	var ids []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for _, a := range allocations {
		if !known[a.CategoryID] && !seen[a.CategoryID] {
			seen[a.CategoryID] = true
			ids = append(ids, a.CategoryID)
		}
	}
	for _, t := range transactions {
		if !t.IsSpend() || t.CategoryID == nil {
			continue
		}
		if !known[*t.CategoryID] && !seen[*t.CategoryID] {
			seen[*t.CategoryID] = true
			ids = append(ids, *t.CategoryID)
		}
	}
	return ids
}

func amountOrZero(m map[uuid.UUID]decimal.Decimal, id uuid.UUID) decimal.Decimal {
	if v, ok := m[id]; ok {
		return v
	}
	return decimal.Zero
}
