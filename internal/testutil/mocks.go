package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/pacerapp/pacer-backend/internal/domain"
)

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets map[uuid.UUID]*domain.Budget
	order   []uuid.UUID
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[uuid.UUID]*domain.Budget),
	}
}

// Create creates a new budget
func (m *MockBudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	budget.CreatedAt = time.Now()
	budget.UpdatedAt = budget.CreatedAt
	m.Budgets[budget.ID] = budget
	m.order = append(m.order, budget.ID)
	return budget, nil
}

// GetByID retrieves a live budget by ID
func (m *MockBudgetRepository) GetByID(userID string, id uuid.UUID) (*domain.Budget, error) {
	budget, ok := m.Budgets[id]
	if !ok || budget.UserID != userID || budget.DeletedAt != nil {
		return nil, domain.ErrBudgetNotFound
	}
	return budget, nil
}

// GetAllByUser retrieves all live budgets for a user
func (m *MockBudgetRepository) GetAllByUser(userID string) ([]*domain.Budget, error) {
	var budgets []*domain.Budget
	for _, id := range m.order {
		budget := m.Budgets[id]
		if budget.UserID == userID && budget.DeletedAt == nil {
			budgets = append(budgets, budget)
		}
	}
	return budgets, nil
}

// Update updates an existing budget
func (m *MockBudgetRepository) Update(budget *domain.Budget) (*domain.Budget, error) {
	existing, ok := m.Budgets[budget.ID]
	if !ok || existing.UserID != budget.UserID || existing.DeletedAt != nil {
		return nil, domain.ErrBudgetNotFound
	}
	budget.UpdatedAt = time.Now()
	m.Budgets[budget.ID] = budget
	return budget, nil
}

// SoftDelete marks a budget deleted
func (m *MockBudgetRepository) SoftDelete(userID string, id uuid.UUID) error {
	budget, ok := m.Budgets[id]
	if !ok || budget.UserID != userID || budget.DeletedAt != nil {
		return domain.ErrBudgetNotFound
	}
	now := time.Now()
	budget.DeletedAt = &now
	return nil
}

// AddBudget adds a budget to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddBudget(budget *domain.Budget) {
	m.Budgets[budget.ID] = budget
	m.order = append(m.order, budget.ID)
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[uuid.UUID]*domain.Category
	order      []uuid.UUID
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[uuid.UUID]*domain.Category),
	}
}

// Create creates a new category
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	m.Categories[category.ID] = category
	m.order = append(m.order, category.ID)
	return category, nil
}

// GetByID retrieves a live category by ID
func (m *MockCategoryRepository) GetByID(userID string, id uuid.UUID) (*domain.Category, error) {
	category, ok := m.Categories[id]
	if !ok || category.UserID != userID || category.DeletedAt != nil {
		return nil, domain.ErrCategoryNotFound
	}
	return category, nil
}

// GetAllByUser retrieves all live categories for a user in creation order
func (m *MockCategoryRepository) GetAllByUser(userID string) ([]*domain.Category, error) {
	var categories []*domain.Category
	for _, id := range m.order {
		category := m.Categories[id]
		if category.UserID == userID && category.DeletedAt == nil {
			categories = append(categories, category)
		}
	}
	return categories, nil
}

// Update updates an existing category
func (m *MockCategoryRepository) Update(category *domain.Category) (*domain.Category, error) {
	existing, ok := m.Categories[category.ID]
	if !ok || existing.UserID != category.UserID || existing.DeletedAt != nil {
		return nil, domain.ErrCategoryNotFound
	}
	category.UpdatedAt = time.Now()
	m.Categories[category.ID] = category
	return category, nil
}

// SoftDelete marks a category deleted
func (m *MockCategoryRepository) SoftDelete(userID string, id uuid.UUID) error {
	category, ok := m.Categories[id]
	if !ok || category.UserID != userID || category.DeletedAt != nil {
		return domain.ErrCategoryNotFound
	}
	now := time.Now()
	category.DeletedAt = &now
	return nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	m.Categories[category.ID] = category
	m.order = append(m.order, category.ID)
}

// MockAllocationRepository is a mock implementation of domain.AllocationRepository
type MockAllocationRepository struct {
	Allocations map[uuid.UUID]*domain.Allocation
	order       []uuid.UUID
}

// NewMockAllocationRepository creates a new MockAllocationRepository
func NewMockAllocationRepository() *MockAllocationRepository {
	return &MockAllocationRepository{
		Allocations: make(map[uuid.UUID]*domain.Allocation),
	}
}

// Create creates a new allocation
func (m *MockAllocationRepository) Create(allocation *domain.Allocation) (*domain.Allocation, error) {
	if allocation.ID == uuid.Nil {
		allocation.ID = uuid.New()
	}
	allocation.CreatedAt = time.Now()
	allocation.UpdatedAt = allocation.CreatedAt
	m.Allocations[allocation.ID] = allocation
	m.order = append(m.order, allocation.ID)
	return allocation, nil
}

// GetByID retrieves an allocation by ID
func (m *MockAllocationRepository) GetByID(userID string, id uuid.UUID) (*domain.Allocation, error) {
	allocation, ok := m.Allocations[id]
	if !ok || allocation.UserID != userID {
		return nil, domain.ErrAllocationNotFound
	}
	return allocation, nil
}

// GetByBudget retrieves all allocations for one budget in creation order
func (m *MockAllocationRepository) GetByBudget(userID string, budgetID uuid.UUID) ([]*domain.Allocation, error) {
	var allocations []*domain.Allocation
	for _, id := range m.order {
		allocation := m.Allocations[id]
		if allocation.UserID == userID && allocation.BudgetID == budgetID {
			allocations = append(allocations, allocation)
		}
	}
	return allocations, nil
}

// GetAllByUser retrieves all allocations for a user in creation order
func (m *MockAllocationRepository) GetAllByUser(userID string) ([]*domain.Allocation, error) {
	var allocations []*domain.Allocation
	for _, id := range m.order {
		allocation := m.Allocations[id]
		if allocation.UserID == userID {
			allocations = append(allocations, allocation)
		}
	}
	return allocations, nil
}

// Update updates an existing allocation
func (m *MockAllocationRepository) Update(allocation *domain.Allocation) (*domain.Allocation, error) {
	existing, ok := m.Allocations[allocation.ID]
	if !ok || existing.UserID != allocation.UserID {
		return nil, domain.ErrAllocationNotFound
	}
	allocation.UpdatedAt = time.Now()
	m.Allocations[allocation.ID] = allocation
	return allocation, nil
}

// Delete removes an allocation
func (m *MockAllocationRepository) Delete(userID string, id uuid.UUID) error {
	allocation, ok := m.Allocations[id]
	if !ok || allocation.UserID != userID {
		return domain.ErrAllocationNotFound
	}
	delete(m.Allocations, id)
	for i, aid := range m.order {
		if aid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// AddAllocation adds an allocation to the mock repository (helper for tests)
func (m *MockAllocationRepository) AddAllocation(allocation *domain.Allocation) {
	m.Allocations[allocation.ID] = allocation
	m.order = append(m.order, allocation.ID)
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
	order        []uuid.UUID
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = transaction.CreatedAt
	m.Transactions[transaction.ID] = transaction
	m.order = append(m.order, transaction.ID)
	return transaction, nil
}

// GetByID retrieves a live transaction by ID
func (m *MockTransactionRepository) GetByID(userID string, id uuid.UUID) (*domain.Transaction, error) {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID || transaction.DeletedAt != nil {
		return nil, domain.ErrTransactionNotFound
	}
	return transaction, nil
}

// GetByUser retrieves a filtered, paginated page of transactions
func (m *MockTransactionRepository) GetByUser(userID string, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if filters == nil {
		filters = &domain.TransactionFilters{}
	}
	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	if pageSize > domain.MaxPageSize {
		pageSize = domain.MaxPageSize
	}

	var matched []*domain.Transaction
	for _, id := range m.order {
		t := m.Transactions[id]
		if t.UserID != userID || t.DeletedAt != nil {
			continue
		}
		if filters.StartDate != nil && t.TransactionDate.Before(*filters.StartDate) {
			continue
		}
		if filters.EndDate != nil && t.TransactionDate.After(*filters.EndDate) {
			continue
		}
		if filters.Type != nil && t.Type != *filters.Type {
			continue
		}
		if filters.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *filters.CategoryID) {
			continue
		}
		if filters.BudgetID != nil && (t.BudgetID == nil || *t.BudgetID != *filters.BudgetID) {
			continue
		}
		matched = append(matched, t)
	}

	totalItems := int64(len(matched))
	totalPages := int32(0)
	if totalItems > 0 {
		totalPages = int32((totalItems + int64(pageSize) - 1) / int64(pageSize))
	}

	start := int((page - 1) * pageSize)
	if start > len(matched) {
		start = len(matched)
	}
	end := start + int(pageSize)
	if end > len(matched) {
		end = len(matched)
	}

	return &domain.PaginatedTransactions{
		Data:       matched[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// GetByDateRange retrieves all live transactions dated within [start, end]
func (m *MockTransactionRepository) GetByDateRange(userID string, start, end time.Time) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	for _, id := range m.order {
		t := m.Transactions[id]
		if t.UserID != userID || t.DeletedAt != nil {
			continue
		}
		if t.TransactionDate.Before(start) || t.TransactionDate.After(end) {
			continue
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}

// GetAllByUser retrieves all live transactions for a user
func (m *MockTransactionRepository) GetAllByUser(userID string) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	for _, id := range m.order {
		t := m.Transactions[id]
		if t.UserID == userID && t.DeletedAt == nil {
			transactions = append(transactions, t)
		}
	}
	return transactions, nil
}

// Update updates an existing transaction
func (m *MockTransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	existing, ok := m.Transactions[transaction.ID]
	if !ok || existing.UserID != transaction.UserID || existing.DeletedAt != nil {
		return nil, domain.ErrTransactionNotFound
	}
	transaction.UpdatedAt = time.Now()
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// SetReceiptPath stores or clears the receipt object path
func (m *MockTransactionRepository) SetReceiptPath(userID string, id uuid.UUID, receiptPath *string) error {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID || transaction.DeletedAt != nil {
		return domain.ErrTransactionNotFound
	}
	transaction.ReceiptPath = receiptPath
	return nil
}

// SoftDelete marks a transaction deleted
func (m *MockTransactionRepository) SoftDelete(userID string, id uuid.UUID) error {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID || transaction.DeletedAt != nil {
		return domain.ErrTransactionNotFound
	}
	now := time.Now()
	transaction.DeletedAt = &now
	return nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	m.Transactions[transaction.ID] = transaction
	m.order = append(m.order, transaction.ID)
}
