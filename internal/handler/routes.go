package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/pacerapp/pacer-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	budgetHandler *BudgetHandler,
	categoryHandler *CategoryHandler,
	allocationHandler *AllocationHandler,
	transactionHandler *TransactionHandler,
	reportHandler *ReportHandler,
	wsHandler *WebSocketHandler,
) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Budget routes
	budgets := api.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	// Category routes
	categories := api.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Allocation routes
	allocations := api.Group("/allocations")
	allocations.POST("", allocationHandler.CreateAllocation)
	allocations.GET("", allocationHandler.GetAllocations)
	allocations.PUT("/:id", allocationHandler.UpdateAllocation)
	allocations.DELETE("/:id", allocationHandler.DeleteAllocation)

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	transactions.POST("/:id/receipt", transactionHandler.AttachReceipt)
	transactions.GET("/:id/receipt", transactionHandler.GetReceiptURL)
	transactions.DELETE("/:id/receipt", transactionHandler.RemoveReceipt)

	// Report routes
	reports := api.Group("/reports")
	reports.GET("", reportHandler.GetReports)
	reports.GET("/overview/:year/:month", reportHandler.GetMonthlyOverview)
	reports.GET("/:budgetId", reportHandler.GetReport)

	// WebSocket endpoint authenticates via query parameter, not the
	// Authorization header
	e.GET("/ws", wsHandler.HandleWS)
}
