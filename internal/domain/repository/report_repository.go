package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SalesSummaryResult aggregates completed sales over a period
type SalesSummaryResult struct {
	Revenue          float64
	TransactionCount int
	ItemsSold        int
	AverageSale      float64
}

// ProductSalesResult represents a product's sales performance
type ProductSalesResult struct {
	ProductID    uuid.UUID
	ProductName  string
	QuantitySold int
	Revenue      float64
}

// CashierSalesResult represents sales aggregated by cashier
type CashierSalesResult struct {
	CashierID        uuid.UUID
	CashierName      string
	TransactionCount int
	Revenue          float64
}

// PaymentMethodSalesResult represents sales aggregated by payment method
type PaymentMethodSalesResult struct {
	PaymentMethod    string
	TransactionCount int
	Revenue          float64
	Percentage       float64
}

// DailySalesResult represents sales data for a single day
type DailySalesResult struct {
	Date    time.Time
	Revenue float64
}

// ReportRepository defines interface for sales aggregation queries
type ReportRepository interface {
	// GetSalesSummary returns totals for completed sales in the date range
	GetSalesSummary(ctx context.Context, start, end time.Time) (*SalesSummaryResult, error)

	// GetSalesByProduct returns per-product sales in the date range, best sellers first
	GetSalesByProduct(ctx context.Context, start, end time.Time, limit int) ([]ProductSalesResult, error)

	// GetSalesByCashier returns per-cashier sales in the date range
	GetSalesByCashier(ctx context.Context, start, end time.Time) ([]CashierSalesResult, error)

	// GetSalesByPaymentMethod returns sales split by payment method with percentages
	GetSalesByPaymentMethod(ctx context.Context, start, end time.Time) ([]PaymentMethodSalesResult, error)

	// GetDailySales returns daily revenue for the last N days
	GetDailySales(ctx context.Context, days int) ([]DailySalesResult, error)
}
