package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domainRepo "github.com/ausadhi/pos-api/internal/domain/repository"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) GetSalesSummary(ctx context.Context, start, end time.Time) (*domainRepo.SalesSummaryResult, error) {
	var result domainRepo.SalesSummaryResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(s.total), 0) / 100.0 as revenue,
			COUNT(s.id) as transaction_count,
			COALESCE(SUM(s.total_items), 0) as items_sold
		FROM sales s
		WHERE s.status = 'completed'
			AND s.deleted_at IS NULL
			AND s.sale_date BETWEEN ? AND ?
	`, start, end).Scan(&result).Error
	if err != nil {
		return nil, err
	}

	if result.TransactionCount > 0 {
		result.AverageSale = result.Revenue / float64(result.TransactionCount)
	}

	return &result, nil
}

func (r *reportRepository) GetSalesByProduct(ctx context.Context, start, end time.Time, limit int) ([]domainRepo.ProductSalesResult, error) {
	var results []domainRepo.ProductSalesResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			si.product_id as product_id,
			si.name as product_name,
			COALESCE(SUM(si.quantity), 0) as quantity_sold,
			COALESCE(SUM(si.total), 0) / 100.0 as revenue
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.status = 'completed'
			AND s.deleted_at IS NULL
			AND s.sale_date BETWEEN ? AND ?
		GROUP BY si.product_id, si.name
		ORDER BY revenue DESC
		LIMIT ?
	`, start, end, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *reportRepository) GetSalesByCashier(ctx context.Context, start, end time.Time) ([]domainRepo.CashierSalesResult, error) {
	var results []domainRepo.CashierSalesResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			u.id as cashier_id,
			u.first_name || ' ' || u.last_name as cashier_name,
			COUNT(s.id) as transaction_count,
			COALESCE(SUM(s.total), 0) / 100.0 as revenue
		FROM sales s
		JOIN users u ON u.id = s.cashier_id
		WHERE s.status = 'completed'
			AND s.deleted_at IS NULL
			AND s.sale_date BETWEEN ? AND ?
		GROUP BY u.id, u.first_name, u.last_name
		ORDER BY revenue DESC
	`, start, end).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *reportRepository) GetSalesByPaymentMethod(ctx context.Context, start, end time.Time) ([]domainRepo.PaymentMethodSalesResult, error) {
	var results []domainRepo.PaymentMethodSalesResult

	// Total revenue first, for the percentage split
	var totalRevenue float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(s.total), 0) / 100.0
		FROM sales s
		WHERE s.status = 'completed'
			AND s.deleted_at IS NULL
			AND s.sale_date BETWEEN ? AND ?
	`, start, end).Scan(&totalRevenue).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT
			s.payment_method as payment_method,
			COUNT(s.id) as transaction_count,
			COALESCE(SUM(s.total), 0) / 100.0 as revenue
		FROM sales s
		WHERE s.status = 'completed'
			AND s.deleted_at IS NULL
			AND s.sale_date BETWEEN ? AND ?
		GROUP BY s.payment_method
		ORDER BY revenue DESC
	`, start, end).Scan(&results).Error
	if err != nil {
		return nil, err
	}

	for i := range results {
		if totalRevenue > 0 {
			results[i].Percentage = (results[i].Revenue / totalRevenue) * 100
		}
	}

	return results, nil
}

func (r *reportRepository) GetDailySales(ctx context.Context, days int) ([]domainRepo.DailySalesResult, error) {
	results := make([]domainRepo.DailySalesResult, 0, days)
	now := time.Now()

	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		dayEnd := dayStart.AddDate(0, 0, 1)

		var revenue float64
		err := r.db.WithContext(ctx).Raw(`
			SELECT COALESCE(SUM(s.total), 0) / 100.0
			FROM sales s
			WHERE s.status = 'completed'
				AND s.deleted_at IS NULL
				AND s.sale_date >= ? AND s.sale_date < ?
		`, dayStart, dayEnd).Scan(&revenue).Error
		if err != nil {
			return nil, err
		}

		results = append(results, domainRepo.DailySalesResult{
			Date:    dayStart,
			Revenue: revenue,
		})
	}

	return results, nil
}
