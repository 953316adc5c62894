package analytics

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatusCount is one row of the orders-by-status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// TopProduct is one row of the top-sellers breakdown.
type TopProduct struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	UnitsSold int64     `json:"units_sold"`
}

// Repository runs the admin aggregate queries. Plain SQL, read-only.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an analytics repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// OrderCount returns the total number of orders.
func (r *Repository) OrderCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw("SELECT COUNT(*) FROM orders").Scan(&count).Error
	return count, err
}

// RevenueTotal sums order totals across all orders.
func (r *Repository) RevenueTotal(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Raw("SELECT SUM(total) FROM orders").Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// OrdersByStatus breaks order counts down per status.
func (r *Repository) OrdersByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Raw("SELECT status, COUNT(*) AS count FROM orders GROUP BY status ORDER BY count DESC").
		Scan(&rows).Error
	return rows, err
}

// TopProducts ranks products by units sold across all order lines.
func (r *Repository) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	var rows []TopProduct
	err := r.db.WithContext(ctx).
		Raw(`SELECT oi.product_id AS product_id, p.name AS name, SUM(oi.quantity) AS units_sold
			FROM order_items oi
			JOIN products p ON p.id = oi.product_id
			GROUP BY oi.product_id, p.name
			ORDER BY units_sold DESC
			LIMIT ?`, limit).
		Scan(&rows).Error
	return rows, err
}
