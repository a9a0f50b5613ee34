// internal/services/admin_service.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velora-shop/velora-backend/internal/config"
	"github.com/velora-shop/velora-backend/internal/models"
	"github.com/velora-shop/velora-backend/internal/utils"
)

type AdminService struct {
	db        *gorm.DB
	config    *config.Config
	inventory *InventoryService
}

type AdminDashboardStats struct {
	TotalCustomers    int64                   `json:"total_customers"`
	NewCustomersMonth int64                   `json:"new_customers_this_month"`
	TotalOrders       int64                   `json:"total_orders"`
	OrdersByStatus    map[string]int64        `json:"orders_by_status"`
	TotalRevenue      float64                 `json:"total_revenue"`
	MonthlyRevenue    float64                 `json:"monthly_revenue"`
	RevenueGrowth     float64                 `json:"revenue_growth"`
	ActiveProducts    int64                   `json:"active_products"`
	LowStockVariants  []models.ProductVariant `json:"low_stock_variants"`
}

func NewAdminService(db *gorm.DB, config *config.Config, inventory *InventoryService) *AdminService {
	return &AdminService{
		db:        db,
		config:    config,
		inventory: inventory,
	}
}

// Dashboard Statistics
func (s *AdminService) GetDashboardStats() (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{
		OrdersByStatus: make(map[string]int64),
	}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	// Customer statistics
	s.db.Model(&models.User{}).Where("role = ?", models.UserRoleCustomer).Count(&stats.TotalCustomers)
	s.db.Model(&models.User{}).
		Where("role = ? AND created_at >= ?", models.UserRoleCustomer, monthStart).
		Count(&stats.NewCustomersMonth)

	// Order statistics
	s.db.Model(&models.Order{}).Count(&stats.TotalOrders)

	type statusCount struct {
		OrderStatus string
		Count       int64
	}
	var counts []statusCount
	s.db.Model(&models.Order{}).
		Select("order_status, COUNT(*) as count").
		Group("order_status").
		Scan(&counts)
	for _, c := range counts {
		stats.OrdersByStatus[c.OrderStatus] = c.Count
	}

	// Revenue statistics: only orders whose payment actually completed count
	s.db.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentStatusCompleted).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&stats.TotalRevenue)

	s.db.Model(&models.Order{}).
		Where("payment_status = ? AND created_at >= ?", models.PaymentStatusCompleted, monthStart).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&stats.MonthlyRevenue)

	// Product statistics
	s.db.Model(&models.Product{}).Where("status = ?", models.ProductStatusActive).Count(&stats.ActiveProducts)

	// Growth calculations
	var lastMonthRevenue float64
	s.db.Model(&models.Order{}).
		Where("payment_status = ? AND created_at >= ? AND created_at < ?",
			models.PaymentStatusCompleted, lastMonthStart, monthStart).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&lastMonthRevenue)

	if lastMonthRevenue > 0 {
		stats.RevenueGrowth = (stats.MonthlyRevenue - lastMonthRevenue) / lastMonthRevenue * 100
	}

	// Low stock warnings
	lowStock, err := s.inventory.LowStockVariants(s.config.Store.LowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch low stock variants: %w", err)
	}
	stats.LowStockVariants = lowStock

	return stats, nil
}

// GetCustomers pages through customer accounts for the admin panel.
func (s *AdminService) GetCustomers(params utils.PaginationParams) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{}).Where("role = ?", models.UserRoleCustomer)

	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("email ILIKE ? OR username ILIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	allowedSortFields := []string{"created_at", "username", "email"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var customers []models.User
	if err := query.Find(&customers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch customers: %w", err)
	}

	return customers, total, nil
}

// CreateAuditLog records an admin action. Failures are swallowed: the action
// itself already committed.
func (s *AdminService) CreateAuditLog(userID uuid.UUID, action, resourceType string, resourceID *uuid.UUID, oldValues, newValues map[string]interface{}) {
	auditLog := &models.AuditLog{
		UserID:       &userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldValues:    models.JSONB(oldValues),
		NewValues:    models.JSONB(newValues),
	}

	s.db.Create(auditLog)
}
