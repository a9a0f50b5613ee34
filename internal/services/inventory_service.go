// internal/services/inventory_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velora-shop/velora-backend/internal/models"
)

// InventoryService owns all stock mutations. Every write goes through a
// conditional UPDATE so concurrent orders can never drive stock negative.
type InventoryService struct {
	db *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

// ReservationItem identifies one variant and the quantity to move.
type ReservationItem struct {
	ProductID uuid.UUID
	ColorID   uuid.UUID
	SizeID    uuid.UUID
	Quantity  int
}

// InsufficientStockError reports the shortfall for the first variant that
// could not cover the requested quantity.
type InsufficientStockError struct {
	ProductID uuid.UUID
	ColorID   uuid.UUID
	SizeID    uuid.UUID
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: %d available, %d requested",
		e.ProductID, e.Available, e.Requested)
}

// Reserve decrements stock for each item inside tx. The decrement is
// conditional on sufficient stock; a zero-row update means another order won
// the race or the variant does not exist, so the whole reservation fails and
// the caller's transaction rolls everything back.
func (s *InventoryService) Reserve(tx *gorm.DB, items []ReservationItem) error {
	for _, item := range items {
		if item.Quantity <= 0 {
			return fmt.Errorf("invalid quantity %d for product %s", item.Quantity, item.ProductID)
		}

		result := tx.Model(&models.ProductVariant{}).
			Where("product_id = ? AND color_id = ? AND size_id = ? AND stock >= ?",
				item.ProductID, item.ColorID, item.SizeID, item.Quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))

		if result.Error != nil {
			return fmt.Errorf("failed to reserve stock: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			var variant models.ProductVariant
			err := tx.Where("product_id = ? AND color_id = ? AND size_id = ?",
				item.ProductID, item.ColorID, item.SizeID).First(&variant).Error
			if err != nil {
				return fmt.Errorf("variant not found for product %s", item.ProductID)
			}
			return &InsufficientStockError{
				ProductID: item.ProductID,
				ColorID:   item.ColorID,
				SizeID:    item.SizeID,
				Available: variant.Stock,
				Requested: item.Quantity,
			}
		}
	}

	return nil
}

// Restore returns previously taken stock to the shelf. Used when a fulfilled
// order is cancelled.
func (s *InventoryService) Restore(tx *gorm.DB, items []ReservationItem) error {
	for _, item := range items {
		result := tx.Model(&models.ProductVariant{}).
			Where("product_id = ? AND color_id = ? AND size_id = ?",
				item.ProductID, item.ColorID, item.SizeID).
			UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity))

		if result.Error != nil {
			return fmt.Errorf("failed to restore stock: %w", result.Error)
		}
	}

	return nil
}

// ReduceOnFulfillment applies the fulfillment decrement when an order first
// enters a fulfillment status. Floors at zero instead of failing: the goods
// are already committed to the order at this point, so a stale counter must
// not block shipping.
func (s *InventoryService) ReduceOnFulfillment(tx *gorm.DB, items []ReservationItem) error {
	for _, item := range items {
		result := tx.Model(&models.ProductVariant{}).
			Where("product_id = ? AND color_id = ? AND size_id = ?",
				item.ProductID, item.ColorID, item.SizeID).
			UpdateColumn("stock", gorm.Expr("GREATEST(stock - ?, 0)", item.Quantity))

		if result.Error != nil {
			return fmt.Errorf("failed to reduce stock: %w", result.Error)
		}
	}

	return nil
}

// RefreshAvailability recomputes the product's available_for_sale flag from
// its variant stock. Called after any stock mutation commits.
func (s *InventoryService) RefreshAvailability(tx *gorm.DB, productIDs ...uuid.UUID) error {
	for _, productID := range productIDs {
		var inStock int64
		err := tx.Model(&models.ProductVariant{}).
			Where("product_id = ? AND stock > 0", productID).
			Count(&inStock).Error
		if err != nil {
			return fmt.Errorf("failed to count in-stock variants: %w", err)
		}

		err = tx.Model(&models.Product{}).
			Where("id = ? AND status = ?", productID, models.ProductStatusActive).
			UpdateColumn("available_for_sale", inStock > 0).Error
		if err != nil {
			return fmt.Errorf("failed to update product availability: %w", err)
		}
	}

	return nil
}

// LowStockVariants lists active-product variants at or below the threshold,
// for the admin dashboard.
func (s *InventoryService) LowStockVariants(threshold int) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	err := s.db.
		Joins("JOIN products ON products.id = product_variants.product_id").
		Where("products.status = ? AND product_variants.stock <= ?", models.ProductStatusActive, threshold).
		Preload("Color").
		Preload("Size").
		Order("product_variants.stock ASC").
		Limit(50).
		Find(&variants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch low stock variants: %w", err)
	}

	return variants, nil
}

// itemsFromOrder converts persisted order items back into reservation items
// for status-driven stock moves.
func itemsFromOrder(order *models.Order) []ReservationItem {
	items := make([]ReservationItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, ReservationItem{
			ProductID: it.ProductID,
			ColorID:   it.ColorID,
			SizeID:    it.SizeID,
			Quantity:  it.Quantity,
		})
	}
	return items
}

// productIDsFromOrder deduplicates the product IDs touched by an order.
func productIDsFromOrder(order *models.Order) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(order.Items))
	ids := make([]uuid.UUID, 0, len(order.Items))
	for _, it := range order.Items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	return ids
}
