// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/velora-shop/velora-backend/internal/config"
	"github.com/velora-shop/velora-backend/internal/database"
	"github.com/velora-shop/velora-backend/internal/models"
	"github.com/velora-shop/velora-backend/internal/utils"
)

type ProductService struct {
	db        *gorm.DB
	config    *config.Config
	inventory *InventoryService
}

func NewProductService(db *gorm.DB, config *config.Config, inventory *InventoryService) *ProductService {
	return &ProductService{
		db:        db,
		config:    config,
		inventory: inventory,
	}
}

type VariantRequest struct {
	ColorID uuid.UUID `json:"color_id" validate:"required"`
	SizeID  uuid.UUID `json:"size_id" validate:"required"`
	Stock   int       `json:"stock" validate:"min=0"`
}

type CreateProductRequest struct {
	Title       string           `json:"title" validate:"required,min=3,max=255"`
	Description string           `json:"description" validate:"max=5000"`
	CategoryID  uuid.UUID        `json:"category_id" validate:"required"`
	Price       float64          `json:"price" validate:"required,min=0.01"`
	Images      []string         `json:"images,omitempty" validate:"max=10"`
	Tags        []string         `json:"tags,omitempty" validate:"max=20"`
	Status      string           `json:"status,omitempty" validate:"omitempty,oneof=draft active archived"`
	Variants    []VariantRequest `json:"variants" validate:"required,min=1,dive"`
}

type UpdateProductRequest struct {
	Title       string   `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Description string   `json:"description,omitempty" validate:"max=5000"`
	Price       float64  `json:"price,omitempty" validate:"omitempty,min=0.01"`
	Images      []string `json:"images,omitempty" validate:"max=10"`
	Tags        []string `json:"tags,omitempty" validate:"max=20"`
	Status      string   `json:"status,omitempty" validate:"omitempty,oneof=draft active archived"`
}

type UpdateVariantStockRequest struct {
	Stock int `json:"stock" validate:"min=0"`
}

type ProductFilters struct {
	CategoryID string
	Status     string
	MinPrice   float64
	MaxPrice   float64
	InStock    bool
}

// CreateProduct creates the product and its variant matrix in one
// transaction and sets availability from the initial stock.
func (s *ProductService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	var category models.Category
	if err := s.db.First(&category, req.CategoryID).Error; err != nil {
		return nil, errors.New("category not found")
	}

	status := models.ProductStatusDraft
	if req.Status != "" {
		status = models.ProductStatus(req.Status)
	}

	product := &models.Product{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Images:      pq.StringArray(req.Images),
		Tags:        pq.StringArray(req.Tags),
		Status:      status,
	}

	for _, v := range req.Variants {
		product.Variants = append(product.Variants, models.ProductVariant{
			ColorID: v.ColorID,
			SizeID:  v.SizeID,
			Stock:   v.Stock,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return s.inventory.RefreshAvailability(tx, product.ID)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"product_id": product.ID,
		"title":      product.Title,
	}).Info("Product created")

	return s.GetProduct(product.ID)
}

// GetProduct loads a product with its category and variant graph.
func (s *ProductService) GetProduct(productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.
		Preload("Category").
		Preload("Variants").
		Preload("Variants.Color").
		Preload("Variants.Size").
		First(&product, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}

	return &product, nil
}

// ListProducts is the storefront/admin listing. publicOnly restricts to
// active products, which is what unauthenticated browsing sees.
func (s *ProductService) ListProducts(params utils.PaginationParams, filters ProductFilters, publicOnly bool) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).
		Preload("Category").
		Preload("Variants")

	if publicOnly {
		query = query.Where("status = ?", models.ProductStatusActive)
	} else if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	if filters.CategoryID != "" {
		query = query.Where("category_id = ?", filters.CategoryID)
	}

	if filters.MinPrice > 0 {
		query = query.Where("price >= ?", filters.MinPrice)
	}

	if filters.MaxPrice > 0 {
		query = query.Where("price <= ?", filters.MaxPrice)
	}

	if filters.InStock {
		query = query.Where("available_for_sale = ?", true)
	}

	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "price", "title"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

// UpdateProduct applies partial updates. Price edits do not rewrite existing
// order items; those keep their snapshot.
func (s *ProductService) UpdateProduct(productID uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	product, err := s.GetProduct(productID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Price > 0 {
		updates["price"] = req.Price
	}
	if req.Images != nil {
		updates["images"] = pq.StringArray(req.Images)
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(req.Tags)
	}
	if req.Status != "" {
		updates["status"] = models.ProductStatus(req.Status)
	}

	if len(updates) == 0 {
		return product, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("id = ?", productID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		// A status change can flip availability even with unchanged stock.
		if _, ok := updates["status"]; ok {
			return s.inventory.RefreshAvailability(tx, productID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduct(productID)
}

// DeleteProduct soft-deletes a product. Blocked while any non-cancelled order
// still references it, so order history keeps a resolvable product graph.
func (s *ProductService) DeleteProduct(productID uuid.UUID) error {
	product, err := s.GetProduct(productID)
	if err != nil {
		return err
	}

	var openOrders int64
	err = s.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.product_id = ?", productID).
		Where("orders.order_status <> ?", models.OrderStatusCancelled).
		Count(&openOrders).Error
	if err != nil {
		return fmt.Errorf("failed to check open orders: %w", err)
	}

	if openOrders > 0 {
		return errors.New("product cannot be deleted while orders reference it")
	}

	if err := s.db.Delete(product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"product_id": productID,
		"title":      product.Title,
	}).Info("Product deleted")

	return nil
}

// UpdateVariantStock sets an absolute stock level for one variant and
// recomputes availability in the same transaction. This is also the repair
// path for counter drift after untracked cancellations.
func (s *ProductService) UpdateVariantStock(productID, variantID uuid.UUID, req *UpdateVariantStockRequest) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := s.db.Where("id = ? AND product_id = ?", variantID, productID).First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("variant not found")
		}
		return nil, fmt.Errorf("failed to fetch variant: %w", err)
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		result := tx.Model(&models.ProductVariant{}).
			Where("id = ?", variant.ID).
			UpdateColumn("stock", req.Stock)
		if result.Error != nil {
			return fmt.Errorf("failed to update stock: %w", result.Error)
		}

		return s.inventory.RefreshAvailability(tx, productID)
	})
	if err != nil {
		return nil, err
	}

	variant.Stock = req.Stock
	return &variant, nil
}

// ListCategories returns the category catalog for product forms.
func (s *ProductService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

// ListColors returns the color catalog.
func (s *ProductService) ListColors() ([]models.Color, error) {
	var colors []models.Color
	if err := s.db.Order("name ASC").Find(&colors).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch colors: %w", err)
	}
	return colors, nil
}

// ListSizes returns the size catalog in display order.
func (s *ProductService) ListSizes() ([]models.Size, error) {
	var sizes []models.Size
	if err := s.db.Order("sort_order ASC").Find(&sizes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch sizes: %w", err)
	}
	return sizes, nil
}
