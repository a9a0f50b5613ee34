// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/velora-shop/velora-backend/internal/config"
	"github.com/velora-shop/velora-backend/internal/models"
	"github.com/velora-shop/velora-backend/internal/utils"
)

type OrderService struct {
	db        *gorm.DB
	config    *config.Config
	inventory *InventoryService
	payments  PaymentProcessor
	notifier  *NotificationService
}

func NewOrderService(db *gorm.DB, config *config.Config, inventory *InventoryService, payments PaymentProcessor, notifier *NotificationService) *OrderService {
	return &OrderService{
		db:        db,
		config:    config,
		inventory: inventory,
		payments:  payments,
		notifier:  notifier,
	}
}

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Color     string    `json:"color" validate:"required"`
	Size      string    `json:"size" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1,max=50"`
}

type ShippingAddressRequest struct {
	FullName   string `json:"full_name" validate:"required,max=255"`
	Line1      string `json:"line1" validate:"required,max=255"`
	Line2      string `json:"line2,omitempty" validate:"max=255"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,max=100"`
	Phone      string `json:"phone,omitempty" validate:"max=30"`
}

type CreateOrderRequest struct {
	Items              []OrderItemRequest     `json:"items" validate:"required,min=1,max=50,dive"`
	ShippingAddress    ShippingAddressRequest `json:"shipping_address" validate:"required"`
	PaymentMethod      models.PaymentMethod   `json:"payment_method" validate:"required,oneof=card cod"`
	PaymentMethodToken string                 `json:"payment_method_token" validate:"required_if=PaymentMethod card"`
}

type UpdateOrderStatusRequest struct {
	Status         models.OrderStatus `json:"status" validate:"required"`
	TrackingNumber string             `json:"tracking_number,omitempty" validate:"max=100"`
}

type OrderFilters struct {
	Status        string
	PaymentMethod string
	DateFrom      string
	DateTo        string
}

// resolvedItem pairs a request line with the catalog rows it resolved to and
// the unit price snapshot.
type resolvedItem struct {
	product   *models.Product
	colorID   uuid.UUID
	sizeID    uuid.UUID
	quantity  int
	unitPrice float64
}

// CreateOrder places an order: resolve catalog rows, snapshot prices, charge
// the card up front for card orders, then persist the order and reserve stock
// in a single transaction so a failed reservation leaves no orphan order.
func (s *OrderService) CreateOrder(customerID uuid.UUID, req *CreateOrderRequest) (*models.Order, error) {
	resolved, err := s.resolveItems(req.Items)
	if err != nil {
		return nil, err
	}

	subtotal := 0.0
	for _, item := range resolved {
		subtotal += item.unitPrice * float64(item.quantity)
	}
	shippingCost := s.shippingCost(subtotal)
	totalAmount := subtotal + shippingCost

	order := &models.Order{
		CustomerID:    customerID,
		OrderStatus:   models.OrderStatusPending,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: models.PaymentStatusPending,
		TotalAmount:   totalAmount,
		ShippingCost:  shippingCost,
		ShippingAddress: models.ShippingAddress{
			FullName:   req.ShippingAddress.FullName,
			Line1:      req.ShippingAddress.Line1,
			Line2:      req.ShippingAddress.Line2,
			City:       req.ShippingAddress.City,
			State:      req.ShippingAddress.State,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
			Phone:      req.ShippingAddress.Phone,
		},
	}

	for _, item := range resolved {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.product.ID,
			ColorID:   item.colorID,
			SizeID:    item.sizeID,
			Quantity:  item.quantity,
			Price:     item.unitPrice,
		})
	}

	// Card orders are charged before anything is persisted. A declined card
	// costs nothing to undo; a charged card with no order is repaired by the
	// compensating refund below.
	var charge *ChargeRecord
	if req.PaymentMethod == models.PaymentMethodCard {
		charge, err = s.payments.Authorize(toMinorUnits(totalAmount), s.config.Store.Currency, req.PaymentMethodToken)
		if err != nil {
			return nil, err
		}

		order.PaymentStatus = models.PaymentStatusCompleted
		order.PaymentDetails = models.PaymentDetails{
			StripePaymentID: charge.PaymentID,
			CardBrand:       charge.CardBrand,
			CardLast4:       charge.CardLast4,
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		orderNumber, err := s.uniqueOrderNumber(tx)
		if err != nil {
			return err
		}
		order.OrderNumber = orderNumber

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		if err := s.inventory.Reserve(tx, itemsFromOrder(order)); err != nil {
			return err
		}

		return s.inventory.RefreshAvailability(tx, productIDsFromOrder(order)...)
	})
	if err != nil {
		if charge != nil {
			// The card was charged but the order did not stick. Refund so the
			// customer is not billed for nothing.
			if refundErr := s.payments.Refund(charge.PaymentID); refundErr != nil {
				logrus.WithFields(logrus.Fields{
					"payment_id": charge.PaymentID,
					"error":      refundErr,
				}).Error("compensating refund failed, manual intervention required")
			}
		}
		return nil, err
	}

	if s.notifier != nil {
		go s.notifier.SendOrderConfirmation(order)
	}

	logrus.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"customer_id":  customerID,
		"total":        totalAmount,
	}).Info("Order created")

	return s.GetOrder(order.ID)
}

// uniqueOrderNumber generates an order number that is not already taken. A
// collision in the 32^10 space is close to impossible; the loop is bounded
// anyway so a broken random source cannot spin forever.
func (s *OrderService) uniqueOrderNumber(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		orderNumber, err := utils.GenerateOrderNumber()
		if err != nil {
			return "", fmt.Errorf("failed to generate order number: %w", err)
		}

		var count int64
		if err := tx.Model(&models.Order{}).Where("order_number = ?", orderNumber).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check order number: %w", err)
		}

		if count == 0 {
			return orderNumber, nil
		}
	}

	return "", errors.New("could not generate a unique order number")
}

// resolveItems loads the catalog rows behind each request line. Color and
// size accept either a UUID or a catalog name.
func (s *OrderService) resolveItems(items []OrderItemRequest) ([]resolvedItem, error) {
	resolved := make([]resolvedItem, 0, len(items))

	for _, item := range items {
		var product models.Product
		err := s.db.Where("id = ? AND status = ?", item.ProductID, models.ProductStatusActive).
			First(&product).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("product not found: %s", item.ProductID)
			}
			return nil, fmt.Errorf("failed to load product: %w", err)
		}

		colorID, err := s.resolveColorID(item.Color)
		if err != nil {
			return nil, err
		}

		sizeID, err := s.resolveSizeID(item.Size)
		if err != nil {
			return nil, err
		}

		var variant models.ProductVariant
		err = s.db.Where("product_id = ? AND color_id = ? AND size_id = ?",
			product.ID, colorID, sizeID).First(&variant).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("variant not found for product %s", product.ID)
			}
			return nil, fmt.Errorf("failed to load variant: %w", err)
		}

		resolved = append(resolved, resolvedItem{
			product:   &product,
			colorID:   colorID,
			sizeID:    sizeID,
			quantity:  item.Quantity,
			unitPrice: product.Price,
		})
	}

	return resolved, nil
}

func (s *OrderService) resolveColorID(value string) (uuid.UUID, error) {
	if id, err := uuid.Parse(value); err == nil {
		return id, nil
	}

	var color models.Color
	if err := s.db.Where("LOWER(name) = LOWER(?)", value).First(&color).Error; err != nil {
		return uuid.Nil, fmt.Errorf("color not found: %s", value)
	}
	return color.ID, nil
}

func (s *OrderService) resolveSizeID(value string) (uuid.UUID, error) {
	if id, err := uuid.Parse(value); err == nil {
		return id, nil
	}

	var size models.Size
	if err := s.db.Where("UPPER(name) = UPPER(?)", value).First(&size).Error; err != nil {
		return uuid.Nil, fmt.Errorf("size not found: %s", value)
	}
	return size.ID, nil
}

// shippingCost applies the flat rate below the free-shipping threshold.
func (s *OrderService) shippingCost(subtotal float64) float64 {
	if s.config.Store.FreeShippingOver > 0 && subtotal >= s.config.Store.FreeShippingOver {
		return 0
	}
	return s.config.Store.ShippingFlatRate
}

// GetOrder loads an order with its full item and customer graph.
func (s *OrderService) GetOrder(orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Color").
		Preload("Items.Size").
		Preload("Customer").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("order not found")
		}
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}

	return &order, nil
}

// GetCustomerOrder loads an order only if it belongs to the customer.
func (s *OrderService) GetCustomerOrder(customerID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if order.CustomerID != customerID {
		return nil, errors.New("order not found")
	}

	return order, nil
}

// ListCustomerOrders pages through one customer's orders, newest first.
func (s *OrderService) ListCustomerOrders(customerID uuid.UUID, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).
		Where("customer_id = ?", customerID).
		Preload("Items").
		Preload("Items.Product")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "total_amount", "order_status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

// ListAllOrders is the admin listing with status, payment and date filters.
// Search matches order number or customer email/username.
func (s *OrderService) ListAllOrders(params utils.PaginationParams, filters OrderFilters) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).
		Preload("Items").
		Preload("Customer")

	if filters.Status != "" {
		query = query.Where("order_status = ?", filters.Status)
	}

	if filters.PaymentMethod != "" {
		query = query.Where("payment_method = ?", filters.PaymentMethod)
	}

	if filters.DateFrom != "" {
		if from, err := time.Parse("2006-01-02", filters.DateFrom); err == nil {
			query = query.Where("orders.created_at >= ?", from)
		}
	}

	if filters.DateTo != "" {
		if to, err := time.Parse("2006-01-02", filters.DateTo); err == nil {
			query = query.Where("orders.created_at < ?", to.AddDate(0, 0, 1))
		}
	}

	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.
			Joins("JOIN users ON users.id = orders.customer_id").
			Where("orders.order_number ILIKE ? OR users.email ILIKE ? OR users.username ILIKE ?",
				search, search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "total_amount", "order_status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

// UpdateOrderStatus is the admin transition entry point. The transition table
// decides legality; InventoryActionFor decides the stock side effect; both
// the status write and the stock move commit atomically.
func (s *OrderService) UpdateOrderStatus(orderID uuid.UUID, req *UpdateOrderStatusRequest, adminID uuid.UUID) (*models.Order, error) {
	if !req.Status.Valid() {
		return nil, fmt.Errorf("invalid order status: %s", req.Status)
	}

	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	prev := order.OrderStatus
	next := req.Status

	if !models.CanTransition(prev, next) {
		return nil, fmt.Errorf("invalid transition from %s to %s", prev, next)
	}

	// Refunds happen before the transaction. If the processor refuses, the
	// order keeps its current status.
	refunded := false
	if next == models.OrderStatusCancelled && refundRequired(order) {
		if err := s.payments.Refund(order.PaymentDetails.StripePaymentID); err != nil {
			return nil, fmt.Errorf("refund failed, order not cancelled: %w", err)
		}
		refunded = true
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"order_status": next,
		}

		if req.TrackingNumber != "" {
			updates["tracking_number"] = req.TrackingNumber
		}

		if models.CompletesCODPayment(order.PaymentMethod, next) && order.PaymentStatus == models.PaymentStatusPending {
			updates["payment_status"] = models.PaymentStatusCompleted
		}

		if refunded {
			updates["payment_status"] = models.PaymentStatusPending
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		switch models.InventoryActionFor(prev, next) {
		case models.InventoryReduce:
			if err := s.inventory.ReduceOnFulfillment(tx, itemsFromOrder(order)); err != nil {
				return err
			}
		case models.InventoryRestore:
			if err := s.inventory.Restore(tx, itemsFromOrder(order)); err != nil {
				return err
			}
		default:
			return nil
		}

		return s.inventory.RefreshAvailability(tx, productIDsFromOrder(order)...)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"from_status":  prev,
		"to_status":    next,
		"admin_id":     adminID,
	}).Info("Order status updated")

	updated, err := s.GetOrder(order.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		go s.notifier.SendOrderStatusUpdate(updated, prev)
	}

	return updated, nil
}

// CancelOrder is the customer-facing cancellation: owner only, pending only.
// Card refunds are attempted first and a refusal blocks the cancellation.
func (s *OrderService) CancelOrder(customerID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.GetCustomerOrder(customerID, orderID)
	if err != nil {
		return nil, err
	}

	if order.OrderStatus != models.OrderStatusPending {
		return nil, errors.New("only pending orders can be cancelled")
	}

	if refundRequired(order) {
		if err := s.payments.Refund(order.PaymentDetails.StripePaymentID); err != nil {
			return nil, fmt.Errorf("refund failed, order not cancelled: %w", err)
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"order_status":   models.OrderStatusCancelled,
			"payment_status": models.PaymentStatusPending,
		}
		if order.PaymentMethod == models.PaymentMethodCOD {
			delete(updates, "payment_status")
		}

		return tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"customer_id":  customerID,
	}).Info("Order cancelled by customer")

	return s.GetOrder(order.ID)
}

// refundRequired reports whether cancelling this order must return money:
// card orders whose charge completed.
func refundRequired(order *models.Order) bool {
	return order.PaymentMethod == models.PaymentMethodCard &&
		order.PaymentStatus == models.PaymentStatusCompleted &&
		order.PaymentDetails.StripePaymentID != ""
}
