// internal/handlers/order.go
package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/velora-shop/velora-backend/internal/i18n"
	"github.com/velora-shop/velora-backend/internal/services"
	"github.com/velora-shop/velora-backend/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
	adminService *services.AdminService
}

func NewOrderHandler(orderService *services.OrderService, adminService *services.AdminService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		adminService: adminService,
	}
}

// POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	customerID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	order, err := h.orderService.CreateOrder(customerID, &req)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderCreated),
		"order":   order,
	})
}

// GET /orders
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	customerID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	orders, total, err := h.orderService.ListCustomerOrders(customerID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(orders, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	customerID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	order, err := h.orderService.GetCustomerOrder(customerID, orderID)
	if err != nil {
		utils.NotFoundResponse(c, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{"order": order})
}

// POST /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	customerID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	order, err := h.orderService.CancelOrder(customerID, orderID)
	if err != nil {
		if strings.Contains(err.Error(), "only pending") {
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyOrderCancelNotAllowed))
			return
		}
		h.respondOrderError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderCancelled),
		"order":   order,
	})
}

// GET /orders/admin/all
func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filters := services.OrderFilters{
		Status:        c.Query("status"),
		PaymentMethod: c.Query("payment_method"),
		DateFrom:      c.Query("date_from"),
		DateTo:        c.Query("date_to"),
	}

	orders, total, err := h.orderService.ListAllOrders(params, filters)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(orders, total, params)
	utils.PaginatedResponse(c, result)
}

// PUT /orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	order, err := h.orderService.UpdateOrderStatus(orderID, &req, adminID)
	if err != nil {
		if strings.Contains(err.Error(), "invalid transition") || strings.Contains(err.Error(), "invalid order status") {
			utils.ConflictResponse(c, err.Error())
			return
		}
		h.respondOrderError(c, err)
		return
	}

	h.adminService.CreateAuditLog(adminID, "order_status_update", "order", &orderID, nil, map[string]interface{}{
		"status":          req.Status,
		"tracking_number": req.TrackingNumber,
	})

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderStatusUpdated),
		"order":   order,
	})
}

// currentUserID pulls the authenticated user out of the request context.
func (h *OrderHandler) currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}

	return userID, true
}

// respondOrderError maps the order domain errors onto HTTP responses: stock
// shortfalls and card declines carry structured details, "not found" is 404,
// everything else is a 500.
func (h *OrderHandler) respondOrderError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var stockErr *services.InsufficientStockError
	if errors.As(err, &stockErr) {
		utils.ErrorResponse(c, 400, "INSUFFICIENT_STOCK",
			i18n.T(lang, i18n.KeyStockInsufficient, stockErr.Available, stockErr.Requested),
			gin.H{
				"product_id": stockErr.ProductID,
				"color_id":   stockErr.ColorID,
				"size_id":    stockErr.SizeID,
				"available":  stockErr.Available,
				"requested":  stockErr.Requested,
			})
		return
	}

	var paymentErr *services.PaymentError
	if errors.As(err, &paymentErr) {
		utils.ErrorResponse(c, 400, "PAYMENT_ERROR",
			i18n.T(lang, i18n.KeyPaymentFailed),
			gin.H{
				"code":         paymentErr.Code,
				"message":      paymentErr.Message,
				"decline_code": paymentErr.DeclineCode,
			})
		return
	}

	if strings.Contains(err.Error(), "not found") {
		utils.ErrorResponse(c, 404, "NOT_FOUND", err.Error(), nil)
		return
	}

	if strings.Contains(err.Error(), "refund failed") {
		utils.ErrorResponse(c, 502, "REFUND_FAILED", i18n.T(lang, i18n.KeyPaymentRefundFailed), nil)
		return
	}

	utils.InternalErrorResponse(c, err.Error())
}
