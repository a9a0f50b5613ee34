// internal/services/order_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/velora-shop/velora-backend/internal/config"
	"github.com/velora-shop/velora-backend/internal/models"
)

func testStoreConfig() *config.Config {
	return &config.Config{
		Store: config.StoreConfig{
			Currency:         "usd",
			ShippingFlatRate: 5.99,
			FreeShippingOver: 75.0,
		},
	}
}

func TestShippingCost(t *testing.T) {
	svc := &OrderService{config: testStoreConfig()}

	assert.Equal(t, 5.99, svc.shippingCost(10.00))
	assert.Equal(t, 5.99, svc.shippingCost(74.99))
	assert.Equal(t, 0.0, svc.shippingCost(75.00))
	assert.Equal(t, 0.0, svc.shippingCost(200.00))
}

func TestShippingCostNoFreeThreshold(t *testing.T) {
	cfg := testStoreConfig()
	cfg.Store.FreeShippingOver = 0
	svc := &OrderService{config: cfg}

	assert.Equal(t, 5.99, svc.shippingCost(1000.00))
}

func TestRefundRequired(t *testing.T) {
	tests := []struct {
		name     string
		order    models.Order
		expected bool
	}{
		{
			name: "completed card payment needs refund",
			order: models.Order{
				PaymentMethod:  models.PaymentMethodCard,
				PaymentStatus:  models.PaymentStatusCompleted,
				PaymentDetails: models.PaymentDetails{StripePaymentID: "pi_123"},
			},
			expected: true,
		},
		{
			name: "cod order never refunds",
			order: models.Order{
				PaymentMethod: models.PaymentMethodCOD,
				PaymentStatus: models.PaymentStatusCompleted,
			},
			expected: false,
		},
		{
			name: "card payment still pending has nothing to refund",
			order: models.Order{
				PaymentMethod: models.PaymentMethodCard,
				PaymentStatus: models.PaymentStatusPending,
			},
			expected: false,
		},
		{
			name: "completed card payment without a charge reference",
			order: models.Order{
				PaymentMethod: models.PaymentMethodCard,
				PaymentStatus: models.PaymentStatusCompleted,
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, refundRequired(&tt.order))
		})
	}
}
