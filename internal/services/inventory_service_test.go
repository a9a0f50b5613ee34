// internal/services/inventory_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/velora-shop/velora-backend/internal/models"
)

func TestInsufficientStockErrorMessage(t *testing.T) {
	productID := uuid.MustParse("b7a9c6e0-1111-4222-8333-444455556666")
	err := &InsufficientStockError{
		ProductID: productID,
		Available: 2,
		Requested: 5,
	}

	assert.Contains(t, err.Error(), productID.String())
	assert.Contains(t, err.Error(), "2 available")
	assert.Contains(t, err.Error(), "5 requested")
}

func TestItemsFromOrder(t *testing.T) {
	productID := uuid.New()
	colorID := uuid.New()
	sizeID := uuid.New()

	order := &models.Order{
		Items: []models.OrderItem{
			{ProductID: productID, ColorID: colorID, SizeID: sizeID, Quantity: 3},
			{ProductID: productID, ColorID: colorID, SizeID: uuid.New(), Quantity: 1},
		},
	}

	items := itemsFromOrder(order)

	assert.Len(t, items, 2)
	assert.Equal(t, productID, items[0].ProductID)
	assert.Equal(t, colorID, items[0].ColorID)
	assert.Equal(t, sizeID, items[0].SizeID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestProductIDsFromOrderDeduplicates(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()

	order := &models.Order{
		Items: []models.OrderItem{
			{ProductID: productA, Quantity: 1},
			{ProductID: productA, Quantity: 2},
			{ProductID: productB, Quantity: 1},
		},
	}

	ids := productIDsFromOrder(order)

	assert.Len(t, ids, 2)
	assert.Contains(t, ids, productA)
	assert.Contains(t, ids, productB)
}
