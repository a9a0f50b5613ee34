// internal/models/order_status_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled,
	} {
		assert.True(t, s.Valid(), "expected %s to be valid", s)
	}

	assert.False(t, OrderStatus("refunded").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusShipped, true},
		{OrderStatusPending, OrderStatusDelivered, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusDelivered, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, true},

		// No backwards movement
		{OrderStatusProcessing, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusProcessing, false},
		{OrderStatusDelivered, OrderStatusShipped, false},

		// Terminal states have no exits
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusProcessing, false},

		// Self transitions are not transitions
		{OrderStatusPending, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusShipped, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to),
			"transition %s -> %s", tt.from, tt.to)
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.False(t, OrderStatusPending.Terminal())
	assert.False(t, OrderStatusProcessing.Terminal())
	assert.False(t, OrderStatusShipped.Terminal())
}

func TestInventoryActionFor(t *testing.T) {
	tests := []struct {
		prev   OrderStatus
		next   OrderStatus
		action InventoryAction
	}{
		// First entry into a fulfillment status reduces
		{OrderStatusPending, OrderStatusProcessing, InventoryReduce},
		{OrderStatusPending, OrderStatusShipped, InventoryReduce},
		{OrderStatusPending, OrderStatusDelivered, InventoryReduce},

		// Moving between fulfillment statuses must not reduce again
		{OrderStatusProcessing, OrderStatusShipped, InventoryNone},
		{OrderStatusProcessing, OrderStatusDelivered, InventoryNone},
		{OrderStatusShipped, OrderStatusDelivered, InventoryNone},

		// Cancelling a fulfilled order restores
		{OrderStatusProcessing, OrderStatusCancelled, InventoryRestore},
		{OrderStatusShipped, OrderStatusCancelled, InventoryRestore},

		// Cancelling a pending order never touched the fulfillment
		// counter, so nothing comes back
		{OrderStatusPending, OrderStatusCancelled, InventoryNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.action, InventoryActionFor(tt.prev, tt.next),
			"action for %s -> %s", tt.prev, tt.next)
	}
}

func TestInventoryActionString(t *testing.T) {
	assert.Equal(t, "reduce", InventoryReduce.String())
	assert.Equal(t, "restore", InventoryRestore.String())
	assert.Equal(t, "none", InventoryNone.String())
}

func TestCompletesCODPayment(t *testing.T) {
	assert.True(t, CompletesCODPayment(PaymentMethodCOD, OrderStatusDelivered))
	assert.False(t, CompletesCODPayment(PaymentMethodCOD, OrderStatusShipped))
	assert.False(t, CompletesCODPayment(PaymentMethodCard, OrderStatusDelivered))
}
