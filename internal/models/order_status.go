// internal/models/order_status.go
package models

// InventoryAction is the single authoritative answer to "what does this
// status transition do to variant stock".
type InventoryAction int

const (
	InventoryNone InventoryAction = iota
	InventoryReduce
	InventoryRestore
)

func (a InventoryAction) String() string {
	switch a {
	case InventoryReduce:
		return "reduce"
	case InventoryRestore:
		return "restore"
	default:
		return "none"
	}
}

// validNextStatus enumerates every reachable edge of the order lifecycle.
// delivered and cancelled are terminal: no edges out.
var validNextStatus = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending: {
		OrderStatusProcessing: true,
		OrderStatusShipped:    true,
		OrderStatusDelivered:  true,
		OrderStatusCancelled:  true,
	},
	OrderStatusProcessing: {
		OrderStatusShipped:   true,
		OrderStatusDelivered: true,
		OrderStatusCancelled: true,
	},
	OrderStatusShipped: {
		OrderStatusDelivered: true,
		OrderStatusCancelled: true,
	},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// inventoryReducing marks the statuses whose entry triggers the fulfillment
// decrement. pending is excluded: the creation-time reservation already
// covers it.
var inventoryReducing = map[OrderStatus]bool{
	OrderStatusProcessing: true,
	OrderStatusShipped:    true,
	OrderStatusDelivered:  true,
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func CanTransition(from, to OrderStatus) bool {
	return validNextStatus[from][to]
}

// InventoryActionFor decides the stock side effect of moving an order from
// prev to next. The prev-not-reducing guard makes the fulfillment decrement
// happen at most once per order no matter how many reducing statuses the
// order passes through.
func InventoryActionFor(prev, next OrderStatus) InventoryAction {
	if inventoryReducing[next] && !inventoryReducing[prev] && prev != OrderStatusCancelled {
		return InventoryReduce
	}
	if next == OrderStatusCancelled && inventoryReducing[prev] {
		return InventoryRestore
	}
	return InventoryNone
}

// CompletesCODPayment reports whether entering next should auto-complete a
// cash-on-delivery order's payment.
func CompletesCODPayment(method PaymentMethod, next OrderStatus) bool {
	return method == PaymentMethodCOD && next == OrderStatusDelivered
}
