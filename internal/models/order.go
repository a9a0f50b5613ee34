// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

// ShippingAddress is a denormalized snapshot taken at order time, not a live
// reference to an address record.
type ShippingAddress struct {
	FullName   string `json:"full_name" gorm:"size:255"`
	Line1      string `json:"line1" gorm:"size:255"`
	Line2      string `json:"line2,omitempty" gorm:"size:255"`
	City       string `json:"city" gorm:"size:100"`
	State      string `json:"state" gorm:"size:100"`
	PostalCode string `json:"postal_code" gorm:"size:20"`
	Country    string `json:"country" gorm:"size:100"`
	Phone      string `json:"phone" gorm:"size:30"`
}

// PaymentDetails holds the processor charge reference and masked card
// metadata. Present only for card payments.
type PaymentDetails struct {
	StripePaymentID string `json:"stripe_payment_id,omitempty" gorm:"size:255"`
	CardBrand       string `json:"card_brand,omitempty" gorm:"size:20"`
	CardLast4       string `json:"card_last4,omitempty" gorm:"size:4"`
}

type Order struct {
	BaseModel
	OrderNumber     string          `json:"order_number" gorm:"uniqueIndex;size:20;not null"`
	CustomerID      uuid.UUID       `json:"customer_id" gorm:"type:uuid;not null;index"`
	OrderStatus     OrderStatus     `json:"order_status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentMethod   PaymentMethod   `json:"payment_method" gorm:"type:varchar(10);not null"`
	PaymentStatus   PaymentStatus   `json:"payment_status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentDetails  PaymentDetails  `json:"payment_details" gorm:"embedded;embeddedPrefix:payment_"`
	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"embedded;embeddedPrefix:shipping_"`
	TotalAmount     float64         `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	ShippingCost    float64         `json:"shipping_cost" gorm:"type:decimal(10,2);not null;default:0"`
	TrackingNumber  string          `json:"tracking_number,omitempty" gorm:"size:100"`

	// Relationships
	Customer User        `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Items    []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem snapshots the unit price at order time; later product price edits
// do not touch existing orders.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	ColorID   uuid.UUID `json:"color_id" gorm:"type:uuid;not null"`
	SizeID    uuid.UUID `json:"size_id" gorm:"type:uuid;not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Price     float64   `json:"price" gorm:"type:decimal(10,2);not null"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Color   Color   `json:"color,omitempty" gorm:"foreignKey:ColorID"`
	Size    Size    `json:"size,omitempty" gorm:"foreignKey:SizeID"`
}
