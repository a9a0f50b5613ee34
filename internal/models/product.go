// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Category struct {
	BaseModel
	Name string `json:"name" gorm:"uniqueIndex;size:100;not null"`
}

type Color struct {
	BaseModel
	Name    string `json:"name" gorm:"uniqueIndex;size:50;not null"`
	HexCode string `json:"hex_code" gorm:"size:7"`
}

type Size struct {
	BaseModel
	Name      string `json:"name" gorm:"uniqueIndex;size:20;not null"`
	SortOrder int    `json:"sort_order" gorm:"default:0"`
}

type Product struct {
	BaseModel
	Title            string         `json:"title" gorm:"size:255;not null"`
	Description      string         `json:"description" gorm:"type:text"`
	CategoryID       uuid.UUID      `json:"category_id" gorm:"type:uuid;not null;index"`
	Price            float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	Images           pq.StringArray `json:"images" gorm:"type:text[]"`
	Tags             pq.StringArray `json:"tags" gorm:"type:text[]"`
	Status           ProductStatus  `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	AvailableForSale bool           `json:"available_for_sale" gorm:"default:false;index"`

	// Relationships
	Category Category         `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Variants []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// ProductVariant tracks stock per (product, color, size) combination.
type ProductVariant struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_variant_combination"`
	ColorID   uuid.UUID `json:"color_id" gorm:"type:uuid;not null;uniqueIndex:idx_variant_combination"`
	SizeID    uuid.UUID `json:"size_id" gorm:"type:uuid;not null;uniqueIndex:idx_variant_combination"`
	Stock     int       `json:"stock" gorm:"not null;default:0;check:stock >= 0"`

	// Relationships
	Color Color `json:"color,omitempty" gorm:"foreignKey:ColorID"`
	Size  Size  `json:"size,omitempty" gorm:"foreignKey:SizeID"`
}

// TotalInventory is the derived aggregate over the loaded variant set.
func (p *Product) TotalInventory() int {
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}
