package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"inventario-service/internal/normalize"
)

// Product represents an item in the inventory catalog.
//
// NormalizedName and NormalizedBrand are derived search keys. They are
// recomputed from Name/Brand on every save (see BeforeSave) and never
// written independently; the composite unique index on the pair enforces
// the one-product-per-normalized-name+brand invariant at the schema level
// as a backstop for the application-level pre-check.
type Product struct {
	ID              uint            `json:"id" gorm:"primarykey"`
	Name            string          `json:"name" gorm:"type:varchar(150);not null"`
	NormalizedName  string          `json:"-" gorm:"type:varchar(150);not null;uniqueIndex:uq_products_name_brand"`
	Brand           string          `json:"brand" gorm:"type:varchar(100);not null"`
	NormalizedBrand string          `json:"-" gorm:"type:varchar(150);not null;uniqueIndex:uq_products_name_brand"`
	Description     string          `json:"description" gorm:"type:text"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock           int             `json:"stock" gorm:"not null;default:0"`
	ImageName       string          `json:"image_name" gorm:"type:varchar(255)"`
	Categories      []Category      `json:"categories" gorm:"many2many:product_categories"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BeforeSave keeps the derived search keys consistent with Name and Brand
// inside the same transaction that writes them.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.NormalizedName, _ = normalize.Key(p.Name)
	p.NormalizedBrand, _ = normalize.Key(p.Brand)
	return nil
}
