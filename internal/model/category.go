package model

// Category groups products. A product can belong to any number of
// categories and a category can hold any number of products; neither side
// owns the other's lifecycle.
//
// Name uniqueness is case-insensitive only: accents and punctuation remain
// distinguishing, so "Vegano" and "Vegáno" are different categories. The
// matching functional index on LOWER(name) is created in pkg/database.
type Category struct {
	ID       uint      `json:"id" gorm:"primarykey"`
	Name     string    `json:"name" gorm:"type:varchar(100);not null"`
	Products []Product `json:"-" gorm:"many2many:product_categories"`
}
