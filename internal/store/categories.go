package store

import (
	"errors"

	"gorm.io/gorm"

	"inventario-service/internal/model"
)

// CategoryStore runs category reads and writes against the database.
type CategoryStore struct {
	db *gorm.DB
}

func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// List returns every category ordered by name. Callers use this to present
// current category choices; there is no caching in between.
func (s *CategoryStore) List() ([]model.Category, error) {
	var categories []model.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryStore) GetByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindConflict looks up a category with the same name under
// case-insensitive comparison. Category names do not go through the
// search-key normalizer; accents and punctuation remain distinguishing
// and only letter case is folded.
func (s *CategoryStore) FindConflict(name string, excludeID uint) (*model.Category, error) {
	query := s.db.Where("LOWER(name) = LOWER(?)", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var category model.Category
	if err := query.First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (s *CategoryStore) Create(category *model.Category) error {
	if err := s.db.Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateCategory
		}
		return err
	}
	return nil
}

func (s *CategoryStore) Update(category *model.Category) error {
	if err := s.db.Save(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateCategory
		}
		return err
	}
	return nil
}

// Delete removes a category unless any product still references it, in
// which case it refuses with the blocking count and changes nothing.
func (s *CategoryStore) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var category model.Category
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}

		var linked int64
		if err := tx.Table("product_categories").
			Where("category_id = ?", id).
			Count(&linked).Error; err != nil {
			return err
		}
		if linked > 0 {
			return &CategoryInUseError{Name: category.Name, Products: linked}
		}

		return tx.Delete(&category).Error
	})
}
