package store

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inventario-service/internal/model"
	"inventario-service/internal/normalize"
)

// ProductStore runs all product reads and writes against the database.
// Multi-step writes (product row plus category links) happen in a single
// transaction so a partial product is never durably visible.
type ProductStore struct {
	db *gorm.DB
}

func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

// ProductPage is one window of the filtered catalog plus the metadata the
// caller needs to render pagination and the search outcome.
type ProductPage struct {
	Items      []model.Product
	Pagination Pagination
	Search     SearchStatus
	SearchKey  string
}

// List composes the catalog query: free-text search over the normalized
// name/brand columns, multi-category filtering with AND/OR semantics,
// allow-listed sorting and 1-indexed pagination. All active filters
// combine with logical AND; sorting is applied even with no filters.
func (s *ProductStore) List(p ListingParams) (*ProductPage, error) {
	query := s.db.Model(&model.Product{}).Preload("Categories")

	status := SearchNone
	searchKey := ""
	if p.Search != "" {
		key, ok := normalize.Key(p.Search)
		if ok {
			// Normalization already folded case and accents, so a
			// plain LIKE substring match is exact here.
			searchKey = key
			pattern := "%" + key + "%"
			query = query.Where("normalized_name LIKE ? OR normalized_brand LIKE ?", pattern, pattern)
			status = SearchResults
		} else {
			// Nothing meaningful remained. Filtering on an empty key
			// would match every row, so skip the filter and tell the
			// caller why everything is being shown.
			status = SearchMeaningless
		}
	}

	// The search outcome is settled before category filters narrow the
	// page: a search that matched something still reads "results" even
	// when every match is filtered out below.
	if status == SearchResults {
		var matched int64
		if err := query.Session(&gorm.Session{}).Count(&matched).Error; err != nil {
			return nil, err
		}
		if matched == 0 {
			status = SearchNoResults
		}
	}

	for _, cond := range categoryConditions(p.Combinator, p.CategoryIDs) {
		query = query.Where(cond.sql, cond.arg)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	meta := paginate(p.Page, p.PerPage, total)
	offset := (meta.Page - 1) * meta.PerPage

	var items []model.Product
	if err := query.
		Order(sortColumn(p.SortBy) + " " + sortDirection(p.Order)).
		Offset(offset).
		Limit(meta.PerPage).
		Find(&items).Error; err != nil {
		return nil, err
	}

	return &ProductPage{
		Items:      items,
		Pagination: meta,
		Search:     status,
		SearchKey:  searchKey,
	}, nil
}

// GetByID fetches a product with its categories, failing hard when the id
// does not exist. A missing id is an error here, unlike an empty listing.
func (s *ProductStore) GetByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := s.db.Preload("Categories").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindConflict looks up a product whose stored normalized keys both equal
// the given ones. Exact match only: normalization already handled case and
// accent folding. A product with excludeID is never a conflict, which lets
// an edited product re-validate against itself.
func (s *ProductStore) FindConflict(normName, normBrand string, excludeID uint) (*model.Product, error) {
	query := s.db.Where("normalized_name = ? AND normalized_brand = ?", normName, normBrand)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var product model.Product
	if err := query.First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Create inserts the product and its category links in one transaction.
func (s *ProductStore) Create(product *model.Product, categoryIDs []uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		categories, err := categoriesByID(tx, categoryIDs)
		if err != nil {
			return err
		}
		product.Categories = categories

		if err := tx.Create(product).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateProduct
			}
			return err
		}
		return nil
	})
}

// Update saves the product's scalar fields and replaces its category links
// atomically. The normalized keys are recomputed by the model's BeforeSave
// hook inside the same transaction.
func (s *ProductStore) Update(product *model.Product, categoryIDs []uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		categories, err := categoriesByID(tx, categoryIDs)
		if err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Save(product).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateProduct
			}
			return err
		}
		if err := tx.Model(product).Association("Categories").Replace(categories); err != nil {
			return err
		}
		product.Categories = categories
		return nil
	})
}

// Delete removes the product and its category links. Categories themselves
// are untouched; the association is non-owning.
func (s *ProductStore) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if err := tx.Model(&product).Association("Categories").Clear(); err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
}

func categoriesByID(tx *gorm.DB, ids []uint) ([]model.Category, error) {
	if len(ids) == 0 {
		return []model.Category{}, nil
	}
	var categories []model.Category
	if err := tx.Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
