package handler

import (
	"io"

	"inventario-service/internal/model"
	"inventario-service/internal/store"
)

// --- Mock product store ---

type MockProductStore struct {
	Page     *store.ProductPage
	ListErr  error
	Products map[uint]model.Product
	Conflict *model.Product

	ConflictErr error
	CreateErr   error
	UpdateErr   error
	DeleteErr   error

	// Captured call arguments
	LastListParams      store.ListingParams
	LastConflictName    string
	LastConflictBrand   string
	LastConflictExclude uint
	CreatedProduct      *model.Product
	CreatedCategoryIDs  []uint
	UpdatedProduct      *model.Product
	UpdatedCategoryIDs  []uint
	DeletedID           uint
}

func (m *MockProductStore) List(params store.ListingParams) (*store.ProductPage, error) {
	m.LastListParams = params
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if m.Page != nil {
		return m.Page, nil
	}
	return &store.ProductPage{
		Items:      []model.Product{},
		Pagination: store.Pagination{Page: params.Page, PerPage: params.PerPage},
		Search:     store.SearchNone,
	}, nil
}

func (m *MockProductStore) GetByID(id uint) (*model.Product, error) {
	if p, ok := m.Products[id]; ok {
		product := p
		return &product, nil
	}
	return nil, store.ErrProductNotFound
}

func (m *MockProductStore) FindConflict(normName, normBrand string, excludeID uint) (*model.Product, error) {
	m.LastConflictName = normName
	m.LastConflictBrand = normBrand
	m.LastConflictExclude = excludeID
	if m.ConflictErr != nil {
		return nil, m.ConflictErr
	}
	return m.Conflict, nil
}

func (m *MockProductStore) Create(product *model.Product, categoryIDs []uint) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	product.ID = 1
	m.CreatedProduct = product
	m.CreatedCategoryIDs = categoryIDs
	return nil
}

func (m *MockProductStore) Update(product *model.Product, categoryIDs []uint) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.UpdatedProduct = product
	m.UpdatedCategoryIDs = categoryIDs
	return nil
}

func (m *MockProductStore) Delete(id uint) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Products[id]; !ok {
		return store.ErrProductNotFound
	}
	m.DeletedID = id
	return nil
}

// --- Mock image store ---

type MockImageStore struct {
	SaveErr   error
	SavedName string

	Saved   []string
	Removed []string
}

func (m *MockImageStore) Save(filename string, r io.Reader) (string, error) {
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	name := m.SavedName
	if name == "" {
		name = "generated.png"
	}
	m.Saved = append(m.Saved, name)
	return name, nil
}

func (m *MockImageStore) Remove(name string) error {
	m.Removed = append(m.Removed, name)
	return nil
}

// --- Mock category store ---

type MockCategoryStore struct {
	Categories []model.Category
	ListErr    error
	ByID       map[uint]model.Category
	Conflict   *model.Category

	ConflictErr error
	CreateErr   error
	UpdateErr   error
	DeleteErr   error

	LastConflictName    string
	LastConflictExclude uint
	Created             *model.Category
	Updated             *model.Category
	DeletedID           uint
}

func (m *MockCategoryStore) List() ([]model.Category, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Categories, nil
}

func (m *MockCategoryStore) GetByID(id uint) (*model.Category, error) {
	if c, ok := m.ByID[id]; ok {
		category := c
		return &category, nil
	}
	return nil, store.ErrCategoryNotFound
}

func (m *MockCategoryStore) FindConflict(name string, excludeID uint) (*model.Category, error) {
	m.LastConflictName = name
	m.LastConflictExclude = excludeID
	if m.ConflictErr != nil {
		return nil, m.ConflictErr
	}
	return m.Conflict, nil
}

func (m *MockCategoryStore) Create(category *model.Category) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	category.ID = 1
	m.Created = category
	return nil
}

func (m *MockCategoryStore) Update(category *model.Category) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.Updated = category
	return nil
}

func (m *MockCategoryStore) Delete(id uint) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.DeletedID = id
	return nil
}
