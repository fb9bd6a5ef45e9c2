package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"inventario-service/internal/blob"
	"inventario-service/internal/model"
	"inventario-service/internal/normalize"
	"inventario-service/internal/store"
	"inventario-service/pkg/config"
	"inventario-service/pkg/logger"
	"inventario-service/prometheus"
)

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name        string          `json:"name" form:"name" validate:"required,max=150"`
	Brand       string          `json:"brand" form:"brand" validate:"required,max=100"`
	Description string          `json:"description" form:"description" validate:"max=500"`
	Price       decimal.Decimal `json:"price" form:"price"`
	Stock       int             `json:"stock" form:"stock" validate:"gte=0"`
	CategoryIDs []uint          `json:"category_ids" form:"category_ids"`
}

// ListResponse is one page of the catalog plus pagination and search
// outcome metadata.
type ListResponse struct {
	Products   []model.Product  `json:"products"`
	Pagination store.Pagination `json:"pagination"`
	Search     SearchInfo       `json:"search"`
}

// SearchInfo tells the caller what the free-text search did, so "nothing
// matched" can be rendered differently from "search text was meaningless,
// showing everything".
type SearchInfo struct {
	Status  string `json:"status"`
	Key     string `json:"key,omitempty"`
	Message string `json:"message,omitempty"`
}

// ProductProvider is the store surface the product handlers need.
type ProductProvider interface {
	List(params store.ListingParams) (*store.ProductPage, error)
	GetByID(id uint) (*model.Product, error)
	FindConflict(normName, normBrand string, excludeID uint) (*model.Product, error)
	Create(product *model.Product, categoryIDs []uint) error
	Update(product *model.Product, categoryIDs []uint) error
	Delete(id uint) error
}

// ImageStore is the blob store surface for product images.
type ImageStore interface {
	Save(filename string, r io.Reader) (string, error)
	Remove(name string) error
}

type ProductHandler struct {
	products ProductProvider
	images   ImageStore
	catalog  config.CatalogConfig
}

func NewProductHandler(products ProductProvider, images ImageStore, catalog config.CatalogConfig) *ProductHandler {
	return &ProductHandler{products: products, images: images, catalog: catalog}
}

// ListProducts handles the catalog listing: free-text search, AND/OR
// multi-category filtering, allow-listed sorting and pagination. Query
// parameters pass through untrusted; the store resolves them safely.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	log := logger.FromEcho(c)

	params := store.ListingParams{
		Search:     c.QueryParam("q"),
		Combinator: c.QueryParam("logic_type"),
		SortBy:     c.QueryParam("sort_by"),
		Order:      c.QueryParam("order"),
		Page:       1,
		PerPage:    h.catalog.PerPage,
	}

	for _, raw := range c.QueryParams()["categorias_filtro"] {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			params.CategoryIDs = append(params.CategoryIDs, uint(id))
		}
	}

	if raw := c.QueryParam("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page >= 1 {
			params.Page = page
		}
	}
	if raw := c.QueryParam("per_page"); raw != "" {
		if perPage, err := strconv.Atoi(raw); err == nil && perPage >= 1 {
			if perPage > h.catalog.MaxPerPage {
				perPage = h.catalog.MaxPerPage
			}
			params.PerPage = perPage
		}
	}

	page, err := h.products.List(params)
	if err != nil {
		log.Error("Failed to list products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve products",
		})
	}

	log.Info("Products listed",
		zap.Int("count", len(page.Items)),
		zap.String("search_status", string(page.Search)),
		zap.Int("page", page.Pagination.Page))
	prometheus.RecordCatalogSearch(string(page.Search))

	return c.JSON(http.StatusOK, ListResponse{
		Products:   page.Items,
		Pagination: page.Pagination,
		Search:     searchInfo(page),
	})
}

func searchInfo(page *store.ProductPage) SearchInfo {
	info := SearchInfo{Status: string(page.Search), Key: page.SearchKey}
	switch page.Search {
	case store.SearchResults:
		info.Message = fmt.Sprintf("Showing results for %q.", page.SearchKey)
	case store.SearchNoResults:
		info.Message = fmt.Sprintf("No products found for %q.", page.SearchKey)
	case store.SearchMeaningless:
		info.Message = "Search had no usable characters, showing all products."
	}
	return info
}

// GetProduct handles retrieving a single product by ID
func (h *ProductHandler) GetProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid product id"})
	}

	product, err := h.products.GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
		}
		log.Error("Failed to get product", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve product"})
	}

	return c.JSON(http.StatusOK, product)
}

// CreateProduct validates the request, rejects duplicates of the
// normalized (name, brand) pair, stores the optional image and writes the
// product with its category links in one transaction. A failed write
// removes the already-saved image so no orphan blob is left behind.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	req, normName, normBrand, err := h.bindProductRequest(c)
	if req == nil {
		// Response already written (or a validator error to surface).
		return err
	}

	existing, err := h.products.FindConflict(normName, normBrand, 0)
	if err != nil {
		log.Error("Product conflict check failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create product"})
	}
	if existing != nil {
		log.Warn("Product with this name and brand already exists",
			zap.String("name", req.Name),
			zap.String("brand", req.Brand),
			zap.Uint("existing_id", existing.ID))
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Product with this name and brand already exists",
		})
	}

	imageName, err := h.saveImage(c)
	if err != nil {
		return h.imageError(c, err)
	}

	product := model.Product{
		Name:        req.Name,
		Brand:       req.Brand,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageName:   imageName,
	}

	if err := h.products.Create(&product, req.CategoryIDs); err != nil {
		// The image was already on disk; an aborted write must not
		// leave a product-less blob behind.
		h.removeImage(c, imageName)
		if errors.Is(err, store.ErrDuplicateProduct) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "Product with this name and brand already exists",
			})
		}
		log.Error("Failed to create product",
			zap.String("name", req.Name),
			zap.String("brand", req.Brand),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create product"})
	}

	log.Info("Product created successfully",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.String("brand", product.Brand))
	prometheus.RecordProductOperation("create")
	prometheus.UpdateProductInventory(strconv.FormatUint(uint64(product.ID), 10), product.Name, float64(product.Stock))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct re-validates an edited product against every product but
// itself, replaces its category links atomically and swaps the stored
// image only after the write commits.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid product id"})
	}

	product, err := h.products.GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
		}
		log.Error("Failed to get product for update", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update product"})
	}

	req, normName, normBrand, err := h.bindProductRequest(c)
	if req == nil {
		return err
	}

	existing, err := h.products.FindConflict(normName, normBrand, product.ID)
	if err != nil {
		log.Error("Product conflict check failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update product"})
	}
	if existing != nil {
		log.Warn("Another product with this name and brand already exists",
			zap.String("name", req.Name),
			zap.String("brand", req.Brand),
			zap.Uint("existing_id", existing.ID))
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Another product with this name and brand already exists",
		})
	}

	newImage, err := h.saveImage(c)
	if err != nil {
		return h.imageError(c, err)
	}

	oldImage := product.ImageName
	product.Name = req.Name
	product.Brand = req.Brand
	product.Description = req.Description
	product.Price = req.Price
	product.Stock = req.Stock
	if newImage != "" {
		product.ImageName = newImage
	}

	if err := h.products.Update(product, req.CategoryIDs); err != nil {
		h.removeImage(c, newImage)
		if errors.Is(err, store.ErrDuplicateProduct) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "Another product with this name and brand already exists",
			})
		}
		log.Error("Failed to update product", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update product"})
	}

	// Only drop the replaced blob once the row is committed.
	if newImage != "" && oldImage != "" {
		h.removeImage(c, oldImage)
	}

	log.Info("Product updated successfully",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.String("brand", product.Brand))
	prometheus.RecordProductOperation("update")
	prometheus.UpdateProductInventory(strconv.FormatUint(uint64(product.ID), 10), product.Name, float64(product.Stock))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct removes the product row, its category links and its image
// blob, if any.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid product id"})
	}

	product, err := h.products.GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
		}
		log.Error("Failed to get product for deletion", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete product"})
	}

	if err := h.products.Delete(id); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
		}
		log.Error("Failed to delete product", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete product"})
	}

	h.removeImage(c, product.ImageName)

	log.Info("Product deleted successfully",
		zap.Uint("product_id", id),
		zap.String("name", product.Name))
	prometheus.RecordProductOperation("delete")
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

// bindProductRequest binds and validates the shared create/update payload
// and derives the normalized keys the uniqueness check runs on. A name or
// brand that normalizes to nothing cannot participate in the uniqueness
// invariant and is rejected per-field.
func (h *ProductHandler) bindProductRequest(c echo.Context) (*ProductRequest, string, string, error) {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return nil, "", "", c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return nil, "", "", err
	}
	if req.Price.LessThanOrEqual(decimal.Zero) {
		return nil, "", "", c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Price must be greater than 0",
			"field": "price",
		})
	}

	normName, ok := normalize.Key(req.Name)
	if !ok {
		return nil, "", "", c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Name must contain letters or digits",
			"field": "name",
		})
	}
	normBrand, ok := normalize.Key(req.Brand)
	if !ok {
		return nil, "", "", c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Brand must contain letters or digits",
			"field": "brand",
		})
	}
	return &req, normName, normBrand, nil
}

// saveImage stores an uploaded image, if the request carries one, and
// returns its generated name. No file at all is not an error.
func (h *ProductHandler) saveImage(c echo.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name, err := h.images.Save(file.Filename, src)
	if err != nil {
		prometheus.RecordImageUpload("rejected")
		return "", err
	}
	prometheus.RecordImageUpload("saved")
	return name, nil
}

func (h *ProductHandler) imageError(c echo.Context, err error) error {
	if errors.Is(err, blob.ErrExtensionNotAllowed) || errors.Is(err, blob.ErrEmptyFilename) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Image must be a .png, .jpg, .jpeg or .gif file",
			"field": "image",
		})
	}
	logger.FromEcho(c).Error("Failed to store product image", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to store image"})
}

func (h *ProductHandler) removeImage(c echo.Context, name string) {
	if name == "" {
		return
	}
	if err := h.images.Remove(name); err != nil {
		logger.FromEcho(c).Warn("Failed to remove product image",
			zap.String("image_name", name),
			zap.Error(err))
	}
}
