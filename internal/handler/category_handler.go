package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventario-service/internal/model"
	"inventario-service/internal/store"
	"inventario-service/pkg/logger"
	"inventario-service/prometheus"
)

// CategoryRequest defines the structure for category creation/update requests
type CategoryRequest struct {
	Name string `json:"name" form:"name" validate:"required,max=100"`
}

// CategoryProvider is the store surface the category handlers need.
type CategoryProvider interface {
	List() ([]model.Category, error)
	GetByID(id uint) (*model.Category, error)
	FindConflict(name string, excludeID uint) (*model.Category, error)
	Create(category *model.Category) error
	Update(category *model.Category) error
	Delete(id uint) error
}

type CategoryHandler struct {
	categories CategoryProvider
}

func NewCategoryHandler(categories CategoryProvider) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// ListCategories returns every category ordered by name. Callers use this
// to present current category choices right before rendering them.
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	log := logger.FromEcho(c)

	categories, err := h.categories.List()
	if err != nil {
		log.Error("Failed to list categories", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve categories",
		})
	}

	prometheus.RecordCategoryOperation("list")
	return c.JSON(http.StatusOK, categories)
}

// GetCategory retrieves a specific category by ID
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid category id"})
	}

	category, err := h.categories.GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
		}
		log.Error("Failed to get category", zap.Uint("category_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve category"})
	}

	return c.JSON(http.StatusOK, category)
}

// CreateCategory adds a new category unless one with the same name,
// compared case-insensitively, already exists.
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	log := logger.FromEcho(c)

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return err
	}

	existing, err := h.categories.FindConflict(req.Name, 0)
	if err != nil {
		log.Error("Category conflict check failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create category"})
	}
	if existing != nil {
		log.Warn("Category with this name already exists",
			zap.String("name", req.Name),
			zap.Uint("existing_id", existing.ID))
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Category with this name already exists",
		})
	}

	category := model.Category{Name: req.Name}
	if err := h.categories.Create(&category); err != nil {
		if errors.Is(err, store.ErrDuplicateCategory) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "Category with this name already exists",
			})
		}
		log.Error("Failed to create category", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create category"})
	}

	log.Info("Category created successfully",
		zap.Uint("category_id", category.ID),
		zap.String("name", category.Name))
	prometheus.RecordCategoryOperation("create")
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory renames an existing category
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid category id"})
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return err
	}

	category, err := h.categories.GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
		}
		log.Error("Failed to get category for update", zap.Uint("category_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update category"})
	}

	// Re-validating against itself must not count as a conflict.
	existing, err := h.categories.FindConflict(req.Name, category.ID)
	if err != nil {
		log.Error("Category conflict check failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update category"})
	}
	if existing != nil {
		log.Warn("Category with this name already exists",
			zap.String("name", req.Name),
			zap.Uint("existing_id", existing.ID))
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Category with this name already exists",
		})
	}

	oldName := category.Name
	category.Name = req.Name
	if err := h.categories.Update(category); err != nil {
		if errors.Is(err, store.ErrDuplicateCategory) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "Category with this name already exists",
			})
		}
		log.Error("Failed to update category", zap.Uint("category_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update category"})
	}

	log.Info("Category updated successfully",
		zap.Uint("category_id", category.ID),
		zap.String("old_name", oldName),
		zap.String("new_name", category.Name))
	prometheus.RecordCategoryOperation("update")
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category. Deletion is refused while any product
// is still linked to it; the response carries the blocking count.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid category id"})
	}

	if err := h.categories.Delete(id); err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
		}
		var inUse *store.CategoryInUseError
		if errors.As(err, &inUse) {
			log.Warn("Cannot delete category that is being used by products",
				zap.Uint("category_id", id),
				zap.Int64("product_count", inUse.Products))
			return c.JSON(http.StatusConflict, echo.Map{
				"error":           "Cannot delete category that is being used by products",
				"linked_products": inUse.Products,
			})
		}
		log.Error("Failed to delete category", zap.Uint("category_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete category"})
	}

	log.Info("Category deleted successfully", zap.Uint("category_id", id))
	prometheus.RecordCategoryOperation("delete")
	return c.JSON(http.StatusOK, echo.Map{"message": "Category deleted successfully"})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
