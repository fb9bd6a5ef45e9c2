package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventario-service/internal/model"
	"inventario-service/internal/store"
)

func TestListCategories(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mock := &MockCategoryStore{
			Categories: []model.Category{
				{ID: 2, Name: "Lácteos"},
				{ID: 1, Name: "Vegano"},
			},
		}
		h := NewCategoryHandler(mock)

		e := newEcho()
		req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, h.ListCategories(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var got []model.Category
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Len(t, got, 2)
	})

	t.Run("Store failure", func(t *testing.T) {
		mock := &MockCategoryStore{ListErr: errors.New("db down")}
		h := NewCategoryHandler(mock)

		e := newEcho()
		req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, h.ListCategories(c))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestCreateCategory(t *testing.T) {
	t.Run("Success trims surrounding spaces", func(t *testing.T) {
		mock := &MockCategoryStore{}
		h := NewCategoryHandler(mock)
		c, rec := postJSON(newEcho(), `{"name":"  Vegano "}`)

		require.NoError(t, h.CreateCategory(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, mock.Created)
		assert.Equal(t, "Vegano", mock.Created.Name)
		assert.Equal(t, "Vegano", mock.LastConflictName)
	})

	t.Run("Case-insensitive duplicate rejected", func(t *testing.T) {
		existing := model.Category{ID: 3, Name: "Vegano"}
		mock := &MockCategoryStore{Conflict: &existing}
		h := NewCategoryHandler(mock)
		c, rec := postJSON(newEcho(), `{"name":"VEGANO"}`)

		require.NoError(t, h.CreateCategory(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Nil(t, mock.Created)
	})

	t.Run("Missing name rejected", func(t *testing.T) {
		mock := &MockCategoryStore{}
		h := NewCategoryHandler(mock)
		e := newEcho()
		c, rec := postJSON(e, `{"name":"   "}`)

		err := h.CreateCategory(c)
		if err != nil {
			e.HTTPErrorHandler(err, c)
		}
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, mock.Created)
	})

	t.Run("Schema backstop conflict maps to 409", func(t *testing.T) {
		mock := &MockCategoryStore{CreateErr: store.ErrDuplicateCategory}
		h := NewCategoryHandler(mock)
		c, rec := postJSON(newEcho(), `{"name":"Vegano"}`)

		require.NoError(t, h.CreateCategory(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestUpdateCategory(t *testing.T) {
	t.Run("Success excludes itself from the conflict check", func(t *testing.T) {
		mock := &MockCategoryStore{
			ByID: map[uint]model.Category{4: {ID: 4, Name: "Vegano"}},
		}
		h := NewCategoryHandler(mock)
		c, rec := postJSON(newEcho(), `{"name":"Vegano Certificado"}`)
		c.SetParamNames("id")
		c.SetParamValues("4")

		require.NoError(t, h.UpdateCategory(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, uint(4), mock.LastConflictExclude)
		require.NotNil(t, mock.Updated)
		assert.Equal(t, "Vegano Certificado", mock.Updated.Name)
	})

	t.Run("Not found", func(t *testing.T) {
		mock := &MockCategoryStore{ByID: map[uint]model.Category{}}
		h := NewCategoryHandler(mock)
		c, rec := postJSON(newEcho(), `{"name":"Vegano"}`)
		c.SetParamNames("id")
		c.SetParamValues("99")

		require.NoError(t, h.UpdateCategory(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Rename onto another category rejected", func(t *testing.T) {
		other := model.Category{ID: 7, Name: "Lácteos"}
		mock := &MockCategoryStore{
			ByID:     map[uint]model.Category{4: {ID: 4, Name: "Vegano"}},
			Conflict: &other,
		}
		h := NewCategoryHandler(mock)
		c, rec := postJSON(newEcho(), `{"name":"lácteos"}`)
		c.SetParamNames("id")
		c.SetParamValues("4")

		require.NoError(t, h.UpdateCategory(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Nil(t, mock.Updated)
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mock := &MockCategoryStore{}
		h := NewCategoryHandler(mock)

		e := newEcho()
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("4")

		require.NoError(t, h.DeleteCategory(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, uint(4), mock.DeletedID)
	})

	t.Run("Refused while products are linked, with the blocking count", func(t *testing.T) {
		mock := &MockCategoryStore{
			DeleteErr: &store.CategoryInUseError{Name: "Vegano", Products: 3},
		}
		h := NewCategoryHandler(mock)

		e := newEcho()
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("4")

		require.NoError(t, h.DeleteCategory(c))
		assert.Equal(t, http.StatusConflict, rec.Code)

		var resp map[string]interface{}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, float64(3), resp["linked_products"])
	})

	t.Run("Not found", func(t *testing.T) {
		mock := &MockCategoryStore{DeleteErr: store.ErrCategoryNotFound}
		h := NewCategoryHandler(mock)

		e := newEcho()
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("99")

		require.NoError(t, h.DeleteCategory(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
