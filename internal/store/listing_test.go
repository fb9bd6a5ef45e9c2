package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortColumn(t *testing.T) {
	testCases := []struct {
		name     string
		key      string
		expected string
	}{
		{"id maps to id", "id", "products.id"},
		{"nombre maps to normalized name", "nombre", "products.normalized_name"},
		{"marca maps to normalized brand", "marca", "products.normalized_brand"},
		{"precio maps to price", "precio", "products.price"},
		{"stock maps to stock", "stock", "products.stock"},
		{"unknown key falls back to id", "fecha_creacion", "products.id"},
		{"empty key falls back to id", "", "products.id"},
		{"injection attempt falls back to id", "id; DROP TABLE products--", "products.id"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, sortColumn(tc.key))
		})
	}
}

func TestSortDirection(t *testing.T) {
	assert.Equal(t, "DESC", sortDirection("desc"))
	assert.Equal(t, "ASC", sortDirection("asc"))
	assert.Equal(t, "ASC", sortDirection(""))
	// Only the exact descending marker flips the order.
	assert.Equal(t, "ASC", sortDirection("DESC"))
	assert.Equal(t, "ASC", sortDirection("descending"))
}

func TestCategoryConditions(t *testing.T) {
	t.Run("Empty id set means no filtering", func(t *testing.T) {
		assert.Nil(t, categoryConditions(CombinatorAll, nil))
		assert.Nil(t, categoryConditions(CombinatorAny, []uint{}))
	})

	t.Run("ALL-of emits one existence filter per id", func(t *testing.T) {
		conds := categoryConditions(CombinatorAll, []uint{1, 2, 3})
		assert.Len(t, conds, 3)
		for i, id := range []uint{1, 2, 3} {
			assert.Contains(t, conds[i].sql, "pc.category_id = ?")
			assert.Equal(t, id, conds[i].arg)
		}
	})

	t.Run("ANY-of emits a single filter over the whole set", func(t *testing.T) {
		conds := categoryConditions(CombinatorAny, []uint{1, 2, 3})
		assert.Len(t, conds, 1)
		assert.Contains(t, conds[0].sql, "pc.category_id IN ?")
		assert.Equal(t, []uint{1, 2, 3}, conds[0].arg)
	})

	t.Run("Unrecognized combinator defaults to ALL-of", func(t *testing.T) {
		assert.Len(t, categoryConditions("", []uint{1, 2}), 2)
		assert.Len(t, categoryConditions("xor", []uint{1, 2}), 2)
		assert.Len(t, categoryConditions("OR", []uint{1, 2}), 2)
	})
}

func TestPaginate(t *testing.T) {
	testCases := []struct {
		name    string
		page    int
		perPage int
		total   int64
		want    Pagination
	}{
		{
			name: "First page of an exact multiple",
			page: 1, perPage: 21, total: 42,
			want: Pagination{Page: 1, PerPage: 21, TotalItems: 42, TotalPages: 2},
		},
		{
			name: "Partial last page rounds up",
			page: 2, perPage: 21, total: 43,
			want: Pagination{Page: 2, PerPage: 21, TotalItems: 43, TotalPages: 3},
		},
		{
			name: "Page beyond the last keeps its number and correct totals",
			page: 99, perPage: 10, total: 15,
			want: Pagination{Page: 99, PerPage: 10, TotalItems: 15, TotalPages: 2},
		},
		{
			name: "Zero page clamps to 1",
			page: 0, perPage: 10, total: 5,
			want: Pagination{Page: 1, PerPage: 10, TotalItems: 5, TotalPages: 1},
		},
		{
			name: "Negative page clamps to 1",
			page: -3, perPage: 10, total: 5,
			want: Pagination{Page: 1, PerPage: 10, TotalItems: 5, TotalPages: 1},
		},
		{
			name: "Zero per-page falls back to the default",
			page: 1, perPage: 0, total: 22,
			want: Pagination{Page: 1, PerPage: DefaultPerPage, TotalItems: 22, TotalPages: 2},
		},
		{
			name: "Empty result set has zero pages",
			page: 1, perPage: 21, total: 0,
			want: Pagination{Page: 1, PerPage: 21, TotalItems: 0, TotalPages: 0},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, paginate(tc.page, tc.perPage, tc.total))
		})
	}
}
