package store

// Combinator values for multi-category filtering. Only the exact value
// "or" selects union semantics; anything else, including an absent
// combinator, means a product must be linked to every listed category.
const (
	CombinatorAll = "and"
	CombinatorAny = "or"
)

// DefaultPerPage matches the catalog grid size.
const DefaultPerPage = 21

// SearchStatus tells the caller what the free-text search did, so an
// empty page can be presented differently from a search whose input had
// no meaningful characters (which is not filtered at all).
type SearchStatus string

const (
	SearchNone        SearchStatus = "none"
	SearchResults     SearchStatus = "results"
	SearchNoResults   SearchStatus = "no_results"
	SearchMeaningless SearchStatus = "meaningless"
)

// ListingParams carries the raw, untrusted listing inputs. The store
// normalizes the search text, resolves the sort key against an allow-list
// and clamps the page; callers pass query parameters through as-is.
type ListingParams struct {
	Search      string
	CategoryIDs []uint
	Combinator  string
	SortBy      string
	Order       string
	Page        int
	PerPage     int
}

// Pagination describes the returned window of the filtered result set.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// sortColumns is the allow-list mapping caller-facing sort keys to store
// columns. Sort input comes straight from query parameters and must never
// name an arbitrary column; anything outside the map falls back to id.
// Name and brand sort on the normalized columns so ordering ignores case
// and accents.
var sortColumns = map[string]string{
	"id":     "products.id",
	"nombre": "products.normalized_name",
	"marca":  "products.normalized_brand",
	"precio": "products.price",
	"stock":  "products.stock",
}

func sortColumn(key string) string {
	if col, ok := sortColumns[key]; ok {
		return col
	}
	return "products.id"
}

func sortDirection(order string) string {
	if order == "desc" {
		return "DESC"
	}
	return "ASC"
}

type categoryCondition struct {
	sql string
	arg interface{}
}

// categoryConditions turns the category id set and combinator into
// existence filters over the join table. ALL-of emits one filter per id,
// so a product must be linked to every listed category; ANY-of emits a
// single filter over the whole set. An empty id set means no category
// filtering at all, never "match nothing".
func categoryConditions(combinator string, ids []uint) []categoryCondition {
	if len(ids) == 0 {
		return nil
	}
	if combinator == CombinatorAny {
		return []categoryCondition{{
			sql: "EXISTS (SELECT 1 FROM product_categories pc WHERE pc.product_id = products.id AND pc.category_id IN ?)",
			arg: ids,
		}}
	}
	conds := make([]categoryCondition, 0, len(ids))
	for _, id := range ids {
		conds = append(conds, categoryCondition{
			sql: "EXISTS (SELECT 1 FROM product_categories pc WHERE pc.product_id = products.id AND pc.category_id = ?)",
			arg: id,
		})
	}
	return conds
}

// paginate computes the window metadata. Pages are 1-indexed; a page
// beyond the last one is valid and simply yields an empty item slice.
func paginate(page, perPage int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
