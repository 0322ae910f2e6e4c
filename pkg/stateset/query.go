package stateset

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// FilterOperator is a comparison operator used in query filters.
type FilterOperator string

const (
	OpEquals             FilterOperator = "eq"
	OpNotEquals          FilterOperator = "ne"
	OpGreaterThan        FilterOperator = "gt"
	OpGreaterThanOrEqual FilterOperator = "gte"
	OpLessThan           FilterOperator = "lt"
	OpLessThanOrEqual    FilterOperator = "lte"
	OpLike               FilterOperator = "like"
	OpIn                 FilterOperator = "in"
)

// SortDirection orders a sort key ascending or descending.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// FilterClause is a single field comparison.
type FilterClause struct {
	Field    string         `json:"field" yaml:"field"`
	Operator FilterOperator `json:"operator" yaml:"operator"`
	Value    string         `json:"value" yaml:"value"`
}

// SortClause is a single sort key with its direction.
type SortClause struct {
	Field     string        `json:"field" yaml:"field"`
	Direction SortDirection `json:"direction" yaml:"direction"`
}

// Query is an immutable list-query descriptor. Every builder method
// returns a new value and leaves the receiver untouched, so a Query can
// be shared across goroutines and reused as a base for derived queries
// without synchronization.
//
// Adding a filter for a field/operator pair that is already present
// replaces the earlier clause. SortBy replaces the whole sort sequence.
type Query struct {
	filters []FilterClause
	sorts   []SortClause
	search  string
	page    int
	perPage int
	cursor  string
	fields  []string
}

// NewQuery returns an empty query.
func NewQuery() Query {
	return Query{}
}

// Filter adds a field comparison. A clause with the same field and
// operator as an existing one replaces it; clauses on the same field
// with different operators coexist (for example a gte and an lte bound).
func (q Query) Filter(field string, op FilterOperator, value string) Query {
	filters := make([]FilterClause, 0, len(q.filters)+1)

	replaced := false

	for _, f := range q.filters {
		if f.Field == field && f.Operator == op {
			filters = append(filters, FilterClause{Field: field, Operator: op, Value: value})
			replaced = true

			continue
		}

		filters = append(filters, f)
	}

	if !replaced {
		filters = append(filters, FilterClause{Field: field, Operator: op, Value: value})
	}

	q.filters = filters

	return q
}

// Where is shorthand for an equality filter.
func (q Query) Where(field, value string) Query {
	return q.Filter(field, OpEquals, value)
}

// SortBy sets the sort sequence to the given keys, replacing any sort
// set earlier.
func (q Query) SortBy(field string, direction SortDirection, then ...SortClause) Query {
	sorts := make([]SortClause, 0, len(then)+1)
	sorts = append(sorts, SortClause{Field: field, Direction: direction})
	sorts = append(sorts, then...)

	q.sorts = sorts

	return q
}

// Search sets a free-text search term.
func (q Query) Search(term string) Query {
	q.search = term

	return q
}

// Page sets the page number, starting at 1.
func (q Query) Page(page int) Query {
	q.page = page

	return q
}

// PerPage sets the page size.
func (q Query) PerPage(perPage int) Query {
	q.perPage = perPage

	return q
}

// Limit is an alias for PerPage kept for API familiarity.
func (q Query) Limit(limit int) Query {
	return q.PerPage(limit)
}

// Cursor sets an opaque pagination cursor. A cursor and a page number
// may both be present; the server prefers the cursor.
func (q Query) Cursor(cursor string) Query {
	q.cursor = cursor

	return q
}

// Select restricts the fields returned for each record, replacing any
// earlier selection.
func (q Query) Select(fields ...string) Query {
	q.fields = append([]string(nil), fields...)

	return q
}

// CreatedAfter filters to records created at or after t.
func (q Query) CreatedAfter(t time.Time) Query {
	return q.Filter("created_at", OpGreaterThanOrEqual, t.UTC().Format(time.RFC3339))
}

// CreatedBefore filters to records created at or before t.
func (q Query) CreatedBefore(t time.Time) Query {
	return q.Filter("created_at", OpLessThanOrEqual, t.UTC().Format(time.RFC3339))
}

// Filters returns a copy of the filter clauses in insertion order.
func (q Query) Filters() []FilterClause {
	return append([]FilterClause(nil), q.filters...)
}

// Sorts returns a copy of the sort clauses.
func (q Query) Sorts() []SortClause {
	return append([]SortClause(nil), q.sorts...)
}

// PageNumber returns the requested page number, 0 when unset.
func (q Query) PageNumber() int { return q.page }

// PageSize returns the requested page size, 0 when unset.
func (q Query) PageSize() int { return q.perPage }

// CursorValue returns the pagination cursor, empty when unset.
func (q Query) CursorValue() string { return q.cursor }

// ToValues serializes the query into URL values. The serialization is
// deterministic: equal queries always produce identical values, and
// filters render in insertion order. Equality filters render as
// "field=value", all other operators as "field[op]=value".
func (q Query) ToValues() url.Values {
	values := url.Values{}

	for _, f := range q.filters {
		key := f.Field
		if f.Operator != OpEquals {
			key = f.Field + "[" + string(f.Operator) + "]"
		}

		values.Set(key, f.Value)
	}

	if len(q.sorts) > 0 {
		sortFields := make([]string, 0, len(q.sorts))
		sortOrders := make([]string, 0, len(q.sorts))

		for _, s := range q.sorts {
			sortFields = append(sortFields, s.Field)

			dir := s.Direction
			if dir == "" {
				dir = SortAscending
			}

			sortOrders = append(sortOrders, string(dir))
		}

		values.Set("sort_by", strings.Join(sortFields, ","))
		values.Set("sort_order", strings.Join(sortOrders, ","))
	}

	if q.search != "" {
		values.Set("search", q.search)
	}

	if q.page > 0 {
		values.Set("page", strconv.Itoa(q.page))
	}

	if q.perPage > 0 {
		values.Set("per_page", strconv.Itoa(q.perPage))
	}

	if q.cursor != "" {
		values.Set("cursor", q.cursor)
	}

	if len(q.fields) > 0 {
		values.Set("fields", strings.Join(q.fields, ","))
	}

	return values
}

// ToMap flattens the query into a plain string map, useful for cache
// key construction.
func (q Query) ToMap() map[string]string {
	out := make(map[string]string)

	for key, vals := range q.ToValues() {
		out[key] = strings.Join(vals, ",")
	}

	return out
}

// ListPageFunc fetches one page of results for a query.
type ListPageFunc[T any] func(ctx context.Context, query Query) (*Page[T], error)

// Executor binds a Query to a resource's list operation and provides
// the terminal operations that actually talk to the API. Like Query it
// has value semantics: builder methods return derived executors.
type Executor[T any] struct {
	query Query
	fetch ListPageFunc[T]
}

// NewExecutor builds an executor over the given page fetcher.
func NewExecutor[T any](query Query, fetch ListPageFunc[T]) Executor[T] {
	return Executor[T]{query: query, fetch: fetch}
}

// Query returns the descriptor the executor will run.
func (e Executor[T]) Query() Query { return e.query }

// Filter derives an executor with an added filter clause.
func (e Executor[T]) Filter(field string, op FilterOperator, value string) Executor[T] {
	e.query = e.query.Filter(field, op, value)

	return e
}

// Where derives an executor with an added equality filter.
func (e Executor[T]) Where(field, value string) Executor[T] {
	e.query = e.query.Where(field, value)

	return e
}

// SortBy derives an executor with the sort sequence replaced.
func (e Executor[T]) SortBy(field string, direction SortDirection, then ...SortClause) Executor[T] {
	e.query = e.query.SortBy(field, direction, then...)

	return e
}

// Search derives an executor with a search term.
func (e Executor[T]) Search(term string) Executor[T] {
	e.query = e.query.Search(term)

	return e
}

// Page derives an executor positioned at the given page.
func (e Executor[T]) Page(page int) Executor[T] {
	e.query = e.query.Page(page)

	return e
}

// PerPage derives an executor with the given page size.
func (e Executor[T]) PerPage(perPage int) Executor[T] {
	e.query = e.query.PerPage(perPage)

	return e
}

// Select derives an executor with a field selection.
func (e Executor[T]) Select(fields ...string) Executor[T] {
	e.query = e.query.Select(fields...)

	return e
}

// CreatedAfter derives an executor filtered to records created at or
// after t.
func (e Executor[T]) CreatedAfter(t time.Time) Executor[T] {
	e.query = e.query.CreatedAfter(t)

	return e
}

// SinglePage fetches exactly one page.
func (e Executor[T]) SinglePage(ctx context.Context) (*Page[T], error) {
	return e.fetch(ctx, e.query)
}

// All fetches every page and returns the concatenated items.
func (e Executor[T]) All(ctx context.Context) ([]T, error) {
	return FetchAllPages(ctx, e.query, e.fetch, nil)
}

// AllN fetches pages until maxItems items have been collected, then
// stops, truncating mid-page when needed. maxItems <= 0 means no limit.
func (e Executor[T]) AllN(ctx context.Context, maxItems int) ([]T, error) {
	return FetchAllPages(ctx, e.query, e.fetch, &PaginationOptions{MaxItems: maxItems})
}

// First fetches the first matching item. It returns ErrNoMoreItems when
// nothing matches.
func (e Executor[T]) First(ctx context.Context) (*T, error) {
	page, err := e.fetch(ctx, e.query.Page(1).PerPage(1))
	if err != nil {
		return nil, err
	}

	if len(page.Data) == 0 {
		return nil, ErrNoMoreItems
	}

	return &page.Data[0], nil
}

// Count returns the total number of matching items without fetching
// them all.
func (e Executor[T]) Count(ctx context.Context) (int, error) {
	page, err := e.fetch(ctx, e.query.Page(1).PerPage(1))
	if err != nil {
		return 0, err
	}

	return page.Total, nil
}

// Iter returns a restartable iterator over the matching items. Each
// call starts from the executor's own query position.
func (e Executor[T]) Iter(ctx context.Context) *PageIterator[T] {
	return NewPageIterator(ctx, e.query, e.fetch)
}
