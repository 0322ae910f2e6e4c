package stateset

import (
	"context"
	"fmt"
)

// PageIterator walks a list result page by page, yielding one item at a
// time. Iterators are single-use; obtain a fresh one from the same
// Executor to restart from the beginning. An iterator is not safe for
// concurrent use.
type PageIterator[T any] struct {
	ctx     context.Context
	fetch   ListPageFunc[T]
	query   Query
	current *Page[T]
	index   int
	fetched bool
	done    bool
	fetches int
}

// NewPageIterator builds an iterator starting at the query's position.
func NewPageIterator[T any](ctx context.Context, query Query, fetch ListPageFunc[T]) *PageIterator[T] {
	return &PageIterator[T]{ctx: ctx, fetch: fetch, query: query}
}

// HasNext reports whether another item is available. It is optimistic
// before the first fetch; Next returns ErrNoMoreItems if the server
// turns out to have nothing.
func (it *PageIterator[T]) HasNext() bool {
	if it.done {
		return false
	}

	if !it.fetched {
		return true
	}

	if it.index < len(it.current.Data) {
		return true
	}

	return it.current.HasNext
}

// Next returns the next item, fetching the next page when the current
// one is exhausted. It returns ErrNoMoreItems past the end.
func (it *PageIterator[T]) Next() (*T, error) {
	if it.done {
		return nil, ErrNoMoreItems
	}

	if !it.fetched || it.index >= len(it.current.Data) {
		if it.fetched && !it.current.HasNext {
			it.done = true

			return nil, ErrNoMoreItems
		}

		if err := it.fetchNext(); err != nil {
			return nil, err
		}

		if len(it.current.Data) == 0 {
			it.done = true

			return nil, ErrNoMoreItems
		}
	}

	item := &it.current.Data[it.index]
	it.index++

	return item, nil
}

func (it *PageIterator[T]) fetchNext() error {
	query := it.query
	if it.fetched {
		query = advanceQuery(query, it.current)
	}

	page, err := it.fetch(it.ctx, query)
	if err != nil {
		return fmt.Errorf("fetching page: %w", err)
	}

	it.query = query
	it.current = page
	it.index = 0
	it.fetched = true
	it.fetches++

	return nil
}

// All drains the iterator and returns the remaining items.
func (it *PageIterator[T]) All() ([]T, error) {
	var items []T

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			if err == ErrNoMoreItems {
				break
			}

			return nil, err
		}

		items = append(items, *item)
	}

	return items, nil
}

// ForEach applies fn to each remaining item, stopping on the first
// error fn returns.
func (it *PageIterator[T]) ForEach(fn func(item T) error) error {
	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			if err == ErrNoMoreItems {
				return nil
			}

			return err
		}

		if err := fn(*item); err != nil {
			return err
		}
	}

	return nil
}

// Fetches returns the number of pages the iterator has requested.
func (it *PageIterator[T]) Fetches() int { return it.fetches }

// advanceQuery positions a query at the page after the one just
// consumed. A server-provided cursor wins over page-number arithmetic.
func advanceQuery[T any](query Query, page *Page[T]) Query {
	if page.NextCursor != "" {
		return query.Cursor(page.NextCursor)
	}

	next := page.Page + 1
	if page.Page == 0 {
		next = query.PageNumber() + 1
		if next < 2 {
			next = 2
		}
	}

	return query.Page(next)
}

// PaginationOptions bound a multi-page fetch.
type PaginationOptions struct {
	// PageSize overrides the query's page size when positive.
	PageSize int

	// MaxPages stops fetching after this many pages. 0 means no limit.
	MaxPages int

	// MaxItems stops collecting after this many items, truncating the
	// final page when it overshoots. 0 means no limit.
	MaxItems int
}

// DefaultPaginationOptions returns unbounded options.
func DefaultPaginationOptions() *PaginationOptions {
	return &PaginationOptions{}
}

// FetchAllPages walks every page for the query and returns the
// concatenated items. HasNext on each returned page is authoritative:
// fetching stops when the server clears it, when a page comes back
// empty, or when an option limit is reached.
func FetchAllPages[T any](ctx context.Context, query Query, fetch ListPageFunc[T], options *PaginationOptions) ([]T, error) {
	if options == nil {
		options = DefaultPaginationOptions()
	}

	if options.PageSize > 0 {
		query = query.PerPage(options.PageSize)
	}

	var items []T

	fetched := 0

	for {
		page, err := fetch(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", fetched+1, err)
		}

		fetched++

		for i := range page.Data {
			items = append(items, page.Data[i])

			if options.MaxItems > 0 && len(items) >= options.MaxItems {
				return items, nil
			}
		}

		if !page.HasNext || len(page.Data) == 0 {
			return items, nil
		}

		if options.MaxPages > 0 && fetched >= options.MaxPages {
			return items, nil
		}

		query = advanceQuery(query, page)
	}
}

// PageResult is one page delivered by StreamPages.
type PageResult[T any] struct {
	Items []T
	Page  int
	Err   error
}

// StreamPages fetches pages in the background and delivers them on the
// returned channel. The channel closes after the last page, after an
// error (delivered as the final result), or when ctx is cancelled.
func StreamPages[T any](ctx context.Context, query Query, fetch ListPageFunc[T], options *PaginationOptions) <-chan PageResult[T] {
	if options == nil {
		options = DefaultPaginationOptions()
	}

	if options.PageSize > 0 {
		query = query.PerPage(options.PageSize)
	}

	results := make(chan PageResult[T])

	go func() {
		defer close(results)

		fetched := 0

		for {
			page, err := fetch(ctx, query)
			if err != nil {
				select {
				case results <- PageResult[T]{Err: err}:
				case <-ctx.Done():
				}

				return
			}

			fetched++

			select {
			case results <- PageResult[T]{Items: page.Data, Page: fetched}:
			case <-ctx.Done():
				return
			}

			if !page.HasNext || len(page.Data) == 0 {
				return
			}

			if options.MaxPages > 0 && fetched >= options.MaxPages {
				return
			}

			query = advanceQuery(query, page)
		}
	}()

	return results
}
