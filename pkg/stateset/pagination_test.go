package stateset_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stateset-io/stateset-client/pkg/stateset"
)

// fakePages serves canned pages keyed by page number, counting fetches.
type fakePages struct {
	pages   map[int]*stateset.Page[string]
	fetches atomic.Int32
}

func newFakePages(data [][]string, hasNext []bool) *fakePages {
	f := &fakePages{pages: make(map[int]*stateset.Page[string])}

	total := 0
	for _, p := range data {
		total += len(p)
	}

	for i, items := range data {
		f.pages[i+1] = &stateset.Page[string]{
			Data:       items,
			Total:      total,
			Page:       i + 1,
			PerPage:    2,
			TotalPages: len(data),
			HasNext:    hasNext[i],
			HasPrev:    i > 0,
		}
	}

	return f
}

func (f *fakePages) fetch(_ context.Context, q stateset.Query) (*stateset.Page[string], error) {
	f.fetches.Add(1)

	page := q.PageNumber()
	if page == 0 {
		page = 1
	}

	result, ok := f.pages[page]
	if !ok {
		return &stateset.Page[string]{Page: page}, nil
	}

	return result, nil
}

func TestExecutorAll(t *testing.T) {
	t.Parallel()

	fake := newFakePages([][]string{{"a", "b"}, {"c"}, {}}, []bool{true, true, false})
	executor := stateset.NewExecutor(stateset.NewQuery(), fake.fetch)

	items, err := executor.All(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, items)
	assert.Equal(t, int32(3), fake.fetches.Load())
}

func TestExecutorAllTrustsHasNextOnShortPage(t *testing.T) {
	t.Parallel()

	// second page is shorter than per_page but has_next still set
	fake := newFakePages([][]string{{"a", "b"}, {"c"}, {"d"}}, []bool{true, true, false})
	executor := stateset.NewExecutor(stateset.NewQuery(), fake.fetch)

	items, err := executor.All(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, items)
}

func TestExecutorAllNStopsMidPage(t *testing.T) {
	t.Parallel()

	fake := newFakePages([][]string{{"a", "b"}, {"c", "d"}}, []bool{true, false})
	executor := stateset.NewExecutor(stateset.NewQuery(), fake.fetch)

	items, err := executor.AllN(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, items)
	assert.Equal(t, int32(1), fake.fetches.Load(), "should stop after the first page")
}

func TestExecutorAllNUnlimited(t *testing.T) {
	t.Parallel()

	fake := newFakePages([][]string{{"a"}, {"b"}}, []bool{true, false})
	executor := stateset.NewExecutor(stateset.NewQuery(), fake.fetch)

	items, err := executor.AllN(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, items)
}

func TestExecutorSinglePage(t *testing.T) {
	t.Parallel()

	fake := newFakePages([][]string{{"a", "b"}, {"c"}}, []bool{true, false})
	executor := stateset.NewExecutor(stateset.NewQuery(), fake.fetch)

	page, err := executor.SinglePage(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, page.Data)
	assert.True(t, page.HasNext)
	assert.Equal(t, int32(1), fake.fetches.Load())
}

func TestExecutorFirst(t *testing.T) {
	t.Parallel()

	fake := newFakePages([][]string{{"a", "b"}}, []bool{false})
	executor := stateset.NewExecutor(stateset.NewQuery(), fake.fetch)

	first, err := executor.First(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "a", *first)
}

func TestExecutorFirstEmpty(t *testing.T) {
	t.Parallel()

	fake := newFakePages([][]string{{}}, []bool{false})
	executor := stateset.NewExecutor(stateset.NewQuery(), fake.fetch)

	_, err := executor.First(context.Background())

	assert.ErrorIs(t, err, stateset.ErrNoMoreItems)
}

func TestExecutorCount(t *testing.T) {
	t.Parallel()

	fake := newFakePages([][]string{{"a", "b"}, {"c"}}, []bool{true, false})
	executor := stateset.NewExecutor(stateset.NewQuery(), fake.fetch)

	count, err := executor.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, int32(1), fake.fetches.Load())
}

func TestExecutorBuilderDerivation(t *testing.T) {
	t.Parallel()

	fake := newFakePages([][]string{{"a"}}, []bool{false})

	base := stateset.NewExecutor(stateset.NewQuery(), fake.fetch).Where("status", "pending")
	derived := base.Where("customer_id", "cust_1")

	assert.Len(t, base.Query().Filters(), 1)
	assert.Len(t, derived.Query().Filters(), 2)
}

func TestPageIterator(t *testing.T) {
	t.Parallel()

	fake := newFakePages([][]string{{"a", "b"}, {"c"}, {}}, []bool{true, true, false})
	it := stateset.NewPageIterator(context.Background(), stateset.NewQuery(), fake.fetch)

	var collected []string

	for it.HasNext() {
		item, err := it.Next()
		if errors.Is(err, stateset.ErrNoMoreItems) {
			break
		}

		require.NoError(t, err)
		collected = append(collected, *item)
	}

	assert.Equal(t, []string{"a", "b", "c"}, collected)
	assert.Equal(t, 3, it.Fetches())

	// exhausted iterator stays exhausted
	assert.False(t, it.HasNext())
	_, err := it.Next()
	assert.ErrorIs(t, err, stateset.ErrNoMoreItems)
}

func TestPageIteratorRestartable(t *testing.T) {
	t.Parallel()

	fake := newFakePages([][]string{{"a"}, {"b"}}, []bool{true, false})
	executor := stateset.NewExecutor(stateset.NewQuery(), fake.fetch)

	first, err := executor.Iter(context.Background()).All()
	require.NoError(t, err)

	second, err := executor.Iter(context.Background()).All()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a", "b"}, second)
}

func TestPageIteratorForEach(t *testing.T) {
	t.Parallel()

	fake := newFakePages([][]string{{"a", "b"}}, []bool{false})
	it := stateset.NewPageIterator(context.Background(), stateset.NewQuery(), fake.fetch)

	var seen []string

	err := it.ForEach(func(item string) error {
		seen = append(seen, item)

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestPageIteratorForEachStopsOnError(t *testing.T) {
	t.Parallel()

	fake := newFakePages([][]string{{"a", "b", "c"}}, []bool{false})
	it := stateset.NewPageIterator(context.Background(), stateset.NewQuery(), fake.fetch)

	boom := errors.New("boom")
	count := 0

	err := it.ForEach(func(string) error {
		count++
		if count == 2 {
			return boom
		}

		return nil
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, count)
}

func TestPageIteratorPropagatesFetchError(t *testing.T) {
	t.Parallel()

	boom := errors.New("server exploded")
	fetch := func(context.Context, stateset.Query) (*stateset.Page[string], error) {
		return nil, boom
	}

	it := stateset.NewPageIterator(context.Background(), stateset.NewQuery(), fetch)

	_, err := it.Next()
	assert.ErrorIs(t, err, boom)
}

func TestFetchAllPagesCursorAdvance(t *testing.T) {
	t.Parallel()

	var gotCursor string

	fetch := func(_ context.Context, q stateset.Query) (*stateset.Page[string], error) {
		if q.CursorValue() == "" {
			return &stateset.Page[string]{Data: []string{"a"}, Page: 1, HasNext: true, NextCursor: "tok_2"}, nil
		}

		gotCursor = q.CursorValue()

		return &stateset.Page[string]{Data: []string{"b"}, Page: 2, HasNext: false}, nil
	}

	items, err := stateset.FetchAllPages(context.Background(), stateset.NewQuery(), fetch, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, items)
	assert.Equal(t, "tok_2", gotCursor)
}

func TestFetchAllPagesMaxPages(t *testing.T) {
	t.Parallel()

	fake := newFakePages([][]string{{"a"}, {"b"}, {"c"}}, []bool{true, true, false})

	items, err := stateset.FetchAllPages(context.Background(), stateset.NewQuery(), fake.fetch,
		&stateset.PaginationOptions{MaxPages: 2})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, items)
	assert.Equal(t, int32(2), fake.fetches.Load())
}

func TestStreamPages(t *testing.T) {
	t.Parallel()

	fake := newFakePages([][]string{{"a", "b"}, {"c"}}, []bool{true, false})

	var collected []string

	for result := range stateset.StreamPages(context.Background(), stateset.NewQuery(), fake.fetch, nil) {
		require.NoError(t, result.Err)
		collected = append(collected, result.Items...)
	}

	assert.Equal(t, []string{"a", "b", "c"}, collected)
}

func TestStreamPagesDeliversError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	fetch := func(context.Context, stateset.Query) (*stateset.Page[string], error) {
		return nil, boom
	}

	var last error

	for result := range stateset.StreamPages(context.Background(), stateset.NewQuery(), fetch, nil) {
		last = result.Err
	}

	assert.ErrorIs(t, last, boom)
}
