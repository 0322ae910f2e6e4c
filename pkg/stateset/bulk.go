package stateset

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BulkError records a single item failure with the item's index in the
// original input slice.
type BulkError struct {
	Index int    `json:"index" yaml:"index"`
	Err   *Error `json:"error" yaml:"error"`
}

// BulkResult summarizes a bulk operation. Per-item failures do not
// abort the run; each failed index is recorded here.
type BulkResult struct {
	SuccessCount int         `json:"success_count" yaml:"success_count"`
	ErrorCount   int         `json:"error_count" yaml:"error_count"`
	Errors       []BulkError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Failed reports whether any item failed.
func (r *BulkResult) Failed() bool {
	return r.ErrorCount > 0
}

// RunBulk applies op to every item in batches of batchSize. Batches run
// sequentially; items within a batch run concurrently up to concurrency
// goroutines. A terminal error on one item never aborts the others, but
// context cancellation stops the run and is returned alongside the
// partial result, which then covers only the items attempted.
func RunBulk[T any](ctx context.Context, items []T, batchSize, concurrency int, op func(ctx context.Context, item T) error) (*BulkResult, error) {
	if batchSize <= 0 {
		return nil, ErrBatchSizeInvalid
	}

	if concurrency <= 0 {
		concurrency = 1
	}

	itemErrs := make([]*Error, len(items))

	for start := 0; start < len(items); start += batchSize {
		if err := ctx.Err(); err != nil {
			return tally(itemErrs, start), NewTransportError(err)
		}

		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}

		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(concurrency)

		for i := start; i < end; i++ {
			i := i

			group.Go(func() error {
				if err := groupCtx.Err(); err != nil {
					itemErrs[i] = NewTransportError(err)

					return nil
				}

				if err := op(groupCtx, items[i]); err != nil {
					itemErrs[i] = asBulkError(err)
				}

				return nil
			})
		}

		// Goroutines never return errors; Wait only synchronizes.
		_ = group.Wait()
	}

	if err := ctx.Err(); err != nil {
		return tally(itemErrs, len(items)), NewTransportError(err)
	}

	return tally(itemErrs, len(items)), nil
}

// tally summarizes the first attempted items.
func tally(itemErrs []*Error, attempted int) *BulkResult {
	result := &BulkResult{}

	for i := 0; i < attempted; i++ {
		if itemErrs[i] == nil {
			result.SuccessCount++

			continue
		}

		result.ErrorCount++
		result.Errors = append(result.Errors, BulkError{Index: i, Err: itemErrs[i]})
	}

	return result
}

func asBulkError(err error) *Error {
	if apiErr, ok := err.(*Error); ok {
		return apiErr
	}

	return &Error{Kind: ErrorKindConnection, Message: err.Error(), Err: err}
}
