// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package gather runs a function concurrently for every element of a slice and collects the
// results in input order, independent of the order in which the calls complete.
package gather

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Func is called once per input element with its index.
type Func[T, R any] func(ctx context.Context, idx int, item T) (R, error)

// Map calls fn concurrently for every item and returns the results index-aligned with items.
// The first error cancels the context handed to the remaining calls and is returned; in that
// case the result slice is nil.
func Map[T, R any](ctx context.Context, items []T, fn Func[T, R]) ([]R, error) {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for i, item := range items {
		group.Go(func() error {
			res, err := fn(groupCtx, i, item)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Settle calls fn concurrently for every item and waits for all of them. Results and errors are
// index-aligned with items; a failing call does not affect the others.
func Settle[T, R any](ctx context.Context, items []T, fn Func[T, R]) ([]R, []error) {
	results := make([]R, len(items))
	errs := make([]error, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Go(func() {
			results[i], errs[i] = fn(ctx, i, item)
		})
	}
	wg.Wait()
	return results, errs
}
