// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package gather

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"
)

func TestMap(t *testing.T) {
	t.Run("results keep input order regardless of completion order", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			items := []int{30, 10, 20}
			var done []int
			doneCh := make(chan int, len(items))
			results, err := Map(t.Context(), items, func(_ context.Context, idx int, delay int) (int, error) {
				time.Sleep(time.Duration(delay) * time.Millisecond)
				doneCh <- idx
				return delay * 2, nil
			})
			if err != nil {
				t.Fatalf("map failed: %s", err)
			}
			close(doneCh)
			for idx := range doneCh {
				done = append(done, idx)
			}
			if done[0] != 1 || done[1] != 2 || done[2] != 0 {
				t.Errorf("expected completion order [1 2 0], got %v", done)
			}
			want := []int{60, 20, 40}
			for i := range want {
				if results[i] != want[i] {
					t.Errorf("expected result %d to be %d, got %d", i, want[i], results[i])
				}
			}
		})
	})
	t.Run("empty input returns empty result without calls", func(t *testing.T) {
		var calls atomic.Int32
		results, err := Map(t.Context(), []string{}, func(context.Context, int, string) (string, error) {
			calls.Add(1)
			return "", nil
		})
		if err != nil {
			t.Fatalf("map failed: %s", err)
		}
		if len(results) != 0 {
			t.Errorf("expected empty results, got %d", len(results))
		}
		if calls.Load() != 0 {
			t.Errorf("expected no calls, got %d", calls.Load())
		}
	})
	t.Run("first error is returned and cancels the others", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			wantErr := errors.New("intentionally failing")
			var canceled atomic.Bool
			_, err := Map(t.Context(), []int{0, 1}, func(ctx context.Context, idx int, _ int) (int, error) {
				if idx == 0 {
					return 0, wantErr
				}
				select {
				case <-ctx.Done():
					canceled.Store(true)
					return 0, ctx.Err()
				case <-time.After(time.Hour):
					return 1, nil
				}
			})
			if !errors.Is(err, wantErr) {
				t.Errorf("expected error to be %s, got %v", wantErr, err)
			}
			if !canceled.Load() {
				t.Error("expected remaining call to be canceled")
			}
		})
	})
}

func TestSettle(t *testing.T) {
	t.Run("failures stay at their index", func(t *testing.T) {
		items := []string{"a", "fail", "c"}
		results, errs := Settle(t.Context(), items, func(_ context.Context, _ int, item string) (string, error) {
			if item == "fail" {
				return "", errors.New("intentionally failing")
			}
			return item + item, nil
		})
		if len(results) != 3 || len(errs) != 3 {
			t.Fatalf("expected 3 results and errors, got %d and %d", len(results), len(errs))
		}
		if results[0] != "aa" || results[2] != "cc" {
			t.Errorf("unexpected results: %v", results)
		}
		if errs[0] != nil || errs[2] != nil {
			t.Errorf("expected no errors for successful items, got %v", errs)
		}
		if errs[1] == nil {
			t.Error("expected error for failing item")
		}
	})
}
