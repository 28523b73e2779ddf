// Package query keeps the paginated, filtered state of one list view and
// resolves overlapping fetches in trigger order.
package query

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"attendance/internal/model"
)

// ErrSuperseded is returned to a caller whose fetch was overtaken by a newer trigger.
var ErrSuperseded = errors.New("superseded by a newer query")

// Result is a page payload that knows the total number of matching rows.
type Result interface {
	TotalCount() int
}

// Fetcher loads one page. It must not keep a reference to filters.
type Fetcher[F any, P Result] func(ctx context.Context, page, pageSize int, filters F) (P, error)

// State is a snapshot of an engine.
type State[F any, P Result] struct {
	Page       int
	PageSize   int
	TotalPages int
	Filters    F
	Data       P
	Loaded     bool
	Err        error
}

// Engine holds the query state of one view. Triggers may overlap; only the
// result of the latest trigger is applied.
type Engine[F any, P Result] struct {
	fetch    Fetcher[F, P]
	pageSize int

	mu         sync.Mutex
	page       int
	filters    F
	data       P
	loaded     bool
	err        error
	generation uint64
}

func New[F any, P Result](fetch Fetcher[F, P], pageSize int, filters F) *Engine[F, P] {
	if pageSize <= 0 {
		pageSize = 1
	}
	return &Engine[F, P]{
		fetch:    fetch,
		pageSize: pageSize,
		page:     1,
		filters:  filters,
	}
}

// TotalPages is max(1, ceil(total/pageSize)).
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// SetPage moves to page n, clamped to the page range, and fetches it.
func (e *Engine[F, P]) SetPage(ctx context.Context, n int) error {
	e.mu.Lock()
	e.page = n
	return e.trigger(ctx)
}

// SetFilters replaces the filters, resets to page 1 and fetches.
func (e *Engine[F, P]) SetFilters(ctx context.Context, filters F) error {
	e.mu.Lock()
	e.filters = filters
	e.page = 1
	return e.trigger(ctx)
}

// Refresh re-fetches the current page with the current filters.
func (e *Engine[F, P]) Refresh(ctx context.Context) error {
	e.mu.Lock()
	return e.trigger(ctx)
}

// trigger is entered with e.mu held and releases it before fetching.
// A page found out of range by the fetched total is clamped and fetched once more.
func (e *Engine[F, P]) trigger(ctx context.Context) error {
	defer e.mu.Unlock()
	e.clampLocked()

	for refetched := false; ; refetched = true {
		e.generation++
		generation := e.generation
		page, filters := e.page, e.filters
		e.mu.Unlock()

		data, err := e.fetch(ctx, page, e.pageSize, filters)

		e.mu.Lock()
		if generation != e.generation {
			return ErrSuperseded
		}
		if err != nil {
			e.err = fmt.Errorf("%w: %w", model.ErrQueryFailed, err)
			return e.err
		}
		if last := TotalPages(data.TotalCount(), e.pageSize); e.page > last {
			e.page = last
			if !refetched {
				continue
			}
		}
		e.data = data
		e.loaded = true
		e.err = nil
		return nil
	}
}

// clampLocked bounds the page by the last loaded total. Before the first
// load the upper bound is unknown and the fetched total settles it.
func (e *Engine[F, P]) clampLocked() {
	if e.page < 1 {
		e.page = 1
	}
	if !e.loaded {
		return
	}
	if last := TotalPages(e.data.TotalCount(), e.pageSize); e.page > last {
		e.page = last
	}
}

// Apply replaces the current data with fn(data). It is used for local
// updates after a successful mutation and does nothing before the first load.
func (e *Engine[F, P]) Apply(fn func(P) P) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return
	}
	e.data = fn(e.data)
}

func (e *Engine[F, P]) Snapshot() State[F, P] {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := State[F, P]{
		Page:       e.page,
		PageSize:   e.pageSize,
		TotalPages: 1,
		Filters:    e.filters,
		Data:       e.data,
		Loaded:     e.loaded,
		Err:        e.err,
	}
	if e.loaded {
		s.TotalPages = TotalPages(e.data.TotalCount(), e.pageSize)
	}
	return s
}
