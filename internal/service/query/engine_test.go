package query

import (
	"context"
	"errors"
	"sync"
	"testing"

	"attendance/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page struct {
	Rows  []string
	Total int
}

func (p page) TotalCount() int { return p.Total }

type filters struct {
	Tag string
}

type call struct {
	page    int
	filters filters
}

// recorder answers every fetch with a page of the configured total.
type recorder struct {
	mu    sync.Mutex
	calls []call
	total int
	err   error
}

func (r *recorder) fetch(_ context.Context, n, size int, f filters) (page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{n, f})
	if r.err != nil {
		return page{}, r.err
	}
	return page{Rows: []string{f.Tag}, Total: r.total}, nil
}

func (r *recorder) last() call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[len(r.calls)-1]
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 3, TotalPages(25, 10))
}

func TestEngine_ClampsToKnownPageRange(t *testing.T) {
	rec := &recorder{total: 25}
	e := New(rec.fetch, 10, filters{})
	ctx := context.Background()

	require.NoError(t, e.Refresh(ctx))
	assert.Equal(t, 3, e.Snapshot().TotalPages)

	require.NoError(t, e.SetPage(ctx, 4))
	assert.Equal(t, 3, rec.last().page)
	assert.Equal(t, 3, e.Snapshot().Page)

	require.NoError(t, e.SetPage(ctx, 3+5))
	assert.Equal(t, 3, rec.last().page)

	require.NoError(t, e.SetPage(ctx, 0))
	assert.Equal(t, 1, rec.last().page)
}

func TestEngine_ClampsBeforeFirstLoad(t *testing.T) {
	rec := &recorder{total: 25}
	e := New(rec.fetch, 10, filters{})

	require.NoError(t, e.SetPage(context.Background(), 3+5))

	s := e.Snapshot()
	assert.Equal(t, 3, s.TotalPages)
	assert.Equal(t, 3, s.Page)
	assert.Equal(t, 3, rec.last().page)
	assert.Len(t, rec.calls, 2)
}

func TestEngine_ClampsAgainstFetchedTotal(t *testing.T) {
	rec := &recorder{total: 25}
	e := New(rec.fetch, 10, filters{Tag: "a"})
	ctx := context.Background()
	require.NoError(t, e.Refresh(ctx))

	rec.err = errors.New("status 500")
	require.Error(t, e.SetFilters(ctx, filters{Tag: "b"}))

	// The stale total still allows page 3; the new filter set has one page.
	rec.err = nil
	rec.total = 4
	require.NoError(t, e.SetPage(ctx, 3))

	s := e.Snapshot()
	assert.Equal(t, 1, s.TotalPages)
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, call{1, filters{Tag: "b"}}, rec.last())
}

func TestEngine_SetFiltersResetsPage(t *testing.T) {
	rec := &recorder{total: 50}
	e := New(rec.fetch, 10, filters{})
	ctx := context.Background()

	require.NoError(t, e.Refresh(ctx))
	require.NoError(t, e.SetPage(ctx, 3))
	require.NoError(t, e.SetFilters(ctx, filters{Tag: "aula"}))

	assert.Equal(t, call{1, filters{Tag: "aula"}}, rec.last())
	s := e.Snapshot()
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, "aula", s.Filters.Tag)
}

func TestEngine_FailureKeepsPreviousData(t *testing.T) {
	rec := &recorder{total: 5}
	e := New(rec.fetch, 10, filters{Tag: "a"})
	ctx := context.Background()
	require.NoError(t, e.Refresh(ctx))

	cause := &model.RequestError{Method: "GET", Path: "/presencas", Status: 500}
	rec.err = cause
	err := e.SetFilters(ctx, filters{Tag: "b"})
	assert.ErrorIs(t, err, model.ErrQueryFailed)
	assert.ErrorIs(t, err, model.ErrRequestFailed)

	s := e.Snapshot()
	assert.Equal(t, []string{"a"}, s.Data.Rows)
	assert.ErrorIs(t, s.Err, model.ErrQueryFailed)

	rec.err = nil
	require.NoError(t, e.Refresh(ctx))
	assert.NoError(t, e.Snapshot().Err)
}

func TestEngine_LatestTriggerWins(t *testing.T) {
	release := map[string]chan struct{}{"A": make(chan struct{}), "B": make(chan struct{})}
	started := make(chan string, 2)

	fetch := func(ctx context.Context, n, size int, f filters) (page, error) {
		started <- f.Tag
		<-release[f.Tag]
		return page{Rows: []string{f.Tag}, Total: 1}, nil
	}
	e := New(fetch, 10, filters{})
	ctx := context.Background()

	errA := make(chan error, 1)
	go func() { errA <- e.SetFilters(ctx, filters{Tag: "A"}) }()
	require.Equal(t, "A", <-started)

	errB := make(chan error, 1)
	go func() { errB <- e.SetFilters(ctx, filters{Tag: "B"}) }()
	require.Equal(t, "B", <-started)

	// B resolves first, then A.
	close(release["B"])
	require.NoError(t, <-errB)
	close(release["A"])
	assert.ErrorIs(t, <-errA, ErrSuperseded)

	s := e.Snapshot()
	assert.Equal(t, []string{"B"}, s.Data.Rows)
	assert.Equal(t, "B", s.Filters.Tag)
}

func TestEngine_LatestTriggerWinsWhenResolvedInOrder(t *testing.T) {
	release := map[string]chan struct{}{"A": make(chan struct{}), "B": make(chan struct{})}
	started := make(chan string, 2)

	fetch := func(ctx context.Context, n, size int, f filters) (page, error) {
		started <- f.Tag
		<-release[f.Tag]
		return page{Rows: []string{f.Tag}, Total: 1}, nil
	}
	e := New(fetch, 10, filters{})
	ctx := context.Background()

	errA := make(chan error, 1)
	go func() { errA <- e.SetFilters(ctx, filters{Tag: "A"}) }()
	<-started
	errB := make(chan error, 1)
	go func() { errB <- e.SetFilters(ctx, filters{Tag: "B"}) }()
	<-started

	close(release["A"])
	assert.ErrorIs(t, <-errA, ErrSuperseded)
	close(release["B"])
	require.NoError(t, <-errB)

	assert.Equal(t, []string{"B"}, e.Snapshot().Data.Rows)
}

func TestEngine_SupersededFailureIsIgnored(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	calls := 0
	var mu sync.Mutex

	fetch := func(ctx context.Context, n, size int, f filters) (page, error) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			started <- struct{}{}
			<-release
			return page{}, errors.New("slow and broken")
		}
		return page{Rows: []string{"fresh"}, Total: 1}, nil
	}
	e := New(fetch, 10, filters{})
	ctx := context.Background()

	errA := make(chan error, 1)
	go func() { errA <- e.Refresh(ctx) }()
	<-started

	require.NoError(t, e.Refresh(ctx))
	close(release)
	assert.ErrorIs(t, <-errA, ErrSuperseded)

	s := e.Snapshot()
	assert.NoError(t, s.Err)
	assert.Equal(t, []string{"fresh"}, s.Data.Rows)
}

func TestEngine_Apply(t *testing.T) {
	rec := &recorder{total: 3}
	e := New(rec.fetch, 10, filters{Tag: "x"})

	e.Apply(func(p page) page {
		p.Total = 99
		return p
	})
	assert.False(t, e.Snapshot().Loaded)

	require.NoError(t, e.Refresh(context.Background()))
	e.Apply(func(p page) page {
		p.Total--
		return p
	})
	assert.Equal(t, 2, e.Snapshot().Data.Total)
}
