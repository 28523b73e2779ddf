// Package views binds one query engine per console view to the backend
// endpoints and implements the mutations each view offers.
package views

import (
	"context"
	"errors"
	"strings"
	"time"

	"attendance/internal/dto"
	"attendance/internal/logger"
	"attendance/internal/service/backend"
	"attendance/internal/service/mutation"
	"attendance/internal/service/query"

	"golang.org/x/sync/errgroup"
)

var ErrBlankTag = errors.New("tag must not be blank")

// wholeList is the page size of views whose endpoint returns every row at once.
const wholeList = 1 << 30

type Options struct {
	PageSize          int
	PresentMinDefault int
	// Now defaults to time.Now; it picks the default present-today date.
	Now func() time.Time
}

// Set holds every view of the console.
type Set struct {
	Attendance *Attendance
	People     *People
	Present    *Present
	Statistics *Statistics
	Groupings  *Groupings
}

func NewSet(api *backend.API, logger *logger.Logger, opts Options) *Set {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PresentMinDefault < 1 {
		opts.PresentMinDefault = 1
	}

	return &Set{
		Attendance: NewAttendance(api, logger, opts.PageSize),
		People:     NewPeople(api, logger, opts.PageSize),
		Present:    NewPresent(api, logger, opts.Now(), opts.PresentMinDefault),
		Statistics: NewStatistics(api),
		Groupings:  NewGroupings(api),
	}
}

// RefreshLoaded re-fetches every view that has been loaded at least once.
// Superseded fetches are not errors here.
func (s *Set) RefreshLoaded(ctx context.Context) error {
	refreshers := []interface {
		Loaded() bool
		Refresh(ctx context.Context) error
	}{s.Attendance, s.People, s.Present, s.Statistics, s.Groupings}

	g, ctx := errgroup.WithContext(ctx)
	for _, r := range refreshers {
		if !r.Loaded() {
			continue
		}
		g.Go(func() error {
			if err := r.Refresh(ctx); err != nil && !errors.Is(err, query.ErrSuperseded) {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

func normalizeTag(tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", ErrBlankTag
	}
	return tag, nil
}

// Attendance is the paginated list of attendance events.
type Attendance struct {
	*query.Engine[dto.AttendanceFilters, dto.AttendancePage]
	api    *backend.API
	logger *logger.Logger
}

func NewAttendance(api *backend.API, logger *logger.Logger, pageSize int) *Attendance {
	return &Attendance{
		Engine: query.New(api.ListAttendance, pageSize, dto.AttendanceFilters{}),
		api:    api,
		logger: logger,
	}
}

func (v *Attendance) Loaded() bool { return v.Snapshot().Loaded }

// Delete removes one record; on success it is dropped from the current page
// and the total is decremented.
func (v *Attendance) Delete(ctx context.Context, id string) mutation.Result {
	if err := v.api.DeleteAttendance(ctx, id); err != nil {
		v.logger.Warning("Cannot delete attendance %s: %v", id, err)
		return mutation.Failed(mutation.DeleteAttendance, id, "", err)
	}
	return mutation.Succeeded(mutation.DeleteAttendance, id, "").Then(func() {
		v.Apply(func(p dto.AttendancePage) dto.AttendancePage { return p.WithoutRecord(id) })
	})
}

// Statistics shows the frame statistic of one video tag.
type Statistics struct {
	*query.Engine[dto.StatisticsFilters, dto.StatisticsResult]
}

func NewStatistics(api *backend.API) *Statistics {
	fetch := func(ctx context.Context, page, size int, f dto.StatisticsFilters) (dto.StatisticsResult, error) {
		if strings.TrimSpace(f.VideoTag) == "" {
			return dto.StatisticsResult{}, nil
		}
		return api.FrameStatistics(ctx, page, size, f)
	}
	return &Statistics{Engine: query.New(fetch, wholeList, dto.StatisticsFilters{})}
}

func (v *Statistics) Loaded() bool { return v.Snapshot().Loaded }

// Groupings lists the per-video summaries in backend order.
type Groupings struct {
	*query.Engine[dto.GroupingFilters, dto.GroupingList]
}

func NewGroupings(api *backend.API) *Groupings {
	return &Groupings{Engine: query.New(api.Groupings, wholeList, dto.GroupingFilters{})}
}

func (v *Groupings) Loaded() bool { return v.Snapshot().Loaded }
