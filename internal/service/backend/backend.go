// Package backend exposes the recognition backend endpoints as typed calls
// on top of the authenticated gateway.
package backend

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"strconv"

	"attendance/internal/dto"
	"attendance/internal/model"
	"attendance/internal/service/gateway"
)

// Doer is the part of the gateway the endpoints need.
type Doer interface {
	Do(ctx context.Context, req gateway.Request, out any) error
}

type API struct {
	gw Doer
}

func New(gw Doer) *API {
	return &API{gw: gw}
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

func personPath(uuid string, rest ...string) string {
	return path.Join(append([]string{"pessoas", url.PathEscape(uuid)}, rest...)...)
}

// UploadFrame posts one admitted frame.
func (a *API) UploadFrame(ctx context.Context, frame model.CapturedFrame) error {
	return a.gw.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "frame",
		Body:   dto.NewFrameUpload(frame),
	}, nil)
}

func (a *API) ListAttendance(ctx context.Context, page, limit int, f dto.AttendanceFilters) (dto.AttendancePage, error) {
	q := pageQuery(page, limit)
	f.Encode(q)

	var out dto.AttendancePage
	err := a.gw.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "presencas", Query: q}, &out)
	return out, err
}

func (a *API) DeleteAttendance(ctx context.Context, id string) error {
	return a.gw.Do(ctx, gateway.Request{Method: http.MethodDelete, Path: "presencas/" + url.PathEscape(id)}, nil)
}

func (a *API) ListPeople(ctx context.Context, page, limit int, _ dto.PeopleFilters) (dto.PeoplePage, error) {
	var out dto.PeoplePage
	err := a.gw.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "pessoas", Query: pageQuery(page, limit)}, &out)
	return out, err
}

func (a *API) GetPerson(ctx context.Context, uuid string) (model.PersonDetail, error) {
	var out model.PersonDetail
	err := a.gw.Do(ctx, gateway.Request{Method: http.MethodGet, Path: personPath(uuid)}, &out)
	return out, err
}

func (a *API) ListPhotos(ctx context.Context, uuid string) (model.PhotoList, error) {
	var out model.PhotoList
	err := a.gw.Do(ctx, gateway.Request{Method: http.MethodGet, Path: personPath(uuid, "photos")}, &out)
	return out, err
}

func (a *API) CountPhotos(ctx context.Context, uuid string) (int, error) {
	var out dto.PhotoCount
	if err := a.gw.Do(ctx, gateway.Request{Method: http.MethodGet, Path: personPath(uuid, "photos", "count")}, &out); err != nil {
		return 0, err
	}
	return out.PhotoCount, nil
}

func (a *API) DeletePerson(ctx context.Context, uuid string) error {
	return a.gw.Do(ctx, gateway.Request{Method: http.MethodDelete, Path: personPath(uuid)}, nil)
}

// DeletePhoto removes one photo of a person, identified by its URL.
func (a *API) DeletePhoto(ctx context.Context, uuid, photoURL string) error {
	return a.gw.Do(ctx, gateway.Request{
		Method: http.MethodDelete,
		Path:   personPath(uuid, "photos"),
		Body:   dto.PhotoPayload{Photo: photoURL},
	}, nil)
}

func (a *API) AddTag(ctx context.Context, uuid, tag string) error {
	return a.gw.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   personPath(uuid, "tags"),
		Body:   dto.TagPayload{Tag: tag},
	}, nil)
}

func (a *API) RemoveTag(ctx context.Context, uuid, tag string) error {
	return a.gw.Do(ctx, gateway.Request{
		Method: http.MethodDelete,
		Path:   personPath(uuid, "tags"),
		Body:   dto.TagPayload{Tag: tag},
	}, nil)
}

// ListPresent ignores page and limit: /presentes returns the whole list.
func (a *API) ListPresent(ctx context.Context, _, _ int, f dto.PresentFilters) (dto.PresentList, error) {
	q := url.Values{}
	f.Encode(q)

	var out dto.PresentList
	err := a.gw.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "presentes", Query: q}, &out)
	return out, err
}

func (a *API) FrameStatistics(ctx context.Context, _, _ int, f dto.StatisticsFilters) (dto.StatisticsResult, error) {
	q := url.Values{}
	f.Encode(q)

	var stat model.FrameStatistic
	if err := a.gw.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "frames/estatisticas", Query: q}, &stat); err != nil {
		return dto.StatisticsResult{}, err
	}
	return dto.StatisticsResult{Statistic: &stat}, nil
}

func (a *API) Groupings(ctx context.Context, _, _ int, _ dto.GroupingFilters) (dto.GroupingList, error) {
	var out dto.GroupingList
	err := a.gw.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "frames/agrupamentos"}, &out)
	return out, err
}
