package views

import (
	"context"
	"slices"
	"sync"
	"time"

	"attendance/internal/dto"
	"attendance/internal/logger"
	"attendance/internal/model"
	"attendance/internal/service/backend"
	"attendance/internal/service/mutation"
	"attendance/internal/service/query"

	"golang.org/x/sync/errgroup"
)

// PhotoSet is the loaded photo list of one person.
type PhotoSet struct {
	UUID  string   `json:"uuid"`
	URLs  []string `json:"image_urls"`
	Count int      `json:"photo_count"`
}

// photoBook keeps the photo sets opened from a view.
type photoBook struct {
	api    *backend.API
	logger *logger.Logger

	mu   sync.Mutex
	sets map[string]PhotoSet
}

func newPhotoBook(api *backend.API, logger *logger.Logger) *photoBook {
	return &photoBook{api: api, logger: logger, sets: make(map[string]PhotoSet)}
}

// Photos loads the photo URLs and the photo count of a person together.
func (b *photoBook) Photos(ctx context.Context, uuid string) (PhotoSet, error) {
	var list model.PhotoList
	var count int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = b.api.ListPhotos(gctx, uuid)
		return err
	})
	g.Go(func() error {
		var err error
		count, err = b.api.CountPhotos(gctx, uuid)
		return err
	})
	if err := g.Wait(); err != nil {
		return PhotoSet{}, err
	}

	set := PhotoSet{UUID: uuid, URLs: list.ImageURLs, Count: count}
	b.mu.Lock()
	b.sets[uuid] = set
	b.mu.Unlock()
	return set, nil
}

// DeletePhoto removes one photo; on success the URL leaves the loaded set
// and the count is decremented.
func (b *photoBook) DeletePhoto(ctx context.Context, uuid, photoURL string) mutation.Result {
	if err := b.api.DeletePhoto(ctx, uuid, photoURL); err != nil {
		b.logger.Warning("Cannot delete photo of %s: %v", uuid, err)
		return mutation.Failed(mutation.DeletePhoto, uuid, photoURL, err)
	}
	return mutation.Succeeded(mutation.DeletePhoto, uuid, photoURL).Then(func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		set, ok := b.sets[uuid]
		if !ok {
			return
		}
		urls := slices.DeleteFunc(slices.Clone(set.URLs), func(u string) bool { return u == photoURL })
		if removed := len(set.URLs) - len(urls); removed > 0 && set.Count >= removed {
			set.Count -= removed
		}
		set.URLs = urls
		b.sets[uuid] = set
	})
}

// LoadedPhotos returns the last loaded photo set of a person.
func (b *photoBook) LoadedPhotos(uuid string) (PhotoSet, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.sets[uuid]
	return set, ok
}

// People is the paginated list of recognized people.
type People struct {
	*query.Engine[dto.PeopleFilters, dto.PeoplePage]
	*photoBook
	api    *backend.API
	logger *logger.Logger
}

func NewPeople(api *backend.API, logger *logger.Logger, pageSize int) *People {
	return &People{
		Engine:    query.New(api.ListPeople, pageSize, dto.PeopleFilters{}),
		photoBook: newPhotoBook(api, logger),
		api:       api,
		logger:    logger,
	}
}

func (v *People) Loaded() bool { return v.Snapshot().Loaded }

// Card loads the detail and the photo count of a person together.
func (v *People) Card(ctx context.Context, uuid string) (model.PersonCard, error) {
	var detail model.PersonDetail
	var count int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = v.api.GetPerson(gctx, uuid)
		return err
	})
	g.Go(func() error {
		var err error
		count, err = v.api.CountPhotos(gctx, uuid)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.PersonCard{}, err
	}

	return model.PersonCard{
		UUID:         detail.UUID,
		Tags:         detail.Tags,
		PrimaryPhoto: detail.PrimaryPhoto,
		PhotoCount:   count,
	}, nil
}

func (v *People) AddTag(ctx context.Context, uuid, tag string) mutation.Result {
	return changeTag(ctx, v.api, v.logger, mutation.AddTag, uuid, tag, func(fn func([]string) []string) {
		v.Apply(func(p dto.PeoplePage) dto.PeoplePage { return p.WithTags(uuid, fn) })
	})
}

func (v *People) RemoveTag(ctx context.Context, uuid, tag string) mutation.Result {
	return changeTag(ctx, v.api, v.logger, mutation.RemoveTag, uuid, tag, func(fn func([]string) []string) {
		v.Apply(func(p dto.PeoplePage) dto.PeoplePage { return p.WithTags(uuid, fn) })
	})
}

// DeletePerson removes a person; on success they leave the current page.
func (v *People) DeletePerson(ctx context.Context, uuid string) mutation.Result {
	if err := v.api.DeletePerson(ctx, uuid); err != nil {
		v.logger.Warning("Cannot delete person %s: %v", uuid, err)
		return mutation.Failed(mutation.DeletePerson, uuid, "", err)
	}
	return mutation.Succeeded(mutation.DeletePerson, uuid, "").Then(func() {
		v.Apply(func(p dto.PeoplePage) dto.PeoplePage { return p.WithoutPerson(uuid) })
	})
}

// Present lists the people seen on a date at least a minimum number of times.
type Present struct {
	*query.Engine[dto.PresentFilters, dto.PresentList]
	*photoBook
	api    *backend.API
	logger *logger.Logger
}

func NewPresent(api *backend.API, logger *logger.Logger, today time.Time, minPresences int) *Present {
	y, m, d := today.Date()
	filters := dto.PresentFilters{
		Date:         time.Date(y, m, d, 0, 0, 0, 0, today.Location()),
		MinPresences: minPresences,
	}
	return &Present{
		Engine:    query.New(api.ListPresent, wholeList, filters),
		photoBook: newPhotoBook(api, logger),
		api:       api,
		logger:    logger,
	}
}

func (v *Present) Loaded() bool { return v.Snapshot().Loaded }

func (v *Present) AddTag(ctx context.Context, uuid, tag string) mutation.Result {
	return changeTag(ctx, v.api, v.logger, mutation.AddTag, uuid, tag, func(fn func([]string) []string) {
		v.Apply(func(l dto.PresentList) dto.PresentList { return l.WithTags(uuid, fn) })
	})
}

func (v *Present) RemoveTag(ctx context.Context, uuid, tag string) mutation.Result {
	return changeTag(ctx, v.api, v.logger, mutation.RemoveTag, uuid, tag, func(fn func([]string) []string) {
		v.Apply(func(l dto.PresentList) dto.PresentList { return l.WithTags(uuid, fn) })
	})
}

// changeTag issues a tag mutation and, on success, hands apply the local
// tag update. Blank tags fail without a request.
func changeTag(ctx context.Context, api *backend.API, logger *logger.Logger, kind mutation.Kind, uuid, tag string, apply func(func([]string) []string)) mutation.Result {
	tag, err := normalizeTag(tag)
	if err != nil {
		return mutation.Failed(kind, uuid, tag, err)
	}

	var update func([]string) []string
	if kind == mutation.AddTag {
		err = api.AddTag(ctx, uuid, tag)
		update = func(tags []string) []string { return model.WithTag(tags, tag) }
	} else {
		err = api.RemoveTag(ctx, uuid, tag)
		update = func(tags []string) []string { return model.WithoutTag(tags, tag) }
	}
	if err != nil {
		logger.Warning("Cannot %s %q on %s: %v", kind, tag, uuid, err)
		return mutation.Failed(kind, uuid, tag, err)
	}

	return mutation.Succeeded(kind, uuid, tag).Then(func() { apply(update) })
}
