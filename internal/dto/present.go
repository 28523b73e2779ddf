package dto

import (
	"attendance/internal/model"
	"net/url"
	"strconv"
	"time"
)

// PresentFilters select the people seen on a date at least MinPresences times.
type PresentFilters struct {
	Date         time.Time
	MinPresences int
}

// Encode adds the filter parameters to q. The date is sent as dd-MM-yyyy.
func (f PresentFilters) Encode(q url.Values) {
	q.Set("date", f.Date.Format(BackendDateLayout))
	q.Set("min_presencas", strconv.Itoa(f.MinPresences))
}

// PresentList is the response of GET /presentes. The backend returns the whole list.
type PresentList struct {
	People []model.PresentPerson `json:"pessoas"`
}

func (l PresentList) TotalCount() int { return len(l.People) }

// WithTags returns a copy of the list where the person's tags were replaced by fn(tags).
func (l PresentList) WithTags(uuid string, fn func([]string) []string) PresentList {
	out := PresentList{People: make([]model.PresentPerson, len(l.People))}
	for i, person := range l.People {
		if person.UUID == uuid {
			person.Tags = fn(person.Tags)
		}
		out.People[i] = person
	}
	return out
}
