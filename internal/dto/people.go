package dto

import "attendance/internal/model"

// PeopleFilters is empty: the backend only paginates /pessoas.
type PeopleFilters struct{}

// PeoplePage is the response of GET /pessoas.
type PeoplePage struct {
	People []model.Person `json:"pessoas"`
	Total  int            `json:"total"`
}

func (p PeoplePage) TotalCount() int { return p.Total }

// WithTags returns a copy of the page where the person's tags were replaced by fn(tags).
func (p PeoplePage) WithTags(uuid string, fn func([]string) []string) PeoplePage {
	out := p
	out.People = make([]model.Person, len(p.People))
	for i, person := range p.People {
		if person.UUID == uuid {
			person.Tags = fn(person.Tags)
		}
		out.People[i] = person
	}
	return out
}

// WithoutPerson returns a copy of the page with the person removed and the total adjusted.
func (p PeoplePage) WithoutPerson(uuid string) PeoplePage {
	out := p
	out.People = make([]model.Person, 0, len(p.People))
	for _, person := range p.People {
		if person.UUID != uuid {
			out.People = append(out.People, person)
		}
	}
	if removed := len(p.People) - len(out.People); removed > 0 && out.Total >= removed {
		out.Total -= removed
	}
	return out
}

// TagPayload is the body of POST/DELETE /pessoas/{uuid}/tags.
type TagPayload struct {
	Tag string `json:"tag"`
}

// TagResponse is returned by the tag endpoints.
type TagResponse struct {
	Message string   `json:"message"`
	UUID    string   `json:"uuid"`
	Tags    []string `json:"tags"`
}

// PhotoPayload is the body of DELETE /pessoas/{uuid}/photos.
type PhotoPayload struct {
	Photo string `json:"photo"`
}

// PhotoCount is the response of GET /pessoas/{uuid}/photos/count.
type PhotoCount struct {
	UUID       string `json:"uuid"`
	PhotoCount int    `json:"photo_count"`
}

// MessageResponse is the body of the delete endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
