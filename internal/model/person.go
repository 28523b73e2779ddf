package model

import "slices"

// Person is a recognized person as listed by GET /pessoas.
// UUID is the join key for the detail, photo, tag and presence endpoints.
type Person struct {
	UUID string   `json:"uuid"`
	Tags []string `json:"tags"`
}

// PersonDetail is the response of GET /pessoas/{uuid}.
type PersonDetail struct {
	UUID         string   `json:"uuid"`
	Tags         []string `json:"tags"`
	PrimaryPhoto string   `json:"primary_photo"`
}

// PersonCard combines the detail and photo count of one person.
type PersonCard struct {
	UUID         string   `json:"uuid"`
	Tags         []string `json:"tags"`
	PrimaryPhoto string   `json:"primary_photo"`
	PhotoCount   int      `json:"photo_count"`
}

// PresentPerson is one entry of GET /presentes.
type PresentPerson struct {
	UUID          string   `json:"uuid"`
	PrimaryPhoto  string   `json:"primary_photo"`
	Tags          []string `json:"tags"`
	PresenceCount int      `json:"presencas_count"`
}

// PhotoList holds the signed photo URLs of one person.
type PhotoList struct {
	UUID      string   `json:"uuid"`
	ImageURLs []string `json:"image_urls"`
}

// WithTag returns a copy of tags with tag appended.
func WithTag(tags []string, tag string) []string {
	out := make([]string, 0, len(tags)+1)
	out = append(out, tags...)
	return append(out, tag)
}

// WithoutTag returns a copy of tags with every occurrence of tag removed.
func WithoutTag(tags []string, tag string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != tag {
			out = append(out, t)
		}
	}
	return out
}

// HasTag reports whether tag is present.
func HasTag(tags []string, tag string) bool {
	return slices.Contains(tags, tag)
}
