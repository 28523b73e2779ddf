package dto

import "time"

const (
	// InputDateLayout is the HTML date input format, used for the attendance date filter.
	InputDateLayout = "2006-01-02"
	// BackendDateLayout is the dd-MM-yyyy format stored by the backend and used by /presentes.
	BackendDateLayout = "02-01-2006"
)

// ParseInputDate parses "2006-01-02"; an empty or malformed value yields the zero time.
func ParseInputDate(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := time.Parse(InputDateLayout, v)
	if err != nil {
		return time.Time{}
	}
	return t
}
