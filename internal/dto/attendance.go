package dto

import (
	"attendance/internal/model"
	"net/url"
	"time"
)

// AttendanceFilters narrow the attendance list. Zero values are not sent.
type AttendanceFilters struct {
	CaptureDate time.Time
	VideoTag    string
}

// Encode adds the filter parameters to q.
func (f AttendanceFilters) Encode(q url.Values) {
	if !f.CaptureDate.IsZero() {
		q.Set("data_captura_frame", f.CaptureDate.Format(InputDateLayout))
	}
	if f.VideoTag != "" {
		q.Set("tag_video", f.VideoTag)
	}
}

// AttendancePage is the response of GET /presencas.
type AttendancePage struct {
	Records        []model.Attendance `json:"presencas"`
	Total          int                `json:"total"`
	ProcessingTime float64            `json:"tempo_processamento"`
	QueueTime      float64            `json:"tempo_fila"`
	DistinctPeople int                `json:"total_de_pessoas"`
}

func (p AttendancePage) TotalCount() int { return p.Total }

// WithoutRecord returns a copy of the page with the record removed and the total adjusted.
func (p AttendancePage) WithoutRecord(id string) AttendancePage {
	out := p
	out.Records = make([]model.Attendance, 0, len(p.Records))
	for _, r := range p.Records {
		if r.ID == id {
			continue
		}
		out.Records = append(out.Records, r)
	}
	if removed := len(p.Records) - len(out.Records); removed > 0 && out.Total >= removed {
		out.Total -= removed
	}
	return out
}
