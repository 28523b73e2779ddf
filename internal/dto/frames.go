package dto

import (
	"attendance/internal/model"
	"encoding/base64"
	"net/url"
)

// StatisticsFilters select the video tag of GET /frames/estatisticas.
type StatisticsFilters struct {
	VideoTag string
}

// Encode adds the filter parameters to q.
func (f StatisticsFilters) Encode(q url.Values) {
	q.Set("tag_video", f.VideoTag)
}

// StatisticsResult wraps the single statistic object of a tag.
type StatisticsResult struct {
	Statistic *model.FrameStatistic `json:"statistic"`
}

func (r StatisticsResult) TotalCount() int {
	if r.Statistic == nil {
		return 0
	}
	return 1
}

// GroupingFilters is empty: /frames/agrupamentos takes no parameters.
type GroupingFilters struct{}

// GroupingList is the response of GET /frames/agrupamentos, ordered by the backend.
type GroupingList []model.GroupingSummary

func (l GroupingList) TotalCount() int { return len(l) }

// FrameUpload is the body of POST /frame.
type FrameUpload struct {
	Image     string `json:"image"`
	Timestamp int64  `json:"timestamp"`
}

// NewFrameUpload encodes the frame as a data URL with an epoch-ms timestamp.
func NewFrameUpload(frame model.CapturedFrame) FrameUpload {
	mime := frame.MIME
	if mime == "" {
		mime = "image/png"
	}
	return FrameUpload{
		Image:     "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(frame.Image),
		Timestamp: frame.Timestamp.UnixMilli(),
	}
}
