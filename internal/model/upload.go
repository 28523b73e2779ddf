package model

import "time"

// Upload outcomes stored in the local history.
const (
	UploadSucceeded = "ok"
	UploadFailed    = "failed"
)

// UploadRecord is one entry of the local upload history.
type UploadRecord struct {
	ID         int64     `json:"id"`
	FrameID    string    `json:"frame_id"`
	CapturedAt time.Time `json:"captured_at"`
	Size       int       `json:"size"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
}
