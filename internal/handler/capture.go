package handler

import (
	"net/http"
	"time"

	"attendance/internal/logger"
	"attendance/internal/model"
	"attendance/internal/repository"
	"attendance/internal/service/capture"
)

type captureStatus struct {
	capture.Stats
	// RecentUploads counts the upload outcomes of the last 24 hours by status.
	RecentUploads map[string]int `json:"recent_uploads"`
}

// CaptureStatusHandler handles GET /api/capture.
func CaptureStatusHandler(throttler *capture.Throttler, uploads repository.UploadRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := uploads.CountByStatus(time.Now().Add(-24 * time.Hour))
		if err != nil {
			logger.Error("Error counting uploads: %v", err)
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, captureStatus{Stats: throttler.Stats(), RecentUploads: counts})
	}
}

// CaptureToggleHandler handles POST /api/capture/toggle.
func CaptureToggleHandler(throttler *capture.Throttler, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := throttler.Toggle(); err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, throttler.Stats())
	}
}

// UploadHistoryHandler handles GET /api/capture/uploads?limit=N.
func UploadHistoryHandler(uploads repository.UploadRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := atoiDefault(r.URL.Query().Get("limit"), 50)

		records, err := uploads.Recent(limit)
		if err != nil {
			logger.Error("Error reading upload history: %v", err)
			writeError(w, logger, err)
			return
		}
		if records == nil {
			records = []model.UploadRecord{}
		}
		writeJSON(w, logger, http.StatusOK, records)
	}
}
