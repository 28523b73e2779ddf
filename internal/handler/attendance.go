package handler

import (
	"net/http"

	"attendance/internal/dto"
	"attendance/internal/logger"
	"attendance/internal/service/views"
)

// ListAttendanceHandler handles GET /api/presencas?page&data_captura_frame&tag_video.
func ListAttendanceHandler(view *views.Attendance, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filters := dto.AttendanceFilters{
			CaptureDate: dto.ParseInputDate(q.Get("data_captura_frame")),
			VideoTag:    q.Get("tag_video"),
		}
		serveView(w, r, logger, view.Engine, filters)
	}
}

// DeleteAttendanceHandler handles DELETE /api/presencas/{id}.
func DeleteAttendanceHandler(view *views.Attendance, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeMutation(w, logger, view.Delete(r.Context(), r.PathValue("id")))
	}
}
