package handler

import (
	"net/http"
	"time"

	"attendance/internal/dto"
	"attendance/internal/logger"
	"attendance/internal/service/views"
)

// ListPresentHandler handles GET /api/presentes?date&min_presencas. Missing
// parameters keep the current filter values.
func ListPresentHandler(view *views.Present, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filters := view.Snapshot().Filters

		if v := q.Get("date"); v != "" {
			date, err := time.ParseInLocation(dto.InputDateLayout, v, filters.Date.Location())
			if err != nil {
				writeJSON(w, logger, http.StatusBadRequest, errorResponse{Error: "date must be yyyy-mm-dd"})
				return
			}
			filters.Date = date
		}
		filters.MinPresences = atoiDefault(q.Get("min_presencas"), filters.MinPresences)

		serveView(w, r, logger, view.Engine, filters)
	}
}
