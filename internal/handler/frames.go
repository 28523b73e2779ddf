package handler

import (
	"net/http"

	"attendance/internal/dto"
	"attendance/internal/logger"
	"attendance/internal/service/views"
)

// StatisticsHandler handles GET /api/estatisticas?tag_video.
func StatisticsHandler(view *views.Statistics, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveView(w, r, logger, view.Engine, dto.StatisticsFilters{VideoTag: r.URL.Query().Get("tag_video")})
	}
}

// GroupingsHandler handles GET /api/agrupamentos.
func GroupingsHandler(view *views.Groupings, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveView(w, r, logger, view.Engine, dto.GroupingFilters{})
	}
}
