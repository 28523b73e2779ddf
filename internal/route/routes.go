package route

import (
	"net/http"

	"attendance/internal/handler"
	"attendance/internal/logger"
	"attendance/internal/middleware"
	"attendance/internal/repository"
	"attendance/internal/service/capture"
	"attendance/internal/service/session"
	"attendance/internal/service/views"
	"attendance/internal/service/websocket"
)

// Deps are the services the console routes are bound to.
type Deps struct {
	Session   *session.Store
	Throttler *capture.Throttler
	Views     *views.Set
	Hub       *websocket.HubService
	Uploads   repository.UploadRepository
	Logger    *logger.Logger
}

// SetupRoutes registers the console API and wraps the mux with the
// authentication middleware.
func SetupRoutes(d Deps) http.Handler {
	mux := http.NewServeMux()
	log := d.Logger

	// Auth endpoints
	mux.HandleFunc("POST /auth/login", handler.LoginHandler(d.Session, log))
	mux.HandleFunc("POST /auth/logout", handler.LogoutHandler(d.Session, log))
	mux.HandleFunc("GET /api/session", handler.SessionHandler(d.Session, log))

	// Capture
	mux.HandleFunc("GET /api/capture", handler.CaptureStatusHandler(d.Throttler, d.Uploads, log))
	mux.HandleFunc("POST /api/capture/toggle", handler.CaptureToggleHandler(d.Throttler, log))
	mux.HandleFunc("GET /api/capture/uploads", handler.UploadHistoryHandler(d.Uploads, log))
	mux.HandleFunc("GET /api/view", handler.ViewWebsocketHandler(d.Hub, log))

	// Attendance
	mux.HandleFunc("GET /api/presencas", handler.ListAttendanceHandler(d.Views.Attendance, log))
	mux.HandleFunc("DELETE /api/presencas/{id}", handler.DeleteAttendanceHandler(d.Views.Attendance, log))

	// People
	mux.HandleFunc("GET /api/pessoas", handler.ListPeopleHandler(d.Views.People, log))
	mux.HandleFunc("GET /api/pessoas/{uuid}", handler.PersonCardHandler(d.Views.People, log))
	mux.HandleFunc("DELETE /api/pessoas/{uuid}", handler.DeletePersonHandler(d.Views.People, log))
	mux.HandleFunc("GET /api/pessoas/{uuid}/photos", handler.PhotosHandler(d.Views.People, log))
	mux.HandleFunc("DELETE /api/pessoas/{uuid}/photos", handler.DeletePhotoHandler(d.Views.People, log))
	mux.HandleFunc("POST /api/pessoas/{uuid}/tags", handler.AddTagHandler(d.Views.People, log))
	mux.HandleFunc("DELETE /api/pessoas/{uuid}/tags", handler.RemoveTagHandler(d.Views.People, log))

	// Present today
	mux.HandleFunc("GET /api/presentes", handler.ListPresentHandler(d.Views.Present, log))
	mux.HandleFunc("GET /api/presentes/{uuid}/photos", handler.PhotosHandler(d.Views.Present, log))
	mux.HandleFunc("DELETE /api/presentes/{uuid}/photos", handler.DeletePhotoHandler(d.Views.Present, log))
	mux.HandleFunc("POST /api/presentes/{uuid}/tags", handler.AddTagHandler(d.Views.Present, log))
	mux.HandleFunc("DELETE /api/presentes/{uuid}/tags", handler.RemoveTagHandler(d.Views.Present, log))

	// Frames
	mux.HandleFunc("GET /api/estatisticas", handler.StatisticsHandler(d.Views.Statistics, log))
	mux.HandleFunc("GET /api/agrupamentos", handler.GroupingsHandler(d.Views.Groupings, log))

	// Log endpoints
	mux.HandleFunc("GET /logs/{level}", handler.ShowLogsHandler(log))
	mux.HandleFunc("POST /logs/{level}/clear", handler.ClearLogsHandler(log))

	return middleware.AuthMiddleware(d.Session)(mux)
}
