package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"attendance/internal/dto"
	"attendance/internal/logger"
	"attendance/internal/model"
	"attendance/internal/service/mutation"
	"attendance/internal/service/query"
	"attendance/internal/service/views"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, logger *logger.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}

// statusOf maps the client error kinds to the console HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidCredentials), errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, views.ErrBlankTag):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrDeviceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, model.ErrNetwork), errors.Is(err, model.ErrRequestFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, logger *logger.Logger, err error) {
	writeJSON(w, logger, statusOf(err), errorResponse{Error: err.Error()})
}

func writeMutation(w http.ResponseWriter, logger *logger.Logger, result mutation.Result) {
	status := http.StatusOK
	if !result.OK {
		status = statusOf(result.Err())
	}
	writeJSON(w, logger, status, result)
}

func viewData[F any, P query.Result](s query.State[F, P]) dto.ViewData[P] {
	data := dto.ViewData[P]{
		Data:        s.Data,
		TotalPages:  s.TotalPages,
		CurrentPage: s.Page,
		Limit:       s.PageSize,
		Loaded:      s.Loaded,
	}
	if s.Loaded {
		data.Length = s.Data.TotalCount()
	}
	if s.Err != nil {
		data.Error = s.Err.Error()
	}
	return data
}

// serveView applies the request to a view engine and writes its state.
// Changed filters reset to page 1; otherwise an explicit page is loaded,
// otherwise the current page is refreshed. A superseded fetch still answers
// with the newest state; a failed one answers with the error status and the
// data that was already loaded.
func serveView[F comparable, P query.Result](w http.ResponseWriter, r *http.Request, logger *logger.Logger, e *query.Engine[F, P], filters F) {
	ctx := r.Context()
	current := e.Snapshot()

	var err error
	switch page := r.URL.Query().Get("page"); {
	case filters != current.Filters:
		err = e.SetFilters(ctx, filters)
	case page != "":
		err = e.SetPage(ctx, atoiDefault(page, 1))
	default:
		err = e.Refresh(ctx)
	}
	status := http.StatusOK
	if err != nil && !errors.Is(err, query.ErrSuperseded) {
		logger.Warning("%s %s: %v", r.Method, r.URL.Path, err)
		status = statusOf(err)
	}

	writeJSON(w, logger, status, viewData(e.Snapshot()))
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// atoiDefault converts a string to int, falling back to def for invalid or non-positive values.
func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}
