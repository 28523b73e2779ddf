package handler

import (
	"context"
	"net/http"

	"attendance/internal/dto"
	"attendance/internal/logger"
	"attendance/internal/service/mutation"
	"attendance/internal/service/views"
)

// ListPeopleHandler handles GET /api/pessoas?page.
func ListPeopleHandler(view *views.People, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveView(w, r, logger, view.Engine, dto.PeopleFilters{})
	}
}

// PersonCardHandler handles GET /api/pessoas/{uuid}.
func PersonCardHandler(view *views.People, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		card, err := view.Card(r.Context(), r.PathValue("uuid"))
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, card)
	}
}

// DeletePersonHandler handles DELETE /api/pessoas/{uuid}.
func DeletePersonHandler(view *views.People, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeMutation(w, logger, view.DeletePerson(r.Context(), r.PathValue("uuid")))
	}
}

type photoViewer interface {
	Photos(ctx context.Context, uuid string) (views.PhotoSet, error)
	DeletePhoto(ctx context.Context, uuid, photoURL string) mutation.Result
}

// PhotosHandler handles GET {view}/{uuid}/photos.
func PhotosHandler(view photoViewer, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		set, err := view.Photos(r.Context(), r.PathValue("uuid"))
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, set)
	}
}

// DeletePhotoHandler handles DELETE {view}/{uuid}/photos with body {"photo": url}.
func DeletePhotoHandler(view photoViewer, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body dto.PhotoPayload
		if err := decodeBody(r, &body); err != nil || body.Photo == "" {
			writeJSON(w, logger, http.StatusBadRequest, errorResponse{Error: "photo is required"})
			return
		}
		writeMutation(w, logger, view.DeletePhoto(r.Context(), r.PathValue("uuid"), body.Photo))
	}
}

type tagger interface {
	AddTag(ctx context.Context, uuid, tag string) mutation.Result
	RemoveTag(ctx context.Context, uuid, tag string) mutation.Result
}

// AddTagHandler handles POST {view}/{uuid}/tags with body {"tag": name}.
func AddTagHandler(view tagger, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body dto.TagPayload
		if err := decodeBody(r, &body); err != nil {
			writeJSON(w, logger, http.StatusBadRequest, errorResponse{Error: "invalid body"})
			return
		}
		writeMutation(w, logger, view.AddTag(r.Context(), r.PathValue("uuid"), body.Tag))
	}
}

// RemoveTagHandler handles DELETE {view}/{uuid}/tags with body {"tag": name}.
func RemoveTagHandler(view tagger, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body dto.TagPayload
		if err := decodeBody(r, &body); err != nil {
			writeJSON(w, logger, http.StatusBadRequest, errorResponse{Error: "invalid body"})
			return
		}
		writeMutation(w, logger, view.RemoveTag(r.Context(), r.PathValue("uuid"), body.Tag))
	}
}
