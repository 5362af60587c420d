package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/recordhub/recordhub-backend/api/responses"
	"github.com/recordhub/recordhub-backend/api/validators"
	"github.com/recordhub/recordhub-backend/internal/posts"
	pkgerrors "github.com/recordhub/recordhub-backend/pkg/errors"
	"github.com/recordhub/recordhub-backend/pkg/logger"
	"github.com/recordhub/recordhub-backend/pkg/pagination"
)

type postCreateRequest struct {
	Title  string `json:"title" validate:"required"`
	Body   string `json:"body" validate:"required"`
	UserID int64  `json:"userId" validate:"required,gt=0"`
}

type postUpdateRequest struct {
	Title  string `json:"title" validate:"required"`
	Body   string `json:"body" validate:"required"`
	UserID int64  `json:"userId" validate:"required,gt=0"`
}

type postPatchRequest struct {
	Title  *string `json:"title,omitempty" validate:"omitempty,min=1"`
	Body   *string `json:"body,omitempty" validate:"omitempty,min=1"`
	UserID *int64  `json:"userId,omitempty" validate:"omitempty,gt=0"`
}

// PostCreate stores a new post after the unique-title check.
func PostCreate(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "post service unavailable"))
			return
		}

		var payload postCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.Create(r.Context(), posts.CreatePostInput{
			Title:  payload.Title,
			Body:   payload.Body,
			UserID: payload.UserID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, post)
	}
}

// PostList returns one page of posts; page and limit come from the query.
func PostList(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "post service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), page, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// PostSearch finds posts whose title contains the keyword.
func PostSearch(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "post service unavailable"))
			return
		}

		keyword, err := validators.RequireQuery(r, "keyword")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.SearchByKeyword(r.Context(), keyword)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// PostGet loads one post by id.
func PostGet(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "post service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "postID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, post)
	}
}

// PostUpdate fully replaces the post row.
func PostUpdate(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "post service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "postID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload postUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.Update(r.Context(), id, posts.UpdatePostInput{
			Title:  payload.Title,
			Body:   payload.Body,
			UserID: payload.UserID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, post)
	}
}

// PostPatch merges the provided fields into the post row.
func PostPatch(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "post service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "postID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload postPatchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.Patch(r.Context(), id, posts.PatchPostInput{
			Title:  payload.Title,
			Body:   payload.Body,
			UserID: payload.UserID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, post)
	}
}

// PostDelete removes the post row for good.
func PostDelete(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "post service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "postID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}
