package handler

import (
	"errors"
	"net/http"
	"time"

	postdomain "babycare-go/internal/domain/post"
	"babycare-go/internal/transport/httpserver/middleware"

	"github.com/go-chi/chi/v5"
)

type createPostRequest struct {
	FamilyID  string   `json:"family_id"`
	Content   string   `json:"content"`
	MediaURLs []string `json:"media_urls"`
}

type postResponse struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"family_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	MediaURLs []string  `json:"media_urls,omitempty"`
	LikeCount int       `json:"like_count"`
	LikedBy   []string  `json:"liked_by"`
	CreatedAt time.Time `json:"created_at"`
}

type postListResponse struct {
	Posts []postResponse `json:"posts"`
	Total int64          `json:"total"`
}

func toPostResponse(view postdomain.PostView) postResponse {
	likedBy := view.LikedBy
	if likedBy == nil {
		likedBy = []string{}
	}
	return postResponse{
		ID:        view.Post.ID,
		FamilyID:  view.Post.FamilyID,
		AuthorID:  view.Post.AuthorID,
		Content:   view.Post.Content,
		MediaURLs: view.Post.MediaURLs,
		LikeCount: view.Post.LikeCount,
		LikedBy:   likedBy,
		CreatedAt: view.Post.CreatedAt,
	}
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	created, err := h.Posts.Create(r.Context(), userID, postdomain.CreateInput{
		FamilyID:  req.FamilyID,
		Content:   req.Content,
		MediaURLs: req.MediaURLs,
	})
	if err != nil {
		if errors.Is(err, postdomain.ErrNoFamilyAccess) {
			h.log.BusinessError("posts.create: no family access", err, "user_id", userID, "family_id", req.FamilyID)
			writeError(w, http.StatusForbidden, "no_family_access", "not an active member of this family")
			return
		}
		h.log.BusinessError("posts.create: invalid input", err, "user_id", userID, "family_id", req.FamilyID)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toPostResponse(postdomain.PostView{Post: *created}))
}

func (h *Handlers) ListFamilyPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	familyID := chi.URLParam(r, "family_id")
	offset, limit := parsePage(r)

	views, total, err := h.Posts.ListByFamily(r.Context(), userID, familyID, postdomain.Page{Offset: offset, Limit: limit})
	if err != nil {
		if errors.Is(err, postdomain.ErrNoFamilyAccess) {
			h.log.BusinessError("posts.list: no family access", err, "user_id", userID, "family_id", familyID)
			writeError(w, http.StatusForbidden, "no_family_access", "not an active member of this family")
			return
		}
		h.log.InternalError("posts.list: list failed", err, "user_id", userID, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := postListResponse{Posts: make([]postResponse, 0, len(views)), Total: total}
	for _, view := range views {
		response.Posts = append(response.Posts, toPostResponse(view))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	postID := chi.URLParam(r, "post_id")

	liked, err := h.Posts.ToggleLike(r.Context(), userID, postID)
	if err != nil {
		switch {
		case errors.Is(err, postdomain.ErrPostNotFound):
			h.log.BusinessError("posts.like: post not found", err, "user_id", userID, "post_id", postID)
			writeError(w, http.StatusNotFound, "post_not_found", "post not found")
		case errors.Is(err, postdomain.ErrNoFamilyAccess):
			h.log.BusinessError("posts.like: no family access", err, "user_id", userID, "post_id", postID)
			writeError(w, http.StatusForbidden, "no_family_access", "not an active member of this family")
		default:
			h.log.InternalError("posts.like: toggle failed", err, "user_id", userID, "post_id", postID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	postID := chi.URLParam(r, "post_id")

	if err := h.Posts.Delete(r.Context(), userID, postID); err != nil {
		switch {
		case errors.Is(err, postdomain.ErrPostNotFound):
			h.log.BusinessError("posts.delete: post not found", err, "user_id", userID, "post_id", postID)
			writeError(w, http.StatusNotFound, "post_not_found", "post not found")
		case errors.Is(err, postdomain.ErrDeleteNotAllowed):
			h.log.BusinessError("posts.delete: not allowed", err, "user_id", userID, "post_id", postID)
			writeError(w, http.StatusForbidden, "delete_not_allowed", "only the author or the family creator may delete a post")
		default:
			h.log.InternalError("posts.delete: failed", err, "user_id", userID, "post_id", postID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
