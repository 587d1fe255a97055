package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	familydomain "babycare-go/internal/domain/family"
	"babycare-go/internal/transport/httpserver/middleware"

	"github.com/go-chi/chi/v5"
)

type createFamilyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Nickname    string `json:"nickname"`
}

type joinFamilyRequest struct {
	Code     string `json:"code"`
	Nickname string `json:"nickname"`
}

type updateFamilyRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Avatar      *string `json:"avatar"`
}

type familyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	InviteCode  string    `json:"invite_code"`
	CreatedAt   time.Time `json:"created_at"`
}

type familyDetailResponse struct {
	familyResponse
	MemberCount int64 `json:"member_count"`
	BabyCount   int64 `json:"baby_count"`
}

type memberResponse struct {
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	Nickname string    `json:"nickname,omitempty"`
	Active   bool      `json:"active"`
	JoinedAt time.Time `json:"joined_at"`
}

func toFamilyResponse(f *familydomain.Family) familyResponse {
	return familyResponse{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Avatar:      f.Avatar,
		InviteCode:  f.InviteCode,
		CreatedAt:   f.CreatedAt,
	}
}

func (h *Handlers) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var req createFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	created, err := h.Families.CreateFamily(r.Context(), userID, familydomain.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Nickname:    req.Nickname,
	})
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrAlreadyCreator):
			h.log.BusinessError("families.create: user already created a family", err, "user_id", userID)
			writeError(w, http.StatusConflict, "already_creator", "user has already created a family")
		case errors.Is(err, familydomain.ErrCodeGenerationFailed):
			h.log.InternalError("families.create: invite code generation exhausted", err, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		default:
			h.log.BusinessError("families.create: invalid input", err, "user_id", userID)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, toFamilyResponse(created))
}

func (h *Handlers) JoinFamily(w http.ResponseWriter, r *http.Request) {
	var req joinFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "code is required")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	joined, err := h.Families.JoinFamily(r.Context(), userID, req.Code, req.Nickname)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrInviteCodeNotFound):
			h.log.BusinessError("families.join: invite code not found", err, "user_id", userID)
			writeError(w, http.StatusNotFound, "invite_code_not_found", "invite code not found")
		case errors.Is(err, familydomain.ErrAlreadyMember):
			h.log.BusinessError("families.join: already a member", err, "user_id", userID)
			writeError(w, http.StatusConflict, "already_member", "already a member of this family")
		case errors.Is(err, familydomain.ErrFamilyFull):
			h.log.BusinessError("families.join: family is full", err, "user_id", userID)
			writeError(w, http.StatusConflict, "family_full", "family member limit reached")
		default:
			h.log.InternalError("families.join: join failed", err, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(joined))
}

func (h *Handlers) ListMyFamilies(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	families, err := h.Families.FamiliesOf(r.Context(), userID)
	if err != nil {
		h.log.InternalError("families.list_mine: list failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]familyResponse, 0, len(families))
	for i := range families {
		response = append(response, toFamilyResponse(&families[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetFamily(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	familyID := chi.URLParam(r, "family_id")

	detail, err := h.Families.GetFamily(r.Context(), userID, familyID)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrNotMember):
			h.log.BusinessError("families.get: not a member", err, "user_id", userID, "family_id", familyID)
			writeError(w, http.StatusForbidden, "not_member", "not an active member of this family")
		case errors.Is(err, familydomain.ErrFamilyNotFound):
			h.log.BusinessError("families.get: family not found", err, "user_id", userID, "family_id", familyID)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
		default:
			h.log.InternalError("families.get: get failed", err, "user_id", userID, "family_id", familyID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, familyDetailResponse{
		familyResponse: toFamilyResponse(&detail.Family),
		MemberCount:    detail.MemberCount,
		BabyCount:      detail.BabyCount,
	})
}

func (h *Handlers) UpdateFamily(w http.ResponseWriter, r *http.Request) {
	var req updateFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	familyID := chi.URLParam(r, "family_id")

	updated, err := h.Families.UpdateFamily(r.Context(), userID, familyID, familydomain.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Avatar:      req.Avatar,
	})
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrNotCreator):
			h.log.BusinessError("families.update: not the creator", err, "user_id", userID, "family_id", familyID)
			writeError(w, http.StatusForbidden, "not_creator", "only the creator can update the family")
		case errors.Is(err, familydomain.ErrFamilyNotFound):
			h.log.BusinessError("families.update: family not found", err, "user_id", userID, "family_id", familyID)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
		default:
			h.log.BusinessError("families.update: invalid input", err, "user_id", userID, "family_id", familyID)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(updated))
}

func (h *Handlers) ListFamilyMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	familyID := chi.URLParam(r, "family_id")

	members, err := h.Families.ListMembers(r.Context(), userID, familyID)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrNotMember):
			h.log.BusinessError("families.list_members: not a member", err, "user_id", userID, "family_id", familyID)
			writeError(w, http.StatusForbidden, "not_member", "not an active member of this family")
		default:
			h.log.InternalError("families.list_members: list failed", err, "user_id", userID, "family_id", familyID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	response := make([]memberResponse, 0, len(members))
	for _, member := range members {
		response = append(response, memberResponse{
			UserID:   member.UserID,
			Role:     member.Role,
			Nickname: member.Nickname,
			Active:   member.Active,
			JoinedAt: member.JoinedAt,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) DeactivateFamilyMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	familyID := chi.URLParam(r, "family_id")
	memberUserID := chi.URLParam(r, "user_id")

	if err := h.Families.DeactivateMember(r.Context(), userID, familyID, memberUserID); err != nil {
		switch {
		case errors.Is(err, familydomain.ErrNotCreator):
			h.log.BusinessError("families.deactivate_member: not the creator", err, "actor_id", userID, "family_id", familyID)
			writeError(w, http.StatusForbidden, "not_creator", "only the creator can remove members")
		case errors.Is(err, familydomain.ErrCannotRemoveCreator):
			h.log.BusinessError("families.deactivate_member: cannot remove creator", err, "actor_id", userID, "family_id", familyID)
			writeError(w, http.StatusConflict, "cannot_remove_creator", "the creator cannot be removed")
		case errors.Is(err, familydomain.ErrMemberNotFound):
			h.log.BusinessError("families.deactivate_member: member not found", err, "actor_id", userID, "family_id", familyID, "member_id", memberUserID)
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		default:
			h.log.InternalError("families.deactivate_member: failed", err, "actor_id", userID, "family_id", familyID, "member_id", memberUserID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
