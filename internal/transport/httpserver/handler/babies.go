package handler

import (
	"errors"
	"net/http"
	"time"

	babydomain "babycare-go/internal/domain/baby"
	"babycare-go/internal/transport/httpserver/middleware"

	"github.com/go-chi/chi/v5"
)

type createBabyRequest struct {
	FamilyID    string   `json:"family_id"`
	Name        string   `json:"name"`
	Gender      string   `json:"gender"`
	Birthdate   string   `json:"birthdate"`
	Avatar      string   `json:"avatar"`
	Description string   `json:"description"`
	BirthWeight *float64 `json:"birth_weight"`
	BirthHeight *float64 `json:"birth_height"`
}

type updateBabyRequest struct {
	Name          *string  `json:"name"`
	Avatar        *string  `json:"avatar"`
	Description   *string  `json:"description"`
	CurrentWeight *float64 `json:"current_weight"`
	CurrentHeight *float64 `json:"current_height"`
}

type babyResponse struct {
	ID            string   `json:"id"`
	FamilyID      string   `json:"family_id"`
	Name          string   `json:"name"`
	Gender        string   `json:"gender"`
	Birthdate     string   `json:"birthdate"`
	Age           string   `json:"age"`
	Avatar        string   `json:"avatar,omitempty"`
	Description   string   `json:"description,omitempty"`
	BirthWeight   *float64 `json:"birth_weight,omitempty"`
	BirthHeight   *float64 `json:"birth_height,omitempty"`
	CurrentWeight *float64 `json:"current_weight,omitempty"`
	CurrentHeight *float64 `json:"current_height,omitempty"`
}

func toBabyResponse(b *babydomain.Baby) babyResponse {
	return babyResponse{
		ID:            b.ID,
		FamilyID:      b.FamilyID,
		Name:          b.Name,
		Gender:        b.Gender,
		Birthdate:     b.Birthdate.Format("2006-01-02"),
		Age:           babydomain.FormatAge(b.AgeInDays(time.Now())),
		Avatar:        b.Avatar,
		Description:   b.Description,
		BirthWeight:   b.BirthWeight,
		BirthHeight:   b.BirthHeight,
		CurrentWeight: b.CurrentWeight,
		CurrentHeight: b.CurrentHeight,
	}
}

func (h *Handlers) CreateBaby(w http.ResponseWriter, r *http.Request) {
	var req createBabyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	birthdate, err := time.Parse("2006-01-02", req.Birthdate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "birthdate must be YYYY-MM-DD")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	created, err := h.Babies.AddBaby(r.Context(), userID, babydomain.CreateInput{
		FamilyID:    req.FamilyID,
		Name:        req.Name,
		Gender:      req.Gender,
		Birthdate:   birthdate,
		Avatar:      req.Avatar,
		Description: req.Description,
		BirthWeight: req.BirthWeight,
		BirthHeight: req.BirthHeight,
	})
	if err != nil {
		switch {
		case errors.Is(err, babydomain.ErrNoFamilyAccess):
			h.log.BusinessError("babies.create: no family access", err, "user_id", userID, "family_id", req.FamilyID)
			writeError(w, http.StatusForbidden, "no_family_access", "not an active member of this family")
		case errors.Is(err, babydomain.ErrTooManyBabies):
			h.log.BusinessError("babies.create: baby limit reached", err, "user_id", userID, "family_id", req.FamilyID)
			writeError(w, http.StatusConflict, "too_many_babies", "family baby limit reached")
		default:
			h.log.BusinessError("babies.create: invalid input", err, "user_id", userID, "family_id", req.FamilyID)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, toBabyResponse(created))
}

func (h *Handlers) ListBabies(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	familyID := chi.URLParam(r, "family_id")

	babies, err := h.Babies.ListBabies(r.Context(), userID, familyID)
	if err != nil {
		if errors.Is(err, babydomain.ErrNoFamilyAccess) {
			h.log.BusinessError("babies.list: no family access", err, "user_id", userID, "family_id", familyID)
			writeError(w, http.StatusForbidden, "no_family_access", "not an active member of this family")
			return
		}
		h.log.InternalError("babies.list: list failed", err, "user_id", userID, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]babyResponse, 0, len(babies))
	for i := range babies {
		response = append(response, toBabyResponse(&babies[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetBaby(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	babyID := chi.URLParam(r, "baby_id")

	found, err := h.Babies.GetBaby(r.Context(), userID, babyID)
	if err != nil {
		switch {
		case errors.Is(err, babydomain.ErrBabyNotFound):
			h.log.BusinessError("babies.get: baby not found", err, "user_id", userID, "baby_id", babyID)
			writeError(w, http.StatusNotFound, "baby_not_found", "baby not found")
		case errors.Is(err, babydomain.ErrNoFamilyAccess):
			h.log.BusinessError("babies.get: no family access", err, "user_id", userID, "baby_id", babyID)
			writeError(w, http.StatusForbidden, "no_family_access", "not an active member of this family")
		default:
			h.log.InternalError("babies.get: get failed", err, "user_id", userID, "baby_id", babyID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toBabyResponse(found))
}

func (h *Handlers) UpdateBaby(w http.ResponseWriter, r *http.Request) {
	var req updateBabyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	babyID := chi.URLParam(r, "baby_id")

	updated, err := h.Babies.UpdateBaby(r.Context(), userID, babyID, babydomain.UpdateInput{
		Name:          req.Name,
		Avatar:        req.Avatar,
		Description:   req.Description,
		CurrentWeight: req.CurrentWeight,
		CurrentHeight: req.CurrentHeight,
	})
	if err != nil {
		switch {
		case errors.Is(err, babydomain.ErrBabyNotFound):
			h.log.BusinessError("babies.update: baby not found", err, "user_id", userID, "baby_id", babyID)
			writeError(w, http.StatusNotFound, "baby_not_found", "baby not found")
		case errors.Is(err, babydomain.ErrNoFamilyAccess):
			h.log.BusinessError("babies.update: no family access", err, "user_id", userID, "baby_id", babyID)
			writeError(w, http.StatusForbidden, "no_family_access", "not an active member of this family")
		default:
			h.log.BusinessError("babies.update: invalid input", err, "user_id", userID, "baby_id", babyID)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, toBabyResponse(updated))
}
