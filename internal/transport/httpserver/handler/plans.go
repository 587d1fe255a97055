package handler

import (
	"errors"
	"net/http"
	"time"

	plandomain "babycare-go/internal/domain/plan"
	"babycare-go/internal/transport/httpserver/middleware"

	"github.com/go-chi/chi/v5"
)

type createPlanRequest struct {
	BabyID         string     `json:"baby_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Category       string     `json:"category"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	TargetAgeMonth *int       `json:"target_age_month"`
	Difficulty     int        `json:"difficulty"`
	Goals          string     `json:"goals"`
}

type updatePlanRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Goals       *string    `json:"goals"`
	Difficulty  *int       `json:"difficulty"`
	EndDate     *time.Time `json:"end_date"`
}

type createActivityRequest struct {
	Name          string     `json:"name"`
	Type          string     `json:"type"`
	ScheduledTime *time.Time `json:"scheduled_time"`
	DurationMins  *int       `json:"duration_mins"`
	Notes         string     `json:"notes"`
}

type completeActivityRequest struct {
	Notes  string `json:"notes"`
	Rating *int   `json:"rating"`
}

type planResponse struct {
	ID             string     `json:"id"`
	BabyID         string     `json:"baby_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Category       string     `json:"category"`
	Status         string     `json:"status"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	TargetAgeMonth *int       `json:"target_age_month,omitempty"`
	Difficulty     int        `json:"difficulty"`
	Goals          string     `json:"goals,omitempty"`
	Progress       int        `json:"progress"`
	CreatedBy      string     `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
}

type activityResponse struct {
	ID            string     `json:"id"`
	PlanID        string     `json:"plan_id"`
	Name          string     `json:"name"`
	Type          string     `json:"type,omitempty"`
	Status        string     `json:"status"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	DurationMins  *int       `json:"duration_mins,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Rating        *int       `json:"rating,omitempty"`
}

func toPlanResponse(p *plandomain.Plan) planResponse {
	return planResponse{
		ID:             p.ID,
		BabyID:         p.BabyID,
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		Status:         p.Status,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		TargetAgeMonth: p.TargetAgeMonth,
		Difficulty:     p.Difficulty,
		Goals:          p.Goals,
		Progress:       p.Progress,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      p.CreatedAt,
	}
}

func toActivityResponse(a *plandomain.Activity) activityResponse {
	return activityResponse{
		ID:            a.ID,
		PlanID:        a.PlanID,
		Name:          a.Name,
		Type:          a.Type,
		Status:        a.Status,
		ScheduledTime: a.ScheduledTime,
		DurationMins:  a.DurationMins,
		Notes:         a.Notes,
		Rating:        a.Rating,
	}
}

func (h *Handlers) writePlanError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, plandomain.ErrPlanNotFound):
		h.log.BusinessError(op+": plan not found", err, args...)
		writeError(w, http.StatusNotFound, "plan_not_found", "education plan not found")
	case errors.Is(err, plandomain.ErrActivityNotFound):
		h.log.BusinessError(op+": activity not found", err, args...)
		writeError(w, http.StatusNotFound, "activity_not_found", "plan activity not found")
	case errors.Is(err, plandomain.ErrBabyNotFound):
		h.log.BusinessError(op+": baby not found", err, args...)
		writeError(w, http.StatusNotFound, "baby_not_found", "baby not found")
	case errors.Is(err, plandomain.ErrNoFamilyAccess):
		h.log.BusinessError(op+": no family access", err, args...)
		writeError(w, http.StatusForbidden, "no_family_access", "not an active member of this family")
	case errors.Is(err, plandomain.ErrDeleteNotAllowed):
		h.log.BusinessError(op+": delete not allowed", err, args...)
		writeError(w, http.StatusForbidden, "delete_not_allowed", "only the plan author or the family creator may delete a plan")
	case errors.Is(err, plandomain.ErrPlanNotActive):
		h.log.BusinessError(op+": plan not active", err, args...)
		writeError(w, http.StatusConflict, "plan_not_active", "plan is already finished")
	default:
		h.log.BusinessError(op+": invalid input", err, args...)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	}
}

func (h *Handlers) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	created, err := h.Plans.CreatePlan(r.Context(), userID, plandomain.CreateInput{
		BabyID:         req.BabyID,
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		TargetAgeMonth: req.TargetAgeMonth,
		Difficulty:     req.Difficulty,
		Goals:          req.Goals,
	})
	if err != nil {
		h.writePlanError(w, "plans.create", err, "user_id", userID, "baby_id", req.BabyID)
		return
	}

	writeJSON(w, http.StatusCreated, toPlanResponse(created))
}

func (h *Handlers) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	var req updatePlanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	planID := chi.URLParam(r, "plan_id")

	updated, err := h.Plans.UpdatePlan(r.Context(), userID, planID, plandomain.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Goals:       req.Goals,
		Difficulty:  req.Difficulty,
		EndDate:     req.EndDate,
	})
	if err != nil {
		h.writePlanError(w, "plans.update", err, "user_id", userID, "plan_id", planID)
		return
	}

	writeJSON(w, http.StatusOK, toPlanResponse(updated))
}

func (h *Handlers) DeletePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	planID := chi.URLParam(r, "plan_id")

	if err := h.Plans.DeletePlan(r.Context(), userID, planID); err != nil {
		h.writePlanError(w, "plans.delete", err, "user_id", userID, "plan_id", planID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	babyID := chi.URLParam(r, "baby_id")

	var (
		plans []plandomain.Plan
		err   error
	)
	if r.URL.Query().Get("active") == "true" {
		plans, err = h.Plans.ListActive(r.Context(), userID, babyID)
	} else {
		plans, err = h.Plans.ListByBaby(r.Context(), userID, babyID)
	}
	if err != nil {
		h.writePlanError(w, "plans.list", err, "user_id", userID, "baby_id", babyID)
		return
	}

	response := make([]planResponse, 0, len(plans))
	for i := range plans {
		response = append(response, toPlanResponse(&plans[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) StartPlan(w http.ResponseWriter, r *http.Request) {
	h.transitionPlan(w, r, "plans.start", func(userID, planID string) (*plandomain.Plan, error) {
		return h.Plans.StartPlan(r.Context(), userID, planID)
	})
}

func (h *Handlers) CompletePlan(w http.ResponseWriter, r *http.Request) {
	h.transitionPlan(w, r, "plans.complete", func(userID, planID string) (*plandomain.Plan, error) {
		return h.Plans.CompletePlan(r.Context(), userID, planID)
	})
}

func (h *Handlers) transitionPlan(w http.ResponseWriter, r *http.Request, op string, fn func(userID, planID string) (*plandomain.Plan, error)) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	planID := chi.URLParam(r, "plan_id")

	updated, err := fn(userID, planID)
	if err != nil {
		h.writePlanError(w, op, err, "user_id", userID, "plan_id", planID)
		return
	}

	writeJSON(w, http.StatusOK, toPlanResponse(updated))
}

func (h *Handlers) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req createActivityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	planID := chi.URLParam(r, "plan_id")

	created, err := h.Plans.CreateActivity(r.Context(), userID, plandomain.ActivityInput{
		PlanID:        planID,
		Name:          req.Name,
		Type:          req.Type,
		ScheduledTime: req.ScheduledTime,
		DurationMins:  req.DurationMins,
		Notes:         req.Notes,
	})
	if err != nil {
		h.writePlanError(w, "plans.create_activity", err, "user_id", userID, "plan_id", planID)
		return
	}

	writeJSON(w, http.StatusCreated, toActivityResponse(created))
}

func (h *Handlers) ListActivities(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	planID := chi.URLParam(r, "plan_id")

	activities, err := h.Plans.ListActivities(r.Context(), userID, planID)
	if err != nil {
		h.writePlanError(w, "plans.list_activities", err, "user_id", userID, "plan_id", planID)
		return
	}

	response := make([]activityResponse, 0, len(activities))
	for i := range activities {
		response = append(response, toActivityResponse(&activities[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CompleteActivity(w http.ResponseWriter, r *http.Request) {
	var req completeActivityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	activityID := chi.URLParam(r, "activity_id")

	completed, err := h.Plans.CompleteActivity(r.Context(), userID, activityID, req.Notes, req.Rating)
	if err != nil {
		h.writePlanError(w, "plans.complete_activity", err, "user_id", userID, "activity_id", activityID)
		return
	}

	writeJSON(w, http.StatusOK, toActivityResponse(completed))
}
