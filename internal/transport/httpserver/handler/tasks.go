package handler

import (
	"errors"
	"net/http"
	"time"

	taskdomain "babycare-go/internal/domain/task"
	"babycare-go/internal/transport/httpserver/middleware"

	"github.com/go-chi/chi/v5"
)

type createTaskRequest struct {
	FamilyID     string     `json:"family_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	AssigneeIDs  []string   `json:"assignee_ids"`
	DueDate      *time.Time `json:"due_date"`
	Priority     string     `json:"priority"`
	Category     string     `json:"category"`
	ReminderTime *time.Time `json:"reminder_time"`
}

type completeTaskRequest struct {
	Notes string `json:"notes"`
}

type taskResponse struct {
	ID              string     `json:"id"`
	FamilyID        string     `json:"family_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	AssignedBy      string     `json:"assigned_by"`
	Assignees       []string   `json:"assignees"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	Category        string     `json:"category"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CompletedBy     *string    `json:"completed_by,omitempty"`
	CompletionNotes string     `json:"completion_notes,omitempty"`
	ReminderTime    *time.Time `json:"reminder_time,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type taskListResponse struct {
	Tasks []taskResponse `json:"tasks"`
	Total int64          `json:"total"`
}

func toTaskResponse(t taskdomain.TaskWithAssignees) taskResponse {
	assignees := t.Assignees
	if assignees == nil {
		assignees = []string{}
	}
	return taskResponse{
		ID:              t.Task.ID,
		FamilyID:        t.Task.FamilyID,
		Title:           t.Task.Title,
		Description:     t.Task.Description,
		AssignedBy:      t.Task.AssignedBy,
		Assignees:       assignees,
		DueDate:         t.Task.DueDate,
		Priority:        t.Task.Priority,
		Status:          t.Task.Status,
		Category:        t.Task.Category,
		CompletedAt:     t.Task.CompletedAt,
		CompletedBy:     t.Task.CompletedBy,
		CompletionNotes: t.Task.CompletionNotes,
		ReminderTime:    t.Task.ReminderTime,
		CreatedAt:       t.Task.CreatedAt,
	}
}

func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	created, err := h.Tasks.Create(r.Context(), userID, taskdomain.CreateInput{
		FamilyID:     req.FamilyID,
		Title:        req.Title,
		Description:  req.Description,
		AssigneeIDs:  req.AssigneeIDs,
		DueDate:      req.DueDate,
		Priority:     req.Priority,
		Category:     req.Category,
		ReminderTime: req.ReminderTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, taskdomain.ErrNoFamilyAccess):
			h.log.BusinessError("tasks.create: no family access", err, "user_id", userID, "family_id", req.FamilyID)
			writeError(w, http.StatusForbidden, "no_family_access", "not an active member of this family")
		case errors.Is(err, taskdomain.ErrAssigneeNotMember):
			h.log.BusinessError("tasks.create: assignee not a member", err, "user_id", userID, "family_id", req.FamilyID)
			writeError(w, http.StatusBadRequest, "assignee_not_member", "every assignee must be an active family member")
		default:
			h.log.BusinessError("tasks.create: invalid input", err, "user_id", userID, "family_id", req.FamilyID)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, toTaskResponse(*created))
}

func (h *Handlers) ListFamilyTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	familyID := chi.URLParam(r, "family_id")
	offset, limit := parsePage(r)

	tasks, total, err := h.Tasks.ListByFamily(r.Context(), userID, familyID, taskdomain.Page{Offset: offset, Limit: limit})
	if err != nil {
		if errors.Is(err, taskdomain.ErrNoFamilyAccess) {
			h.log.BusinessError("tasks.list: no family access", err, "user_id", userID, "family_id", familyID)
			writeError(w, http.StatusForbidden, "no_family_access", "not an active member of this family")
			return
		}
		h.log.InternalError("tasks.list: list failed", err, "user_id", userID, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toTaskListResponse(tasks, total))
}

func (h *Handlers) ListMyTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	offset, limit := parsePage(r)

	tasks, total, err := h.Tasks.MyTasks(r.Context(), userID, taskdomain.Page{Offset: offset, Limit: limit})
	if err != nil {
		h.log.InternalError("tasks.list_mine: list failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toTaskListResponse(tasks, total))
}

func toTaskListResponse(tasks []taskdomain.TaskWithAssignees, total int64) taskListResponse {
	response := taskListResponse{Tasks: make([]taskResponse, 0, len(tasks)), Total: total}
	for _, item := range tasks {
		response.Tasks = append(response.Tasks, toTaskResponse(item))
	}
	return response
}

func (h *Handlers) StartTask(w http.ResponseWriter, r *http.Request) {
	h.transitionTask(w, r, "tasks.start", func(userID, taskID string) (*taskdomain.Task, error) {
		return h.Tasks.Start(r.Context(), userID, taskID)
	})
}

func (h *Handlers) CancelTask(w http.ResponseWriter, r *http.Request) {
	h.transitionTask(w, r, "tasks.cancel", func(userID, taskID string) (*taskdomain.Task, error) {
		return h.Tasks.Cancel(r.Context(), userID, taskID)
	})
}

func (h *Handlers) CompleteTask(w http.ResponseWriter, r *http.Request) {
	var req completeTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	h.transitionTask(w, r, "tasks.complete", func(userID, taskID string) (*taskdomain.Task, error) {
		return h.Tasks.Complete(r.Context(), userID, taskID, req.Notes)
	})
}

func (h *Handlers) transitionTask(w http.ResponseWriter, r *http.Request, op string, fn func(userID, taskID string) (*taskdomain.Task, error)) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	taskID := chi.URLParam(r, "task_id")

	updated, err := fn(userID, taskID)
	if err != nil {
		switch {
		case errors.Is(err, taskdomain.ErrTaskNotFound):
			h.log.BusinessError(op+": task not found", err, "user_id", userID, "task_id", taskID)
			writeError(w, http.StatusNotFound, "task_not_found", "task not found")
		case errors.Is(err, taskdomain.ErrNoFamilyAccess):
			h.log.BusinessError(op+": no family access", err, "user_id", userID, "task_id", taskID)
			writeError(w, http.StatusForbidden, "no_family_access", "not an active member of this family")
		default:
			h.log.InternalError(op+": failed", err, "user_id", userID, "task_id", taskID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(taskdomain.TaskWithAssignees{Task: *updated}))
}

func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	taskID := chi.URLParam(r, "task_id")

	if err := h.Tasks.Delete(r.Context(), userID, taskID); err != nil {
		switch {
		case errors.Is(err, taskdomain.ErrTaskNotFound):
			h.log.BusinessError("tasks.delete: task not found", err, "user_id", userID, "task_id", taskID)
			writeError(w, http.StatusNotFound, "task_not_found", "task not found")
		case errors.Is(err, taskdomain.ErrDeleteNotAllowed):
			h.log.BusinessError("tasks.delete: not allowed", err, "user_id", userID, "task_id", taskID)
			writeError(w, http.StatusForbidden, "delete_not_allowed", "only the assigner or the family creator may delete a task")
		default:
			h.log.InternalError("tasks.delete: failed", err, "user_id", userID, "task_id", taskID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
