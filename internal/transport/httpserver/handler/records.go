package handler

import (
	"errors"
	"net/http"
	"time"

	recorddomain "babycare-go/internal/domain/record"
	"babycare-go/internal/transport/httpserver/middleware"

	"github.com/go-chi/chi/v5"
)

type createRecordRequest struct {
	BabyID    string   `json:"baby_id"`
	Type      string   `json:"type"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	MediaURLs []string `json:"media_urls"`
	Tags      []string `json:"tags"`
	Location  string   `json:"location"`
	Weather   string   `json:"weather"`
	Mood      string   `json:"mood"`
}

type recordResponse struct {
	ID        string    `json:"id"`
	BabyID    string    `json:"baby_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	MediaURLs []string  `json:"media_urls,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Location  string    `json:"location,omitempty"`
	Weather   string    `json:"weather,omitempty"`
	Mood      string    `json:"mood,omitempty"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type recordListResponse struct {
	Records []recordResponse `json:"records"`
	Total   int64            `json:"total"`
}

func toRecordResponse(rec *recorddomain.GrowthRecord) recordResponse {
	return recordResponse{
		ID:        rec.ID,
		BabyID:    rec.BabyID,
		Type:      rec.Type,
		Title:     rec.Title,
		Content:   rec.Content,
		MediaURLs: rec.MediaURLs,
		Tags:      rec.Tags,
		Location:  rec.Location,
		Weather:   rec.Weather,
		Mood:      rec.Mood,
		CreatedBy: rec.CreatedBy,
		CreatedAt: rec.CreatedAt,
	}
}

func (h *Handlers) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	created, err := h.Records.Create(r.Context(), userID, recorddomain.CreateInput{
		BabyID:    req.BabyID,
		Type:      req.Type,
		Title:     req.Title,
		Content:   req.Content,
		MediaURLs: req.MediaURLs,
		Tags:      req.Tags,
		Location:  req.Location,
		Weather:   req.Weather,
		Mood:      req.Mood,
	})
	if err != nil {
		switch {
		case errors.Is(err, recorddomain.ErrBabyNotFound):
			h.log.BusinessError("records.create: baby not found", err, "user_id", userID, "baby_id", req.BabyID)
			writeError(w, http.StatusNotFound, "baby_not_found", "baby not found")
		case errors.Is(err, recorddomain.ErrNoFamilyAccess):
			h.log.BusinessError("records.create: no family access", err, "user_id", userID, "baby_id", req.BabyID)
			writeError(w, http.StatusForbidden, "no_family_access", "not an active member of this family")
		default:
			h.log.BusinessError("records.create: invalid input", err, "user_id", userID, "baby_id", req.BabyID)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, toRecordResponse(created))
}

func (h *Handlers) ListRecords(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	babyID := chi.URLParam(r, "baby_id")
	offset, limit := parsePage(r)
	page := recorddomain.Page{Offset: offset, Limit: limit}

	var (
		records []recorddomain.GrowthRecord
		total   int64
		err     error
	)
	if recordType := r.URL.Query().Get("type"); recordType != "" {
		records, total, err = h.Records.ListByType(r.Context(), userID, babyID, recordType, page)
	} else {
		records, total, err = h.Records.ListByBaby(r.Context(), userID, babyID, page)
	}
	if err != nil {
		switch {
		case errors.Is(err, recorddomain.ErrBabyNotFound):
			h.log.BusinessError("records.list: baby not found", err, "user_id", userID, "baby_id", babyID)
			writeError(w, http.StatusNotFound, "baby_not_found", "baby not found")
		case errors.Is(err, recorddomain.ErrNoFamilyAccess):
			h.log.BusinessError("records.list: no family access", err, "user_id", userID, "baby_id", babyID)
			writeError(w, http.StatusForbidden, "no_family_access", "not an active member of this family")
		default:
			h.log.InternalError("records.list: list failed", err, "user_id", userID, "baby_id", babyID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	response := recordListResponse{Records: make([]recordResponse, 0, len(records)), Total: total}
	for i := range records {
		response.Records = append(response.Records, toRecordResponse(&records[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	recordID := chi.URLParam(r, "record_id")

	if err := h.Records.Delete(r.Context(), userID, recordID); err != nil {
		switch {
		case errors.Is(err, recorddomain.ErrRecordNotFound):
			h.log.BusinessError("records.delete: record not found", err, "user_id", userID, "record_id", recordID)
			writeError(w, http.StatusNotFound, "record_not_found", "growth record not found")
		case errors.Is(err, recorddomain.ErrNoFamilyAccess):
			h.log.BusinessError("records.delete: no family access", err, "user_id", userID, "record_id", recordID)
			writeError(w, http.StatusForbidden, "no_family_access", "not an active member of this family")
		case errors.Is(err, recorddomain.ErrDeleteNotAllowed):
			h.log.BusinessError("records.delete: not allowed", err, "user_id", userID, "record_id", recordID)
			writeError(w, http.StatusForbidden, "delete_not_allowed", "only the author or the family creator may delete a record")
		default:
			h.log.InternalError("records.delete: failed", err, "user_id", userID, "record_id", recordID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
