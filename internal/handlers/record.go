package handlers

import (
	"PassVault/internal/model"
	"PassVault/internal/service"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecordHandler - CRUD записей текущего пользователя.
type RecordHandler struct {
	RecordService *service.RecordService
	Logger        *zap.SugaredLogger
}

func NewRecordHandler(recordService *service.RecordService, logger *zap.SugaredLogger) *RecordHandler {
	return &RecordHandler{RecordService: recordService, Logger: logger}
}

// RecordRequest - тело создания и обновления записи. Все поля необязательны.
type RecordRequest struct {
	RecordType *model.RecordType `json:"record_type,omitempty"`
	Service    *string           `json:"service,omitempty"`
	Username   *string           `json:"username,omitempty"`
	Email      *string           `json:"email,omitempty"`
	Password   *string           `json:"password,omitempty"`
	Key        *string           `json:"key,omitempty"`
	Secret     *string           `json:"secret,omitempty"`
}

// RecordResponse - расшифрованная запись.
type RecordResponse struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	RecordType model.RecordType `json:"record_type"`
	Service    *string          `json:"service,omitempty"`
	Username   *string          `json:"username,omitempty"`
	Email      *string          `json:"email,omitempty"`
	Password   *string          `json:"password,omitempty"`
	Key        *string          `json:"key,omitempty"`
	Secret     *string          `json:"secret,omitempty"`
	CreatedAt  string           `json:"created_at"`
	UpdatedAt  string           `json:"updated_at"`
}

func toRecordResponse(rec model.Record) RecordResponse {
	resp := RecordResponse{
		ID:         rec.ID.String(),
		UserID:     rec.OwnerID.String(),
		RecordType: rec.Payload.Type(),
		CreatedAt:  rec.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  rec.UpdatedAt.UTC().Format(time.RFC3339),
	}
	switch p := rec.Payload.(type) {
	case model.PasswordPayload:
		resp.Service = &p.Service
		resp.Password = &p.Password
		resp.Email = p.Email
		resp.Username = p.Username
	case model.SecretPayload:
		resp.Key = &p.Key
		resp.Secret = &p.Secret
	}
	return resp
}

func toRecordResponses(recs []model.Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toRecordResponse(rec))
	}
	return out
}

// Create создание записи
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req RecordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.Logger.Warnw("Create: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	recordID, err := h.RecordService.Create(r.Context(), id, model.RecordCandidate{
		RecordType: req.RecordType,
		Service:    req.Service,
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		Key:        req.Key,
		Secret:     req.Secret,
	})
	if err != nil {
		writeError(w, h.Logger, "Create", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": recordID.String()})
}

// List все записи пользователя
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	recs, err := h.RecordService.List(r.Context(), id)
	if err != nil {
		writeError(w, h.Logger, "List", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponses(recs))
}

// Get одна запись по id
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	recordID, ok := h.recordID(w, r)
	if !ok {
		return
	}

	rec, err := h.RecordService.Get(r.Context(), id, recordID)
	if err != nil {
		writeError(w, h.Logger, "Get", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(*rec))
}

// Update частичное обновление записи
func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	recordID, ok := h.recordID(w, r)
	if !ok {
		return
	}

	var req RecordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.Logger.Warnw("Update: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	err := h.RecordService.Update(r.Context(), id, recordID, model.RecordPatch{
		RecordType: req.RecordType,
		Service:    req.Service,
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		Key:        req.Key,
		Secret:     req.Secret,
	})
	if err != nil {
		writeError(w, h.Logger, "Update", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete удаление записи
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	recordID, ok := h.recordID(w, r)
	if !ok {
		return
	}

	if err := h.RecordService.Delete(r.Context(), id, recordID); err != nil {
		writeError(w, h.Logger, "Delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RecordHandler) recordID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	recordID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid record id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return recordID, true
}
