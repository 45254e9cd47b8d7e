package handlers

import (
	"PassVault/internal/model"
	"PassVault/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SecretHandler - CRUD секретов старого формата (/api/secrets).
type SecretHandler struct {
	SecretService *service.SecretService
	Logger        *zap.SugaredLogger
}

func NewSecretHandler(secretService *service.SecretService, logger *zap.SugaredLogger) *SecretHandler {
	return &SecretHandler{SecretService: secretService, Logger: logger}
}

// SecretRequest - тело создания и обновления секрета.
type SecretRequest struct {
	Key    *string `json:"key,omitempty"`
	Secret *string `json:"secret,omitempty"`
}

// Create создание секрета
func (h *SecretHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req SecretRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.Logger.Warnw("CreateSecret: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	secretID, err := h.SecretService.Create(r.Context(), id, deref(req.Key), deref(req.Secret))
	if err != nil {
		writeError(w, h.Logger, "CreateSecret", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": secretID.String()})
}

// List все секреты пользователя
func (h *SecretHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	recs, err := h.SecretService.List(r.Context(), id)
	if err != nil {
		writeError(w, h.Logger, "ListSecrets", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponses(recs))
}

func (h *SecretHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	secretID, ok := h.secretID(w, r)
	if !ok {
		return
	}

	rec, err := h.SecretService.Get(r.Context(), id, secretID)
	if err != nil {
		writeError(w, h.Logger, "GetSecret", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(*rec))
}

func (h *SecretHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	secretID, ok := h.secretID(w, r)
	if !ok {
		return
	}

	var req SecretRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.Logger.Warnw("UpdateSecret: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	patch := model.LegacySecretPatch{Key: req.Key, Secret: req.Secret}
	if err := h.SecretService.Update(r.Context(), id, secretID, patch); err != nil {
		writeError(w, h.Logger, "UpdateSecret", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SecretHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	secretID, ok := h.secretID(w, r)
	if !ok {
		return
	}

	if err := h.SecretService.Delete(r.Context(), id, secretID); err != nil {
		writeError(w, h.Logger, "DeleteSecret", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SecretHandler) secretID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	secretID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid secret id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return secretID, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
