package handlers

import (
	"PassVault/internal/service"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// SearchHandler - поиск по записям текущего пользователя.
type SearchHandler struct {
	SearchService *service.SearchComposer
	Logger        *zap.SugaredLogger
}

func NewSearchHandler(searchService *service.SearchComposer, logger *zap.SugaredLogger) *SearchHandler {
	return &SearchHandler{SearchService: searchService, Logger: logger}
}

// Search GET /api/search?q=&service=&key=&type=&page=&limit=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	f := service.SearchFilter{
		Query:   q.Get("q"),
		Service: q.Get("service"),
		Key:     q.Get("key"),
		Type:    q.Get("type"),
	}
	var err error
	if f.Page, err = intParam(q.Get("page")); err != nil {
		http.Error(w, "invalid page", http.StatusBadRequest)
		return
	}
	if f.Limit, err = intParam(q.Get("limit")); err != nil {
		http.Error(w, "invalid limit", http.StatusBadRequest)
		return
	}

	recs, err := h.SearchService.Search(r.Context(), id, f)
	if err != nil {
		writeError(w, h.Logger, "Search", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponses(recs))
}

// intParam: пустое значение даёт 0.
func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
