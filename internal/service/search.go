package service

import (
	"PassVault/internal/auth"
	"PassVault/internal/model"
	"PassVault/internal/repo"
	"context"

	"go.uber.org/zap"
)

// SearchFilter - параметры поиска от клиента. Владелец сюда не входит:
// он берётся только из проверенной личности.
type SearchFilter struct {
	Query   string
	Service string
	Key     string
	Type    string
	Page    int
	Limit   int
}

// SearchComposer ищет по записям и секретам старого формата одного владельца.
type SearchComposer struct {
	store  repo.VaultStore
	cipher Cipher
	logger *zap.SugaredLogger
}

func NewSearchComposer(store repo.VaultStore, cipher Cipher, logger *zap.SugaredLogger) *SearchComposer {
	return &SearchComposer{store: store, cipher: cipher, logger: logger}
}

// BuildQuery нормализует фильтр и привязывает его к владельцу.
func BuildQuery(id auth.Identity, f SearchFilter) (model.SearchQuery, error) {
	q := model.SearchQuery{
		OwnerID: id.UserID,
		Query:   f.Query,
		Service: f.Service,
		Key:     f.Key,
		Page:    f.Page,
		Limit:   f.Limit,
	}
	if f.Type != "" {
		q.Type = model.RecordType(f.Type)
		if !q.Type.Valid() {
			return model.SearchQuery{}, invalid("type", "unknown record type")
		}
	}
	if q.Page < 0 {
		return model.SearchQuery{}, invalid("page", "page must not be negative")
	}
	switch {
	case q.Limit < 0:
		return model.SearchQuery{}, invalid("limit", "limit must not be negative")
	case q.Limit == 0:
		q.Limit = model.DefaultSearchLimit
	case q.Limit > model.MaxSearchLimit:
		q.Limit = model.MaxSearchLimit
	}
	return q, nil
}

// Search возвращает не больше limit расшифрованных записей. Результаты образуют
// единый поток: сначала все подходящие записи, затем секреты старого формата,
// страница page вырезается из этого потока. Ошибка расшифровки любой из них
// прерывает весь поиск с ErrServer.
func (s *SearchComposer) Search(ctx context.Context, id auth.Identity, f SearchFilter) ([]model.Record, error) {
	q, err := BuildQuery(id, f)
	if err != nil {
		return nil, err
	}

	out := make([]model.Record, 0, q.Limit)

	cur, err := s.store.Search(ctx, q)
	if err != nil {
		return nil, storeErr(s.logger, "search", err)
	}
	defer cur.Close()
	for len(out) < q.Limit && cur.Next() {
		doc := cur.Current()
		rec, err := openRecord(s.cipher, s.logger, &doc)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := cur.Err(); err != nil {
		return nil, storeErr(s.logger, "search", err)
	}

	if len(out) == q.Limit || !q.IncludesSecrets() {
		return out, nil
	}

	skip, err := s.legacySkip(ctx, q, len(out))
	if err != nil {
		return nil, err
	}
	legacy, err := s.store.SearchLegacySecrets(ctx, q, skip, q.Limit-len(out))
	if err != nil {
		return nil, storeErr(s.logger, "search legacy secrets", err)
	}
	defer legacy.Close()
	for len(out) < q.Limit && legacy.Next() {
		ls := legacy.Current()
		rec, err := openLegacySecret(s.cipher, s.logger, &ls)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := legacy.Err(); err != nil {
		return nil, storeErr(s.logger, "search legacy secrets", err)
	}
	return out, nil
}

// legacySkip возвращает, сколько секретов старого формата ушло на предыдущие страницы.
// Если на странице уже есть записи, секреты начинаются с первого.
func (s *SearchComposer) legacySkip(ctx context.Context, q model.SearchQuery, onPage int) (int, error) {
	if onPage > 0 || q.Offset() == 0 {
		return 0, nil
	}
	n, err := s.store.CountSearch(ctx, q)
	if err != nil {
		return 0, storeErr(s.logger, "count search", err)
	}
	return max(0, q.Offset()-n), nil
}
