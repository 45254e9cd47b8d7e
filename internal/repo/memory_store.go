package repo

import (
	"PassVault/internal/model"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryVaultStore - реализация VaultStore в памяти процесса для тестов. Курсоры
// отдают готовый снимок, сделанный под блокировкой: выборка не ленивая, ленивое
// чтение даёт только rowsCursor в gorm-реализации.
type MemoryVaultStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]model.StoredRecord
	secrets map[uuid.UUID]model.LegacySecret
	now     func() time.Time
	last    time.Time
}

var _ VaultStore = (*MemoryVaultStore)(nil)

func NewMemoryVaultStore() *MemoryVaultStore {
	return &MemoryVaultStore{
		records: make(map[uuid.UUID]model.StoredRecord),
		secrets: make(map[uuid.UUID]model.LegacySecret),
		now:     time.Now,
	}
}

func (s *MemoryVaultStore) Insert(_ context.Context, rec *model.StoredRecord) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	ts := s.tick()
	rec.CreatedAt, rec.UpdatedAt = ts, ts
	s.records[rec.ID] = cloneRecord(*rec)
	return rec.ID, nil
}

func (s *MemoryVaultStore) Get(_ context.Context, recordID, ownerID uuid.UUID) (*model.StoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[recordID]
	if !ok || rec.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	out := cloneRecord(rec)
	return &out, nil
}

func (s *MemoryVaultStore) Update(_ context.Context, recordID, ownerID uuid.UUID, patch model.RecordPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[recordID]
	if !ok || rec.OwnerID != ownerID {
		return ErrNotFound
	}
	apply := func(dst **string, v *string) {
		if v != nil {
			val := *v
			*dst = &val
		}
	}
	apply(&rec.Service, patch.Service)
	apply(&rec.Email, patch.Email)
	apply(&rec.Username, patch.Username)
	apply(&rec.Password, patch.Password)
	apply(&rec.Key, patch.Key)
	apply(&rec.Secret, patch.Secret)
	rec.UpdatedAt = s.tick()
	s.records[recordID] = rec
	return nil
}

func (s *MemoryVaultStore) Delete(_ context.Context, recordID, ownerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[recordID]
	if !ok || rec.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(s.records, recordID)
	return nil
}

func (s *MemoryVaultStore) ListAll(_ context.Context, ownerID uuid.UUID) (Cursor[model.StoredRecord], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.StoredRecord
	for _, rec := range s.records {
		if rec.OwnerID == ownerID {
			out = append(out, cloneRecord(rec))
		}
	}
	sortRecords(out)
	return newSliceCursor(out), nil
}

func (s *MemoryVaultStore) Search(_ context.Context, q model.SearchQuery) (Cursor[model.StoredRecord], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.matchRecords(q)
	return newSliceCursor(window(out, q.Offset(), q.Limit)), nil
}

func (s *MemoryVaultStore) CountSearch(_ context.Context, q model.SearchQuery) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.matchRecords(q)), nil
}

// matchRecords возвращает подходящие записи в порядке created_at, id. Вызывается под s.mu.
func (s *MemoryVaultStore) matchRecords(q model.SearchQuery) []model.StoredRecord {
	var out []model.StoredRecord
	for _, rec := range s.records {
		if rec.OwnerID != q.OwnerID {
			continue
		}
		if q.Type != "" && rec.RecordType != q.Type {
			continue
		}
		if q.Query != "" && !containsFold(rec.Service, q.Query) && !containsFold(rec.Key, q.Query) {
			continue
		}
		if q.Service != "" && !containsFold(rec.Service, q.Service) {
			continue
		}
		if q.Key != "" && !containsFold(rec.Key, q.Key) {
			continue
		}
		out = append(out, cloneRecord(rec))
	}
	sortRecords(out)
	return out
}

func (s *MemoryVaultStore) InsertLegacySecret(_ context.Context, ls *model.LegacySecret) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ls.ID == uuid.Nil {
		ls.ID = uuid.New()
	}
	ts := s.tick()
	ls.CreatedAt, ls.UpdatedAt = ts, ts
	s.secrets[ls.ID] = *ls
	return ls.ID, nil
}

func (s *MemoryVaultStore) GetLegacySecret(_ context.Context, secretID, ownerID uuid.UUID) (*model.LegacySecret, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ls, ok := s.secrets[secretID]
	if !ok || ls.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return &ls, nil
}

func (s *MemoryVaultStore) UpdateLegacySecret(_ context.Context, secretID, ownerID uuid.UUID, patch model.LegacySecretPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ls, ok := s.secrets[secretID]
	if !ok || ls.OwnerID != ownerID {
		return ErrNotFound
	}
	if patch.Key != nil {
		ls.Key = *patch.Key
	}
	if patch.Secret != nil {
		ls.Secret = *patch.Secret
	}
	ls.UpdatedAt = s.tick()
	s.secrets[secretID] = ls
	return nil
}

func (s *MemoryVaultStore) DeleteLegacySecret(_ context.Context, secretID, ownerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ls, ok := s.secrets[secretID]
	if !ok || ls.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(s.secrets, secretID)
	return nil
}

func (s *MemoryVaultStore) ListLegacySecrets(_ context.Context, ownerID uuid.UUID) (Cursor[model.LegacySecret], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return newSliceCursor(s.matchSecrets(ownerID, func(model.LegacySecret) bool { return true })), nil
}

func (s *MemoryVaultStore) SearchLegacySecrets(_ context.Context, q model.SearchQuery, offset, limit int) (Cursor[model.LegacySecret], error) {
	if !q.IncludesSecrets() || q.Service != "" || limit <= 0 {
		return newSliceCursor[model.LegacySecret](nil), nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.matchSecrets(q.OwnerID, func(ls model.LegacySecret) bool {
		if q.Query != "" && !containsFold(&ls.Key, q.Query) {
			return false
		}
		return q.Key == "" || containsFold(&ls.Key, q.Key)
	})
	return newSliceCursor(window(out, offset, limit)), nil
}

// matchSecrets отбирает секреты владельца в порядке created_at, id. Вызывается под s.mu.
func (s *MemoryVaultStore) matchSecrets(ownerID uuid.UUID, keep func(model.LegacySecret) bool) []model.LegacySecret {
	var out []model.LegacySecret
	for _, ls := range s.secrets {
		if ls.OwnerID == ownerID && keep(ls) {
			out = append(out, ls)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// tick возвращает строго возрастающее время, чтобы порядок вставки был однозначным.
// Вызывается под s.mu.
func (s *MemoryVaultStore) tick() time.Time {
	ts := s.now().UTC()
	if !ts.After(s.last) {
		ts = s.last.Add(time.Nanosecond)
	}
	s.last = ts
	return ts
}

// window вырезает из items окно [offset, offset+limit).
func window[T any](items []T, offset, limit int) []T {
	offset = max(offset, 0)
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func sortRecords(recs []model.StoredRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.Before(recs[j].CreatedAt)
		}
		return recs[i].ID.String() < recs[j].ID.String()
	})
}

func containsFold(field *string, sub string) bool {
	if field == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*field), strings.ToLower(sub))
}

func cloneRecord(rec model.StoredRecord) model.StoredRecord {
	cp := func(v *string) *string {
		if v == nil {
			return nil
		}
		s := *v
		return &s
	}
	rec.Service = cp(rec.Service)
	rec.Email = cp(rec.Email)
	rec.Username = cp(rec.Username)
	rec.Password = cp(rec.Password)
	rec.Key = cp(rec.Key)
	rec.Secret = cp(rec.Secret)
	return rec
}
