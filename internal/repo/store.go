package repo

import (
	"PassVault/internal/model"
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound - записи с такой парой (id, owner_id) нет. Чужая запись неотличима от отсутствующей.
var ErrNotFound = errors.New("record not found")

// Cursor - однопроходная последовательность документов. Строки по мере чтения
// отдаёт только rowsCursor gorm-хранилища, MemoryVaultStore отдаёт готовый снимок.
// После Close или исчерпания повторно не читается.
type Cursor[T any] interface {
	Next() bool
	Current() T
	Err() error
	Close() error
}

// VaultStore определяет контракт хранилища записей. Каждый метод, принимающий ownerID,
// фильтрует по нему на уровне хранилища.
type VaultStore interface {
	// Insert сохраняет запись и возвращает присвоенный идентификатор.
	Insert(ctx context.Context, rec *model.StoredRecord) (uuid.UUID, error)
	// Get возвращает запись по паре (recordID, ownerID) или ErrNotFound.
	Get(ctx context.Context, recordID, ownerID uuid.UUID) (*model.StoredRecord, error)
	// Update применяет только заданные поля патча. ErrNotFound при промахе.
	Update(ctx context.Context, recordID, ownerID uuid.UUID, patch model.RecordPatch) error
	// Delete удаляет запись безвозвратно. ErrNotFound при промахе.
	Delete(ctx context.Context, recordID, ownerID uuid.UUID) error
	// ListAll возвращает все записи владельца.
	ListAll(ctx context.Context, ownerID uuid.UUID) (Cursor[model.StoredRecord], error)
	// Search возвращает записи владельца с учётом фильтров и пагинации.
	Search(ctx context.Context, q model.SearchQuery) (Cursor[model.StoredRecord], error)
	// CountSearch возвращает число записей, подходящих под фильтры q, без учёта пагинации.
	CountSearch(ctx context.Context, q model.SearchQuery) (int, error)

	// InsertLegacySecret сохраняет секрет старого формата.
	InsertLegacySecret(ctx context.Context, s *model.LegacySecret) (uuid.UUID, error)
	GetLegacySecret(ctx context.Context, secretID, ownerID uuid.UUID) (*model.LegacySecret, error)
	UpdateLegacySecret(ctx context.Context, secretID, ownerID uuid.UUID, patch model.LegacySecretPatch) error
	DeleteLegacySecret(ctx context.Context, secretID, ownerID uuid.UUID) error
	ListLegacySecrets(ctx context.Context, ownerID uuid.UUID) (Cursor[model.LegacySecret], error)
	// SearchLegacySecrets ищет по секретам старого формата. Пагинация задаётся явно
	// offset и limit: в общей выдаче секреты идут после записей.
	SearchLegacySecrets(ctx context.Context, q model.SearchQuery, offset, limit int) (Cursor[model.LegacySecret], error)
}

// sliceCursor отдаёт заранее подготовленный срез.
type sliceCursor[T any] struct {
	items []T
	pos   int
	cur   T
}

func newSliceCursor[T any](items []T) *sliceCursor[T] {
	return &sliceCursor[T]{items: items}
}

func (c *sliceCursor[T]) Next() bool {
	if c.pos >= len(c.items) {
		var zero T
		c.cur = zero
		return false
	}
	c.cur = c.items[c.pos]
	c.pos++
	return true
}

func (c *sliceCursor[T]) Current() T { return c.cur }
func (c *sliceCursor[T]) Err() error { return nil }

func (c *sliceCursor[T]) Close() error {
	c.pos = len(c.items)
	return nil
}
