package model

import "github.com/google/uuid"

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 100
)

// SearchQuery - параметры поиска, всегда привязанные к владельцу.
// Page начинается с 0, смещение считается как Page*Limit.
type SearchQuery struct {
	OwnerID uuid.UUID
	Query   string     // подстрока в service или key, без учёта регистра
	Service string     // подстрока в service
	Key     string     // подстрока в key
	Type    RecordType // пусто - любые записи
	Page    int
	Limit   int
}

// Offset возвращает число пропускаемых документов.
func (q SearchQuery) Offset() int {
	return q.Page * q.Limit
}

// IncludesSecrets - попадают ли в выборку секреты (в том числе старого формата).
func (q SearchQuery) IncludesSecrets() bool {
	return q.Type == "" || q.Type == RecordTypeSecret
}
