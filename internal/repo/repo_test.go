package repo

import (
	"PassVault/internal/model"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// newTestDB инициализирует in-memory SQLite (modernc.org/sqlite) для тестов репозитория.
// У каждого теста своя именованная база, чтобы данные не пересекались.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// drain вычитывает курсор целиком.
func drain[T any](t *testing.T, c Cursor[T], err error) []T {
	t.Helper()
	require.NoError(t, err)
	defer c.Close()
	var out []T
	for c.Next() {
		out = append(out, c.Current())
	}
	require.NoError(t, c.Err())
	return out
}

func ptr(s string) *string { return &s }

func passwordDoc(owner uuid.UUID, service string) *model.StoredRecord {
	return &model.StoredRecord{
		OwnerID:    owner,
		RecordType: model.RecordTypePassword,
		Service:    ptr(service),
		Email:      ptr("a@example.com"),
		Password:   ptr("ct-password"),
	}
}

func secretDoc(owner uuid.UUID, key string) *model.StoredRecord {
	return &model.StoredRecord{
		OwnerID:    owner,
		RecordType: model.RecordTypeSecret,
		Key:        ptr(key),
		Secret:     ptr("ct-secret"),
	}
}

// storeFactories позволяет прогнать один и тот же контракт на обеих реализациях.
func storeFactories() map[string]func(t *testing.T) VaultStore {
	return map[string]func(t *testing.T) VaultStore{
		"gorm": func(t *testing.T) VaultStore { return NewVaultStore(newTestDB(t)) },
		"memory": func(t *testing.T) VaultStore {
			return NewMemoryVaultStore()
		},
	}
}
