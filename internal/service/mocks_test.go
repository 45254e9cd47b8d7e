package service

import (
	"PassVault/internal/auth"
	"PassVault/internal/crypto"
	"PassVault/internal/model"
	"PassVault/internal/repo"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// мок для repo.VaultStore
type mockVaultStore struct{ mock.Mock }

func (m *mockVaultStore) Insert(ctx context.Context, rec *model.StoredRecord) (uuid.UUID, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockVaultStore) Get(ctx context.Context, recordID, ownerID uuid.UUID) (*model.StoredRecord, error) {
	args := m.Called(ctx, recordID, ownerID)
	if r, ok := args.Get(0).(*model.StoredRecord); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVaultStore) Update(ctx context.Context, recordID, ownerID uuid.UUID, patch model.RecordPatch) error {
	return m.Called(ctx, recordID, ownerID, patch).Error(0)
}

func (m *mockVaultStore) Delete(ctx context.Context, recordID, ownerID uuid.UUID) error {
	return m.Called(ctx, recordID, ownerID).Error(0)
}

func (m *mockVaultStore) ListAll(ctx context.Context, ownerID uuid.UUID) (repo.Cursor[model.StoredRecord], error) {
	args := m.Called(ctx, ownerID)
	if c, ok := args.Get(0).(repo.Cursor[model.StoredRecord]); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVaultStore) Search(ctx context.Context, q model.SearchQuery) (repo.Cursor[model.StoredRecord], error) {
	args := m.Called(ctx, q)
	if c, ok := args.Get(0).(repo.Cursor[model.StoredRecord]); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVaultStore) CountSearch(ctx context.Context, q model.SearchQuery) (int, error) {
	args := m.Called(ctx, q)
	return args.Int(0), args.Error(1)
}

func (m *mockVaultStore) InsertLegacySecret(ctx context.Context, s *model.LegacySecret) (uuid.UUID, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockVaultStore) GetLegacySecret(ctx context.Context, secretID, ownerID uuid.UUID) (*model.LegacySecret, error) {
	args := m.Called(ctx, secretID, ownerID)
	if ls, ok := args.Get(0).(*model.LegacySecret); ok {
		return ls, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVaultStore) UpdateLegacySecret(ctx context.Context, secretID, ownerID uuid.UUID, patch model.LegacySecretPatch) error {
	return m.Called(ctx, secretID, ownerID, patch).Error(0)
}

func (m *mockVaultStore) DeleteLegacySecret(ctx context.Context, secretID, ownerID uuid.UUID) error {
	return m.Called(ctx, secretID, ownerID).Error(0)
}

func (m *mockVaultStore) ListLegacySecrets(ctx context.Context, ownerID uuid.UUID) (repo.Cursor[model.LegacySecret], error) {
	args := m.Called(ctx, ownerID)
	if c, ok := args.Get(0).(repo.Cursor[model.LegacySecret]); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVaultStore) SearchLegacySecrets(ctx context.Context, q model.SearchQuery, offset, limit int) (repo.Cursor[model.LegacySecret], error) {
	args := m.Called(ctx, q, offset, limit)
	if c, ok := args.Get(0).(repo.Cursor[model.LegacySecret]); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.VaultStore = (*mockVaultStore)(nil)

// мок для Cipher
type mockCipher struct{ mock.Mock }

func (m *mockCipher) Encrypt(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

func (m *mockCipher) Decrypt(ciphertext string) (string, error) {
	args := m.Called(ciphertext)
	return args.String(0), args.Error(1)
}

var _ Cipher = (*mockCipher)(nil)

func testCipher(t *testing.T) *crypto.FieldCipher {
	t.Helper()
	c, err := crypto.NewFieldCipher("test-cipher-key")
	require.NoError(t, err)
	return c
}

func nopLogger() *zap.SugaredLogger { return zap.NewNop().Sugar() }

func newIdentity() auth.Identity { return auth.Identity{UserID: uuid.New()} }

// stubCursor отдаёт items, затем возвращает err из Err().
type stubCursor[T any] struct {
	items  []T
	err    error
	pos    int
	closed bool
}

func (c *stubCursor[T]) Next() bool {
	if c.closed || c.pos >= len(c.items) {
		return false
	}
	c.pos++
	return true
}

func (c *stubCursor[T]) Current() T { return c.items[c.pos-1] }
func (c *stubCursor[T]) Err() error { return c.err }
func (c *stubCursor[T]) Close() error {
	c.closed = true
	return nil
}
