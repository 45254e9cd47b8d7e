package handlers_test

import (
	"PassVault/internal/auth"
	"PassVault/internal/config"
	"PassVault/internal/crypto"
	"PassVault/internal/handlers"
	"PassVault/internal/model"
	"PassVault/internal/repo"
	"PassVault/internal/service"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Minimal mocks
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *mockUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.user(m.Called(ctx, username))
}

func (m *mockUserRepo) UpdateUser(ctx context.Context, id uuid.UUID, email, passwordHash string) error {
	return m.Called(ctx, id, email, passwordHash).Error(0)
}

func (m *mockUserRepo) user(args mock.Arguments) (*model.User, error) {
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

type testEnv struct {
	router http.Handler
	gate   *auth.Gate
	users  *mockUserRepo
	store  *repo.MemoryVaultStore
	cipher *crypto.FieldCipher
}

// --- Helpers ---
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{AuthSecret: "test-secret", CipherKey: "test-cipher", TokenTTL: time.Hour}
	logger := zap.NewNop().Sugar()

	cipher, err := crypto.NewFieldCipher(cfg.CipherKey)
	require.NoError(t, err)
	gate := auth.NewGate(cfg.AuthSecret, cfg.TokenTTL)
	store := repo.NewMemoryVaultStore()
	users := &mockUserRepo{}

	h := handlers.NewHandler(
		service.NewRecordService(store, cipher, logger),
		service.NewSearchComposer(store, cipher, logger),
		service.NewSecretService(store, cipher, logger),
		service.NewUserService(users, logger),
		gate,
		logger,
		cfg,
	)
	return &testEnv{router: h.Router, gate: gate, users: users, store: store, cipher: cipher}
}

func (e *testEnv) do(t *testing.T, method, path, body string, userID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != uuid.Nil {
		token, err := e.gate.Issue(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", auth.Scheme+" "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}
