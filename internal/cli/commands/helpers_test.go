package commands

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"PassVault/internal/auth"
	"PassVault/internal/config"
	"PassVault/internal/crypto"
	"PassVault/internal/handlers"
	"PassVault/internal/repo"
	"PassVault/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestServer поднимает настоящий API поверх SQLite в памяти и возвращает
// конфиг CLI, смотрящий на него. Токен хранится во временном каталоге.
func newTestServer(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{AuthSecret: "cli-test-secret", CipherKey: "cli-test-cipher", TokenTTL: time.Hour}
	logger := zap.NewNop().Sugar()

	db, err := repo.InitDB(repo.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cipher, err := crypto.NewFieldCipher(cfg.CipherKey)
	require.NoError(t, err)
	gate := auth.NewGate(cfg.AuthSecret, cfg.TokenTTL)
	store := repo.NewVaultStore(db)

	h := handlers.NewHandler(
		service.NewRecordService(store, cipher, logger),
		service.NewSearchComposer(store, cipher, logger),
		service.NewSecretService(store, cipher, logger),
		service.NewUserService(repo.NewUserRepository(db), logger),
		gate, logger, cfg,
	)
	ts := httptest.NewServer(h.Router)
	t.Cleanup(ts.Close)

	cfg.ServerURL = ts.URL
	cfg.TokenFile = filepath.Join(t.TempDir(), "auth_token")
	return cfg
}

// withStdoutCapture перехватывает вывод CLI на время fn.
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

// run выполняет команду через Dispatch и возвращает код и вывод.
func run(t *testing.T, cfg *config.Config, args ...string) (int, string) {
	t.Helper()
	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, args) })
	return code, out
}

// createdID достаёт id из строки "Created: <id>".
func createdID(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if id, ok := strings.CutPrefix(line, "Created: "); ok {
			return strings.TrimSpace(id)
		}
	}
	t.Fatalf("no created id in output: %q", out)
	return ""
}
