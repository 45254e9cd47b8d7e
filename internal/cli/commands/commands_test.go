package commands

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"PassVault/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, cfg *config.Config) {
	t.Helper()
	code, out := run(t, cfg, "register", "Alice", "alice@example.com", "alice", "s3cret")
	require.Equal(t, 0, code, out)
	require.Contains(t, out, "Registered alice@example.com")
}

func TestCLI_SessionLifecycle(t *testing.T) {
	cfg := newTestServer(t)

	code, out := run(t, cfg, "status")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Status: anonymous")

	register(t, cfg)

	code, out = run(t, cfg, "status")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Status: User ID = ")

	code, out = run(t, cfg, "whoami")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "username: alice")

	code, out = run(t, cfg, "logout")
	require.Equal(t, 0, code, out)

	code, out = run(t, cfg, "whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "not logged in")

	code, out = run(t, cfg, "login", "alice@example.com", "wrong")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "invalid email or password")

	code, out = run(t, cfg, "login", "ALICE@example.com", "s3cret")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Logged in successfully")
}

func TestCLI_RegisterConflict(t *testing.T) {
	cfg := newTestServer(t)
	register(t, cfg)

	code, out := run(t, cfg, "register", "Other", "alice@example.com", "other", "pw")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "account already exists")
}

func TestCLI_RecordLifecycle(t *testing.T) {
	cfg := newTestServer(t)
	register(t, cfg)

	code, out := run(t, cfg, "add-password", "-email", "me@github.com", "github", "gh-pass")
	require.Equal(t, 0, code, out)
	pwID := createdID(t, out)

	code, out = run(t, cfg, "add-secret", "api-token", "tok-value")
	require.Equal(t, 0, code, out)
	secretID := createdID(t, out)

	code, out = run(t, cfg, "records")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, pwID)
	assert.Contains(t, out, secretID)
	assert.Contains(t, out, "gh-pass")
	assert.Contains(t, out, "tok-value")
	assert.Contains(t, out, "Всего: 2")

	code, out = run(t, cfg, "search", "-q", "GIT")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, pwID)
	assert.NotContains(t, out, secretID)

	code, out = run(t, cfg, "search", "-type", "secret")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, secretID)
	assert.Contains(t, out, "Всего: 1")

	code, out = run(t, cfg, "edit", "-password", "new-pass", "-username", "octo", pwID)
	require.Equal(t, 0, code, out)

	code, out = run(t, cfg, "record", pwID)
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "new-pass")
	assert.Contains(t, out, "octo")
	assert.Contains(t, out, "me@github.com")

	// секретное поле у записи с паролем запрещено
	code, out = run(t, cfg, "edit", "-secret", "x", pwID)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "server status 400")

	code, out = run(t, cfg, "delete", secretID)
	require.Equal(t, 0, code, out)

	code, out = run(t, cfg, "record", secretID)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "not found")
}

func TestCLI_RecordsAreOwnerScoped(t *testing.T) {
	cfg := newTestServer(t)
	register(t, cfg)

	code, out := run(t, cfg, "add-secret", "k", "v")
	require.Equal(t, 0, code, out)
	id := createdID(t, out)

	other := *cfg
	other.TokenFile = filepath.Join(t.TempDir(), "other_token")
	code, out = run(t, &other, "register", "Bob", "bob@example.com", "bob", "pw")
	require.Equal(t, 0, code, out)

	code, out = run(t, &other, "record", id)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "not found")

	code, out = run(t, &other, "records")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Нет записей")
}

func TestCLI_UsageErrors(t *testing.T) {
	cfg := &config.Config{ServerURL: "http://127.0.0.1:0", TokenFile: filepath.Join(t.TempDir(), "tok")}

	cases := [][]string{
		{"login", "only-email"},
		{"register", "a", "b"},
		{"logout", "extra"},
		{"status", "extra"},
		{"add-password", "github"},
		{"add-password", "-bogus", "x", "github", "pw"},
		{"add-secret", "k"},
		{"records", "extra"},
		{"record"},
		{"edit", "some-id"},
		{"edit", "-service", "x"},
		{"delete"},
		{"search", "-page", "-1"},
		{"search", "-limit", "abc"},
		{"search", "positional"},
	}
	for _, args := range cases {
		t.Run(strings.Join(args, "_"), func(t *testing.T) {
			code, out := run(t, cfg, args...)
			assert.Equal(t, 2, code, out)
			assert.Contains(t, out, "Usage: ")
		})
	}
}

func TestCLI_ServerErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()
	cfg := &config.Config{ServerURL: ts.URL, TokenFile: filepath.Join(t.TempDir(), "tok")}

	code, out := run(t, cfg, "login", "a@b.c", "pw")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "server status 500: boom")

	require.NoError(t, tokenStore(cfg).Save("stale"))
	code, out = run(t, cfg, "records")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "boom")
}

func TestCLI_ExpiredSession(t *testing.T) {
	cfg := newTestServer(t)
	require.NoError(t, tokenStore(cfg).Save("not-a-jwt"))

	code, out := run(t, cfg, "records")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "session expired or invalid credentials")
}
