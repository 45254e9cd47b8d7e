package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoToken - токен ещё не сохранён.
var ErrNoToken = errors.New("not logged in")

// TokenStore - файловое хранилище токена CLI. Пустой Path означает
// <UserConfigDir>/PassVault/auth_token.
type TokenStore struct {
	Path string
}

func (s TokenStore) path() (string, error) {
	if s.Path != "" {
		return s.Path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "PassVault", "auth_token"), nil
}

// Save сохраняет токен, создавая каталог с правами только для владельца.
func (s TokenStore) Save(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("empty token")
	}
	p, err := s.path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return err
	}
	return os.WriteFile(p, []byte(token), 0o600)
}

// Load читает токен. Отсутствующий или пустой файл - ErrNoToken.
func (s TokenStore) Load() (string, error) {
	p, err := s.path()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	tok := strings.TrimSpace(string(b))
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

// Clear удаляет токен. Отсутствие файла ошибкой не считается.
func (s TokenStore) Clear() error {
	p, err := s.path()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
