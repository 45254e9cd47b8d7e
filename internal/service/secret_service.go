package service

import (
	"PassVault/internal/auth"
	"PassVault/internal/model"
	"PassVault/internal/repo"
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SecretService - CRUD секретов старого формата (коллекция secrets).
// Значение секрета хранится зашифрованным, ключ - открытым текстом.
type SecretService struct {
	store  repo.VaultStore
	cipher Cipher
	logger *zap.SugaredLogger
}

func NewSecretService(store repo.VaultStore, cipher Cipher, logger *zap.SugaredLogger) *SecretService {
	return &SecretService{store: store, cipher: cipher, logger: logger}
}

// Create сохраняет секрет от имени id. Пустые key и secret не принимаются.
func (s *SecretService) Create(ctx context.Context, id auth.Identity, key, secret string) (uuid.UUID, error) {
	if strings.TrimSpace(key) == "" {
		return uuid.Nil, invalid("key", "key is required")
	}
	if strings.TrimSpace(secret) == "" {
		return uuid.Nil, invalid("secret", "secret is required")
	}
	enc, err := s.encrypt(secret)
	if err != nil {
		return uuid.Nil, err
	}

	secretID, err := s.store.InsertLegacySecret(ctx, &model.LegacySecret{OwnerID: id.UserID, Key: key, Secret: enc})
	if err != nil {
		return uuid.Nil, storeErr(s.logger, "insert legacy secret", err)
	}
	return secretID, nil
}

func (s *SecretService) Get(ctx context.Context, id auth.Identity, secretID uuid.UUID) (*model.Record, error) {
	ls, err := s.store.GetLegacySecret(ctx, secretID, id.UserID)
	if err != nil {
		return nil, storeErr(s.logger, "get legacy secret", err)
	}
	rec, err := openLegacySecret(s.cipher, s.logger, ls)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update меняет только заданные поля. Заданное поле не может быть пустым.
func (s *SecretService) Update(ctx context.Context, id auth.Identity, secretID uuid.UUID, patch model.LegacySecretPatch) error {
	if patch.Key != nil && strings.TrimSpace(*patch.Key) == "" {
		return invalid("key", "key must not be empty")
	}
	if patch.Secret != nil {
		if strings.TrimSpace(*patch.Secret) == "" {
			return invalid("secret", "secret must not be empty")
		}
		enc, err := s.encrypt(*patch.Secret)
		if err != nil {
			return err
		}
		patch.Secret = &enc
	}

	if err := s.store.UpdateLegacySecret(ctx, secretID, id.UserID, patch); err != nil {
		return storeErr(s.logger, "update legacy secret", err)
	}
	return nil
}

func (s *SecretService) Delete(ctx context.Context, id auth.Identity, secretID uuid.UUID) error {
	if err := s.store.DeleteLegacySecret(ctx, secretID, id.UserID); err != nil {
		return storeErr(s.logger, "delete legacy secret", err)
	}
	return nil
}

// List возвращает все секреты владельца. Ошибка расшифровки прерывает список.
func (s *SecretService) List(ctx context.Context, id auth.Identity) ([]model.Record, error) {
	cur, err := s.store.ListLegacySecrets(ctx, id.UserID)
	if err != nil {
		return nil, storeErr(s.logger, "list legacy secrets", err)
	}
	defer cur.Close()

	out := make([]model.Record, 0)
	for cur.Next() {
		ls := cur.Current()
		rec, err := openLegacySecret(s.cipher, s.logger, &ls)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := cur.Err(); err != nil {
		return nil, storeErr(s.logger, "list legacy secrets", err)
	}
	return out, nil
}

func (s *SecretService) encrypt(plain string) (string, error) {
	enc, err := s.cipher.Encrypt(plain)
	if err != nil {
		s.logger.Errorw("cipher failure", "op", "encrypt", "error", err)
		return "", ErrServer
	}
	return enc, nil
}

// openLegacySecret расшифровывает секрет старого формата в запись вида secret.
func openLegacySecret(c Cipher, logger *zap.SugaredLogger, ls *model.LegacySecret) (model.Record, error) {
	plain, err := c.Decrypt(ls.Secret)
	if err != nil {
		logger.Errorw("cipher failure", "op", "decrypt", "legacy_secret_id", ls.ID, "error", err)
		return model.Record{}, ErrServer
	}
	return model.Record{
		ID:        ls.ID,
		OwnerID:   ls.OwnerID,
		Payload:   model.SecretPayload{Key: ls.Key, Secret: plain},
		CreatedAt: ls.CreatedAt,
		UpdatedAt: ls.UpdatedAt,
	}, nil
}
