package service

import (
	"PassVault/internal/auth"
	"PassVault/internal/model"
	"PassVault/internal/repo"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cipher - шифрование отдельных полей записи.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// RecordService - CRUD записей хранилища. Чувствительные поля (password, secret)
// шифруются перед записью и расшифровываются только для владельца.
type RecordService struct {
	store  repo.VaultStore
	cipher Cipher
	logger *zap.SugaredLogger
}

func NewRecordService(store repo.VaultStore, cipher Cipher, logger *zap.SugaredLogger) *RecordService {
	return &RecordService{store: store, cipher: cipher, logger: logger}
}

// Create проверяет форму, шифрует и сохраняет запись от имени id.
func (s *RecordService) Create(ctx context.Context, id auth.Identity, c model.RecordCandidate) (uuid.UUID, error) {
	payload, err := ValidateCreate(c)
	if err != nil {
		return uuid.Nil, err
	}

	doc := &model.StoredRecord{OwnerID: id.UserID, RecordType: payload.Type()}
	switch p := payload.(type) {
	case model.PasswordPayload:
		enc, err := s.encrypt(p.Password)
		if err != nil {
			return uuid.Nil, err
		}
		doc.Service = &p.Service
		doc.Email = p.Email
		doc.Username = p.Username
		doc.Password = &enc
	case model.SecretPayload:
		enc, err := s.encrypt(p.Secret)
		if err != nil {
			return uuid.Nil, err
		}
		doc.Key = &p.Key
		doc.Secret = &enc
	}

	recordID, err := s.store.Insert(ctx, doc)
	if err != nil {
		return uuid.Nil, s.storeErr("insert", err)
	}
	return recordID, nil
}

func (s *RecordService) Get(ctx context.Context, id auth.Identity, recordID uuid.UUID) (*model.Record, error) {
	doc, err := s.store.Get(ctx, recordID, id.UserID)
	if err != nil {
		return nil, s.storeErr("get", err)
	}
	rec, err := s.open(doc)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update применяет частичное обновление. Сначала читается существующая запись,
// чтобы проверить патч против её формы.
func (s *RecordService) Update(ctx context.Context, id auth.Identity, recordID uuid.UUID, patch model.RecordPatch) error {
	doc, err := s.store.Get(ctx, recordID, id.UserID)
	if err != nil {
		return s.storeErr("get", err)
	}
	existing, err := shapeOf(doc)
	if err != nil {
		s.logger.Errorw("stored record is malformed", "record_id", recordID, "error", err)
		return ErrServer
	}

	patch, err = ValidateUpdate(existing, patch)
	if err != nil {
		return err
	}
	if patch.Password != nil {
		enc, err := s.encrypt(*patch.Password)
		if err != nil {
			return err
		}
		patch.Password = &enc
	}
	if patch.Secret != nil {
		enc, err := s.encrypt(*patch.Secret)
		if err != nil {
			return err
		}
		patch.Secret = &enc
	}

	if err := s.store.Update(ctx, recordID, id.UserID, patch); err != nil {
		return s.storeErr("update", err)
	}
	return nil
}

func (s *RecordService) Delete(ctx context.Context, id auth.Identity, recordID uuid.UUID) error {
	if err := s.store.Delete(ctx, recordID, id.UserID); err != nil {
		return s.storeErr("delete", err)
	}
	return nil
}

// List возвращает все записи владельца. Одна нерасшифровываемая запись
// прерывает весь список с ErrServer.
func (s *RecordService) List(ctx context.Context, id auth.Identity) ([]model.Record, error) {
	cur, err := s.store.ListAll(ctx, id.UserID)
	if err != nil {
		return nil, s.storeErr("list", err)
	}
	defer cur.Close()

	out := make([]model.Record, 0)
	for cur.Next() {
		doc := cur.Current()
		rec, err := s.open(&doc)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := cur.Err(); err != nil {
		return nil, s.storeErr("list", err)
	}
	return out, nil
}

func (s *RecordService) encrypt(plain string) (string, error) {
	enc, err := s.cipher.Encrypt(plain)
	if err != nil {
		s.logger.Errorw("cipher failure", "op", "encrypt", "error", err)
		return "", ErrServer
	}
	return enc, nil
}

// open расшифровывает документ в запись ответа.
func (s *RecordService) open(doc *model.StoredRecord) (model.Record, error) {
	return openRecord(s.cipher, s.logger, doc)
}

func (s *RecordService) storeErr(op string, err error) error {
	return storeErr(s.logger, op, err)
}

func openRecord(c Cipher, logger *zap.SugaredLogger, doc *model.StoredRecord) (model.Record, error) {
	shape, err := shapeOf(doc)
	if err != nil {
		logger.Errorw("stored record is malformed", "record_id", doc.ID, "error", err)
		return model.Record{}, ErrServer
	}

	switch p := shape.(type) {
	case model.PasswordPayload:
		p.Password, err = c.Decrypt(p.Password)
		shape = p
	case model.SecretPayload:
		p.Secret, err = c.Decrypt(p.Secret)
		shape = p
	}
	if err != nil {
		logger.Errorw("cipher failure", "op", "decrypt", "record_id", doc.ID, "error", err)
		return model.Record{}, ErrServer
	}

	return model.Record{
		ID:        doc.ID,
		OwnerID:   doc.OwnerID,
		Payload:   shape,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// shapeOf восстанавливает форму документа без расшифровки.
func shapeOf(doc *model.StoredRecord) (model.Payload, error) {
	switch doc.RecordType {
	case model.RecordTypePassword:
		return model.PasswordPayload{
			Service:  deref(doc.Service),
			Password: deref(doc.Password),
			Email:    present(doc.Email),
			Username: present(doc.Username),
		}, nil
	case model.RecordTypeSecret:
		return model.SecretPayload{Key: deref(doc.Key), Secret: deref(doc.Secret)}, nil
	default:
		return nil, fmt.Errorf("unknown record type %q", doc.RecordType)
	}
}

func storeErr(logger *zap.SugaredLogger, op string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	logger.Errorw("store failure", "op", op, "error", err)
	return fmt.Errorf("%w: %s", ErrServer, op)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
