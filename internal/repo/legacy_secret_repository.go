package repo

import (
	"PassVault/internal/model"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *vaultRepo) InsertLegacySecret(ctx context.Context, s *model.LegacySecret) (uuid.UUID, error) {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return uuid.Nil, err
	}
	return s.ID, nil
}

func (r *vaultRepo) GetLegacySecret(ctx context.Context, secretID, ownerID uuid.UUID) (*model.LegacySecret, error) {
	var ls model.LegacySecret
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", secretID, ownerID).
		First(&ls).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ls, nil
}

func (r *vaultRepo) UpdateLegacySecret(ctx context.Context, secretID, ownerID uuid.UUID, patch model.LegacySecretPatch) error {
	updates := map[string]any{"updated_at": time.Now()}
	if patch.Key != nil {
		updates["secret_key"] = *patch.Key
	}
	if patch.Secret != nil {
		updates["secret"] = *patch.Secret
	}

	tx := r.db.WithContext(ctx).
		Model(&model.LegacySecret{}).
		Where("id = ? AND owner_id = ?", secretID, ownerID).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *vaultRepo) DeleteLegacySecret(ctx context.Context, secretID, ownerID uuid.UUID) error {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", secretID, ownerID).
		Delete(&model.LegacySecret{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *vaultRepo) ListLegacySecrets(ctx context.Context, ownerID uuid.UUID) (Cursor[model.LegacySecret], error) {
	db := r.db.WithContext(ctx)
	rows, err := db.Model(&model.LegacySecret{}).
		Where("owner_id = ?", ownerID).
		Order("created_at, id").
		Rows()
	if err != nil {
		return nil, err
	}
	return newRowsCursor[model.LegacySecret](db, rows), nil
}

// SearchLegacySecrets - у старых секретов нет service, поэтому свободный текст
// и фильтр Key ищутся только по ключу, а фильтр Service ничего не находит.
func (r *vaultRepo) SearchLegacySecrets(ctx context.Context, q model.SearchQuery, offset, limit int) (Cursor[model.LegacySecret], error) {
	if !q.IncludesSecrets() || q.Service != "" || limit <= 0 {
		return newSliceCursor[model.LegacySecret](nil), nil
	}

	db := r.db.WithContext(ctx)
	tx := db.Model(&model.LegacySecret{}).Where("owner_id = ?", q.OwnerID)
	if q.Query != "" {
		tx = tx.Where("LOWER(secret_key) LIKE ? ESCAPE '!'", likePattern(q.Query))
	}
	if q.Key != "" {
		tx = tx.Where("LOWER(secret_key) LIKE ? ESCAPE '!'", likePattern(q.Key))
	}

	rows, err := tx.Order("created_at, id").Offset(max(offset, 0)).Limit(limit).Rows()
	if err != nil {
		return nil, err
	}
	return newRowsCursor[model.LegacySecret](db, rows), nil
}
