package repo

import (
	"PassVault/internal/model"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type vaultRepo struct {
	db *gorm.DB
}

// NewVaultStore создаёт реализацию VaultStore поверх gorm (PostgreSQL или SQLite).
func NewVaultStore(db *gorm.DB) VaultStore {
	return &vaultRepo{db: db}
}

func (r *vaultRepo) Insert(ctx context.Context, rec *model.StoredRecord) (uuid.UUID, error) {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return uuid.Nil, err
	}
	return rec.ID, nil
}

func (r *vaultRepo) Get(ctx context.Context, recordID, ownerID uuid.UUID) (*model.StoredRecord, error) {
	var rec model.StoredRecord
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", recordID, ownerID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *vaultRepo) Update(ctx context.Context, recordID, ownerID uuid.UUID, patch model.RecordPatch) error {
	// updated_at всегда меняется, поэтому пустой патч тоже доходит до БД
	// и промах по (id, owner_id) виден через RowsAffected.
	updates := map[string]any{"updated_at": time.Now()}
	setIf := func(col string, v *string) {
		if v != nil {
			updates[col] = *v
		}
	}
	setIf("service", patch.Service)
	setIf("email", patch.Email)
	setIf("username", patch.Username)
	setIf("password", patch.Password)
	setIf("record_key", patch.Key)
	setIf("secret", patch.Secret)

	tx := r.db.WithContext(ctx).
		Model(&model.StoredRecord{}).
		Where("id = ? AND owner_id = ?", recordID, ownerID).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *vaultRepo) Delete(ctx context.Context, recordID, ownerID uuid.UUID) error {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", recordID, ownerID).
		Delete(&model.StoredRecord{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *vaultRepo) ListAll(ctx context.Context, ownerID uuid.UUID) (Cursor[model.StoredRecord], error) {
	db := r.db.WithContext(ctx)
	rows, err := db.Model(&model.StoredRecord{}).
		Where("owner_id = ?", ownerID).
		Order("created_at, id").
		Rows()
	if err != nil {
		return nil, err
	}
	return newRowsCursor[model.StoredRecord](db, rows), nil
}

func (r *vaultRepo) Search(ctx context.Context, q model.SearchQuery) (Cursor[model.StoredRecord], error) {
	db := r.db.WithContext(ctx)
	rows, err := searchScope(db, q).Order("created_at, id").Offset(q.Offset()).Limit(q.Limit).Rows()
	if err != nil {
		return nil, err
	}
	return newRowsCursor[model.StoredRecord](db, rows), nil
}

func (r *vaultRepo) CountSearch(ctx context.Context, q model.SearchQuery) (int, error) {
	var n int64
	if err := searchScope(r.db.WithContext(ctx), q).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

// searchScope применяет владельца и фильтры q, без сортировки и пагинации.
func searchScope(db *gorm.DB, q model.SearchQuery) *gorm.DB {
	tx := db.Model(&model.StoredRecord{}).Where("owner_id = ?", q.OwnerID)
	if q.Type != "" {
		tx = tx.Where("record_type = ?", q.Type)
	}
	if q.Query != "" {
		p := likePattern(q.Query)
		tx = tx.Where("(LOWER(service) LIKE ? ESCAPE '!' OR LOWER(record_key) LIKE ? ESCAPE '!')", p, p)
	}
	if q.Service != "" {
		tx = tx.Where("LOWER(service) LIKE ? ESCAPE '!'", likePattern(q.Service))
	}
	if q.Key != "" {
		tx = tx.Where("LOWER(record_key) LIKE ? ESCAPE '!'", likePattern(q.Key))
	}
	return tx
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePattern строит шаблон подстроки без учёта регистра; спецсимволы LIKE экранируются.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
