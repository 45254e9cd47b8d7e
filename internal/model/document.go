package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoredRecord - серверная модель записи хранилища (таблица records).
// Password и Secret содержат только шифртекст.
type StoredRecord struct {
	ID         uuid.UUID  `gorm:"primaryKey;type:uuid"`
	OwnerID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	RecordType RecordType `gorm:"not null;index"`

	Service  *string
	Email    *string
	Username *string
	Password *string
	Key      *string `gorm:"column:record_key"`
	Secret   *string

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName фиксирует имя таблицы.
func (StoredRecord) TableName() string { return "records" }

// BeforeCreate присваивает идентификатор, если его не задали.
func (r *StoredRecord) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// LegacySecret - секрет старого формата из отдельной коллекции secrets.
type LegacySecret struct {
	ID      uuid.UUID `gorm:"primaryKey;type:uuid"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Key     string    `gorm:"column:secret_key;not null"`
	Secret  string    `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// LegacySecretPatch - частичное обновление секрета старого формата.
// Secret содержит шифртекст.
type LegacySecretPatch struct {
	Key    *string
	Secret *string
}

func (LegacySecret) TableName() string { return "secrets" }

func (s *LegacySecret) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
