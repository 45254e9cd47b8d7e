package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User - учётная запись владельца хранилища.
type User struct {
	ID       uuid.UUID `gorm:"primaryKey;type:uuid"`
	Name     string    `gorm:"not null"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Username string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null"` // bcrypt-хеш

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
