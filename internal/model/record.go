package model

import (
	"time"

	"github.com/google/uuid"
)

// RecordType - дискриминант записи хранилища.
type RecordType string

const (
	RecordTypePassword RecordType = "password"
	RecordTypeSecret   RecordType = "secret"
)

// Valid сообщает, является ли значение известным типом записи.
func (t RecordType) Valid() bool {
	return t == RecordTypePassword || t == RecordTypeSecret
}

// Payload - содержимое записи: ровно одна из форм PasswordPayload или SecretPayload.
// Реализации вне пакета невозможны из-за неэкспортируемого метода.
type Payload interface {
	Type() RecordType
	payload()
}

// PasswordPayload - логин-запись. Password хранится в открытом виде только в памяти.
type PasswordPayload struct {
	Service  string
	Password string
	Email    *string
	Username *string
}

func (PasswordPayload) Type() RecordType { return RecordTypePassword }
func (PasswordPayload) payload()         {}

// SecretPayload - произвольная пара ключ/значение.
type SecretPayload struct {
	Key    string
	Secret string
}

func (SecretPayload) Type() RecordType { return RecordTypeSecret }
func (SecretPayload) payload()         {}

// Record - расшифрованная запись владельца, в том виде, в котором она отдаётся клиенту.
type Record struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Payload   Payload
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecordCandidate - сырые данные от клиента на создание записи. Все поля необязательны,
// форму определяет валидатор.
type RecordCandidate struct {
	RecordType *RecordType
	Service    *string
	Password   *string
	Email      *string
	Username   *string
	Key        *string
	Secret     *string
}

// RecordPatch - частичное обновление записи. Применяются только заданные поля.
// RecordType не устанавливается: если он передан, он должен совпадать с текущим.
type RecordPatch struct {
	RecordType *RecordType
	Service    *string
	Password   *string
	Email      *string
	Username   *string
	Key        *string
	Secret     *string
}

// HasPasswordFields сообщает, затрагивает ли патч поля логин-записи.
func (p RecordPatch) HasPasswordFields() bool {
	return p.Service != nil || p.Password != nil || p.Email != nil || p.Username != nil
}

// HasSecretFields сообщает, затрагивает ли патч поля секрета.
func (p RecordPatch) HasSecretFields() bool {
	return p.Key != nil || p.Secret != nil
}

// IsEmpty - в патче нет ни одного распознанного поля.
func (p RecordPatch) IsEmpty() bool {
	return !p.HasPasswordFields() && !p.HasSecretFields()
}
