package service

import (
	"PassVault/internal/model"
	"strings"
)

const (
	msgMixedShapes    = "cannot create a secret and password record at the same time"
	msgContactMissing = "email or username is required for a password record"
)

// ValidateCreate проверяет данные новой записи и возвращает её форму.
// Поля чужой формы запрещены, пустые строки считаются отсутствующими.
func ValidateCreate(c model.RecordCandidate) (model.Payload, error) {
	hasPassword := c.Service != nil || c.Password != nil || c.Email != nil || c.Username != nil
	hasSecret := c.Key != nil || c.Secret != nil

	if hasPassword && hasSecret {
		return nil, invalid("", msgMixedShapes)
	}

	var kind model.RecordType
	switch {
	case c.RecordType != nil:
		kind = *c.RecordType
		if !kind.Valid() {
			return nil, invalid("record_type", "unknown record type")
		}
		if (kind == model.RecordTypePassword && hasSecret) || (kind == model.RecordTypeSecret && hasPassword) {
			return nil, invalid("", msgMixedShapes)
		}
	case hasPassword:
		kind = model.RecordTypePassword
	case hasSecret:
		kind = model.RecordTypeSecret
	default:
		return nil, invalid("record_type", "record must be a password or a secret record")
	}

	if kind == model.RecordTypeSecret {
		if blank(c.Key) {
			return nil, invalid("key", "key is required for a secret record")
		}
		if blank(c.Secret) {
			return nil, invalid("secret", "secret is required for a secret record")
		}
		return model.SecretPayload{Key: *c.Key, Secret: *c.Secret}, nil
	}

	if blank(c.Service) {
		return nil, invalid("service", "service is required for a password record")
	}
	if blank(c.Password) {
		return nil, invalid("password", "password is required for a password record")
	}
	p := model.PasswordPayload{
		Service:  *c.Service,
		Password: *c.Password,
		Email:    present(c.Email),
		Username: present(c.Username),
	}
	if p.Email == nil && p.Username == nil {
		return nil, invalid("email/username", msgContactMissing)
	}
	return p, nil
}

// ValidateUpdate проверяет патч относительно формы существующей записи.
// Тип записи неизменяем; пустой патч допустим.
func ValidateUpdate(existing model.Payload, p model.RecordPatch) (model.RecordPatch, error) {
	if p.RecordType != nil && *p.RecordType != existing.Type() {
		return model.RecordPatch{}, invalid("record_type", "record type cannot be changed")
	}
	p.RecordType = nil

	switch cur := existing.(type) {
	case model.PasswordPayload:
		if p.HasSecretFields() {
			return model.RecordPatch{}, invalid("", "record is a password record, cannot update secret fields")
		}
		if p.Service != nil && blank(p.Service) {
			return model.RecordPatch{}, invalid("service", "service cannot be blank")
		}
		if p.Password != nil && blank(p.Password) {
			return model.RecordPatch{}, invalid("password", "password cannot be blank")
		}
		email, username := cur.Email, cur.Username
		if p.Email != nil {
			email = p.Email
		}
		if p.Username != nil {
			username = p.Username
		}
		if blank(email) && blank(username) {
			return model.RecordPatch{}, invalid("email/username", msgContactMissing)
		}
	case model.SecretPayload:
		if p.HasPasswordFields() {
			return model.RecordPatch{}, invalid("", "record is a secret record, cannot update password fields")
		}
		if p.Key != nil && blank(p.Key) {
			return model.RecordPatch{}, invalid("key", "key cannot be blank")
		}
		if p.Secret != nil && blank(p.Secret) {
			return model.RecordPatch{}, invalid("secret", "secret cannot be blank")
		}
	default:
		return model.RecordPatch{}, invalid("record_type", "unknown record type")
	}
	return p, nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// present отбрасывает пустые необязательные значения.
func present(s *string) *string {
	if blank(s) {
		return nil
	}
	return s
}
