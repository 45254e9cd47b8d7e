package service

import (
	"PassVault/internal/model"
	"PassVault/internal/repo"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService - регистрация, вход и управление учётной записью.
type UserService struct {
	repo   repo.UserRepository
	logger *zap.SugaredLogger
}

func NewUserService(r repo.UserRepository, logger *zap.SugaredLogger) *UserService {
	return &UserService{repo: r, logger: logger}
}

// RegisterInput - данные новой учётной записи.
type RegisterInput struct {
	Name     string
	Email    string
	Username string
	Password string
}

// AccountUpdate - смена email и/или пароля. Password - текущий пароль для подтверждения.
type AccountUpdate struct {
	Email       *string
	NewPassword *string
	Password    string
}

// Register создаёт пользователя. Email и username приводятся к нижнему регистру.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Name = strings.TrimSpace(in.Name)

	switch {
	case in.Name == "":
		return nil, invalid("name", "name is required")
	case in.Email == "":
		return nil, invalid("email", "email is required")
	case !strings.Contains(in.Email, "@"):
		return nil, invalid("email", "email is invalid")
	case in.Username == "":
		return nil, invalid("username", "username is required")
	case strings.TrimSpace(in.Password) == "":
		return nil, invalid("password", "password is required")
	}

	// проверяем занятость заранее, чтобы вернуть понятную причину
	if err := s.ensureFree(ctx, in.Email, in.Username); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Errorw("bcrypt failure", "error", err)
		return nil, ErrServer
	}

	u, err := s.repo.CreateUser(ctx, &model.User{
		Name:     in.Name,
		Email:    in.Email,
		Username: in.Username,
		Password: string(hash),
	})
	if errors.Is(err, repo.ErrUserExists) {
		// гонка между проверкой и вставкой
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, storeErr(s.logger, "create user", err)
	}
	return u, nil
}

// Login проверяет email и пароль. Неизвестный email и неверный пароль неразличимы.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, storeErr(s.logger, "get user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeErr(s.logger, "get user", err)
	}
	return u, nil
}

// UpdateAccount меняет email и/или пароль после проверки текущего пароля.
func (s *UserService) UpdateAccount(ctx context.Context, userID uuid.UUID, upd AccountUpdate) error {
	if blank(upd.Email) && blank(upd.NewPassword) {
		return invalid("", "email or new password is required")
	}

	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return storeErr(s.logger, "get user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(upd.Password)) != nil {
		return ErrInvalidCredentials
	}

	var email, hash string
	if !blank(upd.Email) {
		email = strings.ToLower(strings.TrimSpace(*upd.Email))
		if !strings.Contains(email, "@") {
			return invalid("email", "email is invalid")
		}
		if email != u.Email {
			if err := s.ensureFree(ctx, email, ""); err != nil {
				return err
			}
		}
	}
	if !blank(upd.NewPassword) {
		h, err := bcrypt.GenerateFromPassword([]byte(*upd.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Errorw("bcrypt failure", "error", err)
			return ErrServer
		}
		hash = string(h)
	}

	if err := s.repo.UpdateUser(ctx, userID, email, hash); err != nil {
		return storeErr(s.logger, "update user", err)
	}
	return nil
}

func (s *UserService) ensureFree(ctx context.Context, email, username string) error {
	if email != "" {
		_, err := s.repo.GetUserByEmail(ctx, email)
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return storeErr(s.logger, "get user", err)
		}
	}
	if username != "" {
		_, err := s.repo.GetUserByUsername(ctx, username)
		if err == nil {
			return ErrUsernameTaken
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return storeErr(s.logger, "get user", err)
		}
	}
	return nil
}
