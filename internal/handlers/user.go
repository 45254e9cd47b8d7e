package handlers

import (
	"PassVault/internal/auth"
	"PassVault/internal/config"
	"PassVault/internal/middleware"
	"PassVault/internal/model"
	"PassVault/internal/service"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type UserHandler struct {
	UserService *service.UserService
	Gate        *auth.Gate
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

// NewUserHandler создаёт хендлер учётных записей
func NewUserHandler(userService *service.UserService, gate *auth.Gate, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, Gate: gate, Logger: logger, Config: cfg}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	Email       *string `json:"email,omitempty"`
	NewPassword *string `json:"new_password,omitempty"`
	Password    string  `json:"password"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Register регистрация пользователя
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.Logger.Warnw("Register: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, h.Logger, "Register", err)
		return
	}

	h.Logger.Infow("user registered", "user_id", user.ID)
	h.respondWithToken(w, user)
}

// Login авторизация пользователя
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.Logger.Warnw("Login: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.Logger, "Login", err)
		return
	}
	h.respondWithToken(w, user)
}

// Status проверка авторизации
func (h *UserHandler) Status(w http.ResponseWriter, r *http.Request) {
	result := "anonymous"
	if id, ok := middleware.GetIdentityFromContext(r.Context()); ok {
		result = fmt.Sprintf("User ID = %s", id.UserID)
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": result})
}

// Profile данные текущего пользователя
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	user, err := h.UserService.Profile(r.Context(), id.UserID)
	if err != nil {
		writeError(w, h.Logger, "Profile", err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Update смена email и/или пароля текущего пользователя
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.Logger.Warnw("Update user: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	err := h.UserService.UpdateAccount(r.Context(), id.UserID, service.AccountUpdate{
		Email:       req.Email,
		NewPassword: req.NewPassword,
		Password:    req.Password,
	})
	if err != nil {
		writeError(w, h.Logger, "Update user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) respondWithToken(w http.ResponseWriter, user *model.User) {
	token, err := h.Gate.Issue(user.ID)
	if err != nil {
		h.Logger.Errorw("failed to issue token", "user_id", user.ID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Authorization", auth.Scheme+" "+token)
	writeJSON(w, http.StatusOK, AuthResponse{User: toUserResponse(user), Token: token})
}
