package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"PassVault/internal/cli/api"
	"PassVault/internal/cli/model"
	fsrepo "PassVault/internal/cli/repo/fs"
	"PassVault/internal/config"
)

func tokenStore(cfg *config.Config) fsrepo.TokenStore {
	return fsrepo.TokenStore{Path: cfg.TokenFile}
}

// newClient создаёт клиента с сохранённым токеном, если он есть.
func newClient(cfg *config.Config) *api.Client {
	tok, _ := tokenStore(cfg).Load()
	return api.NewClient(cfg.ServerURL, tok)
}

// authedClient требует сохранённый токен.
func authedClient(cfg *config.Config) (*api.Client, error) {
	tok, err := tokenStore(cfg).Load()
	if err != nil {
		if errors.Is(err, fsrepo.ErrNoToken) {
			return nil, errors.New("not logged in, run login first")
		}
		return nil, err
	}
	return api.NewClient(cfg.ServerURL, tok), nil
}

// explain переводит частые ответы сервера в понятные сообщения.
func explain(err error) error {
	switch {
	case api.IsStatus(err, http.StatusUnauthorized):
		return fmt.Errorf("session expired or invalid credentials: %w", err)
	case api.IsStatus(err, http.StatusNotFound):
		return fmt.Errorf("not found: %w", err)
	}
	return err
}

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Зарегистрироваться и сохранить токен" }
func (registerCmd) Usage() string       { return "register <name> <email> <username> <password>" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 4 {
		return ErrUsage
	}
	res, err := api.NewClient(cfg.ServerURL, "").Register(ctx, model.RegisterInput{
		Name:     args[0],
		Email:    args[1],
		Username: args[2],
		Password: args[3],
	})
	if api.IsStatus(err, http.StatusConflict) {
		return fmt.Errorf("account already exists: %w", err)
	}
	if err != nil {
		return err
	}
	if err := tokenStore(cfg).Save(res.Token); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}
	fmt.Fprintf(Out, "Registered %s (%s)\n", res.User.Email, res.User.ID)
	return nil
}

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Войти и сохранить токен" }
func (loginCmd) Usage() string       { return "login <email> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	res, err := api.NewClient(cfg.ServerURL, "").Login(ctx, model.LoginInput{Email: args[0], Password: args[1]})
	if api.IsStatus(err, http.StatusUnauthorized) {
		return errors.New("invalid email or password")
	}
	if err != nil {
		return err
	}
	if err := tokenStore(cfg).Save(res.Token); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}
	fmt.Fprintln(Out, "Logged in successfully")
	return nil
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Удалить сохранённый токен" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if err := tokenStore(cfg).Clear(); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Проверить сессию на сервере" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	res, err := newClient(cfg).Status(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Status:", res)
	return nil
}

type whoamiCmd struct{}

func (whoamiCmd) Name() string        { return "whoami" }
func (whoamiCmd) Description() string { return "Показать профиль текущего пользователя" }
func (whoamiCmd) Usage() string       { return "whoami" }

func (whoamiCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	u, err := c.Profile(ctx)
	if err != nil {
		return explain(err)
	}
	fmt.Fprintf(Out, "id:       %s\nname:     %s\nemail:    %s\nusername: %s\n", u.ID, u.Name, u.Email, u.Username)
	return nil
}

func init() {
	RegisterCmd(registerCmd{})
	RegisterCmd(loginCmd{})
	RegisterCmd(logoutCmd{})
	RegisterCmd(statusCmd{})
	RegisterCmd(whoamiCmd{})
}
