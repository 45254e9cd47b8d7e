package commands

import (
	"context"
	"fmt"
	"testing"

	"PassVault/internal/config"

	"github.com/stretchr/testify/assert"
)

// fakeCmd позволяет управлять возвратом ошибок из Run
type fakeCmd struct {
	name, usage string
	run         func(ctx context.Context, cfg *config.Config, args []string) error
}

func (f fakeCmd) Name() string        { return f.name }
func (f fakeCmd) Description() string { return "" }
func (f fakeCmd) Usage() string       { return f.usage }
func (f fakeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	return f.run(ctx, cfg, args)
}

func TestDispatcher_HelpAndUnknown(t *testing.T) {
	cfg := &config.Config{}

	code, out := run(t, cfg)
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "PassVault CLI")
	for _, name := range []string{"login", "register", "add-password", "add-secret", "search", "edit", "delete"} {
		assert.Contains(t, out, name)
	}

	code, out = run(t, cfg, "help")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Usage:")

	code, out = run(t, cfg, "help", "login")
	assert.Equal(t, 0, code)
	assert.Equal(t, "Usage: login <email> <password>\n", out)

	code, out = run(t, cfg, "help", "nope")
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "Unknown command: nope")

	code, _ = run(t, cfg, "no-such")
	assert.Equal(t, 2, code)
}

func TestDispatcher_RunPaths(t *testing.T) {
	cfg := &config.Config{}

	RegisterCmd(fakeCmd{name: "x", usage: "x", run: func(context.Context, *config.Config, []string) error { return nil }})
	code, _ := run(t, cfg, "X")
	assert.Equal(t, 0, code)

	RegisterCmd(fakeCmd{name: "u", usage: "u <arg>", run: func(context.Context, *config.Config, []string) error {
		return fmt.Errorf("wrapped: %w", ErrUsage)
	}})
	code, out := run(t, cfg, "u")
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "Usage: u <arg>")

	RegisterCmd(fakeCmd{name: "e", usage: "e", run: func(context.Context, *config.Config, []string) error { return fmt.Errorf("boom") }})
	code, out = run(t, cfg, "e")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "e error: boom")
}
