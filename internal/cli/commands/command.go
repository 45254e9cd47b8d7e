package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"PassVault/internal/config"
)

// ErrUsage - неверные аргументы, нужно показать usage команды.
var ErrUsage = errors.New("usage")

// Command - подкоманда CLI. Run получает аргументы без имени команды.
type Command interface {
	Name() string
	Description() string
	Usage() string
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

var registry = map[string]Command{}

// Out - вывод CLI, в тестах подменяется буфером.
var Out io.Writer = os.Stdout

// RegisterCmd регистрирует команду, вызывается из init().
func RegisterCmd(cmd Command) {
	registry[strings.ToLower(cmd.Name())] = cmd
}

func Get(name string) (Command, bool) {
	c, ok := registry[strings.ToLower(name)]
	return c, ok
}

// List возвращает команды, отсортированные по имени.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	slices.SortFunc(list, func(a, b Command) int { return strings.Compare(a.Name(), b.Name()) })
	return list
}

func FormatGlobalUsage() string {
	var b strings.Builder
	b.WriteString("PassVault CLI\n\n")
	b.WriteString("Usage:\n  pvcli [-server URL] [-token-file PATH] <command> [args]\n\n")
	b.WriteString("Commands:\n")
	for _, c := range List() {
		fmt.Fprintf(&b, "  %-44s %s\n", c.Usage(), c.Description())
	}
	return b.String()
}
