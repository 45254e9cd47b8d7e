package commands

import (
	"context"
	"errors"
	"fmt"

	"PassVault/internal/config"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Dispatch запускает команду по args и возвращает код выхода процесса:
// 0 успех, 1 ошибка команды, 2 неверный вызов.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitUsage
	}

	switch args[0] {
	case "help", "-h", "--help":
		return help(args[1:])
	}

	c, ok := Get(args[0])
	if !ok {
		return unknown(args[0])
	}

	err := c.Run(ctx, cfg, args[1:])
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
		return exitUsage
	default:
		fmt.Fprintf(Out, "%s error: %v\n", c.Name(), err)
		return exitError
	}
}

// help печатает общую справку или usage одной команды.
func help(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitOK
	}
	c, ok := Get(args[0])
	if !ok {
		return unknown(args[0])
	}
	fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
	return exitOK
}

func unknown(name string) int {
	fmt.Fprintf(Out, "Unknown command: %s\n\n", name)
	fmt.Fprint(Out, FormatGlobalUsage())
	return exitUsage
}
