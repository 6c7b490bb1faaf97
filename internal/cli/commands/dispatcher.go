package commands

import (
	"VitoriaDiaria/internal/config"
	"context"
	"errors"
	"fmt"
	"strings"
)

// Коды завершения vdcli.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
	// ExitAuth — нет сохранённой сессии или сервер её отверг.
	ExitAuth = 3
)

const loginHint = "Run: vdcli login <email> <password>"

func isHelpFlag(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

// Dispatch выполняет команду из args (глобальные флаги уже разобраны) и возвращает код завершения.
// Флаг помощи распознаётся только на месте имени команды или как единственный аргумент команды,
// поэтому "-h" внутри текста сообщения передаётся команде как есть.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitUsage
	}

	name := strings.ToLower(args[0])
	if isHelpFlag(name) {
		return help(args[1:])
	}

	c, ok := Get(name)
	if !ok {
		fmt.Fprintf(Out, "Unknown command: %s\n\n", name)
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitUsage
	}
	rest := args[1:]
	if len(rest) == 1 && (rest[0] == "-h" || rest[0] == "--help") {
		printCommandUsage(c)
		return ExitOK
	}

	err := c.Run(ctx, cfg, rest)
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage):
		printCommandUsage(c)
		return ExitUsage
	case errors.Is(err, ErrNotLoggedIn), errors.Is(err, ErrUnauthorized):
		fmt.Fprintf(Out, "%s error: %v\n%s\n", name, err, loginHint)
		return ExitAuth
	default:
		fmt.Fprintf(Out, "%s error: %v\n", name, err)
		return ExitError
	}
}

// help обрабатывает "vdcli help [command]".
func help(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitOK
	}
	if c, ok := Get(strings.ToLower(args[0])); ok {
		printCommandUsage(c)
		return ExitOK
	}
	fmt.Fprintf(Out, "Unknown command: %s\n\n", args[0])
	fmt.Fprint(Out, FormatGlobalUsage())
	return ExitUsage
}

func printCommandUsage(c Command) {
	fmt.Fprintf(Out, "Usage: vdcli %s\n  %s\n", c.Usage(), c.Description())
}
