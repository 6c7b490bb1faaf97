package commands

import (
	"VitoriaDiaria/internal/cli/api"
	clirepo "VitoriaDiaria/internal/cli/repo"
	fsrepo "VitoriaDiaria/internal/cli/repo/fs"
	"VitoriaDiaria/internal/config"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// ErrNotLoggedIn is returned when a command needs a stored auth token.
var ErrNotLoggedIn = errors.New("not logged in")

// ErrUnauthorized is returned when the server rejects the stored token.
var ErrUnauthorized = errors.New("unauthorized")

// Command represents a CLI subcommand.
type Command interface {
	// Name returns the command name as typed by the user, e.g. "login".
	Name() string
	// Description is a short human-readable description shown in help.
	Description() string
	// Usage returns the exact usage string, e.g. "login <login> <password>".
	Usage() string
	// Run executes the command with provided args (without the command name).
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

var store clirepo.SessionStore = fsrepo.AuthFSStore{}

// registry holds available commands by name.
var registry = map[string]Command{}

// Out — общий writer для вывода CLI. По умолчанию os.Stdout, но в тестах может переназначаться.
var Out io.Writer = os.Stdout

// RegisterCmd adds a command to the registry. Should be called from init() of each command.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

// Get returns a command by name.
func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// FormatGlobalUsage builds a help text for all commands.
func FormatGlobalUsage() string {
	lines := []string{
		"VitoriaDiaria CLI",
		"",
		"Usage:",
		"  vdcli [--base-url <host:port>] [--https] <command> [args]",
		"",
		"Commands:",
	}
	for _, c := range List() {
		lines = append(lines, fmt.Sprintf("  %-44s %s", c.Usage(), c.Description()))
	}
	return strings.Join(lines, "\n") + "\n"
}

func requireToken() (string, error) {
	tok, err := store.Load()
	if err != nil || tok == "" {
		return "", ErrNotLoggedIn
	}
	return tok, nil
}

// serverError превращает неуспешный ответ в ошибку команды.
func serverError(resp *http.Response, body []byte) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", ErrUnauthorized, api.ErrorMessage(body))
	}
	return fmt.Errorf("server status %d: %s", resp.StatusCode, api.ErrorMessage(body))
}

// call выполняет авторизованный запрос и декодирует ответ в out (если out не nil).
func call(ctx context.Context, cfg *config.Config, method, path string, payload, out any, okStatus ...int) error {
	tok, err := requireToken()
	if err != nil {
		return err
	}
	resp, body, err := api.Do(ctx, method, api.Endpoint(cfg.ServerURL, path), payload, tok)
	if err != nil {
		return err
	}
	if !statusIn(resp.StatusCode, okStatus) {
		return serverError(resp, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func statusIn(code int, ok []int) bool {
	if len(ok) == 0 {
		return code == http.StatusOK
	}
	for _, c := range ok {
		if c == code {
			return true
		}
	}
	return false
}
