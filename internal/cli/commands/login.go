package commands

import (
	"VitoriaDiaria/internal/cli/api"
	"VitoriaDiaria/internal/config"
	"VitoriaDiaria/internal/model"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Login and store auth cookie" }
func (loginCmd) Usage() string       { return "login <email> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	login := strings.ToLower(strings.TrimSpace(args[0]))
	req := LoginRequest{Login: login, Password: args[1]}
	resp, body, err := api.PostJSON(ctx, api.Endpoint(cfg.ServerURL, "/api/user/login"), req, "")
	if err != nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return errors.New("invalid login or password")
	default:
		return serverError(resp, body)
	}
	user, err := persistSession(resp, body, login)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Logged in as @%s\n", user.Username)
	return nil
}

// persistSession сохраняет cookie и логин после успешного входа или регистрации.
func persistSession(resp *http.Response, body []byte, login string) (*model.User, error) {
	if err := api.PersistAuthFromResponse(resp); err != nil {
		return nil, fmt.Errorf("saving auth: %w", err)
	}
	if err := store.SaveLogin(login); err != nil {
		return nil, fmt.Errorf("saving login: %w", err)
	}
	var user model.User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &user, nil
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Forget stored auth cookie" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(_ context.Context, _ *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

func init() {
	RegisterCmd(loginCmd{})
	RegisterCmd(logoutCmd{})
}
