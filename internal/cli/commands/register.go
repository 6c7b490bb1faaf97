package commands

import (
	"VitoriaDiaria/internal/cli/api"
	"VitoriaDiaria/internal/config"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

type RegisterRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Age      int    `json:"age,omitempty"`
	City     string `json:"city,omitempty"`
}

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create an account and log in" }
func (registerCmd) Usage() string {
	return "register <email> <password> <name> <username> [age] [city]"
}

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 4 || len(args) > 6 {
		return ErrUsage
	}
	req := RegisterRequest{
		Login:    strings.ToLower(strings.TrimSpace(args[0])),
		Password: args[1],
		Name:     args[2],
		Username: args[3],
	}
	if len(args) > 4 {
		age, err := strconv.Atoi(args[4])
		if err != nil {
			return ErrUsage
		}
		req.Age = age
	}
	if len(args) > 5 {
		req.City = args[5]
	}
	resp, body, err := api.PostJSON(ctx, api.Endpoint(cfg.ServerURL, "/api/user/register"), req, "")
	if err != nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusConflict:
		return errors.New(api.ErrorMessage(body))
	default:
		return serverError(resp, body)
	}
	user, err := persistSession(resp, body, req.Login)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Registered @%s\n", user.Username)
	return nil
}

func init() { RegisterCmd(registerCmd{}) }
