package commands

import (
	"VitoriaDiaria/internal/config"
	"VitoriaDiaria/internal/model"
	"context"
	"fmt"
	"net/http"
)

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show the logged in user" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	var user model.User
	if err := call(ctx, cfg, http.MethodGet, "/api/user/me", nil, &user); err != nil {
		return err
	}
	login, _ := store.LoadLogin()
	fmt.Fprintf(Out, "Logged in as %s (@%s)", user.Name, user.Username)
	if login != "" {
		fmt.Fprintf(Out, " <%s>", login)
	}
	fmt.Fprintln(Out)
	return nil
}

func init() { RegisterCmd(statusCmd{}) }
