package commands

import (
	"VitoriaDiaria/internal/cli/api"
	"VitoriaDiaria/internal/config"
	"VitoriaDiaria/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type supportsCmd struct{}

func (supportsCmd) Name() string        { return "supports" }
func (supportsCmd) Description() string { return "List received or sent supports" }
func (supportsCmd) Usage() string       { return "supports [received|sent]" }

func (supportsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	which := "received"
	if len(args) > 1 {
		return ErrUsage
	}
	if len(args) == 1 {
		which = args[0]
	}
	if which != "received" && which != "sent" {
		return ErrUsage
	}
	var list []model.SupportDetail
	if err := call(ctx, cfg, http.MethodGet, "/api/supports/"+which, nil, &list); err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "No supports yet")
	}
	for _, s := range list {
		fmt.Fprintf(Out, "%s  %-9s %s for %d days  %q%s\n",
			s.ID, s.PaymentStatus, s.Amount.StringFixed(2), s.DurationDays, s.Message, supportParties(s))
	}
	return nil
}

func supportParties(s model.SupportDetail) string {
	var b strings.Builder
	switch {
	case s.Supporter != nil:
		fmt.Fprintf(&b, "  from @%s", s.Supporter.Username)
	case s.Recipient != nil:
		fmt.Fprintf(&b, "  to @%s", s.Recipient.Username)
	}
	if s.Target != nil {
		fmt.Fprintf(&b, "  [%s]", s.Target.Name)
	}
	return b.String()
}

type pledgeRequest struct {
	RecipientID  string          `json:"recipient_id"`
	Message      string          `json:"message"`
	DurationDays int             `json:"duration_days"`
	Amount       decimal.Decimal `json:"amount"`
}

type checkoutResponse struct {
	SupportID string `json:"support_id"`
	InitPoint string `json:"init_point"`
	Error     string `json:"error"`
}

type supportCmd struct{}

func (supportCmd) Name() string        { return "support" }
func (supportCmd) Description() string { return "Pledge support to a user and print the payment link" }
func (supportCmd) Usage() string       { return "support <username> <amount> <days> <message...>" }

func (supportCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 4 {
		return ErrUsage
	}
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return ErrUsage
	}
	days, err := strconv.Atoi(args[2])
	if err != nil {
		return ErrUsage
	}
	profile, err := fetchProfile(ctx, cfg, args[0])
	if err != nil {
		return err
	}
	req := pledgeRequest{
		RecipientID:  profile.User.ID,
		Message:      strings.Join(args[3:], " "),
		DurationDays: days,
		Amount:       amount,
	}
	return checkout(ctx, cfg, "/api/supports", req, http.StatusCreated)
}

type retryCmd struct{}

func (retryCmd) Name() string        { return "retry" }
func (retryCmd) Description() string { return "Request a new payment link for a pending support" }
func (retryCmd) Usage() string       { return "retry <support_id>" }

func (retryCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return checkout(ctx, cfg, "/api/supports/"+url.PathEscape(args[0])+"/retry", nil, http.StatusOK)
}

func checkout(ctx context.Context, cfg *config.Config, path string, payload any, okStatus int) error {
	tok, err := requireToken()
	if err != nil {
		return err
	}
	resp, body, err := api.PostJSON(ctx, api.Endpoint(cfg.ServerURL, path), payload, tok)
	if err != nil {
		return err
	}
	var out checkoutResponse
	switch resp.StatusCode {
	case okStatus:
		if err := json.Unmarshal(body, &out); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		fmt.Fprintf(Out, "Support %s created\nPay here: %s\n", out.SupportID, out.InitPoint)
		return nil
	case http.StatusBadGateway:
		// поддержка сохранена, ссылку можно запросить позже
		if err := json.Unmarshal(body, &out); err == nil && out.SupportID != "" {
			return fmt.Errorf("payment provider unavailable, try: retry %s", out.SupportID)
		}
	}
	return serverError(resp, body)
}

type profileResponse struct {
	User       model.User        `json:"user"`
	Addictions []model.Addiction `json:"addictions"`
	Goals      []model.Goal      `json:"goals"`
	Supports   []struct {
		SupporterName string           `json:"supporter_name"`
		Message       string           `json:"message"`
		DurationDays  int              `json:"duration_days"`
		Amount        *decimal.Decimal `json:"amount"`
	} `json:"supports"`
}

func fetchProfile(ctx context.Context, cfg *config.Config, username string) (*profileResponse, error) {
	path := "/api/profiles/" + url.PathEscape(strings.TrimPrefix(username, "@"))
	resp, body, err := api.GetJSON(ctx, api.Endpoint(cfg.ServerURL, path), "")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("user %s not found", username)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, serverError(resp, body)
	}
	var p profileResponse
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &p, nil
}

type profileCmd struct{}

func (profileCmd) Name() string        { return "profile" }
func (profileCmd) Description() string { return "Show a public profile" }
func (profileCmd) Usage() string       { return "profile <username>" }

func (profileCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	p, err := fetchProfile(ctx, cfg, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "%s (@%s)\n", p.User.Name, p.User.Username)
	for _, a := range p.Addictions {
		printAddiction(a)
	}
	for _, g := range p.Goals {
		printGoal(g)
	}
	for _, s := range p.Supports {
		amount := "hidden"
		if s.Amount != nil {
			amount = s.Amount.StringFixed(2)
		}
		fmt.Fprintf(Out, "  %s: %q (%d days, %s)\n", s.SupporterName, s.Message, s.DurationDays, amount)
	}
	return nil
}

func init() {
	RegisterCmd(supportsCmd{})
	RegisterCmd(supportCmd{})
	RegisterCmd(retryCmd{})
	RegisterCmd(profileCmd{})
}
