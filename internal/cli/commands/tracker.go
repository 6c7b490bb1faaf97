package commands

import (
	"VitoriaDiaria/internal/config"
	"VitoriaDiaria/internal/model"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// itemsCmd — зависимости или цели: список, создание, отметка и видимость.
type itemsCmd struct {
	kind model.ItemKind
}

func (c itemsCmd) collection() string {
	if c.kind == model.KindAddiction {
		return "addictions"
	}
	return "goals"
}

func (c itemsCmd) Name() string { return c.collection() }

func (c itemsCmd) Description() string {
	if c.kind == model.KindAddiction {
		return "List, add, check in or hide addictions"
	}
	return "List, add, check in or hide goals"
}

func (c itemsCmd) Usage() string {
	if c.kind == model.KindAddiction {
		return "addictions [add <name> <icon> <daily_cost> <goal_days> | checkin|show|hide <id>]"
	}
	return "goals [add <name> <icon> <daily_target> <goal_days> [description] | checkin|show|hide <id>]"
}

func (c itemsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 || args[0] == "list" {
		if len(args) > 1 {
			return ErrUsage
		}
		return c.list(ctx, cfg)
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "add":
		return c.add(ctx, cfg, rest)
	case "checkin":
		if len(rest) != 1 {
			return ErrUsage
		}
		return c.checkIn(ctx, cfg, rest[0])
	case "show", "hide":
		if len(rest) != 1 {
			return ErrUsage
		}
		return c.setVisibility(ctx, cfg, rest[0], sub == "show")
	}
	return ErrUsage
}

func (c itemsCmd) base() string { return "/api/" + c.collection() }

func (c itemsCmd) list(ctx context.Context, cfg *config.Config) error {
	if c.kind == model.KindAddiction {
		var items []model.Addiction
		if err := call(ctx, cfg, http.MethodGet, c.base(), nil, &items); err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(Out, "No addictions yet")
		}
		for _, a := range items {
			printAddiction(a)
		}
		return nil
	}
	var items []model.Goal
	if err := call(ctx, cfg, http.MethodGet, c.base(), nil, &items); err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(Out, "No goals yet")
	}
	for _, g := range items {
		printGoal(g)
	}
	return nil
}

func (c itemsCmd) add(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 4 {
		return ErrUsage
	}
	amount, err := decimal.NewFromString(args[2])
	if err != nil {
		return ErrUsage
	}
	days, err := strconv.Atoi(args[3])
	if err != nil {
		return ErrUsage
	}
	if c.kind == model.KindAddiction {
		if len(args) != 4 {
			return ErrUsage
		}
		payload := map[string]any{"name": args[0], "icon": args[1], "daily_cost": amount, "goal_days": days}
		var a model.Addiction
		if err := call(ctx, cfg, http.MethodPost, c.base(), payload, &a, http.StatusCreated); err != nil {
			return err
		}
		printAddiction(a)
		return nil
	}
	payload := map[string]any{"name": args[0], "icon": args[1], "daily_target": amount, "goal_days": days}
	if len(args) > 4 {
		payload["description"] = strings.Join(args[4:], " ")
	}
	var g model.Goal
	if err := call(ctx, cfg, http.MethodPost, c.base(), payload, &g, http.StatusCreated); err != nil {
		return err
	}
	printGoal(g)
	return nil
}

type checkInResponse struct {
	Status    string           `json:"status"`
	Day       string           `json:"day"`
	Addiction *model.Addiction `json:"addiction"`
	Goal      *model.Goal      `json:"goal"`
}

func (c itemsCmd) checkIn(ctx context.Context, cfg *config.Config, id string) error {
	var res checkInResponse
	if err := call(ctx, cfg, http.MethodPost, c.base()+"/"+id+"/checkin", nil, &res); err != nil {
		return err
	}
	if res.Status == "already_checked_in" {
		fmt.Fprintf(Out, "Already checked in on %s\n", res.Day)
	} else {
		fmt.Fprintf(Out, "Checked in on %s\n", res.Day)
	}
	switch {
	case res.Addiction != nil:
		printAddiction(*res.Addiction)
	case res.Goal != nil:
		printGoal(*res.Goal)
	}
	return nil
}

func (c itemsCmd) setVisibility(ctx context.Context, cfg *config.Config, id string, visible bool) error {
	payload := map[string]bool{"visible": visible}
	if err := call(ctx, cfg, http.MethodPatch, c.base()+"/"+id+"/visibility", payload, nil); err != nil {
		return err
	}
	if visible {
		fmt.Fprintf(Out, "%s is now public\n", id)
	} else {
		fmt.Fprintf(Out, "%s is now hidden\n", id)
	}
	return nil
}

func visibility(v bool) string {
	if v {
		return "public"
	}
	return "hidden"
}

func printAddiction(a model.Addiction) {
	fmt.Fprintf(Out, "%s  %-20s streak=%d check-ins=%d progress=%d%% saved=%s [%s]\n",
		a.ID, a.Name, a.Streak, a.CheckIns, a.Progress, a.Saved.StringFixed(2), visibility(a.Visible))
}

func printGoal(g model.Goal) {
	fmt.Fprintf(Out, "%s  %-20s streak=%d check-ins=%d progress=%d%% [%s]\n",
		g.ID, g.Name, g.Streak, g.CheckIns, g.Progress, visibility(g.Visible))
}

func init() {
	RegisterCmd(itemsCmd{kind: model.KindAddiction})
	RegisterCmd(itemsCmd{kind: model.KindGoal})
}
