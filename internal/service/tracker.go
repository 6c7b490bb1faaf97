package service

import (
	"VitoriaDiaria/internal/metrics"
	"VitoriaDiaria/internal/model"
	"VitoriaDiaria/internal/progress"
	"VitoriaDiaria/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckInStatus — исход отметки.
type CheckInStatus string

const (
	CheckedIn        CheckInStatus = "checked_in"
	AlreadyCheckedIn CheckInStatus = "already_checked_in"
)

// CheckInResult — исход отметки и актуальное состояние элемента.
type CheckInResult struct {
	Status    CheckInStatus    `json:"status"`
	Day       string           `json:"day"`
	Addiction *model.Addiction `json:"addiction,omitempty"`
	Goal      *model.Goal      `json:"goal,omitempty"`
}

// AddictionInput — данные новой зависимости.
type AddictionInput struct {
	Name      string          `json:"name"`
	Icon      string          `json:"icon"`
	DailyCost decimal.Decimal `json:"daily_cost"`
	GoalDays  int             `json:"goal_days"`
}

// GoalInput — данные новой цели.
type GoalInput struct {
	Name        string          `json:"name"`
	Icon        string          `json:"icon"`
	Description *string         `json:"description"`
	DailyTarget decimal.Decimal `json:"daily_target"`
	GoalDays    int             `json:"goal_days"`
}

// TrackerService — зависимости, цели и ежедневные отметки.
type TrackerService struct {
	users repo.UserRepository
	items repo.TrackerRepository
	log   *zap.SugaredLogger
}

func NewTrackerService(users repo.UserRepository, items repo.TrackerRepository, logger *zap.SugaredLogger) *TrackerService {
	return &TrackerService{users: users, items: items, log: logger}
}

func validateItem(name *string, goalDays int, amount decimal.Decimal, amountField string) error {
	*name = strings.TrimSpace(*name)
	if n := utf8.RuneCountInString(*name); n < 1 || n > 100 {
		return invalid("name must have 1 to 100 characters")
	}
	if goalDays < 1 {
		return invalid("goal_days must be at least 1")
	}
	if amount.IsNegative() {
		return invalid("%s must not be negative", amountField)
	}
	return nil
}

func (s *TrackerService) requireUser(ctx context.Context, userID string) error {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return lookupErr("user", err)
	}
	return nil
}

// CreateAddiction создаёт зависимость с нулевыми накоплениями, видимую публично.
func (s *TrackerService) CreateAddiction(ctx context.Context, userID string, in AddictionInput) (*model.Addiction, error) {
	if err := validateItem(&in.Name, in.GoalDays, in.DailyCost, "daily_cost"); err != nil {
		return nil, err
	}
	icon, err := model.ParseAddictionIcon(in.Icon)
	if err != nil {
		return nil, invalid("%v", err)
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	a := &model.Addiction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      in.Name,
		Icon:      icon,
		DailyCost: in.DailyCost.Round(2),
		GoalDays:  in.GoalDays,
		Tracking:  model.Tracking{Visible: true},
		Saved:     decimal.Zero,
	}
	if err := s.items.CreateAddiction(ctx, a); err != nil {
		return nil, fmt.Errorf("create addiction: %w", err)
	}
	return a, nil
}

// CreateGoal создаёт цель с нулевыми накоплениями, видимую публично.
func (s *TrackerService) CreateGoal(ctx context.Context, userID string, in GoalInput) (*model.Goal, error) {
	if err := validateItem(&in.Name, in.GoalDays, in.DailyTarget, "daily_target"); err != nil {
		return nil, err
	}
	icon, err := model.ParseGoalIcon(in.Icon)
	if err != nil {
		return nil, invalid("%v", err)
	}
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if utf8.RuneCountInString(d) > 500 {
			return nil, invalid("description must have at most 500 characters")
		}
		if d == "" {
			in.Description = nil
		} else {
			in.Description = &d
		}
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	g := &model.Goal{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        in.Name,
		Icon:        icon,
		Description: in.Description,
		DailyTarget: in.DailyTarget.Round(2),
		GoalDays:    in.GoalDays,
		Tracking:    model.Tracking{Visible: true},
	}
	if err := s.items.CreateGoal(ctx, g); err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	return g, nil
}

func (s *TrackerService) ListAddictions(ctx context.Context, userID string) ([]model.Addiction, error) {
	return s.items.ListAddictions(ctx, userID, false)
}

func (s *TrackerService) ListGoals(ctx context.Context, userID string) ([]model.Goal, error) {
	return s.items.ListGoals(ctx, userID, false)
}

// ListPublicAddictions — только видимые зависимости.
func (s *TrackerService) ListPublicAddictions(ctx context.Context, userID string) ([]model.Addiction, error) {
	return s.items.ListAddictions(ctx, userID, true)
}

// ListPublicGoals — только видимые цели.
func (s *TrackerService) ListPublicGoals(ctx context.Context, userID string) ([]model.Goal, error) {
	return s.items.ListGoals(ctx, userID, true)
}

// ownerOf загружает элемент и возвращает его владельца.
func (s *TrackerService) ownerOf(ctx context.Context, kind model.ItemKind, itemID string) (string, error) {
	switch kind {
	case model.KindAddiction:
		a, err := s.items.GetAddiction(ctx, itemID)
		if err != nil {
			return "", lookupErr("addiction", err)
		}
		return a.UserID, nil
	case model.KindGoal:
		g, err := s.items.GetGoal(ctx, itemID)
		if err != nil {
			return "", lookupErr("goal", err)
		}
		return g.UserID, nil
	default:
		return "", invalid("unknown item kind %q", kind)
	}
}

// SetVisibility меняет публичную видимость элемента. Только владелец.
func (s *TrackerService) SetVisibility(ctx context.Context, kind model.ItemKind, userID, itemID string, visible bool) error {
	owner, err := s.ownerOf(ctx, kind, itemID)
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrForbidden
	}
	if err := s.items.SetVisibility(ctx, kind, itemID, visible); err != nil {
		return fmt.Errorf("set visibility: %w", err)
	}
	return nil
}

// CheckIn отмечает элемент за календарный день today.
// Повтор за тот же день возвращает AlreadyCheckedIn без изменения накоплений.
func (s *TrackerService) CheckIn(ctx context.Context, kind model.ItemKind, itemID, userID string, today time.Time) (*CheckInResult, error) {
	day := model.DayOf(today)
	var (
		res *CheckInResult
		err error
	)
	switch kind {
	case model.KindAddiction:
		res, err = s.checkInAddiction(ctx, itemID, userID, day)
	case model.KindGoal:
		res, err = s.checkInGoal(ctx, itemID, userID, day)
	default:
		return nil, invalid("unknown item kind %q", kind)
	}
	if err != nil {
		return nil, err
	}
	metrics.CheckIns.WithLabelValues(string(kind), string(res.Status)).Inc()
	return res, nil
}

func (s *TrackerService) checkInAddiction(ctx context.Context, itemID, userID, day string) (*CheckInResult, error) {
	a, err := s.items.GetAddiction(ctx, itemID)
	if err != nil {
		return nil, lookupErr("addiction", err)
	}
	if a.UserID != userID {
		return nil, ErrForbidden
	}
	dup, err := s.items.HasCheckIn(ctx, itemID, day)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if dup {
		return &CheckInResult{Status: AlreadyCheckedIn, Day: day, Addiction: a}, nil
	}

	rec := &model.CheckIn{ItemID: itemID, ItemKind: model.KindAddiction, UserID: userID, Day: day}
	updated, err := s.items.CheckInAddiction(ctx, rec, func(x *model.Addiction) {
		next := progress.Advance(progress.Stats{
			CheckIns: x.CheckIns,
			Streak:   x.Streak,
			Progress: x.Progress,
			Saved:    x.Saved,
		}, x.GoalDays, x.DailyCost)
		x.CheckIns, x.Streak, x.Progress, x.Saved = next.CheckIns, next.Streak, next.Progress, next.Saved
	})
	if errors.Is(err, repo.ErrDuplicateCheckIn) {
		s.log.Infow("concurrent duplicate check-in", "item_id", itemID, "day", day)
		if fresh, gerr := s.items.GetAddiction(ctx, itemID); gerr == nil {
			a = fresh
		}
		return &CheckInResult{Status: AlreadyCheckedIn, Day: day, Addiction: a}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("check in addiction: %w", err)
	}
	return &CheckInResult{Status: CheckedIn, Day: day, Addiction: updated}, nil
}

func (s *TrackerService) checkInGoal(ctx context.Context, itemID, userID, day string) (*CheckInResult, error) {
	g, err := s.items.GetGoal(ctx, itemID)
	if err != nil {
		return nil, lookupErr("goal", err)
	}
	if g.UserID != userID {
		return nil, ErrForbidden
	}
	dup, err := s.items.HasCheckIn(ctx, itemID, day)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if dup {
		return &CheckInResult{Status: AlreadyCheckedIn, Day: day, Goal: g}, nil
	}

	rec := &model.CheckIn{ItemID: itemID, ItemKind: model.KindGoal, UserID: userID, Day: day}
	updated, err := s.items.CheckInGoal(ctx, rec, func(x *model.Goal) {
		next := progress.Advance(progress.Stats{
			CheckIns: x.CheckIns,
			Streak:   x.Streak,
			Progress: x.Progress,
		}, x.GoalDays, decimal.Zero)
		x.CheckIns, x.Streak, x.Progress = next.CheckIns, next.Streak, next.Progress
	})
	if errors.Is(err, repo.ErrDuplicateCheckIn) {
		s.log.Infow("concurrent duplicate check-in", "item_id", itemID, "day", day)
		if fresh, gerr := s.items.GetGoal(ctx, itemID); gerr == nil {
			g = fresh
		}
		return &CheckInResult{Status: AlreadyCheckedIn, Day: day, Goal: g}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("check in goal: %w", err)
	}
	return &CheckInResult{Status: CheckedIn, Day: day, Goal: updated}, nil
}
