package repo

import (
	"VitoriaDiaria/internal/model"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateCheckIn — отметка за этот день уже существует (в том числе при гонке двух запросов).
var ErrDuplicateCheckIn = errors.New("check-in already recorded for this day")

// TrackerRepository — доступ к зависимостям, целям и их отметкам.
type TrackerRepository interface {
	CreateAddiction(ctx context.Context, a *model.Addiction) error
	CreateGoal(ctx context.Context, g *model.Goal) error

	// GetAddiction/GetGoal возвращают gorm.ErrRecordNotFound, если записи нет.
	GetAddiction(ctx context.Context, id string) (*model.Addiction, error)
	GetGoal(ctx context.Context, id string) (*model.Goal, error)

	// ListAddictions/ListGoals отдают записи владельца, новые первыми.
	ListAddictions(ctx context.Context, userID string, onlyVisible bool) ([]model.Addiction, error)
	ListGoals(ctx context.Context, userID string, onlyVisible bool) ([]model.Goal, error)

	SetVisibility(ctx context.Context, kind model.ItemKind, itemID string, visible bool) error

	HasCheckIn(ctx context.Context, itemID, day string) (bool, error)

	// CheckInAddiction/CheckInGoal в одной транзакции вставляют отметку,
	// перечитывают элемент, вызывают apply и сохраняют накопления.
	// Если отметка за день уже есть — ErrDuplicateCheckIn, статистика не меняется.
	CheckInAddiction(ctx context.Context, rec *model.CheckIn, apply func(*model.Addiction)) (*model.Addiction, error)
	CheckInGoal(ctx context.Context, rec *model.CheckIn, apply func(*model.Goal)) (*model.Goal, error)
}

type trackerRepo struct {
	db *gorm.DB
}

// NewTrackerRepository создаёт репозиторий отслеживаемых элементов.
func NewTrackerRepository(db *gorm.DB) TrackerRepository {
	return &trackerRepo{db: db}
}

func (r *trackerRepo) CreateAddiction(ctx context.Context, a *model.Addiction) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *trackerRepo) CreateGoal(ctx context.Context, g *model.Goal) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *trackerRepo) GetAddiction(ctx context.Context, id string) (*model.Addiction, error) {
	var a model.Addiction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *trackerRepo) GetGoal(ctx context.Context, id string) (*model.Goal, error) {
	var g model.Goal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *trackerRepo) ListAddictions(ctx context.Context, userID string, onlyVisible bool) ([]model.Addiction, error) {
	var out []model.Addiction
	err := r.ownerScope(ctx, userID, onlyVisible).Find(&out).Error
	return out, err
}

func (r *trackerRepo) ListGoals(ctx context.Context, userID string, onlyVisible bool) ([]model.Goal, error) {
	var out []model.Goal
	err := r.ownerScope(ctx, userID, onlyVisible).Find(&out).Error
	return out, err
}

func (r *trackerRepo) ownerScope(ctx context.Context, userID string, onlyVisible bool) *gorm.DB {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if onlyVisible {
		q = q.Where("visible = ?", true)
	}
	return q.Order("created_at DESC")
}

func (r *trackerRepo) SetVisibility(ctx context.Context, kind model.ItemKind, itemID string, visible bool) error {
	m, err := modelFor(kind)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(m).Where("id = ?", itemID).Update("visible", visible).Error
}

func (r *trackerRepo) HasCheckIn(ctx context.Context, itemID, day string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.CheckIn{}).
		Where("item_id = ? AND day = ?", itemID, day).
		Count(&n).Error
	return n > 0, err
}

func (r *trackerRepo) CheckInAddiction(ctx context.Context, rec *model.CheckIn, apply func(*model.Addiction)) (*model.Addiction, error) {
	var a model.Addiction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insertCheckIn(tx, rec); err != nil {
			return err
		}
		if err := tx.Where("id = ?", rec.ItemID).First(&a).Error; err != nil {
			return err
		}
		apply(&a)
		return tx.Model(&model.Addiction{}).Where("id = ?", a.ID).Updates(map[string]any{
			"check_ins": a.CheckIns,
			"streak":    a.Streak,
			"progress":  a.Progress,
			"saved":     a.Saved,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *trackerRepo) CheckInGoal(ctx context.Context, rec *model.CheckIn, apply func(*model.Goal)) (*model.Goal, error) {
	var g model.Goal
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insertCheckIn(tx, rec); err != nil {
			return err
		}
		if err := tx.Where("id = ?", rec.ItemID).First(&g).Error; err != nil {
			return err
		}
		apply(&g)
		return tx.Model(&model.Goal{}).Where("id = ?", g.ID).Updates(map[string]any{
			"check_ins": g.CheckIns,
			"streak":    g.Streak,
			"progress":  g.Progress,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// insertCheckIn создаёт отметку, если её ещё нет; уникальный индекс (item_id, day) закрывает гонку.
func insertCheckIn(tx *gorm.DB, rec *model.CheckIn) error {
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_id"}, {Name: "day"}},
		DoNothing: true,
	}).Create(rec)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDuplicateCheckIn
	}
	return nil
}

func modelFor(kind model.ItemKind) (any, error) {
	switch kind {
	case model.KindAddiction:
		return &model.Addiction{}, nil
	case model.KindGoal:
		return &model.Goal{}, nil
	default:
		return nil, fmt.Errorf("unknown item kind %q", kind)
	}
}
