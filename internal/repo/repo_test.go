package repo

import (
	"VitoriaDiaria/internal/model"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// newTestDB инициализирует отдельную in-memory SQLite (modernc.org/sqlite) на каждый тест
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// одно соединение: транзакции идут по очереди, без SQLITE_LOCKED
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newAddiction(userID, name string, created time.Time) *model.Addiction {
	return &model.Addiction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Icon:      model.AddictionIconCigarette,
		DailyCost: decimal.RequireFromString("10.50"),
		GoalDays:  30,
		Tracking:  model.Tracking{Visible: true},
		Saved:     decimal.Zero,
		CreatedAt: created,
	}
}

func newGoal(userID, name string, created time.Time) *model.Goal {
	return &model.Goal{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Icon:        model.GoalIconBook,
		DailyTarget: decimal.NewFromInt(20),
		GoalDays:    10,
		Tracking:    model.Tracking{Visible: true},
		CreatedAt:   created,
	}
}
