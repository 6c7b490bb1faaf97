// Package progress содержит расчёт накоплений при ежедневной отметке.
package progress

import (
	"math"

	"github.com/shopspring/decimal"
)

// MaxPercent — верхняя граница прогресса.
const MaxPercent = 100

// Stats — накопительное состояние элемента.
type Stats struct {
	CheckIns int
	Streak   int
	Progress int
	Saved    decimal.Decimal
}

// Percent возвращает min(100, round(streak/goalDays*100)), не меньше нуля.
func Percent(streak, goalDays int) int {
	if goalDays < 1 || streak <= 0 {
		return 0
	}
	p := int(math.Round(float64(streak) / float64(goalDays) * 100))
	if p > MaxPercent {
		return MaxPercent
	}
	return p
}

// Advance применяет одну отметку. dailyCost нулевой для целей.
func Advance(s Stats, goalDays int, dailyCost decimal.Decimal) Stats {
	next := Stats{
		CheckIns: s.CheckIns + 1,
		Streak:   s.Streak + 1,
		Saved:    s.Saved.Add(dailyCost),
	}
	next.Progress = Percent(next.Streak, goalDays)
	return next
}
