package model

import "fmt"

// AddictionIcon — закрытый набор иконок зависимостей.
type AddictionIcon string

const (
	AddictionIconCigarette   AddictionIcon = "cigarette"
	AddictionIconAlcohol     AddictionIcon = "alcohol"
	AddictionIconCaffeine    AddictionIcon = "caffeine"
	AddictionIconShopping    AddictionIcon = "shopping"
	AddictionIconSocialMedia AddictionIcon = "social-media"
	AddictionIconGaming      AddictionIcon = "gaming"
	AddictionIconSugar       AddictionIcon = "sugar"
	AddictionIconOther       AddictionIcon = "other"
)

var addictionIcons = map[AddictionIcon]struct{}{
	AddictionIconCigarette:   {},
	AddictionIconAlcohol:     {},
	AddictionIconCaffeine:    {},
	AddictionIconShopping:    {},
	AddictionIconSocialMedia: {},
	AddictionIconGaming:      {},
	AddictionIconSugar:       {},
	AddictionIconOther:       {},
}

// ParseAddictionIcon проверяет иконку; пустая строка означает "other".
func ParseAddictionIcon(s string) (AddictionIcon, error) {
	if s == "" {
		return AddictionIconOther, nil
	}
	icon := AddictionIcon(s)
	if _, ok := addictionIcons[icon]; !ok {
		return "", fmt.Errorf("unknown addiction icon %q", s)
	}
	return icon, nil
}

// GoalIcon — закрытый набор иконок целей.
type GoalIcon string

const (
	GoalIconBook       GoalIcon = "book"
	GoalIconExercise   GoalIcon = "exercise"
	GoalIconMeditation GoalIcon = "meditation"
	GoalIconWater      GoalIcon = "water"
	GoalIconSleep      GoalIcon = "sleep"
	GoalIconCoding     GoalIcon = "coding"
	GoalIconWriting    GoalIcon = "writing"
	GoalIconOther      GoalIcon = "other"
)

var goalIcons = map[GoalIcon]struct{}{
	GoalIconBook:       {},
	GoalIconExercise:   {},
	GoalIconMeditation: {},
	GoalIconWater:      {},
	GoalIconSleep:      {},
	GoalIconCoding:     {},
	GoalIconWriting:    {},
	GoalIconOther:      {},
}

// ParseGoalIcon проверяет иконку; пустая строка означает "other".
func ParseGoalIcon(s string) (GoalIcon, error) {
	if s == "" {
		return GoalIconOther, nil
	}
	icon := GoalIcon(s)
	if _, ok := goalIcons[icon]; !ok {
		return "", fmt.Errorf("unknown goal icon %q", s)
	}
	return icon, nil
}
