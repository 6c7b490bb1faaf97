package repo

import (
	"VitoriaDiaria/internal/model"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepository(db)
	ctx := context.Background()

	// успешное создание
	u, err := r.CreateUser(ctx, &model.User{ID: uuid.NewString(), Login: "john", Password: "hash", Name: "John", Username: "john"})
	assert.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	// поиск по логину, id и username
	got, err := r.GetUserByLogin(ctx, "john")
	assert.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = r.GetUserByID(ctx, u.ID)
	assert.NoError(t, err)
	assert.Equal(t, "John", got.Name)

	got, err = r.GetUserByUsername(ctx, "john")
	assert.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	// уникальный логин — вторая вставка должна дать ошибку
	_, err = r.CreateUser(ctx, &model.User{ID: uuid.NewString(), Login: "john", Password: "x", Name: "J", Username: "other"})
	assert.Error(t, err)

	// уникальный username
	_, err = r.CreateUser(ctx, &model.User{ID: uuid.NewString(), Login: "mary", Password: "x", Name: "M", Username: "john"})
	assert.Error(t, err)

	// поиск несуществующего — ожидаем gorm.ErrRecordNotFound
	got, err = r.GetUserByLogin(ctx, "doesnotexist")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
