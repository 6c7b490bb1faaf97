package service

import (
	"VitoriaDiaria/internal/model"
	"VitoriaDiaria/internal/repo"
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var usernameRe = regexp.MustCompile(`^[a-z0-9_.]{3,30}$`)

// UserService — регистрация, вход и профили.
type UserService struct {
	repo repo.UserRepository
}

func NewUserService(r repo.UserRepository) *UserService {
	return &UserService{repo: r}
}

// RegisterInput — данные регистрации.
type RegisterInput struct {
	Login    string  `json:"login"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Age      int     `json:"age"`
	City     string  `json:"city"`
	Bio      *string `json:"bio"`
	ImageURL *string `json:"image_url"`
}

func (in *RegisterInput) normalize() error {
	in.Login = strings.ToLower(strings.TrimSpace(in.Login))
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Name = strings.TrimSpace(in.Name)
	in.City = strings.TrimSpace(in.City)

	if _, err := mail.ParseAddress(in.Login); err != nil {
		return invalid("login must be an e-mail")
	}
	if len(in.Password) < 6 {
		return invalid("password must have at least 6 characters")
	}
	if n := utf8.RuneCountInString(in.Name); n < 1 || n > 100 {
		return invalid("name must have 1 to 100 characters")
	}
	if !usernameRe.MatchString(in.Username) {
		return invalid("username must be 3 to 30 of a-z, 0-9, '_' or '.'")
	}
	if in.Age < 0 || in.Age > 150 {
		return invalid("age out of range")
	}
	return nil
}

// Register создаёт пользователя; логин и username уникальны.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if taken, err := s.exists(s.repo.GetUserByLogin(ctx, in.Login)); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrLoginTaken
	}
	if taken, err := s.exists(s.repo.GetUserByUsername(ctx, in.Username)); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		ID:       uuid.NewString(),
		Login:    in.Login,
		Password: string(hash),
		Name:     in.Name,
		Username: in.Username,
		Age:      in.Age,
		City:     in.City,
		Bio:      in.Bio,
		ImageURL: in.ImageURL,
	}
	return s.repo.CreateUser(ctx, u)
}

func (s *UserService) exists(u *model.User, err error) (bool, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

// Login проверяет пару логин/пароль.
func (s *UserService) Login(ctx context.Context, login, password string) (*model.User, error) {
	u, err := s.repo.GetUserByLogin(ctx, strings.ToLower(strings.TrimSpace(login)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, lookupErr("user", err)
	}
	return u, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := s.repo.GetUserByUsername(ctx, strings.ToLower(username))
	if err != nil {
		return nil, lookupErr("user", err)
	}
	return u, nil
}
