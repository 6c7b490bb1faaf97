package handlers

import (
	"VitoriaDiaria/internal/config"
	"VitoriaDiaria/internal/middleware"
	"VitoriaDiaria/internal/model"
	"VitoriaDiaria/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler — регистрация, вход и профили.
type UserHandler struct {
	UserService    *service.UserService
	TrackerService *service.TrackerService
	SupportService *service.SupportService
	Logger         *zap.SugaredLogger
	Config         *config.Config
}

func NewUserHandler(
	userService *service.UserService,
	trackerService *service.TrackerService,
	supportService *service.SupportService,
	logger *zap.SugaredLogger,
	cfg *config.Config,
) *UserHandler {
	return &UserHandler{
		UserService:    userService,
		TrackerService: trackerService,
		SupportService: supportService,
		Logger:         logger,
		Config:         cfg,
	}
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// ProfileResponse — публичный профиль пользователя.
type ProfileResponse struct {
	User       *model.User             `json:"user"`
	Addictions []model.Addiction       `json:"addictions"`
	Goals      []model.Goal            `json:"goals"`
	Supports   []service.PublicSupport `json:"supports"`
}

// Register регистрация пользователя и выдача cookie
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.UserService.Register(r.Context(), req)
	if err != nil {
		h.Logger.Infow("Register: rejected", "login", req.Login, "error", err)
		writeError(w, h.Logger, "Register", err)
		return
	}
	if err := middleware.SetLoginCookie(w, user.ID, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("Register: failed to set cookie", "user_id", user.ID, "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.Logger.Infow("user registered", "user_id", user.ID, "username", user.Username)
	writeJSON(w, http.StatusOK, user)
}

// Login вход пользователя
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.UserService.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, h.Logger, "Login", err)
		return
	}
	if err := middleware.SetLoginCookie(w, user.ID, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("Login: failed to set cookie", "user_id", user.ID, "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Me профиль текущего пользователя
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	user, err := h.UserService.GetByID(r.Context(), uid)
	if err != nil {
		writeError(w, h.Logger, "Me", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Profile публичный профиль: видимые элементы и оплаченные поддержки
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.UserService.GetByUsername(ctx, chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, h.Logger, "Profile", err)
		return
	}
	addictions, err := h.TrackerService.ListPublicAddictions(ctx, user.ID)
	if err != nil {
		writeError(w, h.Logger, "Profile", err)
		return
	}
	goals, err := h.TrackerService.ListPublicGoals(ctx, user.ID)
	if err != nil {
		writeError(w, h.Logger, "Profile", err)
		return
	}
	supports, err := h.SupportService.ListPublicSupports(ctx, user.ID)
	if err != nil {
		writeError(w, h.Logger, "Profile", err)
		return
	}
	writeJSON(w, http.StatusOK, ProfileResponse{
		User:       user,
		Addictions: nonNil(addictions),
		Goals:      nonNil(goals),
		Supports:   supports,
	})
}

// nonNil — пустой список в JSON как [], а не null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
