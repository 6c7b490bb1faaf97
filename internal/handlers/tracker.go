package handlers

import (
	"VitoriaDiaria/internal/model"
	"VitoriaDiaria/internal/service"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TrackerHandler — зависимости, цели и отметки.
type TrackerHandler struct {
	TrackerService *service.TrackerService
	Logger         *zap.SugaredLogger
	// today — текущий момент в часовом поясе отметок
	today func() time.Time
}

func NewTrackerHandler(trackerService *service.TrackerService, logger *zap.SugaredLogger, today func() time.Time) *TrackerHandler {
	return &TrackerHandler{TrackerService: trackerService, Logger: logger, today: today}
}

type visibilityRequest struct {
	Visible *bool `json:"visible"`
}

// Create создание зависимости или цели
func (h *TrackerHandler) Create(kind model.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireUser(w, r)
		if !ok {
			return
		}
		var (
			item any
			err  error
		)
		switch kind {
		case model.KindAddiction:
			var in service.AddictionInput
			if !decodeJSON(w, r, &in) {
				return
			}
			item, err = h.TrackerService.CreateAddiction(r.Context(), uid, in)
		default:
			var in service.GoalInput
			if !decodeJSON(w, r, &in) {
				return
			}
			item, err = h.TrackerService.CreateGoal(r.Context(), uid, in)
		}
		if err != nil {
			writeError(w, h.Logger, "Create "+string(kind), err)
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}
}

// List список элементов владельца
func (h *TrackerHandler) List(kind model.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireUser(w, r)
		if !ok {
			return
		}
		var (
			items any
			err   error
		)
		if kind == model.KindAddiction {
			var list []model.Addiction
			list, err = h.TrackerService.ListAddictions(r.Context(), uid)
			items = nonNil(list)
		} else {
			var list []model.Goal
			list, err = h.TrackerService.ListGoals(r.Context(), uid)
			items = nonNil(list)
		}
		if err != nil {
			writeError(w, h.Logger, "List "+string(kind), err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// CheckIn отметка за сегодняшний день
func (h *TrackerHandler) CheckIn(kind model.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireUser(w, r)
		if !ok {
			return
		}
		itemID := chi.URLParam(r, "id")
		res, err := h.TrackerService.CheckIn(r.Context(), kind, itemID, uid, h.today())
		if err != nil {
			writeError(w, h.Logger, "CheckIn", err)
			return
		}
		h.Logger.Infow("check-in", "kind", kind, "item_id", itemID, "user_id", uid, "day", res.Day, "status", res.Status)
		writeJSON(w, http.StatusOK, res)
	}
}

// SetVisibility публичная видимость элемента
func (h *TrackerHandler) SetVisibility(kind model.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireUser(w, r)
		if !ok {
			return
		}
		var req visibilityRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Visible == nil {
			writeMessage(w, http.StatusBadRequest, "visible is required")
			return
		}
		itemID := chi.URLParam(r, "id")
		if err := h.TrackerService.SetVisibility(r.Context(), kind, uid, itemID, *req.Visible); err != nil {
			writeError(w, h.Logger, "SetVisibility", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": itemID, "visible": *req.Visible})
	}
}
