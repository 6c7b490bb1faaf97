package handlers

import (
	"VitoriaDiaria/internal/middleware"
	"VitoriaDiaria/internal/service"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SupportHandler — создание поддержки и списки.
type SupportHandler struct {
	SupportService *service.SupportService
	Logger         *zap.SugaredLogger
}

func NewSupportHandler(supportService *service.SupportService, logger *zap.SugaredLogger) *SupportHandler {
	return &SupportHandler{SupportService: supportService, Logger: logger}
}

// writeCheckout отдаёт ссылку на оплату; при ошибке шлюза 502 с id созданной поддержки.
func (h *SupportHandler) writeCheckout(w http.ResponseWriter, op string, out *service.PledgeCheckout, err error, okStatus int) {
	if errors.Is(err, service.ErrPaymentGateway) && out != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":      "payment gateway unavailable",
			"support_id": out.SupportID,
		})
		return
	}
	if err != nil {
		writeError(w, h.Logger, op, err)
		return
	}
	writeJSON(w, okStatus, out)
}

// Create новая поддержка; авторизация необязательна
func (h *SupportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.PledgeInput
	if !decodeJSON(w, r, &in) {
		return
	}
	requester, _ := middleware.GetUserIDFromContext(r.Context())
	out, err := h.SupportService.CreatePledge(r.Context(), in, requester)
	h.writeCheckout(w, "CreateSupport", out, err, http.StatusCreated)
}

// Retry повторный запрос платёжной сессии
func (h *SupportHandler) Retry(w http.ResponseWriter, r *http.Request) {
	out, err := h.SupportService.RetryPledgePayment(r.Context(), chi.URLParam(r, "id"))
	h.writeCheckout(w, "RetrySupport", out, err, http.StatusOK)
}

// Received поддержки, полученные текущим пользователем
func (h *SupportHandler) Received(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	list, err := h.SupportService.ListReceivedSupports(r.Context(), uid)
	if err != nil {
		writeError(w, h.Logger, "ReceivedSupports", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

// Sent поддержки, отправленные текущим пользователем
func (h *SupportHandler) Sent(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	list, err := h.SupportService.ListSentSupports(r.Context(), uid)
	if err != nil {
		writeError(w, h.Logger, "SentSupports", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

// Public оплаченные поддержки пользователя
func (h *SupportHandler) Public(w http.ResponseWriter, r *http.Request) {
	list, err := h.SupportService.ListPublicSupports(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "PublicSupports", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
