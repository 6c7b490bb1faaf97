package handlers

import (
	"VitoriaDiaria/internal/metrics"
	"VitoriaDiaria/internal/payment"
	"VitoriaDiaria/internal/service"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxWebhookBytes = 64 << 10

// PaymentHandler — уведомления шлюза и возврат плательщика.
type PaymentHandler struct {
	SupportService *service.SupportService
	Logger         *zap.SugaredLogger
	webhookSecret  string
}

func NewPaymentHandler(supportService *service.SupportService, logger *zap.SugaredLogger, webhookSecret string) *PaymentHandler {
	return &PaymentHandler{SupportService: supportService, Logger: logger, webhookSecret: webhookSecret}
}

// notification — тело уведомления Mercado Pago.
type notification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID json.RawMessage `json:"id"`
	} `json:"data"`
}

// dataID принимает data.id и строкой, и числом.
func (n *notification) dataID() string {
	raw := bytes.TrimSpace(n.Data.ID)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// Webhook уведомление Mercado Pago: проверка подписи, затем сверка статуса
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}
	var n notification
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &n); err != nil {
			h.Logger.Warnw("Webhook: invalid body", "error", err)
		}
	}

	q := r.URL.Query()
	dataID := q.Get("data.id")
	if dataID == "" {
		dataID = n.dataID()
	}
	eventType := n.Type
	if eventType == "" {
		eventType = q.Get("type")
	}
	if eventType == "" {
		eventType = q.Get("topic")
	}

	if err := payment.VerifySignature(h.webhookSecret, r.Header.Get("x-signature"), r.Header.Get("x-request-id"), dataID); err != nil {
		metrics.Webhooks.WithLabelValues("invalid_signature").Inc()
		h.Logger.Warnw("Webhook: rejected signature", "data_id", dataID, "request_id", r.Header.Get("x-request-id"))
		writeMessage(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	res, err := h.SupportService.ReconcileByWebhook(r.Context(), strings.ToLower(eventType), payment.NormalizeDataID(dataID))
	if err != nil {
		metrics.Webhooks.WithLabelValues("error").Inc()
		writeError(w, h.Logger, "Webhook", err)
		return
	}
	metrics.Webhooks.WithLabelValues(string(res.Outcome)).Inc()
	h.Logger.Infow("Webhook: processed", "type", eventType, "data_id", dataID, "outcome", res.Outcome, "support_id", res.SupportID)
	writeJSON(w, http.StatusOK, map[string]string{"status": string(res.Outcome)})
}

// Redirect возврат плательщика со страницы оплаты
func (h *PaymentHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	outcome := service.RedirectOutcome(chi.URLParam(r, "outcome"))
	supportID := r.URL.Query().Get("support_id")

	sup, err := h.SupportService.ReconcileByRedirect(r.Context(), supportID, outcome)
	if err != nil {
		writeError(w, h.Logger, "Redirect", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"support_id":     sup.ID,
		"outcome":        string(outcome),
		"payment_status": string(sup.PaymentStatus),
	})
}
