package service

import (
	"VitoriaDiaria/internal/metrics"
	"VitoriaDiaria/internal/model"
	"VitoriaDiaria/internal/payment"
	"VitoriaDiaria/internal/repo"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	currencyBRL        = "BRL"
	anonymousPayerName = "Apoiador anônimo"
	// PaymentEventType — единственный тип уведомления, меняющий статус поддержки.
	PaymentEventType = "payment"
)

var minPledgeAmount = decimal.NewFromInt(1)

// PledgeInput — данные новой поддержки. Цель не более одной.
type PledgeInput struct {
	RecipientID   string          `json:"recipient_id"`
	AddictionID   *string         `json:"addiction_id"`
	GoalID        *string         `json:"goal_id"`
	Message       string          `json:"message"`
	DurationDays  int             `json:"duration_days"`
	Amount        decimal.Decimal `json:"amount"`
	SupporterName *string         `json:"supporter_name"`
	HideAmount    bool            `json:"hide_amount"`
}

// PledgeCheckout — ссылка на оплату созданной поддержки.
type PledgeCheckout struct {
	SupportID    string `json:"support_id"`
	PreferenceID string `json:"preference_id,omitempty"`
	InitPoint    string `json:"init_point,omitempty"`
}

// WebhookOutcome — итог обработки уведомления шлюза.
type WebhookOutcome string

const (
	WebhookIgnored          WebhookOutcome = "ignored"
	WebhookCompleted        WebhookOutcome = "completed"
	WebhookAlreadyCompleted WebhookOutcome = "already_completed"
	WebhookFailed           WebhookOutcome = "failed"
	WebhookUnchanged        WebhookOutcome = "unchanged"
	WebhookStillPending     WebhookOutcome = "pending"
	WebhookUnknownReference WebhookOutcome = "unknown_reference"
)

// WebhookResult — исход и затронутая поддержка (если найдена).
type WebhookResult struct {
	Outcome   WebhookOutcome
	SupportID string
}

// RedirectOutcome — страница, на которую шлюз вернул плательщика.
type RedirectOutcome string

const (
	RedirectSuccess RedirectOutcome = "success"
	RedirectFailure RedirectOutcome = "failure"
	RedirectPending RedirectOutcome = "pending"
)

// PublicSupport — поддержка в публичном списке; Amount nil, если скрыта.
type PublicSupport struct {
	ID            string           `json:"id"`
	SupporterName string           `json:"supporter_name"`
	Message       string           `json:"message"`
	DurationDays  int              `json:"duration_days"`
	Amount        *decimal.Decimal `json:"amount"`
	TargetKind    *model.ItemKind  `json:"target_kind"`
	TargetItemID  *string          `json:"target_item_id"`
	Completed     bool             `json:"completed"`
	CreatedAt     time.Time        `json:"created_at"`
}

// SupportService — создание поддержки и сверка статуса оплаты.
type SupportService struct {
	users     repo.UserRepository
	items     repo.TrackerRepository
	supports  repo.SupportRepository
	gateway   payment.Gateway
	publicURL string
	log       *zap.SugaredLogger
}

func NewSupportService(
	users repo.UserRepository,
	items repo.TrackerRepository,
	supports repo.SupportRepository,
	gateway payment.Gateway,
	publicURL string,
	logger *zap.SugaredLogger,
) *SupportService {
	return &SupportService{
		users:     users,
		items:     items,
		supports:  supports,
		gateway:   gateway,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       logger,
	}
}

func (in *PledgeInput) normalize() error {
	in.Message = strings.TrimSpace(in.Message)
	if n := utf8.RuneCountInString(in.Message); n < 1 || n > 280 {
		return invalid("message must have 1 to 280 characters")
	}
	if in.DurationDays < 1 || in.DurationDays > 365 {
		return invalid("duration_days must be between 1 and 365")
	}
	if in.Amount.LessThan(minPledgeAmount) {
		return invalid("amount must be at least %s", minPledgeAmount)
	}
	in.Amount = in.Amount.Round(2)
	if in.AddictionID != nil && *in.AddictionID == "" {
		in.AddictionID = nil
	}
	if in.GoalID != nil && *in.GoalID == "" {
		in.GoalID = nil
	}
	if in.AddictionID != nil && in.GoalID != nil {
		return invalid("a support may target at most one item")
	}
	if in.SupporterName != nil {
		name := strings.TrimSpace(*in.SupporterName)
		if utf8.RuneCountInString(name) > 100 {
			return invalid("supporter_name must have at most 100 characters")
		}
		if name == "" {
			in.SupporterName = nil
		} else {
			in.SupporterName = &name
		}
	}
	return nil
}

// checkTarget проверяет, что цель поддержки существует и принадлежит получателю.
func (s *SupportService) checkTarget(ctx context.Context, in PledgeInput) (*model.ItemKind, *string, error) {
	var (
		kind  model.ItemKind
		id    string
		owner string
		err   error
	)
	switch {
	case in.AddictionID != nil:
		kind, id = model.KindAddiction, *in.AddictionID
		var a *model.Addiction
		if a, err = s.items.GetAddiction(ctx, id); err == nil {
			owner = a.UserID
		}
	case in.GoalID != nil:
		kind, id = model.KindGoal, *in.GoalID
		var g *model.Goal
		if g, err = s.items.GetGoal(ctx, id); err == nil {
			owner = g.UserID
		}
	default:
		return nil, nil, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, invalid("%s %s does not exist", kind, id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get target: %w", err)
	}
	if owner != in.RecipientID {
		return nil, nil, invalid("%s %s does not belong to the recipient", kind, id)
	}
	return &kind, &id, nil
}

// CreatePledge сохраняет поддержку в pending и запрашивает у шлюза платёжную сессию.
// При ошибке шлюза поддержка остаётся pending без ссылки, вместе с ErrPaymentGateway
// возвращается её id.
func (s *SupportService) CreatePledge(ctx context.Context, in PledgeInput, requesterID string) (*PledgeCheckout, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	recipient, err := s.users.GetUserByID(ctx, in.RecipientID)
	if err != nil {
		return nil, lookupErr("recipient", err)
	}
	kind, itemID, err := s.checkTarget(ctx, in)
	if err != nil {
		return nil, err
	}

	sup := &model.Support{
		ID:            uuid.NewString(),
		RecipientID:   recipient.ID,
		TargetKind:    kind,
		TargetItemID:  itemID,
		Message:       in.Message,
		DurationDays:  in.DurationDays,
		Amount:        in.Amount,
		SupporterName: in.SupporterName,
		HideAmount:    in.HideAmount,
		PaymentStatus: model.PaymentPending,
	}
	payerEmail := ""
	if requesterID != "" {
		sup.SupporterID = &requesterID
		if u, err := s.users.GetUserByID(ctx, requesterID); err == nil {
			payerEmail = u.Login
		}
	}
	if err := s.supports.Create(ctx, sup); err != nil {
		return nil, fmt.Errorf("create support: %w", err)
	}
	metrics.Pledges.WithLabelValues(metrics.PledgeCreated).Inc()
	s.log.Infow("support created", "support_id", sup.ID, "recipient_id", sup.RecipientID, "amount", sup.Amount.StringFixed(2))

	return s.checkout(ctx, sup, recipient, payerEmail)
}

// RetryPledgePayment повторяет запрос платёжной сессии для pending-поддержки без ссылки.
func (s *SupportService) RetryPledgePayment(ctx context.Context, supportID string) (*PledgeCheckout, error) {
	sup, err := s.supports.GetByID(ctx, supportID)
	if err != nil {
		return nil, lookupErr("support", err)
	}
	if sup.PaymentStatus != model.PaymentPending {
		return nil, invalid("support is already %s", sup.PaymentStatus)
	}
	if sup.PaymentReferenceID != nil {
		return nil, invalid("support already has a payment reference")
	}
	recipient, err := s.users.GetUserByID(ctx, sup.RecipientID)
	if err != nil {
		return nil, lookupErr("recipient", err)
	}
	payerEmail := ""
	if sup.SupporterID != nil {
		if u, err := s.users.GetUserByID(ctx, *sup.SupporterID); err == nil {
			payerEmail = u.Login
		}
	}
	return s.checkout(ctx, sup, recipient, payerEmail)
}

func (s *SupportService) checkout(ctx context.Context, sup *model.Support, recipient *model.User, payerEmail string) (*PledgeCheckout, error) {
	out := &PledgeCheckout{SupportID: sup.ID}

	pref, err := s.gateway.CreatePreference(ctx, s.preferenceRequest(sup, recipient, payerEmail))
	if err != nil {
		metrics.Pledges.WithLabelValues(metrics.PledgeGatewayError).Inc()
		s.log.Errorw("payment preference failed", "support_id", sup.ID, "error", err)
		return out, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	ok, err := s.supports.SetPaymentReference(ctx, sup.ID, pref.ID)
	if err != nil {
		return out, fmt.Errorf("store payment reference: %w", err)
	}
	if !ok {
		return out, invalid("support is no longer awaiting a payment reference")
	}
	out.PreferenceID = pref.ID
	out.InitPoint = pref.InitPoint
	return out, nil
}

func (s *SupportService) preferenceRequest(sup *model.Support, recipient *model.User, payerEmail string) payment.PreferenceRequest {
	payerName := anonymousPayerName
	if sup.SupporterName != nil {
		payerName = *sup.SupporterName
	}
	back := func(page RedirectOutcome) string {
		return s.publicURL + "/payment/" + string(page) + "?support_id=" + url.QueryEscape(sup.ID)
	}
	return payment.PreferenceRequest{
		Items: []payment.Item{{
			ID:          sup.ID,
			Title:       "Apoio para " + recipient.Name,
			Description: fmt.Sprintf("Apoio de %d dias para %s", sup.DurationDays, recipient.Username),
			Quantity:    1,
			UnitPrice:   sup.Amount,
			CurrencyID:  currencyBRL,
		}},
		Payer: payment.Payer{Name: payerName, Email: payerEmail},
		BackURLs: payment.BackURLs{
			Success: back(RedirectSuccess),
			Failure: back(RedirectFailure),
			Pending: back(RedirectPending),
		},
		AutoReturn:        payment.AutoReturnApproved,
		ExternalReference: sup.ID,
		NotificationURL:   s.publicURL + "/api/mercadopago/webhook",
	}
}

// ReconcileByWebhook применяет уведомление шлюза. Повторная доставка ничего не меняет.
func (s *SupportService) ReconcileByWebhook(ctx context.Context, eventType, paymentID string) (WebhookResult, error) {
	if eventType != PaymentEventType {
		return WebhookResult{Outcome: WebhookIgnored}, nil
	}
	if paymentID == "" {
		return WebhookResult{}, invalid("notification without data.id")
	}

	sup, err := s.supports.GetByReference(ctx, paymentID)
	switch {
	case err == nil:
		return s.completeByReference(ctx, sup, paymentID)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.reconcileByLookup(ctx, paymentID)
	default:
		return WebhookResult{}, fmt.Errorf("get support by reference: %w", err)
	}
}

func (s *SupportService) completeByReference(ctx context.Context, sup *model.Support, ref string) (WebhookResult, error) {
	res := WebhookResult{SupportID: sup.ID}
	ok, err := s.supports.CompleteByReference(ctx, ref)
	if err != nil {
		return res, fmt.Errorf("complete support: %w", err)
	}
	if ok {
		metrics.Pledges.WithLabelValues(metrics.PledgeCompleted).Inc()
		s.log.Infow("support payment completed", "support_id", sup.ID, "reference", ref)
		res.Outcome = WebhookCompleted
		return res, nil
	}
	res.Outcome = terminalOutcome(ctx, s.supports, sup.ID)
	return res, nil
}

// reconcileByLookup находит поддержку через платёж в шлюзе (external_reference = id поддержки).
func (s *SupportService) reconcileByLookup(ctx context.Context, paymentID string) (WebhookResult, error) {
	info, err := s.gateway.GetPayment(ctx, paymentID)
	if errors.Is(err, payment.ErrNotConfigured) {
		s.log.Warnw("webhook for unknown reference", "payment_id", paymentID)
		return WebhookResult{Outcome: WebhookUnknownReference}, nil
	}
	if errors.Is(err, payment.ErrInvalidPaymentID) {
		s.log.Warnw("webhook with malformed payment id", "payment_id", paymentID, "error", err)
		return WebhookResult{Outcome: WebhookUnknownReference}, nil
	}
	if err != nil {
		return WebhookResult{}, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	if info.ExternalReference == "" {
		s.log.Warnw("payment without external reference", "payment_id", paymentID)
		return WebhookResult{Outcome: WebhookUnknownReference}, nil
	}
	sup, err := s.supports.GetByID(ctx, info.ExternalReference)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Warnw("payment references unknown support", "payment_id", paymentID, "support_id", info.ExternalReference)
		return WebhookResult{Outcome: WebhookUnknownReference}, nil
	}
	if err != nil {
		return WebhookResult{}, fmt.Errorf("get support: %w", err)
	}

	res := WebhookResult{SupportID: sup.ID}
	var to model.PaymentStatus
	switch info.Status {
	case payment.StatusApproved:
		to = model.PaymentCompleted
	case payment.StatusRejected, payment.StatusCancelled:
		to = model.PaymentFailed
	default:
		res.Outcome = WebhookStillPending
		return res, nil
	}
	ok, err := s.supports.Transition(ctx, sup.ID, to)
	if err != nil {
		return res, fmt.Errorf("update support status: %w", err)
	}
	if !ok {
		res.Outcome = terminalOutcome(ctx, s.supports, sup.ID)
		return res, nil
	}
	s.log.Infow("support payment reconciled", "support_id", sup.ID, "payment_id", paymentID, "status", to)
	if to == model.PaymentCompleted {
		metrics.Pledges.WithLabelValues(metrics.PledgeCompleted).Inc()
		res.Outcome = WebhookCompleted
	} else {
		metrics.Pledges.WithLabelValues(metrics.PledgeFailed).Inc()
		res.Outcome = WebhookFailed
	}
	return res, nil
}

func terminalOutcome(ctx context.Context, supports repo.SupportRepository, id string) WebhookOutcome {
	cur, err := supports.GetByID(ctx, id)
	if err == nil && cur.PaymentStatus == model.PaymentCompleted {
		return WebhookAlreadyCompleted
	}
	return WebhookUnchanged
}

// ReconcileByRedirect обрабатывает возврат плательщика. Только failure меняет статус;
// success не подтверждает оплату, это делает уведомление.
func (s *SupportService) ReconcileByRedirect(ctx context.Context, supportID string, outcome RedirectOutcome) (*model.Support, error) {
	switch outcome {
	case RedirectSuccess, RedirectFailure, RedirectPending:
	default:
		return nil, invalid("unknown redirect outcome %q", outcome)
	}
	if supportID == "" {
		return nil, invalid("support_id is required")
	}
	sup, err := s.supports.GetByID(ctx, supportID)
	if err != nil {
		return nil, lookupErr("support", err)
	}
	if outcome != RedirectFailure {
		return sup, nil
	}

	ok, err := s.supports.Transition(ctx, supportID, model.PaymentFailed)
	if err != nil {
		return nil, fmt.Errorf("fail support: %w", err)
	}
	if !ok {
		return sup, nil
	}
	metrics.Pledges.WithLabelValues(metrics.PledgeFailed).Inc()
	s.log.Infow("support payment failed by redirect", "support_id", supportID)
	sup.PaymentStatus = model.PaymentFailed
	return sup, nil
}

// ListPublicSupports — оплаченные поддержки получателя, сумма скрыта по правилу AmountVisible.
func (s *SupportService) ListPublicSupports(ctx context.Context, recipientID string) ([]PublicSupport, error) {
	list, err := s.supports.ListByRecipient(ctx, recipientID, model.PaymentCompleted)
	if err != nil {
		return nil, fmt.Errorf("list supports: %w", err)
	}
	out := make([]PublicSupport, 0, len(list))
	for i := range list {
		out = append(out, publicView(&list[i]))
	}
	return out, nil
}

func publicView(sup *model.Support) PublicSupport {
	v := PublicSupport{
		ID:            sup.ID,
		SupporterName: anonymousPayerName,
		Message:       sup.Message,
		DurationDays:  sup.DurationDays,
		TargetKind:    sup.TargetKind,
		TargetItemID:  sup.TargetItemID,
		Completed:     sup.Completed,
		CreatedAt:     sup.CreatedAt,
	}
	if sup.SupporterName != nil {
		v.SupporterName = *sup.SupporterName
	}
	if sup.AmountVisible() {
		amount := sup.Amount
		v.Amount = &amount
	}
	return v
}

// ListReceivedSupports — все поддержки пользователя как получателя, с отправителем и элементом.
func (s *SupportService) ListReceivedSupports(ctx context.Context, userID string) ([]model.SupportDetail, error) {
	list, err := s.supports.ListReceived(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list received supports: %w", err)
	}
	return list, nil
}

// ListSentSupports — поддержки, отправленные пользователем, с получателем и элементом.
func (s *SupportService) ListSentSupports(ctx context.Context, userID string) ([]model.SupportDetail, error) {
	list, err := s.supports.ListSent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sent supports: %w", err)
	}
	return list, nil
}
