// Package mercadopago — адаптер payment.Gateway поверх официального SDK Mercado Pago.
package mercadopago

import (
	"VitoriaDiaria/internal/payment"
	"context"
	"fmt"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

var _ payment.Gateway = (*Client)(nil)

// Client реализует payment.Gateway.
type Client struct {
	preferences preference.Client
	payments    mppayment.Client
}

// New создаёт клиент по токену доступа.
func New(accessToken string) (*Client, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &Client{
		preferences: preference.NewClient(cfg),
		payments:    mppayment.NewClient(cfg),
	}, nil
}

func (c *Client) CreatePreference(ctx context.Context, req payment.PreferenceRequest) (*payment.Preference, error) {
	items := make([]preference.ItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, preference.ItemRequest{
			ID:          it.ID,
			Title:       it.Title,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.InexactFloat64(),
			CurrencyID:  it.CurrencyID,
		})
	}

	resp, err := c.preferences.Create(ctx, preference.Request{
		Items: items,
		Payer: &preference.PayerRequest{
			Name:  req.Payer.Name,
			Email: req.Payer.Email,
		},
		BackURLs: &preference.BackURLsRequest{
			Success: req.BackURLs.Success,
			Failure: req.BackURLs.Failure,
			Pending: req.BackURLs.Pending,
		},
		AutoReturn:        req.AutoReturn,
		ExternalReference: req.ExternalReference,
		NotificationURL:   req.NotificationURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create preference: %w", err)
	}
	return &payment.Preference{ID: resp.ID, InitPoint: resp.InitPoint}, nil
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (*payment.PaymentInfo, error) {
	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", payment.ErrInvalidPaymentID, paymentID, err)
	}
	resp, err := c.payments.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &payment.PaymentInfo{
		ID:                strconv.Itoa(resp.ID),
		Status:            resp.Status,
		ExternalReference: resp.ExternalReference,
	}, nil
}
