// Package payments integrates the Razorpay payment gateway: order creation
// ahead of checkout and webhook verification after the customer pays.
package payments

import (
	"context"
	"encoding/json"
	"math"

	goerrors "github.com/goliatone/go-errors"
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"

	shop "github.com/goliatone/go-shop"
)

// ErrInvalidSignature is returned when a webhook payload fails HMAC
// verification. Unverified payloads must never touch an order.
var ErrInvalidSignature = goerrors.New("webhook signature verification failed", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode("INVALID_SIGNATURE")

// Config holds the gateway credentials
type Config struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	// Currency defaults to INR, the only currency the storefront charges in
	Currency string
}

// GatewayOrder is the gateway-side order the frontend checkout needs.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// PaymentDetails carries the fields a captured-payment webhook reports.
type PaymentDetails struct {
	GatewayOrderID   string
	Method           string
	Email            string
	UPITransactionID string
}

// Gateway wraps the Razorpay client.
type Gateway struct {
	client *razorpay.Client
	cfg    Config
	logger shop.Logger
}

// NewGateway returns a gateway bound to the given credentials.
func NewGateway(cfg Config) (*Gateway, error) {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, goerrors.New("payment gateway requires key id and secret", goerrors.CategoryBadInput)
	}
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}

	return &Gateway{
		client: razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		cfg:    cfg,
		logger: shop.DefaultLogger(),
	}, nil
}

// WithLogger overrides the default logger
func (g *Gateway) WithLogger(logger shop.Logger) *Gateway {
	g.logger = logger
	return g
}

// CreateOrder registers the amount with the gateway before checkout. The
// amount is taken in rupees and sent in paise, the smallest currency unit.
func (g *Gateway) CreateOrder(ctx context.Context, amount float64, receipt string) (*GatewayOrder, error) {
	data := map[string]any{
		"amount":   AmountToPaise(amount),
		"currency": g.cfg.Currency,
		"receipt":  receipt,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to create gateway order").
			WithMetadata(map[string]any{"receipt": receipt})
	}

	order := &GatewayOrder{
		Currency: g.cfg.Currency,
		Receipt:  receipt,
	}
	if id, ok := body["id"].(string); ok {
		order.ID = id
	}
	if amt, ok := body["amount"].(float64); ok {
		order.Amount = int64(amt)
	}

	if order.ID == "" {
		return nil, goerrors.New("gateway order response missing id", goerrors.CategoryOperation)
	}

	g.logger.Debug("gateway order created id=%s receipt=%s", order.ID, receipt)

	return order, nil
}

// VerifyWebhook checks the payload HMAC against the webhook secret and
// decodes the captured payment. Callers must reject the request when this
// returns an error.
func (g *Gateway) VerifyWebhook(body []byte, signature string) (*PaymentDetails, error) {
	if signature == "" || !utils.VerifyWebhookSignature(string(body), signature, g.cfg.WebhookSecret) {
		return nil, ErrInvalidSignature
	}

	return ParseWebhookPayment(body)
}

// webhookEvent mirrors the slice of the Razorpay webhook envelope we need
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				OrderID      string `json:"order_id"`
				Method       string `json:"method"`
				Email        string `json:"email"`
				AcquirerData struct {
					UPITransactionID string `json:"upi_transaction_id"`
				} `json:"acquirer_data"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// ParseWebhookPayment extracts the payment fields from a webhook body.
func ParseWebhookPayment(body []byte) (*PaymentDetails, error) {
	event := webhookEvent{}
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to decode webhook payload")
	}

	entity := event.Payload.Payment.Entity
	if entity.OrderID == "" {
		return nil, goerrors.New("webhook payload missing order id", goerrors.CategoryBadInput)
	}

	return &PaymentDetails{
		GatewayOrderID:   entity.OrderID,
		Method:           entity.Method,
		Email:            entity.Email,
		UPITransactionID: entity.AcquirerData.UPITransactionID,
	}, nil
}

// AmountToPaise converts rupees to paise, rounding to the nearest unit.
func AmountToPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
