// Package payments talks to the online payment gateway.
package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
)

var (
	// ErrNotConfigured is returned when no gateway keys are set.
	ErrNotConfigured = errors.New("payments: gateway not configured")
	// ErrBadSignature is returned when a checkout signature does not verify.
	ErrBadSignature = errors.New("payments: signature mismatch")
	// ErrInvalidAmount is returned for a non-positive amount.
	ErrInvalidAmount = errors.New("payments: amount must be positive")
	// ErrPaymentNotFound is returned when the gateway has no such payment.
	ErrPaymentNotFound = errors.New("payments: payment not found")
	// ErrPaymentMismatch is returned when a payment belongs to another
	// order or was taken in another currency.
	ErrPaymentMismatch = errors.New("payments: payment does not match order")
	// ErrNotCaptured is returned for a payment the gateway has not settled.
	ErrNotCaptured = errors.New("payments: payment not captured")
)

// StatusCaptured is the gateway status of a settled payment.
const StatusCaptured = "captured"

// Order is a gateway order the client completes at checkout.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units (paise)
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// Payment is the gateway's record of a checkout payment.
type Payment struct {
	ID       string
	OrderID  string
	Amount   int64 // minor units (paise)
	Currency string
	Status   string
}

// Major returns the amount in currency units.
func (p Payment) Major() float64 { return float64(p.Amount) / 100 }

// Gateway creates orders and verifies completed checkouts.
type Gateway interface {
	CreateOrder(ctx context.Context, amount float64, currency string, notes map[string]string) (Order, error)
	VerifySignature(orderID, paymentID, signature string) error
	FetchPayment(ctx context.Context, paymentID string) (Payment, error)
	KeyID() string
}

// CheckPayment reports whether p settles orderID in currency. The amount
// recorded for a donation is always p's, never the client's.
func CheckPayment(p Payment, orderID, currency string) error {
	if p.OrderID != orderID || !strings.EqualFold(p.Currency, currency) {
		return ErrPaymentMismatch
	}
	if p.Status != StatusCaptured {
		return ErrNotCaptured
	}
	if p.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ToMinorUnits converts an amount to paise, rounding to the nearest unit.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// NewReceiptID returns a gateway receipt reference.
func NewReceiptID() string {
	return "rcpt_" + uuid.NewString()
}

// Sign computes the checkout signature for orderID and paymentID.
func Sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func verify(orderID, paymentID, signature, secret string) error {
	if secret == "" {
		return ErrNotConfigured
	}
	want := Sign(orderID, paymentID, secret)
	if !hmac.Equal([]byte(want), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}

// Razorpay is the Razorpay-backed Gateway.
type Razorpay struct {
	keyID     string
	keySecret string
	client    *razorpay.Client
}

// NewRazorpay builds a gateway from API keys. It returns ErrNotConfigured
// when either key is empty.
func NewRazorpay(keyID, keySecret string) (*Razorpay, error) {
	if keyID == "" || keySecret == "" {
		return nil, ErrNotConfigured
	}
	return &Razorpay{
		keyID:     keyID,
		keySecret: keySecret,
		client:    razorpay.NewClient(keyID, keySecret),
	}, nil
}

// KeyID is the public key the checkout widget needs.
func (g *Razorpay) KeyID() string { return g.keyID }

// CreateOrder creates a gateway order. The razorpay client has no context
// support; ctx is checked before the call only.
func (g *Razorpay) CreateOrder(ctx context.Context, amount float64, currency string, notes map[string]string) (Order, error) {
	if amount <= 0 {
		return Order{}, ErrInvalidAmount
	}
	if err := ctx.Err(); err != nil {
		return Order{}, err
	}

	o := Order{
		Amount:   ToMinorUnits(amount),
		Currency: currency,
		Receipt:  NewReceiptID(),
	}
	data := map[string]interface{}{
		"amount":          o.Amount,
		"currency":        o.Currency,
		"receipt":         o.Receipt,
		"payment_capture": 1,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return Order{}, fmt.Errorf("payments: create order: %w", err)
	}
	id, _ := body["id"].(string)
	if id == "" {
		return Order{}, errors.New("payments: create order: response missing id")
	}
	o.ID = id
	return o, nil
}

// VerifySignature checks a checkout signature in constant time.
func (g *Razorpay) VerifySignature(orderID, paymentID, signature string) error {
	return verify(orderID, paymentID, signature, g.keySecret)
}

// FetchPayment loads a payment from the gateway.
func (g *Razorpay) FetchPayment(ctx context.Context, paymentID string) (Payment, error) {
	if err := ctx.Err(); err != nil {
		return Payment{}, err
	}
	body, err := g.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return Payment{}, fmt.Errorf("payments: fetch payment: %w", err)
	}
	p := Payment{
		ID:       stringField(body, "id"),
		OrderID:  stringField(body, "order_id"),
		Currency: stringField(body, "currency"),
		Status:   stringField(body, "status"),
	}
	if p.ID == "" {
		return Payment{}, ErrPaymentNotFound
	}
	// JSON numbers decode as float64.
	if amt, ok := body["amount"].(float64); ok {
		p.Amount = int64(math.Round(amt))
	}
	return p, nil
}

func stringField(m map[string]interface{}, key string) string {
	v, _ := m[key].(string)
	return v
}
