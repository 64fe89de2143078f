package payments

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Fake is an in-memory Gateway for tests. It signs with Secret exactly
// like the real gateway, so tests can produce valid signatures with Sign.
type Fake struct {
	Secret string
	Err    error // returned by CreateOrder when set

	mu       sync.Mutex
	Orders   []Order
	payments map[string]Payment
}

// NewFake returns a Fake signing with secret.
func NewFake(secret string) *Fake { return &Fake{Secret: secret} }

func (f *Fake) KeyID() string { return "rzp_test_fake" }

func (f *Fake) CreateOrder(_ context.Context, amount float64, currency string, _ map[string]string) (Order, error) {
	if f.Err != nil {
		return Order{}, f.Err
	}
	if amount <= 0 {
		return Order{}, ErrInvalidAmount
	}
	o := Order{
		ID:       "order_" + uuid.NewString()[:14],
		Amount:   ToMinorUnits(amount),
		Currency: currency,
		Receipt:  NewReceiptID(),
	}
	f.mu.Lock()
	f.Orders = append(f.Orders, o)
	f.mu.Unlock()
	return o, nil
}

func (f *Fake) VerifySignature(orderID, paymentID, signature string) error {
	return verify(orderID, paymentID, signature, f.Secret)
}

// Capture records a settled payment for a previously created order and
// returns its id, the way a completed checkout would.
func (f *Fake) Capture(orderID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := Payment{ID: "pay_" + uuid.NewString()[:14], OrderID: orderID, Status: StatusCaptured}
	for _, o := range f.Orders {
		if o.ID == orderID {
			p.Amount = o.Amount
			p.Currency = o.Currency
		}
	}
	f.setPayment(p)
	return p.ID
}

// SetPayment stores p as the gateway's record for p.ID.
func (f *Fake) SetPayment(p Payment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setPayment(p)
}

func (f *Fake) setPayment(p Payment) {
	if f.payments == nil {
		f.payments = map[string]Payment{}
	}
	f.payments[p.ID] = p
}

func (f *Fake) FetchPayment(_ context.Context, paymentID string) (Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[paymentID]
	if !ok {
		return Payment{}, ErrPaymentNotFound
	}
	return p, nil
}
