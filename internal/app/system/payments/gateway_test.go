package payments

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{500, 50000},
		{0.1, 10},
		{19.99, 1999},
		{2.5, 250},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToMinorUnits(tt.in), "ToMinorUnits(%v)", tt.in)
	}
}

func TestSignAndVerify(t *testing.T) {
	sig := Sign("order_1", "pay_1", "secret")
	assert.Len(t, sig, 64)

	assert.NoError(t, verify("order_1", "pay_1", sig, "secret"))
	assert.ErrorIs(t, verify("order_1", "pay_2", sig, "secret"), ErrBadSignature)
	assert.ErrorIs(t, verify("order_1", "pay_1", sig, "other"), ErrBadSignature)
	assert.ErrorIs(t, verify("order_1", "pay_1", "", "secret"), ErrBadSignature)
	assert.ErrorIs(t, verify("order_1", "pay_1", sig, ""), ErrNotConfigured)
}

func TestNewRazorpay_RequiresBothKeys(t *testing.T) {
	_, err := NewRazorpay("", "secret")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = NewRazorpay("key", "")
	assert.ErrorIs(t, err, ErrNotConfigured)

	g, err := NewRazorpay("key", "secret")
	require.NoError(t, err)
	assert.Equal(t, "key", g.KeyID())
}

func TestRazorpay_CreateOrderRejectsBadAmount(t *testing.T) {
	g, err := NewRazorpay("key", "secret")
	require.NoError(t, err)
	_, err = g.CreateOrder(context.Background(), 0, "INR", nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestFake(t *testing.T) {
	f := NewFake("s3cret")
	o, err := f.CreateOrder(context.Background(), 250, "INR", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(25000), o.Amount)
	assert.True(t, strings.HasPrefix(o.Receipt, "rcpt_"))
	assert.Len(t, f.Orders, 1)

	assert.NoError(t, f.VerifySignature(o.ID, "pay_9", Sign(o.ID, "pay_9", "s3cret")))
	assert.ErrorIs(t, f.VerifySignature(o.ID, "pay_9", "bogus"), ErrBadSignature)
}

// Compile-time interface checks.
var (
	_ Gateway = (*Razorpay)(nil)
	_ Gateway = (*Fake)(nil)
)

func TestCheckPayment(t *testing.T) {
	good := Payment{ID: "pay_1", OrderID: "order_1", Amount: 50000, Currency: "INR", Status: StatusCaptured}

	tests := []struct {
		name   string
		mutate func(*Payment)
		want   error
	}{
		{"captured for the order", func(*Payment) {}, nil},
		{"currency case ignored", func(p *Payment) { p.Currency = "inr" }, nil},
		{"other order", func(p *Payment) { p.OrderID = "order_2" }, ErrPaymentMismatch},
		{"other currency", func(p *Payment) { p.Currency = "USD" }, ErrPaymentMismatch},
		{"only authorized", func(p *Payment) { p.Status = "authorized" }, ErrNotCaptured},
		{"failed", func(p *Payment) { p.Status = "failed" }, ErrNotCaptured},
		{"zero amount", func(p *Payment) { p.Amount = 0 }, ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := good
			tt.mutate(&p)
			err := CheckPayment(p, "order_1", "INR")
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFake_CaptureAndFetch(t *testing.T) {
	f := NewFake("s3cret")
	o, err := f.CreateOrder(context.Background(), 120.25, "INR", nil)
	require.NoError(t, err)

	payID := f.Capture(o.ID)
	p, err := f.FetchPayment(context.Background(), payID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, p.OrderID)
	assert.Equal(t, int64(12025), p.Amount)
	assert.Equal(t, 120.25, p.Major())
	assert.NoError(t, CheckPayment(p, o.ID, "INR"))

	_, err = f.FetchPayment(context.Background(), "pay_missing")
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}
