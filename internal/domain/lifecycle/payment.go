package lifecycle

// Payment methods accepted on a donation.
const (
	PaymentRazorpay     = "Razorpay"
	PaymentGPay         = "GPay"
	PaymentCash         = "Cash"
	PaymentBankTransfer = "Bank Transfer"
	PaymentByHand       = "by_hand"
)

// PaymentMethods returns the accepted payment methods.
func PaymentMethods() []string {
	return []string{PaymentRazorpay, PaymentGPay, PaymentCash, PaymentBankTransfer, PaymentByHand}
}

// IsPaymentMethod reports whether m is one of PaymentMethods. The match is exact.
func IsPaymentMethod(m string) bool {
	for _, p := range PaymentMethods() {
		if p == m {
			return true
		}
	}
	return false
}
