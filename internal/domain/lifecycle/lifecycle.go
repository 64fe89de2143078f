// Package lifecycle holds the status machines for donations and offers.
//
// Both enums are closed sets with an explicit transition table. Handlers
// call CheckDonation / CheckOffer before writing a new status so that an
// illegal move (for example rejected -> approved) is refused at the
// boundary instead of being persisted. A same-state write is always a
// no-op and never an error.
package lifecycle

import (
	"errors"
	"strings"
)

var (
	// ErrIllegalTransition is returned when the table does not allow from -> to.
	ErrIllegalTransition = errors.New("illegal status transition")
	// ErrUnknownStatus is returned for values outside the enum.
	ErrUnknownStatus = errors.New("unknown status")
	// ErrAlreadyPaid is returned when an offer that is already paid is converted again.
	ErrAlreadyPaid = errors.New("offer is already paid")
	// ErrConversionOnly is returned when a caller tries to set an offer to
	// paid directly. Only mark-paid may do that, because it also creates
	// the donation.
	ErrConversionOnly = errors.New("offers become paid only through mark-paid")
)

/*─────────────────────────────────────────────────────────────────────────────*
| Donations                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// DonationStatus is the state of a donation.
type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationApproved  DonationStatus = "approved"
	DonationRejected  DonationStatus = "rejected"
	DonationCompleted DonationStatus = "Completed"
)

var donationNext = map[DonationStatus][]DonationStatus{
	DonationPending:   {DonationApproved, DonationRejected},
	DonationApproved:  {DonationCompleted},
	DonationRejected:  nil,
	DonationCompleted: nil,
}

// DonationStatuses lists every donation status in table order.
func DonationStatuses() []DonationStatus {
	return []DonationStatus{DonationPending, DonationApproved, DonationRejected, DonationCompleted}
}

// Valid reports whether s is a member of the enum.
func (s DonationStatus) Valid() bool {
	_, ok := donationNext[s]
	return ok
}

// Terminal reports whether no transition leaves s.
func (s DonationStatus) Terminal() bool {
	return s.Valid() && len(donationNext[s]) == 0
}

// Next returns the statuses reachable from s in one step.
func (s DonationStatus) Next() []DonationStatus {
	return append([]DonationStatus(nil), donationNext[s]...)
}

// ParseDonationStatus maps user input onto the enum. Matching ignores case
// and surrounding space, so "completed" resolves to "Completed".
func ParseDonationStatus(v string) (DonationStatus, error) {
	v = strings.TrimSpace(v)
	for _, s := range DonationStatuses() {
		if strings.EqualFold(string(s), v) {
			return s, nil
		}
	}
	return "", ErrUnknownStatus
}

// InitialDonationStatus is the status a new donation starts in. Gateway
// payments are already settled by the time they are recorded, so they
// start approved; everything else waits for an admin.
func InitialDonationStatus(paymentMethod string) DonationStatus {
	if paymentMethod == PaymentRazorpay {
		return DonationApproved
	}
	return DonationPending
}

// CheckDonation validates a donation status change. With override set an
// illegal transition is allowed; the caller is expected to audit it.
func CheckDonation(from, to DonationStatus, override bool) error {
	if !from.Valid() || !to.Valid() {
		return ErrUnknownStatus
	}
	if from == to {
		return nil
	}
	for _, n := range donationNext[from] {
		if n == to {
			return nil
		}
	}
	if override {
		return nil
	}
	return ErrIllegalTransition
}

/*─────────────────────────────────────────────────────────────────────────────*
| Offers                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// OfferStatus is the state of a pledged offer.
type OfferStatus string

const (
	OfferUnpaid    OfferStatus = "unpaid"
	OfferPaid      OfferStatus = "paid"
	OfferCompleted OfferStatus = "Completed"
)

var offerNext = map[OfferStatus][]OfferStatus{
	OfferUnpaid:    {OfferPaid, OfferCompleted},
	OfferPaid:      {OfferCompleted},
	OfferCompleted: nil,
}

// OfferStatuses lists every offer status in table order.
func OfferStatuses() []OfferStatus {
	return []OfferStatus{OfferUnpaid, OfferPaid, OfferCompleted}
}

// Valid reports whether s is a member of the enum.
func (s OfferStatus) Valid() bool {
	_, ok := offerNext[s]
	return ok
}

// ParseOfferStatus maps user input onto the enum, ignoring case.
func ParseOfferStatus(v string) (OfferStatus, error) {
	v = strings.TrimSpace(v)
	for _, s := range OfferStatuses() {
		if strings.EqualFold(string(s), v) {
			return s, nil
		}
	}
	return "", ErrUnknownStatus
}

// CheckOffer validates an offer status change made by anything other than
// mark-paid.
func CheckOffer(from, to OfferStatus) error {
	if !from.Valid() || !to.Valid() {
		return ErrUnknownStatus
	}
	if from == to {
		return nil
	}
	if to == OfferPaid {
		return ErrConversionOnly
	}
	for _, n := range offerNext[from] {
		if n == to {
			return nil
		}
	}
	return ErrIllegalTransition
}

// CheckConversion reports whether an offer in status from may be converted
// into a donation.
func CheckConversion(from OfferStatus) error {
	switch from {
	case OfferUnpaid:
		return nil
	case OfferPaid:
		return ErrAlreadyPaid
	case OfferCompleted:
		return ErrIllegalTransition
	default:
		return ErrUnknownStatus
	}
}
