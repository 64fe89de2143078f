package donations

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/dalemusser/donorhub/internal/app/features/shared"
	donationstore "github.com/dalemusser/donorhub/internal/app/store/donations"
	"github.com/dalemusser/donorhub/internal/app/system/receipt"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeReceipt streams the PDF receipt for one donation.
// GET /api/donations/receipt/{donationId}
func (h *Handler) ServeReceipt(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, r, receipt.LayoutReceipt)
}

// ServeCertificate streams the landscape certificate for one donation.
// GET /api/donations/certificate/{donationId}
func (h *Handler) ServeCertificate(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, r, receipt.LayoutCertificate)
}

func (h *Handler) serveDocument(w http.ResponseWriter, r *http.Request, layout receipt.Layout) {
	id, ok := shared.PathID(w, r, "donationId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, err := h.Donations.GetResolved(ctx, id)
	if err != nil {
		h.writeStoreError(w, r, "load donation for receipt failed", err)
		return
	}

	path, err := h.renderToFile(viewOf(d, h.Currency), layout)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "render receipt failed", err, "")
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			h.Log.Warn("remove receipt file", zap.String("path", path), zap.Error(err))
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "open receipt file failed", err, "")
		return
	}
	defer f.Close()

	name := "Donation-Receipt-" + id.Hex() + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	http.ServeContent(w, r, name, time.Now(), f)
}

// renderToFile writes the PDF to a temp file under ReceiptDir and returns
// its path. The caller removes it.
func (h *Handler) renderToFile(v receipt.View, layout receipt.Layout) (string, error) {
	dir := h.ReceiptDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}
	f, err := os.CreateTemp(dir, "receipt-*.pdf")
	if err != nil {
		return "", err
	}
	if err := h.Receipts.Render(f, v, layout); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func viewOf(d donationstore.Resolved, currency string) receipt.View {
	v := receipt.View{
		ReceiptID:     d.ID.Hex(),
		DonorName:     d.DonorDisplayName(),
		Amount:        d.Amount,
		Currency:      currency,
		PaymentMethod: d.PaymentMethod,
		TransactionID: d.TransactionID,
		Cause:         d.Cause,
		IssuedAt:      d.CreatedAt,
	}
	if d.Donor != nil {
		v.DonorEmail = d.Donor.Email
	}
	if d.Volunteer != nil {
		v.VolunteerName = d.Volunteer.Name
	}
	return v
}
