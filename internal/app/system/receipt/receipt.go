// Package receipt renders donation receipts and certificates as PDF.
package receipt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
)

// Layout selects the document shape.
type Layout string

const (
	LayoutReceipt     Layout = "receipt"     // A4 portrait statement
	LayoutCertificate Layout = "certificate" // A4 landscape, donor and amount prominent
)

// ErrUnknownLayout is returned for a layout other than the ones above.
var ErrUnknownLayout = errors.New("receipt: unknown layout")

const (
	notAvailable = "N/A"
	anonymous    = "Anonymous"
)

// View is everything a receipt shows. Empty fields print as N/A; an empty
// DonorName prints as Anonymous.
type View struct {
	ReceiptID     string
	DonorName     string
	DonorEmail    string
	Amount        float64
	Currency      string // defaults to INR
	PaymentMethod string
	TransactionID string
	Cause         string
	VolunteerName string
	IssuedAt      time.Time
}

// FormatAmount prefixes the amount with its currency code. The core PDF
// fonts have no rupee glyph, so the ISO code is used.
func FormatAmount(currency string, amount float64) string {
	if currency == "" {
		currency = "INR"
	}
	return fmt.Sprintf("%s %.2f", currency, amount)
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

func (v View) donor() string {
	if v.DonorName == "" {
		return anonymous
	}
	return v.DonorName
}

func (v View) issued() string {
	if v.IssuedAt.IsZero() {
		return notAvailable
	}
	return v.IssuedAt.UTC().Format("02 Jan 2006 15:04 MST")
}

// Renderer draws receipts. Without a font it uses the core Helvetica
// faces, which speak cp1252: Latin accents print correctly and runes
// outside that code page print as '.'. With a UTF-8 TrueType font every
// script the font covers prints as given.
type Renderer struct {
	utf8Font []byte
	compress bool
}

// NewRenderer returns a renderer using the given TrueType font bytes, or
// the core fonts when utf8Font is empty.
func NewRenderer(utf8Font []byte) *Renderer {
	return &Renderer{utf8Font: utf8Font, compress: true}
}

// LoadRenderer reads a TrueType font from path. An empty path selects the
// core fonts.
func LoadRenderer(path string) (*Renderer, error) {
	if path == "" {
		return NewRenderer(nil), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("receipt: read font: %w", err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("receipt: font %s is empty", path)
	}
	return NewRenderer(b), nil
}

// UTF8 reports whether r embeds a UTF-8 font.
func (r *Renderer) UTF8() bool { return r != nil && len(r.utf8Font) > 0 }

// Render writes the PDF for v with the core fonts.
func Render(w io.Writer, v View, layout Layout) error {
	return NewRenderer(nil).Render(w, v, layout)
}

// Render writes the PDF for v in the given layout to w. A nil Renderer
// uses the core fonts.
func (r *Renderer) Render(w io.Writer, v View, layout Layout) error {
	if r == nil {
		r = NewRenderer(nil)
	}
	var d *doc
	switch layout {
	case LayoutReceipt, "":
		d = r.newDoc("P")
		renderReceipt(d, v)
	case LayoutCertificate:
		d = r.newDoc("L")
		renderCertificate(d, v)
	default:
		return ErrUnknownLayout
	}
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("receipt: build pdf: %w", err)
	}
	return d.pdf.Output(w)
}

const utf8Family = "ReceiptSans"

// doc pairs a page with the font family and text encoding its cells use.
type doc struct {
	pdf    *fpdf.Fpdf
	family string
	tr     func(string) string
}

func (r *Renderer) newDoc(orientation string) *doc {
	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetCompression(r.compress)
	if r.UTF8() {
		for _, style := range []string{"", "B", "I"} {
			pdf.AddUTF8FontFromBytes(utf8Family, style, r.utf8Font)
		}
		return &doc{pdf: pdf, family: utf8Family, tr: func(s string) string { return s }}
	}
	return &doc{pdf: pdf, family: "Helvetica", tr: pdf.UnicodeTranslatorFromDescriptor("cp1252")}
}

func (d *doc) font(style string, size float64) { d.pdf.SetFont(d.family, style, size) }

func (d *doc) cell(w, h float64, text string, ln int, align string) {
	d.pdf.CellFormat(w, h, d.tr(text), "", ln, align, false, 0, "")
}

func renderReceipt(d *doc, v View) {
	d.pdf.SetTitle("Donation Receipt", false)
	d.pdf.AddPage()

	d.font("B", 20)
	d.cell(0, 14, "Donation Receipt", 1, "C")
	d.pdf.Ln(6)

	rows := [][2]string{
		{"Receipt ID", orNA(v.ReceiptID)},
		{"Donor Name", v.donor()},
		{"Email", orNA(v.DonorEmail)},
		{"Amount", FormatAmount(v.Currency, v.Amount)},
		{"Payment Method", orNA(v.PaymentMethod)},
		{"Transaction ID", orNA(v.TransactionID)},
		{"Cause", orNA(v.Cause)},
		{"Volunteer", orNA(v.VolunteerName)},
		{"Date", v.issued()},
	}
	for _, row := range rows {
		d.font("B", 12)
		d.cell(50, 9, row[0]+":", 0, "L")
		d.font("", 12)
		d.cell(0, 9, row[1], 1, "L")
	}

	d.pdf.Ln(10)
	d.font("I", 12)
	d.cell(0, 10, "Thank you for your generous support!", 1, "C")
}

func renderCertificate(d *doc, v View) {
	d.pdf.SetTitle("Certificate of Appreciation", false)
	d.pdf.AddPage()

	w, h := d.pdf.GetPageSize()
	d.pdf.SetLineWidth(1.2)
	d.pdf.Rect(10, 10, w-20, h-20, "D")

	d.pdf.SetY(40)
	d.font("B", 28)
	d.cell(0, 16, "Certificate of Appreciation", 1, "C")

	d.pdf.Ln(8)
	d.font("", 14)
	d.cell(0, 10, "This certificate is presented to", 1, "C")

	d.pdf.Ln(4)
	d.font("B", 24)
	d.cell(0, 14, v.donor(), 1, "C")

	d.pdf.Ln(4)
	d.font("", 14)
	d.cell(0, 10, "in recognition of a generous contribution of", 1, "C")

	d.pdf.Ln(2)
	d.pdf.SetTextColor(200, 0, 0)
	d.font("B", 24)
	d.cell(0, 14, FormatAmount(v.Currency, v.Amount), 1, "C")
	d.pdf.SetTextColor(0, 0, 0)

	d.pdf.Ln(2)
	d.font("", 12)
	d.cell(0, 8, "towards "+orNA(v.Cause), 1, "C")

	d.pdf.SetY(h - 35)
	d.font("", 10)
	d.cell(0, 6, fmt.Sprintf("Receipt %s  |  %s", orNA(v.ReceiptID), v.issued()), 1, "C")
}
