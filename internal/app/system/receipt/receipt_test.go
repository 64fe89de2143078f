package receipt

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleView() View {
	return View{
		ReceiptID:     "65f0c0ffee0000000000abcd",
		DonorName:     "Asha Rao",
		DonorEmail:    "asha@example.com",
		Amount:        500,
		PaymentMethod: "Cash",
		Cause:         "Education",
		VolunteerName: "Ravi",
		IssuedAt:      time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestRender_Layouts(t *testing.T) {
	for _, layout := range []Layout{LayoutReceipt, LayoutCertificate} {
		t.Run(string(layout), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, sampleView(), layout))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "output should be a PDF")
			assert.Greater(t, buf.Len(), 500)
		})
	}
}

func TestRender_EmptyViewStillRenders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, View{}, LayoutReceipt))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRender_UnknownLayout(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, sampleView(), Layout("poster"))
	assert.ErrorIs(t, err, ErrUnknownLayout)
	assert.Zero(t, buf.Len())
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, "Anonymous", View{}.donor())
	assert.Equal(t, "N/A", View{}.issued())
	assert.Equal(t, "N/A", orNA(""))
	assert.Equal(t, "x", orNA("x"))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "INR 500.00", FormatAmount("", 500))
	assert.Equal(t, "USD 12.50", FormatAmount("USD", 12.5))
}

func renderPlain(t *testing.T, r *Renderer, v View, layout Layout) []byte {
	t.Helper()
	r.compress = false
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, v, layout))
	return buf.Bytes()
}

func TestRender_CoreFontEncodesLatinAccents(t *testing.T) {
	v := sampleView()
	v.DonorName = "José Müller"
	v.Cause = "Café für Kinder"
	v.VolunteerName = "Zoë"

	for _, layout := range []Layout{LayoutReceipt, LayoutCertificate} {
		t.Run(string(layout), func(t *testing.T) {
			out := renderPlain(t, NewRenderer(nil), v, layout)

			// cp1252: é = 0xE9, ü = 0xFC.
			assert.Contains(t, string(out), "(Jos\xe9 M\xfcller)")
			assert.NotContains(t, string(out), "Jos\xc3\xa9", "UTF-8 bytes must not reach a core font")
			assert.Contains(t, string(out), "f\xfcr Kinder")
		})
	}
	out := renderPlain(t, NewRenderer(nil), v, LayoutReceipt)
	assert.Contains(t, string(out), "(Zo\xeb)")
}

func TestRender_CoreFontReplacesUnmappableRunes(t *testing.T) {
	v := sampleView()
	v.DonorName = "अनिता"
	out := renderPlain(t, NewRenderer(nil), v, LayoutReceipt)
	assert.Contains(t, string(out), "(.....)")
	assert.NotContains(t, string(out), "अ")
}

func TestLoadRenderer(t *testing.T) {
	r, err := LoadRenderer("")
	require.NoError(t, err)
	assert.False(t, r.UTF8())

	_, err = LoadRenderer(filepath.Join(t.TempDir(), "missing.ttf"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.ttf")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = LoadRenderer(empty)
	assert.Error(t, err)
}

// RECEIPT_TEST_FONT points at a UTF-8 TrueType font such as DejaVuSans.
func TestRender_UTF8Font(t *testing.T) {
	path := os.Getenv("RECEIPT_TEST_FONT")
	if path == "" {
		t.Skip("RECEIPT_TEST_FONT not set")
	}
	r, err := LoadRenderer(path)
	require.NoError(t, err)
	require.True(t, r.UTF8())

	v := sampleView()
	v.DonorName = "José Müller"
	for _, layout := range []Layout{LayoutReceipt, LayoutCertificate} {
		var buf bytes.Buffer
		require.NoError(t, r.Render(&buf, v, layout))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	}
}

func TestRender_NilRendererUsesCoreFonts(t *testing.T) {
	var r *Renderer
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, sampleView(), LayoutReceipt))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
