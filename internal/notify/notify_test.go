package notify

import (
	"strings"
	"testing"

	"github.com/mekha7/mekha-store/internal/models"

	"github.com/stretchr/testify/assert"
)

func sampleInvoice() models.Invoice {
	return models.Invoice{
		InvoiceNo:       "MSS-123456",
		CustomerName:    "Ravi",
		CustomerPhone:   "9876543210",
		CustomerAddress: "12 Main Road",
		Total:           2400,
		Items: []models.InvoiceItem{
			{Name: "Camera", Qty: 2, UnitPrice: 1200, LineTotal: 2400},
		},
	}
}

func TestLinkAddsCountryCodeForBareNumbers(t *testing.T) {
	w := NewWhatsApp("Mekha Solutions", "8050426215")

	link := w.Link(sampleInvoice())
	assert.True(t, strings.HasPrefix(link, "https://wa.me/919876543210?text="), link)
}

func TestLinkEmptyWithoutPhone(t *testing.T) {
	w := NewWhatsApp("Mekha Solutions", "8050426215")

	inv := sampleInvoice()
	inv.CustomerPhone = " - "
	assert.Empty(t, w.Link(inv))
}

func TestMessageContents(t *testing.T) {
	w := NewWhatsApp("Mekha Solutions", "8050426215")

	msg := w.Message(sampleInvoice())
	assert.Contains(t, msg, "MSS-123456")
	assert.Contains(t, msg, "Camera x 2")
	assert.Contains(t, msg, "2400.00")
	assert.Contains(t, msg, "12 Main Road")
	assert.Contains(t, msg, "Mekha Solutions")
}
