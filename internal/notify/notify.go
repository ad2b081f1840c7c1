// Package notify builds and dispatches order confirmations. Dispatch is
// fire-and-forget: failures are logged and never reach the checkout flow.
package notify

import (
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/mekha7/mekha-store/internal/models"
)

// WhatsApp formats an itemized confirmation into a wa.me link for the
// store's operator to forward to the customer.
type WhatsApp struct {
	CompanyName  string
	CompanyPhone string
}

func NewWhatsApp(companyName, companyPhone string) *WhatsApp {
	return &WhatsApp{CompanyName: companyName, CompanyPhone: companyPhone}
}

func (w *WhatsApp) Notify(inv models.Invoice) {
	link := w.Link(inv)
	if link == "" {
		log.Printf("invoice %s: no customer phone, confirmation skipped", inv.InvoiceNo)
		return
	}
	log.Printf("invoice %s: confirmation ready for %s: %s", inv.InvoiceNo, inv.CustomerName, link)
}

// Link builds the wa.me URL carrying the confirmation message.
func (w *WhatsApp) Link(inv models.Invoice) string {
	target := digitsOnly(inv.CustomerPhone)
	if target == "" {
		return ""
	}
	// Default to the Indian country code for bare 10-digit numbers.
	if len(target) == 10 {
		target = "91" + target
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", target, url.QueryEscape(w.Message(inv)))
}

func (w *WhatsApp) Message(inv models.Invoice) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Hello *%s*, your invoice *%s* is ready! 🛒\n\n*Items:*\n",
		inv.CustomerName, inv.InvoiceNo))

	for _, item := range inv.Items {
		b.WriteString(fmt.Sprintf("• %s x %d - ₹%.2f\n", item.Name, item.Qty, item.LineTotal))
	}

	b.WriteString(fmt.Sprintf("\n*Total Amount:* ₹%.2f\n", inv.Total))
	if inv.CustomerAddress != "" {
		b.WriteString(fmt.Sprintf("*Delivery Address:* %s\n", inv.CustomerAddress))
	}
	b.WriteString(fmt.Sprintf("\nThank you for shopping with %s! 🙏", w.CompanyName))
	return b.String()
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
