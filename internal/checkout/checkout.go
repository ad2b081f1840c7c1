// Package checkout turns a validated cart into an immutable invoice,
// reconciles catalog stock, appends the sales ledger and clears the cart.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mekha7/mekha-store/internal/cart"
	"github.com/mekha7/mekha-store/internal/catalog"
	"github.com/mekha7/mekha-store/internal/models"
)

var (
	ErrMissingCustomerDetails = errors.New("customer name, phone and address are required")
	ErrEmptyCart              = errors.New("cart is empty")
)

// Committer persists an invoice plus its sales-ledger entry and applies the
// stock decrements atomically. catalog.Store satisfies it.
type Committer interface {
	CommitSale(ctx context.Context, inv *models.Invoice, sale *models.SaleRecord) error
}

// Notifier dispatches an order confirmation. Calls are best-effort and must
// never influence the outcome of a checkout.
type Notifier interface {
	Notify(inv models.Invoice)
}

// ValidateCheckout gates invoice generation: all three customer fields must
// be non-blank and the cart must hold at least one line. Phone and address
// are free text; no shape or locale validation.
func ValidateCheckout(name, phone, address string, lines []cart.Line) error {
	if strings.TrimSpace(name) == "" ||
		strings.TrimSpace(phone) == "" ||
		strings.TrimSpace(address) == "" {
		return ErrMissingCustomerDetails
	}
	if len(lines) == 0 {
		return ErrEmptyCart
	}
	return nil
}

type Service struct {
	carts    *cart.Store
	store    Committer
	notifier Notifier
	prefix   string

	mu         sync.Mutex
	lastMillis int64
}

func NewService(carts *cart.Store, store Committer, notifier Notifier, prefix string) *Service {
	return &Service{carts: carts, store: store, notifier: notifier, prefix: prefix}
}

// GenerateInvoice runs the checkout pipeline for one session:
// snapshot cart, build invoice, append sales ledger, reconcile stock, clear
// cart, notify. The ledger append and stock writes commit in a single
// transaction; on any failure the cart and entered details survive so the
// shopper can retry. Only one generation per session runs at a time.
func (s *Service) GenerateInvoice(ctx context.Context, sessionID, name, phone, address string) (*models.Invoice, error) {
	if err := s.carts.BeginCheckout(sessionID); err != nil {
		return nil, err
	}
	defer s.carts.EndCheckout(sessionID)

	lines := s.carts.Lines(sessionID)
	if err := ValidateCheckout(name, phone, address, lines); err != nil {
		return nil, err
	}

	now := time.Now()
	millis := s.claimMillis(now.UnixMilli())

	items := make([]models.InvoiceItem, 0, len(lines))
	saleItems := make([]models.SaleItem, 0, len(lines))
	var total float64
	for _, l := range lines {
		unit := l.Product.UnitPrice()
		items = append(items, models.InvoiceItem{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Qty:       l.Qty,
			UnitPrice: unit,
			LineTotal: l.Subtotal(),
		})
		saleItems = append(saleItems, models.SaleItem{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Qty:       l.Qty,
			Price:     unit,
		})
		total += l.Subtotal()
	}

	date := now.Format(catalog.DateFormat)
	inv := &models.Invoice{
		InvoiceNo:       invoiceNumber(s.prefix, millis),
		Date:            date,
		IssuedAt:        now,
		CustomerName:    strings.TrimSpace(name),
		CustomerPhone:   strings.TrimSpace(phone),
		CustomerAddress: strings.TrimSpace(address),
		Total:           total,
		Items:           items,
	}
	sale := &models.SaleRecord{
		SaleID: millis,
		Date:   date,
		Total:  total,
		Items:  saleItems,
	}

	if err := s.store.CommitSale(ctx, inv, sale); err != nil {
		return nil, err
	}

	s.carts.Clear(sessionID)

	if s.notifier != nil {
		go s.notifier.Notify(*inv)
	}
	return inv, nil
}

// claimMillis guards the timestamp the invoice number is derived from: two
// generations in the same millisecond get distinct values, so numbers
// issued by one process never repeat back to back.
func (s *Service) claimMillis(millis int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if millis <= s.lastMillis {
		millis = s.lastMillis + 1
	}
	s.lastMillis = millis
	return millis
}

// invoiceNumber is the prefix plus the last six digits of the generation
// timestamp in milliseconds. Human-scannable, not globally unique.
func invoiceNumber(prefix string, millis int64) string {
	return fmt.Sprintf("%s-%06d", prefix, millis%1_000_000)
}
