package checkout

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/mekha7/mekha-store/internal/cart"
	"github.com/mekha7/mekha-store/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCommitter mimics the catalog store's transactional sale commit
// against an in-memory stock map: all-or-nothing, stock clamped at zero.
type fakeCommitter struct {
	mu       sync.Mutex
	stock    map[uint]int
	invoices []models.Invoice
	sales    []models.SaleRecord
	failWith error
}

func newFakeCommitter(stock map[uint]int) *fakeCommitter {
	return &fakeCommitter{stock: stock}
}

func (f *fakeCommitter) CommitSale(ctx context.Context, inv *models.Invoice, sale *models.SaleRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return f.failWith
	}
	for _, item := range inv.Items {
		next := f.stock[item.ProductID] - item.Qty
		if next < 0 {
			next = 0
		}
		f.stock[item.ProductID] = next
	}
	f.invoices = append(f.invoices, *inv)
	f.sales = append(f.sales, *sale)
	return nil
}

type fakeNotifier struct {
	calls chan models.Invoice
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{calls: make(chan models.Invoice, 8)}
}

func (f *fakeNotifier) Notify(inv models.Invoice) {
	f.calls <- inv
}

func priceOf(v float64) *float64 {
	return &v
}

func fillCart(t *testing.T, carts *cart.Store, sid string, p models.Product, qty int) {
	t.Helper()
	carts.Add(sid, p)
	if qty != 1 {
		require.NoError(t, carts.UpdateQty(sid, p.ID, strconv.Itoa(qty)))
	}
}

func TestGenerateInvoiceHappyPath(t *testing.T) {
	carts := cart.NewStore()
	sid := carts.NewSession()
	committer := newFakeCommitter(map[uint]int{1: 5})
	notifier := newFakeNotifier()
	svc := NewService(carts, committer, notifier, "MSS")

	p := models.Product{ID: 1, Name: "Camera", Price: priceOf(1200), Stock: 5}
	fillCart(t, carts, sid, p, 2)

	inv, err := svc.GenerateInvoice(context.Background(), sid, "Ravi", "999", "X")
	require.NoError(t, err)

	assert.Equal(t, 2400.0, inv.Total)
	assert.Equal(t, "Ravi", inv.CustomerName)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, 2, inv.Items[0].Qty)
	assert.Equal(t, 1200.0, inv.Items[0].UnitPrice)

	assert.Equal(t, 3, committer.stock[1], "stock reconciled 5-2")
	assert.Empty(t, carts.Lines(sid), "cart cleared after commit")
	require.Len(t, committer.sales, 1)
	assert.Equal(t, 2400.0, committer.sales[0].Total)

	select {
	case got := <-notifier.calls:
		assert.Equal(t, inv.InvoiceNo, got.InvoiceNo)
	case <-time.After(time.Second):
		t.Fatal("notification was never dispatched")
	}
}

func TestGenerateInvoiceRejectsEmptyCart(t *testing.T) {
	carts := cart.NewStore()
	sid := carts.NewSession()
	committer := newFakeCommitter(map[uint]int{})
	svc := NewService(carts, committer, nil, "MSS")

	_, err := svc.GenerateInvoice(context.Background(), sid, "Ravi", "999", "X")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, committer.sales)
	assert.Empty(t, committer.invoices)
}

func TestGenerateInvoiceRejectsMissingCustomerDetails(t *testing.T) {
	carts := cart.NewStore()
	sid := carts.NewSession()
	committer := newFakeCommitter(map[uint]int{2: 2})
	svc := NewService(carts, committer, nil, "MSS")

	fillCart(t, carts, sid, models.Product{ID: 2, Name: "DVR", Price: priceOf(100), Stock: 2}, 1)

	_, err := svc.GenerateInvoice(context.Background(), sid, "Ravi", "999", "  ")
	assert.ErrorIs(t, err, ErrMissingCustomerDetails)

	assert.Len(t, carts.Lines(sid), 1, "cart unchanged")
	assert.Equal(t, 2, committer.stock[2], "stock unchanged")
	assert.Empty(t, committer.sales)
}

func TestGenerateInvoiceStockClampsAtZero(t *testing.T) {
	carts := cart.NewStore()
	sid := carts.NewSession()
	committer := newFakeCommitter(map[uint]int{3: 3})
	svc := NewService(carts, committer, nil, "MSS")

	fillCart(t, carts, sid, models.Product{ID: 3, Name: "NVR", Price: priceOf(50), Stock: 3}, 5)

	_, err := svc.GenerateInvoice(context.Background(), sid, "Ravi", "999", "X")
	require.NoError(t, err)
	assert.Equal(t, 0, committer.stock[3])
}

func TestGenerateInvoiceCommitFailurePreservesState(t *testing.T) {
	carts := cart.NewStore()
	sid := carts.NewSession()
	committer := newFakeCommitter(map[uint]int{1: 5})
	committer.failWith = errors.New("stock write failed")
	svc := NewService(carts, committer, nil, "MSS")

	fillCart(t, carts, sid, models.Product{ID: 1, Name: "Camera", Price: priceOf(1200), Stock: 5}, 2)

	inv, err := svc.GenerateInvoice(context.Background(), sid, "Ravi", "999", "X")
	require.Error(t, err)
	assert.Nil(t, inv)

	assert.Len(t, carts.Lines(sid), 1, "cart preserved so the shopper can retry")
	assert.Equal(t, 5, committer.stock[1])
	assert.Empty(t, committer.sales)

	// After the failure the session is free to check out again.
	committer.failWith = nil
	_, err = svc.GenerateInvoice(context.Background(), sid, "Ravi", "999", "X")
	assert.NoError(t, err)
}

func TestInvoiceImmutableAfterGeneration(t *testing.T) {
	carts := cart.NewStore()
	sid := carts.NewSession()
	committer := newFakeCommitter(map[uint]int{1: 5})
	svc := NewService(carts, committer, nil, "MSS")

	p := models.Product{ID: 1, Name: "Camera", Price: priceOf(1200), Stock: 5}
	fillCart(t, carts, sid, p, 2)

	inv, err := svc.GenerateInvoice(context.Background(), sid, "Ravi", "999", "X")
	require.NoError(t, err)

	// Mutate the cart afterwards; the returned invoice must not move.
	carts.Add(sid, p)
	require.NoError(t, carts.UpdateQty(sid, 1, "9"))

	assert.Equal(t, 2400.0, inv.Total)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, 2, inv.Items[0].Qty)
}

func TestSalesLedgerAppendOnlyOrdered(t *testing.T) {
	carts := cart.NewStore()
	committer := newFakeCommitter(map[uint]int{1: 100})
	svc := NewService(carts, committer, nil, "MSS")

	const n = 5
	for i := 0; i < n; i++ {
		sid := carts.NewSession()
		fillCart(t, carts, sid, models.Product{ID: 1, Name: "Camera", Price: priceOf(float64(100 * (i + 1))), Stock: 100}, 1)
		_, err := svc.GenerateInvoice(context.Background(), sid, "Ravi", "999", "X")
		require.NoError(t, err)
	}

	require.Len(t, committer.sales, n)
	for i := 1; i < n; i++ {
		assert.Greater(t, committer.sales[i].SaleID, committer.sales[i-1].SaleID,
			"entries appended in generation order")
	}
	assert.Equal(t, 100.0, committer.sales[0].Total, "earlier entries never rewritten")
}

func TestInvoiceNumberFormatAndUniqueness(t *testing.T) {
	carts := cart.NewStore()
	committer := newFakeCommitter(map[uint]int{1: 100})
	svc := NewService(carts, committer, nil, "MSS")

	pattern := regexp.MustCompile(`^MSS-\d{6}$`)
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		sid := carts.NewSession()
		fillCart(t, carts, sid, models.Product{ID: 1, Name: "Camera", Price: priceOf(10), Stock: 100}, 1)
		inv, err := svc.GenerateInvoice(context.Background(), sid, "Ravi", "999", "X")
		require.NoError(t, err)

		assert.Regexp(t, pattern, inv.InvoiceNo)
		assert.False(t, seen[inv.InvoiceNo], "back-to-back numbers must differ")
		seen[inv.InvoiceNo] = true
	}
}

func TestRepeatedInvoiceNumberDoesNotFailCheckout(t *testing.T) {
	carts := cart.NewStore()
	committer := newFakeCommitter(map[uint]int{1: 100})
	svc := NewService(carts, committer, nil, "MSS")

	sid := carts.NewSession()
	fillCart(t, carts, sid, models.Product{ID: 1, Name: "Camera", Price: priceOf(10), Stock: 100}, 1)
	first, err := svc.GenerateInvoice(context.Background(), sid, "Ravi", "999", "X")
	require.NoError(t, err)

	// Advance the claim guard one full number cycle so the next generation
	// lands on the same last six digits.
	svc.mu.Lock()
	svc.lastMillis = committer.sales[0].SaleID + 999_999
	svc.mu.Unlock()

	sid2 := carts.NewSession()
	fillCart(t, carts, sid2, models.Product{ID: 1, Name: "Camera", Price: priceOf(10), Stock: 100}, 1)
	second, err := svc.GenerateInvoice(context.Background(), sid2, "Ravi", "999", "X")
	require.NoError(t, err, "a repeated number is tolerated, never a checkout failure")

	assert.Equal(t, first.InvoiceNo, second.InvoiceNo)
	assert.Len(t, committer.invoices, 2, "both invoices persisted")
	assert.Greater(t, committer.sales[1].SaleID, committer.sales[0].SaleID,
		"ledger ids stay distinct even when display numbers repeat")
}

func TestSecondCheckoutWhileInFlightRejected(t *testing.T) {
	carts := cart.NewStore()
	sid := carts.NewSession()
	committer := newFakeCommitter(map[uint]int{1: 5})
	svc := NewService(carts, committer, nil, "MSS")

	fillCart(t, carts, sid, models.Product{ID: 1, Name: "Camera", Price: priceOf(10), Stock: 5}, 1)

	require.NoError(t, carts.BeginCheckout(sid))
	_, err := svc.GenerateInvoice(context.Background(), sid, "Ravi", "999", "X")
	assert.ErrorIs(t, err, cart.ErrCheckoutInFlight)
	carts.EndCheckout(sid)
}

func TestValidateCheckout(t *testing.T) {
	line := cart.Line{Product: models.Product{ID: 1, Stock: 1}, Qty: 1}

	assert.ErrorIs(t, ValidateCheckout("", "999", "X", []cart.Line{line}), ErrMissingCustomerDetails)
	assert.ErrorIs(t, ValidateCheckout("Ravi", " ", "X", []cart.Line{line}), ErrMissingCustomerDetails)
	assert.ErrorIs(t, ValidateCheckout("Ravi", "999", "", []cart.Line{line}), ErrMissingCustomerDetails)
	assert.ErrorIs(t, ValidateCheckout("Ravi", "999", "X", nil), ErrEmptyCart)
	assert.NoError(t, ValidateCheckout("Ravi", "999", "X", []cart.Line{line}))
}
