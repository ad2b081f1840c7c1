package cart

import (
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/mekha7/mekha-store/internal/models"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be a whole number")
	ErrCheckoutInFlight = errors.New("a checkout is already in progress for this session")
	ErrCompareListFull  = errors.New("compare list holds at most 4 products")
	ErrSessionNotFound  = errors.New("unknown session id")
	ErrInvalidFeedback  = errors.New("a rating from 1 to 5 and a comment are required")
)

// CompareLimit caps the number of products a session may compare at once.
const CompareLimit = 4

// Line is one (product, quantity) pair in a shopper's cart. Product is a
// snapshot taken at add time; qty is always >= 1 while the line exists.
type Line struct {
	Product models.Product `json:"product"`
	Qty     int            `json:"qty"`
}

// Subtotal treats an unpriced product as contributing zero.
func (l Line) Subtotal() float64 {
	return l.Product.UnitPrice() * float64(l.Qty)
}

// Feedback is one shopper rating-and-comment pair, held per session.
type Feedback struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type session struct {
	lines       []Line
	wishlist    []uint
	compare     []uint
	feedback    []Feedback
	checkingOut bool
}

// Store holds the in-memory carts of all active shopper sessions, keyed by
// session id. All methods are safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*session)}
}

// NewSession registers a fresh shopper session and returns its id.
func (s *Store) NewSession() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &session{}
	s.mu.Unlock()
	return id
}

// get returns the session or nil. Only NewSession allocates, so arbitrary
// ids sent by unauthenticated traffic cannot grow the map. Caller must
// hold s.mu.
func (s *Store) get(sessionID string) *session {
	return s.sessions[sessionID]
}

// Exists reports whether the id was issued by NewSession.
func (s *Store) Exists(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sessionID] != nil
}

// Add puts one unit of the product into the cart. Out-of-stock products are
// ignored. Re-adding a product already in the cart bumps its quantity
// instead of creating a second line.
func (s *Store) Add(sessionID string, p models.Product) {
	if p.Stock <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(sessionID)
	if sess == nil {
		return
	}
	for i := range sess.lines {
		if sess.lines[i].Product.ID == p.ID {
			sess.lines[i].Qty++
			return
		}
	}
	sess.lines = append(sess.lines, Line{Product: p, Qty: 1})
}

// UpdateQty sets the quantity of the line for productID from raw user input.
// Non-numeric input is rejected before any comparison; a parsed value of
// zero or less removes the line entirely.
func (s *Store) UpdateQty(sessionID string, productID uint, raw string) error {
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(sessionID)
	if sess == nil {
		return ErrSessionNotFound
	}
	if qty <= 0 {
		sess.removeLine(productID)
		return nil
	}
	for i := range sess.lines {
		if sess.lines[i].Product.ID == productID {
			sess.lines[i].Qty = qty
			return nil
		}
	}
	return nil
}

// Remove drops the line for productID if present; absent lines are a no-op.
func (s *Store) Remove(sessionID string, productID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess := s.get(sessionID); sess != nil {
		sess.removeLine(productID)
	}
}

func (sess *session) removeLine(productID uint) {
	kept := sess.lines[:0]
	for _, l := range sess.lines {
		if l.Product.ID != productID {
			kept = append(kept, l)
		}
	}
	sess.lines = kept
}

// Lines returns a copy of the cart's lines in insertion order.
func (s *Store) Lines(sessionID string) []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(sessionID)
	if sess == nil {
		return nil
	}
	out := make([]Line, len(sess.lines))
	copy(out, sess.lines)
	return out
}

// Total recomputes the cart total on each read.
func (s *Store) Total(sessionID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(sessionID)
	if sess == nil {
		return 0
	}
	var total float64
	for _, l := range sess.lines {
		total += l.Subtotal()
	}
	return total
}

// Clear empties the cart, leaving wishlist and compare list alone.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess := s.get(sessionID); sess != nil {
		sess.lines = nil
	}
}

// BeginCheckout marks the session as having an invoice generation in
// flight. A second call before EndCheckout fails, so concurrent checkout
// clicks cannot double-decrement stock or double-append history.
func (s *Store) BeginCheckout(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(sessionID)
	if sess == nil {
		return ErrSessionNotFound
	}
	if sess.checkingOut {
		return ErrCheckoutInFlight
	}
	sess.checkingOut = true
	return nil
}

func (s *Store) EndCheckout(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess := s.get(sessionID); sess != nil {
		sess.checkingOut = false
	}
}

// ToggleWishlist adds or removes the product id and reports whether it is
// now present.
func (s *Store) ToggleWishlist(sessionID string, productID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(sessionID)
	if sess == nil {
		return false
	}
	for i, id := range sess.wishlist {
		if id == productID {
			sess.wishlist = append(sess.wishlist[:i], sess.wishlist[i+1:]...)
			return false
		}
	}
	sess.wishlist = append(sess.wishlist, productID)
	return true
}

// ToggleCompare adds or removes the product id, capped at CompareLimit
// products per session.
func (s *Store) ToggleCompare(sessionID string, productID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(sessionID)
	if sess == nil {
		return false, ErrSessionNotFound
	}
	for i, id := range sess.compare {
		if id == productID {
			sess.compare = append(sess.compare[:i], sess.compare[i+1:]...)
			return false, nil
		}
	}
	if len(sess.compare) >= CompareLimit {
		return false, ErrCompareListFull
	}
	sess.compare = append(sess.compare, productID)
	return true, nil
}

func (s *Store) Wishlist(sessionID string) []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(sessionID)
	if sess == nil {
		return nil
	}
	out := make([]uint, len(sess.wishlist))
	copy(out, sess.wishlist)
	return out
}

func (s *Store) Compare(sessionID string) []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(sessionID)
	if sess == nil {
		return nil
	}
	out := make([]uint, len(sess.compare))
	copy(out, sess.compare)
	return out
}

// AddFeedback appends a shopper rating and comment to the session.
// Ratings run 1 to 5 and the comment must not be blank.
func (s *Store) AddFeedback(sessionID string, rating int, comment string) error {
	comment = strings.TrimSpace(comment)
	if rating < 1 || rating > 5 || comment == "" {
		return ErrInvalidFeedback
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(sessionID)
	if sess == nil {
		return ErrSessionNotFound
	}
	sess.feedback = append(sess.feedback, Feedback{Rating: rating, Comment: comment})
	return nil
}

// Feedbacks returns the session's feedback entries in submission order.
func (s *Store) Feedbacks(sessionID string) []Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(sessionID)
	if sess == nil {
		return nil
	}
	out := make([]Feedback, len(sess.feedback))
	copy(out, sess.feedback)
	return out
}

// RemoveProductEverywhere cascades a catalog deletion into every session's
// cart, wishlist and compare list.
func (s *Store) RemoveProductEverywhere(productID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range s.sessions {
		sess.removeLine(productID)
		sess.wishlist = removeID(sess.wishlist, productID)
		sess.compare = removeID(sess.compare, productID)
	}
}

func removeID(ids []uint, id uint) []uint {
	kept := ids[:0]
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	return kept
}
