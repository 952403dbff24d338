package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"food-storefront/internal/address"
	"food-storefront/internal/cart"
	"food-storefront/internal/checkout"
	"food-storefront/internal/history"
	"food-storefront/internal/validation"
)

// Session owns everything one shopper mutates. Fields are only touched
// inside Store.With.
type Session struct {
	ID           string
	Cart         *cart.Engine
	Addresses    *address.Book
	Checkout     *checkout.Coordinator
	History      *history.History
	PromoCode    string
	PlacedOrders []string
	CreatedAt    time.Time

	mu       sync.Mutex
	lastUsed atomic.Int64
}

// LastUsed is when the session was created or last accessed through the store
func (s *Session) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load()).UTC()
}

func (s *Session) touch(now time.Time) {
	s.lastUsed.Store(now.UnixNano())
}

// Snapshot captures the cart with the session's promo code
func (s *Session) Snapshot() cart.Snapshot {
	return s.Cart.Snapshot(s.PromoCode)
}

// Store keeps live sessions by id
type Store struct {
	pricing cart.Pricing
	sink    checkout.Sink
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty store. Every session gets a cart priced with
// pricing and a checkout coordinator submitting to sink.
func NewStore(pricing cart.Pricing, sink checkout.Sink) *Store {
	return &Store{
		pricing:  pricing,
		sink:     sink,
		now:      func() time.Time { return time.Now().UTC() },
		sessions: make(map[string]*Session),
	}
}

// Create starts a session seeded with the placeholder addresses and history
func (st *Store) Create() *Session {
	book := address.NewBook(address.PlaceholderAddresses())
	s := &Session{
		ID:        uuid.NewString(),
		Cart:      cart.NewEngine(st.pricing),
		Addresses: book,
		Checkout:  checkout.NewCoordinator(book, st.sink),
		History:   history.New(history.PlaceholderOrders()),
		CreatedAt: st.now(),
	}
	s.touch(s.CreatedAt)

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// With runs fn with exclusive access to the session
func (st *Store) With(id string, fn func(s *Session) error) error {
	st.mu.RLock()
	s, ok := st.sessions[id]
	if ok {
		s.touch(st.now())
	}
	st.mu.RUnlock()
	if !ok {
		return unknown(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

// End tears the session down
func (st *Store) End(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return unknown(id)
	}
	delete(st.sessions, id)
	return nil
}

// EvictIdle removes sessions unused for longer than ttl and returns how many
// were removed. A ttl of zero or less keeps every session.
func (st *Store) EvictIdle(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	cutoff := st.now().Add(-ttl).UnixNano()

	st.mu.Lock()
	defer st.mu.Unlock()

	evicted := 0
	for id, s := range st.sessions {
		if s.lastUsed.Load() < cutoff {
			delete(st.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func unknown(id string) error {
	return validation.Reference("sessionId", "Session "+id+" not found")
}
