package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cafesol/cafeapp/internal/cart"
	"github.com/cafesol/cafeapp/internal/checkout"
	"github.com/cafesol/cafeapp/pkg/backend"
	"github.com/cafesol/cafeapp/pkg/config"
	"github.com/cafesol/cafeapp/pkg/types"
	"github.com/shopspring/decimal"
)

type noopAPI struct{}

func (noopAPI) QuoteDeliveryFee(ctx context.Context, coords types.Coordinates) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (noopAPI) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal) (*backend.PaymentIntent, error) {
	return &backend.PaymentIntent{}, nil
}

func (noopAPI) SubmitOrder(ctx context.Context, payload backend.OrderPayload) (string, error) {
	return "", nil
}

func (noopAPI) SaveAddress(ctx context.Context, addr types.Address) error {
	return nil
}

type stubToucher struct {
	mu    sync.Mutex
	calls int
}

func (s *stubToucher) TouchSession(ctx context.Context, sessionID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return nil
}

func testFactory(sessionID string) (*cart.Store, *checkout.Orchestrator, error) {
	store := cart.NewStore()
	orch, err := checkout.NewOrchestrator(noopAPI{}, store, nil, nil)
	if err != nil {
		return nil, nil, err
	}
	return store, orch, nil
}

func testConfig() config.SessionConfig {
	return config.SessionConfig{TTL: time.Hour, JanitorInterval: time.Minute}
}

func TestGetOrCreateMintsAndReuses(t *testing.T) {
	t.Parallel()

	toucher := &stubToucher{}
	mgr, err := NewManager(testFactory, testConfig(), toucher, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := mgr.GetOrCreate(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID == "" || first.Cart == nil || first.Checkout == nil {
		t.Fatalf("incomplete session: %+v", first)
	}

	same, err := mgr.GetOrCreate(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if same != first {
		t.Fatal("expected the same session back for a known id")
	}
	if mgr.Count() != 1 {
		t.Fatalf("expected one session, got %d", mgr.Count())
	}

	toucher.mu.Lock()
	calls := toucher.calls
	toucher.mu.Unlock()
	if calls != 2 {
		t.Fatalf("expected two touches, got %d", calls)
	}
}

func TestGetOrCreateUnknownIDMintsFresh(t *testing.T) {
	t.Parallel()

	mgr, _ := NewManager(testFactory, testConfig(), nil, nil)

	sess, err := mgr.GetOrCreate(context.Background(), "expired-or-bogus")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.ID == "expired-or-bogus" {
		t.Fatal("expected a fresh session id")
	}
}

func TestEvictExpiredSessions(t *testing.T) {
	t.Parallel()

	mgr, _ := NewManager(testFactory, testConfig(), nil, nil)

	now := time.Now()
	mgr.now = func() time.Time { return now }

	stale, err := mgr.GetOrCreate(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mgr.now = func() time.Time { return now.Add(30 * time.Minute) }
	fresh, err := mgr.GetOrCreate(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mgr.now = func() time.Time { return now.Add(65 * time.Minute) }
	mgr.evictExpired(context.Background())

	if _, ok := mgr.Lookup(stale.ID); ok {
		t.Fatal("expected stale session evicted")
	}
	if _, ok := mgr.Lookup(fresh.ID); !ok {
		t.Fatal("expected fresh session kept")
	}
}
