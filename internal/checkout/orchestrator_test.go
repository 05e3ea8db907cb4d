package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cafesol/cafeapp/internal/cart"
	"github.com/cafesol/cafeapp/internal/catalog"
	"github.com/cafesol/cafeapp/pkg/backend"
	"github.com/cafesol/cafeapp/pkg/enums"
	pkgerrors "github.com/cafesol/cafeapp/pkg/errors"
	"github.com/cafesol/cafeapp/pkg/types"
	"github.com/shopspring/decimal"
)

type stubAPI struct {
	mu sync.Mutex

	quoteFee  decimal.Decimal
	quoteErr  error
	quoteGate chan struct{}
	intent    *backend.PaymentIntent
	intentErr error
	orderID   string
	submitErr error
	saveErr   error

	quoteCalls  int
	intentCalls int
	submitCalls int
	saveCalls   int
	submitted   []backend.OrderPayload
	savedAddr   chan types.Address
}

func (s *stubAPI) QuoteDeliveryFee(ctx context.Context, coords types.Coordinates) (decimal.Decimal, error) {
	s.mu.Lock()
	s.quoteCalls++
	gate := s.quoteGate
	fee, err := s.quoteFee, s.quoteErr
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return fee, err
}

func (s *stubAPI) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal) (*backend.PaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intentCalls++
	return s.intent, s.intentErr
}

func (s *stubAPI) SubmitOrder(ctx context.Context, payload backend.OrderPayload) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitCalls++
	if s.submitErr != nil {
		return "", s.submitErr
	}
	s.submitted = append(s.submitted, payload)
	return s.orderID, nil
}

func (s *stubAPI) SaveAddress(ctx context.Context, addr types.Address) error {
	s.mu.Lock()
	s.saveCalls++
	ch := s.savedAddr
	err := s.saveErr
	s.mu.Unlock()
	if ch != nil {
		ch <- addr
	}
	return err
}

func testAddress() types.Address {
	return types.Address{
		Label:      "Home",
		Line1:      "Calle Mayor 1",
		City:       "Madrid",
		PostalCode: "28013",
		Lat:        40.4168,
		Lng:        -3.7038,
	}
}

func newTestOrchestrator(t *testing.T, api *stubAPI) (*Orchestrator, *cart.Store) {
	t.Helper()
	store := cart.NewStore()
	store.AddItem(catalog.Item{
		ID:          "coffee",
		DisplayName: "Cafe con Leche",
		BasePrice:   decimal.RequireFromString("2.50"),
	}, nil)

	orch, err := NewOrchestrator(api, store, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return orch, store
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestStartRequiresNonEmptyCart(t *testing.T) {
	t.Parallel()

	orch, err := NewOrchestrator(&stubAPI{}, cart.NewStore(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertCode(t, orch.Start(enums.DeliveryMethodPickupCounter), pkgerrors.CodeStateConflict)
}

func TestStartRejectsInvalidMethod(t *testing.T) {
	t.Parallel()

	orch, _ := newTestOrchestrator(t, &stubAPI{})
	assertCode(t, orch.Start(enums.DeliveryMethod("drone")), pkgerrors.CodeValidation)
}

func TestStartPickupSkipsAddress(t *testing.T) {
	t.Parallel()

	orch, _ := newTestOrchestrator(t, &stubAPI{})
	if err := orch.Start(enums.DeliveryMethodPickupCounter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := orch.Status().State; got != enums.CheckoutStateReadyToPay {
		t.Fatalf("expected ready_to_pay, got %s", got)
	}
}

func TestStartHomeDeliveryNeedsAddress(t *testing.T) {
	t.Parallel()

	orch, _ := newTestOrchestrator(t, &stubAPI{})
	if err := orch.Start(enums.DeliveryMethodHomeDelivery); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := orch.Status().State; got != enums.CheckoutStateAddressPending {
		t.Fatalf("expected address_pending, got %s", got)
	}

	// paying before the address is confirmed must be rejected
	_, err := orch.RequestPayment(context.Background())
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestSubmitAddressQuotesFee(t *testing.T) {
	t.Parallel()

	api := &stubAPI{quoteFee: decimal.RequireFromString("2.00")}
	orch, _ := newTestOrchestrator(t, api)
	if err := orch.Start(enums.DeliveryMethodHomeDelivery); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := orch.SubmitAddress(context.Background(), testAddress(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status := orch.Status()
	if status.State != enums.CheckoutStateReadyToPay {
		t.Fatalf("expected ready_to_pay, got %s", status.State)
	}
	if !status.DeliveryFee.Equal(decimal.RequireFromString("2.00")) {
		t.Fatalf("expected fee 2.00, got %s", status.DeliveryFee)
	}
	if !status.Total.Equal(decimal.RequireFromString("4.50")) {
		t.Fatalf("expected total 4.50, got %s", status.Total)
	}
}

func TestFailedFeeQuoteClearsAddress(t *testing.T) {
	t.Parallel()

	api := &stubAPI{quoteErr: pkgerrors.New(pkgerrors.CodeAddressUnresolvable, "outside delivery zone")}
	orch, _ := newTestOrchestrator(t, api)
	if err := orch.Start(enums.DeliveryMethodHomeDelivery); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := orch.SubmitAddress(context.Background(), testAddress(), false)
	assertCode(t, err, pkgerrors.CodeAddressUnresolvable)

	status := orch.Status()
	if status.State != enums.CheckoutStateAddressPending {
		t.Fatalf("expected address_pending after failed quote, got %s", status.State)
	}
	if status.Address != nil {
		t.Fatal("expected address cleared after failed quote")
	}
	if !status.DeliveryFee.Equal(decimal.Zero) {
		t.Fatalf("expected zero fee after failed quote, got %s", status.DeliveryFee)
	}
}

func TestSubmitAddressRejectsInvalidAddress(t *testing.T) {
	t.Parallel()

	api := &stubAPI{}
	orch, _ := newTestOrchestrator(t, api)
	if err := orch.Start(enums.DeliveryMethodHomeDelivery); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertCode(t, orch.SubmitAddress(context.Background(), types.Address{}, false), pkgerrors.CodeValidation)
	if api.quoteCalls != 0 {
		t.Fatal("invalid address must not reach the fee quote")
	}
}

func TestHappyPathCompletesAndClearsCart(t *testing.T) {
	t.Parallel()

	api := &stubAPI{
		quoteFee: decimal.RequireFromString("1.50"),
		intent:   &backend.PaymentIntent{ID: "pi_1", ClientSecret: "secret"},
		orderID:  "order-42",
	}
	orch, store := newTestOrchestrator(t, api)

	if err := orch.Start(enums.DeliveryMethodHomeDelivery); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := orch.SubmitAddress(context.Background(), testAddress(), false); err != nil {
		t.Fatalf("address: %v", err)
	}
	intent, err := orch.RequestPayment(context.Background())
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if intent.ClientSecret != "secret" {
		t.Fatalf("unexpected intent: %+v", intent)
	}

	orderID, err := orch.ConfirmPayment(context.Background(), true)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if orderID != "order-42" {
		t.Fatalf("expected order-42, got %s", orderID)
	}
	if !store.IsEmpty() {
		t.Fatal("expected cart cleared after completion")
	}
	if got := orch.Status().State; got != enums.CheckoutStateCompleted {
		t.Fatalf("expected completed, got %s", got)
	}
	if len(api.submitted) != 1 {
		t.Fatalf("expected one submitted order, got %d", len(api.submitted))
	}
	payload := api.submitted[0]
	if !payload.Total.Equal(decimal.RequireFromString("4.00")) {
		t.Fatalf("expected order total 4.00, got %s", payload.Total)
	}
	if payload.PaymentIntentID != "pi_1" {
		t.Fatalf("expected intent id on order, got %q", payload.PaymentIntentID)
	}
}

func TestConfirmIsAtMostOnce(t *testing.T) {
	t.Parallel()

	api := &stubAPI{
		intent:  &backend.PaymentIntent{ID: "pi_1"},
		orderID: "order-1",
	}
	orch, _ := newTestOrchestrator(t, api)
	if err := orch.Start(enums.DeliveryMethodDineIn); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := orch.RequestPayment(context.Background()); err != nil {
		t.Fatalf("pay: %v", err)
	}

	first, err := orch.ConfirmPayment(context.Background(), true)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	// re-delivered confirmation must replay the original order id
	second, err := orch.ConfirmPayment(context.Background(), true)
	if err != nil {
		t.Fatalf("re-confirm: %v", err)
	}
	if first != second {
		t.Fatalf("expected same order id, got %s and %s", first, second)
	}
	if api.submitCalls != 1 {
		t.Fatalf("expected one order submission, got %d", api.submitCalls)
	}
}

func TestFailedPaymentKeepsEverything(t *testing.T) {
	t.Parallel()

	api := &stubAPI{
		quoteFee: decimal.RequireFromString("1.50"),
		intent:   &backend.PaymentIntent{ID: "pi_1"},
	}
	orch, store := newTestOrchestrator(t, api)
	if err := orch.Start(enums.DeliveryMethodHomeDelivery); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := orch.SubmitAddress(context.Background(), testAddress(), false); err != nil {
		t.Fatalf("address: %v", err)
	}
	if _, err := orch.RequestPayment(context.Background()); err != nil {
		t.Fatalf("pay: %v", err)
	}

	_, err := orch.ConfirmPayment(context.Background(), false)
	assertCode(t, err, pkgerrors.CodePaymentDeclined)

	status := orch.Status()
	if status.State != enums.CheckoutStateReadyToPay {
		t.Fatalf("expected ready_to_pay after declined payment, got %s", status.State)
	}
	if status.Address == nil {
		t.Fatal("expected address kept after declined payment")
	}
	if store.IsEmpty() {
		t.Fatal("expected cart kept after declined payment")
	}
	if api.submitCalls != 0 {
		t.Fatal("declined payment must not submit an order")
	}
}

func TestFailedSubmissionStaysConfirmable(t *testing.T) {
	t.Parallel()

	api := &stubAPI{
		intent:    &backend.PaymentIntent{ID: "pi_1"},
		orderID:   "order-1",
		submitErr: errors.New("upstream down"),
	}
	orch, store := newTestOrchestrator(t, api)
	if err := orch.Start(enums.DeliveryMethodPickupCounter); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := orch.RequestPayment(context.Background()); err != nil {
		t.Fatalf("pay: %v", err)
	}

	if _, err := orch.ConfirmPayment(context.Background(), true); err == nil {
		t.Fatal("expected submission failure")
	}
	if got := orch.Status().State; got != enums.CheckoutStatePaymentAwaitingConfirmation {
		t.Fatalf("expected payment_awaiting_confirmation for retry, got %s", got)
	}
	if store.IsEmpty() {
		t.Fatal("cart must survive a failed submission")
	}

	api.mu.Lock()
	api.submitErr = nil
	api.mu.Unlock()

	orderID, err := orch.ConfirmPayment(context.Background(), true)
	if err != nil {
		t.Fatalf("retry confirm: %v", err)
	}
	if orderID != "order-1" {
		t.Fatalf("expected order-1, got %s", orderID)
	}
}

func TestSaveAddressFireAndForget(t *testing.T) {
	t.Parallel()

	api := &stubAPI{
		quoteFee:  decimal.RequireFromString("1.00"),
		intent:    &backend.PaymentIntent{ID: "pi_1"},
		orderID:   "order-1",
		savedAddr: make(chan types.Address, 1),
	}
	orch, _ := newTestOrchestrator(t, api)
	if err := orch.Start(enums.DeliveryMethodHomeDelivery); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := orch.SubmitAddress(context.Background(), testAddress(), true); err != nil {
		t.Fatalf("address: %v", err)
	}
	if _, err := orch.RequestPayment(context.Background()); err != nil {
		t.Fatalf("pay: %v", err)
	}
	if _, err := orch.ConfirmPayment(context.Background(), true); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	saved := <-api.savedAddr
	if saved.Line1 != "Calle Mayor 1" {
		t.Fatalf("unexpected saved address: %+v", saved)
	}
}

func TestResetDuringFeeQuoteDiscardsResult(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	api := &stubAPI{quoteFee: decimal.RequireFromString("2.00"), quoteGate: gate}
	orch, _ := newTestOrchestrator(t, api)
	if err := orch.Start(enums.DeliveryMethodHomeDelivery); err != nil {
		t.Fatalf("start: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- orch.SubmitAddress(context.Background(), testAddress(), false)
	}()

	// wait for the quote call to be in flight
	for {
		api.mu.Lock()
		inFlight := api.quoteCalls > 0
		api.mu.Unlock()
		if inFlight {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if err := orch.Reset(); err != nil {
		t.Fatalf("reset while quote in flight: %v", err)
	}
	close(gate)

	assertCode(t, <-done, pkgerrors.CodeStateConflict)

	status := orch.Status()
	if status.State != enums.CheckoutStateIdle {
		t.Fatalf("expected idle after reset, got %s", status.State)
	}
	if status.Address != nil {
		t.Fatalf("expected no address, got %+v", status.Address)
	}
	if !status.DeliveryFee.IsZero() {
		t.Fatalf("expected zero fee, got %s", status.DeliveryFee)
	}
}

func TestResetReturnsToIdleKeepingCart(t *testing.T) {
	t.Parallel()

	api := &stubAPI{quoteFee: decimal.RequireFromString("2.00")}
	orch, store := newTestOrchestrator(t, api)
	if err := orch.Start(enums.DeliveryMethodHomeDelivery); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := orch.SubmitAddress(context.Background(), testAddress(), false); err != nil {
		t.Fatalf("address: %v", err)
	}

	if err := orch.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	status := orch.Status()
	if status.State != enums.CheckoutStateIdle {
		t.Fatalf("expected idle, got %s", status.State)
	}
	if status.Address != nil || !status.DeliveryFee.Equal(decimal.Zero) {
		t.Fatalf("expected cleared checkout, got %+v", status)
	}
	if store.IsEmpty() {
		t.Fatal("reset must not touch the cart")
	}

	// a fresh checkout can start right away
	if err := orch.Start(enums.DeliveryMethodDineIn); err != nil {
		t.Fatalf("restart: %v", err)
	}
}

func TestCommandsRejectedOutOfOrder(t *testing.T) {
	t.Parallel()

	orch, _ := newTestOrchestrator(t, &stubAPI{})

	assertCode(t, orch.SubmitAddress(context.Background(), testAddress(), false), pkgerrors.CodeStateConflict)
	_, err := orch.RequestPayment(context.Background())
	assertCode(t, err, pkgerrors.CodeStateConflict)
	_, err = orch.ConfirmPayment(context.Background(), true)
	assertCode(t, err, pkgerrors.CodeStateConflict)

	if err := orch.Start(enums.DeliveryMethodDineIn); err != nil {
		t.Fatalf("start: %v", err)
	}
	// starting twice is a conflict
	assertCode(t, orch.Start(enums.DeliveryMethodDineIn), pkgerrors.CodeStateConflict)
}
