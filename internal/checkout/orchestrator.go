package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/cafesol/cafeapp/internal/cart"
	"github.com/cafesol/cafeapp/pkg/backend"
	"github.com/cafesol/cafeapp/pkg/enums"
	pkgerrors "github.com/cafesol/cafeapp/pkg/errors"
	"github.com/cafesol/cafeapp/pkg/logger"
	"github.com/cafesol/cafeapp/pkg/metrics"
	"github.com/cafesol/cafeapp/pkg/types"
	"github.com/shopspring/decimal"
)

type backendAPI interface {
	QuoteDeliveryFee(ctx context.Context, coords types.Coordinates) (decimal.Decimal, error)
	CreatePaymentIntent(ctx context.Context, amount decimal.Decimal) (*backend.PaymentIntent, error)
	SubmitOrder(ctx context.Context, payload backend.OrderPayload) (string, error)
	SaveAddress(ctx context.Context, addr types.Address) error
}

type cartAccess interface {
	Snapshot() cart.Snapshot
	IsEmpty() bool
	Clear()
}

// Orchestrator turns one session's cart plus a delivery selection into a
// completed order. Every phase change goes through the guarded transitions
// below; there are no free-floating boolean flags to fall out of sync.
//
// Exactly one network call may be in flight per session: commands arriving
// while busy are rejected with STATE_CONFLICT rather than queued. A
// generation counter discards responses that land after a Reset.
type Orchestrator struct {
	api     backendAPI
	cart    cartAccess
	logg    *logger.Logger
	metrics *metrics.CheckoutMetrics

	mu          sync.Mutex
	state       enums.CheckoutState
	method      enums.DeliveryMethod
	address     *types.Address
	saveAddress bool
	fee         decimal.Decimal
	intent      *backend.PaymentIntent
	orderID     string
	submitted   bool
	busy        bool
	generation  uint64
}

// Status is the externally visible checkout snapshot.
type Status struct {
	State       enums.CheckoutState  `json:"state"`
	Method      enums.DeliveryMethod `json:"delivery_method,omitempty"`
	Address     *types.Address       `json:"address,omitempty"`
	DeliveryFee decimal.Decimal      `json:"delivery_fee"`
	Subtotal    decimal.Decimal      `json:"subtotal"`
	Total       decimal.Decimal      `json:"total"`
	OrderID     string               `json:"order_id,omitempty"`
}

// NewOrchestrator builds a checkout orchestrator bound to one cart.
func NewOrchestrator(api backendAPI, crt cartAccess, logg *logger.Logger, m *metrics.CheckoutMetrics) (*Orchestrator, error) {
	if api == nil {
		return nil, fmt.Errorf("backend api required")
	}
	if crt == nil {
		return nil, fmt.Errorf("cart required")
	}
	return &Orchestrator{
		api:     api,
		cart:    crt,
		logg:    logg,
		metrics: m,
		state:   enums.CheckoutStateIdle,
		fee:     decimal.Zero,
	}, nil
}

// Status reports the current checkout phase and amounts.
func (o *Orchestrator) Status() Status {
	snapshot := o.cart.Snapshot()
	o.mu.Lock()
	defer o.mu.Unlock()
	return Status{
		State:       o.state,
		Method:      o.method,
		Address:     o.address,
		DeliveryFee: o.fee,
		Subtotal:    snapshot.Subtotal,
		Total:       snapshot.Subtotal.Add(o.fee),
		OrderID:     o.orderID,
	}
}

// Start begins checkout with the chosen delivery method. Home delivery must
// confirm an address before payment; counter pickup and dine-in go straight
// to ReadyToPay.
func (o *Orchestrator) Start(method enums.DeliveryMethod) error {
	if !method.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid delivery method %q", method))
	}
	if o.cart.IsEmpty() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot start checkout with an empty cart")
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy {
		return errBusy()
	}
	if o.state != enums.CheckoutStateIdle {
		return invalidTransition(o.state, "start")
	}

	o.method = method
	o.fee = decimal.Zero
	o.address = nil
	if method.RequiresAddress() {
		o.state = enums.CheckoutStateAddressPending
	} else {
		o.state = enums.CheckoutStateReadyToPay
	}
	return nil
}

// SubmitAddress confirms a delivery address and requests a fee quote. A
// failed quote clears the address entirely and returns to AddressPending:
// the customer reselects rather than checking out against a stale or zero
// fee.
func (o *Orchestrator) SubmitAddress(ctx context.Context, addr types.Address, saveForLater bool) error {
	if err := addr.Validate(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address")
	}

	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return errBusy()
	}
	if o.state != enums.CheckoutStateAddressPending {
		state := o.state
		o.mu.Unlock()
		return invalidTransition(state, "submit address")
	}
	o.busy = true
	o.state = enums.CheckoutStateFeeCalculating
	o.generation++
	gen := o.generation
	o.mu.Unlock()

	fee, err := o.api.QuoteDeliveryFee(ctx, addr.Coordinates())

	o.mu.Lock()
	defer o.mu.Unlock()
	o.busy = false
	if gen != o.generation {
		// a reset landed while the quote was in flight
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout was reset during fee calculation")
	}
	if err != nil {
		o.state = enums.CheckoutStateAddressPending
		o.address = nil
		o.fee = decimal.Zero
		o.metrics.IncFeeQuoteFailed()
		return err
	}

	o.address = &addr
	o.saveAddress = saveForLater
	o.fee = fee
	o.state = enums.CheckoutStateReadyToPay
	return nil
}

// RequestPayment asks the cafe API for a payment intent covering
// subtotal plus delivery fee and hands the client secret back for the
// hosted payment element.
func (o *Orchestrator) RequestPayment(ctx context.Context) (*backend.PaymentIntent, error) {
	snapshot := o.cart.Snapshot()

	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return nil, errBusy()
	}
	if o.state != enums.CheckoutStateReadyToPay {
		state := o.state
		o.mu.Unlock()
		return nil, invalidTransition(state, "request payment")
	}
	// Unreachable when transitions are respected; kept as a hard precondition.
	if o.method.RequiresAddress() && o.address == nil {
		o.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "home delivery requires a confirmed address")
	}
	if len(snapshot.Lines) == 0 {
		o.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}
	amount := snapshot.Subtotal.Add(o.fee)
	o.busy = true
	o.state = enums.CheckoutStatePaymentIntentRequested
	o.generation++
	gen := o.generation
	o.mu.Unlock()

	intent, err := o.api.CreatePaymentIntent(ctx, amount)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.busy = false
	if gen != o.generation {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout was reset during payment setup")
	}
	if err != nil {
		o.state = enums.CheckoutStateReadyToPay
		return nil, err
	}

	o.intent = intent
	o.state = enums.CheckoutStatePaymentAwaitingConfirmation
	return intent, nil
}

// ConfirmPayment finishes the flow once the hosted payment element reports
// an outcome. On success the order is submitted at most once, even when the
// confirmation event is re-delivered; on failure the cart, delivery method
// and address all stay put so the customer can retry.
func (o *Orchestrator) ConfirmPayment(ctx context.Context, succeeded bool) (string, error) {
	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return "", errBusy()
	}
	if o.state == enums.CheckoutStateCompleted && o.submitted {
		// re-delivered confirmation after completion
		orderID := o.orderID
		o.mu.Unlock()
		return orderID, nil
	}
	if o.state != enums.CheckoutStatePaymentAwaitingConfirmation {
		state := o.state
		o.mu.Unlock()
		return "", invalidTransition(state, "confirm payment")
	}

	if !succeeded {
		o.state = enums.CheckoutStateReadyToPay
		o.intent = nil
		o.metrics.IncPaymentFailed()
		o.mu.Unlock()
		return "", pkgerrors.New(pkgerrors.CodePaymentDeclined, "payment was not completed")
	}

	snapshot := o.cart.Snapshot()
	payload := o.orderPayloadLocked(snapshot)
	o.busy = true
	o.generation++
	gen := o.generation
	o.mu.Unlock()

	orderID, err := o.api.SubmitOrder(ctx, payload)

	o.mu.Lock()
	o.busy = false
	if gen != o.generation {
		o.mu.Unlock()
		if err == nil && o.logg != nil {
			// the order exists remotely but the session abandoned it
			o.logg.Warn(o.logg.WithField(ctx, "order_id", orderID), "checkout reset while order submission was in flight")
		}
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, "checkout was reset during order submission")
	}
	if err != nil {
		// payment captured but submission failed; stay confirmable for retry
		o.mu.Unlock()
		return "", err
	}

	o.orderID = orderID
	o.submitted = true
	o.state = enums.CheckoutStateCompleted
	saveAddr := o.saveAddress
	addr := o.address
	o.mu.Unlock()

	o.cart.Clear()
	o.metrics.IncCompleted()

	if saveAddr && addr != nil {
		// best effort: a failed save must never block a completed order
		go func(addr types.Address) {
			if err := o.api.SaveAddress(context.WithoutCancel(ctx), addr); err != nil && o.logg != nil {
				o.logg.Error(context.Background(), "failed to save address after checkout", err)
			}
		}(*addr)
	}

	return orderID, nil
}

// Reset abandons the checkout and returns to Idle. The cart is untouched.
// A reset is accepted even while a network call is in flight: the generation
// bump makes the in-flight command discard its result when it lands. The busy
// flag stays with the in-flight call, so new commands wait for it to return.
func (o *Orchestrator) Reset() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = enums.CheckoutStateIdle
	o.method = ""
	o.address = nil
	o.saveAddress = false
	o.fee = decimal.Zero
	o.intent = nil
	o.orderID = ""
	o.submitted = false
	o.generation++
	return nil
}

func (o *Orchestrator) orderPayloadLocked(snapshot cart.Snapshot) backend.OrderPayload {
	lines := make([]backend.OrderLine, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		optionIDs := make([]string, 0, len(line.SelectedOptions))
		for _, opt := range line.SelectedOptions {
			optionIDs = append(optionIDs, opt.ID)
		}
		lines = append(lines, backend.OrderLine{
			CatalogItemID: line.CatalogItemID,
			Name:          line.DisplayName,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			OptionIDs:     optionIDs,
		})
	}

	payload := backend.OrderPayload{
		Lines:          lines,
		Total:          snapshot.Subtotal.Add(o.fee),
		DeliveryMethod: o.method,
		Address:        o.address,
		DeliveryFee:    o.fee,
	}
	if o.intent != nil {
		payload.PaymentIntentID = o.intent.ID
	}
	return payload
}

func errBusy() error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "another checkout request is in flight")
}

func invalidTransition(state enums.CheckoutState, action string) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("cannot %s from state %q", action, state)).
		WithDetails(map[string]any{"state": state.String()})
}
