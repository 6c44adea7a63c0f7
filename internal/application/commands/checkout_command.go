package commands

import (
	"context"
	"sync"

	"github.com/sawa-shop/storefront-service/internal/application/ports"
	"github.com/sawa-shop/storefront-service/internal/domain/cart"
	"github.com/sawa-shop/storefront-service/internal/domain/errors"
	"github.com/sawa-shop/storefront-service/internal/domain/order"
	"github.com/sawa-shop/storefront-service/internal/pkg/logger"
)

// CheckoutState tracks one checkout attempt through the reconciliation
// flow.
type CheckoutState string

const (
	StateIdle            CheckoutState = "idle"
	StateCheckingPending CheckoutState = "checking_pending"
	StateAwaitingChoice  CheckoutState = "awaiting_user_choice"
	StateCreating        CheckoutState = "creating"
	StateAppending       CheckoutState = "appending"
	StateCommitted       CheckoutState = "committed"
	StateFailed          CheckoutState = "failed"
)

// Choice is the user's answer when a pending order already exists.
type Choice string

const (
	ChoiceNewOrder      Choice = "new"
	ChoiceAddToExisting Choice = "append"
)

type BeginCheckoutCommand struct {
	UserID string
	// SelectedVariantIDs limits the attempt to a subset of the cart.
	// Empty means "all items", matching the storefront default.
	SelectedVariantIDs []string
}

type ResolveCheckoutCommand struct {
	UserID string
	Choice Choice
}

// CheckoutResult is the outcome of a Begin or Resolve call. When
// ChoiceRequired is set the attempt is parked in awaiting_user_choice
// and Order carries the pending order the user must decide about;
// otherwise Order is the committed order.
type CheckoutResult struct {
	State          CheckoutState `json:"state"`
	ChoiceRequired bool          `json:"choice_required"`
	Order          *order.Order  `json:"order,omitempty"`
}

// attempt is the per-user in-flight state. Only one attempt may exist
// per user at a time; the selection is snapshotted at Begin and
// re-pruned against the live cart when the attempt resumes.
type attempt struct {
	state       CheckoutState
	selectedIDs []string
	pending     *order.Order
}

// CheckoutHandler drives the checkout reconciliation flow: decide
// between creating a new order and appending to an existing pending
// one, execute exactly one of those outcomes, and on commit remove
// exactly the selected items from the local cart.
type CheckoutHandler struct {
	backend  ports.OrderBackend
	carts    *CartService
	notifier ports.Notifier
	log      *logger.Logger

	mu       sync.Mutex
	attempts map[string]*attempt
}

func NewCheckoutHandler(
	backend ports.OrderBackend,
	carts *CartService,
	notifier ports.Notifier,
	log *logger.Logger,
) *CheckoutHandler {
	return &CheckoutHandler{
		backend:  backend,
		carts:    carts,
		notifier: notifier,
		log:      log,
		attempts: make(map[string]*attempt),
	}
}

// State reports the user's current attempt state, StateIdle when none.
func (h *CheckoutHandler) State(userID string) CheckoutState {
	h.mu.Lock()
	defer h.mu.Unlock()

	if a, ok := h.attempts[userID]; ok {
		return a.state
	}
	return StateIdle
}

// Begin starts a checkout attempt. With no pending order upstream it
// creates a new order immediately; with one it parks the attempt and
// surfaces the choice to the caller.
func (h *CheckoutHandler) Begin(ctx context.Context, cmd BeginCheckoutCommand) (*CheckoutResult, error) {
	c := h.carts.Get(ctx, cmd.UserID)

	var sel *cart.Selection
	if len(cmd.SelectedVariantIDs) == 0 {
		sel = cart.SelectAll(c)
	} else {
		sel = cart.Select(c, cmd.SelectedVariantIDs)
	}

	if sel.IsEmpty() {
		h.notifier.Error(cmd.UserID, "", "Please select items to checkout")
		return nil, errors.ErrEmptySelection
	}

	a, err := h.beginAttempt(cmd.UserID, sel.IDs(c))
	if err != nil {
		return nil, err
	}

	orders, err := h.backend.ListOrders(ctx, ports.OrderFilter{
		UserID: cmd.UserID,
		Role:   order.RoleCreator,
		Status: order.StatusIncomplete,
	})
	if err != nil {
		h.log.Error("Pending order lookup failed", "user_id", cmd.UserID, "error", err)
		h.notifier.Error(cmd.UserID, "Error", "Failed to check existing orders")
		h.endAttempt(cmd.UserID)
		return nil, errors.ErrOrderLookupFailed
	}

	// The backend's ordering is authoritative: the first incomplete
	// order returned is the pending order.
	var pending *order.Order
	for _, o := range orders {
		if o.Status == order.StatusIncomplete {
			pending = o
			break
		}
	}

	if pending != nil {
		h.mu.Lock()
		a.state = StateAwaitingChoice
		a.pending = pending
		h.mu.Unlock()

		h.log.Info("Pending order found, awaiting user choice",
			"user_id", cmd.UserID,
			"order_id", pending.ID,
		)
		return &CheckoutResult{
			State:          StateAwaitingChoice,
			ChoiceRequired: true,
			Order:          pending,
		}, nil
	}

	return h.createNewOrder(ctx, cmd.UserID, a)
}

// Resolve completes an attempt parked in awaiting_user_choice. The
// transition out of awaiting_user_choice happens under the lock, so a
// concurrent duplicate Resolve (a retried request, a second tab) sees
// the attempt already claimed and gets ErrNoPendingChoice instead of
// executing the outcome a second time.
func (h *CheckoutHandler) Resolve(ctx context.Context, cmd ResolveCheckoutCommand) (*CheckoutResult, error) {
	h.mu.Lock()
	a, ok := h.attempts[cmd.UserID]
	if !ok || a.state != StateAwaitingChoice {
		h.mu.Unlock()
		return nil, errors.ErrNoPendingChoice
	}

	switch cmd.Choice {
	case ChoiceNewOrder:
		a.state = StateCreating
	case ChoiceAddToExisting:
		a.state = StateAppending
	default:
		h.mu.Unlock()
		return nil, errors.ErrUnknownChoice
	}
	h.mu.Unlock()

	if cmd.Choice == ChoiceNewOrder {
		return h.createNewOrder(ctx, cmd.UserID, a)
	}
	return h.appendToPendingOrder(ctx, cmd.UserID, a)
}

// Cancel abandons a parked attempt (the user dismissed the choice). The
// cart is untouched.
func (h *CheckoutHandler) Cancel(userID string) {
	h.endAttempt(userID)
}

func (h *CheckoutHandler) beginAttempt(userID string, selectedIDs []string) (*attempt, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.attempts[userID]; ok {
		switch existing.state {
		case StateCheckingPending, StateAwaitingChoice, StateCreating, StateAppending:
			return nil, errors.ErrCheckoutInProgress
		}
	}

	a := &attempt{state: StateCheckingPending, selectedIDs: selectedIDs}
	h.attempts[userID] = a
	return a, nil
}

func (h *CheckoutHandler) endAttempt(userID string) {
	h.mu.Lock()
	delete(h.attempts, userID)
	h.mu.Unlock()
}

func (h *CheckoutHandler) setState(a *attempt, state CheckoutState) {
	h.mu.Lock()
	a.state = state
	h.mu.Unlock()
}

// selectedItems re-reads the cart and prunes the snapshotted selection
// against it, so lines removed since Begin are not committed.
func (h *CheckoutHandler) selectedItems(ctx context.Context, userID string, a *attempt) (*cart.Cart, []cart.Item) {
	c := h.carts.Get(ctx, userID)
	sel := cart.Select(c, a.selectedIDs)
	return c, sel.SelectedItems(c)
}

func (h *CheckoutHandler) createNewOrder(ctx context.Context, userID string, a *attempt) (*CheckoutResult, error) {
	h.setState(a, StateCreating)

	_, items := h.selectedItems(ctx, userID, a)
	if len(items) == 0 {
		h.endAttempt(userID)
		h.notifier.Error(userID, "", "Please select items to checkout")
		return nil, errors.ErrEmptySelection
	}

	inputs := make([]ports.OrderItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, ports.OrderItemInput{
			VariantID: item.Variant.ID,
			Quantity:  item.Quantity,
			OwnerID:   userID,
		})
	}

	created, err := h.backend.CreateOrder(ctx, userID, inputs)
	if err != nil {
		h.log.Error("Order creation failed", "user_id", userID, "error", err)
		h.notifier.Error(userID, "Error", "Failed to create order")
		h.endAttempt(userID)
		return nil, errors.ErrOrderCreateFailed
	}

	h.commit(ctx, userID, a, items)
	h.notifier.Success(userID, "Success", "Order created successfully")
	h.log.Info("Order created", "user_id", userID, "order_id", created.ID, "items", len(items))

	return &CheckoutResult{State: StateCommitted, Order: created}, nil
}

func (h *CheckoutHandler) appendToPendingOrder(ctx context.Context, userID string, a *attempt) (*CheckoutResult, error) {
	h.setState(a, StateAppending)

	pending := a.pending
	_, items := h.selectedItems(ctx, userID, a)
	if len(items) == 0 {
		h.endAttempt(userID)
		h.notifier.Error(userID, "", "Please select items to checkout")
		return nil, errors.ErrEmptySelection
	}

	// One backend call per item, sequential in cart order. A failure
	// mid-way leaves earlier appends in place: there is no rollback,
	// only a failure notification, and the local cart stays intact.
	for _, item := range items {
		err := h.backend.AppendOrderItem(ctx, pending.ID, ports.OrderItemInput{
			VariantID: item.Variant.ID,
			Quantity:  item.Quantity,
			OwnerID:   userID,
		})
		if err != nil {
			h.log.Error("Append to pending order failed",
				"user_id", userID,
				"order_id", pending.ID,
				"variant_id", item.Variant.ID,
				"error", err,
			)
			h.notifier.Error(userID, "Error", "Failed to add items to order")
			h.endAttempt(userID)
			return nil, errors.ErrOrderAppendFailed
		}
	}

	h.commit(ctx, userID, a, items)
	h.notifier.Success(userID, "Success", "Items added to existing order")
	h.log.Info("Items appended to pending order",
		"user_id", userID,
		"order_id", pending.ID,
		"items", len(items),
	)

	return &CheckoutResult{State: StateCommitted, Order: pending}, nil
}

// commit removes exactly the committed lines from the cart and retires
// the attempt. Unselected lines stay for a future checkout.
func (h *CheckoutHandler) commit(ctx context.Context, userID string, a *attempt, items []cart.Item) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Variant.ID)
	}
	h.carts.RemoveCommitted(ctx, userID, ids)

	h.mu.Lock()
	a.state = StateCommitted
	delete(h.attempts, userID)
	h.mu.Unlock()
}
