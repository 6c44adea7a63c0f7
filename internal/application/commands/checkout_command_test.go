package commands

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawa-shop/storefront-service/internal/application/ports"
	"github.com/sawa-shop/storefront-service/internal/domain/catalog"
	domainerrors "github.com/sawa-shop/storefront-service/internal/domain/errors"
	"github.com/sawa-shop/storefront-service/internal/domain/order"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/persistence/memory"
	"github.com/sawa-shop/storefront-service/internal/pkg/logger"
)

// fakeBackend records every order call and lets tests inject pending
// orders and failures.
type fakeBackend struct {
	mu sync.Mutex

	orders    []*order.Order
	listErr   error
	createErr error

	// failAppendAt fails the Nth append call (1-based); 0 never fails.
	failAppendAt int
	appendErr    error

	// When set, CreateOrder signals createStarted and then blocks until
	// createRelease is closed, holding the attempt in flight.
	createStarted chan struct{}
	createRelease chan struct{}

	createCalls [][]ports.OrderItemInput
	appendCalls []ports.OrderItemInput
	appendedTo  []string
}

func (f *fakeBackend) ListOrders(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.orders, nil
}

func (f *fakeBackend) GetOrder(ctx context.Context, orderID string) (*order.Order, error) {
	for _, o := range f.orders {
		if o.ID == orderID {
			return o, nil
		}
	}
	return nil, domainerrors.ErrOrderNotFound
}

func (f *fakeBackend) CreateOrder(ctx context.Context, creatorID string, items []ports.OrderItemInput) (*order.Order, error) {
	if f.createStarted != nil {
		f.createStarted <- struct{}{}
	}
	if f.createRelease != nil {
		<-f.createRelease
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createCalls = append(f.createCalls, items)
	return &order.Order{ID: "order-new", CreatorID: creatorID, Status: order.StatusIncomplete}, nil
}

func (f *fakeBackend) AppendOrderItem(ctx context.Context, orderID string, item ports.OrderItemInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAppendAt > 0 && len(f.appendCalls)+1 == f.failAppendAt {
		return f.appendErr
	}
	f.appendCalls = append(f.appendCalls, item)
	f.appendedTo = append(f.appendedTo, orderID)
	return nil
}

func (f *fakeBackend) SubmitMysteryBoxContents(ctx context.Context, orderID, itemID string, contents ports.MysteryBoxContents) error {
	return nil
}

func (f *fakeBackend) FulfillOrder(ctx context.Context, orderID string) (*order.Order, error) {
	return f.GetOrder(ctx, orderID)
}

func (f *fakeBackend) CancelOrder(ctx context.Context, orderID, reason string) (*order.Order, error) {
	return f.GetOrder(ctx, orderID)
}

// fakeNotifier records toast messages instead of emitting them.
type fakeNotifier struct {
	successes []string
	errors    []string
}

func (f *fakeNotifier) Success(userID, title, message string) {
	f.successes = append(f.successes, message)
}

func (f *fakeNotifier) Error(userID, title, message string) {
	f.errors = append(f.errors, message)
}

func checkoutVariant(id string) catalog.Variant {
	return catalog.Variant{
		ID:    id,
		Name:  "Variant " + id,
		Price: &catalog.Price{Amount: 500, Currency: "USD"},
	}
}

func newCheckoutFixture() (*CheckoutHandler, *CartService, *fakeBackend, *fakeNotifier) {
	log := logger.NewLogger()
	backend := &fakeBackend{}
	notifier := &fakeNotifier{}
	carts := NewCartService(memory.NewCartStore(), log)
	handler := NewCheckoutHandler(backend, carts, notifier, log)
	return handler, carts, backend, notifier
}

func seedCart(carts *CartService, userID string, ids ...string) {
	ctx := context.Background()
	for i, id := range ids {
		carts.Add(ctx, userID, checkoutVariant(id), i+1)
	}
}

func pendingOrder(id string) *order.Order {
	return &order.Order{ID: id, CreatorID: "u1", Status: order.StatusIncomplete}
}

func TestCheckout_Begin(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart rejects the attempt", func(t *testing.T) {
		handler, _, backend, notifier := newCheckoutFixture()

		result, err := handler.Begin(ctx, BeginCheckoutCommand{UserID: "u1"})

		require.ErrorIs(t, err, domainerrors.ErrEmptySelection)
		assert.Nil(t, result)
		assert.Empty(t, backend.createCalls)
		assert.Contains(t, notifier.errors, "Please select items to checkout")
		assert.Equal(t, StateIdle, handler.State("u1"))
	})

	t.Run("no pending order creates a new one", func(t *testing.T) {
		handler, carts, backend, notifier := newCheckoutFixture()
		seedCart(carts, "u1", "a", "b")

		result, err := handler.Begin(ctx, BeginCheckoutCommand{UserID: "u1"})

		require.NoError(t, err)
		assert.Equal(t, StateCommitted, result.State)
		assert.False(t, result.ChoiceRequired)
		require.NotNil(t, result.Order)
		assert.Equal(t, "order-new", result.Order.ID)

		require.Len(t, backend.createCalls, 1)
		items := backend.createCalls[0]
		require.Len(t, items, 2)
		assert.Equal(t, "a", items[0].VariantID)
		assert.Equal(t, 1, items[0].Quantity)
		assert.Equal(t, "u1", items[0].OwnerID)
		assert.Equal(t, "b", items[1].VariantID)
		assert.Equal(t, 2, items[1].Quantity)
		assert.Empty(t, backend.appendCalls)

		assert.True(t, carts.Get(ctx, "u1").IsEmpty())
		assert.Contains(t, notifier.successes, "Order created successfully")
		assert.Equal(t, StateIdle, handler.State("u1"))
	})

	t.Run("commit removes only the selected lines", func(t *testing.T) {
		handler, carts, backend, _ := newCheckoutFixture()
		seedCart(carts, "u1", "a", "b", "c")

		result, err := handler.Begin(ctx, BeginCheckoutCommand{
			UserID:             "u1",
			SelectedVariantIDs: []string{"a", "c"},
		})

		require.NoError(t, err)
		assert.Equal(t, StateCommitted, result.State)

		require.Len(t, backend.createCalls, 1)
		require.Len(t, backend.createCalls[0], 2)
		assert.Equal(t, "a", backend.createCalls[0][0].VariantID)
		assert.Equal(t, "c", backend.createCalls[0][1].VariantID)

		remaining := carts.Get(ctx, "u1")
		assert.Equal(t, 1, remaining.Len())
		assert.True(t, remaining.Contains("b"))
	})

	t.Run("selection of unknown variants counts as empty", func(t *testing.T) {
		handler, carts, _, _ := newCheckoutFixture()
		seedCart(carts, "u1", "a")

		_, err := handler.Begin(ctx, BeginCheckoutCommand{
			UserID:             "u1",
			SelectedVariantIDs: []string{"nope"},
		})

		require.ErrorIs(t, err, domainerrors.ErrEmptySelection)
	})

	t.Run("pending order parks the attempt for a choice", func(t *testing.T) {
		handler, carts, backend, _ := newCheckoutFixture()
		seedCart(carts, "u1", "a")
		backend.orders = []*order.Order{pendingOrder("order-77")}

		result, err := handler.Begin(ctx, BeginCheckoutCommand{UserID: "u1"})

		require.NoError(t, err)
		assert.True(t, result.ChoiceRequired)
		assert.Equal(t, StateAwaitingChoice, result.State)
		require.NotNil(t, result.Order)
		assert.Equal(t, "order-77", result.Order.ID)

		assert.Empty(t, backend.createCalls)
		assert.Empty(t, backend.appendCalls)
		assert.False(t, carts.Get(ctx, "u1").IsEmpty())
		assert.Equal(t, StateAwaitingChoice, handler.State("u1"))
	})

	t.Run("first incomplete order wins when several exist", func(t *testing.T) {
		handler, carts, backend, _ := newCheckoutFixture()
		seedCart(carts, "u1", "a")
		backend.orders = []*order.Order{
			pendingOrder("order-first"),
			pendingOrder("order-second"),
		}

		result, err := handler.Begin(ctx, BeginCheckoutCommand{UserID: "u1"})

		require.NoError(t, err)
		assert.Equal(t, "order-first", result.Order.ID)
	})

	t.Run("lookup failure aborts without touching the cart", func(t *testing.T) {
		handler, carts, backend, notifier := newCheckoutFixture()
		seedCart(carts, "u1", "a")
		backend.listErr = domainerrors.ErrBackendUnavailable

		_, err := handler.Begin(ctx, BeginCheckoutCommand{UserID: "u1"})

		require.ErrorIs(t, err, domainerrors.ErrOrderLookupFailed)
		assert.Contains(t, notifier.errors, "Failed to check existing orders")
		assert.False(t, carts.Get(ctx, "u1").IsEmpty())
		assert.Equal(t, StateIdle, handler.State("u1"))
	})

	t.Run("create failure leaves the cart intact", func(t *testing.T) {
		handler, carts, backend, notifier := newCheckoutFixture()
		seedCart(carts, "u1", "a", "b")
		backend.createErr = domainerrors.ErrBackendUnavailable

		_, err := handler.Begin(ctx, BeginCheckoutCommand{UserID: "u1"})

		require.ErrorIs(t, err, domainerrors.ErrOrderCreateFailed)
		assert.Contains(t, notifier.errors, "Failed to create order")
		assert.Equal(t, 2, carts.Get(ctx, "u1").Len())
		assert.Equal(t, StateIdle, handler.State("u1"))
	})

	t.Run("second begin while awaiting choice is rejected", func(t *testing.T) {
		handler, carts, backend, _ := newCheckoutFixture()
		seedCart(carts, "u1", "a")
		backend.orders = []*order.Order{pendingOrder("order-77")}

		_, err := handler.Begin(ctx, BeginCheckoutCommand{UserID: "u1"})
		require.NoError(t, err)

		_, err = handler.Begin(ctx, BeginCheckoutCommand{UserID: "u1"})
		require.ErrorIs(t, err, domainerrors.ErrCheckoutInProgress)
	})

	t.Run("attempts are per user", func(t *testing.T) {
		handler, carts, backend, _ := newCheckoutFixture()
		seedCart(carts, "u1", "a")
		seedCart(carts, "u2", "b")
		backend.orders = []*order.Order{pendingOrder("order-77")}

		_, err := handler.Begin(ctx, BeginCheckoutCommand{UserID: "u1"})
		require.NoError(t, err)

		backend.orders = nil
		result, err := handler.Begin(ctx, BeginCheckoutCommand{UserID: "u2"})
		require.NoError(t, err)
		assert.Equal(t, StateCommitted, result.State)
	})
}

func TestCheckout_Resolve(t *testing.T) {
	ctx := context.Background()

	park := func(t *testing.T, handler *CheckoutHandler, carts *CartService, backend *fakeBackend, ids ...string) {
		t.Helper()
		seedCart(carts, "u1", ids...)
		backend.orders = []*order.Order{pendingOrder("order-77")}
		result, err := handler.Begin(ctx, BeginCheckoutCommand{UserID: "u1"})
		require.NoError(t, err)
		require.True(t, result.ChoiceRequired)
	}

	t.Run("append sends one call per item in cart order", func(t *testing.T) {
		handler, carts, backend, notifier := newCheckoutFixture()
		park(t, handler, carts, backend, "a", "b", "c")

		result, err := handler.Resolve(ctx, ResolveCheckoutCommand{UserID: "u1", Choice: ChoiceAddToExisting})

		require.NoError(t, err)
		assert.Equal(t, StateCommitted, result.State)
		assert.Equal(t, "order-77", result.Order.ID)

		assert.Empty(t, backend.createCalls)
		require.Len(t, backend.appendCalls, 3)
		assert.Equal(t, "a", backend.appendCalls[0].VariantID)
		assert.Equal(t, "b", backend.appendCalls[1].VariantID)
		assert.Equal(t, "c", backend.appendCalls[2].VariantID)
		assert.Equal(t, []string{"order-77", "order-77", "order-77"}, backend.appendedTo)

		assert.True(t, carts.Get(ctx, "u1").IsEmpty())
		assert.Contains(t, notifier.successes, "Items added to existing order")
	})

	t.Run("new order ignores the pending one", func(t *testing.T) {
		handler, carts, backend, _ := newCheckoutFixture()
		park(t, handler, carts, backend, "a", "b")

		result, err := handler.Resolve(ctx, ResolveCheckoutCommand{UserID: "u1", Choice: ChoiceNewOrder})

		require.NoError(t, err)
		assert.Equal(t, "order-new", result.Order.ID)
		require.Len(t, backend.createCalls, 1)
		assert.Empty(t, backend.appendCalls)
		assert.True(t, carts.Get(ctx, "u1").IsEmpty())
	})

	t.Run("append failure mid-way leaves the cart untouched", func(t *testing.T) {
		handler, carts, backend, notifier := newCheckoutFixture()
		park(t, handler, carts, backend, "a", "b", "c")
		backend.failAppendAt = 2
		backend.appendErr = domainerrors.ErrBackendUnavailable

		_, err := handler.Resolve(ctx, ResolveCheckoutCommand{UserID: "u1", Choice: ChoiceAddToExisting})

		require.ErrorIs(t, err, domainerrors.ErrOrderAppendFailed)
		// The first append landed upstream; there is no rollback.
		require.Len(t, backend.appendCalls, 1)
		assert.Equal(t, "a", backend.appendCalls[0].VariantID)

		remaining := carts.Get(ctx, "u1")
		assert.Equal(t, 3, remaining.Len())
		assert.Contains(t, notifier.errors, "Failed to add items to order")
		assert.Equal(t, StateIdle, handler.State("u1"))
	})

	t.Run("items removed since begin are not committed", func(t *testing.T) {
		handler, carts, backend, _ := newCheckoutFixture()
		park(t, handler, carts, backend, "a", "b", "c")

		carts.Remove(ctx, "u1", "b")

		_, err := handler.Resolve(ctx, ResolveCheckoutCommand{UserID: "u1", Choice: ChoiceAddToExisting})

		require.NoError(t, err)
		require.Len(t, backend.appendCalls, 2)
		assert.Equal(t, "a", backend.appendCalls[0].VariantID)
		assert.Equal(t, "c", backend.appendCalls[1].VariantID)
	})

	t.Run("resolve without a parked attempt is rejected", func(t *testing.T) {
		handler, _, _, _ := newCheckoutFixture()

		_, err := handler.Resolve(ctx, ResolveCheckoutCommand{UserID: "u1", Choice: ChoiceNewOrder})

		require.ErrorIs(t, err, domainerrors.ErrNoPendingChoice)
	})

	t.Run("unknown choice is rejected", func(t *testing.T) {
		handler, carts, backend, _ := newCheckoutFixture()
		park(t, handler, carts, backend, "a")

		_, err := handler.Resolve(ctx, ResolveCheckoutCommand{UserID: "u1", Choice: "maybe"})

		require.ErrorIs(t, err, domainerrors.ErrUnknownChoice)
		assert.Equal(t, StateAwaitingChoice, handler.State("u1"))
	})

	t.Run("duplicate resolve while the first is in flight is rejected", func(t *testing.T) {
		handler, carts, backend, _ := newCheckoutFixture()
		park(t, handler, carts, backend, "a")
		backend.createStarted = make(chan struct{}, 1)
		backend.createRelease = make(chan struct{})

		type outcome struct {
			result *CheckoutResult
			err    error
		}
		done := make(chan outcome, 1)
		go func() {
			result, err := handler.Resolve(ctx, ResolveCheckoutCommand{UserID: "u1", Choice: ChoiceNewOrder})
			done <- outcome{result, err}
		}()

		// The first resolve has claimed the attempt and is blocked inside
		// the backend call; a retried resolve must not execute it again.
		<-backend.createStarted
		_, err := handler.Resolve(ctx, ResolveCheckoutCommand{UserID: "u1", Choice: ChoiceNewOrder})
		require.ErrorIs(t, err, domainerrors.ErrNoPendingChoice)

		close(backend.createRelease)
		first := <-done
		require.NoError(t, first.err)
		assert.Equal(t, StateCommitted, first.result.State)
		require.Len(t, backend.createCalls, 1)
	})

	t.Run("cancel abandons the parked attempt", func(t *testing.T) {
		handler, carts, backend, _ := newCheckoutFixture()
		park(t, handler, carts, backend, "a")

		handler.Cancel("u1")

		assert.Equal(t, StateIdle, handler.State("u1"))
		assert.False(t, carts.Get(ctx, "u1").IsEmpty())

		_, err := handler.Resolve(ctx, ResolveCheckoutCommand{UserID: "u1", Choice: ChoiceNewOrder})
		require.ErrorIs(t, err, domainerrors.ErrNoPendingChoice)
	})
}
