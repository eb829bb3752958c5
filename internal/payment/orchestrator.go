package payment

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/vincentmpho/food-service-go/internal/cart"
)

var ErrEmptyCart = errors.New("shopping cart is empty or does not exist")

// Handle is what the rest of the system keeps about an authorization: the
// provider transaction id plus the client-side continuation secret.
type Handle struct {
	ProviderTransactionID string  `json:"paymentIntentId"`
	ClientSecret          string  `json:"clientSecret"`
	Amount                float64 `json:"amount"`
	Currency              string  `json:"currency"`
}

// CartStore is the slice of cart.Repository the orchestrator needs.
type CartStore interface {
	Get(ctx context.Context, userID string) (*cart.Cart, error)
	AttachPaymentRef(ctx context.Context, userID, paymentIntentID, clientSecret string) error
}

// Orchestrator requests one authorization for the cart's current total. The
// total is re-priced from the live catalog at authorization time (the cart
// read joins the catalog), not taken from any stale snapshot. No retry is
// attempted here; each call uses a fresh idempotency key.
type Orchestrator struct {
	carts    CartStore
	provider Provider
	currency string
}

func NewOrchestrator(carts CartStore, provider Provider, currency string) *Orchestrator {
	return &Orchestrator{carts: carts, provider: provider, currency: currency}
}

func (o *Orchestrator) Authorize(ctx context.Context, userID string) (*Handle, error) {
	c, err := o.carts.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if len(c.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	auth, err := o.provider.CreateAuthorization(ctx, MinorUnits(c.Total), o.currency, uuid.NewString())
	if err != nil {
		return nil, err
	}

	if err := o.carts.AttachPaymentRef(ctx, userID, auth.ProviderTransactionID, auth.ClientSecret); err != nil {
		return nil, err
	}

	return &Handle{
		ProviderTransactionID: auth.ProviderTransactionID,
		ClientSecret:          auth.ClientSecret,
		Amount:                c.Total,
		Currency:              o.currency,
	}, nil
}

// MinorUnits converts a decimal total to integer minor units (cents),
// rounding half-up to the nearest cent.
func MinorUnits(total float64) int64 {
	return int64(math.Floor(total*100 + 0.5))
}
