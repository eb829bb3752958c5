package checkout

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/vincentmpho/food-service-go/internal/cart"
	"github.com/vincentmpho/food-service-go/internal/order"
	"github.com/vincentmpho/food-service-go/internal/payment"
)

var ErrEmptyCart = payment.ErrEmptyCart

type ContactInfo struct {
	Name  string `json:"pickupName"`
	Phone string `json:"pickupPhone"`
	Email string `json:"pickupEmail"`
}

type CartReader interface {
	Get(ctx context.Context, userID string) (*cart.Cart, error)
}

type Authorizer interface {
	Authorize(ctx context.Context, userID string) (*payment.Handle, error)
}

type OrderCreator interface {
	Create(ctx context.Context, o *order.Order) error
}

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, o *order.Order) error
}

// Coordinator sequences one checkout: read the cart, authorize payment,
// materialize the order snapshot. The two cross-component steps are not a
// distributed transaction: a successful authorization is not voided when
// order creation fails, and the cart is not cleared afterward. Cart cleanup
// is an explicit, separate call by the client.
type Coordinator struct {
	carts    CartReader
	payments Authorizer
	orders   OrderCreator
	events   EventPublisher
}

func NewCoordinator(carts CartReader, payments Authorizer, orders OrderCreator, events EventPublisher) *Coordinator {
	return &Coordinator{carts: carts, payments: payments, orders: orders, events: events}
}

func (c *Coordinator) Checkout(ctx context.Context, userID string, info ContactInfo) (*order.Order, error) {
	crt, err := c.carts.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if len(crt.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	handle, err := c.payments.Authorize(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, 0, len(crt.Lines))
	for _, l := range crt.Lines {
		lines = append(lines, order.Line{
			MenuItemID: l.MenuItemID,
			ItemName:   l.ItemName,
			Price:      l.Price,
			Quantity:   l.Quantity,
		})
	}

	o := &order.Order{
		UserID:          userID,
		PickupName:      info.Name,
		PickupPhone:     info.Phone,
		PickupEmail:     info.Email,
		Lines:           lines,
		Total:           handle.Amount,
		PaymentIntentID: handle.ProviderTransactionID,
	}

	if err := c.orders.Create(ctx, o); err != nil {
		// The authorization stands; the caller may retry the order leg.
		return nil, err
	}

	if err := c.events.PublishOrderCreated(ctx, o); err != nil {
		logrus.WithError(err).WithField("order_id", o.ID).Warn("failed to publish order created event")
	}

	return o, nil
}
