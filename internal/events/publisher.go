package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/vincentmpho/food-service-go/internal/order"
)

// Publisher emits order lifecycle events. Publishing is best-effort from the
// caller's point of view: an order that committed stays committed even if the
// broker is down.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, o *order.Order) error
	PublishOrderStatusChanged(ctx context.Context, o *order.Order, oldStatus order.Status) error
	Close() error
}

// SequenceRepository hands out monotonically increasing sequence numbers per
// partition key so consumers can detect gaps and reorderings.
type SequenceRepository interface {
	NextSequence(ctx context.Context, partitionKey string) (int64, error)
}

type RabbitPublisher struct {
	ch        *amqp.Channel
	sequences SequenceRepository
}

func NewRabbitPublisher(conn *amqp.Connection, sequences SequenceRepository) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareEventsExchange(ch); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &RabbitPublisher{ch: ch, sequences: sequences}, nil
}

func (p *RabbitPublisher) PublishOrderCreated(ctx context.Context, o *order.Order) error {
	lines := make([]OrderLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLine{MenuItemID: l.MenuItemID, ItemName: l.ItemName, Price: l.Price, Quantity: l.Quantity})
	}
	payload := OrderCreated{
		OrderID:    o.ID,
		UserID:     o.UserID,
		Total:      o.Total,
		TotalItems: o.TotalItems,
		Status:     string(o.Status),
		Lines:      lines,
		Timestamp:  time.Now().UTC(),
	}
	return publish(ctx, p, EventNameOrderCreated, OrderCreatedRoutingKey, o.ID, payload)
}

func (p *RabbitPublisher) PublishOrderStatusChanged(ctx context.Context, o *order.Order, oldStatus order.Status) error {
	payload := OrderStatusChanged{
		OrderID:   o.ID,
		UserID:    o.UserID,
		OldStatus: string(oldStatus),
		NewStatus: string(o.Status),
		Timestamp: time.Now().UTC(),
	}
	return publish(ctx, p, EventNameOrderStatusChanged, OrderStatusChangedRoutingKey, o.ID, payload)
}

func publish[T any](ctx context.Context, p *RabbitPublisher, eventName, routingKey string, orderID int64, payload T) error {
	partitionKey := "order-" + strconv.FormatInt(orderID, 10)

	seq, err := p.sequences.NextSequence(ctx, partitionKey)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	env := EventEnvelope[T]{
		EventName:    eventName,
		EventVersion: eventVersion,
		EventID:      uuid.NewString(),
		Producer:     producerName,
		PartitionKey: partitionKey,
		Sequence:     &seq,
		OccurredAt:   time.Now().UTC(),
		Payload:      payload,
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", eventName, err)
	}

	return p.ch.PublishWithContext(ctx, EventsExchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    env.EventID,
		Timestamp:    env.OccurredAt,
		Body:         body,
	})
}

func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}

// NoopPublisher is used when no broker is configured and in tests.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(context.Context, *order.Order) error { return nil }
func (NoopPublisher) PublishOrderStatusChanged(context.Context, *order.Order, order.Status) error {
	return nil
}
func (NoopPublisher) Close() error { return nil }
