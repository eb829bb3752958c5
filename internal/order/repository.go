package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound     = errors.New("order not found")
	ErrIDMismatch   = errors.New("order id mismatch")
	ErrInvalidOrder = errors.New("invalid order")
)

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID int64) (*Order, error)
	List(ctx context.Context, userID string) ([]Order, error)
	Update(ctx context.Context, orderID int64, p Patch) (*Order, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create persists the header and all lines as one transaction; a partially
// created order (header without lines) is never observable. Status defaults
// to Pending, TotalItems is derived from the lines.
func (r *PostgresRepository) Create(ctx context.Context, o *Order) error {
	if o.PickupName == "" {
		return fmt.Errorf("%w: pickup name is required", ErrInvalidOrder)
	}
	if o.PickupPhone == "" {
		return fmt.Errorf("%w: pickup phone is required", ErrInvalidOrder)
	}
	if o.PickupEmail == "" {
		return fmt.Errorf("%w: pickup email is required", ErrInvalidOrder)
	}

	if o.Status == "" {
		o.Status = StatusPending
	}
	o.TotalItems = 0
	for _, l := range o.Lines {
		o.TotalItems += l.Quantity
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, pickup_name, pickup_phone, pickup_email, order_total, total_items, payment_intent_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, order_date`,
		o.UserID, o.PickupName, o.PickupPhone, o.PickupEmail, o.Total, o.TotalItems, o.PaymentIntentID, o.Status,
	).Scan(&o.ID, &o.OrderDate)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, l := range o.Lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, menu_item_id, item_name, price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.NewString(), o.ID, l.MenuItemID, l.ItemName, l.Price, l.Quantity,
		); err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, orderID int64) (*Order, error) {
	var o Order
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, pickup_name, pickup_phone, pickup_email, order_total, total_items, payment_intent_id, status, order_date
		FROM orders WHERE id=$1`, orderID,
	).Scan(&o.ID, &o.UserID, &o.PickupName, &o.PickupPhone, &o.PickupEmail, &o.Total, &o.TotalItems, &o.PaymentIntentID, &o.Status, &o.OrderDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	if err := r.loadLines(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// List returns orders newest-first, strictly descending by order id. An
// empty userID returns every order.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]Order, error) {
	const base = `
		SELECT id, user_id, pickup_name, pickup_phone, pickup_email, order_total, total_items, payment_intent_id, status, order_date
		FROM orders`

	var rows pgx.Rows
	var err error
	if userID == "" {
		rows, err = r.pool.Query(ctx, base+` ORDER BY id DESC`)
	} else {
		rows, err = r.pool.Query(ctx, base+` WHERE user_id=$1 ORDER BY id DESC`, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.PickupName, &o.PickupPhone, &o.PickupEmail, &o.Total, &o.TotalItems, &o.PaymentIntentID, &o.Status, &o.OrderDate); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range orders {
		if err := r.loadLines(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// Update applies a field-level merge: each non-empty patch field overwrites
// the order field, everything else is left as-is. Status is written without
// transition validation. Lines and totals are never touched.
func (r *PostgresRepository) Update(ctx context.Context, orderID int64, p Patch) (*Order, error) {
	if p.ID != orderID {
		return nil, ErrIDMismatch
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var o Order
	err = tx.QueryRow(ctx, `
		SELECT id, user_id, pickup_name, pickup_phone, pickup_email, order_total, total_items, payment_intent_id, status, order_date
		FROM orders WHERE id=$1 FOR UPDATE`, orderID,
	).Scan(&o.ID, &o.UserID, &o.PickupName, &o.PickupPhone, &o.PickupEmail, &o.Total, &o.TotalItems, &o.PaymentIntentID, &o.Status, &o.OrderDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	if p.PickupName != "" {
		o.PickupName = p.PickupName
	}
	if p.PickupPhone != "" {
		o.PickupPhone = p.PickupPhone
	}
	if p.PickupEmail != "" {
		o.PickupEmail = p.PickupEmail
	}
	if p.PaymentIntentID != "" {
		o.PaymentIntentID = p.PaymentIntentID
	}
	if p.Status != "" {
		o.Status = p.Status
	}

	if _, err := tx.Exec(ctx, `
		UPDATE orders SET pickup_name=$2, pickup_phone=$3, pickup_email=$4, payment_intent_id=$5, status=$6
		WHERE id=$1`,
		o.ID, o.PickupName, o.PickupPhone, o.PickupEmail, o.PaymentIntentID, o.Status,
	); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	if err := r.loadLines(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PostgresRepository) loadLines(ctx context.Context, o *Order) error {
	rows, err := r.pool.Query(ctx, `
		SELECT menu_item_id, item_name, price, quantity
		FROM order_items WHERE order_id=$1
		ORDER BY menu_item_id`, o.ID)
	if err != nil {
		return fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.MenuItemID, &l.ItemName, &l.Price, &l.Quantity); err != nil {
			return fmt.Errorf("scan order_item: %w", err)
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows: %w", err)
	}
	return nil
}
