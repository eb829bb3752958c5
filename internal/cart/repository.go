package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound         = errors.New("cart not found")
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrInvalidDelta     = errors.New("nothing to decrement")
	ErrConflict         = errors.New("concurrent cart mutation")
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type Repository interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	ApplyDelta(ctx context.Context, userID string, menuItemID int64, delta int) (*Cart, error)
	AttachPaymentRef(ctx context.Context, userID, paymentIntentID, clientSecret string) error
	Clear(ctx context.Context, userID string) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get loads the user's cart with each line joined against the live menu
// catalog. The total is a read-time projection, never a stored column.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*Cart, error) {
	var c Cart
	row := r.pool.QueryRow(ctx,
		`SELECT id, user_id, payment_intent_id, client_secret, updated_at FROM carts WHERE user_id=$1`,
		userID)
	if err := row.Scan(&c.ID, &c.UserID, &c.PaymentIntentID, &c.ClientSecret, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT ci.menu_item_id, m.name, m.price, ci.quantity
		FROM cart_items ci
		JOIN menu_items m ON m.id = ci.menu_item_id
		WHERE ci.cart_id=$1
		ORDER BY ci.menu_item_id`, c.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.MenuItemID, &l.ItemName, &l.Price, &l.Quantity); err != nil {
			return nil, err
		}
		c.Lines = append(c.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	c.ComputeTotal()
	return &c, nil
}

// ApplyDelta is the sole line-mutation entry point. It runs as one
// transaction: the cart row and the affected line are locked with
// SELECT ... FOR UPDATE so concurrent deltas on the same line serialize
// instead of overwriting each other's read.
//
// A delta of 0 on an existing line removes the line, as does any delta that
// drives the quantity to 0 or below. Removing the last line removes the
// cart. The returned cart is the post-mutation read; nil means the cart no
// longer exists.
func (r *PostgresRepository) ApplyDelta(ctx context.Context, userID string, menuItemID int64, delta int) (*Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var itemID int64
	if err := tx.QueryRow(ctx, `SELECT id FROM menu_items WHERE id=$1`, menuItemID).Scan(&itemID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}

	var cartID string
	err = tx.QueryRow(ctx, `SELECT id FROM carts WHERE user_id=$1 FOR UPDATE`, userID).Scan(&cartID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if delta <= 0 {
			return nil, ErrInvalidDelta
		}
		cartID, err = r.createCart(ctx, tx, userID)
		if err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO cart_items (id, cart_id, menu_item_id, quantity) VALUES ($1, $2, $3, $4)`,
			uuid.NewString(), cartID, menuItemID, delta); err != nil {
			return nil, mapConflict(err)
		}
	case err != nil:
		return nil, err
	default:
		if err := r.applyToExistingCart(ctx, tx, cartID, menuItemID, delta); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	c, err := r.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		// last line removed, cart gone
		return nil, nil
	}
	return c, err
}

// createCart is the find-or-create half of a first item addition. The unique
// constraint on (user_id) keeps concurrent first-adds down to one cart row;
// the loser of the insert race locks the winner's row instead.
func (r *PostgresRepository) createCart(ctx context.Context, tx pgx.Tx, userID string) (string, error) {
	var cartID string
	err := tx.QueryRow(ctx,
		`INSERT INTO carts (id, user_id) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING RETURNING id`,
		uuid.NewString(), userID).Scan(&cartID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx, `SELECT id FROM carts WHERE user_id=$1 FOR UPDATE`, userID).Scan(&cartID)
	}
	if err != nil {
		return "", err
	}
	return cartID, nil
}

func (r *PostgresRepository) applyToExistingCart(ctx context.Context, tx pgx.Tx, cartID string, menuItemID int64, delta int) error {
	var lineID string
	var quantity int
	err := tx.QueryRow(ctx,
		`SELECT id, quantity FROM cart_items WHERE cart_id=$1 AND menu_item_id=$2 FOR UPDATE`,
		cartID, menuItemID).Scan(&lineID, &quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		if delta <= 0 {
			return ErrInvalidDelta
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO cart_items (id, cart_id, menu_item_id, quantity) VALUES ($1, $2, $3, $4)`,
			uuid.NewString(), cartID, menuItemID, delta); err != nil {
			return mapConflict(err)
		}
		return r.touchCart(ctx, tx, cartID)
	}
	if err != nil {
		return err
	}

	newQuantity := quantity + delta
	if delta == 0 || newQuantity <= 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE id=$1`, lineID); err != nil {
			return err
		}
		var remaining int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM cart_items WHERE cart_id=$1`, cartID).Scan(&remaining); err != nil {
			return err
		}
		if remaining == 0 {
			_, err := tx.Exec(ctx, `DELETE FROM carts WHERE id=$1`, cartID)
			return err
		}
		return r.touchCart(ctx, tx, cartID)
	}

	if _, err := tx.Exec(ctx, `UPDATE cart_items SET quantity=$2 WHERE id=$1`, lineID, newQuantity); err != nil {
		return err
	}
	return r.touchCart(ctx, tx, cartID)
}

func (r *PostgresRepository) touchCart(ctx context.Context, tx pgx.Tx, cartID string) error {
	_, err := tx.Exec(ctx, `UPDATE carts SET updated_at=now() WHERE id=$1`, cartID)
	return err
}

// AttachPaymentRef records the provider handle on the cart for traceability.
// It does not gate checkout.
func (r *PostgresRepository) AttachPaymentRef(ctx context.Context, userID, paymentIntentID, clientSecret string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE carts SET payment_intent_id=$2, client_secret=$3, updated_at=now() WHERE user_id=$1`,
		userID, paymentIntentID, clientSecret)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear removes the user's cart and, via cascade, its lines.
func (r *PostgresRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE user_id=$1`, userID)
	return err
}

func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrConflict
	}
	return err
}
