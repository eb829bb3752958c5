package menu

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("menu item not found")

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository interface {
	Lookup(ctx context.Context, menuItemID int64) (Item, error)
	List(ctx context.Context) ([]Item, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Lookup(ctx context.Context, menuItemID int64) (Item, error) {
	var it Item
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, description, price, category, special_tag FROM menu_items WHERE id=$1`,
		menuItemID)
	if err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.Category, &it.SpecialTag); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return it, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, price, category, special_tag FROM menu_items ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.Category, &it.SpecialTag); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
