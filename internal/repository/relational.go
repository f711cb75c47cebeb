// Package repository exécute les lectures de l'API. Chaque appel ouvre sa propre
// connexion et la referme avant de rendre la main, succès ou erreur.
package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"olist_back_end/internal/apperr"
	"olist_back_end/internal/config"
	"olist_back_end/internal/database"
	"olist_back_end/internal/models"
)

const (
	customersQuery = `SELECT customer_id, customer_unique_id, customer_zip_code_prefix, customer_city, customer_state
		FROM customers`

	ordersQuery = `SELECT order_id, customer_id, order_status,
			order_purchase_timestamp, order_approved_at,
			order_delivered_carrier_date, order_delivered_customer_date,
			order_estimated_delivery_date
		FROM orders`

	orderItemsQuery = `SELECT order_item_id, order_id, product_id, seller_id, shipping_limit_date, price, freight_value
		FROM order_items`
)

// Relational lit les tables customers, orders et order_items.
type Relational struct {
	connect func(ctx context.Context) (*pgx.Conn, error)
}

func NewRelational(cfg config.PostgresConfig) *Relational {
	return &Relational{
		connect: func(ctx context.Context) (*pgx.Conn, error) {
			return database.ConnectPostgres(ctx, cfg)
		},
	}
}

// NewRelationalDSN sert surtout aux tests d'intégration.
func NewRelationalDSN(dsn string) *Relational {
	return &Relational{
		connect: func(ctx context.Context) (*pgx.Conn, error) {
			return database.ConnectPostgresDSN(ctx, dsn)
		},
	}
}

func (r *Relational) Customers(ctx context.Context) ([]models.Customer, error) {
	return queryAll[models.Customer](ctx, r, "customers", customersQuery)
}

func (r *Relational) Orders(ctx context.Context) ([]models.Order, error) {
	return queryAll[models.Order](ctx, r, "orders", ordersQuery)
}

func (r *Relational) OrderItems(ctx context.Context) ([]models.OrderItem, error) {
	return queryAll[models.OrderItem](ctx, r, "order_items", orderItemsQuery)
}

func queryAll[T any](ctx context.Context, r *Relational, table, sql string) ([]T, error) {
	conn, err := r.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close(context.Background())

	rows, err := conn.Query(ctx, sql)
	if err != nil {
		return nil, &apperr.QueryError{Store: apperr.StorePostgres, Op: "select " + table, Err: err}
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, &apperr.QueryError{Store: apperr.StorePostgres, Op: "scan " + table, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
