package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"olist_back_end/internal/apperr"
	"olist_back_end/internal/config"
	"olist_back_end/internal/database"
	"olist_back_end/internal/dataset"
	"olist_back_end/internal/models"
)

const (
	insertCustomer = `INSERT INTO customers (customer_id, customer_unique_id, customer_zip_code_prefix, customer_city, customer_state)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (customer_id) DO NOTHING`

	insertOrder = `INSERT INTO orders (order_id, customer_id, order_status, order_purchase_timestamp,
			order_approved_at, order_delivered_carrier_date,
			order_delivered_customer_date, order_estimated_delivery_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (order_id) DO NOTHING`

	insertOrderItem = `INSERT INTO order_items (order_id, product_id, seller_id, shipping_limit_date, price, freight_value)
		VALUES ($1, $2, $3, $4, $5, $6)`
)

var orderItemColumns = []string{"order_id", "product_id", "seller_id", "shipping_limit_date", "price", "freight_value"}

// Beginner est satisfait par *pgx.Conn.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RelationalLoader recharge customers, orders et order_items dans une seule transaction.
type RelationalLoader struct {
	rows        batchInserter
	rowIsolated bool
	log         zerolog.Logger
}

func NewRelationalLoader(cfg config.LoaderConfig, log zerolog.Logger) *RelationalLoader {
	log = log.With().Str("store", apperr.StorePostgres).Logger()
	return &RelationalLoader{
		rows:        batchInserter{size: cfg.BatchSize, log: log},
		rowIsolated: cfg.OrderItemsRowMode,
		log:         log,
	}
}

// Load réinitialise le schéma puis insère les trois tables, dans l'ordre imposé
// par les clés étrangères. Un fichier manquant annule toute la transaction.
func (l *RelationalLoader) Load(ctx context.Context, db Beginner, ds *dataset.Dataset) StoreReport {
	rep := StoreReport{Store: apperr.StorePostgres}

	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		return l.load(ctx, tx, ds, &rep)
	})
	if err != nil {
		rep.Err = err
		if errors.Is(err, apperr.ErrSourceMissing) {
			l.log.Error().Err(err).Str("source", ds.Source().String()).Msg("❌ Fichier CSV Olist introuvable, transaction annulée")
		} else {
			l.log.Error().Err(err).Msg("❌ Erreur de chargement PostgreSQL, transaction annulée")
		}
	}
	return rep
}

func (l *RelationalLoader) load(ctx context.Context, tx pgx.Tx, ds *dataset.Dataset, rep *StoreReport) error {
	if err := database.ResetSchema(ctx, tx); err != nil {
		return err
	}
	l.log.Info().Msg("✅ Tables PostgreSQL recréées")

	customers, err := ds.Customers(ctx)
	if err != nil {
		return err
	}
	st, err := l.loadCustomers(ctx, tx, customers)
	rep.add(st)
	if err != nil {
		return err
	}

	// Les user_profiles ne portent que sur les clients réellement en base.
	stored, err := storedCustomerIDs(ctx, tx)
	if err != nil {
		return err
	}
	ds.RestrictCustomers(stored)

	orders, err := ds.Orders(ctx)
	if err != nil {
		return err
	}
	st, err = l.loadOrders(ctx, tx, orders)
	rep.add(st)
	if err != nil {
		return err
	}

	items, err := ds.OrderItems(ctx)
	if err != nil {
		return err
	}
	st, err = l.loadOrderItems(ctx, tx, items)
	rep.add(st)
	return err
}

func (l *RelationalLoader) loadCustomers(ctx context.Context, tx pgx.Tx, customers []models.Customer) (StageStats, error) {
	st := StageStats{Stage: "customers", Read: len(customers)}
	l.log.Info().Int("rows", len(customers)).Msg("Chargement des customers...")

	err := l.rows.insert(ctx, tx, rowInsert{
		table: "customers",
		sql:   insertCustomer,
		n:     len(customers),
		key:   func(i int) string { return customers[i].CustomerID },
		args: func(i int) []any {
			c := customers[i]
			return []any{optional(c.CustomerID), c.CustomerUniqueID, c.ZipCodePrefix, c.City, c.State}
		},
	}, &st)
	if err != nil {
		return st, fmt.Errorf("customers: %w", err)
	}
	l.log.Info().Msg("✅ Customers chargés")
	return st, nil
}

func (l *RelationalLoader) loadOrders(ctx context.Context, tx pgx.Tx, orders []models.Order) (StageStats, error) {
	st := StageStats{Stage: "orders", Read: len(orders)}
	l.log.Info().Int("rows", len(orders)).Msg("Chargement des orders...")

	err := l.rows.insert(ctx, tx, rowInsert{
		table: "orders",
		sql:   insertOrder,
		n:     len(orders),
		key:   func(i int) string { return orders[i].OrderID },
		args: func(i int) []any {
			o := orders[i]
			return []any{
				optional(o.OrderID), o.CustomerID, o.Status, o.PurchaseTimestamp,
				o.ApprovedAt, o.DeliveredCarrierDate,
				o.DeliveredCustomerDate, o.EstimatedDeliveryDate,
			}
		},
	}, &st)
	if err != nil {
		return st, fmt.Errorf("orders: %w", err)
	}
	l.log.Info().Msg("✅ Orders chargés")
	return st, nil
}

// loadOrderItems insère les articles en un seul COPY : une ligne invalide fait échouer
// toute l'étape, sans toucher aux customers et orders déjà insérés.
// En mode isolé, chaque ligne invalide est simplement ignorée.
func (l *RelationalLoader) loadOrderItems(ctx context.Context, tx pgx.Tx, items []models.OrderItem) (StageStats, error) {
	st := StageStats{Stage: "order_items", Read: len(items)}
	if len(items) == 0 {
		l.log.Info().Msg("Aucun order item à charger")
		return st, nil
	}
	l.log.Info().Int("rows", len(items)).Bool("row_isolation", l.rowIsolated).Msg("Chargement des order items...")

	if l.rowIsolated {
		err := l.rows.insert(ctx, tx, rowInsert{
			table: "order_items",
			sql:   insertOrderItem,
			n:     len(items),
			key:   func(i int) string { return fmt.Sprintf("#%d", i+1) },
			args:  func(i int) []any { return orderItemArgs(items[i]) },
		}, &st)
		if err != nil {
			return st, fmt.Errorf("order_items: %w", err)
		}
		l.log.Info().Msg("✅ Order items chargés")
		return st, nil
	}

	sp, err := tx.Begin(ctx)
	if err != nil {
		return st, fmt.Errorf("order_items: %w", err)
	}
	n, err := sp.CopyFrom(ctx, pgx.Identifier{"order_items"}, orderItemColumns,
		pgx.CopyFromSlice(len(items), func(i int) ([]any, error) {
			return orderItemArgs(items[i]), nil
		}))
	if err != nil {
		if rbErr := sp.Rollback(ctx); rbErr != nil {
			return st, fmt.Errorf("order_items: %w", errors.Join(err, rbErr))
		}
		st.Rejected = len(items)
		st.Err = apperr.AsConstraintViolation("order_items", "bulk", err)
		l.log.Error().Err(err).Msg("❌ Erreur d'insertion des order items, étape annulée")
		return st, nil
	}
	if err := sp.Commit(ctx); err != nil {
		return st, fmt.Errorf("order_items: %w", err)
	}

	st.Inserted = int(n)
	l.log.Info().Msg("✅ Order items chargés")
	return st, nil
}

func storedCustomerIDs(ctx context.Context, tx pgx.Tx) ([]string, error) {
	rows, err := tx.Query(ctx, "SELECT customer_id FROM customers")
	if err != nil {
		return nil, fmt.Errorf("customers: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("customers: %w", err)
	}
	return ids, nil
}

func orderItemArgs(it models.OrderItem) []any {
	return []any{it.OrderID, it.ProductID, it.SellerID, it.ShippingLimitDate, it.Price, it.FreightValue}
}
