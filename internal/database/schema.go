package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Ordre de suppression imposé par les clés étrangères.
var dropTables = []string{
	"DROP TABLE IF EXISTS order_items CASCADE",
	"DROP TABLE IF EXISTS orders CASCADE",
	"DROP TABLE IF EXISTS customers CASCADE",
}

// Les clés étrangères sont NOT NULL : une clé absente dans la source doit être
// rejetée comme une clé inconnue.
var createTables = []string{
	`CREATE TABLE customers (
		customer_id VARCHAR(50) PRIMARY KEY,
		customer_unique_id VARCHAR(50) NOT NULL,
		customer_zip_code_prefix VARCHAR(10),
		customer_city VARCHAR(100),
		customer_state VARCHAR(50)
	)`,
	`CREATE TABLE orders (
		order_id VARCHAR(50) PRIMARY KEY,
		customer_id VARCHAR(50) NOT NULL REFERENCES customers(customer_id),
		order_status VARCHAR(50),
		order_purchase_timestamp TIMESTAMP,
		order_approved_at TIMESTAMP,
		order_delivered_carrier_date TIMESTAMP,
		order_delivered_customer_date TIMESTAMP,
		order_estimated_delivery_date TIMESTAMP
	)`,
	// product_id n'a pas de clé étrangère : il sert aux jointures avec MongoDB.
	`CREATE TABLE order_items (
		order_item_id SERIAL PRIMARY KEY,
		order_id VARCHAR(50) NOT NULL REFERENCES orders(order_id),
		product_id VARCHAR(50),
		seller_id VARCHAR(50),
		shipping_limit_date TIMESTAMP,
		price DECIMAL(10, 2),
		freight_value DECIMAL(10, 2)
	)`,
}

// ResetSchema supprime puis recrée les trois tables. Exécuté dans une transaction,
// un rollback restaure l'état précédent.
func ResetSchema(ctx context.Context, tx pgx.Tx) error {
	for _, ddl := range dropTables {
		if _, err := tx.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("suppression des tables: %w", err)
		}
	}
	for _, ddl := range createTables {
		if _, err := tx.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("création des tables: %w", err)
		}
	}
	return nil
}
