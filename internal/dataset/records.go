package dataset

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"olist_back_end/internal/models"
)

// Noms des fichiers de l'extrait Olist.
const (
	CustomersFile  = "olist_customers_dataset.csv"
	OrdersFile     = "olist_orders_dataset.csv"
	OrderItemsFile = "olist_order_items_dataset.csv"
	ProductsFile   = "olist_products_dataset.csv"
	ReviewsFile    = "olist_order_reviews_dataset.csv"
)

// Files liste les fichiers attendus, dans l'ordre de chargement.
var Files = []string{CustomersFile, OrdersFile, OrderItemsFile, ProductsFile, ReviewsFile}

// readAll applique build à chaque ligne du fichier.
func readAll[T any](ctx context.Context, src Source, name string, log zerolog.Logger, build func(row) T) ([]T, error) {
	t, err := openTable(ctx, src, name, log)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	var out []T
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, build(r))
	}

	ev := t.log.Debug()
	if t.malformed > 0 || t.skipped > 0 {
		ev = t.log.Warn()
	}
	ev.Int("rows", len(out)).Int("malformed_values", t.malformed).Int("skipped_lines", t.skipped).Msg("fichier lu")
	return out, nil
}

func ReadCustomers(ctx context.Context, src Source, log zerolog.Logger) ([]models.Customer, error) {
	return readAll(ctx, src, CustomersFile, log, func(r row) models.Customer {
		return models.Customer{
			CustomerID:       r.key("customer_id"),
			CustomerUniqueID: r.str("customer_unique_id"),
			ZipCodePrefix:    r.str("customer_zip_code_prefix"),
			City:             r.str("customer_city"),
			State:            r.str("customer_state"),
		}
	})
}

func ReadOrders(ctx context.Context, src Source, log zerolog.Logger) ([]models.Order, error) {
	return readAll(ctx, src, OrdersFile, log, func(r row) models.Order {
		return models.Order{
			OrderID:               r.key("order_id"),
			CustomerID:            r.str("customer_id"),
			Status:                r.str("order_status"),
			PurchaseTimestamp:     r.time("order_purchase_timestamp"),
			ApprovedAt:            r.time("order_approved_at"),
			DeliveredCarrierDate:  r.time("order_delivered_carrier_date"),
			DeliveredCustomerDate: r.time("order_delivered_customer_date"),
			EstimatedDeliveryDate: r.time("order_estimated_delivery_date"),
		}
	})
}

// ReadOrderItems ignore la colonne order_item_id du CSV : l'identifiant est généré par la base.
func ReadOrderItems(ctx context.Context, src Source, log zerolog.Logger) ([]models.OrderItem, error) {
	return readAll(ctx, src, OrderItemsFile, log, func(r row) models.OrderItem {
		return models.OrderItem{
			OrderID:           r.str("order_id"),
			ProductID:         r.str("product_id"),
			SellerID:          r.str("seller_id"),
			ShippingLimitDate: r.time("shipping_limit_date"),
			Price:             r.price("price"),
			FreightValue:      r.price("freight_value"),
		}
	})
}

// ReadProducts accepte l'orthographe "lenght" de l'extrait comme la correcte.
func ReadProducts(ctx context.Context, src Source, log zerolog.Logger) ([]models.Product, error) {
	return readAll(ctx, src, ProductsFile, log, func(r row) models.Product {
		return models.Product{
			ProductID:         r.key("product_id"),
			CategoryName:      r.str("product_category_name"),
			NameLength:        r.int("product_name_lenght", "product_name_length"),
			DescriptionLength: r.int("product_description_lenght", "product_description_length"),
			PhotosQty:         r.int("product_photos_qty"),
			WeightG:           r.float("product_weight_g"),
			LengthCM:          r.float("product_length_cm"),
			HeightCM:          r.float("product_height_cm"),
			WidthCM:           r.float("product_width_cm"),
		}.Denormalize()
	})
}

// ReadReviews garde toutes les colonnes, dans l'ordre de l'en-tête.
func ReadReviews(ctx context.Context, src Source, log zerolog.Logger) ([]bson.D, error) {
	dates := make(map[string]struct{}, len(models.ReviewDateColumns))
	for _, col := range models.ReviewDateColumns {
		dates[col] = struct{}{}
	}

	return readAll(ctx, src, ReviewsFile, log, func(r row) bson.D {
		doc := make(bson.D, 0, len(r.t.header))
		for _, col := range r.t.header {
			if col == "" {
				continue
			}
			var v any
			switch _, isDate := dates[col]; {
			case isDate:
				v = r.time(col)
			case col == models.ReviewScoreColumn:
				v = r.int(col)
			default:
				v = r.str(col)
			}
			doc = append(doc, bson.E{Key: col, Value: v})
		}
		return doc
	})
}
