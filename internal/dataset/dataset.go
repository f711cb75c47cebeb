package dataset

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"olist_back_end/internal/models"
)

// Dataset donne accès aux fichiers de l'extrait pour un chargement.
// Les clients sont lus une seule fois : la table customers et les user_profiles
// dérivent de la même lecture.
type Dataset struct {
	src Source
	log zerolog.Logger

	customers     []models.Customer
	customersErr  error
	customersRead bool
	stored        map[string]struct{}
}

func New(src Source, log zerolog.Logger) *Dataset {
	return &Dataset{src: src, log: log}
}

func (d *Dataset) Source() Source { return d.src }

func (d *Dataset) Customers(ctx context.Context) ([]models.Customer, error) {
	if !d.customersRead {
		d.customers, d.customersErr = ReadCustomers(ctx, d.src, d.log)
		d.customersRead = true
	}
	return d.customers, d.customersErr
}

// RestrictCustomers limite AcceptedCustomers aux identifiants effectivement stockés.
func (d *Dataset) RestrictCustomers(ids []string) {
	d.stored = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		d.stored[id] = struct{}{}
	}
}

// AcceptedCustomers renvoie les clients lus, restreints à ceux stockés si
// RestrictCustomers a été appelé.
func (d *Dataset) AcceptedCustomers(ctx context.Context) ([]models.Customer, error) {
	customers, err := d.Customers(ctx)
	if err != nil || d.stored == nil {
		return customers, err
	}
	out := make([]models.Customer, 0, len(customers))
	for _, c := range customers {
		if _, ok := d.stored[c.CustomerID]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (d *Dataset) Orders(ctx context.Context) ([]models.Order, error) {
	return ReadOrders(ctx, d.src, d.log)
}

func (d *Dataset) OrderItems(ctx context.Context) ([]models.OrderItem, error) {
	return ReadOrderItems(ctx, d.src, d.log)
}

func (d *Dataset) Products(ctx context.Context) ([]models.Product, error) {
	return ReadProducts(ctx, d.src, d.log)
}

func (d *Dataset) Reviews(ctx context.Context) ([]bson.D, error) {
	return ReadReviews(ctx, d.src, d.log)
}
