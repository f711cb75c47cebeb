package repository

import (
	"context"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"olist_back_end/internal/apperr"
	"olist_back_end/internal/config"
	"olist_back_end/internal/database"
	"olist_back_end/internal/models"
)

// Collections exposées par la variante hybride.
const (
	ProductsCollection     = "products"
	ReviewsCollection      = "reviews"
	UserProfilesCollection = "user_profiles"
)

// Documents lit les collections MongoDB, un client par appel.
type Documents struct {
	dbName  string
	connect func(ctx context.Context) (*mongo.Client, error)
}

func NewDocuments(cfg config.MongoConfig) *Documents {
	return &Documents{
		dbName: cfg.DBName,
		connect: func(ctx context.Context) (*mongo.Client, error) {
			return database.ConnectMongo(ctx, cfg)
		},
	}
}

func NewDocumentsURI(uri, dbName string, timeout time.Duration) *Documents {
	return &Documents{
		dbName: dbName,
		connect: func(ctx context.Context) (*mongo.Client, error) {
			return database.ConnectMongoURI(ctx, uri, timeout)
		},
	}
}

// FindAll renvoie tous les documents de la collection, sans leur _id.
func (d *Documents) FindAll(ctx context.Context, collection string) ([]map[string]any, error) {
	client, err := d.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Disconnect(context.Background())

	opts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 0}})
	cursor, err := client.Database(d.dbName).Collection(collection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, &apperr.QueryError{Store: apperr.StoreMongo, Op: "find " + collection, Err: err}
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, &apperr.QueryError{Store: apperr.StoreMongo, Op: "decode " + collection, Err: err}
	}

	out := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		out = append(out, NormalizeDocument(doc))
	}
	return out, nil
}

// NormalizeDocument rend un document sérialisable en JSON : dates en ISO-8601 (UTC),
// ObjectID en hexadécimal, NaN en null. L'_id interne est retiré.
func NormalizeDocument(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case bson.M:
		return normalizeMap(val)
	case map[string]any:
		return normalizeMap(val)
	case bson.D:
		m := make(map[string]any, len(val))
		for _, e := range val {
			m[e.Key] = normalizeValue(e.Value)
		}
		return m
	case bson.A:
		return normalizeSlice(val)
	case []any:
		return normalizeSlice(val)
	case primitive.DateTime:
		return val.Time().UTC().Format(models.ISOLayout)
	case time.Time:
		return val.UTC().Format(models.ISOLayout)
	case primitive.ObjectID:
		return val.Hex()
	case primitive.Decimal128:
		return val.String()
	case primitive.Null, primitive.Undefined:
		return nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		return val
	}
	return v
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeSlice(s []any) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = normalizeValue(v)
	}
	return out
}
