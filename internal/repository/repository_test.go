package repository

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"olist_back_end/internal/apperr"
)

func TestNormalizeDocument(t *testing.T) {
	oid := primitive.NewObjectID()
	created := time.Date(2018, 1, 18, 0, 0, 0, 0, time.UTC)

	doc := bson.M{
		"_id":          oid,
		"review_id":    "r1",
		"review_score": int32(5),
		"created":      primitive.NewDateTimeFromTime(created),
		"ref":          oid,
		"bad":          math.NaN(),
		"nothing":      nil,
		"specs": bson.M{
			"weight_g":      225.0,
			"dimensions_cm": bson.D{{Key: "length", Value: 16.0}},
		},
		"tags": bson.A{"perfumaria", primitive.NewDateTimeFromTime(created)},
	}

	got := NormalizeDocument(doc)

	assert.NotContains(t, got, "_id")
	assert.Equal(t, "2018-01-18T00:00:00", got["created"])
	assert.Equal(t, oid.Hex(), got["ref"])
	assert.Nil(t, got["bad"])
	assert.Nil(t, got["nothing"])
	assert.Equal(t, int32(5), got["review_score"])

	specs := got["specs"].(map[string]any)
	assert.Equal(t, 225.0, specs["weight_g"])
	assert.Equal(t, map[string]any{"length": 16.0}, specs["dimensions_cm"])
	assert.Equal(t, []any{"perfumaria", "2018-01-18T00:00:00"}, got["tags"])

	_, err := json.Marshal(got)
	assert.NoError(t, err)
}

func TestFindAllConnectionFailure(t *testing.T) {
	want := &apperr.ConnectionError{Store: apperr.StoreMongo, Err: errors.New("server selection timeout")}
	d := &Documents{
		dbName:  "ecom_hybrid_db",
		connect: func(context.Context) (*mongo.Client, error) { return nil, want },
	}

	docs, err := d.FindAll(context.Background(), ProductsCollection)
	assert.Nil(t, docs)
	assert.ErrorIs(t, err, apperr.ErrConnection)
}

func TestRelationalConnectionFailure(t *testing.T) {
	r := &Relational{
		connect: func(context.Context) (*pgx.Conn, error) {
			return nil, &apperr.ConnectionError{Store: apperr.StorePostgres, Err: errors.New("refused")}
		},
	}

	_, err := r.Customers(context.Background())
	assert.ErrorIs(t, err, apperr.ErrConnection)
	_, err = r.Orders(context.Background())
	assert.ErrorIs(t, err, apperr.ErrConnection)
	_, err = r.OrderItems(context.Background())
	require.Error(t, err)

	var connErr *apperr.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, apperr.StorePostgres, connErr.Store)
}
