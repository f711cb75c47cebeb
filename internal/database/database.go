package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"olist_back_end/internal/apperr"
	"olist_back_end/internal/config"
)

// =============================================
// POSTGRESQL
// =============================================

// PostgresDSN construit l'URL de connexion (identifiants échappés).
func PostgresDSN(cfg config.PostgresConfig) string {
	q := url.Values{}
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	if cfg.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(int(cfg.ConnectTimeout.Round(time.Second)/time.Second)))
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// ConnectPostgres ouvre une connexion dédiée (pas de pool) et la vérifie.
func ConnectPostgres(ctx context.Context, cfg config.PostgresConfig) (*pgx.Conn, error) {
	return ConnectPostgresDSN(ctx, PostgresDSN(cfg))
}

func ConnectPostgresDSN(ctx context.Context, dsn string) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, &apperr.ConnectionError{Store: apperr.StorePostgres, Err: err}
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close(context.Background())
		return nil, &apperr.ConnectionError{Store: apperr.StorePostgres, Err: err}
	}
	return conn, nil
}

// =============================================
// MONGODB
// =============================================

func MongoURI(cfg config.MongoConfig) string {
	u := url.URL{
		Scheme: "mongodb",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/",
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	return u.String()
}

// ConnectMongo crée un client et le vérifie par un ping sur le primaire.
// Les sous-documents sont décodés en bson.M pour rester sérialisables en JSON.
func ConnectMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	return ConnectMongoURI(ctx, MongoURI(cfg), cfg.Timeout)
}

func ConnectMongoURI(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	if timeout > 0 {
		opts.SetServerSelectionTimeout(timeout).SetConnectTimeout(timeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, &apperr.ConnectionError{Store: apperr.StoreMongo, Err: err}
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &apperr.ConnectionError{Store: apperr.StoreMongo, Err: err}
	}
	return client, nil
}

// =============================================
// REDIS
// =============================================

func ConnectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Host,
		Password:     cfg.Password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("impossible de se connecter à Redis: %w", &apperr.ConnectionError{Store: "Redis", Err: err})
	}
	return client, nil
}
