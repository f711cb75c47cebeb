// Package loader remplit les stores à partir de l'extrait CSV : destruction puis
// reconstruction complète, jamais d'ajout incrémental.
package loader

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"olist_back_end/internal/apperr"
	"olist_back_end/internal/config"
	"olist_back_end/internal/database"
	"olist_back_end/internal/dataset"
)

type Loader struct {
	cfg    config.Config
	source dataset.Source
	log    zerolog.Logger
}

func New(cfg config.Config, source dataset.Source, log zerolog.Logger) *Loader {
	return &Loader{cfg: cfg, source: source, log: log}
}

// Run exécute un chargement complet pour la variante configurée. L'erreur renvoyée
// est non nulle dès qu'un store ou une étape a échoué.
func (l *Loader) Run(ctx context.Context) (Report, error) {
	runID := uuid.NewString()
	log := l.log.With().Str("run_id", runID).Str("variant", string(l.cfg.Variant)).Logger()
	start := time.Now()
	report := Report{RunID: runID, Variant: l.cfg.Variant}

	if l.cfg.Redis.Enabled() {
		release, err := l.lock(ctx, runID, log)
		if err != nil {
			log.Error().Err(err).Msg("❌ Verrou de chargement indisponible")
			return report, err
		}
		defer release()
	}

	policy := database.RetryPolicy{Attempts: l.cfg.Loader.MaxRetries, Delay: l.cfg.Loader.RetryDelay}

	pg, err := database.Retry(ctx, policy, apperr.StorePostgres, log, func(ctx context.Context) (*pgx.Conn, error) {
		return database.ConnectPostgres(ctx, l.cfg.Postgres)
	})
	if err != nil {
		log.Error().Err(err).Msg("❌ Connexion PostgreSQL impossible. Chargement annulé.")
		return report, err
	}
	defer func() {
		pg.Close(context.Background())
		log.Info().Msg("🔌 Connexion PostgreSQL fermée")
	}()

	var mongoClient *mongo.Client
	if l.cfg.Variant.UsesDocuments() {
		mongoClient, err = database.Retry(ctx, policy, apperr.StoreMongo, log, func(ctx context.Context) (*mongo.Client, error) {
			return database.ConnectMongo(ctx, l.cfg.Mongo)
		})
		if err != nil {
			log.Error().Err(err).Msg("❌ Connexion MongoDB impossible. Chargement annulé.")
			return report, err
		}
		defer func() {
			_ = mongoClient.Disconnect(context.Background())
			log.Info().Msg("🔌 Connexion MongoDB fermée")
		}()
	}

	log.Info().Str("source", l.source.String()).Msg("🚀 Début du chargement des données Olist")
	ds := dataset.New(l.source, log)

	rel := NewRelationalLoader(l.cfg.Loader, log)
	report.Stores = append(report.Stores, rel.Load(ctx, pg, ds))

	if mongoClient != nil {
		docs := NewDocumentLoader(mongoClient.Database(l.cfg.Mongo.DBName), l.cfg.Loader.BatchSize, log)
		report.Stores = append(report.Stores, docs.Load(ctx, ds))
	}

	report.Duration = time.Since(start)
	report.Log(log)
	return report, report.Err()
}

func (l *Loader) lock(ctx context.Context, runID string, log zerolog.Logger) (func(), error) {
	client, err := database.ConnectRedis(ctx, l.cfg.Redis)
	if err != nil {
		return nil, err
	}
	lock, err := AcquireRunLock(ctx, client, LockKey(l.cfg.Variant), runID, l.cfg.Redis.LockTTL)
	if err != nil {
		client.Close()
		return nil, err
	}
	log.Info().Str("key", lock.key).Msg("🔒 Verrou de chargement acquis")

	return func() {
		if err := lock.Release(context.Background()); err != nil {
			log.Warn().Err(err).Msg("⚠️ Libération du verrou impossible")
		}
		client.Close()
	}, nil
}
