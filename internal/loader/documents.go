package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"olist_back_end/internal/apperr"
	"olist_back_end/internal/dataset"
	"olist_back_end/internal/models"
	"olist_back_end/internal/repository"
)

var documentCollections = []string{
	repository.ProductsCollection,
	repository.ReviewsCollection,
	repository.UserProfilesCollection,
}

// DocumentLoader recharge products, reviews et user_profiles (variante hybride).
type DocumentLoader struct {
	db        *mongo.Database
	batchSize int
	log       zerolog.Logger
}

func NewDocumentLoader(db *mongo.Database, batchSize int, log zerolog.Logger) *DocumentLoader {
	if batchSize < 1 {
		batchSize = 1000
	}
	return &DocumentLoader{
		db:        db,
		batchSize: batchSize,
		log:       log.With().Str("store", apperr.StoreMongo).Logger(),
	}
}

// Load vide puis remplit les collections. Un fichier manquant arrête le chargement
// MongoDB là où il en est ; le chargement PostgreSQL n'est pas concerné.
func (l *DocumentLoader) Load(ctx context.Context, ds *dataset.Dataset) StoreReport {
	rep := StoreReport{Store: apperr.StoreMongo}
	if err := l.load(ctx, ds, &rep); err != nil {
		rep.Err = err
		if errors.Is(err, apperr.ErrSourceMissing) {
			l.log.Error().Err(err).Str("source", ds.Source().String()).Msg("❌ Fichier CSV Olist introuvable")
		} else {
			l.log.Error().Err(err).Msg("❌ Erreur de chargement MongoDB")
		}
	}
	return rep
}

func (l *DocumentLoader) load(ctx context.Context, ds *dataset.Dataset, rep *StoreReport) error {
	if err := l.resetCollections(ctx); err != nil {
		return err
	}

	products, err := ds.Products(ctx)
	if err != nil {
		return err
	}
	st, err := l.insert(ctx, repository.ProductsCollection, toDocuments(products))
	rep.add(st)
	if err != nil {
		return err
	}

	reviews, err := ds.Reviews(ctx)
	if err != nil {
		return err
	}
	st, err = l.insert(ctx, repository.ReviewsCollection, toDocuments(reviews))
	rep.add(st)
	if err != nil {
		return err
	}

	customers, err := ds.AcceptedCustomers(ctx)
	if err != nil {
		return err
	}
	st, err = l.insert(ctx, repository.UserProfilesCollection, toDocuments(models.UserProfilesFor(customers)))
	rep.add(st)
	return err
}

func (l *DocumentLoader) resetCollections(ctx context.Context) error {
	for _, name := range documentCollections {
		if err := l.db.Collection(name).Drop(ctx); err != nil {
			return &apperr.QueryError{Store: apperr.StoreMongo, Op: "drop " + name, Err: err}
		}
		if err := l.db.CreateCollection(ctx, name); err != nil {
			return &apperr.QueryError{Store: apperr.StoreMongo, Op: "create " + name, Err: err}
		}
	}
	l.log.Info().Strs("collections", documentCollections).Msg("✅ Collections MongoDB recréées")
	return nil
}

// insert envoie les documents par lots non ordonnés : un document refusé n'empêche
// pas les autres d'être écrits.
func (l *DocumentLoader) insert(ctx context.Context, collection string, docs []any) (StageStats, error) {
	st := StageStats{Stage: collection, Read: len(docs)}
	if len(docs) == 0 {
		l.log.Info().Str("collection", collection).Msg("Aucune donnée à charger")
		return st, nil
	}
	l.log.Info().Str("collection", collection).Int("documents", len(docs)).Msg("Chargement...")

	coll := l.db.Collection(collection)
	opts := options.InsertMany().SetOrdered(false)
	for start := 0; start < len(docs); start += l.batchSize {
		chunk := docs[start:min(start+l.batchSize, len(docs))]

		_, err := coll.InsertMany(ctx, chunk, opts)
		if err == nil {
			st.Inserted += len(chunk)
			continue
		}

		var bwe mongo.BulkWriteException
		if errors.As(err, &bwe) && bwe.WriteConcernError == nil && len(bwe.WriteErrors) > 0 {
			st.Inserted += len(chunk) - len(bwe.WriteErrors)
			st.Rejected += len(bwe.WriteErrors)
			for _, we := range bwe.WriteErrors {
				l.log.Warn().Str("collection", collection).Int("index", start+we.Index).Int("code", we.Code).Msg("⚠️ Document rejeté")
			}
			continue
		}
		return st, &apperr.QueryError{Store: apperr.StoreMongo, Op: fmt.Sprintf("insert %s", collection), Err: err}
	}

	l.log.Info().Str("collection", collection).Msg("✅ Collection chargée")
	return st, nil
}

func toDocuments[T any](items []T) []any {
	docs := make([]any, len(items))
	for i, it := range items {
		docs[i] = it
	}
	return docs
}
