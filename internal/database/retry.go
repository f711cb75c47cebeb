package database

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"olist_back_end/internal/apperr"
)

// RetryPolicy : nombre de tentatives et pause fixe entre deux tentatives.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// Retry appelle connect jusqu'au succès ou jusqu'à épuisement des tentatives.
// L'attente entre deux tentatives bloque l'appelant.
func Retry[T any](ctx context.Context, p RetryPolicy, store string, log zerolog.Logger, connect func(context.Context) (T, error)) (T, error) {
	var zero T
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		log.Info().Str("store", store).Int("attempt", i).Int("max", attempts).Msg("🔌 Tentative de connexion")

		v, err := connect(ctx)
		if err == nil {
			log.Info().Str("store", store).Msg("✅ Connexion établie")
			return v, nil
		}
		lastErr = err
		log.Warn().Err(err).Str("store", store).Int("attempt", i).Msg("⚠️ Connexion échouée")

		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(p.Delay):
		}
	}

	var connErr *apperr.ConnectionError
	if errors.As(lastErr, &connErr) {
		return zero, lastErr
	}
	return zero, &apperr.ConnectionError{Store: store, Err: lastErr}
}
