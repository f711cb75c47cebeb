package loader

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"olist_back_end/internal/config"
)

// StageStats résume une étape : une table ou une collection.
type StageStats struct {
	Stage      string
	Read       int
	Inserted   int
	Duplicates int
	Rejected   int
	Err        error
}

// StoreReport regroupe les étapes d'un store. Err est fatal pour ce store seulement.
type StoreReport struct {
	Store  string
	Stages []StageStats
	Err    error
}

func (s *StoreReport) add(st StageStats) {
	s.Stages = append(s.Stages, st)
}

// Failed indique un store abandonné ou une étape en échec.
func (s StoreReport) Failed() bool {
	if s.Err != nil {
		return true
	}
	for _, st := range s.Stages {
		if st.Err != nil {
			return true
		}
	}
	return false
}

type Report struct {
	RunID    string
	Variant  config.Variant
	Stores   []StoreReport
	Duration time.Duration
}

// Err agrège toutes les erreurs de store et d'étape.
func (r Report) Err() error {
	var errs []error
	for _, s := range r.Stores {
		if s.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Store, s.Err))
		}
		for _, st := range s.Stages {
			if st.Err != nil {
				errs = append(errs, fmt.Errorf("%s.%s: %w", s.Store, st.Stage, st.Err))
			}
		}
	}
	return errors.Join(errs...)
}

func (r Report) Log(log zerolog.Logger) {
	for _, s := range r.Stores {
		for _, st := range s.Stages {
			ev := log.Info()
			if st.Err != nil {
				ev = log.Error().Err(st.Err)
			}
			ev.Str("store", s.Store).
				Str("stage", st.Stage).
				Int("read", st.Read).
				Int("inserted", st.Inserted).
				Int("duplicates", st.Duplicates).
				Int("rejected", st.Rejected).
				Msg("📊 Bilan")
		}
		if s.Err != nil {
			log.Error().Err(s.Err).Str("store", s.Store).Msg("❌ Chargement abandonné")
		}
	}
	if err := r.Err(); err != nil {
		log.Error().Dur("duration", r.Duration).Msg("❌ Chargement terminé avec des erreurs")
		return
	}
	log.Info().Dur("duration", r.Duration).Msg("✅ Chargement des données Olist terminé")
}
