package loader

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"olist_back_end/internal/apperr"
)

// rowInsert décrit une instruction paramétrée appliquée à n lignes.
type rowInsert struct {
	table string
	sql   string
	n     int
	key   func(i int) string
	args  func(i int) []any
}

// batchInserter implémente l'insertion « si absent » : les lignes partent par lots
// pipelinés dans un savepoint ; un lot qui contient une ligne invalide est annulé
// puis rejoué ligne par ligne, chacune dans son propre savepoint.
type batchInserter struct {
	size int
	log  zerolog.Logger
}

func (b batchInserter) insert(ctx context.Context, tx pgx.Tx, ins rowInsert, stats *StageStats) error {
	size := b.size
	if size < 1 {
		size = 1
	}
	for start := 0; start < ins.n; start += size {
		end := min(start+size, ins.n)

		inserted, err := b.insertChunk(ctx, tx, ins, start, end)
		if err == nil {
			stats.Inserted += inserted
			stats.Duplicates += (end - start) - inserted
			continue
		}
		if !apperr.IsRowLevel(err) {
			return err
		}

		b.log.Debug().Str("table", ins.table).Int("from", start).Int("to", end).Err(err).Msg("lot rejeté, reprise ligne par ligne")
		if err := b.insertRows(ctx, tx, ins, start, end, stats); err != nil {
			return err
		}
	}
	return nil
}

func (b batchInserter) insertChunk(ctx context.Context, tx pgx.Tx, ins rowInsert, start, end int) (int, error) {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return 0, err
	}

	batch := &pgx.Batch{}
	for i := start; i < end; i++ {
		batch.Queue(ins.sql, ins.args(i)...)
	}

	br := sp.SendBatch(ctx, batch)
	inserted := 0
	var execErr error
	for i := start; i < end; i++ {
		tag, err := br.Exec()
		if err != nil {
			execErr = err
			break
		}
		inserted += int(tag.RowsAffected())
	}
	if err := br.Close(); execErr == nil {
		execErr = err
	}

	if execErr != nil {
		if rbErr := sp.Rollback(ctx); rbErr != nil {
			return 0, errors.Join(execErr, rbErr)
		}
		return 0, execErr
	}
	return inserted, sp.Commit(ctx)
}

func (b batchInserter) insertRows(ctx context.Context, tx pgx.Tx, ins rowInsert, start, end int, stats *StageStats) error {
	for i := start; i < end; i++ {
		sp, err := tx.Begin(ctx)
		if err != nil {
			return err
		}

		tag, err := sp.Exec(ctx, ins.sql, ins.args(i)...)
		if err != nil {
			if rbErr := sp.Rollback(ctx); rbErr != nil {
				return errors.Join(err, rbErr)
			}
			if !apperr.IsRowLevel(err) {
				return err
			}
			stats.Rejected++
			b.log.Warn().Err(apperr.AsConstraintViolation(ins.table, ins.key(i), err)).Msg("⚠️ Ligne rejetée")
			continue
		}
		if err := sp.Commit(ctx); err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			stats.Duplicates++
		} else {
			stats.Inserted++
		}
	}
	return nil
}

// optional transforme une clé vide en NULL : la base rejette alors la ligne.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
