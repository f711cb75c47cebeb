package dataset

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"olist_back_end/internal/apperr"
	"olist_back_end/internal/models"
)

// Jetons lus comme valeur manquante, en plus de la chaîne vide.
var missingTokens = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {}, "-NaN": {}, "-nan": {},
	"1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {}, "NA": {}, "NULL": {}, "NaN": {},
	"None": {}, "n/a": {}, "nan": {}, "null": {},
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	time.RFC3339Nano,
}

// table parcourt un CSV ligne à ligne en accédant aux colonnes par leur nom.
type table struct {
	name      string
	body      io.ReadCloser
	r         *csv.Reader
	header    []string
	index     map[string]int
	log       zerolog.Logger
	malformed int
	skipped   int
}

func openTable(ctx context.Context, src Source, name string, log zerolog.Logger) (*table, error) {
	body, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bufio.NewReader(body))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		body.Close()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: fichier vide", name)
		}
		return nil, fmt.Errorf("%s: en-tête illisible: %w", name, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.TrimSpace(col)
		header[i] = col
		if _, dup := index[col]; !dup {
			index[col] = i
		}
	}

	return &table{
		name:   name,
		body:   body,
		r:      r,
		header: header,
		index:  index,
		log:    log.With().Str("file", name).Logger(),
	}, nil
}

func (t *table) Close() error { return t.body.Close() }

// next renvoie io.EOF en fin de fichier. Les lignes mal formées sont journalisées et sautées.
func (t *table) next() (row, error) {
	for {
		fields, err := t.r.Read()
		if err == nil {
			line, _ := t.r.FieldPos(0)
			return row{t: t, fields: fields, line: line}, nil
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			t.skipped++
			t.log.Warn().Err(err).Int("line", parseErr.StartLine).Msg("⚠️ Ligne CSV illisible ignorée")
			continue
		}
		return row{}, err
	}
}

func (t *table) has(col string) bool {
	_, ok := t.index[col]
	return ok
}

type row struct {
	t      *table
	fields []string
	line   int
}

// raw renvoie la valeur de la première colonne présente parmi cols.
func (r row) raw(cols ...string) (string, string, bool) {
	for _, col := range cols {
		i, ok := r.t.index[col]
		if !ok {
			continue
		}
		if i >= len(r.fields) {
			return col, "", false
		}
		v := strings.TrimSpace(r.fields[i])
		if v == "" {
			return col, "", false
		}
		if _, missing := missingTokens[v]; missing {
			return col, "", false
		}
		return col, v, true
	}
	return "", "", false
}

func (r row) malformed(col, value string) {
	r.t.malformed++
	err := &apperr.MalformedInput{File: r.t.name, Line: r.line, Column: col, Value: value}
	r.t.log.Debug().Err(err).Msg("valeur remplacée par null")
}

// key renvoie une clé, chaîne vide si absente.
func (r row) key(cols ...string) string {
	_, v, _ := r.raw(cols...)
	return v
}

func (r row) str(cols ...string) *string {
	_, v, ok := r.raw(cols...)
	if !ok {
		return nil
	}
	return &v
}

// int accepte "40" comme "40.0".
func (r row) int(cols ...string) *int64 {
	col, v, ok := r.raw(cols...)
	if !ok {
		return nil
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		r.malformed(col, v)
		return nil
	}
	n := int64(f)
	return &n
}

func (r row) float(cols ...string) *float64 {
	col, v, ok := r.raw(cols...)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		r.malformed(col, v)
		return nil
	}
	return &f
}

func (r row) price(cols ...string) models.Price {
	col, v, ok := r.raw(cols...)
	if !ok {
		return models.Price{}
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		r.malformed(col, v)
		return models.Price{}
	}
	return models.NewPrice(d)
}

func (r row) time(cols ...string) models.NullTime {
	col, v, ok := r.raw(cols...)
	if !ok {
		return models.NullTime{}
	}
	if t, ok := ParseTimestamp(v); ok {
		return models.NewNullTime(t)
	}
	r.malformed(col, v)
	return models.NullTime{}
}

// ParseTimestamp reconnaît les formats de date de l'extrait ; tout le reste est illisible.
func ParseTimestamp(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
