package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// ISOLayout est le format ISO-8601 renvoyé par l'API (colonnes TIMESTAMP sans fuseau).
const ISOLayout = "2006-01-02T15:04:05.999999"

var errNotFinite = errors.New("valeur non finie")

// NullTime est un horodatage optionnel : null en JSON/BSON quand Valid est faux.
type NullTime struct {
	Time  time.Time
	Valid bool
}

func NewNullTime(t time.Time) NullTime {
	return NullTime{Time: t, Valid: true}
}

func (t NullTime) String() string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(ISOLayout)
}

func (t NullTime) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

func (t *NullTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = NullTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(ISOLayout, s)
	if err != nil {
		return err
	}
	*t = NewNullTime(parsed)
	return nil
}

// ScanTimestamp permet à pgx de scanner une colonne TIMESTAMP.
func (t *NullTime) ScanTimestamp(v pgtype.Timestamp) error {
	if !v.Valid {
		*t = NullTime{}
		return nil
	}
	if v.InfinityModifier != pgtype.Finite {
		return fmt.Errorf("timestamp: %w", errNotFinite)
	}
	*t = NewNullTime(v.Time)
	return nil
}

// TimestampValue permet à pgx d'encoder la valeur (paramètres et COPY).
func (t NullTime) TimestampValue() (pgtype.Timestamp, error) {
	return pgtype.Timestamp{Time: t.Time, Valid: t.Valid}, nil
}

// MarshalBSONValue écrit une date BSON, ou null.
func (t NullTime) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if !t.Valid {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(t.Time)
}

// Price est un montant DECIMAL(10,2) optionnel. La précision stockée est conservée :
// pas de passage par float64.
type Price struct {
	Decimal decimal.Decimal
	Valid   bool
}

func NewPrice(d decimal.Decimal) Price {
	return Price{Decimal: d, Valid: true}
}

// String rend le décimal à son échelle d'origine ("19.90" reste "19.90").
func (p Price) String() string {
	if !p.Valid {
		return ""
	}
	places := -p.Decimal.Exponent()
	if places < 0 {
		places = 0
	}
	return p.Decimal.StringFixed(places)
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.String())
}

func (p *Price) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*p = Price{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	*p = NewPrice(d)
	return nil
}

func (p *Price) ScanNumeric(v pgtype.Numeric) error {
	if !v.Valid {
		*p = Price{}
		return nil
	}
	if v.NaN || v.InfinityModifier != pgtype.Finite {
		return fmt.Errorf("numeric: %w", errNotFinite)
	}
	coef := v.Int
	if coef == nil {
		coef = new(big.Int)
	}
	*p = NewPrice(decimal.NewFromBigInt(coef, v.Exp))
	return nil
}

func (p Price) NumericValue() (pgtype.Numeric, error) {
	if !p.Valid {
		return pgtype.Numeric{}, nil
	}
	return pgtype.Numeric{Int: p.Decimal.Coefficient(), Exp: p.Decimal.Exponent(), Valid: true}, nil
}
