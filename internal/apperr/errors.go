// Package apperr regroupe la taxonomie d'erreurs partagée par le loader et l'API.
package apperr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	StorePostgres = "PostgreSQL"
	StoreMongo    = "MongoDB"
)

var (
	// ErrConnection : store injoignable (démarrage ou requête).
	ErrConnection = errors.New("store connection failed")

	// ErrConstraint : violation de clé primaire ou étrangère pendant le chargement.
	ErrConstraint = errors.New("constraint violation")

	// ErrMalformedInput : valeur source illisible (date, nombre...).
	ErrMalformedInput = errors.New("malformed input")

	// ErrSourceMissing : fichier CSV absent.
	ErrSourceMissing = errors.New("source missing")

	// ErrQuery : toute autre erreur pendant une lecture ou la mise en forme.
	ErrQuery = errors.New("query failed")
)

type ConnectionError struct {
	Store string
	Err   error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connexion %s impossible: %v", e.Store, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }

// ConstraintViolation décrit une ligne rejetée par le store relationnel.
type ConstraintViolation struct {
	Table      string
	Key        string
	Constraint string
	Err        error
}

func (e *ConstraintViolation) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s %q rejeté (%s): %v", e.Table, e.Key, e.Constraint, e.Err)
	}
	return fmt.Sprintf("%s %q rejeté: %v", e.Table, e.Key, e.Err)
}

func (e *ConstraintViolation) Unwrap() error { return e.Err }

func (e *ConstraintViolation) Is(target error) bool { return target == ErrConstraint }

// MalformedInput n'est jamais fatal : la valeur est remplacée par un marqueur d'absence.
type MalformedInput struct {
	File   string
	Line   int
	Column string
	Value  string
}

func (e *MalformedInput) Error() string {
	return fmt.Sprintf("%s:%d colonne %s: valeur illisible %q", e.File, e.Line, e.Column, e.Value)
}

func (e *MalformedInput) Is(target error) bool { return target == ErrMalformedInput }

type SourceMissing struct {
	Name string
	Err  error
}

func (e *SourceMissing) Error() string {
	return fmt.Sprintf("fichier source %s introuvable: %v", e.Name, e.Err)
}

func (e *SourceMissing) Unwrap() error { return e.Err }

func (e *SourceMissing) Is(target error) bool { return target == ErrSourceMissing }

type QueryError struct {
	Store string
	Op    string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Store, e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

func (e *QueryError) Is(target error) bool { return target == ErrQuery }

// PgError extrait l'erreur serveur Postgres, s'il y en a une.
func PgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

func IsUniqueViolation(err error) bool {
	pgErr, ok := PgError(err)
	return ok && pgErr.Code == "23505"
}

func IsForeignKeyViolation(err error) bool {
	pgErr, ok := PgError(err)
	return ok && pgErr.Code == "23503"
}

// IsRowLevel indique une erreur imputable à la ligne elle-même
// (classes SQLSTATE 22 "data exception" et 23 "integrity constraint violation").
// Le reste du lot peut continuer.
func IsRowLevel(err error) bool {
	pgErr, ok := PgError(err)
	if !ok || len(pgErr.Code) < 2 {
		return false
	}
	class := pgErr.Code[:2]
	return class == "22" || class == "23"
}

// AsConstraintViolation transforme une erreur ligne en ConstraintViolation.
func AsConstraintViolation(table, key string, err error) *ConstraintViolation {
	cv := &ConstraintViolation{Table: table, Key: key, Err: err}
	if pgErr, ok := PgError(err); ok {
		cv.Constraint = pgErr.ConstraintName
	}
	return cv
}
