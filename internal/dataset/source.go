// Package dataset lit l'extrait Olist (CSV) et le normalise en modèles.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"olist_back_end/internal/apperr"
	"olist_back_end/internal/config"
)

// Source ouvre un fichier de l'extrait par son nom.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	String() string
}

// DirSource lit les CSV depuis un répertoire local.
type DirSource struct {
	Dir string
}

func (s DirSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.Dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &apperr.SourceMissing{Name: name, Err: err}
		}
		return nil, fmt.Errorf("ouverture %s: %w", name, err)
	}
	return f, nil
}

func (s DirSource) String() string { return "dir:" + s.Dir }

// NewSource choisit MinIO si un endpoint est configuré, sinon le répertoire local.
func NewSource(cfg config.SourceConfig) (Source, error) {
	if cfg.UsesMinIO() {
		return NewMinIOSource(cfg)
	}
	return DirSource{Dir: cfg.Dir}, nil
}
