// Package handlers expose les lectures en JSON. Aucun état n'est partagé entre
// requêtes : chaque appel passe par un repository qui ouvre sa propre connexion.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"olist_back_end/internal/apperr"
	"olist_back_end/internal/config"
	"olist_back_end/internal/models"
)

const (
	hybridBanner     = "E-commerce Hybrid Backend is running!"
	relationalBanner = "E-commerce PostgreSQL Only Backend is running!"
)

// RelationalReader est satisfait par *repository.Relational.
type RelationalReader interface {
	Customers(ctx context.Context) ([]models.Customer, error)
	Orders(ctx context.Context) ([]models.Order, error)
	OrderItems(ctx context.Context) ([]models.OrderItem, error)
}

// DocumentReader est satisfait par *repository.Documents.
type DocumentReader interface {
	FindAll(ctx context.Context, collection string) ([]map[string]any, error)
}

type Handler struct {
	variant    config.Variant
	relational RelationalReader
	documents  DocumentReader
	log        zerolog.Logger
}

// New : documents peut être nil pour la variante relationnelle.
func New(variant config.Variant, relational RelationalReader, documents DocumentReader, log zerolog.Logger) *Handler {
	return &Handler{
		variant:    variant,
		relational: relational,
		documents:  documents,
		log:        log,
	}
}

func (h *Handler) Variant() config.Variant { return h.variant }

// 🟢 Liveness
func (h *Handler) Home(c *gin.Context) {
	if h.variant == config.VariantRelational {
		c.String(http.StatusOK, relationalBanner)
		return
	}
	c.String(http.StatusOK, hybridBanner)
}

// serve lit la ressource puis répond 200 avec le tableau, jamais null.
func serve[T any](h *Handler, c *gin.Context, resource string, fetch func(ctx context.Context) ([]T, error)) {
	rows, err := fetch(c.Request.Context())
	if err != nil {
		h.respondError(c, resource, err)
		return
	}
	if rows == nil {
		rows = []T{}
	}
	c.JSON(http.StatusOK, rows)
}

// respondError ne renvoie au client qu'un message fixe ; le détail reste dans les logs.
func (h *Handler) respondError(c *gin.Context, resource string, err error) {
	var connErr *apperr.ConnectionError
	if errors.As(err, &connErr) {
		h.log.Error().Err(err).Str("resource", resource).Str("store", connErr.Store).Msg("❌ Store injoignable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to connect to " + connErr.Store})
		return
	}
	h.log.Error().Err(err).Str("resource", resource).Msg("❌ Erreur de lecture")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
