package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"olist_back_end/internal/repository"
)

// GET /products (variante hybride)
func (h *Handler) GetProducts(c *gin.Context) {
	h.serveCollection(c, repository.ProductsCollection)
}

// GET /reviews
func (h *Handler) GetReviews(c *gin.Context) {
	h.serveCollection(c, repository.ReviewsCollection)
}

// GET /user_profiles
func (h *Handler) GetUserProfiles(c *gin.Context) {
	h.serveCollection(c, repository.UserProfilesCollection)
}

func (h *Handler) serveCollection(c *gin.Context, collection string) {
	serve(h, c, collection, func(ctx context.Context) ([]map[string]any, error) {
		return h.documents.FindAll(ctx, collection)
	})
}
