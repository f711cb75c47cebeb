package handlers

import (
	"github.com/gin-gonic/gin"
)

// GET /customers
func (h *Handler) GetCustomers(c *gin.Context) {
	serve(h, c, "customers", h.relational.Customers)
}

// GET /orders
func (h *Handler) GetOrders(c *gin.Context) {
	serve(h, c, "orders", h.relational.Orders)
}

// GET /order_items (variante relationnelle)
func (h *Handler) GetOrderItems(c *gin.Context) {
	serve(h, c, "order_items", h.relational.OrderItems)
}
