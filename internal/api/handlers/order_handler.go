package handlers

import (
	"net/http"

	"agri-marketplace-api-server/internal/accounts"
	"agri-marketplace-api-server/internal/api/middleware"
	"agri-marketplace-api-server/internal/models"
	"agri-marketplace-api-server/internal/orders"
	"agri-marketplace-api-server/internal/socket"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	Ledger    *orders.Ledger
	Directory *accounts.Directory
	Hub       *socket.Hub
}

type CheckoutRequest struct {
	Lines           []orders.CartLine `json:"lines" binding:"required,min=1"`
	DeliveryAddress string            `json:"deliveryAddress"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Checkout places an order for every cart line, all-or-nothing, and tells
// each involved farmer over the websocket hub.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	consumer, ok := currentAccount(c, h.Directory)
	if !ok {
		return
	}

	receipt, err := h.Ledger.PlaceOrder(c.Request.Context(), consumer, req.Lines, req.DeliveryAddress)
	if err != nil {
		respondError(c, err)
		return
	}

	for _, order := range receipt.Orders {
		h.Hub.Send(order.Farmer.AccountID, "order.placed", order)
	}

	c.JSON(http.StatusCreated, receipt)
}

// GetMyOrders lists the calling consumer's purchases, newest first.
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)

	result, err := h.Ledger.ListByConsumer(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMySales lists orders placed against the calling farmer's listings.
func (h *OrderHandler) GetMySales(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)

	result, err := h.Ledger.ListByFarmer(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateStatus advances an order: the farmer confirms or delivers, the
// consumer cancels while still pending. The counterparty gets notified.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := currentAccount(c, h.Directory)
	if !ok {
		return
	}

	order, err := h.Ledger.UpdateStatus(c.Request.Context(), actor, c.Param("id"), models.OrderStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	counterparty := order.Consumer.AccountID
	if actor.ID == counterparty {
		counterparty = order.Farmer.AccountID
	}
	h.Hub.Send(counterparty, "order.updated", order)

	c.JSON(http.StatusOK, order)
}
