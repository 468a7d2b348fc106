package handlers

import (
	"net/http"

	"agri-marketplace-api-server/internal/accounts"
	"agri-marketplace-api-server/internal/catalog"
	"agri-marketplace-api-server/internal/models"
	"agri-marketplace-api-server/internal/socket"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	Catalog   *catalog.Service
	Directory *accounts.Directory
	Hub       *socket.Hub
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SetFeaturedRequest struct {
	Featured *bool `json:"featured" binding:"required"`
}

// GetProductsByStatus lists listings in one lifecycle status. The default
// is the moderation queue (pending).
func (h *AdminHandler) GetProductsByStatus(c *gin.Context) {
	status := models.ProductStatus(c.DefaultQuery("status", string(models.StatusPending)))

	products, err := h.Catalog.ListByStatus(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// SetStatus applies a moderation decision and notifies the owning farmer.
func (h *AdminHandler) SetStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.Catalog.SetStatus(c.Request.Context(), c.Param("id"), models.ProductStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	h.Hub.Send(p.FarmerID, "product.moderated", p)

	c.JSON(http.StatusOK, p)
}

// SetFeatured toggles the display-priority flag on a verified listing.
func (h *AdminHandler) SetFeatured(c *gin.Context) {
	var req SetFeaturedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.Catalog.SetFeatured(c.Request.Context(), c.Param("id"), *req.Featured)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// GetAllUsers lists every account for the admin panel.
func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	accts, err := h.Directory.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, accts)
}
