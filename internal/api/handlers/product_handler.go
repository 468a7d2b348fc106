package handlers

import (
	"net/http"

	"agri-marketplace-api-server/internal/accounts"
	"agri-marketplace-api-server/internal/apperr"
	"agri-marketplace-api-server/internal/api/middleware"
	"agri-marketplace-api-server/internal/catalog"
	"agri-marketplace-api-server/internal/models"
	"agri-marketplace-api-server/internal/socket"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	Catalog   *catalog.Service
	Directory *accounts.Directory
	Hub       *socket.Hub
}

type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Quantity    float64  `json:"quantity" binding:"required"`
	Unit        string   `json:"unit" binding:"required"`
	Price       float64  `json:"price"`
	Description string   `json:"description" binding:"required"`
	Images      []string `json:"images" binding:"required,min=1"`
}

// CreateProduct lists a new product for the calling farmer. The listing
// starts pending and goes to the admins' moderation queue.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owner, ok := currentAccount(c, h.Directory)
	if !ok {
		return
	}

	p, err := h.Catalog.Create(c.Request.Context(), owner, catalog.CreateInput{
		Name:        req.Name,
		Category:    req.Category,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Price:       req.Price,
		Description: req.Description,
		Images:      req.Images,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.Hub.Broadcast("product.pending", p)

	c.JSON(http.StatusCreated, p)
}

// DeleteProduct removes one of the caller's own pending listings.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	owner, ok := currentAccount(c, h.Directory)
	if !ok {
		return
	}

	if err := h.Catalog.Delete(c.Request.Context(), c.Param("id"), owner); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// GetMyProducts lists the caller's own listings in every status.
func (h *ProductHandler) GetMyProducts(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)

	products, err := h.Catalog.ListByOwner(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct returns one listing. Listings that are not verified are only
// visible to their owner and to admins.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.Catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if p.Status != models.StatusVerified {
		accountID := c.GetString(middleware.ContextAccountID)
		role := c.GetString(middleware.ContextRole)
		if p.FarmerID != accountID && role != string(models.RoleAdmin) {
			respondError(c, apperr.Wrap(apperr.ErrNotFound, "product %s", p.ID))
			return
		}
	}

	c.JSON(http.StatusOK, p)
}
