package handlers

import (
	"net/http"
	"strconv"

	"agri-marketplace-api-server/internal/market"
	"agri-marketplace-api-server/internal/models"

	"github.com/gin-gonic/gin"
)

type MarketHandler struct {
	Engine *market.Engine
}

// Search runs a marketplace query. Viewer position comes from the lat/lng
// query params; all filters are optional.
//
//	GET /products?q=tomato&category=vegetables&minPrice=10&maxPrice=100&maxDistance=50&lat=30.7&lng=76.8&limit=20
func (h *MarketHandler) Search(c *gin.Context) {
	viewer := models.Location{}
	var err error
	if v := c.Query("lat"); v != "" {
		if viewer.Latitude, err = strconv.ParseFloat(v, 64); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lat must be a number"})
			return
		}
	}
	if v := c.Query("lng"); v != "" {
		if viewer.Longitude, err = strconv.ParseFloat(v, 64); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lng must be a number"})
			return
		}
	}

	filters := market.Filters{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	}
	if filters.MinPrice, err = optionalFloat(c, "minPrice"); err != nil {
		return
	}
	if filters.MaxPrice, err = optionalFloat(c, "maxPrice"); err != nil {
		return
	}
	if filters.MaxDistanceKm, err = optionalFloat(c, "maxDistance"); err != nil {
		return
	}
	if v := c.Query("limit"); v != "" {
		limit, convErr := strconv.Atoi(v)
		if convErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		filters.Limit = limit
	}

	results, err := h.Engine.Search(c.Request.Context(), viewer, filters)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// optionalFloat parses a query param, writing the error response itself.
func optionalFloat(c *gin.Context, name string) (*float64, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a number"})
		return nil, err
	}
	return &f, nil
}
