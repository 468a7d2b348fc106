package handlers

import (
	"net/http"

	"agri-marketplace-api-server/internal/accounts"
	"agri-marketplace-api-server/internal/apperr"
	"agri-marketplace-api-server/internal/api/middleware"
	"agri-marketplace-api-server/internal/models"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto its HTTP status.
func respondError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
}

// currentAccount loads the authenticated caller's account. It aborts the
// request itself when the token references an account that no longer exists.
func currentAccount(c *gin.Context, directory *accounts.Directory) (*models.Account, bool) {
	accountID := c.GetString(middleware.ContextAccountID)
	if accountID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Account not found in context"})
		return nil, false
	}
	acct, err := directory.Get(c.Request.Context(), accountID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Account no longer exists"})
		return nil, false
	}
	return acct, true
}

// LocationRequest is the address shape shared by signup and listings.
type LocationRequest struct {
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
	Address   string  `json:"address"`
	Town      string  `json:"town"`
}

func (r LocationRequest) toModel() models.Location {
	return models.Location{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Address:   r.Address,
		Town:      r.Town,
	}
}
