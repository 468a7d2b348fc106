package handlers

import (
	"net/http"
	"time"

	"agri-marketplace-api-server/internal/accounts"
	"agri-marketplace-api-server/internal/auth"
	"agri-marketplace-api-server/internal/models"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	Directory *accounts.Directory
	JWTSecret []byte
	JWTTTL    time.Duration
}

type RegisterRequest struct {
	Name     string          `json:"name" binding:"required"`
	Mobile   string          `json:"mobile" binding:"required"`
	Password string          `json:"password" binding:"required"`
	Role     string          `json:"role" binding:"required"`
	Location LocationRequest `json:"location"`
}

type LoginRequest struct {
	Mobile   string `json:"mobile" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a farmer or consumer account and logs it straight in.
func (h *AccountHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	acct, err := h.Directory.Register(c.Request.Context(), accounts.RegisterInput{
		Name:     req.Name,
		Mobile:   req.Mobile,
		Password: req.Password,
		Role:     models.Role(req.Role),
		Location: req.Location.toModel(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := auth.GenerateJWT(acct, h.JWTSecret, h.JWTTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "account": acct})
}

// Login checks credentials and returns a signed token.
func (h *AccountHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	acct, err := h.Directory.Authenticate(c.Request.Context(), req.Mobile, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := auth.GenerateJWT(acct, h.JWTSecret, h.JWTTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "account": acct})
}

// Me returns the caller's own account record.
func (h *AccountHandler) Me(c *gin.Context) {
	acct, ok := currentAccount(c, h.Directory)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, acct)
}
