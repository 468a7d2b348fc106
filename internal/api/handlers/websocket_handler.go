package handlers

import (
	"net/http"
	"time"

	"agri-marketplace-api-server/internal/auth"
	"agri-marketplace-api-server/internal/models"
	"agri-marketplace-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Maximum wait for a message from the client before the connection is
// considered dead.
const pongWait = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	Hub       *socket.Hub
	JWTSecret []byte
	Logger    *zap.Logger
}

// ServeWs upgrades the connection and keeps it registered on the hub until
// the client goes away. The token travels as a query param because browsers
// cannot set headers on websocket dials.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
		return
	}

	claims, err := auth.ParseJWT(tokenString, h.JWTSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Warn("failed to upgrade connection", zap.Error(err))
		return
	}

	h.Hub.Register(claims.AccountID, claims.Role == models.RoleAdmin, conn)

	defer func() {
		h.Hub.Unregister(claims.AccountID)
		conn.Close()
	}()

	// Client pings extend the read deadline; gorilla answers the pong.
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.Logger.Warn("unexpected close", zap.String("accountID", claims.AccountID), zap.Error(err))
			}
			break
		}
	}
}
