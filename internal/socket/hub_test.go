package socket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// dialHub stands up a server that registers the upgraded connection under
// accountID and returns the client side of the connection.
func dialHub(t *testing.T, hub *Hub, accountID string, isAdmin bool) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	registered := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(accountID, isAdmin, conn)
		close(registered)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientConn.Close() })

	<-registered
	return clientConn
}

func TestSendToOfflineAccountIsNoop(t *testing.T) {
	hub := NewHub(zap.NewNop())
	assert.NoError(t, hub.Send("nobody", "order.placed", nil))
}

func TestConcurrentSendsToOneAccount(t *testing.T) {
	hub := NewHub(zap.NewNop())
	clientConn := dialHub(t, hub, "farmer-1", false)

	const messages = 32
	var wg sync.WaitGroup
	for i := 0; i < messages; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, hub.Send("farmer-1", "order.placed", map[string]string{"orderId": "order-1"}))
		}()
	}

	for i := 0; i < messages; i++ {
		_, raw, err := clientConn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(raw), "order.placed")
	}
	wg.Wait()
}

func TestBroadcastReachesAdminsOnly(t *testing.T) {
	hub := NewHub(zap.NewNop())
	adminConn := dialHub(t, hub, "admin-1", true)
	farmerConn := dialHub(t, hub, "farmer-1", false)

	hub.Broadcast("product.pending", map[string]string{"productId": "product-1"})

	_, raw, err := adminConn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(raw), "product.pending")

	require.NoError(t, farmerConn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err = farmerConn.ReadMessage()
	assert.Error(t, err)
}
