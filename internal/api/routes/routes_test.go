package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agri-marketplace-api-server/internal/accounts"
	"agri-marketplace-api-server/internal/catalog"
	"agri-marketplace-api-server/internal/market"
	"agri-marketplace-api-server/internal/orders"
	"agri-marketplace-api-server/internal/socket"
	"agri-marketplace-api-server/internal/store/memstore"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	directory := accounts.NewDirectory(memstore.NewAccounts(), logger)
	catalogSvc := catalog.NewService(memstore.NewCatalog(), logger)
	ledger := orders.NewLedger(catalogSvc, memstore.NewOrders(),
		orders.SimulatedProcessor{Delay: 0}, time.Second, logger)

	require.NoError(t, directory.SeedAdmin(context.Background(), "Admin", "9000000000", "adminpass"))

	return SetupRouter(Deps{
		Directory: directory,
		Catalog:   catalogSvc,
		Engine:    market.NewEngine(catalogSvc),
		Ledger:    ledger,
		Hub:       socket.NewHub(logger),
		JWTSecret: []byte("test-secret"),
		JWTTTL:    time.Hour,
		Logger:    logger,
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func registerAndLogin(t *testing.T, router *gin.Engine, name, mobile, role string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     name,
		"mobile":   mobile,
		"password": "secret123",
		"role":     role,
		"location": gin.H{"latitude": 30.7333, "longitude": 76.7794, "address": "Chandigarh, Punjab"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["token"].(string)
}

func TestMarketplaceLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	farmerToken := registerAndLogin(t, router, "Ramesh Kumar", "9876543210", "farmer")
	consumerToken := registerAndLogin(t, router, "Anita Sharma", "9123456780", "consumer")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"mobile": "9000000000", "password": "adminpass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	adminToken := decode(t, w)["token"].(string)

	// Farmer lists a product; it starts pending.
	w = doJSON(t, router, http.MethodPost, "/api/v1/products", farmerToken, gin.H{
		"name":        "Fresh Tomatoes",
		"category":    "vegetables",
		"quantity":    50,
		"unit":        "kg",
		"price":       45,
		"description": "Fresh organic tomatoes.",
		"images":      []string{"https://example.com/tomatoes.jpg"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	product := decode(t, w)
	productID := product["id"].(string)
	assert.Equal(t, "pending", product["status"])

	// A pending listing is invisible to marketplace search.
	w = doJSON(t, router, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var results []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	assert.Empty(t, results)

	// Consumers cannot moderate.
	w = doJSON(t, router, http.MethodPatch, "/api/v1/admin/products/"+productID+"/status", consumerToken, gin.H{"status": "verified"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admin sees the moderation queue and verifies the listing.
	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/products?status=pending", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodPatch, "/api/v1/admin/products/"+productID+"/status", adminToken, gin.H{"status": "verified"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Now the listing shows up for a nearby viewer.
	w = doJSON(t, router, http.MethodGet, "/api/v1/products?lat=30.7333&lng=76.7794&maxDistance=50", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, productID, results[0]["id"])

	// Consumer checks out the whole stock.
	w = doJSON(t, router, http.MethodPost, "/api/v1/orders", consumerToken, gin.H{
		"lines": []gin.H{{"productId": productID, "quantity": 50}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	receipt := decode(t, w)
	assert.Equal(t, 2250.0, receipt["subtotal"])
	assert.Equal(t, 45.0, receipt["platformFee"])

	// The listing is sold out and gone from search.
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/products/%s", productID), farmerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sold", decode(t, w)["status"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	assert.Empty(t, results)

	// Oversell after sold-out is rejected.
	w = doJSON(t, router, http.MethodPost, "/api/v1/orders", consumerToken, gin.H{
		"lines": []gin.H{{"productId": productID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Both sides see the order in their history.
	w = doJSON(t, router, http.MethodGet, "/api/v1/my/orders", consumerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/v1/my/sales", farmerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Farmers cannot place orders.
	w = doJSON(t, router, http.MethodPost, "/api/v1/orders", farmerToken, gin.H{
		"lines": []gin.H{{"productId": productID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDuplicateMobileOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	registerAndLogin(t, router, "Ramesh Kumar", "9876543210", "farmer")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Imposter",
		"mobile":   "9876543210",
		"password": "secret123",
		"role":     "consumer",
		"location": gin.H{"latitude": 0, "longitude": 0, "address": ""},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProductDetailVisibilityOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	farmerToken := registerAndLogin(t, router, "Ramesh Kumar", "9876543210", "farmer")

	w := doJSON(t, router, http.MethodPost, "/api/v1/products", farmerToken, gin.H{
		"name":        "Fresh Tomatoes",
		"category":    "vegetables",
		"quantity":    50,
		"unit":        "kg",
		"price":       45,
		"description": "Fresh organic tomatoes.",
		"images":      []string{"https://example.com/tomatoes.jpg"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	productID := decode(t, w)["id"].(string)

	// A pending listing is hidden from anonymous viewers but not its owner.
	w = doJSON(t, router, http.MethodGet, "/api/v1/products/"+productID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/v1/products/"+productID, farmerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"mobile": "9000000000", "password": "adminpass",
	})
	require.Equal(t, http.StatusOK, w.Code)
	adminToken := decode(t, w)["token"].(string)

	w = doJSON(t, router, http.MethodPatch, "/api/v1/admin/products/"+productID+"/status", adminToken, gin.H{
		"status": "verified",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Once verified, no account is needed to view it.
	w = doJSON(t, router, http.MethodGet, "/api/v1/products/"+productID, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Fresh Tomatoes", decode(t, w)["name"])

	// Garbage tokens do not break public access either.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID, nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
