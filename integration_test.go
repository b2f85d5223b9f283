package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/printforge/print-shop-api/config"
	"github.com/printforge/print-shop-api/controllers"
	"github.com/printforge/print-shop-api/models"
	"github.com/printforge/print-shop-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupIntegrationEnv wires up an in-memory database, mock external services
// and the real service layer, mirroring the startup sequence in main
func setupIntegrationEnv(t *testing.T) *services.MockEmailService {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Material{},
		&models.PrintConfig{},
		&models.Quote{},
		&models.Order{},
	))
	require.NoError(t, models.SeedReferenceData(db))
	config.SetDB(db)

	analyzer := services.NewMockMeshAnalyzer(&services.GeometryResult{
		VolumeCm3:      21.52,
		SurfaceAreaCm2: 48.6,
		BoundingBox:    services.BoundingBox{X: 4.0, Y: 4.0, Z: 2.5},
	})
	analyzer.SetAsMockForTesting()

	s3 := services.NewMockS3Service()
	s3.SetAsMockForTesting()

	email := services.NewMockEmailService()
	pricing := services.InitPricingService(services.DefaultPricingConfig())
	services.InitQuoteService(pricing)
	services.InitOrderService(email)

	return email
}

// setupIntegrationRouter builds the API routes the way main does, with the
// JWT middleware replaced by a stub that authenticates as the given Auth0 ID
func setupIntegrationRouter(auth0ID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/materials", controllers.ListMaterials)
		v1.GET("/print-configs", controllers.ListPrintConfigs)
		v1.POST("/quotes", controllers.CreateQuote)
		v1.GET("/quotes/:quoteId", controllers.GetQuote)

		authorized := v1.Group("")
		authorized.Use(func(c *gin.Context) {
			c.Set("user_id", auth0ID)
			c.Next()
		})
		{
			authorized.POST("/orders", controllers.AcceptQuote)
			authorized.GET("/orders", controllers.ListOrders)
			authorized.GET("/orders/:orderId", controllers.GetOrder)
		}
	}

	return router
}

func uploadMeshRequest(t *testing.T, materialID, printConfigID string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "benchy.stl")
	require.NoError(t, err)
	_, err = part.Write([]byte("solid benchy"))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("material_id", materialID))
	require.NoError(t, writer.WriteField("print_config_id", printConfigID))
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/api/v1/quotes", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// TestQuoteToOrderFlow walks the whole happy path through the HTTP surface:
// upload a mesh, read the quote back, accept it, and confirm the order
// shows up in the caller's order list.
func TestQuoteToOrderFlow(t *testing.T) {
	email := setupIntegrationEnv(t)

	user := models.User{Auth0ID: "auth0|flow", Name: "Flow Tester", Email: "flow@example.com"}
	require.NoError(t, config.GetDB().Create(&user).Error)

	router := setupIntegrationRouter(user.Auth0ID)

	// 1. Upload a mesh and get a priced quote
	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadMeshRequest(t, "1", "2"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var quoteResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quoteResp))
	quoteData := quoteResp["data"].(map[string]interface{})
	quoteID := quoteData["quote_id"].(string)
	totalPrice := quoteData["total_price"].(float64)
	assert.Greater(t, totalPrice, 0.0)
	assert.Equal(t, models.QuoteStatusPending, quoteData["status"])

	// 2. The quote can be read back with the same locked-in price
	w = httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/quotes/"+quoteID, nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var readResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &readResp))
	assert.Equal(t, totalPrice, readResp["data"].(map[string]interface{})["total_price"])

	// 3. Accept the quote
	acceptBody, _ := json.Marshal(map[string]interface{}{
		"quote_id": quoteID,
		"shipping_address": map[string]string{
			"name":        "Flow Tester",
			"address":     "1 Print Lane",
			"city":        "Springfield",
			"postal_code": "12345",
			"country":     "US",
		},
	})
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(acceptBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var orderResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orderResp))
	orderData := orderResp["data"].(map[string]interface{})
	orderID := orderData["order_id"].(string)
	assert.Equal(t, totalPrice, orderData["total_amount"], "order must carry the quoted price")
	assert.Regexp(t, `^ORD-\d{8}-\d{4}$`, orderData["order_number"])

	// Confirmation email went out to the accepting user
	require.Len(t, email.SentEmails(), 1)
	assert.Equal(t, user.Email, email.SentEmails()[0].Email)

	// 4. Accepting the same quote again is refused
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(acceptBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	// 5. The order appears in the caller's order list and detail view
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var listResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp["data"].([]interface{}), 1)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/orders/"+orderID, nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var detailResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detailResp))
	detail := detailResp["data"].(map[string]interface{})
	assert.Equal(t, quoteID, detail["quote_id"])
	assert.Equal(t, models.QuoteStatusAccepted, detail["quote"].(map[string]interface{})["status"])
}

// TestPublicEndpoints verifies the unauthenticated surface of the API
func TestPublicEndpoints(t *testing.T) {
	setupIntegrationEnv(t)
	router := setupIntegrationRouter("auth0|unused")

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/health", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, true, response["success"])
		assert.Equal(t, "3D Print Shop API is running", response["message"])
	})

	t.Run("materials", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/materials", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response["data"].([]interface{}), 4)
	})

	t.Run("print configs", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/print-configs", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response["data"].([]interface{}), 3)
	})
}
