package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/printforge/print-shop-api/config"
	"github.com/printforge/print-shop-api/middleware"
	"github.com/printforge/print-shop-api/models"
	"github.com/printforge/print-shop-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupControllerTestDB creates an isolated in-memory database with the full
// schema and seeded reference data, installed as the global DB
func setupControllerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Material{},
		&models.PrintConfig{},
		&models.Quote{},
		&models.Order{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	require.NoError(t, models.SeedReferenceData(db))

	config.SetDB(db)
	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// setupMockAuth0Server creates a mock HTTP server that simulates Auth0's /userinfo endpoint
func setupMockAuth0Server(userInfoMap map[string]*services.Auth0UserInfo) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userinfo" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		// Extract token from Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || len(authHeader) < 7 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		token := authHeader[7:] // Remove "Bearer " prefix

		// Look up user info by token
		userInfo, exists := userInfoMap[token]
		if !exists {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(userInfo)
	}))
}

// mockAuthMiddleware simulates the Auth0 JWT middleware for testing
// It sets up the context exactly as the real EnsureValidToken middleware does
func mockAuthMiddleware(auth0ID, accessToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Set the user_id (Auth0 ID from 'sub' claim)
		c.Set("user_id", auth0ID)

		// Set the access token for calling /userinfo
		c.Set("access_token", accessToken)

		// Create a ValidatedClaims structure matching what the real JWT
		// middleware creates
		mockClaims := &validator.ValidatedClaims{
			RegisteredClaims: validator.RegisteredClaims{
				Subject: auth0ID,
			},
			CustomClaims: &middleware.CustomClaims{},
		}
		c.Set("validated_claims", mockClaims)

		c.Next()
	}
}

func TestCreateUser(t *testing.T) {
	setupControllerTestDB(t)

	userInfoMap := map[string]*services.Auth0UserInfo{
		"valid-token": {
			Sub:   "auth0|newuser",
			Email: "newuser@example.com",
			Name:  "New User",
		},
		"no-email-token": {
			Sub:  "auth0|noemail",
			Name: "No Email",
		},
	}
	auth0Server := setupMockAuth0Server(userInfoMap)
	defer auth0Server.Close()

	config.SetConfig(&config.Config{Auth0Domain: auth0Server.URL})

	tests := []struct {
		name           string
		auth0ID        string
		accessToken    string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "successfully creates user from Auth0 userinfo",
			auth0ID:        "auth0|newuser",
			accessToken:    "valid-token",
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "rejects userinfo without email",
			auth0ID:        "auth0|noemail",
			accessToken:    "no-email-token",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "MISSING_EMAIL",
		},
		{
			name:           "fails when Auth0 rejects the token",
			auth0ID:        "auth0|bad",
			accessToken:    "unknown-token",
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "AUTH0_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/users", mockAuthMiddleware(tt.auth0ID, tt.accessToken), CreateUser)

			req, _ := http.NewRequest(http.MethodPost, "/users", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

			if tt.expectedStatus == http.StatusCreated {
				assert.True(t, response["success"].(bool))
				data := response["data"].(map[string]interface{})
				assert.Equal(t, tt.auth0ID, data["auth0_id"])
				assert.Equal(t, "newuser@example.com", data["email"])
			} else {
				assert.False(t, response["success"].(bool))
				errObj := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedCode, errObj["code"])
			}
		})
	}
}

func TestCreateUser_DuplicateAuth0ID(t *testing.T) {
	db := setupControllerTestDB(t)

	existing := models.User{
		Auth0ID: "auth0|dup",
		Name:    "Existing",
		Email:   "existing@example.com",
	}
	require.NoError(t, db.Create(&existing).Error)

	userInfoMap := map[string]*services.Auth0UserInfo{
		"dup-token": {
			Sub:   "auth0|dup",
			Email: "existing@example.com",
			Name:  "Existing",
		},
	}
	auth0Server := setupMockAuth0Server(userInfoMap)
	defer auth0Server.Close()
	config.SetConfig(&config.Config{Auth0Domain: auth0Server.URL})

	router := setupTestRouter()
	router.POST("/users", mockAuthMiddleware("auth0|dup", "dup-token"), CreateUser)

	req, _ := http.NewRequest(http.MethodPost, "/users", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errObj := response["error"].(map[string]interface{})
	assert.Equal(t, "USER_EXISTS", errObj["code"])
}

func TestGetMyProfile(t *testing.T) {
	db := setupControllerTestDB(t)

	user := models.User{
		Auth0ID: "auth0|profile",
		Name:    "Profile User",
		Email:   "profile@example.com",
	}
	require.NoError(t, db.Create(&user).Error)

	t.Run("returns the caller's profile", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/users/me", mockAuthMiddleware(user.Auth0ID, "token"), GetMyProfile)

		req, _ := http.NewRequest(http.MethodGet, "/users/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "profile@example.com", data["email"])
	})

	t.Run("unknown caller gets not found", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/users/me", mockAuthMiddleware("auth0|ghost", "token"), GetMyProfile)

		req, _ := http.NewRequest(http.MethodGet, "/users/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateMyProfile(t *testing.T) {
	db := setupControllerTestDB(t)

	user := models.User{
		Auth0ID: "auth0|update",
		Name:    "Before",
		Email:   "before@example.com",
	}
	require.NoError(t, db.Create(&user).Error)

	router := setupTestRouter()
	router.PUT("/users/me", mockAuthMiddleware(user.Auth0ID, "token"), UpdateMyProfile)

	body, _ := json.Marshal(map[string]string{"name": "After"})
	req, _ := http.NewRequest(http.MethodPut, "/users/me", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, "After", stored.Name)
	assert.Equal(t, "before@example.com", stored.Email)
}
