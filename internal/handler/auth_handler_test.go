package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EobardThawne2/parking-beta/internal/repository"
	"github.com/EobardThawne2/parking-beta/internal/service"
)

func newAuthTestRouter(t *testing.T) (*gin.Engine, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authService := service.NewAuthService(repository.NewMemoryUserRepository(), &service.AuthConfig{
		JWTSecret:      "test-secret",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, authService.SeedAdmin(context.Background(), "admin@parkeasy.com", "admin123", "System Administrator"))

	authHandler := NewAuthHandler(authService)

	router := gin.New()
	api := router.Group("/api")
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/admin-login", authHandler.AdminLogin)

	authed := api.Group("")
	authed.Use(AuthMiddleware(authService))
	authed.GET("/check-auth", authHandler.CheckAuth)

	return router, authService
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterEndpoint(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	w := postJSON(t, router, "/api/register", map[string]string{
		"email":     "alice@example.com",
		"password":  "secret123",
		"full_name": "Alice Smith",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decodeResponse(t, w)
	require.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["token"])

	user, ok := data["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "user", user["role"])

	// Duplicate registration is rejected
	w = postJSON(t, router, "/api/register", map[string]string{
		"email":     "alice@example.com",
		"password":  "secret123",
		"full_name": "Alice Smith",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	resp = decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "USER_EXISTS", resp.Error.Code)
}

func TestRegisterInvalidBody(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	w := postJSON(t, router, "/api/register", map[string]string{"email": "x@example.com"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, router, "/api/register", map[string]string{
		"email":     "bad-email",
		"password":  "secret123",
		"full_name": "X",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	w := postJSON(t, router, "/api/login", map[string]string{
		"email":    "admin@parkeasy.com",
		"password": "admin123",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, router, "/api/login", map[string]string{
		"email":    "admin@parkeasy.com",
		"password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)
}

func TestAdminLoginEndpoint(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	w := postJSON(t, router, "/api/register", map[string]string{
		"email":     "bob@example.com",
		"password":  "secret123",
		"full_name": "Bob",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/api/admin-login", map[string]string{
		"email":    "admin@parkeasy.com",
		"password": "admin123",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, router, "/api/admin-login", map[string]string{
		"email":    "bob@example.com",
		"password": "secret123",
	}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCheckAuthEndpoint(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	w := postJSON(t, router, "/api/register", map[string]string{
		"email":     "carol@example.com",
		"password":  "secret123",
		"full_name": "Carol",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	data := decodeResponse(t, w).Data.(map[string]interface{})
	token := data["token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/check-auth", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	checkData, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, checkData["authenticated"])

	// Missing and malformed tokens are rejected
	req = httptest.NewRequest(http.MethodGet, "/api/check-auth", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/check-auth", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
