package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/connector-stripe/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter(logger *slog.Logger, cfg config.AuthConfig, captured *string) *gin.Engine {
	router := gin.New()
	router.Use(Auth(logger, cfg))
	router.GET("/api/org/billing/balance", func(c *gin.Context) {
		*captured = GetOrgID(c)
		c.Status(http.StatusOK)
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	secured := config.AuthConfig{Token: "s3cret", DefaultOrgID: "authenticated-org", DevOrgID: "dev-org"}

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantOrg    string
	}{
		{
			name:       "BearerToken",
			headers:    map[string]string{"Authorization": "Bearer s3cret"},
			wantStatus: http.StatusOK,
			wantOrg:    "authenticated-org",
		},
		{
			name:       "ConnectorTokenHeader",
			headers:    map[string]string{ConnectorTokenHeader: "s3cret", OrgIDHeader: "org-42"},
			wantStatus: http.StatusOK,
			wantOrg:    "org-42",
		},
		{
			name:       "WrongBearerFallsBackToConnectorHeader",
			headers:    map[string]string{"Authorization": "Bearer nope", ConnectorTokenHeader: "s3cret"},
			wantStatus: http.StatusOK,
			wantOrg:    "authenticated-org",
		},
		{
			name:       "NoCredentials",
			headers:    map[string]string{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "WrongToken",
			headers:    map[string]string{"Authorization": "Bearer s3cre", ConnectorTokenHeader: "S3CRET"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "BasicSchemeIsNotBearer",
			headers:    map[string]string{"Authorization": "Basic s3cret"},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured string
			router := authRouter(slog.Default(), secured, &captured)

			req, _ := http.NewRequest(http.MethodGet, "/api/org/billing/balance", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantOrg, captured)
		})
	}
}

func TestAuthMiddleware_UnauthorizedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var captured string
	router := authRouter(slog.Default(), config.AuthConfig{Token: "s3cret", DefaultOrgID: "authenticated-org"}, &captured)

	req, _ := http.NewRequest(http.MethodGet, "/api/org/billing/balance", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, map[string]interface{}{"code": "UNAUTHORIZED", "message": "Authentication required"}, body["error"])

	ts, ok := body["timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse("2006-01-02T15:04:05.000Z", ts)
	assert.NoError(t, err)
}

func TestAuthMiddleware_DevMode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var logBuffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logBuffer, nil))
	devMode := config.AuthConfig{DefaultOrgID: "authenticated-org", DevOrgID: "dev-org"}

	t.Run("AnyRequestAcceptedWithPlaceholderOrg", func(t *testing.T) {
		var captured string
		router := authRouter(logger, devMode, &captured)

		req, _ := http.NewRequest(http.MethodGet, "/api/org/billing/balance", nil)
		req.Header.Set("Authorization", "Bearer whatever")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "dev-org", captured)
		assert.Contains(t, logBuffer.String(), "Auth guard bypassed")
	})

	t.Run("OrgHeaderHonoured", func(t *testing.T) {
		var captured string
		router := authRouter(logger, devMode, &captured)

		req, _ := http.NewRequest(http.MethodGet, "/api/org/billing/balance", nil)
		req.Header.Set(OrgIDHeader, "org-dev-1")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "org-dev-1", captured)
	})
}
