package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/auth"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/config"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(tokens *auth.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TerminalAuth(TerminalAuthConfig{
		Validator:        tokens,
		SkipPaths:        []string{"/health"},
		SkipPathPrefixes: []string{"/public/"},
	}))
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"terminal": GetTerminal(c), "branch": GetTerminalBranch(c)})
	}
	router.GET("/health", handler)
	router.GET("/public/ping", handler)
	router.GET("/dispatch", handler)
	return router
}

func TestTerminalAuth(t *testing.T) {
	tokens := auth.NewTokenService(config.AuthConfig{Secret: "terminal-secret", Issuer: "erp-test", TokenTTL: time.Hour})
	router := newAuthRouter(tokens)
	token, _, err := tokens.Issue("till-1", "asha", "North")
	require.NoError(t, err)

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dispatch", nil)
		req.Header.Set(AuthHeaderKey, "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "till-1", body["terminal"])
		assert.Equal(t, "North", body["branch"])
	})

	t.Run("query token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dispatch?token="+token, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dispatch", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
	})

	t.Run("foreign signature", func(t *testing.T) {
		other := auth.NewTokenService(config.AuthConfig{Secret: "other-secret", Issuer: "erp-test"})
		forged, _, err := other.Issue("till-9", "", "")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/dispatch", nil)
		req.Header.Set(AuthHeaderKey, "Bearer "+forged)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("skipped paths", func(t *testing.T) {
		for _, path := range []string{"/health", "/public/ping"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, w.Code, path)
		}
	})
}
