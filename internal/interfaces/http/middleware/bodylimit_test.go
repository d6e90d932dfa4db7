package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(BodyLimit(limit))
	router.POST("/dispatch", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.String(http.StatusBadRequest, "unreadable body")
			return
		}
		c.String(http.StatusCreated, "ok")
	})
	router.GET("/dispatch", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return router
}

func TestBodyLimit(t *testing.T) {
	payload := `{"branchName":"North","type":"FG","itemCode":["FG001"],"qty":[4]}`

	tests := []struct {
		name          string
		limit         int64
		method        string
		body          string
		contentLength int64
		want          int
		wantCode      string
	}{
		{"dispatch body within limit", 1024, http.MethodPost, payload, int64(len(payload)), http.StatusCreated, ""},
		{"declared length over limit", 16, http.MethodPost, payload, int64(len(payload)), http.StatusRequestEntityTooLarge, "ERR_REQUEST_TOO_LARGE"},
		{"streamed body over limit", 16, http.MethodPost, payload, -1, http.StatusBadRequest, ""},
		{"zero limit disables the check", 0, http.MethodPost, strings.Repeat("x", 4096), 4096, http.StatusCreated, ""},
		{"reads are unaffected", 8, http.MethodGet, "", 0, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/dispatch", strings.NewReader(tt.body))
			req.ContentLength = tt.contentLength
			w := httptest.NewRecorder()
			newLimitedRouter(tt.limit).ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.wantCode != "" {
				assert.Contains(t, w.Body.String(), tt.wantCode)
			}
		})
	}
}
