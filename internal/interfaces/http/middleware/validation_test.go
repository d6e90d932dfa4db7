package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineRequest struct {
	ItemCode string  `json:"itemCode" binding:"required"`
	Quantity float64 `json:"quantity" binding:"gt=0"`
}

type dispatchRequest struct {
	BranchName string        `json:"branchName" binding:"required"`
	Type       string        `json:"type" binding:"required,oneof=FG WH"`
	Items      []lineRequest `json:"items" binding:"required,min=1,dive"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req dispatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func postJSON(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleValidationError(t *testing.T) {
	router := newValidationRouter()

	t.Run("lists every field by json name", func(t *testing.T) {
		w := postJSON(router, `{"type": "XX", "items": []}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "This field is required", fields["branchName"])
		assert.Equal(t, "Must be one of: FG WH", fields["type"])
		assert.Equal(t, "Must be at least 1", fields["items"])
	})

	t.Run("nested line errors", func(t *testing.T) {
		w := postJSON(router, `{"branchName": "North", "type": "FG", "items": [{"itemCode": "", "quantity": 0}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Error.Details, 2)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := postJSON(router, `{"branchName": `)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Empty(t, resp.Error.Details)
	})

	t.Run("valid input", func(t *testing.T) {
		w := postJSON(router, `{"branchName": "North", "type": "FG", "items": [{"itemCode": "FG001", "quantity": 2}]}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

type listQuery struct {
	BranchName string `form:"branchName"`
	FromDate   string `form:"fromDate" binding:"omitempty,dmy"`
}

type branchBody struct {
	AliasName string `json:"aliasName" binding:"required,max=10,alias"`
}

func TestCustomTags(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/list", func(c *gin.Context) {
		var q listQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	router.POST("/branch", func(c *gin.Context) {
		var b branchBody
		if err := c.ShouldBindJSON(&b); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	get := func(target string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		return w
	}

	tests := []struct {
		name   string
		w      *httptest.ResponseRecorder
		status int
		field  string
		msg    string
	}{
		{"day-month-year date", get("/list?fromDate=05-03-2025"), http.StatusOK, "", ""},
		{"empty date is allowed", get("/list?branchName=North"), http.StatusOK, "", ""},
		{"iso date is rejected", get("/list?fromDate=2025-03-05"), http.StatusBadRequest, "fromDate", "Must be a date in DD-MM-YYYY format"},
		{"plain alias", sendJSON(router, "/branch", `{"aliasName": "N2"}`), http.StatusOK, "", ""},
		{"alias with spaces", sendJSON(router, "/branch", `{"aliasName": "N 2"}`), http.StatusBadRequest, "aliasName", "Must contain only letters and digits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.w.Code)
			if tt.field == "" {
				return
			}
			var resp dto.Response
			require.NoError(t, json.Unmarshal(tt.w.Body.Bytes(), &resp))
			require.Len(t, resp.Error.Details, 1)
			assert.Equal(t, tt.field, resp.Error.Details[0].Field)
			assert.Equal(t, tt.msg, resp.Error.Details[0].Message)
		})
	}
}

func sendJSON(router http.Handler, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
