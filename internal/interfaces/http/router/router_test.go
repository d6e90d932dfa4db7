package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "/", r.basePath)
	assert.Empty(t, r.registrars)
}

func TestRouterWithBasePath(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithBasePath("/pos"))

	g := NewDomainGroup("branch", "/branch")
	g.GET("", func(c *gin.Context) { c.String(http.StatusOK, "branches") })
	r.Register(g).Setup()

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/pos/branch").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/branch").Code)
}

func TestRouterSetup_MountsAtRoot(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	g := NewDomainGroup("dispatch", "/dispatch")
	g.GET("/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) })
	r.Register(g)
	r.Setup()

	w := serve(engine, http.MethodGet, "/dispatch/42")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", w.Body.String())
}

func TestDomainGroup_Methods(t *testing.T) {
	tests := []struct {
		method string
		add    func(g *DomainGroup, h gin.HandlerFunc)
	}{
		{http.MethodGet, func(g *DomainGroup, h gin.HandlerFunc) { g.GET("/:id", h) }},
		{http.MethodPost, func(g *DomainGroup, h gin.HandlerFunc) { g.POST("/:id", h) }},
		{http.MethodPut, func(g *DomainGroup, h gin.HandlerFunc) { g.PUT("/:id", h) }},
		{http.MethodPatch, func(g *DomainGroup, h gin.HandlerFunc) { g.PATCH("/:id", h) }},
		{http.MethodDelete, func(g *DomainGroup, h gin.HandlerFunc) { g.DELETE("/:id", h) }},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			engine := gin.New()
			g := NewDomainGroup("itemtransfer", "/itemtransfer")
			tt.add(g, func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) })
			g.RegisterRoutes(engine.Group("/"))

			w := serve(engine, tt.method, "/itemtransfer/7")
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.method, w.Body.String())
		})
	}
}

func TestDomainGroup_Middleware(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("shift", "/shift")
	g.Use(func(c *gin.Context) {
		c.Header("X-Shift", "applied")
		c.Next()
	})
	g.GET("", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	g.RegisterRoutes(engine.Group("/"))

	assert.Equal(t, "applied", serve(engine, http.MethodGet, "/shift").Header().Get("X-Shift"))
}

func TestDomainGroup_Subgroups(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("registry", "")
	g.Group("warehouse", "/warehouse").GET("", func(c *gin.Context) { c.String(http.StatusOK, "warehouses") })
	g.Group("employee", "/employee").GET("", func(c *gin.Context) { c.String(http.StatusOK, "employees") })
	g.RegisterRoutes(engine.Group("/"))

	assert.Equal(t, "warehouses", serve(engine, http.MethodGet, "/warehouse").Body.String())
	assert.Equal(t, "employees", serve(engine, http.MethodGet, "/employee").Body.String())
}

func TestDomainGroup_StaticBesideParam(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("dispatch", "/dispatch")
	g.GET("/ws", func(c *gin.Context) { c.String(http.StatusOK, "ws") }).
		GET("/:id", func(c *gin.Context) { c.String(http.StatusOK, "id") })
	g.RegisterRoutes(engine.Group("/"))

	assert.Equal(t, "ws", serve(engine, http.MethodGet, "/dispatch/ws").Body.String())
	assert.Equal(t, "id", serve(engine, http.MethodGet, "/dispatch/abc").Body.String())
}

func TestRouterRoutes(t *testing.T) {
	r := NewRouter(gin.New())
	noop := func(c *gin.Context) {}

	shift := NewDomainGroup("shift", "/shift")
	shift.POST("", noop).Describe("open a shift").
		PATCH("/close-shift/:id", noop)

	dayEnd := NewDomainGroup("dayend", "/dayend")
	dayEnd.Group("validation", "/validation").GET("", noop)

	r.Register(shift).Register(dayEnd)
	routes := r.Routes()

	require.Len(t, routes, 3)
	assert.Equal(t, RouteInfo{Group: "validation", Method: http.MethodGet, Path: "/dayend/validation"}, routes[0])
	assert.Equal(t, RouteInfo{Group: "shift", Method: http.MethodPost, Path: "/shift", Description: "open a shift"}, routes[1])
	assert.Equal(t, "/shift/close-shift/:id", routes[2].Path)
}

func TestDescribeWithoutRoutesIsNoop(t *testing.T) {
	g := NewDomainGroup("empty", "/empty").Describe("nothing")
	assert.Empty(t, g.routes)
	assert.Equal(t, "empty", g.Name())
	assert.Equal(t, "/empty", g.Prefix())
}
