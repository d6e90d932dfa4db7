package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ClientCounter reports the number of live notification subscribers
type ClientCounter interface {
	Len() int
}

// SystemHandler serves health and runtime information
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	db        Pinger
	clients   ClientCounter
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. db and clients may be nil.
func NewSystemHandler(name, version string, db Pinger, clients ClientCounter) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		db:        db,
		clients:   clients,
		startTime: time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	GoVersion   string `json:"go_version"`
	Uptime      string `json:"uptime"`
	Subscribers int    `json:"subscribers"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health pings the database with a short deadline
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok", Database: "ok"}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			resp.Status, resp.Database = "degraded", "unreachable"
			c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp, Error: &dto.ErrorInfo{
				Code:      dto.ErrCodeServiceUnavailable,
				Message:   "database unreachable",
				RequestID: getRequestID(c),
			}})
			return
		}
	}
	h.Success(c, resp)
}

// GetSystemInfo returns version and uptime
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}
	if h.clients != nil {
		info.Subscribers = h.clients.Len()
	}
	h.Success(c, info)
}
