package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/auth"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/logger"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Terminal context keys
const (
	TerminalClaimsKey = "terminal_claims"
	TerminalKey       = "terminal"
	TerminalBranchKey = "terminal_branch"
	AuthHeaderKey     = "Authorization"
)

// TokenValidator validates terminal tokens
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// TerminalAuthConfig holds configuration for the terminal auth middleware
type TerminalAuthConfig struct {
	Validator TokenValidator
	// SkipPaths are exact paths served without a token
	SkipPaths []string
	// SkipPathPrefixes are path prefixes served without a token
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// TerminalAuth rejects requests without a valid terminal bearer token and
// stores the terminal identity on the context
func TerminalAuth(cfg TerminalAuthConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		token, ok := auth.ExtractBearer(c.GetHeader(AuthHeaderKey))
		if !ok {
			// Browsers cannot set headers on a websocket upgrade
			token = c.Query("token")
		}
		if token == "" {
			abortUnauthorized(c, cfg.Logger, auth.ErrInvalidToken)
			return
		}

		claims, err := cfg.Validator.Validate(token)
		if err != nil {
			abortUnauthorized(c, cfg.Logger, err)
			return
		}

		c.Set(TerminalClaimsKey, claims)
		c.Set(TerminalKey, claims.Terminal)
		c.Set(TerminalBranchKey, claims.BranchName)

		ctx, _ := logger.WithTerminal(c.Request.Context(), logger.FromContext(c.Request.Context()), claims.Terminal)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, err error) {
	if log != nil {
		log.Warn("terminal authentication failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
	}

	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	if errors.Is(err, auth.ErrExpiredToken) {
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, c.GetString("request_id")))
}

// GetTerminal returns the authenticated terminal, if any
func GetTerminal(c *gin.Context) string {
	return c.GetString(TerminalKey)
}

// GetTerminalBranch returns the branch bound to the authenticated terminal, if any
func GetTerminalBranch(c *gin.Context) string {
	return c.GetString(TerminalBranchKey)
}
