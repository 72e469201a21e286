package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/devevent/internal/errs"
	"github.com/joshua-takyi/devevent/internal/helpers"
	"github.com/joshua-takyi/devevent/internal/models"
)

const (
	AccessTokenCookie = "access_token"
	requestIDKey      = "request_id"
	userKey           = "user"
)

// TokenValidator verifies a session token and returns its claims.
type TokenValidator interface {
	Validate(token string) (*helpers.Claims, error)
}

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}

		logger.Log(c.Request.Context(), level, "HTTP Request",
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// ErrorHandler turns the last handler error into a JSON response whose status
// follows the error kind. Internal details are only exposed when
// exposeDetails is set.
func ErrorHandler(logger *slog.Logger, exposeDetails bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		requestID := c.GetString(requestIDKey)
		status := errs.HTTPStatus(err)
		kind := errs.KindOf(err)

		res := models.FieldErrorResponse(kind.String(), errs.FieldOf(err), errs.MessageOf(err))
		res.RequestID = requestID

		if status >= http.StatusInternalServerError {
			logger.Error("Request error",
				"request_id", requestID,
				"kind", kind.String(),
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)
			res.Error = "Internal server error"
			if exposeDetails {
				res.Details = err.Error()
			}
		}

		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(status, res)
	}
}

// AuthMiddleware requires a valid session from the access_token cookie or a
// bearer token and stores its claims on the context.
func AuthMiddleware(tokens TokenValidator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.Error(errs.Unauthorized("Authentication required"))
			c.Abort()
			return
		}
		claims, err := tokens.Validate(token)
		if err != nil {
			logger.Debug("Rejected session token", "request_id", c.GetString(requestIDKey), "error", err)
			c.Error(errs.Unauthorized("Invalid or expired session"))
			c.Abort()
			return
		}
		c.Set(userKey, claims)
		c.Next()
	}
}

// OptionalAuth attaches the session when one is present and valid, and lets
// anonymous requests through.
func OptionalAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFromRequest(c); token != "" {
			if claims, err := tokens.Validate(token); err == nil {
				c.Set(userKey, claims)
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentUser(c)
		if claims == nil {
			c.Error(errs.Unauthorized("Authentication required"))
			c.Abort()
			return
		}
		if !claims.IsAdmin() {
			c.Error(errs.Forbidden("Admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the session claims, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *helpers.Claims {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*helpers.Claims)
	return claims
}

func tokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(AccessTokenCookie); err == nil && token != "" {
		return token
	}
	auth := c.GetHeader("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
