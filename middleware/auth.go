package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/smartsplit/smartsplit-backend/config"
	apperrors "github.com/smartsplit/smartsplit-backend/errors"
	"github.com/smartsplit/smartsplit-backend/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired is returned when JWT validation fails due to expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for general token validation failures (signature, format).
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenMissingClaim is returned if a required claim (like 'sub') is missing.
	ErrTokenMissingClaim = errors.New("token missing required claim")
)

// Validator defines the interface for validating bearer tokens.
type Validator interface {
	Validate(tokenString string) (string, error)
}

// JWTValidator validates HS256-signed Supabase access tokens against a
// static shared secret.
type JWTValidator struct {
	secret []byte
}

var _ Validator = (*JWTValidator)(nil)

// NewJWTValidator creates a validator instance using application configuration.
func NewJWTValidator(cfg *config.Config) (Validator, error) {
	if cfg.Server.JwtSecretKey == "" {
		return nil, fmt.Errorf("JWT validator configuration error: secret key must be configured")
	}
	return &JWTValidator{secret: []byte(cfg.Server.JwtSecretKey)}, nil
}

// Validate parses and validates the token and returns the subject claim.
func (v *JWTValidator) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithLeeway(30*time.Second),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return "", fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%w: sub", ErrTokenMissingClaim)
	}
	return sub, nil
}

// AuthMiddleware extracts and validates the Bearer token, storing the
// authenticated user ID in the gin context under UserIDKey.
func AuthMiddleware(validator Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger()

		var token string
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}

		// EventSource cannot set headers, so the SSE stream passes the
		// token as a query parameter instead.
		if token == "" && strings.Contains(c.GetHeader("Accept"), "text/event-stream") {
			token = c.Query("token")
		}

		if token == "" {
			log.Warnw("No token provided in request", "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization required",
			})
			return
		}

		userID, err := validator.Validate(token)
		if err != nil {
			log.Warnw("Invalid JWT token",
				"error", err,
				"token", logger.MaskJWT(token),
				"request_path", c.Request.URL.Path,
				"request_method", c.Request.Method,
				"client_ip", c.ClientIP())

			message := "Invalid authentication token"
			if errors.Is(err, ErrTokenExpired) {
				message = "Your session has expired"
			}
			if err := c.Error(apperrors.AuthenticationFailed(message)); err != nil {
				log.Errorw("Failed to set error in context", "error", err)
			}
			c.Abort()
			return
		}

		if userID == "" {
			log.Error("Empty userID from valid JWT")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Authentication system error",
			})
			return
		}

		c.Set(string(UserIDKey), userID)
		c.Next()
	}
}

// GetUserID returns the authenticated user ID stored by AuthMiddleware.
func GetUserID(c *gin.Context) string {
	return c.GetString(string(UserIDKey))
}
