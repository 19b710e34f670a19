package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"cinegrok-backend/internal/config"
)

// Context keys set by the auth middleware.
const (
	UserIDKey = "user_id"
	EmailKey  = "email"
	TokenKey  = "access_token"
)

// AuthRequired is the error string of every 401 the API sends.
const AuthRequired = "authentication required"

var (
	errMissingHeader = errors.New("missing authorization header")
	errHeaderFormat  = errors.New("invalid authorization header format")
	errMissingSub    = errors.New("missing user id in token")
)

// AuthMiddleware rejects requests without a valid Supabase access token.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err == nil {
			err = authenticate(c, cfg, token)
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   AuthRequired,
				"message": err.Error(),
			})
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and lets
// every request through.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := bearerToken(c.GetHeader("Authorization")); err == nil {
			_ = authenticate(c, cfg, token)
		}
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", errHeaderFormat
	}
	token := strings.TrimSpace(parts[1])

	// Some clients URL-encode the token.
	if decoded, err := url.QueryUnescape(token); err == nil {
		token = decoded
	}
	return token, nil
}

func authenticate(c *gin.Context, cfg *config.Config, tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		if cfg.SupabaseJWTSecret == "" {
			return nil, jwt.ErrSignatureInvalid
		}
		// Supabase signs with the project JWT secret directly.
		return []byte(cfg.SupabaseJWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return tokenError(err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return errors.New("invalid token")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return errMissingSub
	}

	c.Set(UserIDKey, sub)
	c.Set(TokenKey, tokenString)
	if email, ok := claims["email"].(string); ok {
		c.Set(EmailKey, email)
	}
	return nil
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return errors.New("token has expired")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
		return errors.New("token signature is invalid")
	case errors.Is(err, jwt.ErrTokenMalformed):
		return errors.New("token is malformed")
	default:
		return err
	}
}
