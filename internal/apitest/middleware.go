package apitest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	bearerPrefix = "Bearer "
)

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrEmptyToken        = errors.New("empty token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrUserNotFound      = errors.New("user not found")
)

func setClaims(c *gin.Context, claims *Claims) {
	c.Set("claims", claims)
}

func getClaims(c *gin.Context) *Claims {
	claims, _ := c.Get("claims")
	typed, _ := claims.(*Claims)
	return typed
}

func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthFormat
	}

	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

func respondWithError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
	c.Abort()
}

// recordHits counts requests per method and path, and serves injected failures
func (s *Server) recordHits() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := hitKey(c.Request.Method, strings.TrimPrefix(c.Request.URL.Path, "/api"))

		s.mu.Lock()
		s.hits[key]++
		failure, injected := s.failures[key]
		s.mu.Unlock()

		if injected {
			c.JSON(failure.status, failure.body)
			c.Abort()
			return
		}

		c.Next()
	}
}

// requireAuth validates bearer tokens issued by this server
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			var message string
			switch err {
			case ErrMissingAuthHeader:
				message = "Missing authorization header"
			case ErrInvalidAuthFormat:
				message = "Invalid authorization header format"
			case ErrEmptyToken:
				message = "Empty token"
			}
			respondWithError(c, http.StatusUnauthorized, message)
			return
		}

		claims, err := s.validateToken(token)
		if err != nil {
			respondWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		s.mu.Lock()
		_, exists := s.users[claims.UserID]
		s.mu.Unlock()
		if !exists {
			respondWithError(c, http.StatusUnauthorized, "User not found")
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// requireAdmin ensures the authenticated user is an admin
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := getClaims(c)
		if claims == nil {
			respondWithError(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		s.mu.Lock()
		acct := s.users[claims.UserID]
		s.mu.Unlock()

		if acct == nil || !acct.user.IsAdmin {
			respondWithError(c, http.StatusForbidden, "Unauthorized access")
			return
		}

		c.Next()
	}
}
