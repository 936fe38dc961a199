package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aptivohq/aptivo-backend/internal/response"
	"github.com/aptivohq/aptivo-backend/internal/service"
)

const claimsContextKey = "auth_claims"

// RequireCandidateJWT validates the bearer token and ensures it is a
// candidate token whose session is still the ACTIVE one for its attempt.
// A revoked session (takeover lock) gets 401 SESSION_REVOKED so the client
// knows to stop, not retry.
func RequireCandidateJWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := extractClaims(c, authService)
		if !ok {
			return
		}
		if claims.TokenType != service.TokenTypeCandidate {
			response.AbortFail(c, http.StatusForbidden, response.ErrCandidateAccessOnly)
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// RequireStaffJWT validates the bearer token and ensures it is a staff token.
func RequireStaffJWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := extractClaims(c, authService)
		if !ok {
			return
		}
		if claims.TokenType != service.TokenTypeStaff {
			response.AbortFail(c, http.StatusForbidden, response.ErrStaffAccessOnly)
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// RequireStaffWSAuth validates a staff token passed as a query parameter.
// Browsers cannot set the Authorization header on WebSocket upgrades.
func RequireStaffWSAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := authService.ValidateToken(tokenStr)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}
		if claims.TokenType != service.TokenTypeStaff {
			response.AbortFail(c, http.StatusForbidden, response.ErrStaffAccessOnly)
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// GetClaims returns the validated claims placed by the JWT middleware.
func GetClaims(c *gin.Context) *service.Claims {
	v, exists := c.Get(claimsContextKey)
	if !exists {
		return nil
	}
	claims, _ := v.(*service.Claims)
	return claims
}

func extractClaims(c *gin.Context, authService *service.AuthService) (*service.Claims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil, false
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return nil, false
	}

	claims, err := authService.ValidateToken(token)
	if err != nil {
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return nil, false
	}
	return claims, true
}
