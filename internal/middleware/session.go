package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aptivohq/aptivo-backend/internal/response"
	"github.com/aptivohq/aptivo-backend/internal/service"
)

// CheckCandidateSession verifies on every request that the token's session is
// still the ACTIVE one for its attempt. Must run after RequireCandidateJWT.
// This is what makes a takeover lock bite immediately: the old device's
// otherwise-valid JWT starts failing here the moment its session is revoked.
func CheckCandidateSession(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		attemptID, err := uuid.Parse(claims.AttemptID)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}
		sessionID, err := uuid.Parse(claims.SessionID)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		if err := authService.ValidateCandidateSession(c.Request.Context(), attemptID, sessionID); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionRevoked)
			return
		}

		c.Next()
	}
}
