package httptransport

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"interviewly-voice-go/internal/domain/auth"
	"interviewly-voice-go/internal/platform/config"
)

// AuthMiddleware guards the secured route group. Two credentials are
// accepted: the static API token from config in the Token header, or a
// bearer JWT issued by the auth helper.
func AuthMiddleware(cfg config.ServerConfig, tokens *auth.AuthToken) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Token != "" && c.GetHeader("Token") == cfg.Token {
			c.Set("client_id", "api-token")
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") && tokens != nil {
			raw := strings.TrimPrefix(header, "Bearer ")
			if ok, clientID, err := tokens.VerifyToken(raw); err == nil && ok {
				c.Set("client_id", clientID)
				c.Next()
				return
			}
		}

		RespondError(c, http.StatusUnauthorized, "invalid or missing credentials", nil)
		c.Abort()
	}
}
