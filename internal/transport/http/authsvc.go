package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interviewly-voice-go/internal/domain/auth"
	"interviewly-voice-go/internal/platform/config"
)

// AuthService exchanges the static API token for a short-lived JWT.
type AuthService struct {
	cfg    config.ServerConfig
	tokens *auth.AuthToken
}

func NewAuthService(cfg config.ServerConfig, tokens *auth.AuthToken) *AuthService {
	return &AuthService{cfg: cfg, tokens: tokens}
}

// Register wires the token route onto the open API group.
func (s *AuthService) Register(group *gin.RouterGroup) {
	group.POST("/auth/token", s.handleIssueToken)
}

type tokenRequest struct {
	ClientID string `json:"client_id" binding:"required"`
	Token    string `json:"token" binding:"required"`
}

func (s *AuthService) handleIssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if s.cfg.Token == "" || req.Token != s.cfg.Token {
		RespondError(c, http.StatusUnauthorized, "invalid api token", nil)
		return
	}

	jwt, err := s.tokens.GenerateToken(req.ClientID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{"token": jwt}, "")
}
