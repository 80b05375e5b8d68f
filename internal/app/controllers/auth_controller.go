package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cloudevolvers/catalog/internal/app/models/dto"
	"github.com/cloudevolvers/catalog/internal/app/services"
	"github.com/cloudevolvers/catalog/internal/middleware"
)

// AuthController issues admin tokens
type AuthController struct {
	authService services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// IssueToken exchanges the admin key for a bearer token
// @Summary Admin token
// @Description Checks the admin key against the configured bcrypt hash and returns a short-lived JWT
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.AdminTokenRequest true "Admin key"
// @Success 200 {object} dto.APIResponse{data=dto.AdminTokenResponse} "Token issued"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid admin key"
// @Failure 403 {object} dto.ErrorResponse "Admin access not configured"
// @Router /admin/token [post]
func (ac *AuthController) IssueToken(c *gin.Context) {
	var req dto.AdminTokenRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	token, err := ac.authService.IssueAdminToken(c.Request.Context(), req.Key)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.AdminTokenResponse{
			AccessToken: token.Value,
			TokenType:   "Bearer",
			ExpiresIn:   int(token.ExpiresIn.Seconds()),
			ExpiresAt:   token.ExpiresAt,
		},
		Timestamp: time.Now(),
	})
}
