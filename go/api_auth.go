package namegenserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	accounthttpmapper "github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/adapters/http/mapper"
	accountports "github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/ports"
)

// AuthAPI serves registration and sessions.
type AuthAPI struct {
	service accountports.Service
}

// NewAuthAPI wires dependencies.
func NewAuthAPI(service accountports.Service) AuthAPI {
	return AuthAPI{service: service}
}

// Post /api/auth/register
// Create an account with the configured free credits
func (api *AuthAPI) Register(c *gin.Context) {
	var payload accounthttpmapper.Credentials
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	profile, err := api.service.Register(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, accounthttpmapper.FromProfile(profile))
}

// Post /api/auth/login
// Logs user into the system
func (api *AuthAPI) Login(c *gin.Context) {
	var payload accounthttpmapper.Credentials
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	result, err := api.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounthttpmapper.FromLogin(result))
}

// Post /api/auth/logout
// Logs out current logged in user session
func (api *AuthAPI) Logout(c *gin.Context) {
	token := bearerToken(c.GetHeader("Authorization"))
	if err := api.service.Logout(c.Request.Context(), token); err != nil {
		respondAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /api/auth/me
// Current account, tier, and remaining credits
func (api *AuthAPI) Me(c *gin.Context) {
	profile, err := api.service.Profile(c.Request.Context(), identityFrom(c).AccountID())
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounthttpmapper.FromProfile(profile))
}
