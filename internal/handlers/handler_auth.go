package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/ledgerline/ledgerline/internal/core/services"
	"github.com/ledgerline/ledgerline/internal/dto"
	"github.com/ledgerline/ledgerline/internal/middleware"
	"github.com/ledgerline/ledgerline/internal/platform/config"
)

// authHandler handles authentication requests.
type authHandler struct {
	authService *services.AuthService
}

func newAuthHandler(as *services.AuthService) *authHandler {
	return &authHandler{authService: as}
}

// registerAuthRoutes sets up the public auth routes and the authenticated
// /auth/me/ route. Login is rate limited by client IP.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, authService *services.AuthService) {
	h := newAuthHandler(authService)

	// 5 login attempts per minute per IP.
	rate, _ := limiter.NewRateFromFormatted("5-M")
	ipLimiter := limiter.New(memory.NewStore(), rate)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login/", middleware.RateLimit(ipLimiter), h.login)
		auth.POST("/refresh/", h.refresh)
		auth.GET("/me/", middleware.AuthMiddleware(cfg.JWTSecret), h.me)
		auth.POST("/logout/", middleware.AuthMiddleware(cfg.JWTSecret), h.logout)
	}
}

func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *authHandler) refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Token refresh failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *authHandler) me(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *authHandler) logout(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, err, "Logout failed")
		return
	}
	c.Status(http.StatusNoContent)
}
