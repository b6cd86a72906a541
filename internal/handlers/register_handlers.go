package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ledgerline/ledgerline/internal/core/services"
	"github.com/ledgerline/ledgerline/internal/middleware"
	"github.com/ledgerline/ledgerline/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies from
// the service container.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, svcs *services.Container) {
	// Health check route, outside the versioned API.
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Public authentication routes (plus the authenticated /auth/me/).
	registerAuthRoutes(r, cfg, svcs.Auth)

	setupAPIV1Routes(r, cfg, svcs)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the module
// route registrations. Keyed mutations across sales and purchases share one
// idempotency store so a key is unique platform-wide.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, svcs *services.Container) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	idem := middleware.NewIdempotencyStore()

	registerCompanyRoutes(v1, svcs.Company)
	registerJournalRoutes(v1, svcs.Journal)
	registerSalesRoutes(v1, svcs.Sales, idem)
	registerPurchasesRoutes(v1, svcs.Purchases, idem)
	registerBankingRoutes(v1, svcs.Banking)
	registerReportsRoutes(v1, svcs.Reporting)
	registerSystemRoutes(v1, svcs.System)
}
