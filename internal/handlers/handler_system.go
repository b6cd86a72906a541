package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/ledgerline/internal/core/domain"
	"github.com/ledgerline/ledgerline/internal/core/services"
	"github.com/ledgerline/ledgerline/internal/dto"
)

// systemHandler handles the platform-operator surface. Role enforcement is
// in the system service; these routes only require authentication.
type systemHandler struct {
	systemService *services.SystemService
}

func newSystemHandler(ss *services.SystemService) *systemHandler {
	return &systemHandler{systemService: ss}
}

func registerSystemRoutes(rg *gin.RouterGroup, systemService *services.SystemService) {
	h := newSystemHandler(systemService)

	system := rg.Group("/system")
	{
		system.GET("/companies/", h.listCompanies)
		system.POST("/companies/bootstrap/", h.bootstrapCompany)
		system.GET("/companies/:companyID/", h.getCompany)
		system.GET("/companies/:companyID/feature-flags/", h.getFeatureFlags)
		system.PATCH("/companies/:companyID/feature-flags/", h.updateFeatureFlags)
		system.GET("/companies/:companyID/quotas/", h.getQuotas)
		system.PATCH("/companies/:companyID/quotas/", h.updateQuotas)
		system.PATCH("/companies/:companyID/status/", h.updateCompanyStatus)
		system.POST("/companies/:companyID/members/", h.upsertMember)
		system.PATCH("/companies/:companyID/members/:userID/roles/", h.replaceMemberRoles)
		system.DELETE("/companies/:companyID/members/:userID/", h.removeMember)

		system.GET("/users/", h.listUsers)
		system.POST("/users/", h.createUser)
		system.GET("/users/:userID/", h.getUser)
		system.PATCH("/users/:userID/", h.updateUser)
		system.DELETE("/users/:userID/", h.deactivateUser)
		system.POST("/users/:userID/reset-password/", h.resetUserPassword)
		system.PATCH("/users/:userID/system-role/", h.updateUserRole)

		system.GET("/audit-logs/", h.listAuditLogs)
		system.GET("/feature-flags/", h.globalFeatureFlags)
		system.GET("/health/", h.health)
	}
}

func (h *systemHandler) listCompanies(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	companies, err := h.systemService.ListCompanies(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list companies")
		return
	}
	c.JSON(http.StatusOK, companies)
}

func (h *systemHandler) getCompany(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	company, err := h.systemService.GetCompany(c.Request.Context(), userID, c.Param("companyID"))
	if err != nil {
		respondError(c, err, "Failed to load company")
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *systemHandler) bootstrapCompany(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var input domain.CompanyBootstrapInput
	if !bindJSON(c, &input) {
		return
	}
	result, err := h.systemService.BootstrapCompany(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err, "Failed to bootstrap company")
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *systemHandler) getFeatureFlags(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	resp, err := h.systemService.GetCompanyFeatureFlags(c.Request.Context(), userID, c.Param("companyID"))
	if err != nil {
		respondError(c, err, "Failed to load feature flags")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *systemHandler) updateFeatureFlags(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var updates map[string]bool
	if !bindJSON(c, &updates) {
		return
	}
	resp, err := h.systemService.UpdateCompanyFeatureFlags(c.Request.Context(), userID, c.Param("companyID"), updates)
	if err != nil {
		respondError(c, err, "Failed to update feature flags")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *systemHandler) getQuotas(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	resp, err := h.systemService.GetCompanyQuotas(c.Request.Context(), userID, c.Param("companyID"))
	if err != nil {
		respondError(c, err, "Failed to load quotas")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *systemHandler) updateQuotas(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var updates map[string]int
	if !bindJSON(c, &updates) {
		return
	}
	resp, err := h.systemService.UpdateCompanyQuotas(c.Request.Context(), userID, c.Param("companyID"), updates)
	if err != nil {
		respondError(c, err, "Failed to update quotas")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *systemHandler) updateCompanyStatus(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.SystemUpdateCompanyStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.systemService.UpdateCompanyStatus(c.Request.Context(), userID, c.Param("companyID"), req.IsActive)
	if err != nil {
		respondError(c, err, "Failed to update company status")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *systemHandler) upsertMember(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.SystemUpsertMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	member, err := h.systemService.UpsertCompanyMember(c.Request.Context(), userID, c.Param("companyID"), req)
	if err != nil {
		respondError(c, err, "Failed to upsert member")
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *systemHandler) replaceMemberRoles(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.ReplaceMemberRolesRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.systemService.ReplaceCompanyMemberRoles(c.Request.Context(), userID, c.Param("companyID"), c.Param("userID"), req.Roles)
	if err != nil {
		respondError(c, err, "Failed to replace member roles")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *systemHandler) removeMember(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	err := h.systemService.RemoveCompanyMember(c.Request.Context(), userID, c.Param("companyID"), c.Param("userID"))
	if err != nil {
		respondError(c, err, "Failed to remove member")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *systemHandler) listUsers(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	users, err := h.systemService.ListUsers(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *systemHandler) getUser(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	user, err := h.systemService.GetUser(c.Request.Context(), userID, c.Param("userID"))
	if err != nil {
		respondError(c, err, "Failed to load user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *systemHandler) createUser(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.SystemCreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.systemService.CreateUser(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *systemHandler) updateUser(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.SystemUpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.systemService.UpdateUser(c.Request.Context(), userID, c.Param("userID"), req)
	if err != nil {
		respondError(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *systemHandler) deactivateUser(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	user, err := h.systemService.DeactivateUser(c.Request.Context(), userID, c.Param("userID"))
	if err != nil {
		respondError(c, err, "Failed to deactivate user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *systemHandler) resetUserPassword(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.systemService.ResetUserPassword(c.Request.Context(), userID, c.Param("userID"), req)
	if err != nil {
		respondError(c, err, "Failed to reset password")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *systemHandler) updateUserRole(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.SystemUpdateUserRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.systemService.UpdateUserRole(c.Request.Context(), userID, c.Param("userID"), req)
	if err != nil {
		respondError(c, err, "Failed to update system role")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *systemHandler) listAuditLogs(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	filter := domain.AuditLogQuery{
		Action:       c.Query("action"),
		ResourceType: c.Query("resource_type"),
		ActorID:      c.Query("actor_id"),
		DateFrom:     c.Query("date_from"),
		DateTo:       c.Query("date_to"),
	}
	logs, err := h.systemService.ListAuditLogs(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err, "Failed to list audit logs")
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *systemHandler) globalFeatureFlags(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	flags, err := h.systemService.GlobalFeatureFlags(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load global feature flags")
		return
	}
	c.JSON(http.StatusOK, flags)
}

func (h *systemHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
