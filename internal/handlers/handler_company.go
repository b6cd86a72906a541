package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/ledgerline/internal/core/domain"
	"github.com/ledgerline/ledgerline/internal/core/services"
	"github.com/ledgerline/ledgerline/internal/dto"
)

// companyHandler handles company, membership, chart-of-accounts, and contact
// requests.
type companyHandler struct {
	companyService *services.CompanyService
}

func newCompanyHandler(cs *services.CompanyService) *companyHandler {
	return &companyHandler{companyService: cs}
}

func registerCompanyRoutes(rg *gin.RouterGroup, companyService *services.CompanyService) {
	h := newCompanyHandler(companyService)

	rg.GET("/companies/", h.listCompanies)
	rg.GET("/rbac/companies/:companyID/me/", h.resolveAccess)

	members := rg.Group("/companies/:companyID/members")
	{
		members.GET("/", h.listMembers)
		members.POST("/create-user/", h.createMemberUser)
		members.POST("/:userID/reset-password/", h.resetMemberPassword)
		members.PATCH("/:userID/", h.updateMemberStatus)
		members.PATCH("/:userID/roles/", h.replaceMemberRoles)
		members.DELETE("/:userID/", h.removeMember)
	}

	accounting := rg.Group("/accounting/companies/:companyID/accounts")
	{
		accounting.GET("/", h.listAccounts)
		accounting.POST("/", h.createAccount)
	}

	contacts := rg.Group("/contacts/companies/:companyID/contacts")
	{
		contacts.GET("/", h.listContacts)
		contacts.POST("/", h.createContact)
		contacts.DELETE("/:contactID/", h.deleteContact)
	}
}

func (h *companyHandler) listCompanies(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	companies, err := h.companyService.ListCompaniesForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list companies")
		return
	}
	c.JSON(http.StatusOK, companies)
}

func (h *companyHandler) resolveAccess(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	access, err := h.companyService.ResolveAccess(c.Request.Context(), userID, c.Param("companyID"))
	if err != nil {
		respondError(c, err, "Failed to resolve access")
		return
	}
	c.JSON(http.StatusOK, access)
}

func (h *companyHandler) listMembers(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	members, err := h.companyService.ListMembers(c.Request.Context(), userID, c.Param("companyID"))
	if err != nil {
		respondError(c, err, "Failed to list members")
		return
	}
	c.JSON(http.StatusOK, members)
}

func (h *companyHandler) createMemberUser(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateMemberUserRequest
	if !bindJSON(c, &req) {
		return
	}
	member, err := h.companyService.CreateMemberUser(c.Request.Context(), userID, c.Param("companyID"), req)
	if err != nil {
		respondError(c, err, "Failed to create member")
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *companyHandler) resetMemberPassword(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.companyService.ResetMemberPassword(c.Request.Context(), userID, c.Param("companyID"), c.Param("userID"), req)
	if err != nil {
		respondError(c, err, "Failed to reset password")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *companyHandler) updateMemberStatus(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.UpdateMemberStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	member, err := h.companyService.UpdateMemberStatus(c.Request.Context(), userID, c.Param("companyID"), c.Param("userID"), req.Status)
	if err != nil {
		respondError(c, err, "Failed to update member")
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *companyHandler) replaceMemberRoles(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.ReplaceMemberRolesRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.companyService.ReplaceMemberRoles(c.Request.Context(), userID, c.Param("companyID"), c.Param("userID"), req.Roles)
	if err != nil {
		respondError(c, err, "Failed to replace roles")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *companyHandler) removeMember(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	err := h.companyService.RemoveMember(c.Request.Context(), userID, c.Param("companyID"), c.Param("userID"))
	if err != nil {
		respondError(c, err, "Failed to remove member")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *companyHandler) listAccounts(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	accounts, err := h.companyService.ListAccounts(c.Request.Context(), userID, c.Param("companyID"))
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *companyHandler) createAccount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	account, err := h.companyService.CreateAccount(c.Request.Context(), userID, c.Param("companyID"), req)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *companyHandler) listContacts(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	contacts, err := h.companyService.ListContacts(c.Request.Context(), userID, c.Param("companyID"),
		domain.ContactType(c.Query("type")))
	if err != nil {
		respondError(c, err, "Failed to list contacts")
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (h *companyHandler) createContact(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateContactRequest
	if !bindJSON(c, &req) {
		return
	}
	contact, err := h.companyService.CreateContact(c.Request.Context(), userID, c.Param("companyID"), req)
	if err != nil {
		respondError(c, err, "Failed to create contact")
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (h *companyHandler) deleteContact(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	err := h.companyService.DeleteContact(c.Request.Context(), userID, c.Param("companyID"), c.Param("contactID"))
	if err != nil {
		respondError(c, err, "Failed to delete contact")
		return
	}
	c.Status(http.StatusNoContent)
}
