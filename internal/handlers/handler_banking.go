package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/ledgerline/internal/core/domain"
	"github.com/ledgerline/ledgerline/internal/core/services"
	"github.com/ledgerline/ledgerline/internal/dto"
)

// bankingHandler handles bank account, import, transaction, and
// reconciliation requests.
type bankingHandler struct {
	bankingService *services.BankingService
}

func newBankingHandler(bs *services.BankingService) *bankingHandler {
	return &bankingHandler{bankingService: bs}
}

func registerBankingRoutes(rg *gin.RouterGroup, bankingService *services.BankingService) {
	h := newBankingHandler(bankingService)

	banking := rg.Group("/banking/companies/:companyID")
	{
		banking.GET("/bank-accounts/", h.listBankAccounts)
		banking.POST("/bank-accounts/", h.createBankAccount)
		banking.PUT("/bank-accounts/:bankAccountID/", h.updateBankAccount)
		banking.DELETE("/bank-accounts/:bankAccountID/", h.deleteBankAccount)

		banking.GET("/imports/", h.listImports)
		banking.POST("/imports/", h.createImport)

		banking.GET("/transactions/", h.listTransactions)
		banking.POST("/transactions/:transactionID/match/", h.matchTransaction)

		banking.GET("/reconciliations/", h.listReconciliations)
		banking.POST("/reconciliations/", h.createReconciliation)
		banking.GET("/reconciliations/:reconciliationID/", h.getReconciliation)
		banking.PUT("/reconciliations/:reconciliationID/lines/", h.replaceReconciliationLines)
		banking.POST("/reconciliations/:reconciliationID/finalize/", h.finalizeReconciliation)
	}
}

func (h *bankingHandler) listBankAccounts(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	accounts, err := h.bankingService.ListBankAccounts(c.Request.Context(), userID, c.Param("companyID"))
	if err != nil {
		respondError(c, err, "Failed to list bank accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *bankingHandler) createBankAccount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateBankAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	account, err := h.bankingService.CreateBankAccount(c.Request.Context(), userID, c.Param("companyID"), req)
	if err != nil {
		respondError(c, err, "Failed to create bank account")
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *bankingHandler) updateBankAccount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateBankAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	account, err := h.bankingService.UpdateBankAccount(c.Request.Context(), userID, c.Param("companyID"), c.Param("bankAccountID"), req)
	if err != nil {
		respondError(c, err, "Failed to update bank account")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *bankingHandler) deleteBankAccount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	err := h.bankingService.DeleteBankAccount(c.Request.Context(), userID, c.Param("companyID"), c.Param("bankAccountID"))
	if err != nil {
		respondError(c, err, "Failed to delete bank account")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *bankingHandler) listImports(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	imports, err := h.bankingService.ListBankImports(c.Request.Context(), userID, c.Param("companyID"),
		domain.BankImportStatus(c.Query("status")))
	if err != nil {
		respondError(c, err, "Failed to list imports")
		return
	}
	c.JSON(http.StatusOK, imports)
}

func (h *bankingHandler) createImport(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateBankImportRequest
	if !bindJSON(c, &req) {
		return
	}
	imp, err := h.bankingService.CreateBankImport(c.Request.Context(), userID, c.Param("companyID"), req)
	if err != nil {
		respondError(c, err, "Failed to import statement")
		return
	}
	c.JSON(http.StatusCreated, imp)
}

func (h *bankingHandler) listTransactions(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}
	filter := domain.BankTransactionQuery{
		BankAccountID: c.Query("bank_account_id"),
		Status:        domain.BankTransactionStatus(c.Query("status")),
		DateFrom:      c.Query("date_from"),
		DateTo:        c.Query("date_to"),
		Limit:         limit,
	}
	txns, err := h.bankingService.ListBankTransactions(c.Request.Context(), userID, c.Param("companyID"), filter)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, txns)
}

func (h *bankingHandler) matchTransaction(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.MatchTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := h.bankingService.MatchBankTransaction(c.Request.Context(), userID, c.Param("companyID"), c.Param("transactionID"), req)
	if err != nil {
		respondError(c, err, "Failed to match transaction")
		return
	}
	c.JSON(http.StatusOK, txn)
}

func (h *bankingHandler) listReconciliations(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	recs, err := h.bankingService.ListReconciliations(c.Request.Context(), userID, c.Param("companyID"))
	if err != nil {
		respondError(c, err, "Failed to list reconciliations")
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *bankingHandler) createReconciliation(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateReconciliationRequest
	if !bindJSON(c, &req) {
		return
	}
	rec, err := h.bankingService.CreateReconciliation(c.Request.Context(), userID, c.Param("companyID"), req)
	if err != nil {
		respondError(c, err, "Failed to create reconciliation")
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *bankingHandler) getReconciliation(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	rec, err := h.bankingService.GetReconciliation(c.Request.Context(), userID, c.Param("companyID"), c.Param("reconciliationID"))
	if err != nil {
		respondError(c, err, "Failed to load reconciliation")
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *bankingHandler) replaceReconciliationLines(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.ReplaceReconciliationLinesRequest
	if !bindJSON(c, &req) {
		return
	}
	rec, err := h.bankingService.ReplaceReconciliationLines(c.Request.Context(), userID, c.Param("companyID"), c.Param("reconciliationID"), req)
	if err != nil {
		respondError(c, err, "Failed to replace reconciliation lines")
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *bankingHandler) finalizeReconciliation(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	rec, err := h.bankingService.FinalizeReconciliation(c.Request.Context(), userID, c.Param("companyID"), c.Param("reconciliationID"))
	if err != nil {
		respondError(c, err, "Failed to finalize reconciliation")
		return
	}
	c.JSON(http.StatusOK, rec)
}
