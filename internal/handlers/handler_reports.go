package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/ledgerline/internal/core/services"
)

// reportsHandler handles financial report requests. All report math lives in
// the reporting service; handlers only translate query parameters.
type reportsHandler struct {
	reportingService *services.ReportingService
}

func newReportsHandler(rs *services.ReportingService) *reportsHandler {
	return &reportsHandler{reportingService: rs}
}

func registerReportsRoutes(rg *gin.RouterGroup, reportingService *services.ReportingService) {
	h := newReportsHandler(reportingService)

	reports := rg.Group("/reports/companies/:companyID")
	{
		reports.GET("/profit-loss/", h.profitLoss)
		reports.GET("/balance-sheet/", h.balanceSheet)
		reports.GET("/cash-flow/", h.cashFlow)
		reports.GET("/trial-balance/", h.trialBalance)
		reports.GET("/general-ledger/", h.generalLedger)
	}
}

func (h *reportsHandler) profitLoss(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	report, err := h.reportingService.ProfitLoss(c.Request.Context(), userID, c.Param("companyID"),
		c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, err, "Failed to compute profit and loss")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *reportsHandler) balanceSheet(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	report, err := h.reportingService.BalanceSheet(c.Request.Context(), userID, c.Param("companyID"), c.Query("as_of"))
	if err != nil {
		respondError(c, err, "Failed to compute balance sheet")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *reportsHandler) cashFlow(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	report, err := h.reportingService.CashFlow(c.Request.Context(), userID, c.Param("companyID"),
		c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, err, "Failed to compute cash flow")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *reportsHandler) trialBalance(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	report, err := h.reportingService.TrialBalance(c.Request.Context(), userID, c.Param("companyID"),
		c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, err, "Failed to compute trial balance")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *reportsHandler) generalLedger(c *gin.Context) {
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
	query := services.GeneralLedgerQuery{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		AccountID: c.Query("account_id"),
		Limit:     limit,
	}
	report, err := h.reportingService.GeneralLedger(c.Request.Context(), userID, c.Param("companyID"), query)
	if err != nil {
		respondError(c, err, "Failed to compute general ledger")
		return
	}
	c.JSON(http.StatusOK, report)
}
