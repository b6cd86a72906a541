package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/ledgerline/internal/core/domain"
	"github.com/ledgerline/ledgerline/internal/core/services"
	"github.com/ledgerline/ledgerline/internal/dto"
	"github.com/ledgerline/ledgerline/internal/middleware"
)

// salesHandler handles invoice and receipt requests.
type salesHandler struct {
	salesService *services.SalesService
}

func newSalesHandler(ss *services.SalesService) *salesHandler {
	return &salesHandler{salesService: ss}
}

// registerSalesRoutes wires the sales module. Receipt create and post are
// keyed mutations: the idempotency middleware replays stored responses when
// the client retries with the same Idempotency-Key.
func registerSalesRoutes(rg *gin.RouterGroup, salesService *services.SalesService, idem *middleware.IdempotencyStore) {
	h := newSalesHandler(salesService)
	keyed := middleware.Idempotency(idem)

	sales := rg.Group("/sales/companies/:companyID")
	{
		sales.GET("/invoices/", h.listInvoices)
		sales.POST("/invoices/", h.createInvoice)
		sales.GET("/invoices/:invoiceID/", h.getInvoice)
		sales.PUT("/invoices/:invoiceID/", h.updateInvoice)
		sales.PUT("/invoices/:invoiceID/lines/", h.replaceInvoiceLines)
		sales.POST("/invoices/:invoiceID/post/", h.postInvoice)
		sales.POST("/invoices/:invoiceID/void/", h.voidInvoice)

		sales.GET("/receipts/", h.listReceipts)
		sales.POST("/receipts/", keyed, h.createReceipt)
		sales.GET("/receipts/:receiptID/", h.getReceipt)
		sales.PUT("/receipts/:receiptID/", h.updateReceipt)
		sales.PUT("/receipts/:receiptID/allocations/", h.replaceReceiptAllocations)
		sales.POST("/receipts/:receiptID/post/", keyed, h.postReceipt)
		sales.POST("/receipts/:receiptID/void/", h.voidReceipt)

		sales.GET("/reports/ar-aging/", h.arAging)
	}
}

func (h *salesHandler) listInvoices(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	invoices, err := h.salesService.ListInvoices(c.Request.Context(), userID, c.Param("companyID"),
		domain.Status(c.Query("status")))
	if err != nil {
		respondError(c, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *salesHandler) getInvoice(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	invoice, err := h.salesService.GetInvoice(c.Request.Context(), userID, c.Param("companyID"), c.Param("invoiceID"))
	if err != nil {
		respondError(c, err, "Failed to load invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *salesHandler) createInvoice(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	invoice, err := h.salesService.CreateInvoice(c.Request.Context(), userID, c.Param("companyID"), req)
	if err != nil {
		respondError(c, err, "Failed to create invoice")
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

func (h *salesHandler) updateInvoice(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	invoice, err := h.salesService.UpdateInvoice(c.Request.Context(), userID, c.Param("companyID"), c.Param("invoiceID"), req)
	if err != nil {
		respondError(c, err, "Failed to update invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *salesHandler) replaceInvoiceLines(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.ReplaceInvoiceLinesRequest
	if !bindJSON(c, &req) {
		return
	}
	invoice, err := h.salesService.ReplaceInvoiceLines(c.Request.Context(), userID, c.Param("companyID"), c.Param("invoiceID"), req)
	if err != nil {
		respondError(c, err, "Failed to replace invoice lines")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *salesHandler) postInvoice(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	invoice, err := h.salesService.PostInvoice(c.Request.Context(), userID, c.Param("companyID"), c.Param("invoiceID"))
	if err != nil {
		respondError(c, err, "Failed to post invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *salesHandler) voidInvoice(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	invoice, err := h.salesService.VoidInvoice(c.Request.Context(), userID, c.Param("companyID"), c.Param("invoiceID"))
	if err != nil {
		respondError(c, err, "Failed to void invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *salesHandler) listReceipts(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	receipts, err := h.salesService.ListReceipts(c.Request.Context(), userID, c.Param("companyID"))
	if err != nil {
		respondError(c, err, "Failed to list receipts")
		return
	}
	c.JSON(http.StatusOK, receipts)
}

func (h *salesHandler) getReceipt(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	receipt, err := h.salesService.GetReceipt(c.Request.Context(), userID, c.Param("companyID"), c.Param("receiptID"))
	if err != nil {
		respondError(c, err, "Failed to load receipt")
		return
	}
	c.JSON(http.StatusOK, receipt)
}

func (h *salesHandler) createReceipt(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateReceiptRequest
	if !bindJSON(c, &req) {
		return
	}
	receipt, err := h.salesService.CreateReceipt(c.Request.Context(), userID, c.Param("companyID"), req)
	if err != nil {
		respondError(c, err, "Failed to create receipt")
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func (h *salesHandler) updateReceipt(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateReceiptRequest
	if !bindJSON(c, &req) {
		return
	}
	receipt, err := h.salesService.UpdateReceipt(c.Request.Context(), userID, c.Param("companyID"), c.Param("receiptID"), req)
	if err != nil {
		respondError(c, err, "Failed to update receipt")
		return
	}
	c.JSON(http.StatusOK, receipt)
}

func (h *salesHandler) replaceReceiptAllocations(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.ReplaceReceiptAllocationsRequest
	if !bindJSON(c, &req) {
		return
	}
	receipt, err := h.salesService.ReplaceReceiptAllocations(c.Request.Context(), userID, c.Param("companyID"), c.Param("receiptID"), req)
	if err != nil {
		respondError(c, err, "Failed to replace allocations")
		return
	}
	c.JSON(http.StatusOK, receipt)
}

func (h *salesHandler) postReceipt(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	receipt, err := h.salesService.PostReceipt(c.Request.Context(), userID, c.Param("companyID"), c.Param("receiptID"))
	if err != nil {
		respondError(c, err, "Failed to post receipt")
		return
	}
	c.JSON(http.StatusOK, receipt)
}

func (h *salesHandler) voidReceipt(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	receipt, err := h.salesService.VoidReceipt(c.Request.Context(), userID, c.Param("companyID"), c.Param("receiptID"))
	if err != nil {
		respondError(c, err, "Failed to void receipt")
		return
	}
	c.JSON(http.StatusOK, receipt)
}

func (h *salesHandler) arAging(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	rows, err := h.salesService.ARAging(c.Request.Context(), userID, c.Param("companyID"), c.Query("as_of"))
	if err != nil {
		respondError(c, err, "Failed to compute AR aging")
		return
	}
	c.JSON(http.StatusOK, rows)
}
