package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/ledgerline/internal/core/domain"
	"github.com/ledgerline/ledgerline/internal/core/services"
	"github.com/ledgerline/ledgerline/internal/dto"
	"github.com/ledgerline/ledgerline/internal/middleware"
)

// purchasesHandler handles bill and vendor payment requests.
type purchasesHandler struct {
	purchasesService *services.PurchasesService
}

func newPurchasesHandler(ps *services.PurchasesService) *purchasesHandler {
	return &purchasesHandler{purchasesService: ps}
}

// registerPurchasesRoutes wires the purchases module. Vendor payment create
// and post are keyed mutations, same as receipts on the sales side.
func registerPurchasesRoutes(rg *gin.RouterGroup, purchasesService *services.PurchasesService, idem *middleware.IdempotencyStore) {
	h := newPurchasesHandler(purchasesService)
	keyed := middleware.Idempotency(idem)

	purchases := rg.Group("/purchases/companies/:companyID")
	{
		purchases.GET("/bills/", h.listBills)
		purchases.POST("/bills/", h.createBill)
		purchases.GET("/bills/:billID/", h.getBill)
		purchases.PUT("/bills/:billID/", h.updateBill)
		purchases.PUT("/bills/:billID/lines/", h.replaceBillLines)
		purchases.POST("/bills/:billID/post/", h.postBill)
		purchases.POST("/bills/:billID/void/", h.voidBill)

		purchases.GET("/vendor-payments/", h.listVendorPayments)
		purchases.POST("/vendor-payments/", keyed, h.createVendorPayment)
		purchases.GET("/vendor-payments/:paymentID/", h.getVendorPayment)
		purchases.PUT("/vendor-payments/:paymentID/", h.updateVendorPayment)
		purchases.PUT("/vendor-payments/:paymentID/allocations/", h.replaceVendorPaymentAllocations)
		purchases.POST("/vendor-payments/:paymentID/post/", keyed, h.postVendorPayment)
		purchases.POST("/vendor-payments/:paymentID/void/", h.voidVendorPayment)

		purchases.GET("/reports/ap-aging/", h.apAging)
	}
}

func (h *purchasesHandler) listBills(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	bills, err := h.purchasesService.ListBills(c.Request.Context(), userID, c.Param("companyID"),
		domain.Status(c.Query("status")))
	if err != nil {
		respondError(c, err, "Failed to list bills")
		return
	}
	c.JSON(http.StatusOK, bills)
}

func (h *purchasesHandler) getBill(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	bill, err := h.purchasesService.GetBill(c.Request.Context(), userID, c.Param("companyID"), c.Param("billID"))
	if err != nil {
		respondError(c, err, "Failed to load bill")
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *purchasesHandler) createBill(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateBillRequest
	if !bindJSON(c, &req) {
		return
	}
	bill, err := h.purchasesService.CreateBill(c.Request.Context(), userID, c.Param("companyID"), req)
	if err != nil {
		respondError(c, err, "Failed to create bill")
		return
	}
	c.JSON(http.StatusCreated, bill)
}

func (h *purchasesHandler) updateBill(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateBillRequest
	if !bindJSON(c, &req) {
		return
	}
	bill, err := h.purchasesService.UpdateBill(c.Request.Context(), userID, c.Param("companyID"), c.Param("billID"), req)
	if err != nil {
		respondError(c, err, "Failed to update bill")
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *purchasesHandler) replaceBillLines(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.ReplaceBillLinesRequest
	if !bindJSON(c, &req) {
		return
	}
	bill, err := h.purchasesService.ReplaceBillLines(c.Request.Context(), userID, c.Param("companyID"), c.Param("billID"), req)
	if err != nil {
		respondError(c, err, "Failed to replace bill lines")
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *purchasesHandler) postBill(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	bill, err := h.purchasesService.PostBill(c.Request.Context(), userID, c.Param("companyID"), c.Param("billID"))
	if err != nil {
		respondError(c, err, "Failed to post bill")
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *purchasesHandler) voidBill(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	bill, err := h.purchasesService.VoidBill(c.Request.Context(), userID, c.Param("companyID"), c.Param("billID"))
	if err != nil {
		respondError(c, err, "Failed to void bill")
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *purchasesHandler) listVendorPayments(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	payments, err := h.purchasesService.ListVendorPayments(c.Request.Context(), userID, c.Param("companyID"))
	if err != nil {
		respondError(c, err, "Failed to list vendor payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *purchasesHandler) getVendorPayment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	payment, err := h.purchasesService.GetVendorPayment(c.Request.Context(), userID, c.Param("companyID"), c.Param("paymentID"))
	if err != nil {
		respondError(c, err, "Failed to load vendor payment")
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *purchasesHandler) createVendorPayment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateVendorPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := h.purchasesService.CreateVendorPayment(c.Request.Context(), userID, c.Param("companyID"), req)
	if err != nil {
		respondError(c, err, "Failed to create vendor payment")
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *purchasesHandler) updateVendorPayment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateVendorPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := h.purchasesService.UpdateVendorPayment(c.Request.Context(), userID, c.Param("companyID"), c.Param("paymentID"), req)
	if err != nil {
		respondError(c, err, "Failed to update vendor payment")
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *purchasesHandler) replaceVendorPaymentAllocations(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.ReplaceVendorPaymentAllocationsRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := h.purchasesService.ReplaceVendorPaymentAllocations(c.Request.Context(), userID, c.Param("companyID"), c.Param("paymentID"), req)
	if err != nil {
		respondError(c, err, "Failed to replace allocations")
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *purchasesHandler) postVendorPayment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	payment, err := h.purchasesService.PostVendorPayment(c.Request.Context(), userID, c.Param("companyID"), c.Param("paymentID"))
	if err != nil {
		respondError(c, err, "Failed to post vendor payment")
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *purchasesHandler) voidVendorPayment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	payment, err := h.purchasesService.VoidVendorPayment(c.Request.Context(), userID, c.Param("companyID"), c.Param("paymentID"))
	if err != nil {
		respondError(c, err, "Failed to void vendor payment")
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *purchasesHandler) apAging(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	rows, err := h.purchasesService.APAging(c.Request.Context(), userID, c.Param("companyID"), c.Query("as_of"))
	if err != nil {
		respondError(c, err, "Failed to compute AP aging")
		return
	}
	c.JSON(http.StatusOK, rows)
}
