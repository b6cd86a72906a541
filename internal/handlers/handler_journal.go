package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/ledgerline/internal/core/domain"
	"github.com/ledgerline/ledgerline/internal/core/services"
	"github.com/ledgerline/ledgerline/internal/dto"
)

// journalHandler handles manual journal entry and ledger requests.
type journalHandler struct {
	journalService *services.JournalService
}

func newJournalHandler(js *services.JournalService) *journalHandler {
	return &journalHandler{journalService: js}
}

func registerJournalRoutes(rg *gin.RouterGroup, journalService *services.JournalService) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journals/companies/:companyID")
	{
		journals.GET("/journals/", h.listJournals)
		journals.POST("/journals/", h.createJournal)
		journals.GET("/journals/:journalID/", h.getJournal)
		journals.PUT("/journals/:journalID/lines/", h.replaceLines)
		journals.POST("/journals/:journalID/post/", h.postJournal)
		journals.POST("/journals/:journalID/void/", h.voidJournal)
		journals.GET("/ledger/trial-balance/", h.trialBalance)
	}
}

func (h *journalHandler) listJournals(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	entries, err := h.journalService.ListJournals(c.Request.Context(), userID, c.Param("companyID"),
		domain.Status(c.Query("status")))
	if err != nil {
		respondError(c, err, "Failed to list journals")
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *journalHandler) getJournal(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	entry, err := h.journalService.GetJournal(c.Request.Context(), userID, c.Param("companyID"), c.Param("journalID"))
	if err != nil {
		respondError(c, err, "Failed to load journal")
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *journalHandler) createJournal(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateJournalRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.journalService.CreateJournal(c.Request.Context(), userID, c.Param("companyID"), req)
	if err != nil {
		respondError(c, err, "Failed to create journal")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *journalHandler) replaceLines(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.ReplaceJournalLinesRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.journalService.ReplaceJournalLines(c.Request.Context(), userID, c.Param("companyID"), c.Param("journalID"), req)
	if err != nil {
		respondError(c, err, "Failed to replace journal lines")
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *journalHandler) postJournal(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	entry, err := h.journalService.PostJournal(c.Request.Context(), userID, c.Param("companyID"), c.Param("journalID"))
	if err != nil {
		respondError(c, err, "Failed to post journal")
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *journalHandler) voidJournal(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	result, err := h.journalService.VoidJournal(c.Request.Context(), userID, c.Param("companyID"), c.Param("journalID"))
	if err != nil {
		respondError(c, err, "Failed to void journal")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *journalHandler) trialBalance(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	rows, err := h.journalService.TrialBalance(c.Request.Context(), userID, c.Param("companyID"))
	if err != nil {
		respondError(c, err, "Failed to compute trial balance")
		return
	}
	c.JSON(http.StatusOK, rows)
}
