package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"staffing_backend/internal/models"
	"staffing_backend/internal/services"
	"staffing_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// InvoiceHandler serves invoices, their line items and the range export.
type InvoiceHandler struct {
	invoiceService services.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(is services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: is}
}

// --- Invoice Handler Methods ---

func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req services.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreateInvoice: Failed to bind JSON")
		return
	}
	inv, err := h.invoiceService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreateInvoice: Error from invoiceService.CreateInvoice", "Failed to create invoice.")
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (h *InvoiceHandler) GetInvoiceByID(c *gin.Context) {
	inv, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "GetInvoiceByID: Error from invoiceService.GetInvoice for ID "+c.Param("id"), "Failed to fetch invoice.")
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "DeleteInvoice: Error from invoiceService.DeleteInvoice for ID "+c.Param("id"), "Failed to delete invoice.")
		return
	}
	c.Status(http.StatusNoContent)
}

// DuplicateInvoice copies an invoice under the next free number.
func (h *InvoiceHandler) DuplicateInvoice(c *gin.Context) {
	inv, err := h.invoiceService.DuplicateInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "DuplicateInvoice: Error from invoiceService.DuplicateInvoice", "Failed to duplicate invoice.")
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	var req services.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "RecordPayment: Failed to bind JSON")
		return
	}
	inv, err := h.invoiceService.RecordPayment(c.Request.Context(), c.Param("id"), *req.Amount)
	if err != nil {
		respondServiceError(c, err, "RecordPayment: Error from invoiceService.RecordPayment", "Failed to record payment.")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// --- Line Item Handler Methods ---

func (h *InvoiceHandler) AddItem(c *gin.Context) {
	var item models.InvoiceItem
	if err := c.ShouldBindJSON(&item); err != nil {
		respondBindError(c, err, "AddItem: Failed to bind JSON")
		return
	}
	inv, err := h.invoiceService.AddItem(c.Request.Context(), c.Param("id"), item)
	if err != nil {
		respondServiceError(c, err, "AddItem: Error from invoiceService.AddItem", "Failed to add line item.")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// UpdateItem changes one field of the item at :index and recomputes the
// derived hours and amount.
func (h *InvoiceHandler) UpdateItem(c *gin.Context) {
	index, err := utils.StrToInt(c.Param("index"))
	if err != nil {
		utils.RespondValidationFailed(c, "index: "+err.Error())
		return
	}
	var req services.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "UpdateItem: Failed to bind JSON")
		return
	}
	inv, err := h.invoiceService.UpdateItem(c.Request.Context(), c.Param("id"), index, req.Field, req.Value)
	if err != nil {
		respondServiceError(c, err, "UpdateItem: Error from invoiceService.UpdateItem", "Failed to update line item.")
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
	index, err := utils.StrToInt(c.Param("index"))
	if err != nil {
		utils.RespondValidationFailed(c, "index: "+err.Error())
		return
	}
	inv, err := h.invoiceService.RemoveItem(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		respondServiceError(c, err, "RemoveItem: Error from invoiceService.RemoveItem", "Failed to remove line item.")
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) AddDateGroup(c *gin.Context) {
	var req services.DateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "AddDateGroup: Failed to bind JSON")
		return
	}
	inv, err := h.invoiceService.AddDateGroup(c.Request.Context(), c.Param("id"), req.Date)
	if err != nil {
		respondServiceError(c, err, "AddDateGroup: Error from invoiceService.AddDateGroup", "Failed to add date group.")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// --- Export ---

// ExportInvoices streams invoices dated in [start, end] as CSV or XLSX.
// Query: start, end (YYYY-MM-DD), sort, order=asc|desc, format=csv|xlsx.
func (h *InvoiceHandler) ExportInvoices(c *gin.Context) {
	start, err := utils.StrToDatePtr(c.Query("start"))
	if err != nil || start == nil {
		utils.RespondValidationFailed(c, "start: a YYYY-MM-DD date is required")
		return
	}
	end, err := utils.StrToDatePtr(c.Query("end"))
	if err != nil || end == nil {
		utils.RespondValidationFailed(c, "end: a YYYY-MM-DD date is required")
		return
	}
	order := strings.ToLower(c.DefaultQuery("order", "asc"))
	if order != "asc" && order != "desc" {
		utils.RespondValidationFailed(c, "order: must be asc or desc")
		return
	}
	format := strings.ToLower(c.DefaultQuery("format", services.ExportFormatCSV))
	contentType, ext, err := services.ExportContentType(format)
	if err != nil {
		respondServiceError(c, err, "ExportInvoices: unknown format", "Failed to export invoices.")
		return
	}

	rows, err := h.invoiceService.ExportRows(c.Request.Context(), *start, *end, c.Query("sort"), order == "desc")
	if err != nil {
		respondServiceError(c, err, "ExportInvoices: Error from invoiceService.ExportRows", "Failed to export invoices.")
		return
	}

	var buf bytes.Buffer
	if err := services.WriteExport(&buf, format, rows); err != nil {
		respondServiceError(c, err, "ExportInvoices: Error writing export", "Failed to export invoices.")
		return
	}

	filename := fmt.Sprintf("invoices_%s_%s.%s", start.Format("2006-01-02"), end.Format("2006-01-02"), ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
