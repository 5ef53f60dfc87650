package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"practice-manager-server/internal/models"
	"practice-manager-server/internal/services"
	"practice-manager-server/internal/utils"
)

// FinancialHandler handles payment related requests.
type FinancialHandler struct {
	Service *services.FinancialService
}

// NewFinancialHandler creates a new FinancialHandler.
func NewFinancialHandler(service *services.FinancialService) *FinancialHandler {
	return &FinancialHandler{Service: service}
}

// RegisterPaymentRequest represents the request body for registering a
// payment. patientId only applies to income records.
type RegisterPaymentRequest struct {
	PatientID *string         `json:"patientId" binding:"omitempty,uuid"`
	Date      time.Time       `json:"date" binding:"required"`
	Value     decimal.Decimal `json:"value" binding:"required"`
	Type      string          `json:"type" binding:"required,oneof=income expense"`
	Notes     string          `json:"notes"`
}

// RegisterPayment records a new income or expense.
func (h *FinancialHandler) RegisterPayment(c *gin.Context) {
	var req RegisterPaymentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	payment, err := h.Service.Register(c.Request.Context(), services.PaymentInput{
		PatientID: req.PatientID,
		Date:      req.Date,
		Value:     req.Value,
		Type:      models.PaymentType(req.Type),
		Notes:     req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Created(c, "Payment registered successfully", payment)
}

// PaymentListResponse pairs the filtered payments with their total value.
type PaymentListResponse struct {
	Payments []models.Payment `json:"payments"`
	Total    decimal.Decimal  `json:"total"`
}

// GetPayments lists payments, optionally bounded by start_date and end_date
// query parameters, with the running total.
func (h *FinancialHandler) GetPayments(c *gin.Context) {
	start, ok := parseDateQuery(c, "start_date")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end_date")
	if !ok {
		return
	}

	payments, err := h.Service.List(c.Request.Context(), start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Payments fetched successfully", PaymentListResponse{
		Payments: payments,
		Total:    services.Total(payments),
	})
}

// GetPaymentByID fetches a single payment by ID.
func (h *FinancialHandler) GetPaymentByID(c *gin.Context) {
	payment, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Payment fetched successfully", payment)
}

// DeletePayment removes one payment record.
func (h *FinancialHandler) DeletePayment(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Payment deleted successfully", nil)
}
