package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"practice-manager-server/internal/models"
	"practice-manager-server/internal/services"
	"practice-manager-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Service *services.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(service *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Service: service}
}

// CreateAppointmentRequest represents the request body for creating an
// appointment, optionally seeding a recurring series.
type CreateAppointmentRequest struct {
	PatientID           string          `json:"patientId" binding:"required,uuid"`
	Date                time.Time       `json:"date" binding:"required"`
	Value               decimal.Decimal `json:"value" binding:"required"`
	Notes               string          `json:"notes"`
	IsRecurring         bool            `json:"isRecurring"`
	RecurrenceFrequency string          `json:"recurrenceFrequency" binding:"omitempty,oneof=weekly biweekly monthly"`
	RecurrenceUntil     string          `json:"recurrenceUntil"` // YYYY-MM-DD, empty for an open-ended series
	NoEndDate           bool            `json:"noEndDate"`
}

// CreateAppointment creates an appointment and, when recurring, its whole
// series of future occurrences.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	input := services.CreateAppointmentInput{
		PatientID:   req.PatientID,
		Date:        req.Date,
		Value:       req.Value,
		Notes:       req.Notes,
		IsRecurring: req.IsRecurring,
		Frequency:   models.RecurrenceFrequency(req.RecurrenceFrequency),
	}
	if req.IsRecurring && !req.NoEndDate && req.RecurrenceUntil != "" {
		until, err := parseDateField(req.RecurrenceUntil)
		if err != nil {
			utils.BadRequest(c, "Invalid recurrenceUntil date: "+req.RecurrenceUntil)
			return
		}
		input.Until = &until
	}

	parent, err := h.Service.CreateSeries(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Created(c, "Appointment created successfully", parent)
}

// GetAppointments lists appointments, optionally bounded by start_date and
// end_date query parameters.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	start, ok := parseDateQuery(c, "start_date")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end_date")
	if !ok {
		return
	}

	appointments, err := h.Service.List(c.Request.Context(), start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID fetches a single appointment by its ID.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointment, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Appointment fetched successfully", appointment)
}

// GetCalendarEvents returns the calendar projection for the optional
// start/end range.
func (h *AppointmentHandler) GetCalendarEvents(c *gin.Context) {
	start, ok := parseDateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end")
	if !ok {
		return
	}

	events, err := h.Service.CalendarEvents(c.Request.Context(), start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Calendar events fetched successfully", events)
}

// UpdateAppointmentRequest represents the request body for updating an
// appointment. For scope=single, absent fields keep their current value.
// For scope=series, patientId, date and value are required.
type UpdateAppointmentRequest struct {
	PatientID           *string          `json:"patientId" binding:"omitempty,uuid"`
	Date                *time.Time       `json:"date"`
	Value               *decimal.Decimal `json:"value"`
	Notes               *string          `json:"notes"`
	Status              *string          `json:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
	RecurrenceFrequency *string          `json:"recurrenceFrequency" binding:"omitempty,oneof=weekly biweekly monthly"`
	RecurrenceUntil     string           `json:"recurrenceUntil"`
	NoEndDate           bool             `json:"noEndDate"`
}

// UpdateAppointment patches one appointment or, with ?scope=series, rewrites
// the series from the edited occurrence onward.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	var req UpdateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if c.DefaultQuery("scope", "single") == "series" {
		h.updateSeries(c, req)
		return
	}

	input := services.UpdateAppointmentInput{
		PatientID: req.PatientID,
		Date:      req.Date,
		Value:     req.Value,
		Notes:     req.Notes,
	}
	if req.Status != nil {
		status := models.AppointmentStatus(*req.Status)
		input.Status = &status
	}

	appointment, err := h.Service.UpdateSingle(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Appointment updated successfully", appointment)
}

func (h *AppointmentHandler) updateSeries(c *gin.Context, req UpdateAppointmentRequest) {
	if req.PatientID == nil || req.Date == nil || req.Value == nil {
		utils.BadRequest(c, "patientId, date and value are required when updating a series")
		return
	}

	input := services.UpdateSeriesInput{
		PatientID: *req.PatientID,
		Date:      *req.Date,
		Value:     *req.Value,
	}
	if req.Notes != nil {
		input.Notes = *req.Notes
	}
	// Omitted recurrence fields leave the series cadence untouched.
	if req.RecurrenceFrequency != nil {
		frequency := models.RecurrenceFrequency(*req.RecurrenceFrequency)
		input.Frequency = &frequency
	}
	if req.NoEndDate {
		input.ClearUntil = true
	} else if req.RecurrenceUntil != "" {
		until, err := parseDateField(req.RecurrenceUntil)
		if err != nil {
			utils.BadRequest(c, "Invalid recurrenceUntil date: "+req.RecurrenceUntil)
			return
		}
		input.Until = &until
	}

	appointment, err := h.Service.UpdateSeries(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Appointment series updated successfully", appointment)
}

// CancelAppointment cancels a single scheduled appointment.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	appointment, err := h.Service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Appointment cancelled successfully", appointment)
}

// DeleteAppointment deletes one appointment or, with ?scope=series, the
// occurrence and every later member of its series.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	var err error
	if c.DefaultQuery("scope", "single") == "series" {
		err = h.Service.DeleteSeries(c.Request.Context(), c.Param("id"))
	} else {
		err = h.Service.DeleteSingle(c.Request.Context(), c.Param("id"))
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Appointment deleted successfully", nil)
}
