package handlers

import (
	"github.com/gin-gonic/gin"

	"practice-manager-server/internal/services"
	"practice-manager-server/internal/utils"
)

// PatientHandler handles patient related requests.
type PatientHandler struct {
	Service *services.PatientService
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(service *services.PatientService) *PatientHandler {
	return &PatientHandler{Service: service}
}

// PatientRequest represents the request body for creating or updating a
// patient.
type PatientRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	BirthDate string `json:"birthDate" binding:"required"` // YYYY-MM-DD
	Notes     string `json:"notes"`
}

func (r *PatientRequest) toInput(c *gin.Context) (services.PatientInput, bool) {
	birthDate, err := parseDateField(r.BirthDate)
	if err != nil {
		utils.BadRequest(c, "Invalid birthDate: "+r.BirthDate)
		return services.PatientInput{}, false
	}
	return services.PatientInput{
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		BirthDate: birthDate,
		Notes:     r.Notes,
	}, true
}

// CreatePatient registers a new patient.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req PatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	input, ok := req.toInput(c)
	if !ok {
		return
	}

	patient, err := h.Service.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Created(c, "Patient created successfully", patient)
}

// GetPatients lists patients ordered by name. Pass ?active=true for active
// patients only.
func (h *PatientHandler) GetPatients(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	patients, err := h.Service.List(c.Request.Context(), activeOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Patients fetched successfully", patients)
}

// GetPatientByID fetches a single patient by ID.
func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	patient, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Patient fetched successfully", patient)
}

// UpdatePatient rewrites a patient's details.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	var req PatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	input, ok := req.toInput(c)
	if !ok {
		return
	}

	patient, err := h.Service.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Patient updated successfully", patient)
}

// DeletePatient hard-deletes a patient and everything they own.
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Patient deleted successfully", nil)
}

// DeactivatePatient soft-deletes a patient, purging their future
// appointments.
func (h *PatientHandler) DeactivatePatient(c *gin.Context) {
	if err := h.Service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Patient deactivated and future appointments removed", nil)
}

// ActivatePatient re-activates a patient. Purged appointments are not
// restored.
func (h *PatientHandler) ActivatePatient(c *gin.Context) {
	if err := h.Service.Activate(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Patient activated successfully", nil)
}
