package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"practice-manager-server/internal/handlers"
	"practice-manager-server/internal/services"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB) {
	appointmentService := services.NewAppointmentService(db)
	patientService := services.NewPatientService(db)
	financialService := services.NewFinancialService(db)

	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	patientHandler := handlers.NewPatientHandler(patientService)
	financialHandler := handlers.NewFinancialHandler(financialService)
	dashboardHandler := handlers.NewDashboardHandler(financialService, patientService)

	api := router.Group("/api/v1")
	{
		appointmentRoutes := api.Group("/appointments")
		{
			appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.GET("/calendar", appointmentHandler.GetCalendarEvents)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PATCH("/:id", appointmentHandler.UpdateAppointment)
			appointmentRoutes.POST("/:id/cancel", appointmentHandler.CancelAppointment)
			appointmentRoutes.DELETE("/:id", appointmentHandler.DeleteAppointment)
		}

		patientRoutes := api.Group("/patients")
		{
			patientRoutes.POST("", patientHandler.CreatePatient)
			patientRoutes.GET("", patientHandler.GetPatients)
			patientRoutes.GET("/:id", patientHandler.GetPatientByID)
			patientRoutes.PUT("/:id", patientHandler.UpdatePatient)
			patientRoutes.DELETE("/:id", patientHandler.DeletePatient)
			patientRoutes.POST("/:id/deactivate", patientHandler.DeactivatePatient)
			patientRoutes.POST("/:id/activate", patientHandler.ActivatePatient)
		}

		financialRoutes := api.Group("/financial")
		{
			financialRoutes.POST("/payments", financialHandler.RegisterPayment)
			financialRoutes.GET("/payments", financialHandler.GetPayments)
			financialRoutes.GET("/payments/:id", financialHandler.GetPaymentByID)
			financialRoutes.DELETE("/payments/:id", financialHandler.DeletePayment)
		}

		api.GET("/dashboard", dashboardHandler.GetDashboard)
	}
}
