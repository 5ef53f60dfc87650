// Command seed wipes the practice tables and fills them with demo data:
// a roster of patients, two months of weekly sessions per patient with
// matching income records, and three months of recurring expenses.
package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"practice-manager-server/internal/config"
	"practice-manager-server/internal/logging"
	"practice-manager-server/internal/models"
)

var sessionValues = []int64{120, 150, 180, 200}

var samplePatients = []struct {
	Name  string
	Email string
	Phone string
	Born  string
}{
	{"Ana Souza", "ana.souza@example.com", "+55 11 98765-0001", "1988-03-14"},
	{"Bruno Lima", "bruno.lima@example.com", "+55 11 98765-0002", "1979-11-02"},
	{"Carla Mendes", "carla.mendes@example.com", "+55 11 98765-0003", "1993-06-21"},
	{"Diego Ferreira", "diego.ferreira@example.com", "+55 11 98765-0004", "1985-01-30"},
	{"Elisa Rocha", "elisa.rocha@example.com", "+55 11 98765-0005", "1997-09-08"},
	{"Fábio Cardoso", "fabio.cardoso@example.com", "+55 11 98765-0006", "1972-12-17"},
	{"Gabriela Nunes", "gabriela.nunes@example.com", "+55 11 98765-0007", "1990-04-25"},
	{"Henrique Alves", "henrique.alves@example.com", "+55 11 98765-0008", "1983-07-11"},
	{"Isabela Prado", "isabela.prado@example.com", "+55 11 98765-0009", "1995-02-03"},
	{"João Teixeira", "joao.teixeira@example.com", "+55 11 98765-0010", "1981-08-29"},
}

// Fixed weekday slots, two patients per weekday.
var scheduleSlots = []struct {
	Weekday time.Weekday
	Hours   []int
}{
	{time.Monday, []int{8, 9}},
	{time.Tuesday, []int{10, 11}},
	{time.Wednesday, []int{14, 15}},
	{time.Thursday, []int{16, 17}},
	{time.Friday, []int{9, 10}},
}

var monthlyExpenses = []struct {
	Notes string
	Min   float64
	Max   float64
}{
	{"Office rent", 1200, 1800},
	{"Electricity bill", 150, 250},
	{"Water bill", 80, 120},
	{"Taxes", 400, 700},
	{"Office supplies", 50, 150},
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	logging.InitLogger("practice-manager-seed", cfg.Environment)

	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	if err := clearData(db); err != nil {
		log.Fatal().Err(err).Msg("Error clearing tables")
	}

	patients, err := createPatients(db)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating patients")
	}
	log.Info().Int("count", len(patients)).Msg("Patients created")

	if err := createRecurrentAppointments(db, patients); err != nil {
		log.Fatal().Err(err).Msg("Error creating appointments")
	}
	if err := createExpenses(db); err != nil {
		log.Fatal().Err(err).Msg("Error creating expenses")
	}

	log.Info().Msg("Seed finished")
}

// clearData empties the tables, children before owners to satisfy the FKs.
func clearData(db *gorm.DB) error {
	for _, model := range []any{&models.Payment{}, &models.Appointment{}, &models.Patient{}} {
		if err := db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createPatients(db *gorm.DB) ([]models.Patient, error) {
	patients := make([]models.Patient, 0, len(samplePatients))
	for _, sample := range samplePatients {
		born, err := time.Parse("2006-01-02", sample.Born)
		if err != nil {
			return nil, err
		}
		patients = append(patients, models.Patient{
			Name:      sample.Name,
			Email:     sample.Email,
			Phone:     sample.Phone,
			BirthDate: born,
			Notes:     "Seeded demo patient.",
			IsActive:  true,
		})
	}
	if err := db.Create(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

// createRecurrentAppointments gives each patient a weekly slot spanning two
// months back and one month ahead. Past sessions are completed and paid,
// future ones stay scheduled.
func createRecurrentAppointments(db *gorm.DB, patients []models.Patient) error {
	now := time.Now()
	start := now.AddDate(0, 0, -60)
	end := now.AddDate(0, 0, 30)

	patientIndex := 0
	for _, slot := range scheduleSlots {
		for _, hour := range slot.Hours {
			if patientIndex >= len(patients) {
				break
			}
			patient := patients[patientIndex]
			value := decimal.NewFromInt(sessionValues[rand.Intn(len(sessionValues))])

			for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
				if day.Weekday() != slot.Weekday {
					continue
				}
				sessionTime := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())

				status := models.StatusCompleted
				if sessionTime.After(now) {
					status = models.StatusScheduled
				}

				appointment := models.Appointment{
					PatientID: patient.ID,
					Date:      sessionTime,
					Status:    status,
					Value:     value,
					Notes:     "Recurring session for " + patient.Name + ".",
				}
				if err := db.Create(&appointment).Error; err != nil {
					return err
				}

				// Completed sessions older than a week have been paid.
				if status == models.StatusCompleted && now.Sub(sessionTime) > 7*24*time.Hour {
					payment := models.Payment{
						PatientID: &patient.ID,
						Date:      sessionTime,
						Value:     value,
						Type:      models.PaymentIncome,
						Notes:     "Session payment.",
					}
					if err := db.Create(&payment).Error; err != nil {
						return err
					}
				}
			}
			patientIndex++
		}
	}
	return nil
}

// createExpenses writes the fixed practice expenses for the last three
// months.
func createExpenses(db *gorm.DB) error {
	now := time.Now()
	for i := 0; i < 3; i++ {
		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)

		for _, expense := range monthlyExpenses {
			amount := expense.Min + rand.Float64()*(expense.Max-expense.Min)
			payment := models.Payment{
				Date:  firstOfMonth.AddDate(0, 0, 4+rand.Intn(15)),
				Value: decimal.NewFromFloat(amount).Round(2),
				Type:  models.PaymentExpense,
				Notes: expense.Notes,
			}
			if err := db.Create(&payment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
