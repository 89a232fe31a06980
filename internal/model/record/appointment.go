package record

// AppointmentType 预约方式。
type AppointmentType string

const (
	TypeVideo    AppointmentType = "videollamada"
	TypeInPerson AppointmentType = "presencial"
)

const (
	DateLayout        = "2006-01-02 15:04"
	DayLayout         = "2006-01-02"
	StatusConfirmed   = "Confirmada"
	StatusRescheduled = "Reagendada"
)

// Valid reports whether t is a known appointment type.
func (t AppointmentType) Valid() bool {
	return t == TypeVideo || t == TypeInPerson
}

// Appointment is a booked consultation.
type Appointment struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Date         string          `json:"date"`
	Doctor       string          `json:"doctor"`
	Specialty    string          `json:"specialty"`
	Type         AppointmentType `json:"type"`
	Duration     string          `json:"duration"`
	Cost         string          `json:"cost"`
	Status       string          `json:"status"`
	Description  string          `json:"description,omitempty"`
	Reason       string          `json:"reason,omitempty"`
	VideoURL     string          `json:"videoUrl,omitempty"`
	Instructions string          `json:"instructions,omitempty"`
	Location     string          `json:"location,omitempty"`
	Requirements []string        `json:"requirements,omitempty"`
	Parking      string          `json:"parking,omitempty"`
}

// BookingForm is the new-appointment form; every field is required.
type BookingForm struct {
	Type      AppointmentType `json:"type"`
	Specialty string          `json:"specialty"`
	Doctor    string          `json:"doctor"`
	Date      string          `json:"date"`
	Time      string          `json:"time"`
	Reason    string          `json:"reason"`
}

// SeedAppointments returns the mock agenda.
func SeedAppointments() []Appointment {
	return []Appointment{
		{
			ID:           1,
			Title:        "Cita con Dra. Salazar",
			Date:         "2025-06-01 10:00",
			Doctor:       "Dra. María Salazar",
			Specialty:    "Medicina General",
			Type:         TypeVideo,
			Duration:     "30 minutos",
			Cost:         "25000",
			Status:       StatusConfirmed,
			Description:  "Consulta de control general y revisión de exámenes",
			VideoURL:     "https://meet.google.com/abc-defg-hij",
			Instructions: "Tener a mano los exámenes recientes y lista de medicamentos actuales",
		},
		{
			ID:          2,
			Title:       "Cita con Dr. Rivera",
			Date:        "2025-06-10 15:30",
			Doctor:      "Dr. Carlos Rivera",
			Specialty:   "Cardiología",
			Type:        TypeInPerson,
			Duration:    "45 minutos",
			Cost:        "35000",
			Status:      StatusConfirmed,
			Location:    "Clínica Santa María, Av. Providencia 2345, Piso 3, Consulta 301",
			Description: "Evaluación cardíaca completa con electrocardiograma",
			Requirements: []string{
				"Llegar 15 minutos antes",
				"Traer exámenes cardíacos previos",
				"Usar ropa cómoda",
				"Venir en ayunas (8 horas)",
				"Traer documento de identidad y orden médica",
			},
			Parking: "Estacionamiento disponible en subterráneo (-2)",
		},
	}
}

// AvailableDates lists the bookable days.
func AvailableDates() []string {
	return []string{"2025-06-15", "2025-06-16", "2025-06-17", "2025-06-18", "2025-06-19", "2025-06-20"}
}

// AvailableTimes lists the daily slots.
func AvailableTimes() []string {
	return []string{"09:00", "10:00", "11:00", "12:00", "14:00", "15:00", "16:00", "17:00"}
}
