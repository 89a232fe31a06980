package record

// Prescription is one medication order.
type Prescription struct {
	ID           int64  `json:"id"`
	Medication   string `json:"medication"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Doctor       string `json:"doctor"`
	Date         string `json:"date"`
	Instructions string `json:"instructions"`
}

// SeedPrescriptions returns the mock prescriptions, newest first.
func SeedPrescriptions() []Prescription {
	return []Prescription{
		{
			ID:           1,
			Medication:   "Ibuprofeno",
			Dosage:       "400mg",
			Frequency:    "Cada 8 horas",
			Duration:     "7 días",
			Doctor:       "Dra. Salazar",
			Date:         "2025-05-28",
			Instructions: "Tomar después de las comidas para evitar molestias estomacales.",
		},
		{
			ID:           2,
			Medication:   "Paracetamol",
			Dosage:       "500mg",
			Frequency:    "Cada 6 horas",
			Duration:     "5 días",
			Doctor:       "Dr. Rivera",
			Date:         "2025-05-25",
			Instructions: "Tomar con alimentos. No exceder 4 dosis diarias.",
		},
		{
			ID:           3,
			Medication:   "Omeprazol",
			Dosage:       "20mg",
			Frequency:    "1 vez al día",
			Duration:     "30 días",
			Doctor:       "Dra. Salazar",
			Date:         "2025-05-20",
			Instructions: "Tomar en ayunas, 30 minutos antes del desayuno.",
		},
	}
}
