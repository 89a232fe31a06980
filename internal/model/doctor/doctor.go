package doctor

// Doctor describes a clinician the patient can chat with or book.
type Doctor struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Specialty   string   `json:"specialty"`
	Tone        string   `json:"tone,omitempty"`
	PromptHint  string   `json:"promptHint,omitempty"`
	OpeningLine string   `json:"openingLine"`
	Description string   `json:"description,omitempty"`
	Expertise   []string `json:"expertise,omitempty"` // 擅长领域
	Virtual     bool     `json:"virtual,omitempty"`
}

// AssistantID identifies the always-available virtual assistant.
const AssistantID = "dr-ia"

// Specialty is a bookable medical specialty.
type Specialty struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

const defaultOpening = "Hola, como te sientes hoy?"

// Specialties returns the fixed specialty catalogue.
func Specialties() []Specialty {
	return []Specialty{
		{ID: 1, Name: "Medicina General"},
		{ID: 2, Name: "Cardiología"},
		{ID: 3, Name: "Pediatría"},
		{ID: 4, Name: "Dermatología"},
		{ID: 5, Name: "Psiquiatría"},
		{ID: 6, Name: "Traumatología"},
	}
}

// Seed provides the mock clinician directory.
func Seed() []Doctor {
	doctors := []Doctor{
		{
			ID:          AssistantID,
			Name:        "Dr. IA",
			Title:       "Asistente médico virtual",
			Specialty:   "Medicina General",
			Tone:        "cercano, claro, prudente",
			PromptHint:  "Orienta sin diagnosticar; deriva a una cita o a emergencias cuando corresponda.",
			OpeningLine: defaultOpening,
			Description: "Asistente disponible 24/7 para orientar síntomas comunes.",
			Expertise:   []string{"triage", "síntomas comunes", "uso de la app"},
			Virtual:     true,
		},
	}

	roster := []struct {
		id, name, specialty string
	}{
		{"maria-salazar", "Dra. María Salazar", "Medicina General"},
		{"juan-torres", "Dr. Juan Torres", "Medicina General"},
		{"carlos-rivera", "Dr. Carlos Rivera", "Cardiología"},
		{"ana-martinez", "Dra. Ana Martínez", "Cardiología"},
		{"laura-gomez", "Dra. Laura Gómez", "Pediatría"},
		{"pedro-silva", "Dr. Pedro Silva", "Pediatría"},
		{"miguel-rojas", "Dr. Miguel Rojas", "Dermatología"},
		{"sofia-vargas", "Dra. Sofía Vargas", "Dermatología"},
		{"patricia-morales", "Dra. Patricia Morales", "Psiquiatría"},
		{"roberto-diaz", "Dr. Roberto Díaz", "Psiquiatría"},
		{"fernando-lopez", "Dr. Fernando López", "Traumatología"},
		{"carmen-ruiz", "Dra. Carmen Ruiz", "Traumatología"},
	}
	for _, r := range roster {
		doctors = append(doctors, Doctor{
			ID:          r.id,
			Name:        r.name,
			Title:       r.specialty,
			Specialty:   r.specialty,
			OpeningLine: defaultOpening,
		})
	}
	return doctors
}
