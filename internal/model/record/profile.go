package record

// UserProfile holds the patient's personal data.
type UserProfile struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birthDate"` // DD/MM/YYYY
	BloodType string `json:"bloodType"`
	Address   string `json:"address"`
	PhotoURI  string `json:"photoUri,omitempty"`
}

// MedicalInfo lists allergies, chronic conditions and current medication.
type MedicalInfo struct {
	Allergies   []string `json:"allergies"`
	Conditions  []string `json:"conditions"`
	Medications []string `json:"medications"`
}

// EmergencyContact is someone to call on the patient's behalf.
type EmergencyContact struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

// Profile bundles everything shown on the profile screen.
type Profile struct {
	User     UserProfile        `json:"user"`
	Medical  MedicalInfo        `json:"medical"`
	Contacts []EmergencyContact `json:"contacts"`
}

// SeedProfile returns the mock patient.
func SeedProfile() Profile {
	return Profile{
		User: UserProfile{
			FullName:  "Kevin Rodas",
			Email:     "kevin@example.com",
			Phone:     "+56 9 1234 5678",
			BirthDate: "15/03/1990",
			BloodType: "O+",
			Address:   "Av. Principal 123, Santiago, Chile",
		},
		Medical: MedicalInfo{
			Allergies:   []string{"Penicilina", "Mariscos"},
			Conditions:  []string{"Hipertensión", "Diabetes tipo 2"},
			Medications: []string{"Omeprazol 20mg", "Metformina 850mg"},
		},
		Contacts: []EmergencyContact{
			{ID: 1, Name: "María Rodas", Relationship: "Hija", Phone: "+56987654321"},
			{ID: 2, Name: "Carmen López", Relationship: "Cuidadora", Phone: "+56955551234"},
			{ID: 3, Name: "Dr. Silva", Relationship: "Médico", Phone: "+56999998888"},
		},
	}
}
