package doctor

// Store exposes the clinician directory to handlers and services.
type Store interface {
	List() []Doctor
	FindByID(id string) (Doctor, bool)
	FindByName(name string) (Doctor, bool)
	BySpecialty(specialty string) []Doctor
}

// MemoryStore implements Store over a fixed slice.
type MemoryStore struct {
	items []Doctor
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied doctors.
func NewMemoryStore(items []Doctor) *MemoryStore {
	return &MemoryStore{items: append([]Doctor(nil), items...)}
}

// List returns every doctor, virtual assistant included.
func (s *MemoryStore) List() []Doctor {
	return append([]Doctor(nil), s.items...)
}

// FindByID looks up a doctor by identifier.
func (s *MemoryStore) FindByID(id string) (Doctor, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Doctor{}, false
}

// FindByName looks up a doctor by display name.
func (s *MemoryStore) FindByName(name string) (Doctor, bool) {
	for _, item := range s.items {
		if item.Name == name {
			return item, true
		}
	}
	return Doctor{}, false
}

// BySpecialty returns the bookable (non-virtual) doctors of a specialty.
func (s *MemoryStore) BySpecialty(specialty string) []Doctor {
	var out []Doctor
	for _, item := range s.items {
		if item.Specialty == specialty && !item.Virtual {
			out = append(out, item)
		}
	}
	return out
}
