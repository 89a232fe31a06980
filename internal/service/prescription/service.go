// Package prescription manages the patient's prescriptions.
package prescription

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/telemedpro/telemed/backend/internal/model/record"
	"github.com/telemedpro/telemed/backend/pkg/log"
)

// Input carries the editable prescription fields.
type Input struct {
	Medication   string `json:"medication"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Doctor       string `json:"doctor"`
	Instructions string `json:"instructions"`
}

func (in Input) trimmed() Input {
	return Input{
		Medication:   strings.TrimSpace(in.Medication),
		Dosage:       strings.TrimSpace(in.Dosage),
		Frequency:    strings.TrimSpace(in.Frequency),
		Duration:     strings.TrimSpace(in.Duration),
		Doctor:       strings.TrimSpace(in.Doctor),
		Instructions: strings.TrimSpace(in.Instructions),
	}
}

func (in Input) complete() bool {
	return in.Medication != "" && in.Dosage != "" && in.Frequency != ""
}

// Service keeps prescriptions newest first.
type Service struct {
	mu     sync.RWMutex
	items  []record.Prescription
	nextID int64
	now    func() time.Time
}

func NewService(items []record.Prescription) *Service {
	s := &Service{items: slices.Clone(items), now: time.Now}
	for _, item := range items {
		s.nextID = max(s.nextID, item.ID)
	}
	return s
}

func (s *Service) List(_ context.Context) []record.Prescription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

func (s *Service) Get(_ context.Context, id int64) (record.Prescription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return record.Prescription{}, record.ErrNotFound
	}
	return s.items[idx], nil
}

// Create prepends a prescription dated today.
func (s *Service) Create(_ context.Context, in Input) (record.Prescription, error) {
	in = in.trimmed()
	if !in.complete() {
		return record.Prescription{}, record.ErrIncompleteForm
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	item := record.Prescription{
		ID:           s.nextID,
		Medication:   in.Medication,
		Dosage:       in.Dosage,
		Frequency:    in.Frequency,
		Duration:     in.Duration,
		Doctor:       in.Doctor,
		Date:         s.now().Format(record.DayLayout),
		Instructions: in.Instructions,
	}
	s.items = slices.Insert(s.items, 0, item)
	log.Infow("prescription created", "id", item.ID, "medication", item.Medication)
	return item, nil
}

// Update replaces the editable fields; id and date are kept.
func (s *Service) Update(_ context.Context, id int64, in Input) (record.Prescription, error) {
	in = in.trimmed()
	if !in.complete() {
		return record.Prescription{}, record.ErrIncompleteForm
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return record.Prescription{}, record.ErrNotFound
	}
	item := &s.items[idx]
	item.Medication = in.Medication
	item.Dosage = in.Dosage
	item.Frequency = in.Frequency
	item.Duration = in.Duration
	item.Doctor = in.Doctor
	item.Instructions = in.Instructions
	return *item, nil
}

func (s *Service) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return record.ErrNotFound
	}
	s.items = slices.Delete(s.items, idx, idx+1)
	log.Infow("prescription deleted", "id", id)
	return nil
}

// Summary renders every prescription as a shareable plain-text document.
func (s *Service) Summary(ctx context.Context) string {
	items := s.List(ctx)

	var b strings.Builder
	b.WriteString("RECETAS MÉDICAS - TELEMED PRO\n")
	fmt.Fprintf(&b, "%d recetas activas\n", len(items))
	for i, item := range items {
		fmt.Fprintf(&b, "\nRECETA %d DE %d\n", i+1, len(items))
		fmt.Fprintf(&b, "%s\n", item.Medication)
		fmt.Fprintf(&b, "Dosis: %s\n", item.Dosage)
		fmt.Fprintf(&b, "Frecuencia: %s\n", item.Frequency)
		writeOptional(&b, "Duración", item.Duration)
		writeOptional(&b, "Médico", item.Doctor)
		fmt.Fprintf(&b, "Fecha: %s\n", item.Date)
		writeOptional(&b, "Instrucciones", item.Instructions)
	}
	fmt.Fprintf(&b, "\nDocumento generado por TeleMed Pro el %s\n", s.now().Format("02/01/2006"))
	return b.String()
}

func writeOptional(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "%s: %s\n", label, value)
	}
}

func (s *Service) indexLocked(id int64) int {
	return slices.IndexFunc(s.items, func(p record.Prescription) bool { return p.ID == id })
}
