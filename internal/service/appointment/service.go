// Package appointment manages the patient's agenda.
package appointment

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/telemedpro/telemed/backend/internal/model/doctor"
	"github.com/telemedpro/telemed/backend/internal/model/record"
	"github.com/telemedpro/telemed/backend/pkg/log"
)

var (
	ErrSlotUnavailable     = errors.New("slot is not available")
	ErrDoctorMismatch      = errors.New("doctor does not belong to the specialty")
	ErrInvalidType         = errors.New("appointment type must be videollamada or presencial")
	ErrInvalidReschedule   = errors.New("reschedule option must be next_week or next_month")
	ErrNotVideoAppointment = errors.New("appointment is not a video call")
)

// RescheduleOption selects how far an appointment is moved.
type RescheduleOption string

const (
	NextWeek  RescheduleOption = "next_week"
	NextMonth RescheduleOption = "next_month"
)

const defaultLocation = "Clínica Santa María, Av. Providencia 2345"

// VideoTarget identifies who a video appointment connects to.
type VideoTarget struct {
	Doctor    string `json:"doctor"`
	Specialty string `json:"specialty"`
	VideoURL  string `json:"videoUrl"`
}

// Service keeps appointments in memory.
type Service struct {
	mu      sync.RWMutex
	items   []record.Appointment
	nextID  int64
	doctors doctor.Store
	dates   []string
	times   []string
}

// NewService seeds the agenda with items.
func NewService(doctors doctor.Store, items []record.Appointment) *Service {
	s := &Service{
		items:   slices.Clone(items),
		doctors: doctors,
		dates:   record.AvailableDates(),
		times:   record.AvailableTimes(),
	}
	for _, item := range items {
		s.nextID = max(s.nextID, item.ID)
	}
	return s
}

// List returns the appointments ordered by date.
func (s *Service) List(_ context.Context) []record.Appointment {
	s.mu.RLock()
	out := slices.Clone(s.items)
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b record.Appointment) int {
		return strings.Compare(a.Date, b.Date)
	})
	return out
}

// Upcoming returns at most limit appointments, earliest first.
func (s *Service) Upcoming(ctx context.Context, limit int) []record.Appointment {
	out := s.List(ctx)
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *Service) Get(_ context.Context, id int64) (record.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return record.Appointment{}, record.ErrNotFound
	}
	return s.items[idx], nil
}

// Cancel removes the appointment.
func (s *Service) Cancel(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return record.ErrNotFound
	}
	s.items = slices.Delete(s.items, idx, idx+1)
	log.Infow("appointment cancelled", "id", id)
	return nil
}

// Reschedule moves the appointment by a week or a month, keeping the time of day.
func (s *Service) Reschedule(_ context.Context, id int64, option RescheduleOption) (record.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return record.Appointment{}, record.ErrNotFound
	}

	current, err := time.Parse(record.DateLayout, s.items[idx].Date)
	if err != nil {
		return record.Appointment{}, fmt.Errorf("parse appointment date: %w", err)
	}

	var next time.Time
	switch option {
	case NextWeek:
		next = current.AddDate(0, 0, 7)
	case NextMonth:
		next = current.AddDate(0, 1, 0)
	default:
		return record.Appointment{}, ErrInvalidReschedule
	}

	when := next.Format(record.DateLayout)
	if s.takenLocked(s.items[idx].Doctor, when) {
		return record.Appointment{}, ErrSlotUnavailable
	}

	s.items[idx].Date = when
	s.items[idx].Status = record.StatusRescheduled
	log.Infow("appointment rescheduled", "id", id, "date", s.items[idx].Date)
	return s.items[idx], nil
}

// AvailableDates lists the bookable days.
func (s *Service) AvailableDates() []string {
	return slices.Clone(s.dates)
}

// AvailableSlots returns the times still free for doctorName on date.
func (s *Service) AvailableSlots(_ context.Context, doctorName, date string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !slices.Contains(s.dates, date) {
		return []string{}
	}
	out := make([]string, 0, len(s.times))
	for _, t := range s.times {
		if !s.takenLocked(doctorName, date+" "+t) {
			out = append(out, t)
		}
	}
	return out
}

// Book validates the form and adds a confirmed appointment.
func (s *Service) Book(_ context.Context, form record.BookingForm) (record.Appointment, error) {
	form = trimForm(form)
	if form.Type == "" || form.Specialty == "" || form.Doctor == "" ||
		form.Date == "" || form.Time == "" || form.Reason == "" {
		return record.Appointment{}, record.ErrIncompleteForm
	}
	if !form.Type.Valid() {
		return record.Appointment{}, ErrInvalidType
	}

	doc, ok := s.doctors.FindByName(form.Doctor)
	if !ok || doc.Virtual || doc.Specialty != form.Specialty {
		return record.Appointment{}, ErrDoctorMismatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	when := form.Date + " " + form.Time
	if !slices.Contains(s.dates, form.Date) || !slices.Contains(s.times, form.Time) || s.takenLocked(doc.Name, when) {
		return record.Appointment{}, ErrSlotUnavailable
	}

	s.nextID++
	item := record.Appointment{
		ID:          s.nextID,
		Title:       "Cita con " + doc.Name,
		Date:        when,
		Doctor:      doc.Name,
		Specialty:   doc.Specialty,
		Type:        form.Type,
		Status:      record.StatusConfirmed,
		Description: form.Reason,
		Reason:      form.Reason,
	}
	if form.Type == record.TypeVideo {
		item.Duration = "30 minutos"
		item.Cost = "25000"
		item.VideoURL = "https://meet.telemedpro.app/" + uuid.NewString()
		item.Instructions = "Conéctate 5 minutos antes desde un lugar tranquilo y con buena conexión."
	} else {
		item.Duration = "45 minutos"
		item.Cost = "35000"
		item.Location = defaultLocation
		item.Requirements = []string{"Llegar 15 minutos antes", "Traer documento de identidad"}
	}
	s.items = append(s.items, item)

	log.Infow("appointment booked", "id", item.ID, "doctor", item.Doctor, "date", item.Date)
	return item, nil
}

// VideoCallTarget resolves the doctor of a video appointment.
func (s *Service) VideoCallTarget(ctx context.Context, id int64) (VideoTarget, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return VideoTarget{}, err
	}
	if item.Type != record.TypeVideo {
		return VideoTarget{}, ErrNotVideoAppointment
	}
	return VideoTarget{Doctor: item.Doctor, Specialty: item.Specialty, VideoURL: item.VideoURL}, nil
}

func (s *Service) indexLocked(id int64) int {
	return slices.IndexFunc(s.items, func(a record.Appointment) bool { return a.ID == id })
}

func (s *Service) takenLocked(doctorName, when string) bool {
	return slices.ContainsFunc(s.items, func(a record.Appointment) bool {
		return a.Doctor == doctorName && a.Date == when
	})
}

func trimForm(f record.BookingForm) record.BookingForm {
	f.Type = record.AppointmentType(strings.TrimSpace(string(f.Type)))
	f.Specialty = strings.TrimSpace(f.Specialty)
	f.Doctor = strings.TrimSpace(f.Doctor)
	f.Date = strings.TrimSpace(f.Date)
	f.Time = strings.TrimSpace(f.Time)
	f.Reason = strings.TrimSpace(f.Reason)
	return f
}
