// Package emergency raises the medical alarm and exposes the patient card
// shared with first responders.
package emergency

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/telemedpro/telemed/backend/internal/device"
	"github.com/telemedpro/telemed/backend/internal/model/record"
	"github.com/telemedpro/telemed/backend/pkg/log"
)

var (
	ErrNotConfirmed   = errors.New("emergency must be confirmed")
	ErrNoContact      = errors.New("no emergency contact configured")
	ErrUnknownService = errors.New("unknown emergency number")
)

// AlarmPattern is the vibration sequence played on activation (wait, buzz, ...).
var AlarmPattern = []time.Duration{
	0,
	500 * time.Millisecond,
	200 * time.Millisecond,
	500 * time.Millisecond,
	200 * time.Millisecond,
	500 * time.Millisecond,
}

// AmbulanceNumber is dialled by default when the alarm fires.
const AmbulanceNumber = "131"

const alarmClip = "alarm"

// Number is a public emergency line.
type Number struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// Numbers lists the public emergency lines.
func Numbers() []Number {
	return []Number{
		{Name: "SAMU", Number: AmbulanceNumber},
		{Name: "Bomberos", Number: "132"},
		{Name: "Carabineros", Number: "133"},
	}
}

// Patient is the card sent along with an alarm.
type Patient struct {
	Name       string   `json:"name"`
	Age        int      `json:"age"`
	BloodType  string   `json:"bloodType"`
	Allergies  []string `json:"allergies"`
	Conditions []string `json:"conditions"`
	Contact    string   `json:"contact,omitempty"`
	Address    string   `json:"address"`
}

// Dispatch is the outcome of an activated alarm.
type Dispatch struct {
	Patient     Patient             `json:"patient"`
	Location    string              `json:"location"`
	Coordinates *device.Coordinates `json:"coordinates,omitempty"`
	Number      string              `json:"number"`
	DialURI     string              `json:"dialUri"`
	Message     string              `json:"message"`
	Notices     []device.Notice     `json:"notices,omitempty"`
	ActivatedAt time.Time           `json:"activatedAt"`
}

// ProfileSource supplies the data shown on the patient card.
type ProfileSource interface {
	Get(ctx context.Context) record.Profile
	PrimaryContact(ctx context.Context) (record.EmergencyContact, bool)
}

// Service tracks whether an alarm is active.
type Service struct {
	mu     sync.Mutex
	active bool

	profile ProfileSource
	device  device.Capabilities
	notices *device.Notices
	now     func() time.Time
}

func NewService(profile ProfileSource, caps device.Capabilities, notices *device.Notices) *Service {
	return &Service{profile: profile, device: caps, notices: notices, now: time.Now}
}

// Patient builds the patient card from the current profile.
func (s *Service) Patient(ctx context.Context) Patient {
	p := s.profile.Get(ctx)
	out := Patient{
		Name:       p.User.FullName,
		Age:        age(p.User.BirthDate, s.now()),
		BloodType:  p.User.BloodType,
		Allergies:  p.Medical.Allergies,
		Conditions: p.Medical.Conditions,
		Address:    p.User.Address,
	}
	if c, ok := s.profile.PrimaryContact(ctx); ok {
		out.Contact = c.Phone
	}
	return out
}

// Active reports whether an alarm is in progress.
func (s *Service) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Activate raises the alarm. Device failures degrade into notices; the
// dispatch is always produced once the user has confirmed.
func (s *Service) Activate(ctx context.Context, confirmed bool) (Dispatch, error) {
	if !confirmed {
		return Dispatch{}, ErrNotConfirmed
	}

	var notices []device.Notice
	note := func(err error) {
		if n := s.notices.For(err); n != nil {
			notices = append(notices, *n)
		}
	}

	if err := s.device.Vibrate(ctx, AlarmPattern); err != nil {
		log.Warnw("emergency vibration failed", "error", err)
		note(err)
	}
	if err := s.device.PlayAudio(ctx, alarmClip); err != nil {
		log.Warnw("emergency alarm sound failed", "error", err)
		note(err)
	}

	patient := s.Patient(ctx)
	dispatch := Dispatch{
		Patient:  patient,
		Location: patient.Address,
		Number:   AmbulanceNumber,
		DialURI:  "tel:" + AmbulanceNumber,
	}

	if fix, err := s.device.Locate(ctx); err != nil {
		log.Warnw("emergency location unavailable, using profile address", "error", err)
		note(err)
	} else {
		dispatch.Coordinates = &fix
		if addr, err := s.device.ReverseGeocode(ctx, fix); err == nil && addr != "" {
			dispatch.Location = addr
		}
	}

	dispatch.Notices = notices
	dispatch.Message = message(dispatch)

	s.mu.Lock()
	s.active = true
	dispatch.ActivatedAt = s.now()
	s.mu.Unlock()

	log.Infow("emergency activated", "location", dispatch.Location)
	return dispatch, nil
}

// Resolve clears the active alarm.
func (s *Service) Resolve() {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}

// CallContact dials the primary emergency contact.
func (s *Service) CallContact(ctx context.Context) (string, error) {
	c, ok := s.profile.PrimaryContact(ctx)
	if !ok {
		return "", ErrNoContact
	}
	return s.device.Dial(ctx, c.Phone)
}

// Call dials one of the public emergency lines.
func (s *Service) Call(ctx context.Context, number string) (string, error) {
	known := slices.ContainsFunc(Numbers(), func(n Number) bool { return n.Number == number })
	if !known {
		return "", ErrUnknownService
	}
	return s.device.Dial(ctx, number)
}

func message(d Dispatch) string {
	var b strings.Builder
	b.WriteString("Se enviaron tus datos y ubicación\n\n")
	fmt.Fprintf(&b, "Nombre: %s\n", d.Patient.Name)
	fmt.Fprintf(&b, "Tipo de sangre: %s\n", d.Patient.BloodType)
	fmt.Fprintf(&b, "Alergias: %s\n", strings.Join(d.Patient.Allergies, ", "))
	fmt.Fprintf(&b, "Ubicación: %s\n\n", d.Location)
	fmt.Fprintf(&b, "¿Deseas llamar ahora al %s?", d.Number)
	return b.String()
}

// age computes whole years from a DD/MM/YYYY birth date; 0 when unparsable.
func age(birth string, now time.Time) int {
	born, err := time.Parse("02/01/2006", birth)
	if err != nil {
		return 0
	}
	years := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		years--
	}
	return max(years, 0)
}
