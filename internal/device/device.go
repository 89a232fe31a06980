// Package device models the handset capabilities the app relies on (camera,
// media pickers, location, audio, telephony, vibration). Every request is
// fire-and-forget and resolves to granted or ErrPermissionDenied.
package device

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/telemedpro/telemed/backend/internal/metrics"
	"github.com/telemedpro/telemed/backend/pkg/log"
)

var (
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidNumber     = errors.New("phone number is required")
	ErrUnknownCapability = errors.New("unknown capability")
)

// Capability names a permission-gated device feature.
type Capability string

const (
	Camera       Capability = "camera"
	PhotoLibrary Capability = "photo_library"
	Documents    Capability = "documents"
	Location     Capability = "location"
	Audio        Capability = "audio"
	Telephony    Capability = "telephony"
	Vibration    Capability = "vibration"
)

// AllCapabilities lists every capability in a stable order.
func AllCapabilities() []Capability {
	return []Capability{Camera, PhotoLibrary, Documents, Location, Audio, Telephony, Vibration}
}

// ParseCapability validates a capability name.
func ParseCapability(raw string) (Capability, error) {
	for _, c := range AllCapabilities() {
		if string(c) == raw {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCapability, raw)
}

// DeniedError wraps ErrPermissionDenied with the capability that was refused.
type DeniedError struct {
	Capability Capability
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Capability, ErrPermissionDenied)
}

func (e *DeniedError) Unwrap() error {
	return ErrPermissionDenied
}

// Coordinates is a geolocation fix.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Media references a picked or captured file on the handset.
type Media struct {
	URI  string `json:"uri"`
	Kind string `json:"kind"`
}

// Capabilities is the device layer consumed by the domain services.
type Capabilities interface {
	// Request asks for a capability without using it.
	Request(ctx context.Context, c Capability) error
	CapturePhoto(ctx context.Context) (Media, error)
	PickPhoto(ctx context.Context) (Media, error)
	PickDocument(ctx context.Context) (Media, error)
	Locate(ctx context.Context) (Coordinates, error)
	ReverseGeocode(ctx context.Context, at Coordinates) (string, error)
	PlayAudio(ctx context.Context, clip string) error
	Dial(ctx context.Context, number string) (string, error)
	Vibrate(ctx context.Context, pattern []time.Duration) error
}

// Simulated implements Capabilities with canned results and switchable grants.
type Simulated struct {
	mu      sync.RWMutex
	grants  map[Capability]bool
	fix     Coordinates
	address string
	seq     int
}

// NewSimulated grants every capability and resolves location to the given fix.
func NewSimulated(fix Coordinates, address string) *Simulated {
	grants := make(map[Capability]bool)
	for _, c := range AllCapabilities() {
		grants[c] = true
	}
	return &Simulated{grants: grants, fix: fix, address: address}
}

// SetPermission records the user's answer for a capability.
func (s *Simulated) SetPermission(c Capability, granted bool) {
	s.mu.Lock()
	s.grants[c] = granted
	s.mu.Unlock()
}

// Permissions returns a snapshot of current grants.
func (s *Simulated) Permissions() map[Capability]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[Capability]bool, len(s.grants))
	for k, v := range s.grants {
		out[k] = v
	}
	return out
}

func (s *Simulated) require(c Capability) error {
	s.mu.RLock()
	granted := s.grants[c]
	s.mu.RUnlock()
	if !granted {
		metrics.PermissionDeniedTotal.WithLabelValues(string(c)).Inc()
		return &DeniedError{Capability: c}
	}
	return nil
}

func (s *Simulated) Request(_ context.Context, c Capability) error {
	return s.require(c)
}

func (s *Simulated) media(c Capability, kind, ext string) (Media, error) {
	if err := s.require(c); err != nil {
		return Media{}, err
	}
	s.mu.Lock()
	s.seq++
	n := s.seq
	s.mu.Unlock()
	return Media{URI: fmt.Sprintf("file:///simulated/%s-%d.%s", kind, n, ext), Kind: kind}, nil
}

func (s *Simulated) CapturePhoto(_ context.Context) (Media, error) {
	return s.media(Camera, "image", "jpg")
}

func (s *Simulated) PickPhoto(_ context.Context) (Media, error) {
	return s.media(PhotoLibrary, "image", "jpg")
}

func (s *Simulated) PickDocument(_ context.Context) (Media, error) {
	return s.media(Documents, "document", "pdf")
}

func (s *Simulated) Locate(_ context.Context) (Coordinates, error) {
	if err := s.require(Location); err != nil {
		return Coordinates{}, err
	}
	return s.fix, nil
}

func (s *Simulated) ReverseGeocode(_ context.Context, _ Coordinates) (string, error) {
	if err := s.require(Location); err != nil {
		return "", err
	}
	return s.address, nil
}

func (s *Simulated) PlayAudio(_ context.Context, clip string) error {
	if err := s.require(Audio); err != nil {
		return err
	}
	log.Debugw("device audio", "clip", clip)
	return nil
}

// Dial returns the tel: URI the handset would open.
func (s *Simulated) Dial(_ context.Context, number string) (string, error) {
	number = strings.ReplaceAll(strings.TrimSpace(number), " ", "")
	if number == "" {
		return "", ErrInvalidNumber
	}
	if err := s.require(Telephony); err != nil {
		return "", err
	}
	return "tel:" + number, nil
}

func (s *Simulated) Vibrate(_ context.Context, pattern []time.Duration) error {
	if err := s.require(Vibration); err != nil {
		return err
	}
	log.Debugw("device vibrate", "steps", len(pattern))
	return nil
}
