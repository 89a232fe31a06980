// Package videocall simulates a video consultation with a doctor.
package videocall

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/telemedpro/telemed/backend/internal/device"
	"github.com/telemedpro/telemed/backend/pkg/log"
)

var (
	ErrCallNotFound   = errors.New("call not found")
	ErrDoctorRequired = errors.New("doctor is required")
	ErrUnknownControl = errors.New("control must be camera or mic")
)

// State is the lifecycle of a call.
type State string

const (
	StateConnecting State = "connecting"
	StateConnected  State = "connected"
)

// Control is a toggleable media track.
type Control string

const (
	ControlCamera Control = "camera"
	ControlMic    Control = "mic"
)

const (
	FacingFront = "front"
	FacingBack  = "back"
)

// Call is a snapshot of an ongoing call.
type Call struct {
	ID          string     `json:"id"`
	Doctor      string     `json:"doctor"`
	Specialty   string     `json:"specialty,omitempty"`
	State       State      `json:"state"`
	CameraOn    bool       `json:"cameraOn"`
	MicOn       bool       `json:"micOn"`
	Facing      string     `json:"facing"`
	StartedAt   time.Time  `json:"startedAt"`
	ConnectedAt *time.Time `json:"connectedAt,omitempty"`
	Duration    string     `json:"duration"`
}

// Summary is returned when a call ends.
type Summary struct {
	Call     Call   `json:"call"`
	Seconds  int    `json:"seconds"`
	Duration string `json:"duration"`
}

type call struct {
	info   Call
	cancel context.CancelFunc
}

// Service tracks active calls. Each call connects after a fixed delay
// unless it is ended first.
type Service struct {
	mu    sync.Mutex
	calls map[string]*call

	device device.Capabilities
	delay  time.Duration
	now    func() time.Time

	wg sync.WaitGroup
}

func NewService(caps device.Capabilities, connectDelay time.Duration) *Service {
	return &Service{
		calls:  make(map[string]*call),
		device: caps,
		delay:  max(connectDelay, 0),
		now:    time.Now,
	}
}

// Start requests the camera and begins connecting to the doctor.
func (s *Service) Start(ctx context.Context, doctor, specialty string) (Call, error) {
	doctor = strings.TrimSpace(doctor)
	if doctor == "" {
		return Call{}, ErrDoctorRequired
	}
	if err := s.device.Request(ctx, device.Camera); err != nil {
		return Call{}, err
	}

	callCtx, cancel := context.WithCancel(context.Background())
	c := &call{
		info: Call{
			ID:        uuid.NewString(),
			Doctor:    doctor,
			Specialty: strings.TrimSpace(specialty),
			State:     StateConnecting,
			CameraOn:  true,
			MicOn:     true,
			Facing:    FacingFront,
			StartedAt: s.now(),
		},
		cancel: cancel,
	}

	s.mu.Lock()
	s.calls[c.info.ID] = c
	s.mu.Unlock()

	s.wg.Add(1)
	go s.connect(callCtx, c)

	log.Infow("video call started", "call_id", c.info.ID, "doctor", doctor)
	return s.snapshot(c), nil
}

func (s *Service) connect(ctx context.Context, c *call) {
	defer s.wg.Done()

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() != nil {
		return
	}
	at := s.now()
	c.info.State = StateConnected
	c.info.ConnectedAt = &at
	log.Infow("video call connected", "call_id", c.info.ID, "doctor", c.info.Doctor)
}

func (s *Service) Get(id string) (Call, error) {
	s.mu.Lock()
	c, ok := s.calls[id]
	s.mu.Unlock()
	if !ok {
		return Call{}, ErrCallNotFound
	}
	return s.snapshot(c), nil
}

// Toggle flips the camera or microphone on or off.
func (s *Service) Toggle(id string, control Control) (Call, error) {
	return s.update(id, func(info *Call) error {
		switch control {
		case ControlCamera:
			info.CameraOn = !info.CameraOn
		case ControlMic:
			info.MicOn = !info.MicOn
		default:
			return ErrUnknownControl
		}
		return nil
	})
}

// SwitchCamera alternates between the front and back cameras.
func (s *Service) SwitchCamera(id string) (Call, error) {
	return s.update(id, func(info *Call) error {
		if info.Facing == FacingFront {
			info.Facing = FacingBack
		} else {
			info.Facing = FacingFront
		}
		return nil
	})
}

// End hangs up and reports how long the call was connected.
func (s *Service) End(id string) (Summary, error) {
	s.mu.Lock()
	c, ok := s.calls[id]
	if ok {
		delete(s.calls, id)
	}
	s.mu.Unlock()
	if !ok {
		return Summary{}, ErrCallNotFound
	}
	c.cancel()

	info := s.snapshot(c)
	secs := s.seconds(info)
	log.Infow("video call ended", "call_id", id, "seconds", secs)
	return Summary{Call: info, Seconds: secs, Duration: FormatDuration(secs)}, nil
}

// Shutdown ends every call and waits for pending connections to stop.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for id, c := range s.calls {
		c.cancel()
		delete(s.calls, id)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) update(id string, fn func(*Call) error) (Call, error) {
	s.mu.Lock()
	c, ok := s.calls[id]
	if !ok {
		s.mu.Unlock()
		return Call{}, ErrCallNotFound
	}
	err := fn(&c.info)
	s.mu.Unlock()
	if err != nil {
		return Call{}, err
	}
	return s.snapshot(c), nil
}

func (s *Service) snapshot(c *call) Call {
	s.mu.Lock()
	info := c.info
	s.mu.Unlock()
	info.Duration = FormatDuration(s.seconds(info))
	return info
}

func (s *Service) seconds(info Call) int {
	if info.ConnectedAt == nil {
		return 0
	}
	return int(s.now().Sub(*info.ConnectedAt) / time.Second)
}

// FormatDuration renders seconds as m:ss.
func FormatDuration(seconds int) string {
	seconds = max(seconds, 0)
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
