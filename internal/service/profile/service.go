// Package profile manages the patient's personal and medical data.
package profile

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/telemedpro/telemed/backend/internal/device"
	"github.com/telemedpro/telemed/backend/internal/model/record"
	"github.com/telemedpro/telemed/backend/pkg/log"
)

var ErrIndexOutOfRange = errors.New("list index out of range")

// MedicalList names one of the editable medical lists.
type MedicalList string

const (
	Allergies  MedicalList = "allergies"
	Conditions MedicalList = "conditions"
)

// ContactInput carries the editable contact fields.
type ContactInput struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

// Service owns the single in-memory patient profile.
type Service struct {
	mu      sync.RWMutex
	profile record.Profile
	nextID  int64
	device  device.Capabilities
}

func NewService(seed record.Profile, caps device.Capabilities) *Service {
	s := &Service{profile: clone(seed), device: caps}
	for _, c := range seed.Contacts {
		s.nextID = max(s.nextID, c.ID)
	}
	return s
}

// Get returns a copy of the full profile.
func (s *Service) Get(_ context.Context) record.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.profile)
}

// UpdatePersonal replaces the personal data; full name, email and phone are required.
// The photo is only changed through ChangePhoto.
func (s *Service) UpdatePersonal(_ context.Context, in record.UserProfile) (record.UserProfile, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.BirthDate = strings.TrimSpace(in.BirthDate)
	in.BloodType = strings.TrimSpace(in.BloodType)
	in.Address = strings.TrimSpace(in.Address)
	if in.FullName == "" || in.Email == "" || in.Phone == "" {
		return record.UserProfile{}, record.ErrIncompleteForm
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	in.PhotoURI = s.profile.User.PhotoURI
	s.profile.User = in
	return in, nil
}

// AddItem appends value to an allergy or condition list.
func (s *Service) AddItem(_ context.Context, list MedicalList, value string) (record.MedicalInfo, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return record.MedicalInfo{}, record.ErrIncompleteForm
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	target, err := s.listLocked(list)
	if err != nil {
		return record.MedicalInfo{}, err
	}
	*target = append(*target, value)
	return cloneMedical(s.profile.Medical), nil
}

// RemoveItem drops the entry at index from an allergy or condition list.
func (s *Service) RemoveItem(_ context.Context, list MedicalList, index int) (record.MedicalInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, err := s.listLocked(list)
	if err != nil {
		return record.MedicalInfo{}, err
	}
	if index < 0 || index >= len(*target) {
		return record.MedicalInfo{}, ErrIndexOutOfRange
	}
	*target = slices.Delete(*target, index, index+1)
	return cloneMedical(s.profile.Medical), nil
}

// ChangePhoto picks a photo from the library and stores its URI.
func (s *Service) ChangePhoto(ctx context.Context) (string, error) {
	media, err := s.device.PickPhoto(ctx)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.profile.User.PhotoURI = media.URI
	s.mu.Unlock()
	return media.URI, nil
}

func (s *Service) Contacts(_ context.Context) []record.EmergencyContact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.profile.Contacts)
}

// PrimaryContact returns the first emergency contact.
func (s *Service) PrimaryContact(_ context.Context) (record.EmergencyContact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.profile.Contacts) == 0 {
		return record.EmergencyContact{}, false
	}
	return s.profile.Contacts[0], true
}

func (s *Service) AddContact(_ context.Context, in ContactInput) (record.EmergencyContact, error) {
	in, err := validContact(in)
	if err != nil {
		return record.EmergencyContact{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c := record.EmergencyContact{ID: s.nextID, Name: in.Name, Relationship: in.Relationship, Phone: in.Phone}
	s.profile.Contacts = append(s.profile.Contacts, c)
	log.Infow("emergency contact added", "id", c.ID)
	return c, nil
}

func (s *Service) UpdateContact(_ context.Context, id int64, in ContactInput) (record.EmergencyContact, error) {
	in, err := validContact(in)
	if err != nil {
		return record.EmergencyContact{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.contactIndexLocked(id)
	if idx < 0 {
		return record.EmergencyContact{}, record.ErrNotFound
	}
	c := record.EmergencyContact{ID: id, Name: in.Name, Relationship: in.Relationship, Phone: in.Phone}
	s.profile.Contacts[idx] = c
	return c, nil
}

func (s *Service) DeleteContact(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.contactIndexLocked(id)
	if idx < 0 {
		return record.ErrNotFound
	}
	s.profile.Contacts = slices.Delete(s.profile.Contacts, idx, idx+1)
	log.Infow("emergency contact deleted", "id", id)
	return nil
}

// CallContact dials the contact and returns the tel: URI.
func (s *Service) CallContact(ctx context.Context, id int64) (string, error) {
	s.mu.RLock()
	idx := s.contactIndexLocked(id)
	var phone string
	if idx >= 0 {
		phone = s.profile.Contacts[idx].Phone
	}
	s.mu.RUnlock()

	if idx < 0 {
		return "", record.ErrNotFound
	}
	return s.device.Dial(ctx, phone)
}

func (s *Service) listLocked(list MedicalList) (*[]string, error) {
	switch list {
	case Allergies:
		return &s.profile.Medical.Allergies, nil
	case Conditions:
		return &s.profile.Medical.Conditions, nil
	default:
		return nil, record.ErrNotFound
	}
}

func (s *Service) contactIndexLocked(id int64) int {
	return slices.IndexFunc(s.profile.Contacts, func(c record.EmergencyContact) bool { return c.ID == id })
}

func validContact(in ContactInput) (ContactInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Relationship = strings.TrimSpace(in.Relationship)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" || in.Phone == "" {
		return in, record.ErrIncompleteForm
	}
	return in, nil
}

func clone(p record.Profile) record.Profile {
	p.Medical = cloneMedical(p.Medical)
	p.Contacts = slices.Clone(p.Contacts)
	return p
}

func cloneMedical(m record.MedicalInfo) record.MedicalInfo {
	return record.MedicalInfo{
		Allergies:   slices.Clone(m.Allergies),
		Conditions:  slices.Clone(m.Conditions),
		Medications: slices.Clone(m.Medications),
	}
}
