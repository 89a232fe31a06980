// Package record holds the patient-facing records kept in memory for the
// lifetime of the process: appointments, prescriptions and the profile.
package record

import "errors"

var (
	// ErrIncompleteForm is returned when required form fields are empty.
	ErrIncompleteForm = errors.New("required fields are missing")
	// ErrNotFound is returned for unknown record ids.
	ErrNotFound = errors.New("record not found")
)
