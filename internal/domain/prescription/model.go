package prescription

import (
	"time"

	"github.com/google/uuid"
)

// Prescription statuses.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Prescription is one prescribed medication for a patient. Medication names
// are encrypted at rest; the repository stores and returns ciphertext and the
// service is the only layer that sees plaintext.
type Prescription struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	PrescriberID   uuid.UUID  `db:"prescriber_id" json:"prescriber_id"`
	MedicationName string     `db:"medication_name" json:"medication_name"`
	GenericName    string     `db:"generic_name" json:"generic_name,omitempty"`
	ATCCode        *string    `db:"atc_code" json:"atc_code,omitempty"`
	Dosage         string     `db:"dosage" json:"dosage,omitempty"`
	Status         string     `db:"status" json:"status"`
	StartDate      time.Time  `db:"start_date" json:"start_date"`
	EndDate        *time.Time `db:"end_date" json:"end_date,omitempty"`
	Note           *string    `db:"note" json:"note,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

func validStatus(s string) bool {
	switch s {
	case StatusActive, StatusSuspended, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
