package prescription

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines prescription persistence. Name fields pass through
// unmodified; encryption happens above this layer.
type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	Update(ctx context.Context, p *Prescription) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error)
	ListActiveByPatient(ctx context.Context, patientID uuid.UUID) ([]*Prescription, error)
}
