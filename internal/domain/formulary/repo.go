package formulary

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *FormularyDrug) error
	GetByID(ctx context.Context, id uuid.UUID) (*FormularyDrug, error)
	Update(ctx context.Context, d *FormularyDrug) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*FormularyDrug, int, error)
	// FindByName matches the display or generic name, case-insensitively.
	// A miss returns (nil, nil); only infrastructure failures are errors.
	FindByName(ctx context.Context, name string) (*FormularyDrug, error)
	// FindByCode matches the ATC code, case-insensitively. Miss is (nil, nil).
	FindByCode(ctx context.Context, code string) (*FormularyDrug, error)
}
