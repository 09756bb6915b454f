package interaction

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines drug interaction reference-data access.
type Repository interface {
	Create(ctx context.Context, d *DrugInteraction) error
	GetByID(ctx context.Context, id uuid.UUID) (*DrugInteraction, error)
	Update(ctx context.Context, d *DrugInteraction) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*DrugInteraction, int, error)

	// FindCandidates retrieves active records where either side carries one
	// of the given ATC codes or a name starting with one of the given
	// prefixes. Codes and prefixes are matched case-insensitively.
	FindCandidates(ctx context.Context, codes, namePrefixes []string) ([]*DrugInteraction, error)

	// Upsert inserts the record or, when a record with the same normalized
	// (drug_a_atc, drug_b_atc, source) key exists, merges into it: incoming
	// non-null descriptive fields win, nulls leave the stored value alone.
	Upsert(ctx context.Context, d *DrugInteraction) error
}
