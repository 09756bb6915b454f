package formulary

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	drugs Repository
}

func NewService(drugs Repository) *Service {
	return &Service{drugs: drugs}
}

func (s *Service) CreateDrug(ctx context.Context, d *FormularyDrug) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.GenericName == "" {
		// Matching always needs a generic name to compare against.
		d.GenericName = d.Name
	}
	return s.drugs.Create(ctx, d)
}

func (s *Service) GetDrug(ctx context.Context, id uuid.UUID) (*FormularyDrug, error) {
	return s.drugs.GetByID(ctx, id)
}

func (s *Service) UpdateDrug(ctx context.Context, d *FormularyDrug) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.drugs.Update(ctx, d)
}

func (s *Service) DeleteDrug(ctx context.Context, id uuid.UUID) error {
	return s.drugs.Delete(ctx, id)
}

func (s *Service) ListDrugs(ctx context.Context, limit, offset int) ([]*FormularyDrug, int, error) {
	return s.drugs.List(ctx, limit, offset)
}

// CodeForName resolves a display or generic name to an ATC code. An unknown
// name or a catalogue entry without a code both return "", not an error.
func (s *Service) CodeForName(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	d, err := s.drugs.FindByName(ctx, name)
	if err != nil {
		return "", err
	}
	if d == nil || d.ATCCode == nil {
		return "", nil
	}
	return *d.ATCCode, nil
}

// NameForCode resolves an ATC code to the catalogue's generic name.
// An unknown code returns "", not an error.
func (s *Service) NameForCode(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", nil
	}
	d, err := s.drugs.FindByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if d == nil {
		return "", nil
	}
	return d.GenericName, nil
}
