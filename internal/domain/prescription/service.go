package prescription

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/h0pes/docpat-sub000/internal/domain/interaction"
	"github.com/h0pes/docpat-sub000/internal/platform/phi"
)

// Service manages prescriptions. When an encryptor is configured, medication
// and generic names are encrypted before they reach the repository and
// decrypted on the way out; a record that fails to decrypt is reported as an
// error rather than handed to callers as ciphertext.
type Service struct {
	prescriptions Repository
	encryptor     *phi.FieldEncryptor
}

func NewService(prescriptions Repository, encryptor *phi.FieldEncryptor) *Service {
	return &Service{prescriptions: prescriptions, encryptor: encryptor}
}

func (s *Service) CreatePrescription(ctx context.Context, p *Prescription) error {
	if p.MedicationName == "" {
		return fmt.Errorf("medication name is required")
	}
	if p.PatientID == uuid.Nil {
		return fmt.Errorf("patient id is required")
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	if !validStatus(p.Status) {
		return fmt.Errorf("invalid status %q", p.Status)
	}
	if p.StartDate.IsZero() {
		p.StartDate = time.Now().UTC()
	}
	if err := s.seal(p); err != nil {
		return err
	}
	if err := s.prescriptions.Create(ctx, p); err != nil {
		return err
	}
	return s.open(p)
}

func (s *Service) GetPrescription(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	p, err := s.prescriptions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.open(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdatePrescription(ctx context.Context, p *Prescription) error {
	if p.MedicationName == "" {
		return fmt.Errorf("medication name is required")
	}
	if !validStatus(p.Status) {
		return fmt.Errorf("invalid status %q", p.Status)
	}
	if err := s.seal(p); err != nil {
		return err
	}
	if err := s.prescriptions.Update(ctx, p); err != nil {
		return err
	}
	return s.open(p)
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !validStatus(status) {
		return fmt.Errorf("invalid status %q", status)
	}
	return s.prescriptions.UpdateStatus(ctx, id, status)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	items, total, err := s.prescriptions.ListByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for _, p := range items {
		if err := s.open(p); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

// ActiveMedications returns the patient's active prescriptions in the shape
// the interaction checker consumes. A decryption failure aborts the whole
// call: a safety check run against garbled names would silently miss
// interactions.
func (s *Service) ActiveMedications(ctx context.Context, patientID uuid.UUID) ([]interaction.MedicationRecord, error) {
	items, err := s.prescriptions.ListActiveByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	records := make([]interaction.MedicationRecord, 0, len(items))
	for _, p := range items {
		if err := s.open(p); err != nil {
			return nil, err
		}
		records = append(records, interaction.MedicationRecord{
			MedicationName: p.MedicationName,
			GenericName:    p.GenericName,
			ATCCode:        p.ATCCode,
		})
	}
	return records, nil
}

// seal encrypts the name fields in place before persistence.
func (s *Service) seal(p *Prescription) error {
	if s.encryptor == nil {
		return nil
	}
	sealed, err := s.encryptor.Encrypt(p.MedicationName)
	if err != nil {
		return fmt.Errorf("encrypt medication name: %w", err)
	}
	p.MedicationName = sealed
	if p.GenericName != "" {
		sealed, err = s.encryptor.Encrypt(p.GenericName)
		if err != nil {
			return fmt.Errorf("encrypt generic name: %w", err)
		}
		p.GenericName = sealed
	}
	return nil
}

// open decrypts the name fields in place after retrieval.
func (s *Service) open(p *Prescription) error {
	if s.encryptor == nil {
		return nil
	}
	plain, err := s.encryptor.Decrypt(p.MedicationName)
	if err != nil {
		return fmt.Errorf("decrypt prescription %s: %w", p.ID, err)
	}
	p.MedicationName = plain
	if p.GenericName != "" {
		plain, err = s.encryptor.Decrypt(p.GenericName)
		if err != nil {
			return fmt.Errorf("decrypt prescription %s: %w", p.ID, err)
		}
		p.GenericName = plain
	}
	return nil
}
