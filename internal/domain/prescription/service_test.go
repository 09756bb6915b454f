package prescription

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/h0pes/docpat-sub000/internal/platform/phi"
)

type mockRepo struct {
	byID map[uuid.UUID]*Prescription
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: make(map[uuid.UUID]*Prescription)}
}

func (m *mockRepo) Create(_ context.Context, p *Prescription) error {
	p.ID = uuid.New()
	stored := *p
	m.byID[p.ID] = &stored
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Prescription, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, p *Prescription) error {
	if _, ok := m.byID[p.ID]; !ok {
		return fmt.Errorf("not found")
	}
	stored := *p
	m.byID[p.ID] = &stored
	return nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	p, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	p.Status = status
	return nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	var out []*Prescription
	for _, p := range m.byID {
		if p.PatientID == patientID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) ListActiveByPatient(_ context.Context, patientID uuid.UUID) ([]*Prescription, error) {
	var out []*Prescription
	for _, p := range m.byID {
		if p.PatientID == patientID && p.Status == StatusActive {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func testEncryptor(t *testing.T) *phi.FieldEncryptor {
	t.Helper()
	enc, err := phi.NewFieldEncryptor(bytes.Repeat([]byte{0x42}, 32))
	if err != nil {
		t.Fatalf("encryptor: %v", err)
	}
	return enc
}

func TestCreatePrescriptionEncryptsAtRest(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, testEncryptor(t))

	p := &Prescription{
		PatientID:      uuid.New(),
		PrescriberID:   uuid.New(),
		MedicationName: "Coumadin",
		GenericName:    "warfarin",
	}
	if err := svc.CreatePrescription(nil, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.MedicationName != "Coumadin" || p.GenericName != "warfarin" {
		t.Errorf("caller must see plaintext, got %q/%q", p.MedicationName, p.GenericName)
	}
	stored := repo.byID[p.ID]
	if stored.MedicationName == "Coumadin" || stored.GenericName == "warfarin" {
		t.Errorf("names must not be stored in the clear")
	}
	if p.Status != StatusActive {
		t.Errorf("status should default to active, got %q", p.Status)
	}
	if p.StartDate.IsZero() {
		t.Errorf("start date should default to now")
	}
}

func TestCreatePrescriptionValidation(t *testing.T) {
	svc := NewService(newMockRepo(), nil)
	if err := svc.CreatePrescription(nil, &Prescription{PatientID: uuid.New()}); err == nil {
		t.Errorf("missing medication name must be rejected")
	}
	if err := svc.CreatePrescription(nil, &Prescription{MedicationName: "Coumadin"}); err == nil {
		t.Errorf("missing patient id must be rejected")
	}
	if err := svc.CreatePrescription(nil, &Prescription{
		PatientID: uuid.New(), MedicationName: "Coumadin", Status: "paused",
	}); err == nil {
		t.Errorf("unknown status must be rejected")
	}
}

func TestGetPrescriptionRoundTrip(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, testEncryptor(t))

	p := &Prescription{PatientID: uuid.New(), MedicationName: "Glucophage", GenericName: "metformina"}
	if err := svc.CreatePrescription(nil, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.GetPrescription(nil, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MedicationName != "Glucophage" || got.GenericName != "metformina" {
		t.Errorf("expected decrypted names, got %q/%q", got.MedicationName, got.GenericName)
	}
}

func TestActiveMedications(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, testEncryptor(t))
	patientID := uuid.New()
	code := "B01AA03"

	active := &Prescription{
		PatientID: patientID, MedicationName: "Coumadin", GenericName: "warfarin", ATCCode: &code,
	}
	if err := svc.CreatePrescription(nil, active); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	done := &Prescription{
		PatientID: patientID, MedicationName: "Augmentin", Status: StatusCompleted,
	}
	if err := svc.CreatePrescription(nil, done); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	meds, err := svc.ActiveMedications(nil, patientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meds) != 1 {
		t.Fatalf("expected only active prescriptions, got %d", len(meds))
	}
	if meds[0].MedicationName != "Coumadin" || meds[0].GenericName != "warfarin" {
		t.Errorf("expected decrypted record, got %+v", meds[0])
	}
	if meds[0].ATCCode == nil || *meds[0].ATCCode != "B01AA03" {
		t.Errorf("ATC code should pass through")
	}
}

func TestActiveMedicationsDecryptFailure(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, testEncryptor(t))
	patientID := uuid.New()

	p := &Prescription{PatientID: patientID, MedicationName: "Coumadin"}
	if err := svc.CreatePrescription(nil, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Corrupt the stored ciphertext.
	repo.byID[p.ID].MedicationName = "bm90LWEtdmFsaWQtY2lwaGVydGV4dA=="

	if _, err := svc.ActiveMedications(nil, patientID); err == nil {
		t.Errorf("an undecryptable record must fail the call, not degrade to ciphertext")
	}
}

func TestServiceWithoutEncryptor(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)
	p := &Prescription{PatientID: uuid.New(), MedicationName: "Coumadin"}
	if err := svc.CreatePrescription(nil, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.byID[p.ID].MedicationName != "Coumadin" {
		t.Errorf("without an encryptor names pass through unchanged")
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)
	p := &Prescription{PatientID: uuid.New(), MedicationName: "Coumadin"}
	if err := svc.CreatePrescription(nil, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.UpdateStatus(nil, p.ID, StatusSuspended); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.byID[p.ID].Status != StatusSuspended {
		t.Errorf("status not updated")
	}
	if err := svc.UpdateStatus(nil, p.ID, "bogus"); err == nil {
		t.Errorf("unknown status must be rejected")
	}
}
