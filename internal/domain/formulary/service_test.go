package formulary

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	data map[uuid.UUID]*FormularyDrug
}

func (m *mockRepo) Create(_ context.Context, d *FormularyDrug) error {
	d.ID = uuid.New()
	m.data[d.ID] = d
	return nil
}
func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*FormularyDrug, error) {
	if d, ok := m.data[id]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("not found")
}
func (m *mockRepo) Update(_ context.Context, d *FormularyDrug) error {
	if _, ok := m.data[d.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.data[d.ID] = d
	return nil
}
func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.data, id)
	return nil
}
func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*FormularyDrug, int, error) {
	var out []*FormularyDrug
	for _, d := range m.data {
		out = append(out, d)
	}
	return out, len(out), nil
}
func (m *mockRepo) FindByName(_ context.Context, name string) (*FormularyDrug, error) {
	for _, d := range m.data {
		if !d.Active {
			continue
		}
		if strings.EqualFold(d.Name, name) || strings.EqualFold(d.GenericName, name) {
			return d, nil
		}
	}
	return nil, nil
}
func (m *mockRepo) FindByCode(_ context.Context, code string) (*FormularyDrug, error) {
	for _, d := range m.data {
		if d.Active && d.ATCCode != nil && strings.EqualFold(*d.ATCCode, code) {
			return d, nil
		}
	}
	return nil, nil
}

func newTestService() *Service {
	return NewService(&mockRepo{data: make(map[uuid.UUID]*FormularyDrug)})
}

func strPtr(s string) *string { return &s }

func TestService_CreateDrug(t *testing.T) {
	svc := newTestService()
	d := &FormularyDrug{Name: "Eutirox", GenericName: "levotiroxina", Active: true}
	if err := svc.CreateDrug(nil, d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
}

func TestService_CreateDrug_MissingName(t *testing.T) {
	svc := newTestService()
	if err := svc.CreateDrug(nil, &FormularyDrug{}); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestService_CreateDrug_GenericDefaultsToName(t *testing.T) {
	svc := newTestService()
	d := &FormularyDrug{Name: "Aspirina", Active: true}
	if err := svc.CreateDrug(nil, d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.GenericName != "Aspirina" {
		t.Errorf("expected generic name to default to display name, got %s", d.GenericName)
	}
}

func TestService_CodeForName_CaseInsensitive(t *testing.T) {
	svc := newTestService()
	svc.CreateDrug(nil, &FormularyDrug{
		Name: "Coumadin", GenericName: "warfarin", ATCCode: strPtr("B01AA03"), Active: true,
	})

	code, err := svc.CodeForName(nil, "WARFARIN")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "B01AA03" {
		t.Errorf("expected B01AA03, got %s", code)
	}
}

func TestService_CodeForName_DisplayName(t *testing.T) {
	svc := newTestService()
	svc.CreateDrug(nil, &FormularyDrug{
		Name: "Coumadin", GenericName: "warfarin", ATCCode: strPtr("B01AA03"), Active: true,
	})

	code, err := svc.CodeForName(nil, "coumadin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "B01AA03" {
		t.Errorf("expected B01AA03, got %s", code)
	}
}

func TestService_CodeForName_UnknownIsNotError(t *testing.T) {
	svc := newTestService()
	code, err := svc.CodeForName(nil, "unknowndrug")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "" {
		t.Errorf("expected empty code, got %s", code)
	}
}

func TestService_CodeForName_EntryWithoutCode(t *testing.T) {
	svc := newTestService()
	svc.CreateDrug(nil, &FormularyDrug{Name: "Tachipirina", GenericName: "paracetamolo", Active: true})

	code, err := svc.CodeForName(nil, "paracetamolo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "" {
		t.Errorf("expected empty code, got %s", code)
	}
}

func TestService_NameForCode(t *testing.T) {
	svc := newTestService()
	svc.CreateDrug(nil, &FormularyDrug{
		Name: "Glucophage", GenericName: "metformina", ATCCode: strPtr("A10BA02"), Active: true,
	})

	name, err := svc.NameForCode(nil, "a10ba02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "metformina" {
		t.Errorf("expected metformina, got %s", name)
	}
}

func TestService_NameForCode_Unknown(t *testing.T) {
	svc := newTestService()
	name, err := svc.NameForCode(nil, "Z99ZZ99")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "" {
		t.Errorf("expected empty name, got %s", name)
	}
}

func TestService_ListDrugs(t *testing.T) {
	svc := newTestService()
	svc.CreateDrug(nil, &FormularyDrug{Name: "D1", Active: true})
	svc.CreateDrug(nil, &FormularyDrug{Name: "D2", Active: true})
	items, total, err := svc.ListDrugs(nil, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2 drugs, got total=%d len=%d", total, len(items))
	}
}
