package interaction

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// FormularyLookup resolves between drug names and ATC codes. Misses are not
// errors: an empty string means the formulary does not know the drug.
type FormularyLookup interface {
	CodeForName(ctx context.Context, name string) (string, error)
	NameForCode(ctx context.Context, code string) (string, error)
}

// MedicationRecord is the slice of a prescription the checker needs.
type MedicationRecord struct {
	MedicationName string
	GenericName    string
	ATCCode        *string
}

// PrescriptionSource supplies a patient's current medications.
type PrescriptionSource interface {
	ActiveMedications(ctx context.Context, patientID uuid.UUID) ([]MedicationRecord, error)
}

// Service runs drug-drug interaction checks against the curated reference
// data, and manages that data.
type Service struct {
	interactions  Repository
	formulary     FormularyLookup
	prescriptions PrescriptionSource
}

func NewService(interactions Repository, formulary FormularyLookup, prescriptions PrescriptionSource) *Service {
	return &Service{interactions: interactions, formulary: formulary, prescriptions: prescriptions}
}

// ResolveIdentity builds the normalized identity for a medication. When the
// record carries no ATC code the formulary is consulted by display name and
// then by generic name; a drug the formulary does not know simply stays
// code-less and participates by name matching only.
func (s *Service) ResolveIdentity(ctx context.Context, displayName, genericName string, atcCode *string) (DrugIdentity, error) {
	id := NewDrugIdentity(displayName, genericName, atcCode)
	if id.ATCCode != nil {
		return id, nil
	}

	code, err := s.formulary.CodeForName(ctx, displayName)
	if err != nil {
		return id, fmt.Errorf("resolve %q: %w", displayName, err)
	}
	if code == "" && genericName != "" && !strings.EqualFold(genericName, displayName) {
		code, err = s.formulary.CodeForName(ctx, genericName)
		if err != nil {
			return id, fmt.Errorf("resolve %q: %w", genericName, err)
		}
	}
	if code != "" {
		id.ATCCode = &code
	}
	return id, nil
}

// identityFromCode builds an identity for a drug given only its ATC code,
// recovering a name from the formulary when one is on file.
func (s *Service) identityFromCode(ctx context.Context, code string) (DrugIdentity, error) {
	name, err := s.formulary.NameForCode(ctx, code)
	if err != nil {
		return DrugIdentity{}, fmt.Errorf("resolve code %q: %w", code, err)
	}
	if name == "" {
		// Unknown code: match by code only, never treat the code as a name.
		c := code
		return DrugIdentity{DisplayName: code, ATCCode: &c}, nil
	}
	return NewDrugIdentity(name, name, &code), nil
}

// CheckInteractions cross-checks every pair among the given ATC codes.
func (s *Service) CheckInteractions(ctx context.Context, codes []string, minSeverity string) (*CheckResult, error) {
	if len(codes) < 2 {
		return emptyResult(), nil
	}
	identities := make([]DrugIdentity, 0, len(codes))
	for _, code := range codes {
		id, err := s.identityFromCode(ctx, code)
		if err != nil {
			return nil, err
		}
		identities = append(identities, id)
	}
	return s.crossCheck(ctx, identities, minSeverity)
}

// CheckNewMedication checks one new drug against a list the patient already
// takes, without pairing the existing drugs among themselves.
func (s *Service) CheckNewMedication(ctx context.Context, newCode string, existingCodes []string, minSeverity string) (*CheckResult, error) {
	if newCode == "" || len(existingCodes) == 0 {
		return emptyResult(), nil
	}
	newID, err := s.identityFromCode(ctx, newCode)
	if err != nil {
		return nil, err
	}
	existing := make([]DrugIdentity, 0, len(existingCodes))
	for _, code := range existingCodes {
		id, err := s.identityFromCode(ctx, code)
		if err != nil {
			return nil, err
		}
		existing = append(existing, id)
	}
	return s.incrementalCheck(ctx, newID, existing, minSeverity)
}

// CheckNewMedicationForPatient checks a proposed medication, given by name,
// against the patient's active prescriptions.
func (s *Service) CheckNewMedicationForPatient(ctx context.Context, patientID uuid.UUID, medicationName, genericName, minSeverity string) (*CheckResult, error) {
	meds, err := s.prescriptions.ActiveMedications(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load active medications: %w", err)
	}
	if len(meds) == 0 {
		return emptyResult(), nil
	}

	newID, err := s.ResolveIdentity(ctx, medicationName, genericName, nil)
	if err != nil {
		return nil, err
	}
	existing := make([]DrugIdentity, 0, len(meds))
	for _, m := range meds {
		id, err := s.ResolveIdentity(ctx, m.MedicationName, m.GenericName, m.ATCCode)
		if err != nil {
			return nil, err
		}
		existing = append(existing, id)
	}
	return s.incrementalCheck(ctx, newID, existing, minSeverity)
}

func (s *Service) crossCheck(ctx context.Context, identities []DrugIdentity, minSeverity string) (*CheckResult, error) {
	candidates, err := s.findCandidates(ctx, identities)
	if err != nil {
		return nil, err
	}

	var confirmed []*DrugInteraction
	seen := make(map[uuid.UUID]bool)
	for _, rec := range candidates {
		if seen[rec.ID] {
			continue
		}
		if matchesDistinctPair(rec, identities) {
			seen[rec.ID] = true
			confirmed = append(confirmed, rec)
		}
	}
	return buildResult(confirmed, minSeverity), nil
}

func (s *Service) incrementalCheck(ctx context.Context, newID DrugIdentity, existing []DrugIdentity, minSeverity string) (*CheckResult, error) {
	candidates, err := s.findCandidates(ctx, append([]DrugIdentity{newID}, existing...))
	if err != nil {
		return nil, err
	}

	var confirmed []*DrugInteraction
	seen := make(map[uuid.UUID]bool)
	for _, rec := range candidates {
		if seen[rec.ID] {
			continue
		}
		sides := rec.Sides()
		// The new drug and the existing list come from disjoint inputs,
		// so no same-drug guard is applied here: re-prescribing a drug
		// the patient already takes surfaces any record both of whose
		// sides match it.
		hit := (Matches(newID, sides[0]) && anyMatches(existing, sides[1])) ||
			(Matches(newID, sides[1]) && anyMatches(existing, sides[0]))
		if hit {
			seen[rec.ID] = true
			confirmed = append(confirmed, rec)
		}
	}
	return buildResult(confirmed, minSeverity), nil
}

func (s *Service) findCandidates(ctx context.Context, identities []DrugIdentity) ([]*DrugInteraction, error) {
	codes, prefixes := retrievalFilters(identities)
	if len(codes) == 0 && len(prefixes) == 0 {
		return nil, nil
	}
	return s.interactions.FindCandidates(ctx, codes, prefixes)
}

// retrievalFilters derives the deduplicated ATC codes and name prefixes used
// to narrow candidate retrieval before exact matching.
func retrievalFilters(identities []DrugIdentity) (codes, prefixes []string) {
	seenCode := make(map[string]bool)
	seenPrefix := make(map[string]bool)
	for _, id := range identities {
		if id.ATCCode != nil && *id.ATCCode != "" {
			c := strings.ToLower(*id.ATCCode)
			if !seenCode[c] {
				seenCode[c] = true
				codes = append(codes, c)
			}
		}
		if p, ok := namePrefix(id.GenericName); ok && !seenPrefix[p] {
			seenPrefix[p] = true
			prefixes = append(prefixes, p)
		}
	}
	return codes, prefixes
}

// matchesDistinctPair reports whether two distinct drugs from the list match
// the record's two sides, one each. A record must never be confirmed by
// pairing a drug with itself.
func matchesDistinctPair(rec *DrugInteraction, identities []DrugIdentity) bool {
	sides := rec.Sides()
	for _, a := range identities {
		if !Matches(a, sides[0]) {
			continue
		}
		for _, b := range identities {
			if sameDrug(a, b) {
				continue
			}
			if Matches(b, sides[1]) {
				return true
			}
		}
	}
	return false
}

// sameDrug reports whether two identities denote the same drug. When both
// carry an ATC code the codes decide outright, so drugs the formulary does
// not know (empty generic name) still compare by code. Otherwise the
// lowercased generic names are compared; two identities with neither codes
// nor names are never claimed to be the same drug, and cannot match any
// record side anyway.
func sameDrug(a, b DrugIdentity) bool {
	if a.ATCCode != nil && b.ATCCode != nil && *a.ATCCode != "" && *b.ATCCode != "" {
		return strings.EqualFold(*a.ATCCode, *b.ATCCode)
	}
	return a.GenericName != "" && a.GenericName == b.GenericName
}

func anyMatches(identities []DrugIdentity, side InteractionSide) bool {
	for _, id := range identities {
		if Matches(id, side) {
			return true
		}
	}
	return false
}

func emptyResult() *CheckResult {
	return &CheckResult{Interactions: []*DrugInteraction{}}
}

// buildResult filters by the optional minimum severity, sorts highest risk
// first, and tallies the severity buckets. Contraindicated records count as
// major in the tallies.
func buildResult(records []*DrugInteraction, minSeverity string) *CheckResult {
	minPriority := 0
	if minSeverity != "" {
		minPriority = ParseSeverity(minSeverity).Priority()
	}

	kept := make([]*DrugInteraction, 0, len(records))
	for _, rec := range records {
		if rec.Severity.Priority() >= minPriority {
			kept = append(kept, rec)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		pi, pj := kept[i].Severity.Priority(), kept[j].Severity.Priority()
		if pi != pj {
			return pi > pj
		}
		ni, nj := strVal(kept[i].DrugAName), strVal(kept[j].DrugAName)
		if ni != nj {
			return ni < nj
		}
		return strVal(kept[i].DrugBName) < strVal(kept[j].DrugBName)
	})

	result := &CheckResult{Interactions: kept, TotalCount: len(kept)}
	for _, rec := range kept {
		switch rec.Severity {
		case SeverityContraindicated, SeverityMajor:
			result.MajorCount++
		case SeverityModerate:
			result.ModerateCount++
		case SeverityMinor:
			result.MinorCount++
		}
	}
	if len(kept) > 0 {
		highest := kept[0].Severity
		result.HighestSeverity = &highest
	}
	return result
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// CreateInteraction validates and stores a new reference record.
func (s *Service) CreateInteraction(ctx context.Context, d *DrugInteraction) error {
	if d.DrugAATC == "" || d.DrugBATC == "" {
		return fmt.Errorf("both ATC codes are required")
	}
	if d.Severity == "" {
		d.Severity = SeverityUnknown
	}
	return s.interactions.Create(ctx, d)
}

// ImportInteractions upserts a batch of records from an external source,
// merging into existing rows that share the same drug pair and source.
// It returns the number of records applied.
func (s *Service) ImportInteractions(ctx context.Context, records []*DrugInteraction) (int, error) {
	applied := 0
	for _, rec := range records {
		if rec.DrugAATC == "" || rec.DrugBATC == "" {
			continue
		}
		if rec.Severity == "" {
			rec.Severity = SeverityUnknown
		}
		if err := s.interactions.Upsert(ctx, rec); err != nil {
			return applied, fmt.Errorf("upsert %s/%s: %w", rec.DrugAATC, rec.DrugBATC, err)
		}
		applied++
	}
	return applied, nil
}

func (s *Service) GetInteraction(ctx context.Context, id uuid.UUID) (*DrugInteraction, error) {
	return s.interactions.GetByID(ctx, id)
}

func (s *Service) UpdateInteraction(ctx context.Context, d *DrugInteraction) error {
	if d.DrugAATC == "" || d.DrugBATC == "" {
		return fmt.Errorf("both ATC codes are required")
	}
	return s.interactions.Update(ctx, d)
}

func (s *Service) DeleteInteraction(ctx context.Context, id uuid.UUID) error {
	return s.interactions.Delete(ctx, id)
}

func (s *Service) ListInteractions(ctx context.Context, limit, offset int) ([]*DrugInteraction, int, error) {
	return s.interactions.List(ctx, limit, offset)
}
