package interaction

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DrugIdentity is the normalized view of one medication being checked:
// the name the clinician typed, the lowercased generic name used for fuzzy
// matching, and the ATC classification code when one is known.
type DrugIdentity struct {
	DisplayName string  `json:"display_name"`
	GenericName string  `json:"generic_name"`
	ATCCode     *string `json:"atc_code,omitempty"`
}

// NewDrugIdentity builds an identity from raw medication fields. The generic
// name falls back to the display name when absent and is normalized for
// matching; the display name is kept verbatim for rendering.
func NewDrugIdentity(displayName, genericName string, atcCode *string) DrugIdentity {
	generic := genericName
	if generic == "" {
		generic = displayName
	}
	id := DrugIdentity{
		DisplayName: displayName,
		GenericName: strings.ToLower(strings.TrimSpace(generic)),
	}
	if atcCode != nil && *atcCode != "" {
		code := *atcCode
		id.ATCCode = &code
	}
	return id
}

// InteractionSide is one of the two drugs named by a reference record.
type InteractionSide struct {
	Name    *string
	ATCCode string
}

// DrugInteraction is a curated reference record stating that two drugs,
// identified by ATC code and optionally by name, interact.
type DrugInteraction struct {
	ID         uuid.UUID `db:"id" json:"id"`
	DrugAName  *string   `db:"drug_a_name" json:"drug_a_name,omitempty"`
	DrugAATC   string    `db:"drug_a_atc" json:"drug_a_atc"`
	DrugBName  *string   `db:"drug_b_name" json:"drug_b_name,omitempty"`
	DrugBATC   string    `db:"drug_b_atc" json:"drug_b_atc"`
	Severity   Severity  `db:"severity" json:"severity"`
	Effect     *string   `db:"effect" json:"effect,omitempty"`
	Mechanism  *string   `db:"mechanism" json:"mechanism,omitempty"`
	Management *string   `db:"management" json:"management,omitempty"`
	Source     *string   `db:"source" json:"source,omitempty"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Sides returns the two sides of the record in stored order.
func (d *DrugInteraction) Sides() [2]InteractionSide {
	return [2]InteractionSide{
		{Name: d.DrugAName, ATCCode: d.DrugAATC},
		{Name: d.DrugBName, ATCCode: d.DrugBATC},
	}
}

// Normalize puts the two sides in alphabetical ATC order so that equivalent
// records from different sources collapse onto the same natural key.
func (d *DrugInteraction) Normalize() {
	if strings.ToUpper(d.DrugBATC) < strings.ToUpper(d.DrugAATC) {
		d.DrugAName, d.DrugBName = d.DrugBName, d.DrugAName
		d.DrugAATC, d.DrugBATC = d.DrugBATC, d.DrugAATC
	}
}

// CheckResult is the aggregated outcome of an interaction check.
type CheckResult struct {
	Interactions    []*DrugInteraction `json:"interactions"`
	TotalCount      int                `json:"total_count"`
	MajorCount      int                `json:"major_count"`
	ModerateCount   int                `json:"moderate_count"`
	MinorCount      int                `json:"minor_count"`
	HighestSeverity *Severity          `json:"highest_severity,omitempty"`
}
