package formulary

import (
	"time"

	"github.com/google/uuid"
)

// FormularyDrug maps to the formulary_drug table. It is the local drug
// catalogue: commercial display name, generic (INN) name, and the ATC
// classification code when one is known. Names are in the practice's local
// language; the interaction reference data is not, which is why the
// interaction engine falls back to fuzzy name matching.
type FormularyDrug struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	GenericName string    `db:"generic_name" json:"generic_name"`
	ATCCode     *string   `db:"atc_code" json:"atc_code,omitempty"`
	Form        *string   `db:"form" json:"form,omitempty"`
	Strength    *string   `db:"strength" json:"strength,omitempty"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
