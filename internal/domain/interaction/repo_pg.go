package interaction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/h0pes/docpat-sub000/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const interactionCols = `id, drug_a_name, drug_a_atc, drug_b_name, drug_b_atc, severity,
	effect, mechanism, management, source, active, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*DrugInteraction, error) {
	var d DrugInteraction
	var severity string
	err := row.Scan(&d.ID, &d.DrugAName, &d.DrugAATC, &d.DrugBName, &d.DrugBATC, &severity,
		&d.Effect, &d.Mechanism, &d.Management, &d.Source, &d.Active, &d.CreatedAt, &d.UpdatedAt)
	d.Severity = ParseSeverity(severity)
	return &d, err
}

func (r *repoPG) Create(ctx context.Context, d *DrugInteraction) error {
	d.ID = uuid.New()
	d.Normalize()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO drug_interaction
			(id, drug_a_name, drug_a_atc, drug_b_name, drug_b_atc, severity,
			 effect, mechanism, management, source, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		d.ID, d.DrugAName, d.DrugAATC, d.DrugBName, d.DrugBATC, string(d.Severity),
		d.Effect, d.Mechanism, d.Management, d.Source, d.Active)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*DrugInteraction, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+interactionCols+` FROM drug_interaction WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, d *DrugInteraction) error {
	d.Normalize()
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE drug_interaction SET drug_a_name=$2, drug_a_atc=$3, drug_b_name=$4,
			drug_b_atc=$5, severity=$6, effect=$7, mechanism=$8, management=$9,
			source=$10, active=$11, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.DrugAName, d.DrugAATC, d.DrugBName, d.DrugBATC, string(d.Severity),
		d.Effect, d.Mechanism, d.Management, d.Source, d.Active)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM drug_interaction WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*DrugInteraction, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM drug_interaction`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+interactionCols+` FROM drug_interaction
		ORDER BY drug_a_atc, drug_b_atc LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repoPG) FindCandidates(ctx context.Context, codes, namePrefixes []string) ([]*DrugInteraction, error) {
	if len(codes) == 0 && len(namePrefixes) == 0 {
		return nil, nil
	}

	var clauses []string
	var args []interface{}
	if len(codes) > 0 {
		lowered := make([]string, len(codes))
		for i, c := range codes {
			lowered[i] = strings.ToLower(c)
		}
		args = append(args, lowered)
		n := len(args)
		clauses = append(clauses,
			fmt.Sprintf("LOWER(drug_a_atc) = ANY($%d) OR LOWER(drug_b_atc) = ANY($%d)", n, n))
	}
	if len(namePrefixes) > 0 {
		patterns := make([]string, len(namePrefixes))
		for i, p := range namePrefixes {
			patterns[i] = strings.ToLower(p) + "%"
		}
		args = append(args, patterns)
		n := len(args)
		clauses = append(clauses,
			fmt.Sprintf("LOWER(drug_a_name) LIKE ANY($%d) OR LOWER(drug_b_name) LIKE ANY($%d)", n, n))
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+interactionCols+` FROM drug_interaction
		WHERE active = TRUE AND (`+strings.Join(clauses, " OR ")+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *repoPG) Upsert(ctx context.Context, d *DrugInteraction) error {
	d.Normalize()
	existing, err := r.scan(r.conn(ctx).QueryRow(ctx, `
		SELECT `+interactionCols+` FROM drug_interaction
		WHERE UPPER(drug_a_atc) = UPPER($1) AND UPPER(drug_b_atc) = UPPER($2)
		  AND source IS NOT DISTINCT FROM $3`,
		d.DrugAATC, d.DrugBATC, d.Source))
	if errors.Is(err, pgx.ErrNoRows) {
		return r.Create(ctx, d)
	}
	if err != nil {
		return err
	}

	d.ID = existing.ID
	_, err = r.conn(ctx).Exec(ctx, `
		UPDATE drug_interaction SET
			drug_a_name = COALESCE($2, drug_a_name),
			drug_b_name = COALESCE($3, drug_b_name),
			severity    = $4,
			effect      = COALESCE($5, effect),
			mechanism   = COALESCE($6, mechanism),
			management  = COALESCE($7, management),
			active      = $8,
			updated_at  = NOW()
		WHERE id = $1`,
		d.ID, d.DrugAName, d.DrugBName, string(d.Severity),
		d.Effect, d.Mechanism, d.Management, d.Active)
	return err
}

func (r *repoPG) collect(rows pgx.Rows) ([]*DrugInteraction, error) {
	var items []*DrugInteraction
	for rows.Next() {
		d, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
