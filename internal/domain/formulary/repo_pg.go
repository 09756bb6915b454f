package formulary

import (
	"context"
	"errors"

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

const drugCols = `id, name, generic_name, atc_code, form, strength, active, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*FormularyDrug, error) {
	var d FormularyDrug
	err := row.Scan(&d.ID, &d.Name, &d.GenericName, &d.ATCCode, &d.Form, &d.Strength,
		&d.Active, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *repoPG) Create(ctx context.Context, d *FormularyDrug) error {
	d.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO formulary_drug (id, name, generic_name, atc_code, form, strength, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		d.ID, d.Name, d.GenericName, d.ATCCode, d.Form, d.Strength, d.Active)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*FormularyDrug, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+drugCols+` FROM formulary_drug WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, d *FormularyDrug) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE formulary_drug SET name=$2, generic_name=$3, atc_code=$4, form=$5,
			strength=$6, active=$7, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.Name, d.GenericName, d.ATCCode, d.Form, d.Strength, d.Active)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM formulary_drug WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*FormularyDrug, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM formulary_drug`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+drugCols+` FROM formulary_drug
		ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*FormularyDrug
	for rows.Next() {
		d, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

func (r *repoPG) FindByName(ctx context.Context, name string) (*FormularyDrug, error) {
	d, err := r.scan(r.conn(ctx).QueryRow(ctx, `
		SELECT `+drugCols+` FROM formulary_drug
		WHERE active = TRUE AND (LOWER(name) = LOWER($1) OR LOWER(generic_name) = LOWER($1))
		LIMIT 1`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *repoPG) FindByCode(ctx context.Context, code string) (*FormularyDrug, error) {
	d, err := r.scan(r.conn(ctx).QueryRow(ctx, `
		SELECT `+drugCols+` FROM formulary_drug
		WHERE active = TRUE AND LOWER(atc_code) = LOWER($1)
		LIMIT 1`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}
