package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/survey-analytics/internal/database"
	"github.com/stemsi/survey-analytics/internal/model"
)

// LookupRepository stores departments or hobbies, depending on its kind.
type LookupRepository interface {
	WithTx(q database.DBTX) LookupRepository
	Kind() model.LookupKind
	List(ctx context.Context, limit, offset int) ([]model.Lookup, int, error)
	GetByID(ctx context.Context, id int) (*model.Lookup, error)
	Create(ctx context.Context, name string) (*model.Lookup, error)
	Rename(ctx context.Context, id int, name string) (*model.Lookup, error)
	Delete(ctx context.Context, id int) error
	GetOrCreate(ctx context.Context, name string) (*model.Lookup, error)
}

type lookupRepository struct {
	db    database.DBTX
	kind  model.LookupKind
	table string
}

func NewLookupRepository(db database.DBTX, kind model.LookupKind) LookupRepository {
	return &lookupRepository{db: db, kind: kind, table: kind.Table()}
}

func (r *lookupRepository) WithTx(q database.DBTX) LookupRepository {
	return &lookupRepository{db: q, kind: r.kind, table: r.table}
}

func (r *lookupRepository) Kind() model.LookupKind { return r.kind }

func (r *lookupRepository) List(ctx context.Context, limit, offset int) ([]model.Lookup, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.table)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.table, err)
	}

	query := fmt.Sprintf(`SELECT id, name, created_at FROM %s ORDER BY name ASC, id ASC LIMIT $1 OFFSET $2`, r.table)
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()

	items := []model.Lookup{}
	for rows.Next() {
		var l model.Lookup
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan %s: %w", r.table, err)
		}
		items = append(items, l)
	}
	return items, total, rows.Err()
}

func (r *lookupRepository) GetByID(ctx context.Context, id int) (*model.Lookup, error) {
	query := fmt.Sprintf(`SELECT id, name, created_at FROM %s WHERE id = $1`, r.table)
	l := &model.Lookup{}
	if err := r.db.QueryRow(ctx, query, id).Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return l, nil
}

func (r *lookupRepository) Create(ctx context.Context, name string) (*model.Lookup, error) {
	query := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) RETURNING id, name, created_at`, r.table)
	l := &model.Lookup{}
	if err := r.db.QueryRow(ctx, query, name).Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return l, nil
}

func (r *lookupRepository) Rename(ctx context.Context, id int, name string) (*model.Lookup, error) {
	query := fmt.Sprintf(`UPDATE %s SET name = $1 WHERE id = $2 RETURNING id, name, created_at`, r.table)
	l := &model.Lookup{}
	if err := r.db.QueryRow(ctx, query, name, id).Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return l, nil
}

func (r *lookupRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table), id)
	if err != nil {
		if database.HasCode(err, database.CodeForeignKeyViolation) {
			return ErrReferenced
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetOrCreate returns the row whose name matches case-insensitively,
// inserting it first when absent. Safe under concurrent callers: a losing
// insert yields no row and the winner's row is re-read.
func (r *lookupRepository) GetOrCreate(ctx context.Context, name string) (*model.Lookup, error) {
	insert := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) ON CONFLICT DO NOTHING RETURNING id, name, created_at`, r.table)
	l := &model.Lookup{}
	err := r.db.QueryRow(ctx, insert, name).Scan(&l.ID, &l.Name, &l.CreatedAt)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, name, created_at FROM %s WHERE lower(name) = lower($1)`, r.table)
	if err := r.db.QueryRow(ctx, query, name).Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return l, nil
}
