package repository

import (
	"context"
	"database/sql"
)

// ResourceRepo handles protected blocks.
type ResourceRepo struct {
	db *sql.DB
}

func NewResourceRepo(db *sql.DB) *ResourceRepo { return &ResourceRepo{db: db} }

func (r *ResourceRepo) Upsert(ctx context.Context, res Resource) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO resources(id, owner_id, world, x, y, z, created_at)
	VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 owner_id=excluded.owner_id;
	`, res.ID, res.OwnerID, res.World, res.X, res.Y, res.Z)
	return err
}

func (r *ResourceRepo) Get(ctx context.Context, id string) (*Resource, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, owner_id, world, x, y, z, created_at FROM resources WHERE id = ?`, id)
	var res Resource
	if err := row.Scan(&res.ID, &res.OwnerID, &res.World, &res.X, &res.Y, &res.Z, &res.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

func (r *ResourceRepo) ListByOwner(ctx context.Context, ownerID string) ([]Resource, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, owner_id, world, x, y, z, created_at FROM resources WHERE owner_id = ? ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Resource
	for rows.Next() {
		var res Resource
		if err := rows.Scan(&res.ID, &res.OwnerID, &res.World, &res.X, &res.Y, &res.Z, &res.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
