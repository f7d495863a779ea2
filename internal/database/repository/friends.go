package repository

import (
	"context"
	"database/sql"
)

// FriendRepo handles resource-scoped and default friend lists.
type FriendRepo struct {
	db *sql.DB
}

func NewFriendRepo(db *sql.DB) *FriendRepo { return &FriendRepo{db: db} }

func (r *FriendRepo) AddResourceFriend(ctx context.Context, resourceID, friendID string) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO resource_friends(resource_id, friend_id) VALUES (?, ?)
	ON CONFLICT(resource_id, friend_id) DO NOTHING;
	`, resourceID, friendID)
	return err
}

func (r *FriendRepo) RemoveResourceFriend(ctx context.Context, resourceID, friendID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM resource_friends WHERE resource_id = ? AND friend_id = ?`, resourceID, friendID)
	return err
}

func (r *FriendRepo) ResourceFriends(ctx context.Context, resourceID string) ([]Friend, error) {
	return r.list(ctx, `SELECT resource_id, friend_id, created_at FROM resource_friends WHERE resource_id = ? ORDER BY created_at, friend_id`, resourceID)
}

func (r *FriendRepo) AddDefaultFriend(ctx context.Context, ownerID, friendID string) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO default_friends(owner_id, friend_id) VALUES (?, ?)
	ON CONFLICT(owner_id, friend_id) DO NOTHING;
	`, ownerID, friendID)
	return err
}

func (r *FriendRepo) RemoveDefaultFriend(ctx context.Context, ownerID, friendID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM default_friends WHERE owner_id = ? AND friend_id = ?`, ownerID, friendID)
	return err
}

func (r *FriendRepo) DefaultFriends(ctx context.Context, ownerID string) ([]Friend, error) {
	return r.list(ctx, `SELECT owner_id, friend_id, created_at FROM default_friends WHERE owner_id = ? ORDER BY created_at, friend_id`, ownerID)
}

func (r *FriendRepo) list(ctx context.Context, query, scopeID string) ([]Friend, error) {
	rows, err := r.db.QueryContext(ctx, query, scopeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Friend
	for rows.Next() {
		var f Friend
		if err := rows.Scan(&f.ScopeID, &f.FriendID, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
