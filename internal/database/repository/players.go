package repository

import (
	"context"
	"database/sql"
)

// PlayerRepo handles the player directory.
type PlayerRepo struct {
	db *sql.DB
}

func NewPlayerRepo(db *sql.DB) *PlayerRepo { return &PlayerRepo{db: db} }

// Upsert inserts or updates a player. Enumeration order is first-insert
// order and is not changed by later updates.
func (r *PlayerRepo) Upsert(ctx context.Context, p Player) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO players(id, name, online, accepts_friends, last_seen)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 online=excluded.online,
	 accepts_friends=excluded.accepts_friends,
	 last_seen=CURRENT_TIMESTAMP;
	`, p.ID, p.Name, p.Online, p.AcceptsFriends)
	return err
}

func (r *PlayerRepo) SetOnline(ctx context.Context, id string, online bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE players SET online = ?, last_seen = CURRENT_TIMESTAMP WHERE id = ?`, online, id)
	return err
}

func (r *PlayerRepo) SetAcceptsFriends(ctx context.Context, id string, accepts bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE players SET accepts_friends = ? WHERE id = ?`, accepts, id)
	return err
}

func (r *PlayerRepo) Get(ctx context.Context, id string) (*Player, error) {
	row := r.db.QueryRowContext(ctx, `SELECT seq, id, name, online, accepts_friends, last_seen FROM players WHERE id = ?`, id)
	var p Player
	if err := row.Scan(&p.Seq, &p.ID, &p.Name, &p.Online, &p.AcceptsFriends, &p.LastSeen); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// ByName looks a player up by exact name, case-insensitively.
func (r *PlayerRepo) ByName(ctx context.Context, name string) (*Player, error) {
	row := r.db.QueryRowContext(ctx, `SELECT seq, id, name, online, accepts_friends, last_seen FROM players WHERE name = ? COLLATE NOCASE ORDER BY seq LIMIT 1`, name)
	var p Player
	if err := row.Scan(&p.Seq, &p.ID, &p.Name, &p.Online, &p.AcceptsFriends, &p.LastSeen); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// List returns every known player in enumeration order.
func (r *PlayerRepo) List(ctx context.Context) ([]Player, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT seq, id, name, online, accepts_friends, last_seen FROM players ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.Seq, &p.ID, &p.Name, &p.Online, &p.AcceptsFriends, &p.LastSeen); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeclinedFriendIDs returns the ids of players that opted out of being added as friends.
func (r *PlayerRepo) DeclinedFriendIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM players WHERE accepts_friends = 0`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}
