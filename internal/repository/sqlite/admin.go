package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prasetyadi/survey-kiosk/internal/models"
)

func (r *SQLiteRepo) GetAdminByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, username, name, password_hash, active, last_login, created, updated FROM admin_users WHERE username = ?`, username)
	var u models.AdminUser
	var active int64
	var lastLogin sql.NullInt64
	if err := row.Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash, &active, &lastLogin, &u.Created, &u.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	u.Active = active != 0
	if lastLogin.Valid {
		v := lastLogin.Int64
		u.LastLogin = &v
	}

	return &u, nil
}

func (r *SQLiteRepo) UpdateAdminLastLogin(ctx context.Context, id, ts int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE admin_users SET last_login = ?, updated = ? WHERE id = ?`, ts, now(), id)
	return err
}

// UpsertAdmin creates the account or rotates its credential in place.
// Idempotent startup provisioning, not a runtime feature.
func (r *SQLiteRepo) UpsertAdmin(ctx context.Context, username, name, passwordHash string) error {
	if username == "" || passwordHash == "" {
		return fmt.Errorf("username and password hash are required")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO admin_users (username, name, password_hash, active, created, updated) VALUES (?, ?, ?, 1, ?, ?)
        ON CONFLICT(username) DO UPDATE SET password_hash = excluded.password_hash, active = 1, updated = excluded.updated`,
		username, name, passwordHash, now(), now())
	return err
}
