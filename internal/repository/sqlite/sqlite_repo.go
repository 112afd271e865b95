package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nexthome/backend/internal/db"
	"github.com/nexthome/backend/internal/models"
	"github.com/nexthome/backend/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn *db.DB
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.UserRepo = (*SQLiteRepo)(nil)
var _ repository.ExperienceCardRepo = (*SQLiteRepo)(nil)
var _ repository.ChallengeCardRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB) *SQLiteRepo {
	return &SQLiteRepo{conn: conn}
}

const userColumns = `id, email, password_hash, auth_id, first_name, last_name, country, city, status, immigration_date, avatar_url, is_email_confirmed, is_profile_completed, confirmation_token_hash, confirmation_expiry, created`

// User methods
func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}
	if u.Created == 0 {
		u.Created = now()
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, nullStr(u.PasswordHash), nullStr(u.AuthID), u.FirstName, u.LastName, u.Country, u.City,
		nullStatus(u.Status), nullStrPtr(u.ImmigrationDate), u.AvatarURL, u.IsEmailConfirmed, u.IsProfileCompleted,
		nullStr(u.ConfirmationTokenHash), nullInt64Ptr(u.ConfirmationExpiry), u.Created)
	return err
}

func (r *SQLiteRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *SQLiteRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *SQLiteRepo) GetByAuthID(ctx context.Context, authID string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE auth_id = ?`, authID)
	return scanUser(row)
}

func (r *SQLiteRepo) GetByConfirmationTokenHash(ctx context.Context, hash string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE confirmation_token_hash = ?`, hash)
	return scanUser(row)
}

func (r *SQLiteRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+userColumns+` FROM users ORDER BY created`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUserRows(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *u)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE users SET email = ?, password_hash = ?, auth_id = ?, first_name = ?, last_name = ?, country = ?, city = ?, status = ?, immigration_date = ?, avatar_url = ?, is_email_confirmed = ?, is_profile_completed = ?, confirmation_token_hash = ?, confirmation_expiry = ? WHERE id = ?`,
		u.Email, nullStr(u.PasswordHash), nullStr(u.AuthID), u.FirstName, u.LastName, u.Country, u.City,
		nullStatus(u.Status), nullStrPtr(u.ImmigrationDate), u.AvatarURL, u.IsEmailConfirmed, u.IsProfileCompleted,
		nullStr(u.ConfirmationTokenHash), nullInt64Ptr(u.ConfirmationExpiry), u.ID)
	return err
}

func (r *SQLiteRepo) DeleteUser(ctx context.Context, id string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM users WHERE email = ?`, email)
	var cnt int
	if err := row.Scan(&cnt); err != nil {
		return false, err
	}
	return cnt > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row *sql.Row) (*models.User, error) {
	u, err := scanUserRows(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return u, err
}

func scanUserRows(s rowScanner) (*models.User, error) {
	var u models.User
	var pw, authID, tokenHash sql.NullString
	var status, expiry sql.NullInt64
	var immigrationDate sql.NullString
	if err := s.Scan(&u.ID, &u.Email, &pw, &authID, &u.FirstName, &u.LastName, &u.Country, &u.City,
		&status, &immigrationDate, &u.AvatarURL, &u.IsEmailConfirmed, &u.IsProfileCompleted,
		&tokenHash, &expiry, &u.Created); err != nil {
		return nil, err
	}

	if pw.Valid {
		u.PasswordHash = pw.String
	}
	if authID.Valid {
		u.AuthID = authID.String
	}
	if tokenHash.Valid {
		u.ConfirmationTokenHash = tokenHash.String
	}
	if status.Valid {
		st := models.Status(status.Int64)
		u.Status = &st
	}
	if immigrationDate.Valid {
		u.ImmigrationDate = &immigrationDate.String
	}
	if expiry.Valid {
		u.ConfirmationExpiry = &expiry.Int64
	}

	return &u, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullStrPtr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullInt64Ptr(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullStatus(s *models.Status) any {
	if s == nil {
		return nil
	}
	return int64(*s)
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}
