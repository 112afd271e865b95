package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nexthome/backend/internal/models"
)

// Experience card methods
func (r *SQLiteRepo) CreateExperienceCard(ctx context.Context, c *models.ExperienceCard) error {
	if c == nil {
		return fmt.Errorf("experience card is nil")
	}
	if c.Created == 0 {
		c.Created = now()
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO experience_cards (id, user_id, title, description, created) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Title, c.Description, c.Created)
	return err
}

func (r *SQLiteRepo) GetExperienceCard(ctx context.Context, id string) (*models.ExperienceCard, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, user_id, title, description, created FROM experience_cards WHERE id = ?`, id)
	var c models.ExperienceCard
	if err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.Description, &c.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &c, nil
}

func (r *SQLiteRepo) ListExperienceCardsByUser(ctx context.Context, userID string) ([]models.ExperienceCard, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, user_id, title, description, created FROM experience_cards WHERE user_id = ? ORDER BY created DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ExperienceCard
	for rows.Next() {
		var c models.ExperienceCard
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Description, &c.Created); err != nil {
			return nil, err
		}

		out = append(out, c)
	}

	return out, rows.Err()
}

// GetExperienceCardsByIDs resolves a batch of card ids to rows. Ids with no
// matching row are silently dropped.
func (r *SQLiteRepo) GetExperienceCardsByIDs(ctx context.Context, ids []string) ([]models.ExperienceCard, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?, ", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.conn.QueryRows(ctx, `SELECT id, user_id, title, description, created FROM experience_cards WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ExperienceCard
	for rows.Next() {
		var c models.ExperienceCard
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Description, &c.Created); err != nil {
			return nil, err
		}

		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateExperienceCard(ctx context.Context, c *models.ExperienceCard) error {
	if c == nil {
		return fmt.Errorf("experience card is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE experience_cards SET title = ?, description = ? WHERE id = ?`, c.Title, c.Description, c.ID)
	return err
}

func (r *SQLiteRepo) DeleteExperienceCard(ctx context.Context, id string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM experience_cards WHERE id = ?`, id)
	return err
}
