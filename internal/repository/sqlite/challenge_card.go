package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nexthome/backend/internal/models"
)

// Challenge card methods
func (r *SQLiteRepo) CreateChallengeCard(ctx context.Context, c *models.ChallengeCard) error {
	if c == nil {
		return fmt.Errorf("challenge card is nil")
	}
	if c.Created == 0 {
		c.Created = now()
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO challenge_cards (id, user_id, title, description, created) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Title, c.Description, c.Created)
	return err
}

func (r *SQLiteRepo) GetChallengeCard(ctx context.Context, id string) (*models.ChallengeCard, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, user_id, title, description, created FROM challenge_cards WHERE id = ?`, id)
	var c models.ChallengeCard
	if err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.Description, &c.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &c, nil
}

func (r *SQLiteRepo) ListChallengeCardsByUser(ctx context.Context, userID string) ([]models.ChallengeCard, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, user_id, title, description, created FROM challenge_cards WHERE user_id = ? ORDER BY created DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ChallengeCard
	for rows.Next() {
		var c models.ChallengeCard
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Description, &c.Created); err != nil {
			return nil, err
		}

		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateChallengeCard(ctx context.Context, c *models.ChallengeCard) error {
	if c == nil {
		return fmt.Errorf("challenge card is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE challenge_cards SET title = ?, description = ? WHERE id = ?`, c.Title, c.Description, c.ID)
	return err
}

func (r *SQLiteRepo) DeleteChallengeCard(ctx context.Context, id string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM challenge_cards WHERE id = ?`, id)
	return err
}
