package sqlite

import (
	"context"
	"fmt"

	"github.com/prasetyadi/survey-kiosk/internal/models"
)

// CreateSubmission writes the header row and all responses in one
// transaction; a successfully returned id means everything committed.
func (r *SQLiteRepo) CreateSubmission(ctx context.Context, sub *models.Submission) (int64, error) {
	if sub == nil {
		return 0, fmt.Errorf("submission is nil")
	}

	tx, err := r.conn.GetConn().BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	created := sub.Created
	if created == 0 {
		created = now()
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO submissions (client_ip, user_agent, created) VALUES (?, ?, ?)`,
		sub.ClientIP, sub.UserAgent, created)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, resp := range sub.Responses {
		if _, err := tx.ExecContext(ctx, `INSERT INTO responses (submission_id, question_id, option_id) VALUES (?, ?, ?)`,
			id, resp.QuestionID, resp.OptionID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return id, nil
}

func (r *SQLiteRepo) ListSubmissions(ctx context.Context, limit, offset int) ([]models.Submission, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.conn.QueryRows(ctx, `SELECT id, client_ip, user_agent, created FROM submissions ORDER BY created DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Submission
	for rows.Next() {
		var s models.Submission
		if err := rows.Scan(&s.ID, &s.ClientIP, &s.UserAgent, &s.Created); err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) CountSubmissions(ctx context.Context) (int64, error) {
	row := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM submissions`)
	var cnt int64
	if err := row.Scan(&cnt); err != nil {
		return 0, err
	}
	return cnt, nil
}
