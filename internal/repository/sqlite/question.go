package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prasetyadi/survey-kiosk/internal/models"
	"github.com/prasetyadi/survey-kiosk/pkg/repository"
)

func (r *SQLiteRepo) ListQuestions(ctx context.Context, activeOnly bool) ([]models.Question, error) {
	q := `SELECT id, position, text, subtitle, active, created, updated FROM questions ORDER BY position ASC, id ASC`
	if activeOnly {
		q = `SELECT id, position, text, subtitle, active, created, updated FROM questions WHERE active = 1 ORDER BY position ASC, id ASC`
	}
	rows, err := r.conn.QueryRows(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		opts, err := r.listOptions(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Options = opts
	}

	return out, nil
}

func (r *SQLiteRepo) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, position, text, subtitle, active, created, updated FROM questions WHERE id = ?`, id)
	q, err := scanQuestion(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	opts, err := r.listOptions(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	q.Options = opts

	return q, nil
}

func (r *SQLiteRepo) CreateQuestion(ctx context.Context, q *models.Question) (int64, error) {
	if q == nil {
		return 0, fmt.Errorf("question is nil")
	}

	tx, err := r.conn.GetConn().BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	pos := int64(q.Position)
	if pos <= 0 {
		row := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), 0) + 1 FROM questions`)
		if err := row.Scan(&pos); err != nil {
			return 0, err
		}
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO questions (position, text, subtitle, active, created, updated) VALUES (?, ?, ?, ?, ?, ?)`,
		pos, q.Text, q.Subtitle, boolToInt(q.Active), now(), now())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	opts := q.Options
	if len(opts) == 0 {
		opts = models.DefaultOptionSet()
	}
	for _, o := range opts {
		if _, err := tx.ExecContext(ctx, `INSERT INTO answer_options (question_id, value, label, position, sentiment) VALUES (?, ?, ?, ?, ?)`,
			id, o.Value, o.Label, o.Position, string(o.Sentiment)); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return id, nil
}

func (r *SQLiteRepo) UpdateQuestion(ctx context.Context, q *models.Question) error {
	if q == nil {
		return fmt.Errorf("question is nil")
	}

	tx, err := r.conn.GetConn().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE questions SET text = ?, subtitle = ?, active = ?, updated = ? WHERE id = ?`,
		q.Text, q.Subtitle, boolToInt(q.Active), now(), q.ID); err != nil {
		return err
	}
	for _, o := range q.Options {
		if o.ID == 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, `UPDATE answer_options SET label = ? WHERE id = ? AND question_id = ?`, o.Label, o.ID, q.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *SQLiteRepo) DeleteQuestion(ctx context.Context, id int64) error {
	row := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM responses WHERE question_id = ?`, id)
	var refs int64
	if err := row.Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return repository.ErrConflict
	}

	// options cascade via FK
	_, err := r.conn.Exec(ctx, `DELETE FROM questions WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepo) SetQuestionActive(ctx context.Context, id int64, active bool) error {
	_, err := r.conn.Exec(ctx, `UPDATE questions SET active = ?, updated = ? WHERE id = ?`, boolToInt(active), now(), id)
	return err
}

func (r *SQLiteRepo) ReorderQuestions(ctx context.Context, positions []repository.QuestionPosition) error {
	// best effort, last write wins per row
	for _, p := range positions {
		if _, err := r.conn.Exec(ctx, `UPDATE questions SET position = ?, updated = ? WHERE id = ?`, p.Position, now(), p.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepo) SeedQuestions(ctx context.Context) error {
	row := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM questions`)
	var count int64
	if err := row.Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, q := range models.DefaultQuestions() {
		if _, err := r.CreateQuestion(ctx, &q); err != nil {
			return fmt.Errorf("seed question %q: %w", q.Text, err)
		}
	}
	return nil
}

// ResetQuestions restores seed texts and labels onto the first 5 questions by
// position, keeping ids and responses intact. Missing seed questions are
// recreated.
func (r *SQLiteRepo) ResetQuestions(ctx context.Context) error {
	existing, err := r.ListQuestions(ctx, false)
	if err != nil {
		return err
	}

	defaults := models.DefaultQuestions()
	for i, def := range defaults {
		if i >= len(existing) {
			if _, err := r.CreateQuestion(ctx, &def); err != nil {
				return err
			}
			continue
		}

		q := existing[i]
		if _, err := r.conn.Exec(ctx, `UPDATE questions SET position = ?, text = ?, subtitle = ?, active = 1, updated = ? WHERE id = ?`,
			def.Position, def.Text, def.Subtitle, now(), q.ID); err != nil {
			return err
		}
		for _, defOpt := range def.Options {
			if _, err := r.conn.Exec(ctx, `UPDATE answer_options SET value = ?, label = ?, position = ? WHERE question_id = ? AND sentiment = ?`,
				defOpt.Value, defOpt.Label, defOpt.Position, q.ID, string(defOpt.Sentiment)); err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *SQLiteRepo) listOptions(ctx context.Context, questionID int64) ([]models.AnswerOption, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, question_id, value, label, position, sentiment FROM answer_options WHERE question_id = ? ORDER BY position ASC`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AnswerOption
	for rows.Next() {
		var o models.AnswerOption
		var sentiment string
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Value, &o.Label, &o.Position, &sentiment); err != nil {
			return nil, err
		}
		o.Sentiment = models.Sentiment(sentiment)
		out = append(out, o)
	}

	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (*models.Question, error) {
	var q models.Question
	var subtitle sql.NullString
	var active int64
	if err := row.Scan(&q.ID, &q.Position, &q.Text, &subtitle, &active, &q.Created, &q.Updated); err != nil {
		return nil, err
	}
	if subtitle.Valid {
		q.Subtitle = subtitle.String
	}
	q.Active = active != 0

	return &q, nil
}

func boolToInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}
