package sqlite

import (
	"context"
	"strings"

	"github.com/prasetyadi/survey-kiosk/internal/models"
)

// betweenClause builds a WHERE fragment for unix-second bounds on the given
// column. A zero bound is unbounded; from is inclusive, to exclusive.
func betweenClause(col string, from, to int64) (string, []any) {
	var parts []string
	var args []any
	if from > 0 {
		parts = append(parts, col+" >= ?")
		args = append(args, from)
	}
	if to > 0 {
		parts = append(parts, col+" < ?")
		args = append(args, to)
	}
	if len(parts) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

func (r *SQLiteRepo) CountSubmissionsBetween(ctx context.Context, from, to int64) (int64, error) {
	where, args := betweenClause("created", from, to)
	row := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM submissions`+where, args...)
	var cnt int64
	if err := row.Scan(&cnt); err != nil {
		return 0, err
	}
	return cnt, nil
}

func (r *SQLiteRepo) ListSubmissionTimes(ctx context.Context, from, to int64) ([]int64, error) {
	where, args := betweenClause("created", from, to)
	rows, err := r.conn.QueryRows(ctx, `SELECT created FROM submissions`+where+` ORDER BY created ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var ts int64
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) SentimentCounts(ctx context.Context, from, to int64) (map[int64]map[models.Sentiment]int64, error) {
	where, args := betweenClause("s.created", from, to)
	rows, err := r.conn.QueryRows(ctx, `SELECT r.question_id, o.sentiment, COUNT(*)
        FROM responses r
        JOIN answer_options o ON o.id = r.option_id
        JOIN submissions s ON s.id = r.submission_id`+where+`
        GROUP BY r.question_id, o.sentiment`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]map[models.Sentiment]int64{}
	for rows.Next() {
		var qid int64
		var sentiment string
		var cnt int64
		if err := rows.Scan(&qid, &sentiment, &cnt); err != nil {
			return nil, err
		}
		if out[qid] == nil {
			out[qid] = map[models.Sentiment]int64{}
		}
		out[qid][models.Sentiment(sentiment)] = cnt
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) ListAnswerRows(ctx context.Context, from, to int64) ([]models.AnswerRow, error) {
	where, args := betweenClause("s.created", from, to)
	rows, err := r.conn.QueryRows(ctx, `SELECT s.id, s.created, r.question_id, o.label
        FROM submissions s
        JOIN responses r ON r.submission_id = s.id
        JOIN answer_options o ON o.id = r.option_id`+where+`
        ORDER BY s.created ASC, s.id ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AnswerRow
	for rows.Next() {
		var row models.AnswerRow
		if err := rows.Scan(&row.SubmissionID, &row.Created, &row.QuestionID, &row.Label); err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) RecentSubmissions(ctx context.Context, n int) ([]models.Submission, error) {
	return r.ListSubmissions(ctx, n, 0)
}

func (r *SQLiteRepo) SubmissionCountsByIP(ctx context.Context, since int64) (map[string]int64, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT client_ip, COUNT(*) FROM submissions WHERE created >= ? GROUP BY client_ip`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var ip string
		var cnt int64
		if err := rows.Scan(&ip, &cnt); err != nil {
			return nil, err
		}
		out[ip] = cnt
	}

	return out, rows.Err()
}
