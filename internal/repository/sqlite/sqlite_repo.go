package sqlite

import (
	"time"

	"github.com/prasetyadi/survey-kiosk/internal/db"
	"github.com/prasetyadi/survey-kiosk/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn *db.DB
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.QuestionRepo = (*SQLiteRepo)(nil)
var _ repository.SubmissionRepo = (*SQLiteRepo)(nil)
var _ repository.ReportRepo = (*SQLiteRepo)(nil)
var _ repository.AdminRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB) *SQLiteRepo {
	return &SQLiteRepo{conn: conn}
}

func now() int64 {
	return time.Now().UTC().Unix()
}
