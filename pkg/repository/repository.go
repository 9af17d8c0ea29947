package repository

import (
	"context"
	"errors"

	"github.com/prasetyadi/survey-kiosk/internal/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

// ErrConflict is returned when a delete is blocked by referencing responses.
var ErrConflict = errors.New("question has recorded responses")

type QuestionRepo interface {
	// ListQuestions returns questions ordered by position ascending with
	// their options attached (option position ascending). With activeOnly
	// set, inactive questions are omitted.
	ListQuestions(ctx context.Context, activeOnly bool) ([]models.Question, error)
	GetQuestion(ctx context.Context, id int64) (*models.Question, error)
	// CreateQuestion inserts the question and its options, assigning the next
	// position when q.Position is zero. Returns the new question id.
	CreateQuestion(ctx context.Context, q *models.Question) (int64, error)
	// UpdateQuestion writes text, subtitle and active flag, plus the labels
	// of any options carried with an id.
	UpdateQuestion(ctx context.Context, q *models.Question) error
	// DeleteQuestion hard-deletes the question and cascades its options.
	// Fails with ErrConflict when responses reference the question.
	DeleteQuestion(ctx context.Context, id int64) error
	SetQuestionActive(ctx context.Context, id int64, active bool) error
	// ReorderQuestions bulk-assigns positions, best effort per row.
	ReorderQuestions(ctx context.Context, positions []QuestionPosition) error
	// SeedQuestions inserts the default question set if the table is empty.
	SeedQuestions(ctx context.Context) error
	// ResetQuestions restores the seed texts and option labels for the 5
	// default questions, preserving existing ids and responses.
	ResetQuestions(ctx context.Context) error
}

type QuestionPosition struct {
	ID       int64 `json:"id"`
	Position int   `json:"position"`
}

type SubmissionRepo interface {
	// CreateSubmission writes the submission header and all carried
	// responses in one transaction and returns the submission id.
	CreateSubmission(ctx context.Context, sub *models.Submission) (int64, error)
	ListSubmissions(ctx context.Context, limit, offset int) ([]models.Submission, error)
	CountSubmissions(ctx context.Context) (int64, error)
}

// ReportRepo serves the read-only aggregation queries. Time bounds are unix
// seconds; a zero bound means unbounded on that side.
type ReportRepo interface {
	CountSubmissionsBetween(ctx context.Context, from, to int64) (int64, error)
	ListSubmissionTimes(ctx context.Context, from, to int64) ([]int64, error)
	SentimentCounts(ctx context.Context, from, to int64) (map[int64]map[models.Sentiment]int64, error)
	ListAnswerRows(ctx context.Context, from, to int64) ([]models.AnswerRow, error)
	RecentSubmissions(ctx context.Context, n int) ([]models.Submission, error)
	SubmissionCountsByIP(ctx context.Context, since int64) (map[string]int64, error)
	ListQuestions(ctx context.Context, activeOnly bool) ([]models.Question, error)
}

type AdminRepo interface {
	GetAdminByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	UpdateAdminLastLogin(ctx context.Context, id, ts int64) error
	// UpsertAdmin creates the account or overwrites its credential. Used by
	// startup provisioning only.
	UpsertAdmin(ctx context.Context, username, name, passwordHash string) error
}
