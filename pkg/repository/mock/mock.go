package mock

import (
	"context"
	"sort"

	"github.com/prasetyadi/survey-kiosk/internal/models"
	"github.com/prasetyadi/survey-kiosk/pkg/repository"
)

// Test helpers and mocks
type Mocks struct {
	Questions   *QuestionRepo
	Submissions *SubmissionRepo
	Admins      *AdminRepo
	Reports     *ReportRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Questions:   &QuestionRepo{},
		Submissions: &SubmissionRepo{},
		Admins:      &AdminRepo{},
		Reports:     &ReportRepo{},
	}
}

type QuestionRepo struct {
	Stored    []models.Question
	Err       error
	DeleteErr error
	ResetHits int
	SeedHits  int
	Reordered []repository.QuestionPosition
}

var _ repository.QuestionRepo = (*QuestionRepo)(nil)

func (m *QuestionRepo) ListQuestions(ctx context.Context, activeOnly bool) ([]models.Question, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.Question, 0, len(m.Stored))
	for _, q := range m.Stored {
		if activeOnly && !q.Active {
			continue
		}
		out = append(out, q)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *QuestionRepo) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Stored {
		if m.Stored[i].ID == id {
			q := m.Stored[i]
			return &q, nil
		}
	}
	return nil, nil
}

func (m *QuestionRepo) CreateQuestion(ctx context.Context, q *models.Question) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	id := int64(len(m.Stored) + 1)
	stored := *q
	stored.ID = id
	if stored.Position == 0 {
		stored.Position = len(m.Stored) + 1
	}
	if len(stored.Options) == 0 {
		stored.Options = models.DefaultOptionSet()
	}
	for i := range stored.Options {
		stored.Options[i].ID = id*10 + int64(i) + 1
		stored.Options[i].QuestionID = id
	}
	m.Stored = append(m.Stored, stored)
	return id, nil
}

func (m *QuestionRepo) UpdateQuestion(ctx context.Context, q *models.Question) error {
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Stored {
		if m.Stored[i].ID == q.ID {
			opts := m.Stored[i].Options
			m.Stored[i] = *q
			if len(q.Options) == 0 {
				m.Stored[i].Options = opts
			}
		}
	}
	return nil
}

func (m *QuestionRepo) DeleteQuestion(ctx context.Context, id int64) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if m.Err != nil {
		return m.Err
	}
	out := m.Stored[:0]
	for _, q := range m.Stored {
		if q.ID != id {
			out = append(out, q)
		}
	}
	m.Stored = out
	return nil
}

func (m *QuestionRepo) SetQuestionActive(ctx context.Context, id int64, active bool) error {
	for i := range m.Stored {
		if m.Stored[i].ID == id {
			m.Stored[i].Active = active
		}
	}
	return nil
}

func (m *QuestionRepo) ReorderQuestions(ctx context.Context, positions []repository.QuestionPosition) error {
	if m.Err != nil {
		return m.Err
	}
	m.Reordered = positions
	for _, p := range positions {
		for i := range m.Stored {
			if m.Stored[i].ID == p.ID {
				m.Stored[i].Position = p.Position
			}
		}
	}
	return nil
}

func (m *QuestionRepo) SeedQuestions(ctx context.Context) error {
	m.SeedHits++
	if len(m.Stored) > 0 {
		return nil
	}
	for _, q := range models.DefaultQuestions() {
		if _, err := m.CreateQuestion(ctx, &q); err != nil {
			return err
		}
	}
	return nil
}

func (m *QuestionRepo) ResetQuestions(ctx context.Context) error {
	m.ResetHits++
	defaults := models.DefaultQuestions()
	for i := range m.Stored {
		if i < len(defaults) {
			m.Stored[i].Text = defaults[i].Text
			m.Stored[i].Subtitle = defaults[i].Subtitle
			m.Stored[i].Position = defaults[i].Position
			m.Stored[i].Active = true
		}
	}
	return nil
}

type SubmissionRepo struct {
	Stored    []models.Submission
	CreateErr error
}

var _ repository.SubmissionRepo = (*SubmissionRepo)(nil)

func (m *SubmissionRepo) CreateSubmission(ctx context.Context, sub *models.Submission) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	id := int64(len(m.Stored) + 1)
	stored := *sub
	stored.ID = id
	m.Stored = append(m.Stored, stored)
	return id, nil
}

func (m *SubmissionRepo) ListSubmissions(ctx context.Context, limit, offset int) ([]models.Submission, error) {
	if offset >= len(m.Stored) {
		return nil, nil
	}
	end := offset + limit
	if end > len(m.Stored) {
		end = len(m.Stored)
	}
	return m.Stored[offset:end], nil
}

func (m *SubmissionRepo) CountSubmissions(ctx context.Context) (int64, error) {
	return int64(len(m.Stored)), nil
}

type AdminRepo struct {
	Stored    *models.AdminUser
	LastLogin int64
	Err       error
}

var _ repository.AdminRepo = (*AdminRepo)(nil)

func (m *AdminRepo) GetAdminByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Stored != nil && m.Stored.Username == username {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *AdminRepo) UpdateAdminLastLogin(ctx context.Context, id, ts int64) error {
	m.LastLogin = ts
	return nil
}

func (m *AdminRepo) UpsertAdmin(ctx context.Context, username, name, passwordHash string) error {
	m.Stored = &models.AdminUser{ID: 1, Username: username, Name: name, PasswordHash: passwordHash, Active: true}
	return nil
}

type ReportRepo struct {
	Questions  []models.Question
	Times      []int64
	Counts     map[int64]map[models.Sentiment]int64
	AnswerRows []models.AnswerRow
	Recent     []models.Submission
	IPCounts   map[string]int64
	Err        error
}

var _ repository.ReportRepo = (*ReportRepo)(nil)

func (m *ReportRepo) inRange(ts, from, to int64) bool {
	if from > 0 && ts < from {
		return false
	}
	if to > 0 && ts >= to {
		return false
	}
	return true
}

func (m *ReportRepo) CountSubmissionsBetween(ctx context.Context, from, to int64) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	var n int64
	for _, ts := range m.Times {
		if m.inRange(ts, from, to) {
			n++
		}
	}
	return n, nil
}

func (m *ReportRepo) ListSubmissionTimes(ctx context.Context, from, to int64) ([]int64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []int64
	for _, ts := range m.Times {
		if m.inRange(ts, from, to) {
			out = append(out, ts)
		}
	}
	return out, nil
}

func (m *ReportRepo) SentimentCounts(ctx context.Context, from, to int64) (map[int64]map[models.Sentiment]int64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Counts, nil
}

func (m *ReportRepo) ListAnswerRows(ctx context.Context, from, to int64) ([]models.AnswerRow, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.AnswerRow
	for _, r := range m.AnswerRows {
		if m.inRange(r.Created, from, to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *ReportRepo) RecentSubmissions(ctx context.Context, n int) ([]models.Submission, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if n > len(m.Recent) {
		n = len(m.Recent)
	}
	return m.Recent[:n], nil
}

func (m *ReportRepo) SubmissionCountsByIP(ctx context.Context, since int64) (map[string]int64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.IPCounts, nil
}

func (m *ReportRepo) ListQuestions(ctx context.Context, activeOnly bool) ([]models.Question, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Questions, nil
}
