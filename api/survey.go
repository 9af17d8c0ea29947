package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/qri-io/jsonschema"

	"github.com/prasetyadi/survey-kiosk/internal/models"
	"github.com/prasetyadi/survey-kiosk/pkg/repository"
)

// surveySchemaJSON constrains the submission envelope before any lookup work
// happens: a single "questions" object whose values are option ids or value
// codes.
const surveySchemaJSON = `{
	"type": "object",
	"required": ["questions"],
	"properties": {
		"questions": {
			"type": "object",
			"minProperties": 1,
			"additionalProperties": {
				"type": ["integer", "string"]
			}
		}
	},
	"additionalProperties": false
}`

const maxSurveyBody = 64 << 10

type SurveyHandler struct {
	questionRepo   repository.QuestionRepo
	submissionRepo repository.SubmissionRepo
	schema         *jsonschema.Schema
}

func NewSurveyHandler(qr repository.QuestionRepo, sr repository.SubmissionRepo) *SurveyHandler {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(surveySchemaJSON), rs); err != nil {
		// the schema is a compile-time constant; failing to parse it is a
		// programming error
		panic("survey schema: " + err.Error())
	}
	return &SurveyHandler{questionRepo: qr, submissionRepo: sr, schema: rs}
}

// Submit records one kiosk submission. The payload keys address questions
// either as "qN" (1-based position among the active questions) or as a bare
// question id; values are either an option id or an option value code.
// Unresolvable answers are skipped with a warning rather than failing the
// whole submission.
func (h *SurveyHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSurveyBody))
	if err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	verrs, err := h.schema.ValidateBytes(ctx, body)
	if err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if len(verrs) > 0 {
		writeError(w, "invalid survey payload: "+verrs[0].Error(), http.StatusBadRequest)
		return
	}

	var payload struct {
		Questions map[string]any `json:"questions"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	active, err := h.questionRepo.ListQuestions(ctx, true)
	if err != nil {
		logger.Error("list questions", slog.Any("err", err))
		writeError(w, "failed to record submission", http.StatusInternalServerError)
		return
	}
	if len(active) == 0 {
		writeError(w, "no active questions", http.StatusConflict)
		return
	}

	responses := resolveAnswers(ctx, active, payload.Questions)
	if len(responses) == 0 {
		writeError(w, "no answers could be matched to a question", http.StatusBadRequest)
		return
	}

	sub := models.Submission{
		ClientIP:  clientIP(r),
		UserAgent: r.UserAgent(),
		Created:   time.Now().UTC().Unix(),
		Responses: responses,
	}
	id, err := h.submissionRepo.CreateSubmission(ctx, &sub)
	if err != nil {
		logger.Error("create submission", slog.Any("err", err))
		writeError(w, "failed to record submission", http.StatusInternalServerError)
		return
	}

	logger.Info("survey.submitted",
		slog.Int64("id", id),
		slog.String("ip", sub.ClientIP),
		slog.String("user_agent", sub.UserAgent),
		slog.Int("answers", len(responses)),
	)

	writeJSON(w, map[string]any{"id": id}, http.StatusCreated)
}

// Stats exposes the public counters the kiosk idle screen shows.
func (h *SurveyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	total, err := h.submissionRepo.CountSubmissions(r.Context())
	if err != nil {
		logger.Error("count submissions", slog.Any("err", err))
		writeError(w, "failed to load stats", http.StatusInternalServerError)
		return
	}

	active, err := h.questionRepo.ListQuestions(r.Context(), true)
	if err != nil {
		logger.Error("list questions", slog.Any("err", err))
		writeError(w, "failed to load stats", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"total_submissions": total,
		"active_questions":  len(active),
	}, http.StatusOK)
}

// resolveAnswers maps payload entries onto concrete (question, option) pairs.
// A key resolves by "qN" position first, then by raw question id; a value
// resolves by option id first, then by value code. Anything that does not
// resolve is logged and dropped.
func resolveAnswers(ctx context.Context, active []models.Question, answers map[string]any) []models.Response {
	byID := make(map[int64]*models.Question, len(active))
	for i := range active {
		byID[active[i].ID] = &active[i]
	}

	var responses []models.Response
	seen := make(map[int64]bool)
	for key, raw := range answers {
		q := resolveQuestion(active, byID, key)
		if q == nil {
			logger.Warn("survey answer skipped: unknown question", slog.String("key", key))
			continue
		}
		if seen[q.ID] {
			logger.Warn("survey answer skipped: duplicate question", slog.String("key", key), slog.Int64("question_id", q.ID))
			continue
		}

		opt := resolveOption(q, raw)
		if opt == nil {
			logger.Warn("survey answer skipped: unknown option",
				slog.String("key", key),
				slog.Int64("question_id", q.ID),
				slog.Any("value", raw),
			)
			continue
		}

		seen[q.ID] = true
		responses = append(responses, models.Response{QuestionID: q.ID, OptionID: opt.ID})
	}
	return responses
}

func resolveQuestion(active []models.Question, byID map[int64]*models.Question, key string) *models.Question {
	if strings.HasPrefix(key, "q") {
		if n, err := strconv.Atoi(key[1:]); err == nil {
			if n >= 1 && n <= len(active) {
				return &active[n-1]
			}
			return nil
		}
	}
	if id, err := strconv.ParseInt(key, 10, 64); err == nil {
		return byID[id]
	}
	return nil
}

func resolveOption(q *models.Question, raw any) *models.AnswerOption {
	switch v := raw.(type) {
	case float64:
		id := int64(v)
		for i := range q.Options {
			if q.Options[i].ID == id {
				return &q.Options[i]
			}
		}
	case string:
		for i := range q.Options {
			if q.Options[i].Value == v {
				return &q.Options[i]
			}
		}
		// a numeric string still means an option id
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			for i := range q.Options {
				if q.Options[i].ID == id {
					return &q.Options[i]
				}
			}
		}
	}
	return nil
}
