package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/gorilla/mux"

	"github.com/prasetyadi/survey-kiosk/internal/models"
	"github.com/prasetyadi/survey-kiosk/pkg/repository"
)

type QuestionsHandler struct {
	questionRepo repository.QuestionRepo
}

func NewQuestionsHandler(qr repository.QuestionRepo) *QuestionsHandler {
	return &QuestionsHandler{questionRepo: qr}
}

// ListPublic returns the active questions the kiosk renders.
func (h *QuestionsHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	questions, err := h.questionRepo.ListQuestions(r.Context(), true)
	if err != nil {
		logger.Error("list questions", slog.Any("err", err))
		writeError(w, "failed to load questions", http.StatusInternalServerError)
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}

	writeJSON(w, map[string]any{"questions": questions}, http.StatusOK)
}

// ListAll is the admin view and includes inactive questions.
func (h *QuestionsHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	questions, err := h.questionRepo.ListQuestions(r.Context(), false)
	if err != nil {
		logger.Error("list questions", slog.Any("err", err))
		writeError(w, "failed to load questions", http.StatusInternalServerError)
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}

	writeJSON(w, map[string]any{"questions": questions}, http.StatusOK)
}

type createQuestionRequest struct {
	Text     string                `json:"text"`
	Subtitle string                `json:"subtitle,omitempty"`
	Options  []models.AnswerOption `json:"options,omitempty"`
}

func (h *QuestionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		writeError(w, "text is required", http.StatusBadRequest)
		return
	}
	if len(req.Options) > 0 && !oneOptionPerSentiment(req.Options) {
		writeError(w, "options must carry exactly one positive, one neutral and one negative entry", http.StatusBadRequest)
		return
	}

	q := models.Question{
		Text:     req.Text,
		Subtitle: req.Subtitle,
		Active:   true,
		Options:  req.Options,
	}
	id, err := h.questionRepo.CreateQuestion(r.Context(), &q)
	if err != nil {
		logger.Error("create question", slog.Any("err", err))
		writeError(w, "failed to create question", http.StatusInternalServerError)
		return
	}

	created, err := h.questionRepo.GetQuestion(r.Context(), id)
	if err != nil || created == nil {
		writeJSON(w, map[string]any{"id": id}, http.StatusCreated)
		return
	}
	writeJSON(w, created, http.StatusCreated)
}

type updateQuestionRequest struct {
	Text     *string               `json:"text,omitempty"`
	Subtitle *string               `json:"subtitle,omitempty"`
	Active   *bool                 `json:"active,omitempty"`
	Options  []models.AnswerOption `json:"options,omitempty"`
}

func (h *QuestionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	q, err := h.questionRepo.GetQuestion(r.Context(), id)
	if err != nil {
		logger.Error("get question", slog.Any("err", err))
		writeError(w, "failed to load question", http.StatusInternalServerError)
		return
	}
	if q == nil {
		writeError(w, "question not found", http.StatusNotFound)
		return
	}

	if req.Text != nil {
		q.Text = *req.Text
	}
	if req.Subtitle != nil {
		q.Subtitle = *req.Subtitle
	}
	if req.Active != nil {
		q.Active = *req.Active
	}
	// only labels of existing options are updatable here
	q.Options = req.Options

	if err := h.questionRepo.UpdateQuestion(r.Context(), q); err != nil {
		logger.Error("update question", slog.Any("err", err))
		writeError(w, "failed to update question", http.StatusInternalServerError)
		return
	}

	updated, err := h.questionRepo.GetQuestion(r.Context(), id)
	if err != nil || updated == nil {
		writeJSON(w, map[string]any{"id": id}, http.StatusOK)
		return
	}
	writeJSON(w, updated, http.StatusOK)
}

func (h *QuestionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	q, err := h.questionRepo.GetQuestion(r.Context(), id)
	if err != nil {
		logger.Error("get question", slog.Any("err", err))
		writeError(w, "failed to load question", http.StatusInternalServerError)
		return
	}
	if q == nil {
		writeError(w, "question not found", http.StatusNotFound)
		return
	}

	err = h.questionRepo.DeleteQuestion(r.Context(), id)
	if errors.Is(err, repository.ErrConflict) {
		// recorded responses reference this question; deactivate instead of
		// losing data
		if err := h.questionRepo.SetQuestionActive(r.Context(), id, false); err != nil {
			logger.Error("deactivate question", slog.Any("err", err))
			writeError(w, "failed to deactivate question", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{
			"error":       "question has recorded responses; deactivated instead",
			"deactivated": true,
		}, http.StatusConflict)
		return
	}
	if err != nil {
		logger.Error("delete question", slog.Any("err", err))
		writeError(w, "failed to delete question", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"deleted": true}, http.StatusOK)
}

type reorderRequest struct {
	Positions []repository.QuestionPosition `json:"positions"`
}

func (h *QuestionsHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if len(req.Positions) == 0 {
		writeError(w, "positions are required", http.StatusBadRequest)
		return
	}

	if err := h.questionRepo.ReorderQuestions(r.Context(), req.Positions); err != nil {
		logger.Error("reorder questions", slog.Any("err", err))
		writeError(w, "failed to reorder questions", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"ok": true}, http.StatusOK)
}

func (h *QuestionsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.questionRepo.ResetQuestions(r.Context()); err != nil {
		logger.Error("reset questions", slog.Any("err", err))
		writeError(w, "failed to reset questions", http.StatusInternalServerError)
		return
	}

	questions, err := h.questionRepo.ListQuestions(r.Context(), false)
	if err != nil {
		writeJSON(w, map[string]any{"ok": true}, http.StatusOK)
		return
	}
	writeJSON(w, map[string]any{"ok": true, "questions": questions}, http.StatusOK)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, "invalid question id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func oneOptionPerSentiment(opts []models.AnswerOption) bool {
	if len(opts) != len(models.Sentiments) {
		return false
	}
	seen := map[models.Sentiment]bool{}
	for _, o := range opts {
		if seen[o.Sentiment] {
			return false
		}
		seen[o.Sentiment] = true
	}
	for _, s := range models.Sentiments {
		if !seen[s] {
			return false
		}
	}
	return true
}
