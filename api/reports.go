package api

import (
	"fmt"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/prasetyadi/survey-kiosk/internal/report"
	"github.com/prasetyadi/survey-kiosk/pkg/repository"
)

type ReportsHandler struct {
	service        *report.Service
	submissionRepo repository.SubmissionRepo
}

func NewReportsHandler(service *report.Service, sr repository.SubmissionRepo) *ReportsHandler {
	return &ReportsHandler{service: service, submissionRepo: sr}
}

func (h *ReportsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Dashboard(r.Context())
	if err != nil {
		logger.Error("dashboard", slog.Any("err", err))
		writeError(w, "failed to build dashboard", http.StatusInternalServerError)
		return
	}
	writeJSON(w, summary, http.StatusOK)
}

func (h *ReportsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	activity, err := h.service.Recent(r.Context(), n)
	if err != nil {
		logger.Error("recent activity", slog.Any("err", err))
		writeError(w, "failed to load recent activity", http.StatusInternalServerError)
		return
	}
	writeJSON(w, activity, http.StatusOK)
}

func (h *ReportsHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	hm, err := h.service.Heatmap(r.Context())
	if err != nil {
		logger.Error("heatmap", slog.Any("err", err))
		writeError(w, "failed to build heatmap", http.StatusInternalServerError)
		return
	}
	writeJSON(w, hm, http.StatusOK)
}

// Logs pages through the raw submission log, newest first.
func (h *ReportsHandler) Logs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	ctx := r.Context()
	subs, err := h.submissionRepo.ListSubmissions(ctx, limit, offset)
	if err != nil {
		logger.Error("list submissions", slog.Any("err", err))
		writeError(w, "failed to load submissions", http.StatusInternalServerError)
		return
	}
	total, err := h.submissionRepo.CountSubmissions(ctx)
	if err != nil {
		logger.Error("count submissions", slog.Any("err", err))
		writeError(w, "failed to load submissions", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"submissions": subs,
		"total":       total,
		"limit":       limit,
		"offset":      offset,
	}, http.StatusOK)
}

func (h *ReportsHandler) Months(w http.ResponseWriter, r *http.Request) {
	months, err := h.service.Months(r.Context())
	if err != nil {
		logger.Error("report months", slog.Any("err", err))
		writeError(w, "failed to list report months", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"months": months}, http.StatusOK)
}

func (h *ReportsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	year, month, ok := monthParams(w, r)
	if !ok {
		return
	}

	rep, err := h.service.Monthly(r.Context(), year, month)
	if err != nil {
		logger.Error("monthly report", slog.Any("err", err))
		writeError(w, "failed to build monthly report", http.StatusInternalServerError)
		return
	}
	writeJSON(w, rep, http.StatusOK)
}

func (h *ReportsHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	year, month, ok := monthParamsOptional(w, r)
	if !ok {
		return
	}

	data, err := h.service.ExportCSV(r.Context(), year, month)
	if err != nil {
		logger.Error("csv export", slog.Any("err", err))
		writeError(w, "failed to export CSV", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename("csv", year, month)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Error("write csv", slog.Any("err", err))
	}
}

func (h *ReportsHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	year, month, ok := monthParams(w, r)
	if !ok {
		return
	}

	data, err := h.service.ExportPDF(r.Context(), year, month)
	if err != nil {
		logger.Error("pdf export", slog.Any("err", err))
		writeError(w, "failed to export PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename("pdf", year, month)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Error("write pdf", slog.Any("err", err))
	}
}

// monthParams requires valid year and month query values.
func monthParams(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2200 {
		writeError(w, "invalid year", http.StatusBadRequest)
		return 0, 0, false
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, "invalid month", http.StatusBadRequest)
		return 0, 0, false
	}
	return year, month, true
}

// monthParamsOptional treats absent year/month as "all data".
func monthParamsOptional(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	if r.URL.Query().Get("year") == "" && r.URL.Query().Get("month") == "" {
		return 0, 0, true
	}
	return monthParams(w, r)
}

func exportFilename(ext string, year, month int) string {
	if year == 0 {
		return "survey-export." + ext
	}
	return fmt.Sprintf("survey-%04d-%02d.%s", year, month, ext)
}
