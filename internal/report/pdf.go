package report

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/prasetyadi/survey-kiosk/internal/models"
)

// ExportPDF renders the fixed one-page monthly report: header, four summary
// cards, a satisfaction meter and a per-question results table. All numbers
// come from Monthly so the export can never drift from the dashboard.
func (s *Service) ExportPDF(ctx context.Context, year, month int) ([]byte, error) {
	rep, err := s.Monthly(ctx, year, month)
	if err != nil {
		return nil, err
	}
	questions, err := s.repo.ListQuestions(ctx, true)
	if err != nil {
		return nil, err
	}

	// The last active question doubles as the "overall satisfaction" proxy:
	// its option labels caption the sentiment cards.
	labels := map[models.Sentiment]string{
		models.SentimentPositive: "Positive",
		models.SentimentNeutral:  "Neutral",
		models.SentimentNegative: "Negative",
	}
	var overall QuestionCounts
	if n := len(questions); n > 0 {
		last := questions[n-1]
		for _, o := range last.Options {
			labels[o.Sentiment] = o.Label
		}
		for _, qc := range rep.Questions {
			if qc.QuestionID == last.ID {
				overall = qc
			}
		}
	}
	overallTotal := overall.Positive + overall.Neutral + overall.Negative

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Laporan Survei Kepuasan", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	period := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.loc).Format("January 2006")
	pdf.CellFormat(0, 7, period, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// summary cards
	cards := []struct {
		label string
		value int64
	}{
		{"Total", rep.Total},
		{labels[models.SentimentPositive], overall.Positive},
		{labels[models.SentimentNeutral], overall.Neutral},
		{labels[models.SentimentNegative], overall.Negative},
	}
	cardW := 45.0
	x := pdf.GetX()
	y := pdf.GetY()
	for i, c := range cards {
		cx := x + float64(i)*(cardW+2)
		pdf.SetFillColor(240, 240, 245)
		pdf.Rect(cx, y, cardW, 20, "F")
		pdf.SetXY(cx, y+3)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(cardW, 7, strconv.FormatInt(c.value, 10), "", 0, "C", false, 0, "")
		pdf.SetXY(cx, y+11)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(cardW, 6, c.label, "", 0, "C", false, 0, "")
	}
	pdf.SetXY(x, y+26)

	// satisfaction meter: positive share of the overall proxy question
	pct := percent(overall.Positive, overallTotal)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Tingkat kepuasan: %d%%", pct), "", 1, "", false, 0, "")
	meterW := 180.0
	my := pdf.GetY()
	pdf.SetFillColor(225, 225, 225)
	pdf.Rect(x, my, meterW, 6, "F")
	if pct > 0 {
		pdf.SetFillColor(80, 170, 90)
		pdf.Rect(x, my, meterW*float64(pct)/100, 6, "F")
	}
	pdf.SetY(my + 12)

	// per-question results table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 235)
	pdf.CellFormat(96, 8, "Pertanyaan", "1", 0, "", true, 0, "")
	for _, sTag := range models.Sentiments {
		pdf.CellFormat(28, 8, labels[sTag], "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
	for _, qc := range rep.Questions {
		total := qc.Positive + qc.Neutral + qc.Negative
		pdf.CellFormat(96, 8, qc.Text, "1", 0, "", false, 0, "")
		for _, v := range []int64{qc.Positive, qc.Neutral, qc.Negative} {
			cell := fmt.Sprintf("%d (%d%%)", v, percent(v, total))
			pdf.CellFormat(28, 8, cell, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
