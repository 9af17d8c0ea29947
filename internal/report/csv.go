package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"sort"
	"strconv"
	"time"
)

// ExportCSV renders one row per submission with one column per active
// question holding the chosen option's human-readable label. Zero year means
// no month filter.
func (s *Service) ExportCSV(ctx context.Context, year, month int) ([]byte, error) {
	from, to := s.MonthBounds(year, month)

	questions, err := s.repo.ListQuestions(ctx, true)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListAnswerRows(ctx, from, to)
	if err != nil {
		return nil, err
	}

	type subRow struct {
		created int64
		labels  map[int64]string
	}
	bySub := map[int64]*subRow{}
	order := []int64{}
	for _, r := range rows {
		sr := bySub[r.SubmissionID]
		if sr == nil {
			sr = &subRow{created: r.Created, labels: map[int64]string{}}
			bySub[r.SubmissionID] = sr
			order = append(order, r.SubmissionID)
		}
		sr.labels[r.QuestionID] = r.Label
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := bySub[order[i]], bySub[order[j]]
		if a.created == b.created {
			return order[i] < order[j]
		}
		return a.created < b.created
	})

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"submission_id", "submitted_at"}
	for _, q := range questions {
		header = append(header, q.Text)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, id := range order {
		sr := bySub[id]
		rec := []string{
			strconv.FormatInt(id, 10),
			time.Unix(sr.created, 0).In(s.loc).Format(time.RFC3339),
		}
		for _, q := range questions {
			rec = append(rec, sr.labels[q.ID])
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
