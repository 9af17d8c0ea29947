// Package report builds the dashboard statistics, heatmap and monthly
// rollups, and renders the CSV/PDF exports from the same aggregates so the
// numbers never drift apart.
package report

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/prasetyadi/survey-kiosk/internal/models"
	"github.com/prasetyadi/survey-kiosk/pkg/repository"
)

const (
	suspiciousWindow    = 10 * time.Minute
	suspiciousThreshold = 3
	heatmapDays         = 30
	trendDays           = 7
)

type Service struct {
	repo repository.ReportRepo
	loc  *time.Location
	now  func() time.Time
}

func NewService(repo repository.ReportRepo, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, loc: loc, now: time.Now}
}

// NewServiceAt is like NewService with an injectable clock, for tests.
func NewServiceAt(repo repository.ReportRepo, loc *time.Location, now func() time.Time) *Service {
	s := NewService(repo, loc)
	s.now = now
	return s
}

type QuestionCounts struct {
	QuestionID int64  `json:"question_id"`
	Text       string `json:"text"`
	Positive   int64  `json:"positive"`
	Neutral    int64  `json:"neutral"`
	Negative   int64  `json:"negative"`
}

type TrendPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type DashboardSummary struct {
	Total     int64            `json:"total"`
	Today     int64            `json:"today"`
	ThisMonth int64            `json:"this_month"`
	Questions []QuestionCounts `json:"questions"`
	Trend     []TrendPoint     `json:"last_7_days"`
}

type RecentSubmission struct {
	ID         int64  `json:"id"`
	ClientIP   string `json:"client_ip"`
	UserAgent  string `json:"user_agent,omitempty"`
	Created    string `json:"created"`
	Suspicious bool   `json:"is_suspicious"`
}

type RecentActivity struct {
	Submissions   []RecentSubmission `json:"submissions"`
	SuspiciousIPs []string           `json:"suspicious_ips"`
}

type Heatmap struct {
	// Matrix[dayOfWeek][hourOfDay], 0=Sunday..6=Saturday.
	Matrix [7][24]int64 `json:"matrix"`
	Max    int64        `json:"max"`
	Total  int64        `json:"total"`
}

type MonthlyReport struct {
	Year      int              `json:"year"`
	Month     int              `json:"month"`
	Total     int64            `json:"total"`
	Questions []QuestionCounts `json:"questions"`
	Daily     []TrendPoint     `json:"daily"`
}

func (s *Service) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	nowT := s.now().In(s.loc)
	dayStart := time.Date(nowT.Year(), nowT.Month(), nowT.Day(), 0, 0, 0, 0, s.loc)
	monthStart := time.Date(nowT.Year(), nowT.Month(), 1, 0, 0, 0, 0, s.loc)

	total, err := s.repo.CountSubmissionsBetween(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	today, err := s.repo.CountSubmissionsBetween(ctx, dayStart.Unix(), 0)
	if err != nil {
		return nil, err
	}
	thisMonth, err := s.repo.CountSubmissionsBetween(ctx, monthStart.Unix(), 0)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionCounts(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	trendStart := dayStart.AddDate(0, 0, -(trendDays - 1))
	times, err := s.repo.ListSubmissionTimes(ctx, trendStart.Unix(), 0)
	if err != nil {
		return nil, err
	}
	trend := s.bucketByDay(times, trendStart, trendDays)

	return &DashboardSummary{
		Total:     total,
		Today:     today,
		ThisMonth: thisMonth,
		Questions: questions,
		Trend:     trend,
	}, nil
}

func (s *Service) Recent(ctx context.Context, n int) (*RecentActivity, error) {
	if n <= 0 {
		n = 15
	}
	subs, err := s.repo.RecentSubmissions(ctx, n)
	if err != nil {
		return nil, err
	}
	since := s.now().Add(-suspiciousWindow).Unix()
	counts, err := s.repo.SubmissionCountsByIP(ctx, since)
	if err != nil {
		return nil, err
	}

	suspicious := map[string]bool{}
	for ip, c := range counts {
		if c >= suspiciousThreshold {
			suspicious[ip] = true
		}
	}
	ips := make([]string, 0, len(suspicious))
	for ip := range suspicious {
		ips = append(ips, ip)
	}
	sort.Strings(ips)

	out := make([]RecentSubmission, 0, len(subs))
	for _, sub := range subs {
		out = append(out, RecentSubmission{
			ID:         sub.ID,
			ClientIP:   sub.ClientIP,
			UserAgent:  sub.UserAgent,
			Created:    time.Unix(sub.Created, 0).In(s.loc).Format(time.RFC3339),
			Suspicious: suspicious[sub.ClientIP],
		})
	}

	return &RecentActivity{Submissions: out, SuspiciousIPs: ips}, nil
}

func (s *Service) Heatmap(ctx context.Context) (*Heatmap, error) {
	from := s.now().AddDate(0, 0, -heatmapDays).Unix()
	times, err := s.repo.ListSubmissionTimes(ctx, from, 0)
	if err != nil {
		return nil, err
	}

	var hm Heatmap
	for _, ts := range times {
		t := time.Unix(ts, 0).In(s.loc)
		hm.Matrix[int(t.Weekday())][t.Hour()]++
		hm.Total++
	}
	for d := range hm.Matrix {
		for h := range hm.Matrix[d] {
			if hm.Matrix[d][h] > hm.Max {
				hm.Max = hm.Matrix[d][h]
			}
		}
	}

	return &hm, nil
}

func (s *Service) Monthly(ctx context.Context, year, month int) (*MonthlyReport, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 1, 0)

	total, err := s.repo.CountSubmissionsBetween(ctx, from.Unix(), to.Unix())
	if err != nil {
		return nil, err
	}
	questions, err := s.questionCounts(ctx, from.Unix(), to.Unix())
	if err != nil {
		return nil, err
	}
	times, err := s.repo.ListSubmissionTimes(ctx, from.Unix(), to.Unix())
	if err != nil {
		return nil, err
	}
	days := to.AddDate(0, 0, -1).Day()
	daily := s.bucketByDay(times, from, days)

	return &MonthlyReport{
		Year:      year,
		Month:     month,
		Total:     total,
		Questions: questions,
		Daily:     daily,
	}, nil
}

// Months lists "YYYY-MM" keys of months holding data, newest first.
func (s *Service) Months(ctx context.Context) ([]string, error) {
	times, err := s.repo.ListSubmissionTimes(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for _, ts := range times {
		seen[time.Unix(ts, 0).In(s.loc).Format("2006-01")] = true
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out, nil
}

// MonthBounds returns the unix-second range of the given calendar month in
// the service timezone. Zero year means unbounded (no filter).
func (s *Service) MonthBounds(year, month int) (from, to int64) {
	if year == 0 {
		return 0, 0
	}
	f := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.loc)
	return f.Unix(), f.AddDate(0, 1, 0).Unix()
}

func (s *Service) questionCounts(ctx context.Context, from, to int64) ([]QuestionCounts, error) {
	questions, err := s.repo.ListQuestions(ctx, true)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.SentimentCounts(ctx, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]QuestionCounts, 0, len(questions))
	for _, q := range questions {
		c := counts[q.ID]
		out = append(out, QuestionCounts{
			QuestionID: q.ID,
			Text:       q.Text,
			Positive:   c[models.SentimentPositive],
			Neutral:    c[models.SentimentNeutral],
			Negative:   c[models.SentimentNegative],
		})
	}
	return out, nil
}

// bucketByDay fills a fixed number of day buckets starting at start,
// zero-filled so every day appears even without data.
func (s *Service) bucketByDay(times []int64, start time.Time, days int) []TrendPoint {
	counts := map[string]int64{}
	for _, ts := range times {
		counts[time.Unix(ts, 0).In(s.loc).Format("2006-01-02")]++
	}
	out := make([]TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		key := start.AddDate(0, 0, i).Format("2006-01-02")
		out = append(out, TrendPoint{Date: key, Count: counts[key]})
	}
	return out
}

// percent rounds to the nearest integer; zero total yields 0 rather than an
// error.
func percent(part, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
