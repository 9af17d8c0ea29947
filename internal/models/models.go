package models

// Sentiment classifies an answer option for aggregate reporting.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Sentiments lists the closed set in display order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}

type Question struct {
	ID       int64          `json:"id" db:"id"`
	Position int            `json:"position" db:"position"`
	Text     string         `json:"text" db:"text"`
	Subtitle string         `json:"subtitle,omitempty" db:"subtitle"`
	Active   bool           `json:"active" db:"active"`
	Options  []AnswerOption `json:"options,omitempty"`
	Created  int64          `json:"created" db:"created"`
	Updated  int64          `json:"updated" db:"updated"`
}

// AnswerOption belongs to exactly one question. Every active question carries
// exactly one option per sentiment; the schema backs this with a unique
// (question_id, sentiment) index.
type AnswerOption struct {
	ID         int64     `json:"id" db:"id"`
	QuestionID int64     `json:"question_id" db:"question_id"`
	Value      string    `json:"value" db:"value"`
	Label      string    `json:"label" db:"label"`
	Position   int       `json:"position" db:"position"`
	Sentiment  Sentiment `json:"sentiment" db:"sentiment"`
}

// Submission is one complete kiosk interaction.
type Submission struct {
	ID        int64      `json:"id" db:"id"`
	ClientIP  string     `json:"client_ip" db:"client_ip"`
	UserAgent string     `json:"user_agent,omitempty" db:"user_agent"`
	Created   int64      `json:"created" db:"created"`
	Responses []Response `json:"responses,omitempty"`
}

// Response links a submission to the chosen option of one question.
// At most one response per (submission, question) pair.
type Response struct {
	ID           int64 `json:"id" db:"id"`
	SubmissionID int64 `json:"submission_id" db:"submission_id"`
	QuestionID   int64 `json:"question_id" db:"question_id"`
	OptionID     int64 `json:"option_id" db:"option_id"`
}

// AnswerRow is one resolved answer joined with its submission and option
// label, as consumed by the CSV exporter.
type AnswerRow struct {
	SubmissionID int64  `json:"submission_id"`
	Created      int64  `json:"created"`
	QuestionID   int64  `json:"question_id"`
	Label        string `json:"label"`
}

type AdminUser struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	Name         string `json:"name,omitempty" db:"name"`
	PasswordHash string `json:"-" db:"password_hash"`
	Active       bool   `json:"active" db:"active"`
	LastLogin    *int64 `json:"last_login,omitempty" db:"last_login"`
	Created      int64  `json:"created" db:"created"`
	Updated      int64  `json:"updated" db:"updated"`
}
