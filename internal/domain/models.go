package domain

import "time"

// AnswersPerQuestion is the fixed cardinality of a question's answer set.
const AnswersPerQuestion = 4

// Answer is one of the candidate answers of a question.
type Answer struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"-"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"isCorrect"`
	Order      int    `json:"-"` // 1-based display order within the question
}

// Question is a quiz entry occupying a unique slot of the dense position sequence.
type Question struct {
	ID        int64     `json:"id"`
	Position  int       `json:"position"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Image     string    `json:"image,omitempty"`
	Answers   []Answer  `json:"possibleAnswers"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// QuestionFields are the mutable scalar fields of a question.
type QuestionFields struct {
	Title string
	Text  string
	Image string
}

// AnswerDraft is an answer as submitted by an admin.
type AnswerDraft struct {
	Text      string `json:"text" validate:"required,max=500"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuestionDraft is the admin payload used to create or replace a question.
// A nil Position means "append at the end" on create and "keep" on update.
type QuestionDraft struct {
	Title    string        `json:"title" validate:"required,max=200"`
	Text     string        `json:"text" validate:"required"`
	Image    string        `json:"image"`
	Position *int          `json:"position"`
	Answers  []AnswerDraft `json:"possibleAnswers" validate:"len=4,dive"`
}

// Fields extracts the scalar fields of the draft.
func (d QuestionDraft) Fields() QuestionFields {
	return QuestionFields{Title: d.Title, Text: d.Text, Image: d.Image}
}

// AnswerList converts drafts into answers numbered by their display order.
func (d QuestionDraft) AnswerList() []Answer {
	answers := make([]Answer, 0, len(d.Answers))
	for i, a := range d.Answers {
		answers = append(answers, Answer{Text: a.Text, IsCorrect: a.IsCorrect, Order: i + 1})
	}
	return answers
}

// Participation is one completed quiz attempt. Immutable once stored.
type Participation struct {
	ID         int64     `json:"-"`
	PlayerName string    `json:"playerName"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"-"`
}

// AnswerSummary reports the outcome for a single question of a submission.
type AnswerSummary struct {
	CorrectAnswerPosition int  `json:"correctAnswerPosition"`
	WasCorrect            bool `json:"wasCorrect"`
}

// ScoreResult is the outcome of scoring one submission.
type ScoreResult struct {
	Summaries  []AnswerSummary `json:"answersSummaries"`
	TotalScore int             `json:"score"`
}

// LeaderboardEntry is a snapshot-friendly view of a participation.
type LeaderboardEntry struct {
	PlayerName string    `json:"playerName"`
	Score      int       `json:"score"`
	Date       time.Time `json:"date"`
}

// Leaderboard captures the ordered scoreboard.
type Leaderboard struct {
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// QuizInfo is the public summary of the quiz.
type QuizInfo struct {
	Size   int                `json:"size"`
	Scores []LeaderboardEntry `json:"scores"`
}

// Submission is a player's answer sheet: one 1-based answer position per
// question in position order, nil for an unanswered question.
type Submission struct {
	PlayerName string `json:"playerName" validate:"max=100"`
	Answers    []*int `json:"answers"`
}
