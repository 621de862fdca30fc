package http

import (
	"time"

	"quiz-api-service/internal/domain"
)

// dateLayout renders participation dates as dd/mm/yyyy hh:mm:ss.
const dateLayout = "02/01/2006 15:04:05"

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Message   string `json:"message"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

type answerView struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	IsCorrect *bool  `json:"isCorrect,omitempty"`
}

type questionView struct {
	ID              int64        `json:"id"`
	Position        int          `json:"position"`
	Title           string       `json:"title"`
	Text            string       `json:"text"`
	Image           *string      `json:"image"`
	PossibleAnswers []answerView `json:"possibleAnswers"`
}

type questionEnvelope struct {
	Question questionView `json:"question"`
}

type questionsEnvelope struct {
	Questions []questionView `json:"questions"`
}

type createdResponse struct {
	ID       int64 `json:"id"`
	Position int   `json:"position"`
}

type moveRequest struct {
	Position int `json:"position"`
}

type loginRequest struct {
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// participationRequest accepts both playerName and the older player_name key.
type participationRequest struct {
	PlayerName       string `json:"playerName"`
	LegacyPlayerName string `json:"player_name"`
	Answers          []*int `json:"answers"`
}

type participationResponse struct {
	AnswersSummaries []domain.AnswerSummary `json:"answersSummaries"`
	PlayerName       string                 `json:"playerName"`
	Score            int                    `json:"score"`
}

type scoreView struct {
	PlayerName string `json:"playerName"`
	Score      int    `json:"score"`
	Date       string `json:"date"`
}

type quizInfoResponse struct {
	Size   int         `json:"size"`
	Scores []scoreView `json:"scores"`
}

type leaderboardView struct {
	Entries   []scoreView `json:"entries"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// toQuestionView renders q for players, or with answer correctness for admins.
func toQuestionView(q domain.Question, withCorrect bool) questionView {
	view := questionView{
		ID:              q.ID,
		Position:        q.Position,
		Title:           q.Title,
		Text:            q.Text,
		PossibleAnswers: make([]answerView, 0, len(q.Answers)),
	}
	if q.Image != "" {
		image := q.Image
		view.Image = &image
	}
	for _, a := range q.Answers {
		av := answerView{ID: a.ID, Text: a.Text}
		if withCorrect {
			correct := a.IsCorrect
			av.IsCorrect = &correct
		}
		view.PossibleAnswers = append(view.PossibleAnswers, av)
	}
	return view
}

func toScoreViews(entries []domain.LeaderboardEntry) []scoreView {
	out := make([]scoreView, 0, len(entries))
	for _, e := range entries {
		out = append(out, scoreView{
			PlayerName: e.PlayerName,
			Score:      e.Score,
			Date:       e.Date.Format(dateLayout),
		})
	}
	return out
}

func toLeaderboardView(lb domain.Leaderboard) leaderboardView {
	return leaderboardView{Entries: toScoreViews(lb.Entries), UpdatedAt: lb.UpdatedAt}
}
