package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"quiz-api-service/internal/domain"
)

// DefaultLeaderboardSize is the number of scores shown when none is configured.
const DefaultLeaderboardSize = 10

// DefaultPlayerName is recorded for submissions without a player name.
const DefaultPlayerName = "Anonymous"

// QuizService contains the quiz use cases exposed to the API layer.
type QuizService struct {
	questions       QuestionStore
	ledger          *PositionLedger
	participations  ParticipationRepository
	hub             *LeaderboardHub
	images          ImageValidator
	validate        *validator.Validate
	leaderboardSize int
	now             func() time.Time
}

// Option customizes a QuizService.
type Option func(*QuizService)

// WithImageValidator enables validation of question images.
func WithImageValidator(v ImageValidator) Option {
	return func(s *QuizService) { s.images = v }
}

// WithLeaderboardSize sets how many scores QuizInfo and the live stream carry.
func WithLeaderboardSize(n int) Option {
	return func(s *QuizService) {
		if n > 0 {
			s.leaderboardSize = n
		}
	}
}

// WithClock is test-only for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

func NewQuizService(questions QuestionStore, participations ParticipationRepository, opts ...Option) *QuizService {
	s := &QuizService{
		questions:       questions,
		ledger:          NewPositionLedger(questions),
		participations:  participations,
		hub:             NewLeaderboardHub(),
		validate:        newValidator(),
		leaderboardSize: DefaultLeaderboardSize,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QuizInfo returns the number of questions and the top scores.
func (s *QuizService) QuizInfo(ctx context.Context) (domain.QuizInfo, error) {
	n, err := s.questions.Count(ctx)
	if err != nil {
		return domain.QuizInfo{}, storageError("count questions", err)
	}
	lb, err := s.Leaderboard(ctx, s.leaderboardSize)
	if err != nil {
		return domain.QuizInfo{}, err
	}
	return domain.QuizInfo{Size: n, Scores: lb.Entries}, nil
}

// Question returns a question by ID.
func (s *QuizService) Question(ctx context.Context, id int64) (domain.Question, error) {
	q, err := s.questions.GetByID(ctx, id)
	return q, storageError("get question", err)
}

// QuestionAt returns the question occupying position.
func (s *QuizService) QuestionAt(ctx context.Context, position int) (domain.Question, error) {
	if position < 1 {
		return domain.Question{}, fmt.Errorf("%w: %d", domain.ErrInvalidPosition, position)
	}
	q, err := s.questions.GetByPosition(ctx, position)
	return q, storageError("get question by position", err)
}

// Questions lists every question in position order.
func (s *QuizService) Questions(ctx context.Context) ([]domain.Question, error) {
	qs, err := s.questions.ListOrderedByPosition(ctx)
	return qs, storageError("list questions", err)
}

// CreateQuestion validates draft and inserts it at its requested position.
func (s *QuizService) CreateQuestion(ctx context.Context, draft domain.QuestionDraft) (domain.Question, error) {
	if err := s.validateDraft(draft); err != nil {
		return domain.Question{}, err
	}
	fields := draft.Fields()
	return s.ledger.InsertAt(ctx, draft.Position, domain.Question{
		Title:   fields.Title,
		Text:    fields.Text,
		Image:   fields.Image,
		Answers: draft.AnswerList(),
	})
}

// UpdateQuestion replaces a question's content and moves it when draft
// carries a new position.
func (s *QuizService) UpdateQuestion(ctx context.Context, id int64, draft domain.QuestionDraft) (domain.Question, error) {
	if err := s.validateDraft(draft); err != nil {
		return domain.Question{}, err
	}
	return s.ledger.Replace(ctx, id, draft.Position, draft.Fields(), draft.AnswerList())
}

// MoveQuestion moves a question to position.
func (s *QuizService) MoveQuestion(ctx context.Context, id int64, position int) error {
	return s.ledger.MoveTo(ctx, id, position)
}

// DeleteQuestion removes a question and renumbers the ones after it.
func (s *QuizService) DeleteQuestion(ctx context.Context, id int64) error {
	return s.ledger.RemoveAt(ctx, id)
}

// DeleteAllQuestions removes every question.
func (s *QuizService) DeleteAllQuestions(ctx context.Context) error {
	return s.ledger.RemoveAll(ctx)
}

// Submit scores a submission against the current questions and records it.
func (s *QuizService) Submit(ctx context.Context, sub domain.Submission) (domain.ScoreResult, domain.Participation, error) {
	sub.PlayerName = strings.TrimSpace(sub.PlayerName)
	if err := s.validateStruct(sub); err != nil {
		return domain.ScoreResult{}, domain.Participation{}, err
	}
	if sub.PlayerName == "" {
		sub.PlayerName = DefaultPlayerName
	}

	questions, err := s.questions.ListOrderedByPosition(ctx)
	if err != nil {
		return domain.ScoreResult{}, domain.Participation{}, storageError("list questions", err)
	}
	result, err := Score(questions, sub.Answers)
	if err != nil {
		return domain.ScoreResult{}, domain.Participation{}, err
	}

	p := domain.Participation{
		PlayerName: sub.PlayerName,
		Score:      result.TotalScore,
		CreatedAt:  s.now(),
	}
	if err := s.participations.Add(ctx, &p); err != nil {
		return domain.ScoreResult{}, domain.Participation{}, storageError("add participation", err)
	}
	s.broadcast(ctx)
	return result, p, nil
}

// Leaderboard returns the top limit participations.
func (s *QuizService) Leaderboard(ctx context.Context, limit int) (domain.Leaderboard, error) {
	if limit <= 0 {
		limit = s.leaderboardSize
	}
	top, err := s.participations.Top(ctx, limit)
	if err != nil {
		return domain.Leaderboard{}, storageError("top participations", err)
	}
	entries := make([]domain.LeaderboardEntry, 0, len(top))
	for _, p := range top {
		entries = append(entries, domain.LeaderboardEntry{
			PlayerName: p.PlayerName,
			Score:      p.Score,
			Date:       p.CreatedAt,
		})
	}
	return domain.Leaderboard{Entries: entries, UpdatedAt: s.now()}, nil
}

// DeleteAllParticipations clears the leaderboard.
func (s *QuizService) DeleteAllParticipations(ctx context.Context) error {
	if err := s.participations.DeleteAll(ctx); err != nil {
		return storageError("delete participations", err)
	}
	s.broadcast(ctx)
	return nil
}

// Subscribe returns a channel of leaderboard snapshots, starting with the
// current one. The caller must invoke the returned cancel function.
func (s *QuizService) Subscribe(ctx context.Context) (<-chan domain.Leaderboard, func(), error) {
	lb, err := s.Leaderboard(ctx, s.leaderboardSize)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.hub.Subscribe(lb)
	return ch, cancel, nil
}

func (s *QuizService) broadcast(ctx context.Context) {
	if s.hub.Subscribers() == 0 {
		return
	}
	lb, err := s.Leaderboard(ctx, s.leaderboardSize)
	if err != nil {
		return
	}
	s.hub.Publish(lb)
}
