package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"quiz-api-service/internal/app"
	"quiz-api-service/internal/domain"
)

// QuestionStore is an in-memory implementation of app.QuestionStore.
// Like the SQL schema it rejects two questions sharing a position, and a
// transaction works on a copy that only replaces the live state on commit.
type QuestionStore struct {
	txMu  sync.Mutex // one writer transaction at a time
	mu    sync.RWMutex
	state questionState
	clock func() time.Time
}

type questionState struct {
	questions    map[int64]domain.Question
	nextQuestion int64
	nextAnswer   int64
}

func NewQuestionStore() *QuestionStore {
	return &QuestionStore{
		state: questionState{questions: make(map[int64]domain.Question)},
		clock: time.Now,
	}
}

// NewQuestionStoreWithClock is test-only for deterministic timestamps.
func NewQuestionStoreWithClock(now func() time.Time) *QuestionStore {
	s := NewQuestionStore()
	s.clock = now
	return s
}

func (s *QuestionStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx app.QuestionTx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	working := s.state.clone()
	s.mu.RUnlock()

	if err := fn(ctx, &questionTx{state: &working, clock: s.clock}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = working
	s.mu.Unlock()
	return nil
}

func (s *QuestionStore) ListOrderedByPosition(_ context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ordered(), nil
}

func (s *QuestionStore) GetByID(_ context.Context, id int64) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.byID(id)
}

func (s *QuestionStore) GetByPosition(_ context.Context, position int) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.byPosition(position)
}

func (s *QuestionStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.questions), nil
}

func (s *QuestionStore) MaxPosition(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.maxPosition(), nil
}

type questionTx struct {
	state *questionState
	clock func() time.Time
}

func (t *questionTx) ListOrderedByPosition(_ context.Context) ([]domain.Question, error) {
	return t.state.ordered(), nil
}

func (t *questionTx) GetByID(_ context.Context, id int64) (domain.Question, error) {
	return t.state.byID(id)
}

func (t *questionTx) GetByPosition(_ context.Context, position int) (domain.Question, error) {
	return t.state.byPosition(position)
}

func (t *questionTx) Count(_ context.Context) (int, error) {
	return len(t.state.questions), nil
}

func (t *questionTx) MaxPosition(_ context.Context) (int, error) {
	return t.state.maxPosition(), nil
}

func (t *questionTx) Insert(_ context.Context, q *domain.Question) error {
	if err := t.state.checkPositionFree(0, q.Position); err != nil {
		return err
	}
	now := t.clock()
	t.state.nextQuestion++
	q.ID = t.state.nextQuestion
	q.CreatedAt = now
	q.UpdatedAt = now
	q.Answers = t.state.numberAnswers(q.ID, q.Answers)
	t.state.questions[q.ID] = cloneQuestion(*q)
	return nil
}

func (t *questionTx) UpdateFields(_ context.Context, id int64, fields domain.QuestionFields) error {
	q, ok := t.state.questions[id]
	if !ok {
		return domain.ErrQuestionNotFound
	}
	q.Title = fields.Title
	q.Text = fields.Text
	q.Image = fields.Image
	q.UpdatedAt = t.clock()
	t.state.questions[id] = q
	return nil
}

func (t *questionTx) ReplaceAnswers(_ context.Context, id int64, answers []domain.Answer) error {
	q, ok := t.state.questions[id]
	if !ok {
		return domain.ErrQuestionNotFound
	}
	q.Answers = t.state.numberAnswers(id, answers)
	q.UpdatedAt = t.clock()
	t.state.questions[id] = q
	return nil
}

func (t *questionTx) UpdatePosition(_ context.Context, id int64, position int) error {
	q, ok := t.state.questions[id]
	if !ok {
		return domain.ErrQuestionNotFound
	}
	if err := t.state.checkPositionFree(id, position); err != nil {
		return err
	}
	q.Position = position
	q.UpdatedAt = t.clock()
	t.state.questions[id] = q
	return nil
}

func (t *questionTx) Delete(_ context.Context, id int64) error {
	if _, ok := t.state.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(t.state.questions, id)
	return nil
}

func (t *questionTx) DeleteAll(_ context.Context) error {
	t.state.questions = make(map[int64]domain.Question)
	return nil
}

func (s questionState) clone() questionState {
	out := questionState{
		questions:    make(map[int64]domain.Question, len(s.questions)),
		nextQuestion: s.nextQuestion,
		nextAnswer:   s.nextAnswer,
	}
	for id, q := range s.questions {
		out.questions[id] = cloneQuestion(q)
	}
	return out
}

func (s questionState) ordered() []domain.Question {
	out := make([]domain.Question, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, cloneQuestion(q))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (s questionState) byID(id int64) (domain.Question, error) {
	q, ok := s.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return cloneQuestion(q), nil
}

func (s questionState) byPosition(position int) (domain.Question, error) {
	for _, q := range s.questions {
		if q.Position == position {
			return cloneQuestion(q), nil
		}
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func (s questionState) maxPosition() int {
	highest := 0
	for _, q := range s.questions {
		if q.Position > highest {
			highest = q.Position
		}
	}
	return highest
}

// checkPositionFree mirrors the UNIQUE(position) constraint of the SQL schema.
func (s questionState) checkPositionFree(id int64, position int) error {
	for other, q := range s.questions {
		if other != id && q.Position == position {
			return fmt.Errorf("unique constraint violated: position %d held by question %d", position, other)
		}
	}
	return nil
}

func (s *questionState) numberAnswers(questionID int64, answers []domain.Answer) []domain.Answer {
	out := make([]domain.Answer, len(answers))
	for i, a := range answers {
		s.nextAnswer++
		a.ID = s.nextAnswer
		a.QuestionID = questionID
		out[i] = a
	}
	return out
}

func cloneQuestion(q domain.Question) domain.Question {
	if q.Answers != nil {
		answers := make([]domain.Answer, len(q.Answers))
		copy(answers, q.Answers)
		q.Answers = answers
	}
	return q
}
