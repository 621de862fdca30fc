package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"quiz-api-service/internal/domain"
)

// ParkedPosition is the out-of-range slot a question occupies while its
// neighbours are being renumbered around it.
const ParkedPosition = -1

// PositionLedger keeps question positions dense (1..N) and unique.
//
// Every mutation runs inside a single store transaction and renumbers rows one
// at a time in an order that never puts two rows on the same position, so a
// store enforcing a unique constraint on position accepts each statement.
// Mutations are serialized in-process; stores shared between processes
// serialize with their own locking inside WithinTx.
type PositionLedger struct {
	mu    sync.Mutex
	store QuestionStore
}

func NewPositionLedger(store QuestionStore) *PositionLedger {
	return &PositionLedger{store: store}
}

// InsertAt writes q at target, or at the end when target is nil.
func (l *PositionLedger) InsertAt(ctx context.Context, target *int, q domain.Question) (domain.Question, error) {
	var created domain.Question
	err := l.run(ctx, "insert question", func(ctx context.Context, tx QuestionTx) error {
		n, err := tx.Count(ctx)
		if err != nil {
			return err
		}
		position := n + 1
		if target != nil {
			position = *target
		}
		if position < 1 || position > n+1 {
			return fmt.Errorf("%w: %d not in [1, %d]", domain.ErrInvalidPosition, position, n+1)
		}
		if position <= n {
			if err := shift(ctx, tx, position, n, +1); err != nil {
				return err
			}
		}
		q.ID = 0
		q.Position = position
		if err := tx.Insert(ctx, &q); err != nil {
			return err
		}
		created = q
		return nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return created, nil
}

// MoveTo relocates a question to newPosition, shifting the questions between
// its old and new slot by one.
func (l *PositionLedger) MoveTo(ctx context.Context, id int64, newPosition int) error {
	return l.run(ctx, "move question", func(ctx context.Context, tx QuestionTx) error {
		q, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return moveWithin(ctx, tx, q, newPosition)
	})
}

// Replace overwrites the fields and answers of a question and, when the draft
// carries a position, moves it there. All of it commits together.
func (l *PositionLedger) Replace(ctx context.Context, id int64, position *int, fields domain.QuestionFields, answers []domain.Answer) (domain.Question, error) {
	var updated domain.Question
	err := l.run(ctx, "replace question", func(ctx context.Context, tx QuestionTx) error {
		q, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if position != nil {
			if err := moveWithin(ctx, tx, q, *position); err != nil {
				return err
			}
		}
		if err := tx.UpdateFields(ctx, id, fields); err != nil {
			return err
		}
		if err := tx.ReplaceAnswers(ctx, id, answers); err != nil {
			return err
		}
		updated, err = tx.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return domain.Question{}, err
	}
	return updated, nil
}

// RemoveAt deletes a question with its answers and closes the gap it leaves.
func (l *PositionLedger) RemoveAt(ctx context.Context, id int64) error {
	return l.run(ctx, "remove question", func(ctx context.Context, tx QuestionTx) error {
		q, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		// Deleting first frees the slot the first shifted row lands on.
		if err := tx.Delete(ctx, id); err != nil {
			return err
		}
		return shift(ctx, tx, q.Position+1, math.MaxInt, -1)
	})
}

// RemoveAll deletes every question. The empty set is trivially dense.
func (l *PositionLedger) RemoveAll(ctx context.Context) error {
	return l.run(ctx, "remove all questions", func(ctx context.Context, tx QuestionTx) error {
		return tx.DeleteAll(ctx)
	})
}

func (l *PositionLedger) run(ctx context.Context, op string, fn func(ctx context.Context, tx QuestionTx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return storageError(op, l.store.WithinTx(ctx, fn))
}

// moveWithin runs the park, shift, commit sequence for q.
func moveWithin(ctx context.Context, tx QuestionTx, q domain.Question, newPosition int) error {
	n, err := tx.Count(ctx)
	if err != nil {
		return err
	}
	if newPosition < 1 || newPosition > n {
		return fmt.Errorf("%w: %d not in [1, %d]", domain.ErrInvalidPosition, newPosition, n)
	}
	oldPosition := q.Position
	if newPosition == oldPosition {
		return nil
	}

	if err := tx.UpdatePosition(ctx, q.ID, ParkedPosition); err != nil {
		return err
	}
	if newPosition > oldPosition {
		err = shift(ctx, tx, oldPosition+1, newPosition, -1)
	} else {
		err = shift(ctx, tx, newPosition, oldPosition-1, +1)
	}
	if err != nil {
		return err
	}
	return tx.UpdatePosition(ctx, q.ID, newPosition)
}

// shift adds delta to the position of every question in [from, to]. Rows are
// visited highest first when incrementing and lowest first when decrementing,
// so each row moves into a slot that is already free.
func shift(ctx context.Context, tx QuestionTx, from, to, delta int) error {
	if from > to {
		return nil
	}
	questions, err := tx.ListOrderedByPosition(ctx)
	if err != nil {
		return err
	}
	affected := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if q.Position >= from && q.Position <= to {
			affected = append(affected, q)
		}
	}
	if delta > 0 {
		for i, j := 0, len(affected)-1; i < j; i, j = i+1, j-1 {
			affected[i], affected[j] = affected[j], affected[i]
		}
	}
	for _, q := range affected {
		if err := tx.UpdatePosition(ctx, q.ID, q.Position+delta); err != nil {
			return err
		}
	}
	return nil
}

// storageError tags store failures; domain errors pass through untouched.
func storageError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrInvalidPosition),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrStorageFailure),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %s: %w", domain.ErrStorageFailure, op, err)
	}
}
