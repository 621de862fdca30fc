package app

import (
	"sort"

	"quiz-api-service/internal/domain"
)

// Score checks a submission against questions ordered by position.
//
// The reported correct answer is its 1-based display position among the
// question's answers, never the answer ID. A question without a correct
// answer is left out of scoring and reported with position 0.
func Score(questions []domain.Question, submitted []*int) (domain.ScoreResult, error) {
	if len(submitted) == 0 {
		return domain.ScoreResult{}, domain.ErrEmptySubmission
	}
	if len(submitted) != len(questions) {
		return domain.ScoreResult{}, domain.ErrAnswerCountMismatch
	}

	result := domain.ScoreResult{Summaries: make([]domain.AnswerSummary, 0, len(questions))}
	for i, q := range questions {
		correct := CorrectAnswerPosition(q)
		if correct == 0 {
			result.Summaries = append(result.Summaries, domain.AnswerSummary{})
			continue
		}
		hit := submitted[i] != nil && *submitted[i] == correct
		if hit {
			result.TotalScore++
		}
		result.Summaries = append(result.Summaries, domain.AnswerSummary{
			CorrectAnswerPosition: correct,
			WasCorrect:            hit,
		})
	}
	return result, nil
}

// CorrectAnswerPosition returns the 1-based display position of the first
// correct answer of q, or 0 when none is marked correct.
func CorrectAnswerPosition(q domain.Question) int {
	answers := make([]domain.Answer, len(q.Answers))
	copy(answers, q.Answers)
	sort.SliceStable(answers, func(i, j int) bool { return answers[i].Order < answers[j].Order })
	for i, a := range answers {
		if a.IsCorrect {
			return i + 1
		}
	}
	return 0
}
