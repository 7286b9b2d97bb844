package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/fluentcli/internal/entity"
	"github.com/eslsoft/fluentcli/internal/gateway"
)

// FeedbackDelay is the fixed window a driver shows per-answer feedback
// before calling Advance. Drivers should wait on a context-aware timer so an
// aborted session does not fire a stale advancement.
const FeedbackDelay = 2 * time.Second

// QuizState is the lifecycle phase of a quiz session.
type QuizState string

const (
	QuizLoading QuizState = "loading"
	QuizActive  QuizState = "active"
	// QuizResult is terminal for scoring: accumulators are locked and the
	// one-shot submission may fire.
	QuizResult QuizState = "result"
)

// Quiz consumes a generated question list, accumulating a score and the list
// of missed words. Scoring is monotonic, the result state locks it, and the
// score/feedback submissions fire at most once per completion cycle —
// Restart resets the latch along with the accumulators.
type Quiz struct {
	gw     gateway.QuizGateway
	logger *logrus.Logger

	deckID    int64
	questions []entity.SmartQuestion
	index     int
	answered  bool
	score     int
	missed    []string
	state     QuizState

	scoreSaved   bool
	feedbackSent bool
}

// NewQuiz prepares a session for the given deck; Load must be called before
// answering.
func NewQuiz(gw gateway.QuizGateway, logger *logrus.Logger, deckID int64) *Quiz {
	if logger == nil {
		logger = logrus.New()
	}
	return &Quiz{gw: gw, logger: logger, deckID: deckID, state: QuizLoading}
}

// Load fetches the question set once. Restart replays the same set without
// refetching.
func (q *Quiz) Load(ctx context.Context, kind entity.DeckKind) error {
	questions, err := q.gw.FetchQuiz(ctx, kind, q.deckID)
	if err != nil {
		return fmt.Errorf("fetch quiz: %w", err)
	}
	if len(questions) == 0 {
		return fmt.Errorf("deck %d has no questions", q.deckID)
	}
	q.questions = questions
	q.state = QuizActive
	return nil
}

func (q *Quiz) State() QuizState      { return q.state }
func (q *Quiz) Index() int            { return q.index }
func (q *Quiz) Total() int            { return len(q.questions) }
func (q *Quiz) Score() int            { return q.score }
func (q *Quiz) MissedWords() []string { return q.missed }

// Current returns the active question, or nil outside the active state.
func (q *Quiz) Current() *entity.SmartQuestion {
	if q.state != QuizActive || q.index >= len(q.questions) {
		return nil
	}
	return &q.questions[q.index]
}

// Answer checks the given answer against the current question and updates
// the accumulators synchronously. Advancement is deliberately separate: the
// driver waits FeedbackDelay and then calls Advance. A second answer to the
// same question is rejected.
func (q *Quiz) Answer(answer string) (bool, error) {
	current := q.Current()
	if current == nil || q.answered {
		return false, entity.ErrQuizNotActive
	}
	correct, err := current.CheckAnswer(answer)
	if err != nil {
		return false, err
	}
	q.answered = true
	if correct {
		q.score++
	} else {
		q.missed = append(q.missed, current.Word)
	}
	return correct, nil
}

// Advance moves to the next question, or enters the result state after the
// last one. It is a no-op unless the current question has been answered.
func (q *Quiz) Advance() {
	if q.state != QuizActive || !q.answered {
		return
	}
	q.answered = false
	if q.index+1 < len(q.questions) {
		q.index++
		return
	}
	q.state = QuizResult
}

// SubmitResult persists the score and, when any words were missed, the
// missed-word feedback. Each fires at most once per completion cycle,
// guarded by explicit latches rather than caller discipline; submission
// failures are logged and do not prevent the latch from setting, matching
// the no-retry policy.
func (q *Quiz) SubmitResult(ctx context.Context) {
	if q.state != QuizResult {
		return
	}
	if !q.scoreSaved {
		q.scoreSaved = true
		if err := q.gw.SaveResult(ctx, q.deckID, q.score, len(q.questions)); err != nil {
			q.logger.WithError(err).WithField("deck_id", q.deckID).
				Warn("quiz score not saved")
		}
	}
	if !q.feedbackSent && len(q.missed) > 0 {
		q.feedbackSent = true
		if err := q.gw.PostFeedback(ctx, q.missed); err != nil {
			q.logger.WithError(err).Warn("quiz feedback not sent")
		}
	}
}

// Restart replays the same question set from the top, clearing score, missed
// words and the submission latches.
func (q *Quiz) Restart() {
	q.index = 0
	q.answered = false
	q.score = 0
	q.missed = nil
	q.scoreSaved = false
	q.feedbackSent = false
	q.state = QuizActive
}
