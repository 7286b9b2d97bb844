package usecase

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/fluentcli/internal/entity"
	"github.com/eslsoft/fluentcli/internal/gateway"
)

// ReviewState is the lifecycle phase of a flashcard review session.
type ReviewState string

const (
	ReviewLoading  ReviewState = "loading"
	ReviewActive   ReviewState = "active"
	ReviewComplete ReviewState = "complete"
	// ReviewEmpty means the queue had no due words to begin with. It is a
	// distinct terminal state from ReviewComplete: nothing to do today versus
	// just finished.
	ReviewEmpty ReviewState = "empty"
)

// Review walks an ordered queue of due words front to back with flip/grade
// interactions. Personal decks post each grade to the scheduler and end in
// ReviewComplete; public decks never post and loop forever, reshuffling at
// the end of each pass.
type Review struct {
	gw     gateway.VocabularyGateway
	logger *logrus.Logger
	// shuffle is swappable so tests can fix the order.
	shuffle func([]entity.Word) []entity.Word

	kind    entity.DeckKind
	deckID  int64
	queue   []entity.Word
	index   int
	flipped bool
	state   ReviewState
}

// NewReview prepares a session for the given deck; Load must be called
// before any card interaction.
func NewReview(gw gateway.VocabularyGateway, logger *logrus.Logger, kind entity.DeckKind, deckID int64) *Review {
	if logger == nil {
		logger = logrus.New()
	}
	return &Review{
		gw:      gw,
		logger:  logger,
		shuffle: func(words []entity.Word) []entity.Word { return lo.Shuffle(words) },
		kind:    kind,
		deckID:  deckID,
		state:   ReviewLoading,
	}
}

// Load fetches the queue exactly once per session. Public decks are shuffled
// on load; personal queues keep the server-provided due order.
func (r *Review) Load(ctx context.Context) error {
	switch r.kind {
	case entity.DeckKindPublic:
		detail, err := r.gw.PublicDeck(ctx, r.deckID)
		if err != nil {
			return fmt.Errorf("load public deck: %w", err)
		}
		r.queue = r.shuffle(detail.Words)
	default:
		queue, err := r.gw.ReviewQueue(ctx, r.deckID)
		if err != nil {
			return fmt.Errorf("load review queue: %w", err)
		}
		r.queue = queue
	}

	r.index = 0
	r.flipped = false
	if len(r.queue) == 0 {
		r.state = ReviewEmpty
		return nil
	}
	r.state = ReviewActive
	return nil
}

func (r *Review) State() ReviewState { return r.state }
func (r *Review) Index() int         { return r.index }
func (r *Review) Len() int           { return len(r.queue) }
func (r *Review) Flipped() bool      { return r.flipped }

// Current returns the card under review, or nil outside the active state.
func (r *Review) Current() *entity.Word {
	if r.state != ReviewActive || r.index >= len(r.queue) {
		return nil
	}
	return &r.queue[r.index]
}

// Flip toggles the card face. The queue itself is never mutated.
func (r *Review) Flip() {
	if r.state == ReviewActive {
		r.flipped = !r.flipped
	}
}

// Grade records a recall grade and advances. For personal decks the grade is
// posted to the scheduler fire-and-forget: a failed post is logged and the
// queue advances regardless, because the client never branches on the
// server-computed schedule. Reaching the end transitions personal sessions
// to ReviewComplete; public sessions reshuffle and restart at index zero.
func (r *Review) Grade(ctx context.Context, grade entity.ReviewGrade) error {
	if r.state != ReviewActive {
		return entity.ErrReviewNotActive
	}
	if !grade.Valid() {
		return entity.ErrInvalidGrade
	}

	if r.kind == entity.DeckKindUser {
		word := r.queue[r.index]
		if err := r.gw.PostReview(ctx, word.ID, grade); err != nil {
			r.logger.WithError(err).WithField("word_id", word.ID).
				Warn("review grade not persisted")
		}
	}

	r.flipped = false
	if r.index < len(r.queue)-1 {
		r.index++
		return nil
	}

	if r.kind == entity.DeckKindPublic {
		r.queue = r.shuffle(r.queue)
		r.index = 0
		return nil
	}
	r.state = ReviewComplete
	return nil
}
