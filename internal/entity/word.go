package entity

// WordStatus tracks a word's place in the learning lifecycle.
type WordStatus string

const (
	WordStatusLearning WordStatus = "learning"
	WordStatusMastered WordStatus = "mastered"
)

// Word is a vocabulary entry as served by the review-queue and dashboard
// endpoints. Server-computed scheduling fields are carried verbatim; the
// client never derives its own next-review date.
type Word struct {
	ID              int64      `json:"id"`
	Word            string     `json:"word"`
	WordType        string     `json:"type,omitempty"`
	Definition      string     `json:"definition"`
	Pronunciation   string     `json:"pronunciation,omitempty"`
	ContextSentence string     `json:"context_sentence,omitempty"`
	AudioURL        string     `json:"audio_url,omitempty"`
	Status          WordStatus `json:"status"`
	NextReviewDate  string     `json:"next_review_date,omitempty"`
}

// ReviewGrade is a recall-quality grade posted to the spaced-repetition
// scheduler. Only the four listed values are accepted by the backend.
type ReviewGrade int

const (
	GradeForgot ReviewGrade = 0
	GradeHard   ReviewGrade = 1
	GradeGood   ReviewGrade = 3
	GradeEasy   ReviewGrade = 5
)

// Valid reports whether the grade is one of the scheduler's accepted values.
func (g ReviewGrade) Valid() bool {
	switch g {
	case GradeForgot, GradeHard, GradeGood, GradeEasy:
		return true
	}
	return false
}

// Deck groups a user's vocabulary entries.
type Deck struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// DeckKind distinguishes personal decks (progress persisted server-side)
// from curated public decks (practice only).
type DeckKind string

const (
	DeckKindUser   DeckKind = "user"
	DeckKindPublic DeckKind = "public"
)

// PublicDeck is a curated deck available to every user.
type PublicDeck struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Level       string `json:"level,omitempty"`
	Description string `json:"description,omitempty"`
}

// PublicDeckDetail bundles a public deck with its word list.
type PublicDeckDetail struct {
	DeckInfo PublicDeck `json:"deck_info"`
	Words    []Word     `json:"words"`
}
