// Package gateway declares the backend operations the client state machines
// consume, with one typed result struct per endpoint. Implementations live
// in internal/adapter; the usecases never see raw HTTP payloads.
package gateway

import (
	"context"

	"github.com/eslsoft/fluentcli/internal/entity"
)

// StartParams carries the session parameters posted to /conversation/start.
type StartParams struct {
	Mode       entity.Mode
	Level      string
	ScenarioID string
	Topic      string
}

// StartResult is the server's reply to a session start.
type StartResult struct {
	SessionID   string
	Greeting    string
	Suggestions []string
}

// ChatResult is the server's reply to a free-talk turn (text or voice).
// TranscribedText is only populated for voice turns.
type ChatResult struct {
	TranscribedText string
	Feedback        string
	Reply           string
	Metadata        *entity.MessageMetadata
}

// ScenarioTurnResult is the server's evaluation of a scenario voice turn.
type ScenarioTurnResult struct {
	TranscribedText    string
	ImmediateFeedback  string
	NextAIReply        string
	NextUserSuggestion string
	IsComplete         bool
	Metadata           *entity.MessageMetadata
}

// SummaryResult is the end-of-session summary.
type SummaryResult struct {
	Text     string
	Metadata *entity.MessageMetadata
}

// ConversationGateway exposes the conversation endpoints.
type ConversationGateway interface {
	StartConversation(ctx context.Context, params StartParams) (*StartResult, error)
	SendFreeTalk(ctx context.Context, message string, history []entity.DisplayMessage, topic, level, sessionID string) (*ChatResult, error)
	SendFreeTalkVoice(ctx context.Context, audioPath string, history []entity.DisplayMessage, topic, level, sessionID string) (*ChatResult, error)
	EvaluateScenarioVoice(ctx context.Context, audioPath, scenarioID, level string, currentTurn int, sessionID string) (*ScenarioTurnResult, error)
	Summarize(ctx context.Context, history []entity.DisplayMessage, level, topic, sessionID string) (*SummaryResult, error)
	ListScenarios(ctx context.Context, topic, level string) ([]entity.Scenario, error)
	ListHistory(ctx context.Context) ([]entity.HistorySession, error)
	GetHistory(ctx context.Context, sessionID string) (*entity.HistoryDetails, error)
	DeleteHistory(ctx context.Context, sessionID string) error
	AnalyzeSession(ctx context.Context, sessionID string) error
}

// VocabularyGateway exposes the review-queue and dashboard endpoints.
type VocabularyGateway interface {
	ReviewQueue(ctx context.Context, deckID int64) ([]entity.Word, error)
	PostReview(ctx context.Context, wordID int64, grade entity.ReviewGrade) error
	PublicDeck(ctx context.Context, deckID int64) (*entity.PublicDeckDetail, error)
	DashboardWords(ctx context.Context) ([]entity.Word, error)
}

// QuizGateway exposes the quiz-game endpoints.
type QuizGateway interface {
	FetchQuiz(ctx context.Context, kind entity.DeckKind, deckID int64) ([]entity.SmartQuestion, error)
	SaveResult(ctx context.Context, deckID int64, score, total int) error
	PostFeedback(ctx context.Context, missedWords []string) error
}

// Profile is the authenticated user's profile record.
type Profile struct {
	ID    string
	Email string
}

// AuthGateway exposes account endpoints.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (token string, err error)
	Signup(ctx context.Context, email, password string) error
	CurrentUser(ctx context.Context) (*Profile, error)
}
