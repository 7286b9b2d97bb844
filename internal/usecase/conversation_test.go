package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/eslsoft/fluentcli/internal/entity"
	"github.com/eslsoft/fluentcli/internal/gateway"
)

type fakeConversationGateway struct {
	startResult    *gateway.StartResult
	startErr       error
	chatResult     *gateway.ChatResult
	chatErr        error
	scenarioResult *gateway.ScenarioTurnResult
	scenarioErr    error
	summaryResult  *gateway.SummaryResult
	summaryErr     error
	history        *entity.HistoryDetails

	startCalls    []gateway.StartParams
	chatHistories [][]entity.DisplayMessage
	voiceTurns    []int
	analyzeCalls  int
	analyzeErr    error
}

func (f *fakeConversationGateway) StartConversation(ctx context.Context, params gateway.StartParams) (*gateway.StartResult, error) {
	f.startCalls = append(f.startCalls, params)
	if f.startErr != nil {
		return nil, f.startErr
	}
	return f.startResult, nil
}

func (f *fakeConversationGateway) SendFreeTalk(ctx context.Context, message string, history []entity.DisplayMessage, topic, level, sessionID string) (*gateway.ChatResult, error) {
	f.chatHistories = append(f.chatHistories, append([]entity.DisplayMessage(nil), history...))
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return f.chatResult, nil
}

func (f *fakeConversationGateway) SendFreeTalkVoice(ctx context.Context, audioPath string, history []entity.DisplayMessage, topic, level, sessionID string) (*gateway.ChatResult, error) {
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return f.chatResult, nil
}

func (f *fakeConversationGateway) EvaluateScenarioVoice(ctx context.Context, audioPath, scenarioID, level string, currentTurn int, sessionID string) (*gateway.ScenarioTurnResult, error) {
	f.voiceTurns = append(f.voiceTurns, currentTurn)
	if f.scenarioErr != nil {
		return nil, f.scenarioErr
	}
	return f.scenarioResult, nil
}

func (f *fakeConversationGateway) Summarize(ctx context.Context, history []entity.DisplayMessage, level, topic, sessionID string) (*gateway.SummaryResult, error) {
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	return f.summaryResult, nil
}

func (f *fakeConversationGateway) ListScenarios(ctx context.Context, topic, level string) ([]entity.Scenario, error) {
	return nil, nil
}

func (f *fakeConversationGateway) ListHistory(ctx context.Context) ([]entity.HistorySession, error) {
	return nil, nil
}

func (f *fakeConversationGateway) GetHistory(ctx context.Context, sessionID string) (*entity.HistoryDetails, error) {
	if f.history == nil {
		return nil, errors.New("not found")
	}
	return f.history, nil
}

func (f *fakeConversationGateway) DeleteHistory(ctx context.Context, sessionID string) error {
	return nil
}

func (f *fakeConversationGateway) AnalyzeSession(ctx context.Context, sessionID string) error {
	f.analyzeCalls++
	return f.analyzeErr
}

type recordingSpeaker struct {
	spoken []string
}

func (s *recordingSpeaker) Speak(_ context.Context, text string) error {
	s.spoken = append(s.spoken, text)
	return nil
}

func scenarioFixture() *entity.Scenario {
	return &entity.Scenario{ID: "sc-1", Title: "Travel"}
}

func startedScenario(t *testing.T, gw *fakeConversationGateway) *Conversation {
	t.Helper()
	if gw.startResult == nil {
		gw.startResult = &gateway.StartResult{
			SessionID:   "sess-1",
			Greeting:    "Welcome to the airport!",
			Suggestions: []string{"I'd like to check in."},
		}
	}
	conv := NewConversation(gw, nil, nil)
	if err := conv.Start(context.Background(), scenarioFixture(), "", "Beginner"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return conv
}

func TestStartSeedsGreetingAndSuggestion(t *testing.T) {
	gw := &fakeConversationGateway{}
	speaker := &recordingSpeaker{}
	gw.startResult = &gateway.StartResult{
		SessionID:   "sess-1",
		Greeting:    "Welcome to the airport!",
		Suggestions: []string{"I'd like to check in.", "ignored extra"},
	}

	conv := NewConversation(gw, speaker, nil)
	if err := conv.Start(context.Background(), scenarioFixture(), "", "Beginner"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	msgs := conv.Messages()
	if len(msgs) != 1 || msgs[0].Type != entity.MessageTypeGreeting {
		t.Fatalf("expected single greeting message, got %+v", msgs)
	}
	if got := conv.Suggestions(); len(got) != 1 || got[0] != "I'd like to check in." {
		t.Errorf("expected first suggestion only, got %v", got)
	}
	if conv.CurrentTurn() != 2 {
		t.Errorf("expected current turn 2, got %d", conv.CurrentTurn())
	}
	if conv.Mode() != entity.ModeScenario {
		t.Errorf("expected scenario mode, got %s", conv.Mode())
	}
	if conv.Topic() != "Travel" {
		t.Errorf("expected scenario title as topic, got %q", conv.Topic())
	}
	if len(speaker.spoken) != 1 || speaker.spoken[0] != "Welcome to the airport!" {
		t.Errorf("expected greeting spoken, got %v", speaker.spoken)
	}
}

func TestStartFailureLeavesIdle(t *testing.T) {
	gw := &fakeConversationGateway{startErr: errors.New("scenario not found")}
	conv := NewConversation(gw, nil, nil)

	err := conv.Start(context.Background(), nil, "Travel", "Beginner")
	if err == nil || !strings.Contains(err.Error(), "scenario not found") {
		t.Fatalf("expected server error surfaced, got %v", err)
	}
	if conv.State() != ConversationIdle {
		t.Errorf("expected idle state after failed start, got %s", conv.State())
	}
	if len(gw.startCalls) != 1 {
		t.Errorf("expected exactly one start attempt (no retry), got %d", len(gw.startCalls))
	}
}

func TestStartFreeModeSkipsSuggestions(t *testing.T) {
	gw := &fakeConversationGateway{startResult: &gateway.StartResult{
		SessionID:   "sess-2",
		Greeting:    "Let's talk about food.",
		Suggestions: []string{"suggestion"},
	}}
	conv := NewConversation(gw, nil, nil)
	if err := conv.Start(context.Background(), nil, "Food", "Advanced"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if len(conv.Suggestions()) != 0 {
		t.Errorf("free mode must not install suggestions, got %v", conv.Suggestions())
	}
}

func TestSendTextAppendsFeedbackAndReply(t *testing.T) {
	gw := &fakeConversationGateway{
		startResult: &gateway.StartResult{SessionID: "sess-3", Greeting: "Hi"},
		chatResult: &gateway.ChatResult{
			Feedback: "Nice phrasing.",
			Reply:    "What did you eat today?",
			Metadata: &entity.MessageMetadata{Tips: "watch tense"},
		},
	}
	speaker := &recordingSpeaker{}
	conv := NewConversation(gw, speaker, nil)
	if err := conv.Start(context.Background(), nil, "Food", "Beginner"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := conv.SendText(context.Background(), "  I eat rice  "); err != nil {
		t.Fatalf("SendText failed: %v", err)
	}

	msgs := conv.Messages()
	if len(msgs) != 4 {
		t.Fatalf("expected greeting+user+feedback+reply, got %d messages", len(msgs))
	}
	if msgs[1].Role != entity.RoleUser || msgs[1].Text != "I eat rice" {
		t.Errorf("user message not appended/trimmed: %+v", msgs[1])
	}
	if msgs[2].Type != entity.MessageTypeFeedback || msgs[2].Metadata == nil {
		t.Errorf("feedback message malformed: %+v", msgs[2])
	}
	if msgs[3].Type != entity.MessageTypeReply {
		t.Errorf("reply message malformed: %+v", msgs[3])
	}
	// The request history must already include the optimistic user turn.
	if len(gw.chatHistories) != 1 || len(gw.chatHistories[0]) != 2 {
		t.Errorf("expected request history of 2 messages, got %v", gw.chatHistories)
	}
	if len(speaker.spoken) != 2 {
		t.Errorf("expected greeting and reply spoken, got %v", speaker.spoken)
	}
}

func TestSendTextFailureDegradesTranscript(t *testing.T) {
	gw := &fakeConversationGateway{
		startResult: &gateway.StartResult{SessionID: "sess-4", Greeting: "Hi"},
		chatErr:     errors.New("upstream busy"),
	}
	conv := NewConversation(gw, nil, nil)
	if err := conv.Start(context.Background(), nil, "Food", "Beginner"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := conv.SendText(context.Background(), "hello"); err != nil {
		t.Fatalf("SendText must not fail the caller on chat errors, got %v", err)
	}
	msgs := conv.Messages()
	last := msgs[len(msgs)-1]
	if last.Role != entity.RoleAI || !strings.Contains(last.Text, "upstream busy") {
		t.Errorf("expected inline error turn, got %+v", last)
	}
	// The optimistic user message stays; no rollback.
	if msgs[len(msgs)-2].Role != entity.RoleUser {
		t.Errorf("expected user message retained before the error turn")
	}
}

func TestSendTextRejectedInScenarioMode(t *testing.T) {
	conv := startedScenario(t, &fakeConversationGateway{})
	if err := conv.SendText(context.Background(), "hi"); !errors.Is(err, entity.ErrWrongMode) {
		t.Fatalf("expected ErrWrongMode, got %v", err)
	}
}

func TestSendVoiceBuffersPendingStep(t *testing.T) {
	gw := &fakeConversationGateway{scenarioResult: &gateway.ScenarioTurnResult{
		TranscribedText:    "I would like to check in",
		ImmediateFeedback:  "Good.",
		NextAIReply:        "May I see your passport?",
		NextUserSuggestion: "Here you are.",
		IsComplete:         false,
	}}
	conv := startedScenario(t, gw)

	if err := conv.SendVoice(context.Background(), "/tmp/turn1.webm"); err != nil {
		t.Fatalf("SendVoice failed: %v", err)
	}

	if !conv.HasPendingStep() {
		t.Fatal("expected pending step after incomplete scenario turn")
	}
	msgs := conv.Messages()
	// greeting + transcribed user turn + feedback; the scripted reply is buffered.
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages while pending, got %d", len(msgs))
	}
	if msgs[1].Type != entity.MessageTypeAudioInput || msgs[1].Text != "I would like to check in" {
		t.Errorf("placeholder not replaced with transcription: %+v", msgs[1])
	}
	if conv.State() != ConversationPendingContinue {
		t.Errorf("expected pending_continue state, got %s", conv.State())
	}
	if err := conv.SendVoice(context.Background(), "/tmp/turn2.webm"); !errors.Is(err, entity.ErrPendingStep) {
		t.Errorf("input must be rejected while a step is pending, got %v", err)
	}
}

func TestContinueScenarioFlushesBuffer(t *testing.T) {
	gw := &fakeConversationGateway{scenarioResult: &gateway.ScenarioTurnResult{
		ImmediateFeedback:  "Good.",
		NextAIReply:        "May I see your passport?",
		NextUserSuggestion: "Here you are.",
	}}
	conv := startedScenario(t, gw)
	if err := conv.SendVoice(context.Background(), "/tmp/turn1.webm"); err != nil {
		t.Fatalf("SendVoice failed: %v", err)
	}

	before := len(conv.Messages())
	turnBefore := conv.CurrentTurn()
	conv.ContinueScenario(context.Background())

	if got := len(conv.Messages()); got != before+1 {
		t.Errorf("expected exactly one message flushed, got %d -> %d", before, got)
	}
	if conv.CurrentTurn() != turnBefore+2 {
		t.Errorf("expected turn to advance by 2, got %d -> %d", turnBefore, conv.CurrentTurn())
	}
	if conv.HasPendingStep() {
		t.Error("pending step must be cleared after continue")
	}
	if got := conv.Suggestions(); len(got) != 1 || got[0] != "Here you are." {
		t.Errorf("expected next suggestion installed, got %v", got)
	}

	// A second continue with no buffer must not mutate the transcript.
	after := len(conv.Messages())
	conv.ContinueScenario(context.Background())
	if len(conv.Messages()) != after {
		t.Error("continue without pending step mutated messages")
	}
}

func TestSendVoiceScenarioCompletion(t *testing.T) {
	gw := &fakeConversationGateway{scenarioResult: &gateway.ScenarioTurnResult{
		ImmediateFeedback: "Well done.",
		NextAIReply:       "Enjoy your flight!",
		IsComplete:        true,
	}}
	conv := startedScenario(t, gw)
	if err := conv.SendVoice(context.Background(), "/tmp/final.webm"); err != nil {
		t.Fatalf("SendVoice failed: %v", err)
	}

	if conv.State() != ConversationComplete {
		t.Fatalf("expected complete state, got %s", conv.State())
	}
	if conv.HasPendingStep() {
		t.Error("completed scenario must not buffer a pending step")
	}
	msgs := conv.Messages()
	if msgs[len(msgs)-1].Text != "Enjoy your flight!" {
		t.Errorf("final reply not appended: %+v", msgs[len(msgs)-1])
	}
	if err := conv.SendVoice(context.Background(), "/tmp/extra.webm"); !errors.Is(err, entity.ErrSessionComplete) {
		t.Errorf("expected ErrSessionComplete, got %v", err)
	}
}

func TestFinishAppendsSummaryOnce(t *testing.T) {
	gw := &fakeConversationGateway{
		startResult:   &gateway.StartResult{SessionID: "sess-5", Greeting: "Hi"},
		summaryResult: &gateway.SummaryResult{Text: "You did well."},
	}
	conv := NewConversation(gw, nil, nil)
	if err := conv.Start(context.Background(), nil, "Food", "Beginner"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := conv.Finish(context.Background()); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if !conv.HasSummary() {
		t.Fatal("expected summary message")
	}
	if gw.analyzeCalls != 1 {
		t.Errorf("free mode must trigger vocabulary analysis, got %d calls", gw.analyzeCalls)
	}

	before := len(conv.Messages())
	if err := conv.Finish(context.Background()); err != nil {
		t.Fatalf("second Finish must be a no-op, got %v", err)
	}
	if len(conv.Messages()) != before {
		t.Error("second Finish appended another summary")
	}
	if gw.analyzeCalls != 1 {
		t.Errorf("analysis fired again on no-op finish: %d", gw.analyzeCalls)
	}
}

func TestFinishAnalysisFailureNotSurfaced(t *testing.T) {
	gw := &fakeConversationGateway{
		startResult:   &gateway.StartResult{SessionID: "sess-6", Greeting: "Hi"},
		summaryResult: &gateway.SummaryResult{Text: "Summary."},
		analyzeErr:    errors.New("analysis exploded"),
	}
	conv := NewConversation(gw, nil, nil)
	if err := conv.Start(context.Background(), nil, "Food", "Beginner"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := conv.Finish(context.Background()); err != nil {
		t.Fatalf("analysis failure must not surface, got %v", err)
	}
}

func TestLoadHistoryDisablesMutations(t *testing.T) {
	gw := &fakeConversationGateway{history: &entity.HistoryDetails{
		HistorySession: entity.HistorySession{
			ID: "old-1", Topic: "Travel", Mode: entity.ModeFree, Level: "Beginner",
		},
		Messages: []entity.DisplayMessage{
			{Role: entity.RoleAI, Text: "Hi", Type: entity.MessageTypeGreeting},
			{Role: entity.RoleUser, Text: "Hello"},
		},
	}}
	conv := NewConversation(gw, nil, nil)
	if err := conv.LoadHistory(context.Background(), "old-1"); err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}

	if conv.State() != ConversationViewing {
		t.Fatalf("expected viewing state, got %s", conv.State())
	}
	if len(conv.Messages()) != 2 {
		t.Errorf("transcript not replaced, got %d messages", len(conv.Messages()))
	}
	if err := conv.SendText(context.Background(), "hi"); !errors.Is(err, entity.ErrSessionReadOnly) {
		t.Errorf("expected read-only error, got %v", err)
	}
	if err := conv.Finish(context.Background()); !errors.Is(err, entity.ErrSessionReadOnly) {
		t.Errorf("expected read-only error from Finish, got %v", err)
	}
}

func TestPracticeAgainDerivesFreshSession(t *testing.T) {
	gw := &fakeConversationGateway{
		history: &entity.HistoryDetails{
			HistorySession: entity.HistorySession{
				ID: "old-2", Topic: "Food", Mode: entity.ModeFree, Level: "Advanced",
			},
		},
		startResult: &gateway.StartResult{SessionID: "fresh-1", Greeting: "Hi again"},
	}
	conv := NewConversation(gw, nil, nil)
	if err := conv.LoadHistory(context.Background(), "old-2"); err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}
	if err := conv.PracticeAgain(context.Background()); err != nil {
		t.Fatalf("PracticeAgain failed: %v", err)
	}

	if conv.SessionID() != "fresh-1" {
		t.Errorf("expected fresh session id, got %q", conv.SessionID())
	}
	if conv.State() != ConversationActive {
		t.Errorf("expected active state, got %s", conv.State())
	}
	if len(gw.startCalls) != 1 || gw.startCalls[0].Topic != "Food" || gw.startCalls[0].Level != "Advanced" {
		t.Errorf("fresh session must reuse topic/level, got %+v", gw.startCalls)
	}
}

func TestScenarioVoiceSendsCurrentTurn(t *testing.T) {
	gw := &fakeConversationGateway{scenarioResult: &gateway.ScenarioTurnResult{
		ImmediateFeedback:  "ok",
		NextAIReply:        "next",
		NextUserSuggestion: "say this",
	}}
	conv := startedScenario(t, gw)

	_ = conv.SendVoice(context.Background(), "/tmp/a.webm")
	conv.ContinueScenario(context.Background())
	_ = conv.SendVoice(context.Background(), "/tmp/b.webm")

	if len(gw.voiceTurns) != 2 || gw.voiceTurns[0] != 2 || gw.voiceTurns[1] != 4 {
		t.Errorf("expected turns 2 then 4, got %v", gw.voiceTurns)
	}
}
