package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/fluentcli/internal/entity"
	"github.com/eslsoft/fluentcli/internal/gateway"
)

// Speaker plays synthesized speech for AI turns. Implementations are owned
// by the session that received them; a no-op implementation disables speech.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// NopSpeaker discards all speech requests.
type NopSpeaker struct{}

func (NopSpeaker) Speak(context.Context, string) error { return nil }

// ConversationState is the lifecycle phase of a conversation session.
type ConversationState string

const (
	ConversationIdle            ConversationState = "idle"
	ConversationStarting        ConversationState = "starting"
	ConversationActive          ConversationState = "active"
	ConversationAwaitingReply   ConversationState = "awaiting_reply"
	ConversationPendingContinue ConversationState = "pending_continue"
	ConversationComplete        ConversationState = "complete"
	ConversationViewing         ConversationState = "viewing"
)

// Conversation coordinates turn-taking for one practice session: scripted
// scenario roleplay or open free talk, with voice or text input. It owns the
// transcript and the pending-step buffer; every mutation either comes from a
// local state transition or from the server response merged in.
//
// The first user turn of a scenario is turn 2 (the greeting is turn 1), and
// each completed exchange advances the counter by two.
type Conversation struct {
	gw      gateway.ConversationGateway
	speaker Speaker
	logger  *logrus.Logger

	state       ConversationState
	sessionID   string
	mode        entity.Mode
	level       string
	topic       string
	scenario    *entity.Scenario
	messages    []entity.DisplayMessage
	suggestions []string
	currentTurn int
	pending     *entity.PendingStep
}

// NewConversation wires the gateway with an idle session.
func NewConversation(gw gateway.ConversationGateway, speaker Speaker, logger *logrus.Logger) *Conversation {
	if speaker == nil {
		speaker = NopSpeaker{}
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Conversation{
		gw:      gw,
		speaker: speaker,
		logger:  logger,
		state:   ConversationIdle,
	}
}

func (c *Conversation) State() ConversationState { return c.state }
func (c *Conversation) SessionID() string        { return c.sessionID }
func (c *Conversation) Mode() entity.Mode        { return c.mode }
func (c *Conversation) Level() string            { return c.level }
func (c *Conversation) Topic() string            { return c.topic }
func (c *Conversation) CurrentTurn() int         { return c.currentTurn }
func (c *Conversation) Scenario() *entity.Scenario {
	return c.scenario
}

// Messages returns the transcript. Callers must treat it as read-only.
func (c *Conversation) Messages() []entity.DisplayMessage { return c.messages }

// Suggestions returns the current suggested responses (zero or one entry).
func (c *Conversation) Suggestions() []string { return c.suggestions }

// HasPendingStep reports whether a scripted AI reply is buffered awaiting
// explicit continuation.
func (c *Conversation) HasPendingStep() bool { return c.pending != nil }

// HasSummary reports whether the transcript already carries a summary turn.
func (c *Conversation) HasSummary() bool {
	for _, m := range c.messages {
		if m.Type == entity.MessageTypeSummary {
			return true
		}
	}
	return false
}

// Start creates a session on the server and seeds the transcript with the
// greeting. In scenario mode the scenario's title is the topic and the first
// suggestion (if the server sent one) is installed. A failed start leaves the
// machine idle; the server error is returned as-is and never retried.
func (c *Conversation) Start(ctx context.Context, scenario *entity.Scenario, topic, level string) error {
	mode := entity.ModeFree
	if scenario != nil {
		mode = entity.ModeScenario
		topic = scenario.Title
	}
	if strings.TrimSpace(topic) == "" {
		return entity.ErrInvalidTopic
	}

	c.state = ConversationStarting
	params := gateway.StartParams{Mode: mode, Level: level, Topic: topic}
	if scenario != nil {
		params.ScenarioID = scenario.ID
	}
	res, err := c.gw.StartConversation(ctx, params)
	if err != nil {
		c.state = ConversationIdle
		return fmt.Errorf("start conversation: %w", err)
	}

	c.sessionID = res.SessionID
	c.mode = mode
	c.level = level
	c.topic = topic
	c.scenario = scenario
	c.messages = []entity.DisplayMessage{{
		Role: entity.RoleAI,
		Text: res.Greeting,
		Type: entity.MessageTypeGreeting,
	}}
	c.suggestions = nil
	if mode == entity.ModeScenario && len(res.Suggestions) > 0 {
		c.suggestions = []string{res.Suggestions[0]}
	}
	c.currentTurn = 2
	c.pending = nil
	c.state = ConversationActive

	if res.Greeting != "" {
		c.speak(ctx, res.Greeting)
	}
	return nil
}

// SendText posts a typed free-talk turn. The user message is appended before
// the request; on failure the transcript degrades with an inline error turn
// instead of rolling back, so the conversation can continue.
func (c *Conversation) SendText(ctx context.Context, text string) error {
	if err := c.acceptingInput(); err != nil {
		return err
	}
	if c.mode != entity.ModeFree {
		return entity.ErrWrongMode
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return entity.ErrEmptyMessage
	}

	c.messages = append(c.messages, entity.DisplayMessage{
		Role: entity.RoleUser,
		Text: text,
		Type: entity.MessageTypeUserInput,
	})
	c.state = ConversationAwaitingReply
	res, err := c.gw.SendFreeTalk(ctx, text, c.messages, c.topic, c.level, c.sessionID)
	c.state = ConversationActive
	if err != nil {
		c.messages = append(c.messages, entity.DisplayMessage{
			Role: entity.RoleAI,
			Text: fmt.Sprintf("Error: %v", err),
		})
		return nil
	}

	c.appendChatResult(ctx, res)
	return nil
}

// SendVoice uploads a recorded turn. An audio_input placeholder is appended
// immediately and its text replaced with the transcription once the response
// arrives. Scenario responses either complete the script or buffer the next
// scripted turn into the pending step; free-talk responses append feedback
// and reply directly.
func (c *Conversation) SendVoice(ctx context.Context, audioPath string) error {
	if err := c.acceptingInput(); err != nil {
		return err
	}

	c.suggestions = nil
	placeholder := len(c.messages)
	c.messages = append(c.messages, entity.DisplayMessage{
		Role:      entity.RoleUser,
		Type:      entity.MessageTypeAudioInput,
		AudioPath: audioPath,
	})

	c.state = ConversationAwaitingReply
	defer func() {
		if c.state == ConversationAwaitingReply {
			c.state = ConversationActive
		}
	}()

	switch c.mode {
	case entity.ModeScenario:
		res, err := c.gw.EvaluateScenarioVoice(ctx, audioPath, c.scenario.ID, c.level, c.currentTurn, c.sessionID)
		if err != nil {
			c.appendVoiceError(err)
			return nil
		}
		c.messages[placeholder].Text = transcriptionOr(res.TranscribedText)
		c.messages = append(c.messages, entity.DisplayMessage{
			Role:     entity.RoleAI,
			Text:     res.ImmediateFeedback,
			Type:     entity.MessageTypeFeedback,
			Metadata: res.Metadata,
		})
		if res.IsComplete {
			c.messages = append(c.messages, entity.DisplayMessage{
				Role: entity.RoleAI,
				Text: res.NextAIReply,
				Type: entity.MessageTypeReply,
			})
			c.state = ConversationComplete
			return nil
		}
		c.pending = &entity.PendingStep{
			AIReply: entity.DisplayMessage{
				Role: entity.RoleAI,
				Text: res.NextAIReply,
				Type: entity.MessageTypeReply,
			},
			NextSuggestion: res.NextUserSuggestion,
		}
		c.state = ConversationPendingContinue

	case entity.ModeFree:
		res, err := c.gw.SendFreeTalkVoice(ctx, audioPath, c.messages, c.topic, c.level, c.sessionID)
		if err != nil {
			c.appendVoiceError(err)
			return nil
		}
		c.messages[placeholder].Text = transcriptionOr(res.TranscribedText)
		c.appendChatResult(ctx, res)

	default:
		return entity.ErrWrongMode
	}
	return nil
}

// ContinueScenario flushes the buffered scripted turn into the transcript,
// installs the next suggestion and advances the turn counter by two (one
// user turn plus one AI turn). A call with no pending step mutates nothing.
func (c *Conversation) ContinueScenario(ctx context.Context) {
	if c.pending == nil {
		return
	}
	step := *c.pending
	c.pending = nil
	c.messages = append(c.messages, step.AIReply)
	if step.AIReply.Text != "" {
		c.speak(ctx, step.AIReply.Text)
	}
	if step.NextSuggestion != "" {
		c.suggestions = []string{step.NextSuggestion}
	}
	c.currentTurn += 2
	c.state = ConversationActive
}

// Finish requests a summary over the whole transcript and appends it. Free
// talk additionally triggers vocabulary analysis as a side effect whose
// failure is logged, never surfaced. Calling Finish twice is a no-op.
func (c *Conversation) Finish(ctx context.Context) error {
	if c.state == ConversationViewing {
		return entity.ErrSessionReadOnly
	}
	if c.sessionID == "" {
		return entity.ErrNoActiveSession
	}
	if c.HasSummary() {
		return nil
	}

	res, err := c.gw.Summarize(ctx, c.messages, c.level, c.topic, c.sessionID)
	if err != nil {
		return fmt.Errorf("summarize conversation: %w", err)
	}
	c.messages = append(c.messages, entity.DisplayMessage{
		Role:     entity.RoleAI,
		Text:     res.Text,
		Type:     entity.MessageTypeSummary,
		Metadata: res.Metadata,
	})
	c.state = ConversationComplete

	if c.mode == entity.ModeFree {
		if err := c.gw.AnalyzeSession(ctx, c.sessionID); err != nil {
			c.logger.WithError(err).WithField("session_id", c.sessionID).
				Warn("vocabulary analysis failed")
		}
	}
	return nil
}

// LoadHistory replaces the session wholesale with a saved transcript and
// disables every mutating operation until PracticeAgain.
func (c *Conversation) LoadHistory(ctx context.Context, sessionID string) error {
	details, err := c.gw.GetHistory(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	c.sessionID = details.ID
	c.mode = details.Mode
	c.level = details.Level
	c.topic = details.Topic
	c.scenario = details.Scenario
	c.messages = details.Messages
	c.suggestions = nil
	c.currentTurn = 2
	c.pending = nil
	c.state = ConversationViewing
	return nil
}

// PracticeAgain re-derives a fresh session from the parameters of the one
// currently held (typically a history replay).
func (c *Conversation) PracticeAgain(ctx context.Context) error {
	scenario := c.scenario
	topic := c.topic
	level := c.level
	c.Reset()
	return c.Start(ctx, scenario, topic, level)
}

// Reset discards all session state and returns to idle.
func (c *Conversation) Reset() {
	c.sessionID = ""
	c.mode = ""
	c.topic = ""
	c.scenario = nil
	c.messages = nil
	c.suggestions = nil
	c.currentTurn = 0
	c.pending = nil
	c.state = ConversationIdle
}

func (c *Conversation) acceptingInput() error {
	switch {
	case c.state == ConversationViewing:
		return entity.ErrSessionReadOnly
	case c.sessionID == "":
		return entity.ErrNoActiveSession
	case c.pending != nil:
		return entity.ErrPendingStep
	case c.state == ConversationComplete || c.HasSummary():
		return entity.ErrSessionComplete
	}
	return nil
}

func (c *Conversation) appendChatResult(ctx context.Context, res *gateway.ChatResult) {
	if res.Feedback != "" {
		c.messages = append(c.messages, entity.DisplayMessage{
			Role:     entity.RoleAI,
			Text:     res.Feedback,
			Type:     entity.MessageTypeFeedback,
			Metadata: res.Metadata,
		})
	}
	if res.Reply != "" {
		c.messages = append(c.messages, entity.DisplayMessage{
			Role: entity.RoleAI,
			Text: res.Reply,
			Type: entity.MessageTypeReply,
		})
		c.speak(ctx, res.Reply)
	}
}

func (c *Conversation) appendVoiceError(err error) {
	c.messages = append(c.messages, entity.DisplayMessage{
		Role: entity.RoleAI,
		Text: fmt.Sprintf("Error processing audio: %v", err),
	})
}

func (c *Conversation) speak(ctx context.Context, text string) {
	if err := c.speaker.Speak(ctx, text); err != nil {
		c.logger.WithError(err).Debug("speech playback failed")
	}
}

func transcriptionOr(text string) string {
	if text == "" {
		return "(Audio)"
	}
	return text
}
