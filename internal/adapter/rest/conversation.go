package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/eslsoft/fluentcli/internal/entity"
	"github.com/eslsoft/fluentcli/internal/gateway"
)

type startRequest struct {
	Mode       entity.Mode `json:"mode"`
	Level      string      `json:"level"`
	Topic      string      `json:"topic"`
	ScenarioID string      `json:"scenario_id,omitempty"`
}

type startResponse struct {
	SessionID   string   `json:"session_id"`
	Greeting    string   `json:"greeting"`
	Suggestions []string `json:"suggestions"`
}

func (c *Client) StartConversation(ctx context.Context, params gateway.StartParams) (*gateway.StartResult, error) {
	var resp startResponse
	err := c.postJSON(ctx, "/conversation/start", startRequest{
		Mode:       params.Mode,
		Level:      params.Level,
		Topic:      params.Topic,
		ScenarioID: params.ScenarioID,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &gateway.StartResult{
		SessionID:   resp.SessionID,
		Greeting:    resp.Greeting,
		Suggestions: resp.Suggestions,
	}, nil
}

type freeTalkRequest struct {
	Message   string                  `json:"message"`
	History   []entity.DisplayMessage `json:"history"`
	Topic     string                  `json:"topic"`
	Level     string                  `json:"level"`
	SessionID string                  `json:"session_id"`
}

type chatResponse struct {
	TranscribedText string                  `json:"transcribed_text,omitempty"`
	Feedback        string                  `json:"feedback,omitempty"`
	Reply           string                  `json:"reply"`
	Metadata        *entity.MessageMetadata `json:"metadata,omitempty"`
}

func (r chatResponse) toResult() *gateway.ChatResult {
	return &gateway.ChatResult{
		TranscribedText: r.TranscribedText,
		Feedback:        r.Feedback,
		Reply:           r.Reply,
		Metadata:        r.Metadata,
	}
}

func (c *Client) SendFreeTalk(ctx context.Context, message string, history []entity.DisplayMessage, topic, level, sessionID string) (*gateway.ChatResult, error) {
	var resp chatResponse
	err := c.postJSON(ctx, "/conversation/chat/free-talk", freeTalkRequest{
		Message:   message,
		History:   history,
		Topic:     topic,
		Level:     level,
		SessionID: sessionID,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.toResult(), nil
}

func (c *Client) SendFreeTalkVoice(ctx context.Context, audioPath string, history []entity.DisplayMessage, topic, level, sessionID string) (*gateway.ChatResult, error) {
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	var resp chatResponse
	err = c.postMultipart(ctx, "/conversation/chat/free-talk-voice", audioPath, map[string]string{
		"history":    string(historyJSON),
		"topic":      topic,
		"level":      level,
		"session_id": sessionID,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.toResult(), nil
}

type scenarioTurnResponse struct {
	TranscribedText    string                  `json:"transcribed_text,omitempty"`
	ImmediateFeedback  string                  `json:"immediate_feedback"`
	NextAIReply        string                  `json:"next_ai_reply"`
	NextUserSuggestion string                  `json:"next_user_suggestion,omitempty"`
	IsComplete         bool                    `json:"is_complete"`
	Metadata           *entity.MessageMetadata `json:"metadata,omitempty"`
}

func (c *Client) EvaluateScenarioVoice(ctx context.Context, audioPath, scenarioID, level string, currentTurn int, sessionID string) (*gateway.ScenarioTurnResult, error) {
	var resp scenarioTurnResponse
	err := c.postMultipart(ctx, "/conversation/evaluate-scenario-voice", audioPath, map[string]string{
		"scenario_id":  scenarioID,
		"level":        level,
		"current_turn": strconv.Itoa(currentTurn),
		"session_id":   sessionID,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &gateway.ScenarioTurnResult{
		TranscribedText:    resp.TranscribedText,
		ImmediateFeedback:  resp.ImmediateFeedback,
		NextAIReply:        resp.NextAIReply,
		NextUserSuggestion: resp.NextUserSuggestion,
		IsComplete:         resp.IsComplete,
		Metadata:           resp.Metadata,
	}, nil
}

type summarizeRequest struct {
	History   []entity.DisplayMessage `json:"history"`
	Level     string                  `json:"level"`
	Topic     string                  `json:"topic"`
	SessionID string                  `json:"session_id"`
}

type summarizeResponse struct {
	Summary  string                  `json:"summary_text"`
	Metadata *entity.MessageMetadata `json:"summary_metadata,omitempty"`
}

func (c *Client) Summarize(ctx context.Context, history []entity.DisplayMessage, level, topic, sessionID string) (*gateway.SummaryResult, error) {
	var resp summarizeResponse
	err := c.postJSON(ctx, "/conversation/summarize-conversation", summarizeRequest{
		History:   history,
		Level:     level,
		Topic:     topic,
		SessionID: sessionID,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &gateway.SummaryResult{Text: resp.Summary, Metadata: resp.Metadata}, nil
}

func (c *Client) ListScenarios(ctx context.Context, topic, level string) ([]entity.Scenario, error) {
	query := url.Values{}
	if topic != "" {
		query.Set("topic", topic)
	}
	if level != "" {
		query.Set("level", level)
	}
	var scenarios []entity.Scenario
	if err := c.getJSON(ctx, "/conversation/scenarios", query, &scenarios); err != nil {
		return nil, err
	}
	return scenarios, nil
}

func (c *Client) ListHistory(ctx context.Context) ([]entity.HistorySession, error) {
	var sessions []entity.HistorySession
	if err := c.getJSON(ctx, "/conversation/history", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// historyDetailsResponse tolerates the messages field arriving either as an
// array or as a JSON-encoded string, which older sessions still carry.
type historyDetailsResponse struct {
	entity.HistorySession
	Scenario *entity.Scenario `json:"scenario,omitempty"`
	Messages json.RawMessage  `json:"messages"`
}

func (r historyDetailsResponse) toDetails(logger func(error)) *entity.HistoryDetails {
	details := &entity.HistoryDetails{
		HistorySession: r.HistorySession,
		Scenario:       r.Scenario,
	}
	raw := r.Messages
	var encoded string
	if json.Unmarshal(raw, &encoded) == nil {
		raw = json.RawMessage(encoded)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &details.Messages); err != nil {
			logger(err)
			details.Messages = nil
		}
	}
	return details
}

func (c *Client) GetHistory(ctx context.Context, sessionID string) (*entity.HistoryDetails, error) {
	var resp historyDetailsResponse
	if err := c.getJSON(ctx, "/conversation/history/"+url.PathEscape(sessionID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.toDetails(func(err error) {
		c.logger.WithError(err).WithField("session_id", sessionID).
			Warn("history transcript unreadable, showing empty")
	}), nil
}

func (c *Client) DeleteHistory(ctx context.Context, sessionID string) error {
	return c.delete(ctx, "/conversation/delete/"+url.PathEscape(sessionID))
}

type analyzeRequest struct {
	SessionID string `json:"session_id"`
}

func (c *Client) AnalyzeSession(ctx context.Context, sessionID string) error {
	return c.postJSON(ctx, "/analysis", analyzeRequest{SessionID: sessionID}, nil)
}
