package rest

import (
	"context"
	"strconv"

	"github.com/eslsoft/fluentcli/internal/entity"
)

func (c *Client) FetchQuiz(ctx context.Context, kind entity.DeckKind, deckID int64) ([]entity.SmartQuestion, error) {
	var questions []entity.SmartQuestion
	path := "/quiz-data/" + string(kind) + "-deck/" + strconv.FormatInt(deckID, 10)
	if err := c.getJSON(ctx, path, nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

type saveResultRequest struct {
	DeckID int64 `json:"deck_id"`
	Score  int   `json:"score"`
	Total  int   `json:"total_questions"`
}

func (c *Client) SaveResult(ctx context.Context, deckID int64, score, total int) error {
	return c.postJSON(ctx, "/quiz/save-result", saveResultRequest{DeckID: deckID, Score: score, Total: total}, nil)
}

type feedbackRequest struct {
	MissedWords []string `json:"missed_words"`
}

func (c *Client) PostFeedback(ctx context.Context, missedWords []string) error {
	return c.postJSON(ctx, "/quiz/feedback", feedbackRequest{MissedWords: missedWords}, nil)
}
