package rest

import (
	"context"
	"strconv"

	"github.com/eslsoft/fluentcli/internal/entity"
)

func (c *Client) ReviewQueue(ctx context.Context, deckID int64) ([]entity.Word, error) {
	var words []entity.Word
	path := "/vocabulary/deck/" + strconv.FormatInt(deckID, 10) + "/review-queue"
	if err := c.getJSON(ctx, path, nil, &words); err != nil {
		return nil, err
	}
	return words, nil
}

type reviewRequest struct {
	WordID  int64              `json:"word_id"`
	Quality entity.ReviewGrade `json:"quality"`
}

func (c *Client) PostReview(ctx context.Context, wordID int64, grade entity.ReviewGrade) error {
	return c.postJSON(ctx, "/vocabulary/review", reviewRequest{WordID: wordID, Quality: grade}, nil)
}

func (c *Client) PublicDeck(ctx context.Context, deckID int64) (*entity.PublicDeckDetail, error) {
	var detail entity.PublicDeckDetail
	path := "/public-decks/" + strconv.FormatInt(deckID, 10)
	if err := c.getJSON(ctx, path, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) DashboardWords(ctx context.Context) ([]entity.Word, error) {
	var words []entity.Word
	if err := c.getJSON(ctx, "/vocabulary/dashboard", nil, &words); err != nil {
		return nil, err
	}
	return words, nil
}
