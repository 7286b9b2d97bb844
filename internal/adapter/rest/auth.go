package rest

import (
	"context"

	"github.com/eslsoft/fluentcli/internal/gateway"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	err := c.postPublic(ctx, "/auth/login", credentialsRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *Client) Signup(ctx context.Context, email, password string) error {
	return c.postPublic(ctx, "/auth/signup", credentialsRequest{Email: email, Password: password}, nil)
}

type profileResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (c *Client) CurrentUser(ctx context.Context) (*gateway.Profile, error) {
	var resp profileResponse
	if err := c.getJSON(ctx, "/user/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &gateway.Profile{ID: resp.ID, Email: resp.Email}, nil
}
