package client

import (
	"context"
	"errors"

	"github.com/shopfront-dev/shopfront/internal/models"
)

// Login authenticates the user and returns the token and profile
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	return c.authenticate(ctx, "/auth/login", email, password)
}

// Register creates an account and returns the token and profile
func (c *Client) Register(ctx context.Context, email, password string) (*models.AuthResult, error) {
	return c.authenticate(ctx, "/auth/register", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*models.AuthResult, error) {
	creds := Credentials{Email: email, Password: password}
	if err := c.check(creds); err != nil {
		return nil, err
	}

	var result models.AuthResult
	if err := c.post(ctx, path, creds, &result); err != nil {
		if rejected(err) {
			return nil, &AuthenticationError{Message: Message(err, ""), Err: err}
		}
		return nil, err
	}

	if result.Token == "" {
		return nil, errors.New("server returned an empty token")
	}

	return &result, nil
}

// Me fetches the profile of the token holder
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// rejected reports whether err is a 4xx answer to the credentials. Server
// faults and undecodable responses are not rejections.
func rejected(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.StatusCode >= 400 && validationErr.StatusCode < 500
	}
	return false
}
