package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// AuthResponse is returned by login and signup.
type AuthResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"tokenType,omitempty"`
	UserCode  models.UserCode `json:"userCode"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
}

func (r *AuthResponse) User() models.User {
	return models.User{UserCode: r.UserCode, Email: r.Email, Name: r.Name}
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   loginRequest{Email: email, Password: password},
		public: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/signup",
		body:   req,
		public: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Verify checks token with the backend. A nil error means the token is live.
func (c *HTTPClient) Verify(ctx context.Context, token string) error {
	return c.do(ctx, call{method: http.MethodGet, path: "/auth/verify", token: token, public: true}, nil)
}

func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/auth/logout", token: token, public: true}, nil)
}
