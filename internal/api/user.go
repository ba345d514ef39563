package api

import (
	"context"
	"net/http"
	"time"

	"vbank/internal/core"
)

// UserClient talks to the user service.
type UserClient struct {
	client
}

func NewUserClient(baseURL string, timeout time.Duration) *UserClient {
	return &UserClient{client: newClient(baseURL, timeout)}
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type RegisterResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

func (c *UserClient) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type LoginResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

func (c *UserClient) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	req := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type profilePayload struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	CreatedAt string `json:"createdAt"`
	IsActive  bool   `json:"isActive"`
}

func (c *UserClient) GetProfile(ctx context.Context, userID string) (*core.Profile, error) {
	var payload profilePayload
	if err := c.do(ctx, http.MethodGet, "/"+pathEscape(userID)+"/profile", nil, &payload); err != nil {
		return nil, err
	}
	return &core.Profile{
		UserID:    payload.UserID,
		Username:  payload.Username,
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		CreatedAt: parseTimestamp(payload.CreatedAt),
		IsActive:  payload.IsActive,
	}, nil
}
