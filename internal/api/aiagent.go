package api

import (
	"context"
	"net/http"
	"time"
)

// AIAgentClient talks to the AI agent service directly. The gateway uses it
// to front /bff/chat; the terminal client goes through the BFF instead.
type AIAgentClient struct {
	client
}

func NewAIAgentClient(baseURL string, timeout time.Duration) *AIAgentClient {
	return &AIAgentClient{client: newClient(baseURL, timeout)}
}

func (c *AIAgentClient) Chat(ctx context.Context, userID, message string) (*ChatResponse, error) {
	req := struct {
		UserID  string `json:"userId"`
		Message string `json:"message"`
	}{UserID: userID, Message: message}

	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
