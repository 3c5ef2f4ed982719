package backend

import (
	"context"
	"fmt"
	"net/http"

	"hairline/internal/protocol"
	"hairline/internal/session"
)

func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalidRequest(err)
	}
	var out AuthResponse
	if err := c.do(ctx, nil, http.MethodPost, "/accounts/login/", nil, req, &out); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalidRequest(err)
	}
	var out AuthResponse
	if err := c.do(ctx, nil, http.MethodPost, "/accounts/register/", nil, req, &out); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &out, nil
}

// Recommend asks the backend for the authoritative protocol and red-flag
// determination.
func (c *Client) Recommend(ctx context.Context, sess *session.Session, answers protocol.Answers) (protocol.Summary, error) {
	var out RecommendationResponse
	err := c.do(ctx, sess, http.MethodPost, "/accounts/recommendation/", nil, RecommendationRequest{Answers: answers}, &out)
	if err != nil {
		return protocol.Summary{}, fmt.Errorf("recommendation: %w", err)
	}
	return out.Summary(), nil
}

func (c *Client) ListQuestionnaires(ctx context.Context, sess *session.Session) ([]QuestionnaireRecord, error) {
	var out []QuestionnaireRecord
	if err := c.do(ctx, sess, http.MethodGet, "/accounts/questionnaires/", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list questionnaires: %w", err)
	}
	return out, nil
}

func (c *Client) SaveQuestionnaire(ctx context.Context, sess *session.Session, req SaveQuestionnaireRequest) (*QuestionnaireRecord, error) {
	var out QuestionnaireRecord
	if err := c.do(ctx, sess, http.MethodPost, "/accounts/questionnaires/", nil, req, &out); err != nil {
		return nil, fmt.Errorf("save questionnaire: %w", err)
	}
	return &out, nil
}
