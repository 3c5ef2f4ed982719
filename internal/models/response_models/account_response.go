package response_models

import (
	"time"

	"hairline/internal/session"
)

type SessionResponse struct {
	SessionID     string           `json:"session_id"`
	Authenticated bool             `json:"authenticated"`
	Profile       *session.Profile `json:"profile,omitempty"`
	ExpiresAt     *time.Time       `json:"expires_at,omitempty"`
}

func NewSessionResponse(s *session.Session) SessionResponse {
	resp := SessionResponse{SessionID: s.ID, Authenticated: s.Authenticated(), Profile: s.Profile}
	if !s.ExpiresAt.IsZero() {
		exp := s.ExpiresAt
		resp.ExpiresAt = &exp
	}
	return resp
}
