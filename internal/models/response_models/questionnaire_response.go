package response_models

import (
	"hairline/internal/backend"
	"hairline/internal/protocol"
	"hairline/internal/questionnaire"
)

type QuestionnaireResponse struct {
	State         questionnaire.State     `json:"state"`
	Question      *questionnaire.Question `json:"question,omitempty"`
	Position      int                     `json:"position"`
	Total         int                     `json:"total"`
	Answers       protocol.Answers        `json:"answers,omitempty"`
	Result        *protocol.Summary       `json:"result,omitempty"`
	RedFlagReason string                  `json:"red_flag_reason,omitempty"`
}

type QuestionnaireHistoryResponse struct {
	Records []backend.QuestionnaireRecord `json:"records"`
}
