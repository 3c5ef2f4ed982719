package request_models

import "hairline/internal/protocol"

type AnswerRequest struct {
	Values []string `json:"values" binding:"required,min=1"`
}

type CalculateRequest struct {
	Answers protocol.Answers `json:"answers" binding:"required"`
}
