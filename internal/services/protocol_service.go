package services

import (
	"hairline/internal/protocol"
)

type ProtocolServiceInterface interface {
	Calculate(answers protocol.Answers) protocol.Summary
}

type ProtocolService struct{}

func NewProtocolService() ProtocolServiceInterface {
	return &ProtocolService{}
}

func (p *ProtocolService) Calculate(answers protocol.Answers) protocol.Summary {
	if answers == nil {
		answers = protocol.Answers{}
	}
	return protocol.Summarize(answers)
}
