package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"hairline/internal/backend"
	"hairline/internal/models/response_models"
	"hairline/internal/protocol"
	"hairline/internal/questionnaire"
	"hairline/internal/session"
	"hairline/pkg/utils"
)

type QuestionnaireServiceInterface interface {
	Current(ctx context.Context, sess *session.Session) (*response_models.QuestionnaireResponse, error)
	Answer(ctx context.Context, sess *session.Session, values []string) (*response_models.QuestionnaireResponse, error)
	Next(ctx context.Context, sess *session.Session) (*response_models.QuestionnaireResponse, error)
	Back(ctx context.Context, sess *session.Session) (*response_models.QuestionnaireResponse, error)
	Submit(ctx context.Context, sess *session.Session) (*response_models.QuestionnaireResponse, error)
	Reset(ctx context.Context, sess *session.Session) error
	History(ctx context.Context, sess *session.Session) ([]backend.QuestionnaireRecord, error)
}

type QuestionnaireService struct {
	backend   QuestionnaireBackend
	store     FlowStore
	questions []questionnaire.Question
	logger    *zap.Logger
}

func NewQuestionnaireService(b QuestionnaireBackend, store FlowStore, questions []questionnaire.Question, logger *zap.Logger) QuestionnaireServiceInterface {
	return &QuestionnaireService{
		backend:   b,
		store:     store,
		questions: questions,
		logger:    logger,
	}
}

func (q *QuestionnaireService) restore(ctx context.Context, sess *session.Session) (*questionnaire.Flow, error) {
	return questionnaire.Restore(ctx, sess.ID, q.questions, q.store)
}

func (q *QuestionnaireService) Current(ctx context.Context, sess *session.Session) (*response_models.QuestionnaireResponse, error) {
	flow, err := q.restore(ctx, sess)
	if err != nil {
		return nil, err
	}
	return view(flow), nil
}

func (q *QuestionnaireService) Answer(ctx context.Context, sess *session.Session, values []string) (*response_models.QuestionnaireResponse, error) {
	flow, err := q.restore(ctx, sess)
	if err != nil {
		return nil, err
	}
	if err := flow.Answer(ctx, values...); err != nil {
		return nil, err
	}
	return view(flow), nil
}

func (q *QuestionnaireService) Next(ctx context.Context, sess *session.Session) (*response_models.QuestionnaireResponse, error) {
	flow, err := q.restore(ctx, sess)
	if err != nil {
		return nil, err
	}
	if _, err := flow.Next(ctx); err != nil {
		return nil, err
	}
	return view(flow), nil
}

func (q *QuestionnaireService) Back(ctx context.Context, sess *session.Session) (*response_models.QuestionnaireResponse, error) {
	flow, err := q.restore(ctx, sess)
	if err != nil {
		return nil, err
	}
	if _, err := flow.Back(ctx); err != nil {
		return nil, err
	}
	return view(flow), nil
}

// Submit asks the backend for the protocol and its red-flag determination.
// Only when the backend refuses an anonymous session is the protocol computed
// locally. Logged-in submissions are also saved to the patient's history; a
// failed save does not fail the submission.
func (q *QuestionnaireService) Submit(ctx context.Context, sess *session.Session) (*response_models.QuestionnaireResponse, error) {
	flow, err := q.restore(ctx, sess)
	if err != nil {
		return nil, err
	}
	answers := flow.Answers()
	authenticated := sess.Authenticated()

	rec := questionnaire.RecommenderFunc(func(ctx context.Context, a protocol.Answers) (protocol.Summary, error) {
		summary, err := q.backend.Recommend(ctx, sess, a)
		if err != nil && !authenticated && errors.Is(err, utils.ErrUnauthorized) {
			q.logger.Info("anonymous recommendation refused, using local protocol", zap.String("session_id", sess.ID))
			return questionnaire.LocalRecommender.Recommend(ctx, a)
		}
		return summary, err
	})
	result, err := flow.Submit(ctx, rec)
	if err != nil {
		return nil, err
	}

	if authenticated {
		_, err := q.backend.SaveQuestionnaire(ctx, sess, backend.SaveQuestionnaireRequest{
			Answers:  answers,
			RedFlag:  result.RedFlag,
			Products: protocol.IDs(result.Products),
		})
		if err != nil {
			q.logger.Warn("save questionnaire history", zap.String("session_id", sess.ID), zap.Error(err))
		}
	}
	return view(flow), nil
}

func (q *QuestionnaireService) Reset(ctx context.Context, sess *session.Session) error {
	flow, err := q.restore(ctx, sess)
	if err != nil {
		return err
	}
	return flow.Reset(ctx)
}

func (q *QuestionnaireService) History(ctx context.Context, sess *session.Session) ([]backend.QuestionnaireRecord, error) {
	records, err := q.backend.ListQuestionnaires(ctx, sess)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []backend.QuestionnaireRecord{}
	}
	return records, nil
}

func view(flow *questionnaire.Flow) *response_models.QuestionnaireResponse {
	snap := flow.Snapshot()
	pos, total := flow.Progress()
	resp := &response_models.QuestionnaireResponse{
		State:         snap.State,
		Position:      pos,
		Total:         total,
		Answers:       flow.Answers(),
		Result:        snap.Result,
		RedFlagReason: snap.RedFlagReason,
	}
	if q, ok := flow.Current(); ok {
		resp.Question = &q
	}
	return resp
}
