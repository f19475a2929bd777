package usecase

import (
	"context"
	"strings"

	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/domain/entity"
	"vetcare-backend/internal/service"
	"vetcare-backend/pkg/apperror"

	"github.com/sirupsen/logrus"
)

var ErrEmptyQuestion = apperror.Validation("question must not be blank")

// KnowledgeSource answers chatbot questions and can be rebuilt from its source file.
type KnowledgeSource interface {
	Ask(question string) service.KnowledgeAnswer
	Reload() error
	Size() int
}

type ChatbotUsecase interface {
	Ask(ctx context.Context, principal *entity.Principal, req *dto.AskChatbotRequest) (*dto.ChatbotAnswerResponse, error)
	Reload(ctx context.Context, principal *entity.Principal) (*dto.KnowledgeBaseReloadResponse, error)
}

type chatbotUsecase struct {
	log       *logrus.Logger
	knowledge KnowledgeSource
	authz     service.Authorizer
}

func NewChatbotUsecase(log *logrus.Logger, knowledge KnowledgeSource, authz service.Authorizer) ChatbotUsecase {
	return &chatbotUsecase{
		log:       log,
		knowledge: knowledge,
		authz:     authz,
	}
}

func (u *chatbotUsecase) Ask(ctx context.Context, principal *entity.Principal, req *dto.AskChatbotRequest) (*dto.ChatbotAnswerResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceChatbot, service.ActionAsk); err != nil {
		return nil, err
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	answer := u.knowledge.Ask(question)
	return &dto.ChatbotAnswerResponse{
		Question: question,
		Answer:   answer.Answer,
		Topic:    answer.Topic,
		Matched:  answer.Matched,
		Found:    answer.Found,
	}, nil
}

// Reload keeps serving the previous snapshot when the new file fails to load.
func (u *chatbotUsecase) Reload(ctx context.Context, principal *entity.Principal) (*dto.KnowledgeBaseReloadResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceKnowledgeBase, service.ActionReload); err != nil {
		return nil, err
	}

	if err := u.knowledge.Reload(); err != nil {
		u.log.Warnf("Failed to reload knowledge base: %+v", err)
		return nil, apperror.Internal(err)
	}

	entries := u.knowledge.Size()
	u.log.Infof("Knowledge base reloaded with %d entries", entries)
	return &dto.KnowledgeBaseReloadResponse{Entries: entries}, nil
}
