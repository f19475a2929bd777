package usecase

import (
	"context"
	"strings"
	"time"

	"vetcare-backend/internal/converter"
	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/domain/entity"
	"vetcare-backend/internal/domain/repository"
	"vetcare-backend/internal/service"
	"vetcare-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultChatHistory = 50
	maxChatHistory     = 200
)

var ErrEmptyMessage = apperror.Validation("message must not be blank")

type chatMessageEvent struct {
	MessageID  string `json:"message_id"`
	PetID      string `json:"pet_id"`
	OwnerID    string `json:"owner_id"`
	ClinicID   string `json:"clinic_id,omitempty"`
	SenderID   string `json:"sender_id"`
	SenderType string `json:"sender_type"`
}

// ChatUsecase is the owner to clinic conversation about a pet.
type ChatUsecase interface {
	SendMessage(ctx context.Context, principal *entity.Principal, req *dto.SendChatMessageRequest) (*dto.ChatMessageResponse, error)
	GetHistory(ctx context.Context, principal *entity.Principal, petID uuid.UUID, limit int) ([]dto.ChatMessageResponse, error)
}

type chatUsecase struct {
	db        *gorm.DB
	log       *logrus.Logger
	chatRepo  repository.ChatMessageRepository
	petRepo   repository.PetRepository
	authz     service.Authorizer
	publisher service.EventPublisher
}

func NewChatUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	chatRepo repository.ChatMessageRepository,
	petRepo repository.PetRepository,
	authz service.Authorizer,
	publisher service.EventPublisher,
) ChatUsecase {
	return &chatUsecase{
		db:        db,
		log:       log,
		chatRepo:  chatRepo,
		petRepo:   petRepo,
		authz:     authz,
		publisher: publisher,
	}
}

func (u *chatUsecase) SendMessage(ctx context.Context, principal *entity.Principal, req *dto.SendChatMessageRequest) (*dto.ChatMessageResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceChat, service.ActionSend); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	petID, err := parseID(req.PetID)
	if err != nil {
		return nil, err
	}

	pet, err := findAccessiblePet(u.db.WithContext(ctx), u.log, u.petRepo, principal, petID)
	if err != nil {
		return nil, err
	}
	if pet.IsDeleted {
		return nil, ErrPetDeleted
	}

	message := &entity.ChatMessage{
		PetID:      pet.ID.String(),
		OwnerID:    pet.OwnerID.String(),
		SenderID:   principal.ID.String(),
		SenderType: entity.SenderOwner,
		Message:    text,
		CreatedAt:  time.Now().UTC(),
	}
	if principal.IsVet() {
		message.SenderType = entity.SenderVet
	}
	if pet.RegisteredClinicID != nil {
		message.ClinicID = pet.RegisteredClinicID.String()
	}

	if err := u.chatRepo.Create(ctx, message); err != nil {
		u.log.Warnf("Failed to store chat message: %+v", err)
		return nil, apperror.Internal(err)
	}

	response := converter.ChatMessageToResponse(message)
	publishEvent(ctx, u.log, u.publisher, service.EventChatMessageSent, chatMessageEvent{
		MessageID:  response.ID,
		PetID:      message.PetID,
		OwnerID:    message.OwnerID,
		ClinicID:   message.ClinicID,
		SenderID:   message.SenderID,
		SenderType: string(message.SenderType),
	})
	return response, nil
}

// GetHistory returns the latest messages oldest first.
func (u *chatUsecase) GetHistory(ctx context.Context, principal *entity.Principal, petID uuid.UUID, limit int) ([]dto.ChatMessageResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceChat, service.ActionRead); err != nil {
		return nil, err
	}

	if _, err := findAccessiblePet(u.db.WithContext(ctx), u.log, u.petRepo, principal, petID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultChatHistory
	}
	if limit > maxChatHistory {
		limit = maxChatHistory
	}

	messages, err := u.chatRepo.FindByPet(ctx, petID.String(), int64(limit))
	if err != nil {
		u.log.Warnf("Failed to find chat history: %+v", err)
		return nil, apperror.Internal(err)
	}
	return converter.ChatMessagesToResponses(messages), nil
}
