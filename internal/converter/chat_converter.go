package converter

import (
	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/domain/entity"
)

func ChatMessageToResponse(message *entity.ChatMessage) *dto.ChatMessageResponse {
	if message == nil {
		return nil
	}

	return &dto.ChatMessageResponse{
		ID:         message.ID.Hex(),
		PetID:      message.PetID,
		OwnerID:    message.OwnerID,
		ClinicID:   message.ClinicID,
		SenderID:   message.SenderID,
		SenderType: string(message.SenderType),
		Message:    message.Message,
		CreatedAt:  message.CreatedAt,
	}
}

// ChatMessagesToResponses keeps the input order.
func ChatMessagesToResponses(messages []entity.ChatMessage) []dto.ChatMessageResponse {
	responses := make([]dto.ChatMessageResponse, len(messages))
	for i := range messages {
		responses[i] = *ChatMessageToResponse(&messages[i])
	}
	return responses
}
