package repository

import (
	"context"

	"vetcare-backend/internal/domain/entity"
)

// ChatMessageRepository is backed by a document store and takes a context instead of a db handle.
type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindByPet(ctx context.Context, petID string, limit int64) ([]entity.ChatMessage, error)
}
