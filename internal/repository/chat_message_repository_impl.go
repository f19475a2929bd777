package repository

import (
	"context"
	"time"

	"vetcare-backend/internal/domain/entity"
	domainRepo "vetcare-backend/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const chatMessageCollection = "chat_messages"

type chatMessageRepository struct {
	collection *mongo.Collection
}

func NewChatMessageRepository(db *mongo.Database) domainRepo.ChatMessageRepository {
	return &chatMessageRepository{
		collection: db.Collection(chatMessageCollection),
	}
}

// EnsureChatIndexes creates the pet history index used by FindByPet.
func EnsureChatIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(chatMessageCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "pet_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func (r *chatMessageRepository) Create(ctx context.Context, message *entity.ChatMessage) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	result, err := r.collection.InsertOne(ctx, message)
	if err != nil {
		return err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		message.ID = id
	}
	return nil
}

// FindByPet returns the newest messages first, at most limit of them.
func (r *chatMessageRepository) FindByPet(ctx context.Context, petID string, limit int64) ([]entity.ChatMessage, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"pet_id": petID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := make([]entity.ChatMessage, 0)
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
