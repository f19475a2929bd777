package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SenderType string

const (
	SenderOwner SenderType = "owner"
	SenderVet   SenderType = "vet"
)

// ChatMessage is stored in the chat_messages collection. Ids are kept as strings
// so documents stay readable outside the service.
type ChatMessage struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PetID      string             `bson:"pet_id" json:"pet_id"`
	OwnerID    string             `bson:"owner_id" json:"owner_id"`
	ClinicID   string             `bson:"clinic_id,omitempty" json:"clinic_id,omitempty"`
	SenderID   string             `bson:"sender_id" json:"sender_id"`
	SenderType SenderType         `bson:"sender_type" json:"sender_type"`
	Message    string             `bson:"message" json:"message"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
