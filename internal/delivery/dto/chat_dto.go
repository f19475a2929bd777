package dto

import "time"

// Request DTOs

type SendChatMessageRequest struct {
	PetID   string `json:"pet_id" validate:"required,uuid"`
	Message string `json:"message" validate:"required,min=1,max=4000"`
}

type AskChatbotRequest struct {
	Question string `json:"question" validate:"required,min=2,max=1000"`
}

// Response DTOs

type ChatMessageResponse struct {
	ID         string    `json:"id"`
	PetID      string    `json:"pet_id"`
	OwnerID    string    `json:"owner_id"`
	ClinicID   string    `json:"clinic_id,omitempty"`
	SenderID   string    `json:"sender_id"`
	SenderType string    `json:"sender_type"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

type ChatbotAnswerResponse struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Topic    string   `json:"topic,omitempty"`
	Matched  []string `json:"matched_keywords,omitempty"`
	Found    bool     `json:"found"`
}

type KnowledgeBaseReloadResponse struct {
	Entries int `json:"entries"`
}
