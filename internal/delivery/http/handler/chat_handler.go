package handler

import (
	"net/http"

	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/usecase"
	"vetcare-backend/pkg/response"
	"vetcare-backend/pkg/validator"
)

type ChatHandler struct {
	chatUsecase    usecase.ChatUsecase
	chatbotUsecase usecase.ChatbotUsecase
	validator      *validator.CustomValidator
}

func NewChatHandler(chatUsecase usecase.ChatUsecase, chatbotUsecase usecase.ChatbotUsecase, validator *validator.CustomValidator) *ChatHandler {
	return &ChatHandler{
		chatUsecase:    chatUsecase,
		chatbotUsecase: chatbotUsecase,
		validator:      validator,
	}
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	var req dto.SendChatMessageRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	message, err := h.chatUsecase.SendMessage(r.Context(), principal, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Message sent successfully", "chat_message", message)
}

// GetHistory returns the latest messages of a pet's thread, bounded by ?limit=
func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	petID, ok := pathUUID(w, r, "petId", "pet")
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid limit", nil)
		return
	}

	messages, err := h.chatUsecase.GetHistory(r.Context(), principal, petID, limit)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Chat history retrieved successfully", "messages", messages)
}

func (h *ChatHandler) AskChatbot(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	var req dto.AskChatbotRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	answer, err := h.chatbotUsecase.Ask(r.Context(), principal, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Answer retrieved successfully", "answer", answer)
}

func (h *ChatHandler) ReloadKnowledgeBase(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	result, err := h.chatbotUsecase.Reload(r.Context(), principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Knowledge base reloaded successfully", "knowledge_base", result)
}
