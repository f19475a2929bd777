package handler

import (
	"net/http"
	"strconv"

	"vetcare-backend/internal/usecase"
	"vetcare-backend/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	auditLogID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid audit log ID", nil)
		return
	}

	auditLog, err := h.auditLogUsecase.GetAuditLog(r.Context(), principal, auditLogID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", "audit_log", auditLog)
}

// GetAllAuditLogs supports ?clinic_id=, ?page= and ?limit=
func (h *AuditLogHandler) GetAllAuditLogs(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	var clinicID *uuid.UUID
	if raw := r.URL.Query().Get("clinic_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid clinic ID", nil)
			return
		}
		clinicID = &id
	}
	page, err := queryInt(r, "page", 1)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid page", nil)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid limit", nil)
		return
	}

	result, err := h.auditLogUsecase.GetAllAuditLogs(r.Context(), principal, clinicID, page, limit)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Audit logs retrieved successfully", "audit_logs", result.Logs,
		pageMeta(result.Page, result.Limit, result.Total))
}
