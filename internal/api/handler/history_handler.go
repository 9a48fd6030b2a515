package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rohith2506/wbso-time-tracker/internal/api/middleware"
	"github.com/rohith2506/wbso-time-tracker/internal/api/service"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/audit"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/entry"
)

// HistoryHandler handles HTTP requests for the time entry audit trail
type HistoryHandler struct {
	historyService service.HistoryService
	logger         *slog.Logger
}

// NewHistoryHandler creates a new audit history handler
func NewHistoryHandler(logger *slog.Logger, historyService service.HistoryService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		logger:         logger,
	}
}

// EntryHistory returns the recorded mutations of one of the authenticated
// user's time entries, oldest first. Deleted entries keep their trail, so the
// history of an entry that no longer exists still resolves.
func (h *HistoryHandler) EntryHistory(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid entry ID")
		return
	}

	records, err := h.historyService.EntryHistory(c.Request.Context(), ownerID, entryID)
	if err != nil {
		var notFoundErr entry.ErrEntryNotFound
		if errors.As(err, &notFoundErr) {
			RespondNotFound(c, "Time entry not found")
			return
		}
		h.logger.Error("Failed to load entry history", "entry_id", entryID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	history := make([]HistoryRecordResponse, 0, len(records))
	for _, r := range records {
		history = append(history, mapRecordToResponse(r))
	}

	RespondOK(c, EntryHistoryResponse{EntryID: entryID.String(), History: history})
}

// OwnerHistory returns a paginated page of the authenticated user's audit
// trail across all their entries, newest first
func (h *HistoryHandler) OwnerHistory(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	records, total, err := h.historyService.OwnerHistory(c.Request.Context(), ownerID, pagination.Page, pagination.PerPage)
	if err != nil {
		h.logger.Error("Failed to load owner history", "owner_id", ownerID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	history := make([]HistoryRecordResponse, 0, len(records))
	for _, r := range records {
		history = append(history, mapRecordToResponse(r))
	}

	RespondWithPaginatedData(c, http.StatusOK, history, pagination.Page, pagination.PerPage, int(total))
}

// mapRecordToResponse maps an audit record to a response DTO
func mapRecordToResponse(r *audit.Record) HistoryRecordResponse {
	return HistoryRecordResponse{
		EventID:             r.EventID.String(),
		Action:              string(r.Action),
		Date:                r.Date.Format(DateLayout),
		Hours:               float64(r.CentiHours) / 100,
		ProjectPhase:        r.Phase,
		ActivityDescription: r.ActivityDescription,
		TechnicalChallenge:  r.TechnicalChallenge,
		OccurredAt:          r.OccurredAt.Format(time.RFC3339),
	}
}
