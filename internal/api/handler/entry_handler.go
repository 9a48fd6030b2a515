package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rohith2506/wbso-time-tracker/internal/api/middleware"
	"github.com/rohith2506/wbso-time-tracker/internal/api/service"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/entry"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/user"
)

// EntryHandler handles HTTP requests for time entry operations
type EntryHandler struct {
	entryService service.EntryService
	logger       *slog.Logger
}

// NewEntryHandler creates a new time entry handler
func NewEntryHandler(logger *slog.Logger, entryService service.EntryService) *EntryHandler {
	return &EntryHandler{
		entryService: entryService,
		logger:       logger,
	}
}

// Create logs a new time entry for the authenticated user
func (h *EntryHandler) Create(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	date, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		RespondBadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	phase := entry.Phase(req.ProjectPhase)
	if !phase.Valid() {
		RespondBadRequest(c, entry.ErrInvalidPhase.Error())
		return
	}

	e, err := h.entryService.CreateEntry(c.Request.Context(), service.CreateEntryInput{
		OwnerID:             ownerID,
		Date:                date,
		CentiHours:          entry.CentiHoursFromHours(req.Hours),
		Phase:               phase,
		ActivityDescription: req.ActivityDescription,
		TechnicalChallenge:  req.TechnicalChallenge,
		CorrelationID:       middleware.GetCorrelationID(c),
	})
	if err != nil {
		if entry.IsValidationError(err) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create time entry", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapEntryToResponse(e, time.Now().UTC()))
}

// List returns the authenticated user's time entries, optionally restricted
// to a calendar year via the year query parameter
func (h *EntryHandler) List(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var query ListEntriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	entries, err := h.entryService.ListEntries(c.Request.Context(), ownerID, query.Year)
	if err != nil {
		h.logger.Error("Failed to list time entries", "owner_id", ownerID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	now := time.Now().UTC()
	responses := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, mapEntryToResponse(e, now))
	}

	RespondOK(c, EntryListResponse{Entries: responses})
}

// Update edits a time entry that is still inside the 48-hour edit window
func (h *EntryHandler) Update(c *gin.Context) {
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

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	date, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		RespondBadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	e, err := h.entryService.UpdateEntry(c.Request.Context(), ownerID, entryID, entry.Update{
		Date:                date,
		CentiHours:          entry.CentiHoursFromHours(req.Hours),
		Phase:               entry.Phase(req.ProjectPhase),
		ActivityDescription: req.ActivityDescription,
		TechnicalChallenge:  req.TechnicalChallenge,
	}, middleware.GetCorrelationID(c))
	if err != nil {
		h.respondEntryError(c, entryID, err)
		return
	}

	RespondOK(c, mapEntryToResponse(e, time.Now().UTC()))
}

// Delete removes a time entry. Entries of any age can be deleted; only edits
// are bounded by the 48-hour window.
func (h *EntryHandler) Delete(c *gin.Context) {
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

	if err := h.entryService.DeleteEntry(c.Request.Context(), ownerID, entryID, middleware.GetCorrelationID(c)); err != nil {
		h.respondEntryError(c, entryID, err)
		return
	}

	RespondNoContent(c)
}

// Stats returns the authenticated user's progress against the approved
// project budget
func (h *EntryHandler) Stats(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var query ListEntriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	stats, err := h.entryService.GetStats(c.Request.Context(), ownerID, query.Year)
	if err != nil {
		var notFoundErr user.ErrUserNotFound
		if errors.As(err, &notFoundErr) {
			RespondNotFound(c, "User not found")
			return
		}
		h.logger.Error("Failed to compute stats", "owner_id", ownerID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, StatsResponse{
		TotalHours:         float64(stats.TotalCentiHours) / 100,
		ApprovedHours:      float64(stats.ApprovedCentiHours) / 100,
		RemainingHours:     float64(stats.RemainingCentiHours) / 100,
		ProgressPercentage: stats.ProgressPercentage,
		Year:               query.Year,
	})
}

// Export streams the authenticated user's entries as a CSV document suitable
// for WBSO reporting
func (h *EntryHandler) Export(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var query ListEntriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	entries, err := h.entryService.ListEntries(c.Request.Context(), ownerID, query.Year)
	if err != nil {
		h.logger.Error("Failed to export time entries", "owner_id", ownerID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	filename := "wbso_time_entries.csv"
	if query.Year != nil {
		filename = fmt.Sprintf("wbso_time_entries_%d.csv", *query.Year)
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"date", "hours", "project_phase", "activity_description", "technical_challenge"})
	for _, e := range entries {
		_ = w.Write([]string{
			e.Date.Format(DateLayout),
			strconv.FormatFloat(e.Hours(), 'f', -1, 64),
			string(e.Phase),
			e.ActivityDescription,
			e.TechnicalChallenge,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		h.logger.Error("Failed to write CSV export", "owner_id", ownerID.String(), "error", err)
	}
}

// respondEntryError maps time entry domain errors to HTTP responses
func (h *EntryHandler) respondEntryError(c *gin.Context, entryID uuid.UUID, err error) {
	var (
		notFoundErr  entry.ErrEntryNotFound
		lockedErr    entry.ErrEntryLocked
		forbiddenErr entry.ErrEntryForbidden
	)
	switch {
	case errors.As(err, &notFoundErr):
		RespondNotFound(c, "Time entry not found")
	case errors.As(err, &lockedErr):
		RespondLocked(c, "Time entry can no longer be edited: the 48-hour window has expired")
	case errors.As(err, &forbiddenErr):
		RespondForbidden(c, "Time entry belongs to another user")
	case entry.IsValidationError(err):
		RespondBadRequest(c, err.Error())
	default:
		h.logger.Error("Time entry operation failed", "entry_id", entryID.String(), "error", err)
		RespondInternalError(c)
	}
}

// mapEntryToResponse maps an entry entity to a response DTO. The editable
// flag is computed against now so clients can grey out locked entries.
func mapEntryToResponse(e *entry.Entry, now time.Time) EntryResponse {
	return EntryResponse{
		ID:                  e.ID.String(),
		Date:                e.Date.Format(DateLayout),
		Hours:               e.Hours(),
		ProjectPhase:        string(e.Phase),
		ActivityDescription: e.ActivityDescription,
		TechnicalChallenge:  e.TechnicalChallenge,
		Editable:            entry.IsEditable(e.CreatedAt, now),
		EditableUntil:       e.CreatedAt.Add(entry.EditWindow).Format(time.RFC3339),
		CreatedAt:           e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           e.UpdatedAt.Format(time.RFC3339),
	}
}
