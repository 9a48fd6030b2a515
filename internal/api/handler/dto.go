package handler

// DateLayout is the wire format for work and project dates
const DateLayout = "2006-01-02"

// RegisterRequest represents a request to create a user with their WBSO
// project configuration
type RegisterRequest struct {
	Email                 string  `json:"email" binding:"required,email"`
	Password              string  `json:"password" binding:"required,min=8"`
	ProjectName           string  `json:"project_name" binding:"required"`
	WBSOApplicationNumber string  `json:"wbso_application_number" binding:"required"`
	ProjectStartDate      string  `json:"project_start_date" binding:"required"`
	ProjectEndDate        string  `json:"project_end_date" binding:"required"`
	ApprovedHours         float64 `json:"approved_hours" binding:"required,gt=0"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the access token and the authenticated user
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID                    string  `json:"id"`
	Email                 string  `json:"email"`
	ProjectName           string  `json:"project_name"`
	WBSOApplicationNumber string  `json:"wbso_application_number"`
	ProjectStartDate      string  `json:"project_start_date"`
	ProjectEndDate        string  `json:"project_end_date"`
	ApprovedHours         float64 `json:"approved_hours"`
	CreatedAt             string  `json:"created_at"`
}

// CreateEntryRequest represents a request to log a time entry
type CreateEntryRequest struct {
	Date                string  `json:"date" binding:"required"`
	Hours               float64 `json:"hours" binding:"required,gt=0,lte=12"`
	ProjectPhase        string  `json:"project_phase" binding:"required"`
	ActivityDescription string  `json:"activity_description" binding:"required"`
	TechnicalChallenge  string  `json:"technical_challenge" binding:"required"`
}

// UpdateEntryRequest represents a request to edit a time entry. All content
// fields are required; partial updates are not supported.
type UpdateEntryRequest struct {
	Date                string  `json:"date" binding:"required"`
	Hours               float64 `json:"hours" binding:"required,gt=0,lte=12"`
	ProjectPhase        string  `json:"project_phase" binding:"required"`
	ActivityDescription string  `json:"activity_description" binding:"required"`
	TechnicalChallenge  string  `json:"technical_challenge" binding:"required"`
}

// EntryResponse represents a time entry in API responses
type EntryResponse struct {
	ID                  string  `json:"id"`
	Date                string  `json:"date"`
	Hours               float64 `json:"hours"`
	ProjectPhase        string  `json:"project_phase"`
	ActivityDescription string  `json:"activity_description"`
	TechnicalChallenge  string  `json:"technical_challenge"`
	Editable            bool    `json:"can_edit"`
	EditableUntil       string  `json:"editable_until"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

// EntryListResponse represents a list of time entries in API responses
type EntryListResponse struct {
	Entries []EntryResponse `json:"entries"`
}

// StatsResponse represents project progress in API responses
type StatsResponse struct {
	TotalHours         float64 `json:"total_hours"`
	ApprovedHours      float64 `json:"approved_hours"`
	RemainingHours     float64 `json:"remaining_hours"`
	ProgressPercentage int     `json:"progress_percentage"`
	Year               *int    `json:"year,omitempty"`
}

// HistoryRecordResponse represents one audit trail record in API responses
type HistoryRecordResponse struct {
	EventID             string  `json:"event_id"`
	Action              string  `json:"action"`
	Date                string  `json:"date"`
	Hours               float64 `json:"hours"`
	ProjectPhase        string  `json:"project_phase"`
	ActivityDescription string  `json:"activity_description"`
	TechnicalChallenge  string  `json:"technical_challenge"`
	OccurredAt          string  `json:"occurred_at"`
}

// EntryHistoryResponse represents the audit trail of a single time entry,
// oldest record first
type EntryHistoryResponse struct {
	EntryID string                  `json:"entry_id"`
	History []HistoryRecordResponse `json:"history"`
}

// ListEntriesQuery represents query parameters for list, stats and export
// endpoints
type ListEntriesQuery struct {
	Year *int `form:"year" binding:"omitempty,min=1900,max=2200"`
}

// PaginationParams represents pagination query parameters
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}
