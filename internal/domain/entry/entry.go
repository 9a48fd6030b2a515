package entry

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidDate              = errors.New("date is required")
	ErrInvalidHours             = errors.New("hours must be greater than 0 and at most 12")
	ErrInvalidPhase             = errors.New("project phase must be one of Research, Development, Testing, Analysis, Documentation")
	ErrEmptyActivityDescription = errors.New("activity description cannot be empty")
	ErrEmptyTechnicalChallenge  = errors.New("technical challenge cannot be empty")
)

// Phase is the R&D project phase a time entry is booked against
type Phase string

const (
	PhaseResearch      Phase = "Research"
	PhaseDevelopment   Phase = "Development"
	PhaseTesting       Phase = "Testing"
	PhaseAnalysis      Phase = "Analysis"
	PhaseDocumentation Phase = "Documentation"
)

// Valid reports whether p is one of the known project phases
func (p Phase) Valid() bool {
	switch p {
	case PhaseResearch, PhaseDevelopment, PhaseTesting, PhaseAnalysis, PhaseDocumentation:
		return true
	}
	return false
}

// MaxDailyCentiHours is the per-entry daily cap (12 hours) in centihours
const MaxDailyCentiHours int64 = 12 * 100

// Entry represents a single dated record of R&D work with the justification
// text WBSO reporting requires
type Entry struct {
	ID                  uuid.UUID `json:"id"`
	OwnerID             uuid.UUID `json:"owner_id"`
	Date                time.Time `json:"date"`        // Date the work occurred; time of day is irrelevant
	CentiHours          int64     `json:"centi_hours"` // Stored in hundredths of an hour
	Phase               Phase     `json:"project_phase"`
	ActivityDescription string    `json:"activity_description"`
	TechnicalChallenge  string    `json:"technical_challenge"`
	CreatedAt           time.Time `json:"created_at"` // Anchor for the edit window, never mutated
	UpdatedAt           time.Time `json:"updated_at"`
}

// New creates a new time entry owned by ownerID. The caller supplies the
// creation instant so the edit window anchor is deterministic.
func New(ownerID uuid.UUID, date time.Time, centiHours int64, phase Phase, activityDescription, technicalChallenge string, now time.Time) (*Entry, error) {
	if err := validateContent(date, centiHours, phase, activityDescription, technicalChallenge); err != nil {
		return nil, err
	}

	return &Entry{
		ID:                  uuid.New(),
		OwnerID:             ownerID,
		Date:                NormalizeDate(date),
		CentiHours:          centiHours,
		Phase:               phase,
		ActivityDescription: activityDescription,
		TechnicalChallenge:  technicalChallenge,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// validateContent checks the mutable content fields shared by create and update
func validateContent(date time.Time, centiHours int64, phase Phase, activityDescription, technicalChallenge string) error {
	if date.IsZero() {
		return ErrInvalidDate
	}
	if centiHours <= 0 || centiHours > MaxDailyCentiHours {
		return ErrInvalidHours
	}
	if !phase.Valid() {
		return ErrInvalidPhase
	}
	if activityDescription == "" {
		return ErrEmptyActivityDescription
	}
	if technicalChallenge == "" {
		return ErrEmptyTechnicalChallenge
	}
	return nil
}

// IsValidationError reports whether err is one of the entry content
// validation errors
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidHours) ||
		errors.Is(err, ErrInvalidPhase) ||
		errors.Is(err, ErrEmptyActivityDescription) ||
		errors.Is(err, ErrEmptyTechnicalChallenge)
}

// NormalizeDate strips the time-of-day component, keeping date-only semantics
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CentiHoursFromHours converts fractional hours to centihours, rounding to
// the nearest hundredth
func CentiHoursFromHours(hours float64) int64 {
	return int64(math.Round(hours * 100))
}

// Hours returns the logged duration as fractional hours
func (e *Entry) Hours() float64 {
	return float64(e.CentiHours) / 100
}
