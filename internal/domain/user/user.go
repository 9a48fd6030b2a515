package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyEmail             = errors.New("email cannot be empty")
	ErrEmptyPasswordHash      = errors.New("password hash cannot be empty")
	ErrEmptyProjectName       = errors.New("project name cannot be empty")
	ErrEmptyApplicationNumber = errors.New("WBSO application number cannot be empty")
	ErrInvalidProjectPeriod   = errors.New("project end date must not be before the start date")
	ErrInvalidApprovedHours   = errors.New("approved hours must be positive")
)

// User is an account holder together with the WBSO project configuration the
// progress aggregation reads its budget from
type User struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	ProjectName        string    `json:"project_name"`
	ApplicationNumber  string    `json:"wbso_application_number"`
	ProjectStartDate   time.Time `json:"project_start_date"`
	ProjectEndDate     time.Time `json:"project_end_date"`
	ApprovedCentiHours int64     `json:"approved_centi_hours"` // Budget ceiling in hundredths of an hour
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// New creates a new user with the given project configuration
func New(email, passwordHash, projectName, applicationNumber string, projectStart, projectEnd time.Time, approvedCentiHours int64, now time.Time) (*User, error) {
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if passwordHash == "" {
		return nil, ErrEmptyPasswordHash
	}
	if projectName == "" {
		return nil, ErrEmptyProjectName
	}
	if applicationNumber == "" {
		return nil, ErrEmptyApplicationNumber
	}
	if projectEnd.Before(projectStart) {
		return nil, ErrInvalidProjectPeriod
	}
	if approvedCentiHours <= 0 {
		return nil, ErrInvalidApprovedHours
	}

	return &User{
		ID:                 uuid.New(),
		Email:              email,
		PasswordHash:       passwordHash,
		ProjectName:        projectName,
		ApplicationNumber:  applicationNumber,
		ProjectStartDate:   projectStart,
		ProjectEndDate:     projectEnd,
		ApprovedCentiHours: approvedCentiHours,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}
