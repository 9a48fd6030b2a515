package entry

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ownerID := uuid.New()
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	date := time.Date(2025, 3, 10, 14, 45, 12, 0, time.UTC) // time of day should be discarded

	t.Run("Success", func(t *testing.T) {
		e, err := New(ownerID, date, 750, PhaseResearch, "Built prototype test rig", "Sensor calibration drift", now)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, e.ID)
		assert.Equal(t, ownerID, e.OwnerID)
		assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), e.Date)
		assert.Equal(t, int64(750), e.CentiHours)
		assert.InDelta(t, 7.5, e.Hours(), 1e-9)
		assert.Equal(t, now, e.CreatedAt)
		assert.Equal(t, now, e.UpdatedAt)
	})

	t.Run("ValidationFailures", func(t *testing.T) {
		tests := []struct {
			name    string
			build   func() (*Entry, error)
			wantErr error
		}{
			{"zero date", func() (*Entry, error) {
				return New(ownerID, time.Time{}, 100, PhaseResearch, "a", "b", now)
			}, ErrInvalidDate},
			{"zero hours", func() (*Entry, error) {
				return New(ownerID, date, 0, PhaseResearch, "a", "b", now)
			}, ErrInvalidHours},
			{"negative hours", func() (*Entry, error) {
				return New(ownerID, date, -25, PhaseResearch, "a", "b", now)
			}, ErrInvalidHours},
			{"above daily cap", func() (*Entry, error) {
				return New(ownerID, date, MaxDailyCentiHours+1, PhaseResearch, "a", "b", now)
			}, ErrInvalidHours},
			{"unknown phase", func() (*Entry, error) {
				return New(ownerID, date, 100, Phase("Meetings"), "a", "b", now)
			}, ErrInvalidPhase},
			{"empty activity description", func() (*Entry, error) {
				return New(ownerID, date, 100, PhaseTesting, "", "b", now)
			}, ErrEmptyActivityDescription},
			{"empty technical challenge", func() (*Entry, error) {
				return New(ownerID, date, 100, PhaseTesting, "a", "", now)
			}, ErrEmptyTechnicalChallenge},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				e, err := tt.build()
				assert.Nil(t, e)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsValidationError(err))
			})
		}
	})

	t.Run("ExactDailyCapIsAllowed", func(t *testing.T) {
		e, err := New(ownerID, date, MaxDailyCentiHours, PhaseAnalysis, "a", "b", now)
		require.NoError(t, err)
		assert.Equal(t, int64(1200), e.CentiHours)
	})

	t.Run("NonQuarterHourValuesAccepted", func(t *testing.T) {
		// 0.25h stepping is a UI convention only; the core accepts any value in range
		e, err := New(ownerID, date, 333, PhaseDevelopment, "a", "b", now)
		require.NoError(t, err)
		assert.Equal(t, int64(333), e.CentiHours)
	})
}

func TestCentiHoursFromHours(t *testing.T) {
	assert.Equal(t, int64(750), CentiHoursFromHours(7.5))
	assert.Equal(t, int64(25), CentiHoursFromHours(0.25))
	assert.Equal(t, int64(1200), CentiHoursFromHours(12))
	assert.Equal(t, int64(33), CentiHoursFromHours(0.333))
}

func TestPhase_Valid(t *testing.T) {
	for _, p := range []Phase{PhaseResearch, PhaseDevelopment, PhaseTesting, PhaseAnalysis, PhaseDocumentation} {
		assert.True(t, p.Valid(), string(p))
	}
	assert.False(t, Phase("").Valid())
	assert.False(t, Phase("research").Valid(), "phases are case sensitive")
}

func TestIsValidationError(t *testing.T) {
	assert.False(t, IsValidationError(ErrEntryLocked{EntryID: uuid.New()}))
	assert.False(t, IsValidationError(ErrEntryNotFound{EntryID: uuid.New()}))
}
