package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rohith2506/wbso-time-tracker/internal/api/middleware"
	"github.com/rohith2506/wbso-time-tracker/internal/api/service"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/entry"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/user"
)

type MockEntryService struct {
	mock.Mock
}

func (m *MockEntryService) CreateEntry(ctx context.Context, input service.CreateEntryInput) (*entry.Entry, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entry.Entry), args.Error(1)
}

func (m *MockEntryService) ListEntries(ctx context.Context, ownerID uuid.UUID, year *int) ([]*entry.Entry, error) {
	args := m.Called(ctx, ownerID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entry.Entry), args.Error(1)
}

func (m *MockEntryService) UpdateEntry(ctx context.Context, ownerID, entryID uuid.UUID, upd entry.Update, correlationID string) (*entry.Entry, error) {
	args := m.Called(ctx, ownerID, entryID, upd, correlationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entry.Entry), args.Error(1)
}

func (m *MockEntryService) DeleteEntry(ctx context.Context, ownerID, entryID uuid.UUID, correlationID string) error {
	args := m.Called(ctx, ownerID, entryID, correlationID)
	return args.Error(0)
}

func (m *MockEntryService) GetStats(ctx context.Context, ownerID uuid.UUID, year *int) (*entry.ProjectStats, error) {
	args := m.Called(ctx, ownerID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entry.ProjectStats), args.Error(1)
}

// setupTestRouter installs a stub auth step that injects ownerID, standing in
// for the JWT middleware
func setupTestRouter(ownerID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, ownerID)
		c.Next()
	})
	return r
}

func decodeData[T any](t *testing.T, body []byte) T {
	t.Helper()
	var topLevel Response
	require.NoError(t, json.Unmarshal(body, &topLevel))
	require.NotNil(t, topLevel.Data)

	dataBytes, err := json.Marshal(topLevel.Data)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(dataBytes, &out))
	return out
}

func newStoredEntry(ownerID uuid.UUID, createdAt time.Time) *entry.Entry {
	return &entry.Entry{
		ID:                  uuid.New(),
		OwnerID:             ownerID,
		Date:                time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		CentiHours:          450,
		Phase:               entry.PhaseDevelopment,
		ActivityDescription: "Implemented adaptive routing prototype",
		TechnicalChallenge:  "Existing algorithms do not handle partial link failure",
		CreatedAt:           createdAt,
		UpdatedAt:           createdAt,
	}
}

func TestEntryHandler_Create(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ownerID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockEntryService)
		handler := NewEntryHandler(logger, mockService)

		stored := newStoredEntry(ownerID, time.Now().UTC())
		mockService.On("CreateEntry", mock.Anything, mock.MatchedBy(func(input service.CreateEntryInput) bool {
			return input.OwnerID == ownerID &&
				input.CentiHours == 450 &&
				input.Phase == entry.PhaseDevelopment &&
				input.Date.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
		})).Return(stored, nil)

		router := setupTestRouter(ownerID)
		router.POST("/time-entries", handler.Create)

		reqBody := CreateEntryRequest{
			Date:                "2024-03-15",
			Hours:               4.5,
			ProjectPhase:        "Development",
			ActivityDescription: "Implemented adaptive routing prototype",
			TechnicalChallenge:  "Existing algorithms do not handle partial link failure",
		}
		jsonBody, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/time-entries", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		resp := decodeData[EntryResponse](t, rr.Body.Bytes())
		assert.Equal(t, stored.ID.String(), resp.ID)
		assert.Equal(t, 4.5, resp.Hours)
		assert.True(t, resp.Editable, "a freshly created entry is editable")
		mockService.AssertExpectations(t)
	})

	t.Run("HoursAboveDailyCap", func(t *testing.T) {
		mockService := new(MockEntryService)
		handler := NewEntryHandler(logger, mockService)

		router := setupTestRouter(ownerID)
		router.POST("/time-entries", handler.Create)

		reqBody := CreateEntryRequest{
			Date:                "2024-03-15",
			Hours:               12.5,
			ProjectPhase:        "Development",
			ActivityDescription: "x",
			TechnicalChallenge:  "y",
		}
		jsonBody, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/time-entries", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "CreateEntry", mock.Anything, mock.Anything)
	})

	t.Run("UnknownPhase", func(t *testing.T) {
		mockService := new(MockEntryService)
		handler := NewEntryHandler(logger, mockService)

		router := setupTestRouter(ownerID)
		router.POST("/time-entries", handler.Create)

		reqBody := CreateEntryRequest{
			Date:                "2024-03-15",
			Hours:               4,
			ProjectPhase:        "Maintenance",
			ActivityDescription: "x",
			TechnicalChallenge:  "y",
		}
		jsonBody, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/time-entries", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "CreateEntry", mock.Anything, mock.Anything)
	})
}

func TestEntryHandler_List(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ownerID := uuid.New()

	t.Run("FilteredByYear", func(t *testing.T) {
		mockService := new(MockEntryService)
		handler := NewEntryHandler(logger, mockService)

		stored := newStoredEntry(ownerID, time.Now().UTC())
		mockService.On("ListEntries", mock.Anything, ownerID, mock.MatchedBy(func(year *int) bool {
			return year != nil && *year == 2024
		})).Return([]*entry.Entry{stored}, nil)

		router := setupTestRouter(ownerID)
		router.GET("/time-entries", handler.List)

		req, _ := http.NewRequest(http.MethodGet, "/time-entries?year=2024", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		resp := decodeData[EntryListResponse](t, rr.Body.Bytes())
		require.Len(t, resp.Entries, 1)
		assert.Equal(t, "2024-03-15", resp.Entries[0].Date)
		mockService.AssertExpectations(t)
	})

	t.Run("LockedEntryIsFlagged", func(t *testing.T) {
		mockService := new(MockEntryService)
		handler := NewEntryHandler(logger, mockService)

		old := newStoredEntry(ownerID, time.Now().UTC().Add(-72*time.Hour))
		mockService.On("ListEntries", mock.Anything, ownerID, (*int)(nil)).Return([]*entry.Entry{old}, nil)

		router := setupTestRouter(ownerID)
		router.GET("/time-entries", handler.List)

		req, _ := http.NewRequest(http.MethodGet, "/time-entries", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		resp := decodeData[EntryListResponse](t, rr.Body.Bytes())
		require.Len(t, resp.Entries, 1)
		assert.False(t, resp.Entries[0].Editable)
	})
}

func TestEntryHandler_Update(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ownerID := uuid.New()

	validBody := func() []byte {
		b, _ := json.Marshal(UpdateEntryRequest{
			Date:                "2024-03-15",
			Hours:               6,
			ProjectPhase:        "Testing",
			ActivityDescription: "Measured failover latency",
			TechnicalChallenge:  "Deterministic failure injection",
		})
		return b
	}

	t.Run("LockedEntryReturns423", func(t *testing.T) {
		mockService := new(MockEntryService)
		handler := NewEntryHandler(logger, mockService)

		entryID := uuid.New()
		mockService.On("UpdateEntry", mock.Anything, ownerID, entryID, mock.Anything, mock.Anything).
			Return(nil, entry.ErrEntryLocked{EntryID: entryID})

		router := setupTestRouter(ownerID)
		router.PUT("/time-entries/:id", handler.Update)

		req, _ := http.NewRequest(http.MethodPut, "/time-entries/"+entryID.String(), bytes.NewBuffer(validBody()))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusLocked, rr.Code)

		var topLevel Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevel))
		require.NotNil(t, topLevel.Error)
		assert.Equal(t, "ENTRY_LOCKED", topLevel.Error.Code)
	})

	t.Run("MissingEntryReturns404", func(t *testing.T) {
		mockService := new(MockEntryService)
		handler := NewEntryHandler(logger, mockService)

		entryID := uuid.New()
		mockService.On("UpdateEntry", mock.Anything, ownerID, entryID, mock.Anything, mock.Anything).
			Return(nil, entry.ErrEntryNotFound{EntryID: entryID})

		router := setupTestRouter(ownerID)
		router.PUT("/time-entries/:id", handler.Update)

		req, _ := http.NewRequest(http.MethodPut, "/time-entries/"+entryID.String(), bytes.NewBuffer(validBody()))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockEntryService)
		handler := NewEntryHandler(logger, mockService)

		stored := newStoredEntry(ownerID, time.Now().UTC())
		stored.CentiHours = 600
		stored.Phase = entry.PhaseTesting
		mockService.On("UpdateEntry", mock.Anything, ownerID, stored.ID, mock.MatchedBy(func(upd entry.Update) bool {
			return upd.CentiHours == 600 && upd.Phase == entry.PhaseTesting
		}), mock.Anything).Return(stored, nil)

		router := setupTestRouter(ownerID)
		router.PUT("/time-entries/:id", handler.Update)

		req, _ := http.NewRequest(http.MethodPut, "/time-entries/"+stored.ID.String(), bytes.NewBuffer(validBody()))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		resp := decodeData[EntryResponse](t, rr.Body.Bytes())
		assert.Equal(t, 6.0, resp.Hours)
		mockService.AssertExpectations(t)
	})
}

func TestEntryHandler_Delete(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ownerID := uuid.New()

	t.Run("DeleteIsNotLockGated", func(t *testing.T) {
		// Deleting an old entry succeeds even though editing it would not
		mockService := new(MockEntryService)
		handler := NewEntryHandler(logger, mockService)

		entryID := uuid.New()
		mockService.On("DeleteEntry", mock.Anything, ownerID, entryID, mock.Anything).Return(nil)

		router := setupTestRouter(ownerID)
		router.DELETE("/time-entries/:id", handler.Delete)

		req, _ := http.NewRequest(http.MethodDelete, "/time-entries/"+entryID.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ForeignEntryReturns403", func(t *testing.T) {
		mockService := new(MockEntryService)
		handler := NewEntryHandler(logger, mockService)

		entryID := uuid.New()
		mockService.On("DeleteEntry", mock.Anything, ownerID, entryID, mock.Anything).
			Return(entry.ErrEntryForbidden{EntryID: entryID})

		router := setupTestRouter(ownerID)
		router.DELETE("/time-entries/:id", handler.Delete)

		req, _ := http.NewRequest(http.MethodDelete, "/time-entries/"+entryID.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestEntryHandler_Stats(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ownerID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockEntryService)
		handler := NewEntryHandler(logger, mockService)

		mockService.On("GetStats", mock.Anything, ownerID, (*int)(nil)).Return(&entry.ProjectStats{
			TotalCentiHours:     9000,
			ApprovedCentiHours:  8000,
			RemainingCentiHours: 0,
			ProgressPercentage:  113,
		}, nil)

		router := setupTestRouter(ownerID)
		router.GET("/time-entries/stats", handler.Stats)

		req, _ := http.NewRequest(http.MethodGet, "/time-entries/stats", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		resp := decodeData[StatsResponse](t, rr.Body.Bytes())
		assert.Equal(t, 90.0, resp.TotalHours)
		assert.Equal(t, 80.0, resp.ApprovedHours)
		assert.Equal(t, 0.0, resp.RemainingHours)
		assert.Equal(t, 113, resp.ProgressPercentage)
	})

	t.Run("UnknownUserReturns404", func(t *testing.T) {
		mockService := new(MockEntryService)
		handler := NewEntryHandler(logger, mockService)

		mockService.On("GetStats", mock.Anything, ownerID, (*int)(nil)).
			Return(nil, user.ErrUserNotFound{UserID: ownerID})

		router := setupTestRouter(ownerID)
		router.GET("/time-entries/stats", handler.Stats)

		req, _ := http.NewRequest(http.MethodGet, "/time-entries/stats", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestEntryHandler_Export(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ownerID := uuid.New()

	t.Run("StreamsCSVForYear", func(t *testing.T) {
		mockService := new(MockEntryService)
		handler := NewEntryHandler(logger, mockService)

		stored := newStoredEntry(ownerID, time.Now().UTC())
		year := 2024
		mockService.On("ListEntries", mock.Anything, ownerID, &year).Return([]*entry.Entry{stored}, nil)

		router := setupTestRouter(ownerID)
		router.GET("/time-entries/export", handler.Export)

		req, _ := http.NewRequest(http.MethodGet, "/time-entries/export?year=2024", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, rr.Header().Get("Content-Disposition"), "wbso_time_entries_2024.csv")

		body := rr.Body.String()
		assert.Contains(t, body, "date,hours,project_phase,activity_description,technical_challenge")
		assert.Contains(t, body, "2024-03-15,4.5,Development")
	})

	t.Run("QuotesEmbeddedQuotesAndCommas", func(t *testing.T) {
		mockService := new(MockEntryService)
		handler := NewEntryHandler(logger, mockService)

		stored := newStoredEntry(ownerID, time.Now().UTC())
		stored.ActivityDescription = `Benchmarked the "fast path" variant`
		stored.TechnicalChallenge = "Jitter, drift and clock skew interact"
		mockService.On("ListEntries", mock.Anything, ownerID, (*int)(nil)).Return([]*entry.Entry{stored}, nil)

		router := setupTestRouter(ownerID)
		router.GET("/time-entries/export", handler.Export)

		req, _ := http.NewRequest(http.MethodGet, "/time-entries/export", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		// Embedded quotes come out doubled inside a quoted field, and a
		// field containing commas is wrapped in quotes
		body := rr.Body.String()
		assert.Contains(t, body, `"Benchmarked the ""fast path"" variant"`)
		assert.Contains(t, body, `"Jitter, drift and clock skew interact"`)
	})
}
