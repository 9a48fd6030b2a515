package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRecordingService for testing
type MockRecordingService struct {
	mock.Mock
}

func (m *MockRecordingService) RecordEvent(ctx context.Context, event *shared.EntryEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockDeadLetterPublisher for testing
type MockDeadLetterPublisher struct {
	mock.Mock
}

func (m *MockDeadLetterPublisher) PublishToDLQ(ctx context.Context, key string, value []byte, reason string) error {
	args := m.Called(ctx, key, value, reason)
	return args.Error(0)
}

func (m *MockDeadLetterPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestHandleMessage(t *testing.T) {
	logger := slog.Default()

	validEvent := &shared.EntryEvent{
		EventID:             uuid.New(),
		EntryID:             uuid.New(),
		OwnerID:             uuid.New(),
		Action:              shared.EntryActionCreated,
		Date:                time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC),
		CentiHours:          775,
		Phase:               "Development",
		ActivityDescription: "Built the prototype data ingestion path",
		TechnicalChallenge:  "Schema drift between sensor firmware versions",
		CorrelationID:       "corr1",
		OccurredAt:          time.Now().UTC(),
	}

	validJSON, err := json.Marshal(validEvent)
	assert.NoError(t, err)

	tests := []struct {
		name          string
		key           []byte
		value         []byte
		setupMocks    func(recording *MockRecordingService, dlq *MockDeadLetterPublisher)
		expectedError string
	}{
		{
			name:  "successful recording",
			key:   []byte("test-key"),
			value: validJSON,
			setupMocks: func(recording *MockRecordingService, dlq *MockDeadLetterPublisher) {
				recording.On("RecordEvent", mock.Anything, mock.MatchedBy(func(e *shared.EntryEvent) bool {
					return e.EventID == validEvent.EventID && e.CentiHours == validEvent.CentiHours
				})).Return(nil)
			},
		},
		{
			name:  "recording error",
			key:   []byte("test-key"),
			value: validJSON,
			setupMocks: func(recording *MockRecordingService, dlq *MockDeadLetterPublisher) {
				recording.On("RecordEvent", mock.Anything, mock.Anything).Return(errors.New("recording error"))
			},
			expectedError: "recording event",
		},
		{
			name:  "unmarshal error with successful DLQ publish",
			key:   []byte("test-key"),
			value: []byte("invalid json"),
			setupMocks: func(recording *MockRecordingService, dlq *MockDeadLetterPublisher) {
				dlq.On("PublishToDLQ", mock.Anything, "test-key", []byte("invalid json"), mock.Anything).Return(nil)
			},
			// No error because message was successfully sent to DLQ
		},
		{
			name:  "unmarshal error with DLQ publish failure",
			key:   []byte("test-key"),
			value: []byte("invalid json"),
			setupMocks: func(recording *MockRecordingService, dlq *MockDeadLetterPublisher) {
				dlq.On("PublishToDLQ", mock.Anything, "test-key", []byte("invalid json"), mock.Anything).Return(errors.New("dlq error"))
			},
			expectedError: "failed to unmarshal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRecordingService := &MockRecordingService{}
			mockDLQPublisher := &MockDeadLetterPublisher{}
			mockDLQPublisher.On("Close").Return(nil).Maybe()

			handler := NewEntryEventHandler(logger, mockRecordingService, mockDLQPublisher)

			tt.setupMocks(mockRecordingService, mockDLQPublisher)

			err := handler.HandleMessage(context.Background(), tt.key, tt.value)
			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
			} else {
				assert.NoError(t, err)
			}

			mockRecordingService.AssertExpectations(t)
			mockDLQPublisher.AssertExpectations(t)
		})
	}
}

func TestHandleMessage_NoDLQConfigured(t *testing.T) {
	mockRecordingService := &MockRecordingService{}
	handler := NewEntryEventHandler(slog.Default(), mockRecordingService, nil)

	err := handler.HandleMessage(context.Background(), []byte("key"), []byte("invalid json"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal")
}
