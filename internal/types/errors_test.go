package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (s *ErrorTestSuite) TestNewTrackerError() {
	// Setup
	code := ErrNothingToUndo
	message := "result log is empty"

	// Execute
	err := NewTrackerError(code, message)

	// Assert
	s.Equal(code, err.Code, "Error code should match")
	s.Equal(message, err.Message, "Error message should match")
	s.Nil(err.Err, "Underlying error should be nil")
}

func (s *ErrorTestSuite) TestWrapError() {
	// Setup
	code := ErrStorageError
	message := "snapshot write failed"
	underlying := errors.New("disk full")

	// Execute
	err := WrapError(code, message, underlying)

	// Assert
	s.Equal(code, err.Code, "Error code should match")
	s.Equal(message, err.Message, "Error message should match")
	s.Equal(underlying, err.Err, "Underlying error should match")
	s.ErrorIs(err, underlying, "Unwrap should expose the cause")
}

func (s *ErrorTestSuite) TestInvalidConfig() {
	err := InvalidConfig("base bet must be positive, got %s", "0")

	s.Equal(ErrInvalidConfig, err.Code)
	s.Equal("base bet must be positive, got 0", err.Message)
}

func (s *ErrorTestSuite) TestErrorString() {
	testCases := []struct {
		name     string
		err      *TrackerError
		expected string
	}{
		{
			name:     "Simple error",
			err:      NewTrackerError(ErrNothingToUndo, "result log is empty"),
			expected: "NOTHING_TO_UNDO: result log is empty",
		},
		{
			name:     "Wrapped error",
			err:      WrapError(ErrStorageError, "snapshot write failed", errors.New("disk full")),
			expected: "STORAGE_ERROR: snapshot write failed (disk full)",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, tc.err.Error(), "Error string should match expected format")
		})
	}
}

func (s *ErrorTestSuite) TestIsTrackerError() {
	// Setup
	trackerErr := NewTrackerError(ErrInvalidConfig, "bad amount")
	wrapped := fmt.Errorf("settle: %w", trackerErr)
	regularErr := errors.New("regular error")

	testCases := []struct {
		name     string
		err      error
		code     ErrorCode
		expected bool
	}{
		{name: "Matching tracker error", err: trackerErr, code: ErrInvalidConfig, expected: true},
		{name: "Wrapped tracker error", err: wrapped, code: ErrInvalidConfig, expected: true},
		{name: "Non-matching tracker error", err: trackerErr, code: ErrNothingToUndo, expected: false},
		{name: "Regular error", err: regularErr, code: ErrInvalidConfig, expected: false},
		{name: "Nil error", err: nil, code: ErrInvalidConfig, expected: false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, IsTrackerError(tc.err, tc.code), "IsTrackerError result should match expected value")
		})
	}
}

func (s *ErrorTestSuite) TestAs() {
	trackerErr := NewTrackerError(ErrNothingToUndo, "result log is empty")

	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "Tracker error", err: trackerErr, expected: true},
		{name: "Regular error", err: errors.New("regular error"), expected: false},
		{name: "Nil error", err: nil, expected: false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			var target *TrackerError
			result := As(tc.err, &target)
			s.Equal(tc.expected, result, "As result should match expected value")
			if tc.expected {
				s.Equal(trackerErr, target, "Target should be set to the tracker error")
			}
		})
	}
}

func (s *ErrorTestSuite) TestRejected() {
	for _, code := range []ErrorCode{ErrInvalidConfig, ErrInvalidCommand, ErrNothingToUndo, ErrInactiveSession} {
		s.True(code.Rejected(), string(code))
	}
	s.False(ErrStorageError.Rejected())
	s.False(ErrInternalError.Rejected())
}
