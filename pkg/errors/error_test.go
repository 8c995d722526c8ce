package errors

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

func (suite *ErrorTestSuite) TestNew() {
	err := New(ErrCodeInvalidParameter, "bad parameter")
	suite.Equal("[100] bad parameter", err.Error())
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewf() {
	err := Newf(ErrCodeStrategyNotFound, "no strategy with id %s", "sma-cross")
	suite.Contains(err.Error(), "sma-cross")
	suite.Equal(ErrCodeStrategyNotFound, err.Code)
}

func (suite *ErrorTestSuite) TestWrapUnwrap() {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeQueryFailed, "failed to execute query", cause)

	suite.Contains(err.Error(), "disk full")
	suite.Equal(cause, errors.Unwrap(err))
	suite.True(errors.Is(err, cause))
}

func (suite *ErrorTestSuite) TestGetCode() {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{"structured error", New(ErrCodeInsufficientData, "too short"), ErrCodeInsufficientData},
		{"wrapped structured error", fmt.Errorf("outer: %w", New(ErrCodeDataNotFound, "gone")), ErrCodeDataNotFound},
		{"plain error", errors.New("plain"), ErrCodeUnknown},
		{"nil cause chain", Wrap(ErrCodeBacktestNoBars, "no bars", nil), ErrCodeBacktestNoBars},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, GetCode(tc.err))
		})
	}
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := Newf(ErrCodeInvalidPeriod, "period must be positive, got %d", -1)
	suite.True(HasCode(err, ErrCodeInvalidPeriod))
	suite.False(HasCode(err, ErrCodeInsufficientData))
}

func (suite *ErrorTestSuite) TestInsufficientDataError() {
	err := NewInsufficientDataErrorf(20, 5, "AAPL", "need %d bars, have %d", 20, 5)
	suite.True(IsInsufficientDataError(err))
	suite.True(IsInsufficientDataError(fmt.Errorf("wrapped: %w", err)))
	suite.Equal(20, err.Required)
	suite.Equal(5, err.Actual)
	suite.False(IsInsufficientDataError(errors.New("other")))
}

func (suite *ErrorTestSuite) TestIsConfigurationError() {
	suite.True(IsConfigurationError(New(ErrCodeStrategyNotFound, "missing")))
	suite.True(IsConfigurationError(New(ErrCodeInvalidConfiguration, "bad config")))
	suite.False(IsConfigurationError(New(ErrCodeInsufficientData, "short series")))
}
