package common_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacommons-hub/submission-services/models/common"
)

func TestError(t *testing.T) {
	underlying := errors.New("connection reset")
	err := common.NewError("could not load submission", underlying, false)
	assert.Equal(t, "could not load submission", err.Error())
	assert.False(t, err.Fatal())
	assert.True(t, errors.Is(err, underlying))

	detail := err.Detail()
	assert.Contains(t, detail, "could not load submission")
	assert.Contains(t, detail, "connection reset")
	assert.Contains(t, detail, "errors_test.go")
	assert.NotContains(t, detail, "FATAL")
}

func TestFatalError(t *testing.T) {
	err := common.NewError("unknown submission", nil, true)
	assert.True(t, err.Fatal())
	assert.Contains(t, err.Detail(), "FATAL")
	assert.Nil(t, err.Unwrap())

	var detailed common.DetailedError = err
	require.NotNil(t, detailed)
	assert.True(t, detailed.Fatal())
}
