package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datacommons-hub/submission-services/constants"
	"github.com/datacommons-hub/submission-services/models/service"
)

func TestOutcomePrecedence(t *testing.T) {
	// Marker precedence is fixed. When a message carries several markers,
	// the earlier one in the precedence order wins.
	assert.Equal(t, service.OutcomeNoValidationMetadata,
		service.OutcomeForMessage("no validation metadata; no new metadata"))
	assert.Equal(t, service.OutcomeNoNewMetadata,
		service.OutcomeForMessage("no new metadata; cross submission validation failed"))
	assert.Equal(t, service.OutcomeCrossSubmissionFailed,
		service.OutcomeForMessage("cross submission validation failed"))
	assert.Equal(t, service.OutcomeFailed,
		service.OutcomeForMessage("metadata validation error"))
	assert.Equal(t, service.OutcomeFailed,
		service.OutcomeForMessage("something unexpected went wrong"))
}

func TestOutcome(t *testing.T) {
	ok := &service.ValidationResult{Success: true, Message: "no new metadata"}
	assert.Equal(t, service.OutcomeOK, ok.Outcome())

	failed := &service.ValidationResult{Success: false, Message: "No New Metadata"}
	assert.Equal(t, service.OutcomeNoNewMetadata, failed.Outcome())
}

func TestMentionsError(t *testing.T) {
	result := &service.ValidationResult{
		Success: false,
		Message: "metadata validation error; data file validation error",
	}
	assert.True(t, result.MentionsError(constants.ValidationTypeMetadata))
	assert.True(t, result.MentionsError(constants.ValidationTypeFile))
	assert.False(t, result.MentionsError(constants.ValidationTypeCross))
	assert.False(t, result.MentionsError("bogus"))
}

func TestMentionsWarnings(t *testing.T) {
	result := &service.ValidationResult{Success: true, Message: "Completed With Warnings"}
	assert.True(t, result.MentionsWarnings())

	clean := &service.ValidationResult{Success: true, Message: ""}
	assert.False(t, clean.MentionsWarnings())
}

func TestMentionsNoMetadataMarkers(t *testing.T) {
	result := &service.ValidationResult{
		Success: false,
		Message: "no validation metadata for files; no new metadata",
	}
	assert.True(t, result.MentionsNoValidationMetadata())
	assert.True(t, result.MentionsNoNewMetadata())
}
