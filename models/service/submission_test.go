package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacommons-hub/submission-services/constants"
	"github.com/datacommons-hub/submission-services/models/service"
)

func TestNewSubmission(t *testing.T) {
	sub := service.NewSubmission("sub-1", "study-1", "ICDC",
		constants.IntentionUpdate, constants.DataTypeMetadataOnly, "user-1")
	assert.Equal(t, constants.StatusNew, sub.Status)
	assert.Equal(t, constants.ValidationNew, sub.MetadataValidationStatus)
	assert.Equal(t, constants.ValidationNA, sub.FileValidationStatus)
	assert.Equal(t, "user-1", sub.SubmitterID)
	require.Equal(t, 1, len(sub.History))
	assert.Equal(t, constants.StatusNew, sub.History[0].Status)
	assert.False(t, sub.RequiresFileValidation())

	withFiles := service.NewSubmission("sub-2", "study-1", "ICDC",
		constants.IntentionUpdate, constants.DataTypeMetadataAndFiles, "user-1")
	assert.True(t, withFiles.RequiresFileValidation())
	assert.Equal(t, constants.ValidationNew, withFiles.FileValidationStatus)
}

func TestSubmissionHistory(t *testing.T) {
	sub := service.NewSubmission("sub-1", "study-1", "ICDC",
		constants.IntentionUpdate, constants.DataTypeMetadataOnly, "user-1")
	sub.AppendHistory("user-1", constants.StatusInProgress, "")
	sub.AppendHistory("user-2", constants.StatusCanceled, "abandoned")

	last := sub.LastHistory()
	require.NotNil(t, last)
	assert.Equal(t, constants.StatusCanceled, last.Status)
	assert.Equal(t, "abandoned", last.Comment)

	popped := sub.PopHistory()
	assert.Equal(t, last, popped)
	assert.Equal(t, 2, len(sub.History))
	assert.Equal(t, constants.StatusInProgress, sub.LastHistory().Status)
}

func TestPopHistoryEmpty(t *testing.T) {
	sub := &service.Submission{}
	assert.Nil(t, sub.LastHistory())
	assert.Nil(t, sub.PopHistory())
}

func TestValidationCompleted(t *testing.T) {
	sub := service.NewSubmission("sub-1", "study-1", "ICDC",
		constants.IntentionUpdate, constants.DataTypeMetadataOnly, "user-1")
	assert.False(t, sub.ValidationCompleted())

	sub.MetadataValidationStatus = constants.ValidationPassed
	assert.True(t, sub.ValidationCompleted())

	sub.MetadataValidationStatus = constants.ValidationWarning
	assert.True(t, sub.ValidationCompleted())

	sub.MetadataValidationStatus = constants.ValidationError
	assert.False(t, sub.ValidationCompleted())

	// Metadata-only submissions ignore the file field entirely.
	sub.MetadataValidationStatus = constants.ValidationPassed
	sub.FileValidationStatus = constants.ValidationError
	assert.True(t, sub.ValidationCompleted())

	// Submissions with data files need both fields terminal.
	sub.DataType = constants.DataTypeMetadataAndFiles
	assert.False(t, sub.ValidationCompleted())
	sub.FileValidationStatus = constants.ValidationPassed
	assert.True(t, sub.ValidationCompleted())
}

func TestHasValidationError(t *testing.T) {
	sub := &service.Submission{}
	assert.False(t, sub.HasValidationError())
	sub.CrossSubmissionStatus = constants.ValidationError
	assert.True(t, sub.HasValidationError())
}

func TestSubmissionJSON(t *testing.T) {
	sub := service.NewSubmission("sub-1", "study-1", "ICDC",
		constants.IntentionUpdate, constants.DataTypeMetadataAndFiles, "user-1")
	sub.Collaborators = append(sub.Collaborators, &service.Collaborator{
		CollaboratorID: "user-2",
		Permission:     constants.CollaboratorCanEdit,
	})
	data, err := sub.ToJSON()
	require.Nil(t, err)

	restored, err := service.SubmissionFromJSON(data)
	require.Nil(t, err)
	assert.Equal(t, sub.ID, restored.ID)
	assert.Equal(t, sub.Status, restored.Status)
	assert.Equal(t, len(sub.History), len(restored.History))
	assert.Equal(t, "user-2", restored.Collaborators[0].CollaboratorID)
	assert.True(t, sub.UpdatedAt.Equal(restored.UpdatedAt))
}
