package submission_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacommons-hub/submission-services/constants"
	"github.com/datacommons-hub/submission-services/models/service"
	"github.com/datacommons-hub/submission-services/submission"
	"github.com/datacommons-hub/submission-services/util/testutil"
)

func newTestOrchestrator() (*submission.Orchestrator, *testutil.FakeStore, *testutil.FakeQueue, *testutil.FakeValidator) {
	store := testutil.NewFakeStore()
	queue := testutil.NewFakeQueue()
	validator := &testutil.FakeValidator{}
	orch := &submission.Orchestrator{
		Logger:    testutil.GetLogger(),
		Store:     store,
		Queue:     queue,
		Validator: validator,
	}
	return orch, store, queue, validator
}

// assertNotValidating asserts the core consistency rule: once a run has
// resolved, no validation-status field may remain at Validating.
func assertNotValidating(t *testing.T, sub *service.Submission) {
	assert.NotEqual(t, constants.ValidationValidating, sub.MetadataValidationStatus)
	assert.NotEqual(t, constants.ValidationValidating, sub.FileValidationStatus)
	assert.NotEqual(t, constants.ValidationValidating, sub.CrossSubmissionStatus)
}

func TestStartValidationSuccess(t *testing.T) {
	orch, store, _, validator := newTestOrchestrator()
	sub := testutil.GetSubmission(constants.StatusInProgress)
	require.Nil(t, store.SubmissionSave(sub))
	validator.Result = testutil.GetValidationResult(true, "")

	result, err := orch.StartValidation(sub,
		[]string{constants.ValidationTypeMetadata}, constants.ValidationScopeNew)
	require.Nil(t, err)
	assert.True(t, result.Success)

	stored := store.Stored(sub.ID)
	assert.Equal(t, constants.ValidationPassed, stored.MetadataValidationStatus)
	assertNotValidating(t, stored)

	require.Equal(t, 1, len(validator.Calls))
	assert.Equal(t, sub.ID, validator.Calls[0].SubmissionID)
	assert.NotEmpty(t, validator.Calls[0].RunID)

	// The run's record was opened and closed.
	require.Equal(t, 1, len(store.ValidationRecords))
	rec := store.ValidationRecords[0]
	assert.Equal(t, constants.ValidationPassed, rec.Status)
	assert.False(t, rec.InFlight())

	require.Equal(t, 1, len(store.DataValidations))
	assert.Equal(t, "metadata", store.DataValidations[0].Type)
}

func TestStartValidationWarnings(t *testing.T) {
	orch, store, _, validator := newTestOrchestrator()
	sub := testutil.GetSubmission(constants.StatusInProgress)
	require.Nil(t, store.SubmissionSave(sub))
	validator.Result = testutil.GetValidationResult(true, "completed with warnings")

	result, err := orch.StartValidation(sub,
		[]string{constants.ValidationTypeMetadata}, constants.ValidationScopeNew)
	require.Nil(t, err)
	assert.True(t, result.Success)

	stored := store.Stored(sub.ID)
	assert.Equal(t, constants.ValidationWarning, stored.MetadataValidationStatus)
	assert.Equal(t, constants.ValidationWarning, store.ValidationRecords[0].Status)
}

func TestStartValidationNoValidationMetadata(t *testing.T) {
	orch, store, _, validator := newTestOrchestrator()
	sub := testutil.GetSubmission(constants.StatusInProgress)
	sub.DataType = constants.DataTypeMetadataAndFiles
	sub.FileValidationStatus = constants.ValidationNew
	require.Nil(t, store.SubmissionSave(sub))
	validator.Result = testutil.GetValidationResult(false, "no validation metadata")

	result, err := orch.StartValidation(sub,
		[]string{constants.ValidationTypeMetadata, constants.ValidationTypeFile},
		constants.ValidationScopeNew)
	require.Nil(t, err)

	// Nothing to validate is not a failure.
	assert.True(t, result.Success)

	stored := store.Stored(sub.ID)
	assert.Equal(t, constants.ValidationNA, stored.MetadataValidationStatus)
	assert.Equal(t, constants.ValidationNA, stored.FileValidationStatus)
	assertNotValidating(t, stored)
}

func TestStartValidationNoNewMetadata(t *testing.T) {
	orch, store, _, validator := newTestOrchestrator()
	sub := testutil.GetSubmission(constants.StatusInProgress)
	sub.DataType = constants.DataTypeMetadataAndFiles
	sub.MetadataValidationStatus = constants.ValidationPassed
	sub.FileValidationStatus = constants.ValidationNew
	require.Nil(t, store.SubmissionSave(sub))
	validator.Result = testutil.GetValidationResult(false, "no new metadata")

	result, err := orch.StartValidation(sub,
		[]string{constants.ValidationTypeMetadata, constants.ValidationTypeFile},
		constants.ValidationScopeNew)
	require.Nil(t, err)
	assert.True(t, result.Success)

	// The metadata field keeps its pre-run value; the file field rolls
	// to NA because nothing new was uploaded to validate.
	stored := store.Stored(sub.ID)
	assert.Equal(t, constants.ValidationPassed, stored.MetadataValidationStatus)
	assert.Equal(t, constants.ValidationNA, stored.FileValidationStatus)
	assertNotValidating(t, stored)
}

func TestStartValidationCrossSubmissionFailed(t *testing.T) {
	orch, store, _, validator := newTestOrchestrator()
	sub := testutil.GetSubmission(constants.StatusInProgress)
	sub.MetadataValidationStatus = constants.ValidationPassed
	sub.CrossSubmissionStatus = constants.ValidationNew
	require.Nil(t, store.SubmissionSave(sub))
	validator.Result = testutil.GetValidationResult(false, "cross submission validation failed")

	result, err := orch.StartValidation(sub,
		[]string{constants.ValidationTypeCross}, constants.ValidationScopeAll)
	require.Nil(t, err)

	// This one is a real failure, but the cross field rolls back rather
	// than going to Error.
	assert.False(t, result.Success)

	stored := store.Stored(sub.ID)
	assert.Equal(t, constants.ValidationNew, stored.CrossSubmissionStatus)
	assert.Equal(t, constants.ValidationPassed, stored.MetadataValidationStatus)
	assertNotValidating(t, stored)
	assert.Equal(t, constants.ValidationError, store.ValidationRecords[0].Status)
}

func TestStartValidationGenericFailure(t *testing.T) {
	orch, store, _, validator := newTestOrchestrator()
	sub := testutil.GetSubmission(constants.StatusInProgress)
	sub.DataType = constants.DataTypeMetadataAndFiles
	sub.MetadataValidationStatus = constants.ValidationPassed
	sub.FileValidationStatus = constants.ValidationPassed
	require.Nil(t, store.SubmissionSave(sub))
	validator.Result = testutil.GetValidationResult(false, "metadata validation error")

	result, err := orch.StartValidation(sub,
		[]string{constants.ValidationTypeMetadata, constants.ValidationTypeFile},
		constants.ValidationScopeNew)
	require.Nil(t, err)
	assert.False(t, result.Success)

	// Only the field whose error marker appears goes to Error; the other
	// requested field rolls back to its pre-run value.
	stored := store.Stored(sub.ID)
	assert.Equal(t, constants.ValidationError, stored.MetadataValidationStatus)
	assert.Equal(t, constants.ValidationPassed, stored.FileValidationStatus)
	assertNotValidating(t, stored)
}

func TestStartValidationTransportError(t *testing.T) {
	orch, store, _, validator := newTestOrchestrator()
	sub := testutil.GetSubmission(constants.StatusInProgress)
	sub.MetadataValidationStatus = constants.ValidationNew
	require.Nil(t, store.SubmissionSave(sub))
	validator.Err = errors.New("connection refused")

	result, err := orch.StartValidation(sub,
		[]string{constants.ValidationTypeMetadata}, constants.ValidationScopeNew)
	require.Nil(t, err)
	assert.False(t, result.Success)

	// An unreachable validation service resolves like a failed run with
	// no markers: the field rolls back.
	stored := store.Stored(sub.ID)
	assert.Equal(t, constants.ValidationNew, stored.MetadataValidationStatus)
	assertNotValidating(t, stored)
}

func TestStartValidationUpdateConflict(t *testing.T) {
	orch, store, _, validator := newTestOrchestrator()
	sub := testutil.GetSubmission(constants.StatusInProgress)
	require.Nil(t, store.SubmissionSave(sub))

	store.ForceUpdateConflicts = 1
	_, err := orch.StartValidation(sub,
		[]string{constants.ValidationTypeMetadata}, constants.ValidationScopeNew)
	assert.True(t, errors.Is(err, submission.ErrFailedValidateMetadata))

	// The run never started: no record, no call to the validation
	// service, stored fields untouched.
	assert.Empty(t, store.ValidationRecords)
	assert.Empty(t, validator.Calls)
	assert.Equal(t, constants.ValidationNew, store.Stored(sub.ID).MetadataValidationStatus)
}

func TestStartValidationRecordSaveFailure(t *testing.T) {
	orch, store, _, validator := newTestOrchestrator()
	sub := testutil.GetSubmission(constants.StatusInProgress)
	sub.MetadataValidationStatus = constants.ValidationNew
	require.Nil(t, store.SubmissionSave(sub))
	store.ValidationRecordErr = errors.New("redis is down")

	_, err := orch.StartValidation(sub,
		[]string{constants.ValidationTypeMetadata}, constants.ValidationScopeNew)
	require.NotNil(t, err)

	// The rollback write restored the pre-run value, so the stored
	// submission is not stuck at Validating.
	stored := store.Stored(sub.ID)
	assert.Equal(t, constants.ValidationNew, stored.MetadataValidationStatus)
	assertNotValidating(t, stored)
	assert.Empty(t, validator.Calls)
}

func TestRequestValidation(t *testing.T) {
	orch, store, _, validator := newTestOrchestrator()
	sub := testutil.GetSubmission(constants.StatusInProgress)
	require.Nil(t, store.SubmissionSave(sub))
	validator.Result = testutil.GetValidationResult(true, "")

	owner := testutil.GetUser(constants.RoleSubmitter, constants.PermissionCreate)
	result, err := orch.RequestValidation(sub.ID,
		[]string{constants.ValidationTypeMetadata}, constants.ValidationScopeNew, owner)
	require.Nil(t, err)
	assert.True(t, result.Success)

	stranger := &service.User{ID: "user-stranger", Role: constants.RoleSubmitter}
	_, err = orch.RequestValidation(sub.ID,
		[]string{constants.ValidationTypeMetadata}, constants.ValidationScopeNew, stranger)
	assert.True(t, errors.Is(err, submission.ErrInvalidPermission))

	_, err = orch.RequestValidation("no-such-id",
		[]string{constants.ValidationTypeMetadata}, constants.ValidationScopeNew, owner)
	assert.True(t, errors.Is(err, submission.ErrSubmissionNotFound))
}

func TestEnqueueValidation(t *testing.T) {
	orch, _, queue, _ := newTestOrchestrator()
	err := orch.EnqueueValidation("sub-1",
		[]string{constants.ValidationTypeMetadata}, constants.ValidationScopeNew)
	require.Nil(t, err)

	messages := queue.Messages[constants.TopicValidationRequest]
	require.Equal(t, 1, len(messages))
	assert.Equal(t, "sub-1", messages[0].SubmissionID)
	assert.Equal(t, []string{constants.ValidationTypeMetadata}, messages[0].Types)
	assert.Equal(t, "sub-1-validate", messages[0].DedupID)
}
