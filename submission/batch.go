package submission

import (
	"github.com/op/go-logging"

	"github.com/datacommons-hub/submission-services/constants"
	"github.com/datacommons-hub/submission-services/models/common"
	"github.com/datacommons-hub/submission-services/models/service"
	"github.com/datacommons-hub/submission-services/util"
)

// BatchCoordinator reacts to upload-batch lifecycle events. Observing
// upload activity is what moves a submission out of its initial status,
// and new data-file uploads invalidate any earlier file validation
// result.
type BatchCoordinator struct {
	Logger *logging.Logger
	Store  Store
}

// NewBatchCoordinator wires a BatchCoordinator to the shared clients in
// context.
func NewBatchCoordinator(context *common.Context) *BatchCoordinator {
	return &BatchCoordinator{
		Logger: context.Logger,
		Store:  context.RedisClient,
	}
}

// promotableStatuses are the statuses a submission leaves as soon as
// upload activity is observed.
var promotableStatuses = []string{
	constants.StatusNew,
	constants.StatusWithdrawn,
	constants.StatusRejected,
}

// OnBatchCreated persists the new batch and, only after that insert
// succeeds, promotes the submission to In Progress when it sits in one
// of the promotable statuses. A failed batch insert must never advance
// the submission.
func (c *BatchCoordinator) OnBatchCreated(batch *service.Batch, sub *service.Submission, user *service.User) error {
	if err := c.Store.BatchSave(batch); err != nil {
		return err
	}
	if !util.StringListContains(promotableStatuses, sub.Status) {
		return nil
	}
	expected := sub.UpdatedAt
	sub.AppendHistory(user.ID, constants.StatusInProgress, "")
	sub.Status = constants.StatusInProgress
	sub.Touch()
	modified, err := c.Store.SubmissionUpdateConditional(sub, expected)
	if err != nil {
		return err
	}
	if modified == 0 {
		return ErrUpdateSubmission
	}
	return nil
}

// OnBatchUploaded records a batch's final upload state. When a data-file
// batch reaches Uploaded, the submission's file validation result is no
// longer trustworthy: the field resets to New unconditionally.
func (c *BatchCoordinator) OnBatchUploaded(batch *service.Batch) error {
	if err := c.Store.BatchSave(batch); err != nil {
		return err
	}
	if !batch.IsUploadedDataFileBatch() {
		return nil
	}
	sub, err := c.Store.SubmissionGet(batch.SubmissionID)
	if err != nil {
		return err
	}
	if sub == nil {
		return ErrSubmissionNotFound
	}
	expected := sub.UpdatedAt
	sub.FileValidationStatus = constants.ValidationNew
	sub.Touch()
	modified, err := c.Store.SubmissionUpdateConditional(sub, expected)
	if err != nil {
		return err
	}
	if modified == 0 {
		return ErrUpdateSubmission
	}
	return nil
}
