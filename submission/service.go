package submission

import (
	"fmt"
	"strings"
	"time"

	"github.com/op/go-logging"

	"github.com/datacommons-hub/submission-services/audit"
	"github.com/datacommons-hub/submission-services/constants"
	"github.com/datacommons-hub/submission-services/models/common"
	"github.com/datacommons-hub/submission-services/models/service"
)

// Service is the top-level submission lifecycle orchestrator. It
// authorizes the caller, verifies the requested action, applies the
// status change plus audit history, persists the submission with an
// optimistic-concurrency check, and dispatches side effects to the
// external collaborators.
type Service struct {
	Logger   *logging.Logger
	Store    Store
	Queue    Queue
	Notifier Notifier
	Audit    AuditTrail
	Archiver Archiver
}

// NewService wires a Service to the shared clients in context.
func NewService(context *common.Context) *Service {
	return &Service{
		Logger:   context.Logger,
		Store:    context.RedisClient,
		Queue:    context.NSQClient,
		Notifier: NewEmailNotifier(context.SMTPClient, context.Logger),
		Audit:    context.RedisClient,
		Archiver: NewS3Archiver(context),
	}
}

// CreateSubmission stores a new submission in status New, owned by its
// submitter.
func (svc *Service) CreateSubmission(sub *service.Submission) error {
	return svc.Store.SubmissionSave(sub)
}

// GetSubmission returns one submission for a read-path caller. The user
// must be able to view it. DataFileSize is recomputed from object
// storage on every read; a storage failure leaves the stored value and
// is logged, since size is bookkeeping, not authoritative state.
func (svc *Service) GetSubmission(submissionID string, user *service.User) (*service.Submission, error) {
	sub, err := svc.Store.SubmissionGet(submissionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}
	if !CanView(user, sub) {
		return nil, ErrInvalidPermission
	}
	if sub.RequiresFileValidation() && svc.Archiver != nil {
		size, err := svc.Archiver.SubmissionSize(sub.ID)
		if err != nil {
			svc.Logger.Errorf("Could not compute data file size for submission %s: %v", sub.ID, err)
		} else {
			sub.DataFileSize = size
		}
	}
	return sub, nil
}

// PerformAction executes one verified action against a submission on
// behalf of user. An invalid action leaves the submission untouched; a
// successful one appends exactly one history event and moves the status.
func (svc *Service) PerformAction(submissionID, action, comment string, user *service.User) (*service.Submission, error) {
	sub, err := svc.Store.SubmissionGet(submissionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}
	va, err := Verify(action, sub.Status, comment)
	if err != nil {
		return nil, err
	}
	if !IsAllowed(va, user, sub) {
		return nil, ErrInvalidPermission
	}
	if err = CheckSubmitAction(va, sub, user, comment); err != nil {
		return nil, err
	}
	if err = svc.checkReleaseGuard(va, sub); err != nil {
		return nil, err
	}
	if err = svc.commit(va, sub, user.ID, comment); err != nil {
		return nil, err
	}
	svc.dispatchSideEffects(va, sub, user, comment)
	return sub, nil
}

// ApplySystemAction executes a system-only action (Archive, Resume). It
// refuses rows that carry user permissions: those must go through
// PerformAction.
func (svc *Service) ApplySystemAction(submissionID, action string) (*service.Submission, error) {
	sub, err := svc.Store.SubmissionGet(submissionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}
	va, err := Verify(action, sub.Status, "")
	if err != nil {
		return nil, err
	}
	if len(va.Permissions) > 0 {
		return nil, fmt.Errorf("%w: %s is not a system action", ErrInvalidPermission, action)
	}
	if err = svc.commit(va, sub, constants.SystemUser, ""); err != nil {
		return nil, err
	}
	svc.auditAction(va, sub, constants.SystemUser, "", "")
	return sub, nil
}

// RestoreSubmission pops the last history event of a Canceled or Deleted
// submission and returns it to the status recorded just before. This is
// the only path that ever removes a history event.
func (svc *Service) RestoreSubmission(submissionID string, user *service.User) (*service.Submission, error) {
	sub, err := svc.Store.SubmissionGet(submissionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}
	if !CanModify(user, sub) {
		return nil, ErrInvalidPermission
	}
	last := sub.LastHistory()
	if last == nil || len(sub.History) < 2 ||
		(sub.Status != constants.StatusCanceled && sub.Status != constants.StatusDeleted) ||
		last.Status != sub.Status {
		return nil, fmt.Errorf("%w: restore from %s", ErrInvalidStatusForAction, sub.Status)
	}
	fromStatus := sub.Status
	expected := sub.UpdatedAt
	sub.PopHistory()
	sub.Status = sub.LastHistory().Status
	sub.Touch()
	modified, err := svc.Store.SubmissionUpdateConditional(sub, expected)
	if err != nil {
		return nil, err
	}
	if modified == 0 {
		return nil, ErrUpdateSubmission
	}
	svc.Audit.AuditInsert(audit.NewRecord(
		sub.ID, "Restore", fromStatus, sub.Status, user.ID, user.Role, ""))
	return sub, nil
}

// commit appends the history event, moves the status and persists with
// the modified-count check. The caller's loaded UpdatedAt is the
// condition; zero modified documents means a concurrent writer won.
func (svc *Service) commit(va *VerifiedAction, sub *service.Submission, userID, comment string) error {
	expected := sub.UpdatedAt
	sub.AppendHistory(userID, va.ToStatus, comment)
	sub.Status = va.ToStatus
	sub.Touch()
	modified, err := svc.Store.SubmissionUpdateConditional(sub, expected)
	if err != nil {
		return err
	}
	if modified == 0 {
		return ErrUpdateSubmission
	}
	return nil
}

// checkReleaseGuard prevents releasing a submission ahead of a sibling
// in the same study that is awaiting review, unless this submission's
// cross-submission validation has passed.
func (svc *Service) checkReleaseGuard(va *VerifiedAction, sub *service.Submission) error {
	if va.Action != constants.ActionRelease {
		return nil
	}
	peers, err := svc.Store.SubmissionsForStudy(sub.StudyID)
	if err != nil {
		return err
	}
	for _, peer := range peers {
		if peer.ID == sub.ID {
			continue
		}
		if peer.Status == constants.StatusSubmitted &&
			sub.CrossSubmissionStatus != constants.ValidationPassed {
			return ErrInvalidReleaseAction
		}
	}
	return nil
}

// exportActions name the verified actions whose commit is announced to
// downstream consumers on the export topic. Rejects are announced only
// for Delete-intention submissions, where downstream systems must undo
// a pending delete.
func (svc *Service) shouldExport(va *VerifiedAction, sub *service.Submission) bool {
	switch va.Action {
	case constants.ActionComplete, constants.ActionRelease:
		return true
	case constants.ActionRejectSubmitted, constants.ActionRejectReleased:
		return sub.Intention == constants.IntentionDelete
	}
	return false
}

// dispatchSideEffects runs after the primary write commits. Each effect
// is attempted independently, at least once; failures are logged and
// never propagate, and nothing here rolls back the status change.
func (svc *Service) dispatchSideEffects(va *VerifiedAction, sub *service.Submission, user *service.User, comment string) {
	svc.auditAction(va, sub, user.ID, user.Role, comment)

	if err := svc.Notifier.NotifyAction(va.Action, sub, user, comment); err != nil {
		svc.Logger.Errorf("Could not send %s notification for submission %s: %v",
			va.Action, sub.ID, err)
	}

	if svc.shouldExport(va, sub) {
		msg := &service.QueueMessage{
			Type:         va.Action,
			SubmissionID: sub.ID,
			DedupID:      fmt.Sprintf("%s-%s", sub.ID, strings.ToLower(va.ToStatus)),
			GroupID:      sub.DataCommons,
		}
		if err := svc.Queue.Enqueue(constants.TopicSubmissionExport, msg); err != nil {
			svc.Logger.Errorf("Could not enqueue %s message for submission %s: %v",
				va.Action, sub.ID, err)
		}
	}

	if va.Action == constants.ActionCancel {
		if err := svc.Archiver.ArchiveSubmission(sub.ID); err != nil {
			svc.Logger.Errorf("Could not archive storage for canceled submission %s: %v",
				sub.ID, err)
		}
	}
}

func (svc *Service) auditAction(va *VerifiedAction, sub *service.Submission, userID, userRole, comment string) {
	record := audit.NewRecord(
		sub.ID, va.Action, va.FromStatus, va.ToStatus, userID, userRole, comment)
	if err := svc.Audit.AuditInsert(record); err != nil {
		svc.Logger.Errorf("Could not write audit record for submission %s action %s: %v",
			sub.ID, va.Action, err)
	}
}

// ArchiveExpired applies the system-only Archive action to every
// Completed submission whose last update is older than cutoff. It
// returns the IDs of the submissions it archived. Failures on single
// submissions are logged and skipped so one bad document cannot stall
// the sweep.
func (svc *Service) ArchiveExpired(ids []string, cutoff time.Time) []string {
	archived := make([]string, 0)
	for _, id := range ids {
		sub, err := svc.Store.SubmissionGet(id)
		if err != nil || sub == nil {
			continue
		}
		if sub.Status != constants.StatusCompleted || sub.UpdatedAt.After(cutoff) {
			continue
		}
		if _, err = svc.ApplySystemAction(id, constants.ActionArchive); err != nil {
			svc.Logger.Errorf("Could not archive submission %s: %v", id, err)
			continue
		}
		archived = append(archived, id)
	}
	return archived
}
