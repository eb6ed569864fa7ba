package submission

import (
	"time"

	"github.com/datacommons-hub/submission-services/audit"
	"github.com/datacommons-hub/submission-services/models/service"
)

// The lifecycle service and orchestrators talk to their external
// collaborators through these interfaces. network.RedisClient satisfies
// Store and AuditTrail; network.ValidationClient satisfies Validator;
// network.NSQClient satisfies Queue. Formally defining them lets tests
// swap in the fakes from util/testutil.

// Store is the submission document store. SubmissionUpdateConditional
// must return the number of documents modified; a zero count is the only
// concurrency signal the core gets.
type Store interface {
	SubmissionGet(id string) (*service.Submission, error)
	SubmissionSave(sub *service.Submission) error
	SubmissionUpdateConditional(sub *service.Submission, expectedUpdatedAt time.Time) (int, error)
	SubmissionsForStudy(studyID string) ([]*service.Submission, error)
	ValidationRecordSave(rec *service.ValidationRecord) error
	DataValidationSave(dv *service.DataValidation) error
	BatchSave(batch *service.Batch) error
}

// Validator is the opaque external validation service.
type Validator interface {
	ValidateMetadata(submissionID string, types []string, scope, runID string) (*service.ValidationResult, error)
}

// Queue publishes messages for downstream consumers.
type Queue interface {
	Enqueue(topic string, msg *service.QueueMessage) error
}

// Notifier sends the action-specific notification after a status change
// commits.
type Notifier interface {
	NotifyAction(action string, sub *service.Submission, user *service.User, comment string) error
}

// AuditTrail records verified actions.
type AuditTrail interface {
	AuditInsert(record *audit.Record) error
}

// Archiver owns the submission's object storage: size bookkeeping and
// the best-effort archival that follows a Cancel.
type Archiver interface {
	SubmissionSize(submissionID string) (int64, error)
	ArchiveSubmission(submissionID string) error
}
