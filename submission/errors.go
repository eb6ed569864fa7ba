package submission

import (
	"errors"
)

// User-actionable failures are raised immediately and surfaced to the
// caller verbatim. Validation-run partial failures are not in this list:
// they resolve into the ValidationResult the caller receives, never into
// an error, except when the rollback write itself fails.
var (
	ErrSubmissionNotFound          = errors.New("submission not found")
	ErrUnknownAction               = errors.New("unknown submission action")
	ErrInvalidStatusForAction      = errors.New("action is not allowed from the submission's current status")
	ErrCommentRequired             = errors.New("a comment is required to reject a submission")
	ErrValidationNotPassed         = errors.New("submission validation has not completed successfully")
	ErrSubmitActionCommentRequired = errors.New("a comment is required to submit a submission with validation errors")
	ErrInvalidPermission           = errors.New("user does not have permission for this action")
	ErrInvalidReleaseAction        = errors.New("a submission in the same study is awaiting review and cross-submission validation has not passed")
	ErrUpdateSubmission            = errors.New("submission was modified by another request")
	ErrFailedValidateMetadata      = errors.New("failed to persist validation status")
)
