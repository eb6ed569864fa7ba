package constants

const (
	// Submission statuses. These are a closed set. The Status field of a
	// Submission never contains free text.
	StatusNew        = "New"
	StatusInProgress = "In Progress"
	StatusSubmitted  = "Submitted"
	StatusReleased   = "Released"
	StatusCompleted  = "Completed"
	StatusArchived   = "Archived"
	StatusCanceled   = "Canceled"
	StatusRejected   = "Rejected"
	StatusWithdrawn  = "Withdrawn"
	StatusDeleted    = "Deleted"

	// Validation statuses for the metadata, file and cross-submission
	// fields. The empty string means the field does not apply to the
	// submission's data type.
	ValidationNew        = "New"
	ValidationValidating = "Validating"
	ValidationPassed     = "Passed"
	ValidationError      = "Error"
	ValidationWarning    = "Warning"
	ValidationNA         = ""

	// Submission intentions.
	IntentionUpdate = "Update"
	IntentionDelete = "Delete"

	// Submission data types.
	DataTypeMetadataOnly     = "Metadata Only"
	DataTypeMetadataAndFiles = "Metadata and Data Files"

	// User roles.
	RoleAdmin                = "Admin"
	RoleFederalLead          = "Federal Lead"
	RoleDataCommonsPersonnel = "Data Commons Personnel"
	RoleSubmitter            = "Submitter"

	// AllStudies is the sentinel study value granting a Federal Lead
	// visibility into every study. Upstream systems send it either as a
	// bare string or as an object with _id = "All"; the User model
	// normalizes both forms.
	AllStudies = "All"

	// Submission permissions.
	PermissionCreate      = "data_submission:create"
	PermissionReview      = "data_submission:review"
	PermissionConfirm     = "data_submission:confirm"
	PermissionCancel      = "data_submission:cancel"
	PermissionAdminSubmit = "data_submission:admin_submit"

	// Collaborator permissions.
	CollaboratorCanView = "Can View"
	CollaboratorCanEdit = "Can Edit"

	// Validation types and scopes.
	ValidationTypeMetadata = "metadata"
	ValidationTypeFile     = "file"
	ValidationTypeCross    = "cross-submission"
	ValidationScopeNew     = "New"
	ValidationScopeAll     = "All"

	// Batch types and statuses.
	BatchTypeMetadata    = "metadata"
	BatchTypeDataFile    = "data file"
	BatchStatusUploading = "Uploading"
	BatchStatusUploaded  = "Uploaded"
	BatchStatusFailed    = "Failed"

	// NSQ topics.
	TopicValidationRequest = "submission_validation"
	TopicSubmissionExport  = "submission_export"

	// SystemUser appears as the acting user on history events written by
	// system-only actions (Archive, Resume).
	SystemUser = "system"
)

// Marker strings the validation service embeds in failure messages. The
// orchestrator's rollback behavior branches on these; their exact values
// and precedence are load-bearing. See models/service.OutcomeForMessage.
const (
	MsgNoValidationMetadata  = "no validation metadata"
	MsgNoNewMetadata         = "no new metadata"
	MsgCrossSubmissionFailed = "cross submission validation failed"
	MsgMetadataError         = "metadata validation error"
	MsgFileError             = "data file validation error"
	MsgCrossError            = "cross submission validation error"
	MsgValidationWarnings    = "completed with warnings"
)

var SubmissionStatuses = []string{
	StatusNew,
	StatusInProgress,
	StatusSubmitted,
	StatusReleased,
	StatusCompleted,
	StatusArchived,
	StatusCanceled,
	StatusRejected,
	StatusWithdrawn,
	StatusDeleted,
}

var ValidationStatuses = []string{
	ValidationNew,
	ValidationValidating,
	ValidationPassed,
	ValidationError,
	ValidationWarning,
}

// ValidationCompletedValues are the validation statuses that allow a
// submission to be submitted.
var ValidationCompletedValues = []string{
	ValidationPassed,
	ValidationWarning,
}

var ValidationTypes = []string{
	ValidationTypeMetadata,
	ValidationTypeFile,
	ValidationTypeCross,
}

// RestorableStatuses are the statuses from which a submission can be
// restored to its prior status by popping the last history event.
var RestorableStatuses = []string{
	StatusCanceled,
	StatusDeleted,
}
