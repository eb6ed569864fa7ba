package service

import (
	"github.com/datacommons-hub/submission-services/constants"
	"github.com/datacommons-hub/submission-services/util"
)

// ValidationOutcome classifies the result of a validation-service call.
// The service itself reports only {success, message}; the outcome is
// derived from marker substrings in the message. Deriving it here, in one
// place, keeps the string matching out of the orchestrator, which
// branches on the typed outcome only.
type ValidationOutcome int

const (
	// OutcomeOK: the run completed. Fields requested for validation are
	// terminal (Passed or Warning).
	OutcomeOK ValidationOutcome = iota

	// OutcomeNoValidationMetadata: the submission has nothing for the
	// requested file validation. The affected field rolls to NA. Not an
	// error.
	OutcomeNoValidationMetadata

	// OutcomeNoNewMetadata: nothing new to validate. Affected fields
	// roll back to their pre-run values. Not an error.
	OutcomeNoNewMetadata

	// OutcomeCrossSubmissionFailed: only the cross-submission pass
	// failed. The cross field rolls back; this is a real failure.
	OutcomeCrossSubmissionFailed

	// OutcomeFailed: generic failure. Fields whose error markers appear
	// in the message go to Error; the rest roll back to their pre-run
	// values.
	OutcomeFailed
)

// ValidationResult is what the external validation service returns.
type ValidationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// OutcomeForMessage maps a failure message to its outcome. Precedence is
// business-critical and fixed: no-validation-metadata, then
// no-new-metadata, then cross-submission-failed, then generic failure.
func OutcomeForMessage(message string) ValidationOutcome {
	switch {
	case util.ContainsMarker(message, constants.MsgNoValidationMetadata):
		return OutcomeNoValidationMetadata
	case util.ContainsMarker(message, constants.MsgNoNewMetadata):
		return OutcomeNoNewMetadata
	case util.ContainsMarker(message, constants.MsgCrossSubmissionFailed):
		return OutcomeCrossSubmissionFailed
	default:
		return OutcomeFailed
	}
}

// Outcome returns OutcomeOK for successful results and the
// marker-derived outcome otherwise.
func (r *ValidationResult) Outcome() ValidationOutcome {
	if r.Success {
		return OutcomeOK
	}
	return OutcomeForMessage(r.Message)
}

// MentionsError reports whether the message carries the error marker for
// the given validation type. Used by the generic-failure branch to decide
// which fields the validation service actually flagged.
func (r *ValidationResult) MentionsError(validationType string) bool {
	switch validationType {
	case constants.ValidationTypeMetadata:
		return util.ContainsMarker(r.Message, constants.MsgMetadataError)
	case constants.ValidationTypeFile:
		return util.ContainsMarker(r.Message, constants.MsgFileError)
	case constants.ValidationTypeCross:
		return util.ContainsMarker(r.Message, constants.MsgCrossError)
	}
	return false
}

// MentionsWarnings reports whether a successful run completed with
// warnings rather than a clean pass.
func (r *ValidationResult) MentionsWarnings() bool {
	return util.ContainsMarker(r.Message, constants.MsgValidationWarnings)
}

// MentionsNoValidationMetadata reports the no-validation-metadata marker
// independent of overall outcome. A single message can carry both this
// and the no-new-metadata marker when metadata and files were requested
// together; each field resolves against its own marker.
func (r *ValidationResult) MentionsNoValidationMetadata() bool {
	return util.ContainsMarker(r.Message, constants.MsgNoValidationMetadata)
}

// MentionsNoNewMetadata reports the no-new-metadata marker independent
// of overall outcome.
func (r *ValidationResult) MentionsNoNewMetadata() bool {
	return util.ContainsMarker(r.Message, constants.MsgNoNewMetadata)
}
