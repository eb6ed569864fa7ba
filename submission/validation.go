package submission

import (
	"fmt"

	"github.com/op/go-logging"

	"github.com/datacommons-hub/submission-services/constants"
	"github.com/datacommons-hub/submission-services/models/common"
	"github.com/datacommons-hub/submission-services/models/service"
	"github.com/datacommons-hub/submission-services/network"
)

// Orchestrator starts validation runs and keeps the submission's three
// validation-status fields consistent with what actually happened.
// Whatever the external validation service reports, no field is ever
// left at Validating after StartValidation returns.
type Orchestrator struct {
	Logger    *logging.Logger
	Store     Store
	Queue     Queue
	Validator Validator
}

// NewOrchestrator wires an Orchestrator to the shared clients in
// context.
func NewOrchestrator(context *common.Context) *Orchestrator {
	return &Orchestrator{
		Logger:    context.Logger,
		Store:     context.RedisClient,
		Queue:     context.NSQClient,
		Validator: network.NewValidationClient(context.Config.ValidationServiceURL, context.Logger),
	}
}

// RequestValidation is the entry point for callers acting on behalf of
// a user: it loads the submission, checks mutation scope, and starts
// the run.
func (o *Orchestrator) RequestValidation(submissionID string, types []string, scope string, user *service.User) (*service.ValidationResult, error) {
	sub, err := o.Store.SubmissionGet(submissionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}
	if !CanModify(user, sub) {
		return nil, ErrInvalidPermission
	}
	return o.StartValidation(sub, types, scope)
}

// EnqueueValidation publishes a validation request for the worker pool
// instead of running it inline.
func (o *Orchestrator) EnqueueValidation(submissionID string, types []string, scope string) error {
	return o.Queue.Enqueue(constants.TopicValidationRequest, &service.QueueMessage{
		Type:         "Validate",
		SubmissionID: submissionID,
		Types:        types,
		Scope:        scope,
		DedupID:      fmt.Sprintf("%s-validate", submissionID),
		GroupID:      submissionID,
	})
}

// StartValidation runs one validation pass over the requested types.
// Partial failures are resolved into a consistent rollback and reported
// through the returned result, not as errors; the only hard errors here
// are persistence writes that modify zero documents.
func (o *Orchestrator) StartValidation(sub *service.Submission, types []string, scope string) (*service.ValidationResult, error) {
	snapMetadata := sub.MetadataValidationStatus
	snapFile := sub.FileValidationStatus
	snapCross := sub.CrossSubmissionStatus
	expected := sub.UpdatedAt

	for _, t := range types {
		setValidationField(sub, t, constants.ValidationValidating)
	}
	sub.Touch()
	modified, err := o.Store.SubmissionUpdateConditional(sub, expected)
	if err != nil {
		return nil, err
	}
	if modified == 0 {
		return nil, ErrFailedValidateMetadata
	}

	rec := service.NewValidationRecord(sub.ID, types, scope)
	if err = o.Store.ValidationRecordSave(rec); err != nil {
		// Without a record we must not leave fields at Validating.
		o.rollback(sub, types, snapMetadata, snapFile, snapCross)
		return nil, err
	}

	result, err := o.Validator.ValidateMetadata(sub.ID, types, scope, rec.ID)
	if err != nil {
		// A transport failure resolves like any other failed run.
		result = &service.ValidationResult{Success: false, Message: err.Error()}
	}

	for _, t := range types {
		dv := service.NewDataValidation(sub.ID, t, scope, rec.StartedAt)
		if err = o.Store.DataValidationSave(dv); err != nil {
			o.Logger.Errorf("Could not save data validation record for submission %s type %s: %v",
				sub.ID, t, err)
		}
	}

	resolved := o.resolve(sub, result, types, snapMetadata, snapFile, snapCross)

	expected = sub.UpdatedAt
	sub.Touch()
	modified, err = o.Store.SubmissionUpdateConditional(sub, expected)
	if err != nil {
		return nil, err
	}
	if modified == 0 {
		return nil, ErrFailedValidateMetadata
	}

	if resolved.Success {
		terminal := constants.ValidationPassed
		if result.MentionsWarnings() {
			terminal = constants.ValidationWarning
		}
		rec.Finish(terminal)
	} else {
		rec.Finish(constants.ValidationError)
	}
	if err = o.Store.ValidationRecordSave(rec); err != nil {
		o.Logger.Errorf("Could not close validation record %s for submission %s: %v",
			rec.ID, sub.ID, err)
	}
	return resolved, nil
}

// resolve maps the validation service's answer onto the three status
// fields. The outcome precedence and per-field effects reproduce the
// behavior of the message markers exactly:
//
//   - no validation metadata: every requested field rolls to NA; the
//     run is not an error.
//   - no new metadata: the metadata field keeps its pre-run value, a
//     requested file field rolls to NA (nothing new was uploaded), the
//     cross field keeps its pre-run value; not an error.
//   - cross submission validation failed: only the cross field rolls
//     back; the run is a real failure.
//   - anything else: each requested field whose error marker appears in
//     the message goes to Error, the rest roll back; a real failure.
func (o *Orchestrator) resolve(sub *service.Submission, result *service.ValidationResult, types []string, snapMetadata, snapFile, snapCross string) *service.ValidationResult {
	if result.Success {
		terminal := constants.ValidationPassed
		if result.MentionsWarnings() {
			terminal = constants.ValidationWarning
		}
		for _, t := range types {
			setValidationField(sub, t, terminal)
		}
		return result
	}

	snapFor := func(t string) string {
		switch t {
		case constants.ValidationTypeMetadata:
			return snapMetadata
		case constants.ValidationTypeFile:
			return snapFile
		case constants.ValidationTypeCross:
			return snapCross
		}
		return constants.ValidationNA
	}

	outcome := result.Outcome()
	for _, t := range types {
		switch outcome {
		case service.OutcomeNoValidationMetadata:
			setValidationField(sub, t, constants.ValidationNA)
		case service.OutcomeNoNewMetadata:
			if t == constants.ValidationTypeFile {
				setValidationField(sub, t, constants.ValidationNA)
			} else {
				setValidationField(sub, t, snapFor(t))
			}
		case service.OutcomeCrossSubmissionFailed:
			if t == constants.ValidationTypeCross {
				setValidationField(sub, t, snapCross)
			} else if result.MentionsError(t) {
				setValidationField(sub, t, constants.ValidationError)
			} else {
				setValidationField(sub, t, snapFor(t))
			}
		default:
			if result.MentionsError(t) {
				setValidationField(sub, t, constants.ValidationError)
			} else {
				setValidationField(sub, t, snapFor(t))
			}
		}
	}

	if outcome == service.OutcomeNoValidationMetadata || outcome == service.OutcomeNoNewMetadata {
		return &service.ValidationResult{Success: true, Message: result.Message}
	}
	return result
}

// rollback restores the requested fields to their pre-run values after
// a persistence failure, so nothing stays at Validating.
func (o *Orchestrator) rollback(sub *service.Submission, types []string, snapMetadata, snapFile, snapCross string) {
	for _, t := range types {
		switch t {
		case constants.ValidationTypeMetadata:
			setValidationField(sub, t, snapMetadata)
		case constants.ValidationTypeFile:
			setValidationField(sub, t, snapFile)
		case constants.ValidationTypeCross:
			setValidationField(sub, t, snapCross)
		}
	}
	expected := sub.UpdatedAt
	sub.Touch()
	if _, err := o.Store.SubmissionUpdateConditional(sub, expected); err != nil {
		o.Logger.Errorf("Could not roll back validation status for submission %s: %v", sub.ID, err)
	}
}

func setValidationField(sub *service.Submission, validationType, value string) {
	switch validationType {
	case constants.ValidationTypeMetadata:
		sub.MetadataValidationStatus = value
	case constants.ValidationTypeFile:
		sub.FileValidationStatus = value
	case constants.ValidationTypeCross:
		sub.CrossSubmissionStatus = value
	}
}
