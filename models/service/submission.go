package service

import (
	"encoding/json"
	"time"

	"github.com/datacommons-hub/submission-services/constants"
	"github.com/datacommons-hub/submission-services/util"
)

// Submission is the central entity of the upload-and-review workflow.
// It moves through its lifecycle exclusively via verified actions, the
// validation orchestrator, and the batch coordinator.
type Submission struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	StudyID     string `json:"study_id"`
	DbGaPID     string `json:"dbgap_id,omitempty"`
	DataCommons string `json:"data_commons"`
	Intention   string `json:"intention"`
	DataType    string `json:"data_type"`
	Status      string `json:"status"`

	// The three validation-status fields are independent. Each holds one
	// of the constants.Validation* values, or the empty string when the
	// field does not apply to this submission's data type.
	MetadataValidationStatus string `json:"metadata_validation_status,omitempty"`
	FileValidationStatus     string `json:"file_validation_status,omitempty"`
	CrossSubmissionStatus    string `json:"cross_submission_status,omitempty"`

	// History is append-only and never reordered. Its last entry is the
	// sole source of "previous status" when restoring from Canceled or
	// Deleted.
	History []*HistoryEvent `json:"history"`

	Collaborators []*Collaborator `json:"collaborators"`

	// SubmitterID is set at creation and never changes.
	SubmitterID    string `json:"submitter_id"`
	SubmitterName  string `json:"submitter_name,omitempty"`
	SubmitterEmail string `json:"submitter_email,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`

	// DataFileSize and NodeCount are recomputed on read from object
	// storage and the metadata store. They are bookkeeping, not
	// authoritative state.
	DataFileSize int64 `json:"data_file_size,omitempty"`
	NodeCount    int64 `json:"node_count,omitempty"`
}

// HistoryEvent records a single status transition. Events are immutable
// once appended.
type HistoryEvent struct {
	UserID   string    `json:"user_id"`
	Status   string    `json:"status"`
	Comment  string    `json:"comment,omitempty"`
	DateTime time.Time `json:"date_time"`
}

// Collaborator grants a non-owner user view or edit rights on a
// submission.
type Collaborator struct {
	CollaboratorID string `json:"collaborator_id"`
	Permission     string `json:"permission"`
}

// NewSubmission returns a submission in status New, owned by submitterID.
func NewSubmission(id, studyID, dataCommons, intention, dataType, submitterID string) *Submission {
	now := time.Now().UTC()
	sub := &Submission{
		ID:            id,
		StudyID:       studyID,
		DataCommons:   dataCommons,
		Intention:     intention,
		DataType:      dataType,
		Status:        constants.StatusNew,
		SubmitterID:   submitterID,
		History:       make([]*HistoryEvent, 0),
		Collaborators: make([]*Collaborator, 0),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	sub.MetadataValidationStatus = constants.ValidationNew
	if sub.RequiresFileValidation() {
		sub.FileValidationStatus = constants.ValidationNew
	}
	sub.AppendHistory(submitterID, constants.StatusNew, "")
	return sub
}

// SubmissionFromJSON converts a JSON representation of a Submission to
// a Submission object.
func SubmissionFromJSON(jsonData []byte) (*Submission, error) {
	sub := &Submission{}
	err := json.Unmarshal(jsonData, sub)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// ToJSON converts a Submission to its JSON representation.
func (sub *Submission) ToJSON() ([]byte, error) {
	bytes, err := json.Marshal(sub)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}

// AppendHistory appends one immutable history event carrying the new
// status and the acting user. The comment may be empty.
func (sub *Submission) AppendHistory(userID, status, comment string) {
	sub.History = append(sub.History, &HistoryEvent{
		UserID:   userID,
		Status:   status,
		Comment:  comment,
		DateTime: time.Now().UTC(),
	})
}

// LastHistory returns the most recent history event, or nil if the
// submission has no history.
func (sub *Submission) LastHistory() *HistoryEvent {
	if len(sub.History) == 0 {
		return nil
	}
	return sub.History[len(sub.History)-1]
}

// PopHistory removes and returns the last history event. This is the
// restore path's only mutation of history; nothing else ever removes or
// reorders events.
func (sub *Submission) PopHistory() *HistoryEvent {
	last := sub.LastHistory()
	if last != nil {
		sub.History = sub.History[:len(sub.History)-1]
	}
	return last
}

// RequiresFileValidation returns true if this submission's data type
// includes data files.
func (sub *Submission) RequiresFileValidation() bool {
	return sub.DataType == constants.DataTypeMetadataAndFiles
}

// ValidationCompleted returns true if validation has completed well
// enough for the submission to be submitted: the metadata field, and the
// file field when data files are part of the submission, must be Passed
// or Warning.
func (sub *Submission) ValidationCompleted() bool {
	if !util.StringListContains(constants.ValidationCompletedValues, sub.MetadataValidationStatus) {
		return false
	}
	if sub.RequiresFileValidation() &&
		!util.StringListContains(constants.ValidationCompletedValues, sub.FileValidationStatus) {
		return false
	}
	return true
}

// HasValidationError returns true if any of the three validation-status
// fields is Error.
func (sub *Submission) HasValidationError() bool {
	return sub.MetadataValidationStatus == constants.ValidationError ||
		sub.FileValidationStatus == constants.ValidationError ||
		sub.CrossSubmissionStatus == constants.ValidationError
}

// Touch bumps UpdatedAt. Every persisted mutation goes through a
// conditional write keyed on the previous UpdatedAt value, so Touch must
// be called exactly once per write.
func (sub *Submission) Touch() {
	sub.UpdatedAt = time.Now().UTC()
}
