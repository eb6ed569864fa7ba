package service

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/datacommons-hub/submission-services/constants"
)

// ValidationRecord tracks one validation run. A record is created at the
// start of every run and never reused. EndedAt is nil while the run is in
// flight.
type ValidationRecord struct {
	ID           string     `json:"id"`
	SubmissionID string     `json:"submission_id"`
	Types        []string   `json:"types"`
	Scope        string     `json:"scope"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
}

// NewValidationRecord returns a record in status Validating with
// StartedAt set to now.
func NewValidationRecord(submissionID string, types []string, scope string) *ValidationRecord {
	return &ValidationRecord{
		ID:           uuid.New().String(),
		SubmissionID: submissionID,
		Types:        types,
		Scope:        scope,
		Status:       constants.ValidationValidating,
		StartedAt:    time.Now().UTC(),
	}
}

// Finish closes the record with the given terminal status.
func (rec *ValidationRecord) Finish(status string) {
	now := time.Now().UTC()
	rec.Status = status
	rec.EndedAt = &now
}

// InFlight returns true while the record's run has not ended.
func (rec *ValidationRecord) InFlight() bool {
	return rec.EndedAt == nil
}

// ValidationRecordFromJSON converts a JSON representation of a
// ValidationRecord into a full-fledged object.
func ValidationRecordFromJSON(jsonData []byte) (*ValidationRecord, error) {
	rec := &ValidationRecord{}
	err := json.Unmarshal(jsonData, rec)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ToJSON converts a ValidationRecord to its JSON representation.
func (rec *ValidationRecord) ToJSON() ([]byte, error) {
	bytes, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}

// DataValidation is the side record persisted against a submission for
// every validation run, independent of the run's outcome. Type and scope
// are stored lower-cased.
type DataValidation struct {
	SubmissionID      string     `json:"submission_id"`
	Type              string     `json:"type"`
	Scope             string     `json:"scope"`
	ValidationStarted time.Time  `json:"validation_started"`
	ValidationEnded   *time.Time `json:"validation_ended,omitempty"`
}

// NewDataValidation returns a DataValidation with normalized type and
// scope and a nil ValidationEnded.
func NewDataValidation(submissionID, validationType, scope string, started time.Time) *DataValidation {
	return &DataValidation{
		SubmissionID:      submissionID,
		Type:              strings.ToLower(validationType),
		Scope:             strings.ToLower(scope),
		ValidationStarted: started,
	}
}

// ToJSON converts a DataValidation to its JSON representation.
func (dv *DataValidation) ToJSON() ([]byte, error) {
	bytes, err := json.Marshal(dv)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}
