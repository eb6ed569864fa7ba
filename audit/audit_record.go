package audit

import (
	"encoding/json"
	"time"
)

// Record is one entry in a submission's audit trail. A record is written
// for every verified action, after the status change commits. Records
// are never updated or deleted.
type Record struct {
	SubmissionID string    `json:"submission_id"`
	Action       string    `json:"action"`
	FromStatus   string    `json:"from_status"`
	ToStatus     string    `json:"to_status"`
	UserID       string    `json:"user_id"`
	UserRole     string    `json:"user_role,omitempty"`
	Comment      string    `json:"comment,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NewRecord returns an audit record stamped with the current time.
func NewRecord(submissionID, action, fromStatus, toStatus, userID, userRole, comment string) *Record {
	return &Record{
		SubmissionID: submissionID,
		Action:       action,
		FromStatus:   fromStatus,
		ToStatus:     toStatus,
		UserID:       userID,
		UserRole:     userRole,
		Comment:      comment,
		OccurredAt:   time.Now().UTC(),
	}
}

// RecordFromJSON converts a JSON representation of a Record to a Record
// object.
func RecordFromJSON(jsonData []byte) (*Record, error) {
	record := &Record{}
	err := json.Unmarshal(jsonData, record)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ToJSON converts a Record to its JSON representation.
func (record *Record) ToJSON() ([]byte, error) {
	bytes, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}
