package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/datacommons-hub/submission-services/constants"
)

// Batch is one upload batch belonging to a submission. Batches drive the
// submission's upload lifecycle: creating the first batch promotes the
// submission out of its initial status, and a data-file batch reaching
// Uploaded invalidates any prior file validation result.
type Batch struct {
	ID           string    `json:"id"`
	SubmissionID string    `json:"submission_id"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	FileCount    int       `json:"file_count"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// NewBatch returns a batch in status Uploading.
func NewBatch(submissionID, batchType string) *Batch {
	now := time.Now().UTC()
	return &Batch{
		ID:           uuid.New().String(),
		SubmissionID: submissionID,
		Type:         batchType,
		Status:       constants.BatchStatusUploading,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// BatchFromJSON converts a JSON representation of a Batch to a Batch
// object.
func BatchFromJSON(jsonData []byte) (*Batch, error) {
	batch := &Batch{}
	err := json.Unmarshal(jsonData, batch)
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// ToJSON converts a Batch to its JSON representation.
func (batch *Batch) ToJSON() ([]byte, error) {
	bytes, err := json.Marshal(batch)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}

// IsUploadedDataFileBatch returns true if this is a data-file batch that
// has finished uploading.
func (batch *Batch) IsUploadedDataFileBatch() bool {
	return batch.Type == constants.BatchTypeDataFile &&
		batch.Status == constants.BatchStatusUploaded
}
