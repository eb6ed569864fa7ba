package service

import (
	"encoding/json"
)

// QueueMessage is the envelope published to NSQ for downstream
// consumers. DedupID lets consumers drop redeliveries of the same
// business event; GroupID keeps messages for one data commons together.
type QueueMessage struct {
	Type         string   `json:"type"`
	SubmissionID string   `json:"submission_id"`
	Types        []string `json:"types,omitempty"`
	Scope        string   `json:"scope,omitempty"`
	DedupID      string   `json:"dedup_id,omitempty"`
	GroupID      string   `json:"group_id,omitempty"`
}

// QueueMessageFromJSON converts a JSON representation of a QueueMessage
// to a QueueMessage object.
func QueueMessageFromJSON(jsonData []byte) (*QueueMessage, error) {
	msg := &QueueMessage{}
	err := json.Unmarshal(jsonData, msg)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// ToJSON converts a QueueMessage to its JSON representation.
func (msg *QueueMessage) ToJSON() ([]byte, error) {
	bytes, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}
