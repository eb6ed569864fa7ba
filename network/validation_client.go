package network

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/op/go-logging"

	"github.com/datacommons-hub/submission-services/models/service"
)

// ValidationClient talks to the external validation service. The service
// is opaque: we hand it a submission and a run ID, it answers with
// success plus a free-text message. What the message means is the
// orchestrator's problem (see models/service.OutcomeForMessage).
type ValidationClient struct {
	URL    string
	logger *logging.Logger
}

type validationRequest struct {
	SubmissionID string   `json:"submission_id"`
	Types        []string `json:"types"`
	Scope        string   `json:"scope"`
	RunID        string   `json:"run_id"`
}

func NewValidationClient(url string, logger *logging.Logger) *ValidationClient {
	return &ValidationClient{
		URL:    url,
		logger: logger,
	}
}

// ValidateMetadata asks the validation service to validate the named
// submission. A transport-level failure comes back as an error; a
// completed call always yields a ValidationResult, successful or not.
func (c *ValidationClient) ValidateMetadata(submissionID string, types []string, scope, runID string) (*service.ValidationResult, error) {
	reqBody, err := json.Marshal(&validationRequest{
		SubmissionID: submissionID,
		Types:        types,
		Scope:        scope,
		RunID:        runID,
	})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/validate", c.URL)
	resp, err := http.Post(url, "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("validation service post failed: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 200 {
		c.logger.Errorf("Validation service returned %d for submission %s: %s",
			resp.StatusCode, submissionID, string(body))
		return nil, fmt.Errorf("validation service returned status %d", resp.StatusCode)
	}
	result := &service.ValidationResult{}
	if err = json.Unmarshal(body, result); err != nil {
		return nil, fmt.Errorf("validation service returned unparsable body: %v", err)
	}
	return result, nil
}
