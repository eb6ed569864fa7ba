package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/datacommons-hub/submission-services/constants"
	"github.com/datacommons-hub/submission-services/models/service"
)

var Bloomsday, _ = time.Parse(time.RFC3339, "1904-06-16T15:04:05Z")

const (
	StudyID     = "study-0001"
	DataCommons = "ICDC"
	SubmitterID = "user-submitter"
)

// GetSubmission returns a submission in the given status, owned by the
// standard test submitter, with one history event per status it would
// have passed through on the shortest path from New.
func GetSubmission(status string) *service.Submission {
	sub := service.NewSubmission(
		uuid.New().String(),
		StudyID,
		DataCommons,
		constants.IntentionUpdate,
		constants.DataTypeMetadataOnly,
		SubmitterID,
	)
	sub.SubmitterEmail = "submitter@example.edu"
	for _, step := range pathTo(status) {
		sub.AppendHistory(SubmitterID, step, "")
		sub.Status = step
	}
	return sub
}

// pathTo returns the statuses a submission passes through on its way
// from New to target, excluding New itself.
func pathTo(target string) []string {
	switch target {
	case constants.StatusNew:
		return nil
	case constants.StatusInProgress:
		return []string{constants.StatusInProgress}
	case constants.StatusSubmitted:
		return []string{constants.StatusInProgress, constants.StatusSubmitted}
	case constants.StatusReleased:
		return []string{constants.StatusInProgress, constants.StatusSubmitted, constants.StatusReleased}
	case constants.StatusCompleted:
		return []string{constants.StatusInProgress, constants.StatusSubmitted, constants.StatusReleased, constants.StatusCompleted}
	case constants.StatusArchived:
		return []string{constants.StatusInProgress, constants.StatusSubmitted, constants.StatusReleased, constants.StatusCompleted, constants.StatusArchived}
	case constants.StatusWithdrawn:
		return []string{constants.StatusInProgress, constants.StatusSubmitted, constants.StatusWithdrawn}
	case constants.StatusRejected:
		return []string{constants.StatusInProgress, constants.StatusSubmitted, constants.StatusRejected}
	case constants.StatusCanceled:
		return []string{constants.StatusInProgress, constants.StatusCanceled}
	case constants.StatusDeleted:
		return []string{constants.StatusInProgress, constants.StatusDeleted}
	}
	return []string{target}
}

// GetUser returns a user with the given role holding the given
// permissions. Submitter-role users own the factory submissions.
func GetUser(role string, permissions ...string) *service.User {
	user := &service.User{
		ID:          "user-" + uuid.New().String(),
		Email:       "user@example.edu",
		Role:        role,
		Studies:     []service.Study{{ID: StudyID}},
		DataCommons: []string{DataCommons},
		Permissions: permissions,
	}
	if role == constants.RoleSubmitter {
		user.ID = SubmitterID
	}
	return user
}

// GetValidationResult returns a validation service answer with the
// given success flag and message.
func GetValidationResult(success bool, message string) *service.ValidationResult {
	return &service.ValidationResult{
		Success: success,
		Message: message,
	}
}
