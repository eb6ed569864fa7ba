package submission

import (
	"github.com/datacommons-hub/submission-services/constants"
	"github.com/datacommons-hub/submission-services/models/service"
)

// Collaborator grants are an override path on top of role scope: any
// collaborator may view a submission, and an edit collaborator may
// perform the owner-style actions (Submit, Withdraw, Cancel) without
// holding the underlying permission.

// HasViewGrant returns true if userID holds any collaborator grant on
// the submission.
func HasViewGrant(sub *service.Submission, userID string) bool {
	for _, c := range sub.Collaborators {
		if c.CollaboratorID == userID {
			return true
		}
	}
	return false
}

// HasEditGrant returns true if userID holds an edit grant on the
// submission.
func HasEditGrant(sub *service.Submission, userID string) bool {
	for _, c := range sub.Collaborators {
		if c.CollaboratorID == userID && c.Permission == constants.CollaboratorCanEdit {
			return true
		}
	}
	return false
}

// EditGrantedUserIDs returns the IDs of every user holding an edit grant.
func EditGrantedUserIDs(sub *service.Submission) []string {
	ids := make([]string, 0)
	for _, c := range sub.Collaborators {
		if c.Permission == constants.CollaboratorCanEdit {
			ids = append(ids, c.CollaboratorID)
		}
	}
	return ids
}
