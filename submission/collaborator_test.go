package submission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datacommons-hub/submission-services/constants"
	"github.com/datacommons-hub/submission-services/models/service"
	"github.com/datacommons-hub/submission-services/submission"
	"github.com/datacommons-hub/submission-services/util/testutil"
)

func TestCollaboratorGrants(t *testing.T) {
	sub := testutil.GetSubmission(constants.StatusNew)
	sub.Collaborators = []*service.Collaborator{
		{CollaboratorID: "user-viewer", Permission: constants.CollaboratorCanView},
		{CollaboratorID: "user-editor", Permission: constants.CollaboratorCanEdit},
	}

	assert.True(t, submission.HasViewGrant(sub, "user-viewer"))
	assert.True(t, submission.HasViewGrant(sub, "user-editor"))
	assert.False(t, submission.HasViewGrant(sub, "user-stranger"))

	assert.False(t, submission.HasEditGrant(sub, "user-viewer"))
	assert.True(t, submission.HasEditGrant(sub, "user-editor"))

	assert.Equal(t, []string{"user-editor"}, submission.EditGrantedUserIDs(sub))
}
