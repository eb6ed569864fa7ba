package submission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datacommons-hub/submission-services/constants"
	"github.com/datacommons-hub/submission-services/models/service"
	"github.com/datacommons-hub/submission-services/submission"
	"github.com/datacommons-hub/submission-services/util/testutil"
)

func TestAdminScope(t *testing.T) {
	sub := testutil.GetSubmission(constants.StatusNew)
	admin := &service.User{ID: "user-admin", Role: constants.RoleAdmin}
	assert.True(t, submission.IsUserScope(admin, sub))
}

func TestFederalLeadScope(t *testing.T) {
	sub := testutil.GetSubmission(constants.StatusNew)

	assigned := &service.User{
		ID:      "user-lead",
		Role:    constants.RoleFederalLead,
		Studies: []service.Study{{ID: testutil.StudyID}},
	}
	assert.True(t, submission.IsUserScope(assigned, sub))

	other := &service.User{
		ID:      "user-lead",
		Role:    constants.RoleFederalLead,
		Studies: []service.Study{{ID: "study-9999"}},
	}
	assert.False(t, submission.IsUserScope(other, sub))

	all := &service.User{
		ID:      "user-lead",
		Role:    constants.RoleFederalLead,
		Studies: []service.Study{{ID: constants.AllStudies}},
	}
	assert.True(t, submission.IsUserScope(all, sub))
}

func TestDataCommonsScope(t *testing.T) {
	sub := testutil.GetSubmission(constants.StatusNew)

	dcp := &service.User{
		ID:          "user-dcp",
		Role:        constants.RoleDataCommonsPersonnel,
		DataCommons: []string{testutil.DataCommons},
	}
	assert.True(t, submission.IsUserScope(dcp, sub))

	// A DCP assigned to other commons is out of scope even for
	// submissions in a study they could otherwise see.
	other := &service.User{
		ID:          "user-dcp",
		Role:        constants.RoleDataCommonsPersonnel,
		DataCommons: []string{"GC"},
	}
	assert.False(t, submission.IsUserScope(other, sub))
}

func TestSubmitterScope(t *testing.T) {
	sub := testutil.GetSubmission(constants.StatusNew)

	owner := &service.User{ID: testutil.SubmitterID, Role: constants.RoleSubmitter}
	assert.True(t, submission.IsUserScope(owner, sub))

	other := &service.User{ID: "user-other", Role: constants.RoleSubmitter}
	assert.False(t, submission.IsUserScope(other, sub))
}

func TestUnknownRoleFallsBackToOwnership(t *testing.T) {
	sub := testutil.GetSubmission(constants.StatusNew)

	owner := &service.User{ID: testutil.SubmitterID, Role: "Curator"}
	assert.True(t, submission.IsUserScope(owner, sub))

	other := &service.User{ID: "user-other", Role: "Curator"}
	assert.False(t, submission.IsUserScope(other, sub))
}

func TestCanView(t *testing.T) {
	sub := testutil.GetSubmission(constants.StatusNew)
	sub.Collaborators = append(sub.Collaborators, &service.Collaborator{
		CollaboratorID: "user-viewer",
		Permission:     constants.CollaboratorCanView,
	})

	viewer := &service.User{ID: "user-viewer", Role: constants.RoleSubmitter}
	assert.True(t, submission.CanView(viewer, sub))
	assert.False(t, submission.CanModify(viewer, sub))

	stranger := &service.User{ID: "user-stranger", Role: constants.RoleSubmitter}
	assert.False(t, submission.CanView(stranger, sub))
}

func TestCanModify(t *testing.T) {
	sub := testutil.GetSubmission(constants.StatusNew)
	sub.Collaborators = append(sub.Collaborators, &service.Collaborator{
		CollaboratorID: "user-editor",
		Permission:     constants.CollaboratorCanEdit,
	})

	editor := &service.User{ID: "user-editor", Role: constants.RoleSubmitter}
	assert.True(t, submission.CanModify(editor, sub))
	assert.True(t, submission.CanView(editor, sub))
}
