package submission

import (
	"github.com/datacommons-hub/submission-services/constants"
	"github.com/datacommons-hub/submission-services/models/service"
)

// ScopeResolver decides whether a user's role puts a submission within
// their authorization scope. One implementation per role keeps the rule
// table flat; adding a role means adding an implementation, not another
// branch.
type ScopeResolver interface {
	InScope(user *service.User, sub *service.Submission) bool
}

type adminScope struct{}

func (adminScope) InScope(user *service.User, sub *service.Submission) bool {
	return true
}

type federalLeadScope struct{}

func (federalLeadScope) InScope(user *service.User, sub *service.Submission) bool {
	if user.HasAllStudies() {
		return true
	}
	return user.HasStudy(sub.StudyID)
}

type dataCommonsScope struct{}

func (dataCommonsScope) InScope(user *service.User, sub *service.Submission) bool {
	return user.HasDataCommons(sub.DataCommons)
}

type submitterScope struct{}

func (submitterScope) InScope(user *service.User, sub *service.Submission) bool {
	return sub.SubmitterID == user.ID
}

var scopeByRole = map[string]ScopeResolver{
	constants.RoleAdmin:                adminScope{},
	constants.RoleFederalLead:          federalLeadScope{},
	constants.RoleDataCommonsPersonnel: dataCommonsScope{},
	constants.RoleSubmitter:            submitterScope{},
}

// IsUserScope reports whether the submission falls inside the user's
// role scope. Unrecognized roles fall back to the ownership check, which
// only the submitter passes.
func IsUserScope(user *service.User, sub *service.Submission) bool {
	resolver, ok := scopeByRole[user.Role]
	if !ok {
		resolver = submitterScope{}
	}
	return resolver.InScope(user, sub)
}

// CanView reports read access: role scope, or any collaborator grant.
func CanView(user *service.User, sub *service.Submission) bool {
	return IsUserScope(user, sub) || HasViewGrant(sub, user.ID)
}

// CanModify reports write access: role scope, or an edit grant.
func CanModify(user *service.User, sub *service.Submission) bool {
	return IsUserScope(user, sub) || HasEditGrant(sub, user.ID)
}
