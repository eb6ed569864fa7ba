package submission

import (
	"fmt"

	"github.com/datacommons-hub/submission-services/constants"
	"github.com/datacommons-hub/submission-services/models/service"
	"github.com/datacommons-hub/submission-services/util"
)

// VerifiedAction is the committed result of verifying a requested
// action against the transition table. FromStatus is carried so the
// audit record can name the status the submission left.
type VerifiedAction struct {
	Action      string
	FromStatus  string
	ToStatus    string
	Permissions []string
}

// collaboratorActions are the actions an edit collaborator may perform
// without holding the action's permission.
var collaboratorActions = []string{
	constants.ActionSubmit,
	constants.ActionWithdraw,
	constants.ActionCancel,
}

// Verify checks a requested action against the transition table and the
// submission's current status. Reject requires a non-empty comment and
// is disambiguated by current status before lookup, since rejecting a
// submitted submission and rejecting a released one carry different
// permissions. A Reject from any other status deliberately falls through
// to ErrUnknownAction.
func Verify(action, currentStatus, comment string) (*VerifiedAction, error) {
	if action == constants.ActionReject {
		if util.IsEmpty(comment) {
			return nil, ErrCommentRequired
		}
		switch currentStatus {
		case constants.StatusSubmitted:
			action = constants.ActionRejectSubmitted
		case constants.StatusReleased:
			action = constants.ActionRejectReleased
		}
	}
	row := constants.TransitionFor(action)
	if row == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	if !util.StringListContains(row.FromStatuses, currentStatus) {
		return nil, fmt.Errorf("%w: %s from %s", ErrInvalidStatusForAction, action, currentStatus)
	}
	return &VerifiedAction{
		Action:      row.Action,
		FromStatus:  currentStatus,
		ToStatus:    row.ToStatus,
		Permissions: row.Permissions,
	}, nil
}

// IsAllowed evaluates the verified action's permission set against the
// acting user. The user passes if they hold any required permission with
// the submission inside their mutation scope, or if they hold an edit
// grant and the action is one a collaborator may perform. System-only
// actions (empty permission set) never pass for a user.
func IsAllowed(va *VerifiedAction, user *service.User, sub *service.Submission) bool {
	for _, permission := range va.Permissions {
		if user.HasPermission(permission) && CanModify(user, sub) {
			return true
		}
	}
	if util.StringListContains(collaboratorActions, va.Action) && HasEditGrant(sub, user.ID) {
		return true
	}
	return false
}

// CheckSubmitAction applies the submit-specific gate. A normal submit
// requires validation to have completed successfully. An admin-override
// submit (the actor holds the admin-submit permission) bypasses that,
// but when the submission's intention is Update and it carries an Error
// validation status, the actor must explain the override in a comment.
func CheckSubmitAction(va *VerifiedAction, sub *service.Submission, user *service.User, comment string) error {
	if va.Action != constants.ActionSubmit {
		return nil
	}
	if user.HasPermission(constants.PermissionAdminSubmit) {
		if sub.Intention == constants.IntentionUpdate && sub.HasValidationError() && util.IsEmpty(comment) {
			return ErrSubmitActionCommentRequired
		}
		return nil
	}
	if !sub.ValidationCompleted() {
		return ErrValidationNotPassed
	}
	return nil
}
