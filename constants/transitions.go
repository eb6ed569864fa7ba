package constants

// Action names. Reject is what callers request; the verifier disambiguates
// it into RejectSubmitted or RejectReleased based on the submission's
// current status, because the two origins carry different required
// permissions and represent different business events.
const (
	ActionSubmit          = "Submit"
	ActionRelease         = "Release"
	ActionWithdraw        = "Withdraw"
	ActionReject          = "Reject"
	ActionRejectSubmitted = "Reject_Submitted"
	ActionRejectReleased  = "Reject_Released"
	ActionComplete        = "Complete"
	ActionCancel          = "Cancel"
	ActionArchive         = "Archive"
	ActionResume          = "Resume"
)

// ActionTransition describes one legal submission action: the statuses it
// may start from, the status it lands on, and the permissions that allow a
// user to perform it. An empty Permissions list marks a system-only action
// that no user may request directly.
type ActionTransition struct {
	Action       string
	FromStatuses []string
	ToStatus     string
	Permissions  []string
}

// ActionTransitions is the authoritative table of legal submission
// transitions. Adding an action means adding a row here, not new control
// flow in the verifier.
var ActionTransitions = []ActionTransition{
	{
		Action:       ActionSubmit,
		FromStatuses: []string{StatusInProgress, StatusWithdrawn, StatusRejected},
		ToStatus:     StatusSubmitted,
		Permissions:  []string{PermissionCreate, PermissionAdminSubmit},
	},
	{
		Action:       ActionRelease,
		FromStatuses: []string{StatusSubmitted},
		ToStatus:     StatusReleased,
		Permissions:  []string{PermissionReview},
	},
	{
		Action:       ActionWithdraw,
		FromStatuses: []string{StatusSubmitted},
		ToStatus:     StatusWithdrawn,
		Permissions:  []string{PermissionCreate},
	},
	{
		Action:       ActionRejectSubmitted,
		FromStatuses: []string{StatusSubmitted},
		ToStatus:     StatusRejected,
		Permissions:  []string{PermissionConfirm},
	},
	{
		Action:       ActionRejectReleased,
		FromStatuses: []string{StatusReleased},
		ToStatus:     StatusRejected,
		Permissions:  []string{PermissionConfirm},
	},
	{
		Action:       ActionComplete,
		FromStatuses: []string{StatusReleased},
		ToStatus:     StatusCompleted,
		Permissions:  []string{PermissionConfirm},
	},
	{
		Action:       ActionCancel,
		FromStatuses: []string{StatusNew, StatusInProgress, StatusRejected},
		ToStatus:     StatusCanceled,
		Permissions:  []string{PermissionCancel},
	},
	{
		Action:       ActionArchive,
		FromStatuses: []string{StatusCompleted},
		ToStatus:     StatusArchived,
		Permissions:  []string{},
	},
	{
		Action:       ActionResume,
		FromStatuses: []string{StatusRejected},
		ToStatus:     StatusInProgress,
		Permissions:  []string{},
	},
}

// TransitionFor returns the transition row for the named action, or nil
// if no such action exists. Note that the generic Reject action has no
// row of its own; callers must disambiguate it first.
func TransitionFor(action string) *ActionTransition {
	for i := range ActionTransitions {
		if ActionTransitions[i].Action == action {
			return &ActionTransitions[i]
		}
	}
	return nil
}
