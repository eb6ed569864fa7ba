package submission

import (
	"fmt"

	"github.com/op/go-logging"

	"github.com/datacommons-hub/submission-services/constants"
	"github.com/datacommons-hub/submission-services/models/service"
	"github.com/datacommons-hub/submission-services/network"
)

// EmailNotifier sends the action-specific email to the submission's
// owner after a status change commits. Actions without a subject line
// send nothing.
type EmailNotifier struct {
	Client *network.SMTPClient
	Logger *logging.Logger
}

func NewEmailNotifier(client *network.SMTPClient, logger *logging.Logger) *EmailNotifier {
	return &EmailNotifier{
		Client: client,
		Logger: logger,
	}
}

var notificationSubjects = map[string]string{
	constants.ActionSubmit:          "Your submission has been received",
	constants.ActionRelease:         "Your submission has been released",
	constants.ActionWithdraw:        "Your submission has been withdrawn",
	constants.ActionRejectSubmitted: "Your submission has been rejected",
	constants.ActionRejectReleased:  "Your submission has been rejected",
	constants.ActionComplete:        "Your submission is complete",
	constants.ActionCancel:          "Your submission has been canceled",
}

// NotifyAction emails the submitter about the completed action. A
// submission without a submitter email address is skipped quietly;
// older records predate the field.
func (n *EmailNotifier) NotifyAction(action string, sub *service.Submission, user *service.User, comment string) error {
	subject, ok := notificationSubjects[action]
	if !ok {
		return nil
	}
	if sub.SubmitterEmail == "" {
		n.Logger.Infof("No submitter email on submission %s, skipping %s notification",
			sub.ID, action)
		return nil
	}
	body := fmt.Sprintf(
		"Submission %s (study %s, %s) is now %s.",
		sub.ID, sub.StudyID, sub.DataCommons, sub.Status)
	if comment != "" {
		body = fmt.Sprintf("%s\n\nReviewer comment: %s", body, comment)
	}
	return n.Client.Send([]string{sub.SubmitterEmail}, subject, body)
}
