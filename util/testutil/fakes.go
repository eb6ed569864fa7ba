package testutil

import (
	"fmt"
	"io"
	"time"

	"github.com/op/go-logging"

	"github.com/datacommons-hub/submission-services/audit"
	"github.com/datacommons-hub/submission-services/models/service"
)

// In-memory fakes for the submission package's external collaborators.
// FakeStore satisfies submission.Store and submission.AuditTrail,
// FakeValidator satisfies submission.Validator, and so on. They record
// every call so tests can assert on what the core actually did.

// GetLogger returns a logger that discards everything.
func GetLogger() *logging.Logger {
	log := logging.MustGetLogger("testutil")
	logging.SetBackend(logging.NewLogBackend(io.Discard, "", 0))
	return log
}

// FakeStore keeps submissions in memory. Gets return deep copies, the
// way a real document store would, so a caller's mutations are not
// visible until a write commits. Conditional updates compare UpdatedAt
// exactly like the Redis client.
type FakeStore struct {
	Submissions       map[string]*service.Submission
	ValidationRecords []*service.ValidationRecord
	DataValidations   []*service.DataValidation
	Batches           []*service.Batch
	AuditRecords      []*audit.Record

	// Failure knobs. ForceUpdateConflicts makes the next N conditional
	// updates report zero modified documents.
	GetErr               error
	SaveErr              error
	UpdateErr            error
	ValidationRecordErr  error
	DataValidationErr    error
	BatchErr             error
	AuditErr             error
	ForceUpdateConflicts int

	UpdateCalls int
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		Submissions: make(map[string]*service.Submission),
	}
}

func copySubmission(sub *service.Submission) *service.Submission {
	data, _ := sub.ToJSON()
	clone, _ := service.SubmissionFromJSON(data)
	return clone
}

func (s *FakeStore) SubmissionGet(id string) (*service.Submission, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	sub, ok := s.Submissions[id]
	if !ok {
		return nil, nil
	}
	return copySubmission(sub), nil
}

func (s *FakeStore) SubmissionSave(sub *service.Submission) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Submissions[sub.ID] = copySubmission(sub)
	return nil
}

func (s *FakeStore) SubmissionUpdateConditional(sub *service.Submission, expectedUpdatedAt time.Time) (int, error) {
	s.UpdateCalls++
	if s.UpdateErr != nil {
		return 0, s.UpdateErr
	}
	if s.ForceUpdateConflicts > 0 {
		s.ForceUpdateConflicts--
		return 0, nil
	}
	stored, ok := s.Submissions[sub.ID]
	if !ok {
		return 0, nil
	}
	if !stored.UpdatedAt.Equal(expectedUpdatedAt) {
		return 0, nil
	}
	s.Submissions[sub.ID] = copySubmission(sub)
	return 1, nil
}

func (s *FakeStore) SubmissionsForStudy(studyID string) ([]*service.Submission, error) {
	subs := make([]*service.Submission, 0)
	for _, sub := range s.Submissions {
		if sub.StudyID == studyID {
			subs = append(subs, copySubmission(sub))
		}
	}
	return subs, nil
}

func (s *FakeStore) ValidationRecordSave(rec *service.ValidationRecord) error {
	if s.ValidationRecordErr != nil {
		return s.ValidationRecordErr
	}
	for i, existing := range s.ValidationRecords {
		if existing.ID == rec.ID {
			s.ValidationRecords[i] = rec
			return nil
		}
	}
	s.ValidationRecords = append(s.ValidationRecords, rec)
	return nil
}

func (s *FakeStore) DataValidationSave(dv *service.DataValidation) error {
	if s.DataValidationErr != nil {
		return s.DataValidationErr
	}
	s.DataValidations = append(s.DataValidations, dv)
	return nil
}

func (s *FakeStore) BatchSave(batch *service.Batch) error {
	if s.BatchErr != nil {
		return s.BatchErr
	}
	s.Batches = append(s.Batches, batch)
	return nil
}

func (s *FakeStore) AuditInsert(record *audit.Record) error {
	if s.AuditErr != nil {
		return s.AuditErr
	}
	s.AuditRecords = append(s.AuditRecords, record)
	return nil
}

// Stored returns the store's current copy of the submission, bypassing
// the deep copy so tests can inspect persisted state directly.
func (s *FakeStore) Stored(id string) *service.Submission {
	return s.Submissions[id]
}

// FakeValidator plays the external validation service. It answers every
// call with Result (or Err) and records what it was asked.
type FakeValidator struct {
	Result *service.ValidationResult
	Err    error

	Calls []ValidatorCall
}

type ValidatorCall struct {
	SubmissionID string
	Types        []string
	Scope        string
	RunID        string
}

func (v *FakeValidator) ValidateMetadata(submissionID string, types []string, scope, runID string) (*service.ValidationResult, error) {
	v.Calls = append(v.Calls, ValidatorCall{
		SubmissionID: submissionID,
		Types:        types,
		Scope:        scope,
		RunID:        runID,
	})
	if v.Err != nil {
		return nil, v.Err
	}
	if v.Result == nil {
		return &service.ValidationResult{Success: true}, nil
	}
	return v.Result, nil
}

// FakeQueue records published messages by topic.
type FakeQueue struct {
	Err      error
	Messages map[string][]*service.QueueMessage
}

func NewFakeQueue() *FakeQueue {
	return &FakeQueue{
		Messages: make(map[string][]*service.QueueMessage),
	}
}

func (q *FakeQueue) Enqueue(topic string, msg *service.QueueMessage) error {
	if q.Err != nil {
		return q.Err
	}
	q.Messages[topic] = append(q.Messages[topic], msg)
	return nil
}

// FakeNotifier records notification calls.
type FakeNotifier struct {
	Err   error
	Calls []NotifierCall
}

type NotifierCall struct {
	Action       string
	SubmissionID string
	Comment      string
}

func (n *FakeNotifier) NotifyAction(action string, sub *service.Submission, user *service.User, comment string) error {
	n.Calls = append(n.Calls, NotifierCall{
		Action:       action,
		SubmissionID: sub.ID,
		Comment:      comment,
	})
	return n.Err
}

// FakeArchiver records archive calls and answers size lookups with a
// fixed value.
type FakeArchiver struct {
	Size       int64
	SizeErr    error
	ArchiveErr error
	Archived   []string
}

func (a *FakeArchiver) SubmissionSize(submissionID string) (int64, error) {
	if a.SizeErr != nil {
		return 0, a.SizeErr
	}
	return a.Size, nil
}

func (a *FakeArchiver) ArchiveSubmission(submissionID string) error {
	if a.ArchiveErr != nil {
		return fmt.Errorf("archive %s: %w", submissionID, a.ArchiveErr)
	}
	a.Archived = append(a.Archived, submissionID)
	return nil
}
