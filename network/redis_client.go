package network

import (
	"fmt"
	"time"

	"github.com/go-redis/redis/v7"

	"github.com/datacommons-hub/submission-services/audit"
	"github.com/datacommons-hub/submission-services/models/service"
)

// RedisClient is the document store for submissions and their working
// state. Each submission lives in one hash keyed by submission ID, with
// the submission document, its validation records, data-validation side
// records and batches stored as JSON fields. Set indexes by study and a
// master ID set support the sibling lookups the release guard and the
// janitor need.
type RedisClient struct {
	client *redis.Client
}

const (
	fieldSubmission = "submission"
	keyAllIDs       = "submissions"
)

func NewRedisClient(address, password string, db int) *RedisClient {
	return &RedisClient{
		client: redis.NewClient(&redis.Options{
			Addr:     address,
			Password: password,
			DB:       db,
		}),
	}
}

func (c *RedisClient) Ping() (string, error) {
	return c.client.Ping().Result()
}

func submissionKey(id string) string {
	return fmt.Sprintf("submission:%s", id)
}

func studyKey(studyID string) string {
	return fmt.Sprintf("study:%s", studyID)
}

func auditKey(submissionID string) string {
	return fmt.Sprintf("audit:%s", submissionID)
}

// SubmissionGet returns the submission document for id, or a nil
// submission with a nil error when no document exists.
func (c *RedisClient) SubmissionGet(id string) (*service.Submission, error) {
	data, err := c.client.HGet(submissionKey(id), fieldSubmission).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("SubmissionGet (%s): %s", id, err.Error())
	}
	return service.SubmissionFromJSON([]byte(data))
}

// SubmissionSave writes the submission document unconditionally and
// maintains the ID and study indexes. Use this for creates; every
// status-changing write goes through SubmissionUpdateConditional.
func (c *RedisClient) SubmissionSave(sub *service.Submission) error {
	jsonData, err := sub.ToJSON()
	if err != nil {
		return err
	}
	pipe := c.client.TxPipeline()
	pipe.HSet(submissionKey(sub.ID), fieldSubmission, jsonData)
	pipe.SAdd(keyAllIDs, sub.ID)
	pipe.SAdd(studyKey(sub.StudyID), sub.ID)
	_, err = pipe.Exec()
	return err
}

// SubmissionUpdateConditional writes the submission document only if the
// stored document's UpdatedAt still equals expectedUpdatedAt, and
// returns the number of documents modified (one or zero). The modified
// count is the application's only concurrency guard: a zero count means
// someone else changed the submission after the caller loaded it.
func (c *RedisClient) SubmissionUpdateConditional(sub *service.Submission, expectedUpdatedAt time.Time) (int, error) {
	modified := 0
	key := submissionKey(sub.ID)
	err := c.client.Watch(func(tx *redis.Tx) error {
		data, err := tx.HGet(key, fieldSubmission).Result()
		if err == redis.Nil {
			return nil
		}
		if err != nil {
			return err
		}
		current, err := service.SubmissionFromJSON([]byte(data))
		if err != nil {
			return err
		}
		if !current.UpdatedAt.Equal(expectedUpdatedAt) {
			return nil
		}
		jsonData, err := sub.ToJSON()
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(func(pipe redis.Pipeliner) error {
			pipe.HSet(key, fieldSubmission, jsonData)
			return nil
		})
		if err == nil {
			modified = 1
		}
		return err
	}, key)
	if err == redis.TxFailedErr {
		// Another writer touched the key mid-transaction. Same meaning
		// as a stale UpdatedAt: nothing was modified.
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("SubmissionUpdateConditional (%s): %s", sub.ID, err.Error())
	}
	return modified, nil
}

// SubmissionIDs returns the IDs of all stored submissions.
func (c *RedisClient) SubmissionIDs() ([]string, error) {
	return c.client.SMembers(keyAllIDs).Result()
}

// SubmissionsForStudy returns every submission belonging to studyID.
// This serves the release guard's sibling lookup.
func (c *RedisClient) SubmissionsForStudy(studyID string) ([]*service.Submission, error) {
	ids, err := c.client.SMembers(studyKey(studyID)).Result()
	if err != nil {
		return nil, fmt.Errorf("SubmissionsForStudy (%s): %s", studyID, err.Error())
	}
	subs := make([]*service.Submission, 0, len(ids))
	for _, id := range ids {
		sub, err := c.SubmissionGet(id)
		if err != nil {
			return nil, err
		}
		if sub != nil {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

// ValidationRecordSave writes a validation record into its submission's
// hash. Saving an existing record overwrites it, which is how records
// are closed.
func (c *RedisClient) ValidationRecordSave(rec *service.ValidationRecord) error {
	jsonData, err := rec.ToJSON()
	if err != nil {
		return err
	}
	field := fmt.Sprintf("validation:%s", rec.ID)
	_, err = c.client.HSet(submissionKey(rec.SubmissionID), field, jsonData).Result()
	return err
}

// ValidationRecordGet returns one validation record by submission and
// run ID.
func (c *RedisClient) ValidationRecordGet(submissionID, runID string) (*service.ValidationRecord, error) {
	field := fmt.Sprintf("validation:%s", runID)
	data, err := c.client.HGet(submissionKey(submissionID), field).Result()
	if err != nil {
		return nil, fmt.Errorf("ValidationRecordGet (%s, %s): %s",
			submissionID, runID, err.Error())
	}
	return service.ValidationRecordFromJSON([]byte(data))
}

// DataValidationSave writes the per-run, per-type side record.
func (c *RedisClient) DataValidationSave(dv *service.DataValidation) error {
	jsonData, err := dv.ToJSON()
	if err != nil {
		return err
	}
	field := fmt.Sprintf("datavalidation:%s:%d", dv.Type, dv.ValidationStarted.UnixNano())
	_, err = c.client.HSet(submissionKey(dv.SubmissionID), field, jsonData).Result()
	return err
}

// BatchSave writes a batch into its submission's hash.
func (c *RedisClient) BatchSave(batch *service.Batch) error {
	jsonData, err := batch.ToJSON()
	if err != nil {
		return err
	}
	field := fmt.Sprintf("batch:%s", batch.ID)
	_, err = c.client.HSet(submissionKey(batch.SubmissionID), field, jsonData).Result()
	return err
}

// BatchGet returns one batch by submission and batch ID.
func (c *RedisClient) BatchGet(submissionID, batchID string) (*service.Batch, error) {
	field := fmt.Sprintf("batch:%s", batchID)
	data, err := c.client.HGet(submissionKey(submissionID), field).Result()
	if err != nil {
		return nil, fmt.Errorf("BatchGet (%s, %s): %s",
			submissionID, batchID, err.Error())
	}
	return service.BatchFromJSON([]byte(data))
}

// AuditInsert appends an audit record to the submission's trail. The
// trail is append-only; nothing reads it back in this codebase.
func (c *RedisClient) AuditInsert(record *audit.Record) error {
	jsonData, err := record.ToJSON()
	if err != nil {
		return err
	}
	_, err = c.client.RPush(auditKey(record.SubmissionID), jsonData).Result()
	return err
}
