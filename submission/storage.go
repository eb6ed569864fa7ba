package submission

import (
	ctx "context"
	"fmt"

	"github.com/minio/minio-go/v7"

	"github.com/datacommons-hub/submission-services/models/common"
)

// S3Archiver owns a submission's slice of the submission bucket. Objects
// live under "<submissionID>/"; archiving a canceled submission moves
// them under the archive prefix so the working prefix can be reclaimed
// without losing the uploads.
type S3Archiver struct {
	Client        *minio.Client
	Bucket        string
	ArchivePrefix string
}

func NewS3Archiver(context *common.Context) *S3Archiver {
	return &S3Archiver{
		Client:        context.S3Client,
		Bucket:        context.Config.SubmissionBucket,
		ArchivePrefix: context.Config.ArchivePrefix,
	}
}

// SubmissionSize returns the total size of all objects stored for the
// submission. This feeds the submission's derived DataFileSize field.
func (a *S3Archiver) SubmissionSize(submissionID string) (int64, error) {
	var total int64
	objects := a.Client.ListObjects(ctx.Background(), a.Bucket, minio.ListObjectsOptions{
		Prefix:    submissionID + "/",
		Recursive: true,
	})
	for object := range objects {
		if object.Err != nil {
			return 0, object.Err
		}
		total += object.Size
	}
	return total, nil
}

// ArchiveSubmission moves every object under the submission's prefix to
// the archive prefix. Callers treat failures as best-effort: the cancel
// action has already committed by the time this runs.
func (a *S3Archiver) ArchiveSubmission(submissionID string) error {
	background := ctx.Background()
	objects := a.Client.ListObjects(background, a.Bucket, minio.ListObjectsOptions{
		Prefix:    submissionID + "/",
		Recursive: true,
	})
	for object := range objects {
		if object.Err != nil {
			return object.Err
		}
		dst := minio.CopyDestOptions{
			Bucket: a.Bucket,
			Object: fmt.Sprintf("%s/%s", a.ArchivePrefix, object.Key),
		}
		src := minio.CopySrcOptions{
			Bucket: a.Bucket,
			Object: object.Key,
		}
		if _, err := a.Client.CopyObject(background, dst, src); err != nil {
			return fmt.Errorf("could not copy %s to archive: %v", object.Key, err)
		}
		if err := a.Client.RemoveObject(background, a.Bucket, object.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("could not remove %s after archiving: %v", object.Key, err)
		}
	}
	return nil
}
