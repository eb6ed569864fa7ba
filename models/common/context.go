package common

import (
	ctx "context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/op/go-logging"

	"github.com/datacommons-hub/submission-services/network"
	"github.com/datacommons-hub/submission-services/util/logger"
)

// Context bundles the config, logger, and clients every service and
// worker needs. One Context is built at process start and shared.
type Context struct {
	Config      *Config
	Logger      *logging.Logger
	NSQClient   *network.NSQClient
	RedisClient *network.RedisClient
	S3Client    *minio.Client
	SMTPClient  *network.SMTPClient
}

func NewContext() *Context {
	config := NewConfig()
	_logger := getLogger(config)
	return &Context{
		Config:      config,
		Logger:      _logger,
		NSQClient:   getNsqClient(config),
		RedisClient: getRedisClient(config),
		S3Client:    getS3Client(config),
		SMTPClient:  getSMTPClient(config),
	}
}

func getLogger(config *Config) *logging.Logger {
	log, _ := logger.InitLogger(config.LogDir, config.LogLevel)
	return log
}

func getNsqClient(config *Config) *network.NSQClient {
	return network.NewNSQClient(config.NsqURL)
}

func getRedisClient(config *Config) *network.RedisClient {
	return network.NewRedisClient(
		config.RedisURL,
		config.RedisPassword,
		config.RedisDefaultDB)
}

func getS3Client(config *Config) *minio.Client {
	useSSL := true
	if config.ConfigName == "dev" || config.ConfigName == "test" {
		useSSL = false // talking to localhost in dev and test
	}
	client, err := minio.New(
		config.S3Credentials.Host,
		&minio.Options{
			Creds:  credentials.NewStaticV4(config.S3Credentials.KeyID, config.S3Credentials.SecretKey, ""),
			Secure: useSSL,
		})
	if err != nil {
		panic(fmt.Sprintf("Could not initialize S3 client: %v", err))
	}
	return client
}

func getSMTPClient(config *Config) *network.SMTPClient {
	return network.NewSMTPClient(
		config.SmtpHost,
		config.SmtpPort,
		config.SmtpUser,
		config.SmtpPassword,
		config.SmtpFrom,
		config.SmtpEnabled)
}

// S3StatObject stats a single object in the submission bucket.
func (context *Context) S3StatObject(bucket, key string) (minio.ObjectInfo, error) {
	return context.S3Client.StatObject(ctx.Background(), bucket, key, minio.StatObjectOptions{})
}
