package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/op/go-logging"
	"github.com/spf13/viper"
)

type Config struct {
	ArchivePrefix        string
	ConfigName           string
	LogDir               string
	LogLevel             logging.Level
	NsqLookupd           string
	NsqURL               string
	RedisDefaultDB       int
	RedisPassword        string
	RedisURL             string
	S3Credentials        S3Credentials
	SmtpEnabled          bool
	SmtpFrom             string
	SmtpHost             string
	SmtpPassword         string
	SmtpPort             int
	SmtpUser             string
	SubmissionBucket     string
	ArchiveAfterDays     int
	ValidationServiceURL string
}

type S3Credentials struct {
	Host      string
	KeyID     string
	SecretKey string
}

var logLevels = map[string]logging.Level{
	"CRITICAL": logging.CRITICAL,
	"ERROR":    logging.ERROR,
	"WARNING":  logging.WARNING,
	"NOTICE":   logging.NOTICE,
	"INFO":     logging.INFO,
	"DEBUG":    logging.DEBUG,
}

// Returns a new config based on ENV var SUBS_SERVICES_CONFIG
func NewConfig() *Config {
	config := loadConfig()
	config.sanityCheck()
	return config
}

func loadConfig() *Config {
	configDir, envName := getEnvVars()
	v := viper.New()
	v.AddConfigPath(configDir)
	v.SetConfigName(".env." + envName)
	v.SetConfigType("env")
	err := v.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("Fatal error config file: %s \n", err))
	}
	return &Config{
		ArchivePrefix:        v.GetString("ARCHIVE_PREFIX"),
		ConfigName:           envName,
		LogDir:               v.GetString("LOG_DIR"),
		LogLevel:             logLevels[v.GetString("LOG_LEVEL")],
		NsqLookupd:           v.GetString("NSQ_LOOKUPD"),
		NsqURL:               v.GetString("NSQ_URL"),
		RedisDefaultDB:       v.GetInt("REDIS_DEFAULT_DB"),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
		RedisURL:             v.GetString("REDIS_URL"),
		S3Credentials: S3Credentials{
			Host:      v.GetString("S3_HOST"),
			KeyID:     v.GetString("S3_KEY"),
			SecretKey: v.GetString("S3_SECRET"),
		},
		SmtpEnabled:          v.GetBool("SMTP_ENABLED"),
		SmtpFrom:             v.GetString("SMTP_FROM"),
		SmtpHost:             v.GetString("SMTP_HOST"),
		SmtpPassword:         v.GetString("SMTP_PASSWORD"),
		SmtpPort:             v.GetInt("SMTP_PORT"),
		SmtpUser:             v.GetString("SMTP_USER"),
		SubmissionBucket:     v.GetString("SUBMISSION_BUCKET"),
		ArchiveAfterDays:     v.GetInt("ARCHIVE_AFTER_DAYS"),
		ValidationServiceURL: v.GetString("VALIDATION_SERVICE_URL"),
	}
}

func getEnvVars() (string, string) {
	configDir := getRequiredEnvVar("SUBS_CONFIG_DIR")
	envName := getRequiredEnvVar("SUBS_SERVICES_CONFIG")
	return configDir, envName
}

func getRequiredEnvVar(varName string) string {
	value := os.Getenv(varName)
	if value == "" {
		panic(fmt.Sprintf("Required env var %s not set", varName))
	}
	return value
}

func (c *Config) sanityCheck() {
	// Dev and test configs must not point at external services, so a
	// local run can never touch demo or prod data.
	if c.ConfigName == "dev" || c.ConfigName == "test" {
		if !isLocalHost(c.RedisURL) {
			panic(fmt.Sprintf("Dev/Test redis url cannot point to external host %s", c.RedisURL))
		}
		if !isLocalHost(c.NsqURL) {
			panic(fmt.Sprintf("Dev/Test nsq url cannot point to external host %s", c.NsqURL))
		}
		if !isLocalHost(c.S3Credentials.Host) {
			panic(fmt.Sprintf("Dev/Test s3 host cannot point to external host %s", c.S3Credentials.Host))
		}
	}
}

func isLocalHost(host string) bool {
	return host == "" ||
		strings.Contains(host, "localhost") ||
		strings.Contains(host, "127.0.0.1")
}
