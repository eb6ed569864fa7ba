package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/datacommons-hub/submission-services/models/common"
	"github.com/datacommons-hub/submission-services/submission"
	"github.com/datacommons-hub/submission-services/util"
	"github.com/datacommons-hub/submission-services/util/cli"
)

// submission_janitor is meant to run from cron. The pidfile guard keeps
// a slow sweep from overlapping with the next scheduled run.
func main() {
	cli.Init()
	opts := cli.ParseOpts()
	if opts.PrintHelp {
		printHelp()
		cli.PrintDefaults()
		os.Exit(0)
	}

	pidPath := filepath.Join(os.TempDir(), "submission_janitor.pid")
	if util.IsRunningInOtherProcess(pidPath) {
		fmt.Fprintf(os.Stderr, "Another submission_janitor is already running (pid file %s)\n", pidPath)
		os.Exit(1)
	}
	if err := util.WritePidFile(pidPath); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	defer util.DeletePidFile(pidPath)

	context := common.NewContext()
	service := submission.NewService(context)

	ids, err := context.RedisClient.SubmissionIDs()
	if err != nil {
		context.Logger.Fatalf("Could not list submissions: %v", err)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -context.Config.ArchiveAfterDays)
	archived := service.ArchiveExpired(ids, cutoff)
	context.Logger.Infof("Archived %d of %d submissions (cutoff %s)",
		len(archived), len(ids), cutoff.Format(time.RFC3339))
}

func printHelp() {
	message := `
submission_janitor sweeps the submission store and archives every
Completed submission whose last update is older than the configured
retention window (ARCHIVE_AFTER_DAYS). Archiving is the system-only
Archive action: it appends a history event and moves the submission to
Archived without any acting user.`
	fmt.Println(message)
	fmt.Println(cli.EnvMessage)
}
