package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/datacommons-hub/submission-services/models/common"
	"github.com/datacommons-hub/submission-services/util"
	"github.com/datacommons-hub/submission-services/util/cli"
	"github.com/datacommons-hub/submission-services/workers"
)

func main() {
	cli.Init()
	opts := cli.ParseOpts()
	if opts.PrintHelp {
		printHelp()
		cli.PrintDefaults()
		os.Exit(0)
	}

	pidPath := filepath.Join(os.TempDir(), "validation_worker.pid")
	if util.IsRunningInOtherProcess(pidPath) {
		fmt.Fprintf(os.Stderr, "Another validation_worker is already running (pid file %s)\n", pidPath)
		os.Exit(1)
	}
	if err := util.WritePidFile(pidPath); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	defer util.DeletePidFile(pidPath)

	context := common.NewContext()
	worker := workers.NewValidationWorker(
		context,
		opts.ChannelBufferSize,
		opts.NumWorkers,
		opts.MaxAttempts,
	)
	if err := worker.RegisterAsNsqConsumer(); err != nil {
		context.Logger.Fatalf("Could not register as NSQ consumer: %v", err)
	}

	// This channel blocks until we get an interrupt,
	// so our program does not exit without Control-C
	// or other kill signal.
	<-worker.NSQConsumer.StopChan
}

func printHelp() {
	message := `
validation_worker consumes validation requests from the submission
validation topic and runs them against the external validation service.
Each request names a submission, the validation types to run (metadata,
file, cross-submission) and a scope. The worker marks the requested
status fields Validating, calls the validation service, and resolves
the outcome so that no field is ever left at Validating, whatever the
service reports.`
	fmt.Println(message)
	fmt.Println(cli.EnvMessage)
}
