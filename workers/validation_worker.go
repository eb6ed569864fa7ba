package workers

import (
	"fmt"

	"github.com/nsqio/go-nsq"

	"github.com/datacommons-hub/submission-services/constants"
	"github.com/datacommons-hub/submission-services/models/common"
	"github.com/datacommons-hub/submission-services/models/service"
	"github.com/datacommons-hub/submission-services/submission"
)

// ValidationTask carries one queued validation request through the
// worker's channels.
type ValidationTask struct {
	Message    *nsq.Message
	Request    *service.QueueMessage
	Result     *service.ValidationResult
	ProcessErr error
}

// ValidationWorker consumes validation requests from NSQ and runs them
// through the orchestrator. NSQ redelivers unacknowledged messages, so
// the worker keeps a ring of recently seen dedup IDs and drops repeats.
type ValidationWorker struct {
	Context        *common.Context
	Orchestrator   *submission.Orchestrator
	Settings       *Settings
	ProcessChannel chan *ValidationTask
	SuccessChannel chan *ValidationTask
	ErrorChannel   chan *ValidationTask
	NSQConsumer    *nsq.Consumer
	recentDedupIDs *service.RingList
}

// NewValidationWorker creates a worker and starts its processing
// goroutines. Call RegisterAsNsqConsumer to begin handling messages.
func NewValidationWorker(context *common.Context, bufSize, numWorkers, maxAttempts int) *ValidationWorker {
	worker := &ValidationWorker{
		Context:      context,
		Orchestrator: submission.NewOrchestrator(context),
		Settings: &Settings{
			ChannelBufferSize: bufSize,
			MaxAttempts:       maxAttempts,
			NSQChannel:        constants.TopicValidationRequest + "_worker_chan",
			NSQTopic:          constants.TopicValidationRequest,
			NumWorkers:        numWorkers,
		},
		ProcessChannel: make(chan *ValidationTask, bufSize),
		SuccessChannel: make(chan *ValidationTask, bufSize),
		ErrorChannel:   make(chan *ValidationTask, bufSize),
		recentDedupIDs: service.NewRingList(bufSize * 10),
	}
	for i := 0; i < numWorkers; i++ {
		go worker.processItems()
	}
	go worker.processSuccessChannel()
	go worker.processErrorChannel()
	return worker
}

// RegisterAsNsqConsumer registers this worker as an NSQ consumer on
// Settings.NSQTopic and Settings.NSQChannel. Note that as soon as you
// call this, your worker will start handling messages if any are
// available.
func (w *ValidationWorker) RegisterAsNsqConsumer() error {
	config := nsq.NewConfig()
	config.Set("heartbeat_interval", "10s")
	config.Set("max_in_flight", w.Settings.ChannelBufferSize)
	config.Set("max_attempts", uint16(w.Settings.MaxAttempts))
	consumer, err := nsq.NewConsumer(w.Settings.NSQTopic, w.Settings.NSQChannel, config)
	if err != nil {
		return err
	}
	w.NSQConsumer = consumer
	w.NSQConsumer.AddHandler(w)
	if err = w.NSQConsumer.ConnectToNSQLookupd(w.Context.Config.NsqLookupd); err != nil {
		return err
	}
	w.Context.Logger.Info("Registered as NSQ consumer")
	return nil
}

// HandleMessage decodes an incoming validation request and pushes it to
// the process channel. Malformed messages are acknowledged and dropped;
// requeueing them can never help.
func (w *ValidationWorker) HandleMessage(message *nsq.Message) error {
	request, err := service.QueueMessageFromJSON(message.Body)
	if err != nil {
		w.Context.Logger.Errorf("Discarding unparsable validation request: %v", err)
		message.Finish()
		return nil
	}
	if request.DedupID != "" && w.recentDedupIDs.Contains(request.DedupID) {
		w.Context.Logger.Infof("Skipping duplicate validation request %s", request.DedupID)
		message.Finish()
		return nil
	}
	if request.DedupID != "" {
		w.recentDedupIDs.Add(request.DedupID)
	}
	message.DisableAutoResponse()
	w.ProcessChannel <- &ValidationTask{
		Message: message,
		Request: request,
	}
	return nil
}

func (w *ValidationWorker) processItems() {
	for task := range w.ProcessChannel {
		task.Result, task.ProcessErr = w.runValidation(task.Request)
		if task.ProcessErr != nil {
			w.ErrorChannel <- task
		} else {
			w.SuccessChannel <- task
		}
	}
}

func (w *ValidationWorker) runValidation(request *service.QueueMessage) (*service.ValidationResult, error) {
	sub, err := w.Orchestrator.Store.SubmissionGet(request.SubmissionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		// Fatal: retrying can never find a submission that does not exist.
		return nil, common.NewError(
			fmt.Sprintf("validation requested for unknown submission %s", request.SubmissionID),
			nil, true)
	}
	types := request.Types
	if len(types) == 0 {
		types = []string{constants.ValidationTypeMetadata}
	}
	scope := request.Scope
	if scope == "" {
		scope = constants.ValidationScopeNew
	}
	return w.Orchestrator.StartValidation(sub, types, scope)
}

func (w *ValidationWorker) processSuccessChannel() {
	for task := range w.SuccessChannel {
		w.Context.Logger.Infof("Validation run for submission %s finished: success=%t %s",
			task.Request.SubmissionID, task.Result.Success, task.Result.Message)
		task.Message.Finish()
	}
}

func (w *ValidationWorker) processErrorChannel() {
	for task := range w.ErrorChannel {
		if detailed, ok := task.ProcessErr.(common.DetailedError); ok {
			w.Context.Logger.Error(detailed.Detail())
			if detailed.Fatal() {
				task.Message.Finish()
				continue
			}
		} else {
			w.Context.Logger.Errorf("Validation run for submission %s failed: %v",
				task.Request.SubmissionID, task.ProcessErr)
		}
		w.recentDedupIDs.Del(task.Request.DedupID)
		if task.Message.Attempts >= uint16(w.Settings.MaxAttempts) {
			w.Context.Logger.Errorf("Giving up on validation request for submission %s after %d attempts",
				task.Request.SubmissionID, task.Message.Attempts)
			task.Message.Finish()
		} else {
			task.Message.Requeue(-1)
		}
	}
}
