package workers

// Settings controls how a worker connects to NSQ and how much work it
// takes on at once.
type Settings struct {
	// ChannelBufferSize is the size of the worker's process channel and
	// the NSQ max-in-flight setting.
	ChannelBufferSize int

	// MaxAttempts is the number of times a message may be handled
	// before the worker stops requeueing it.
	MaxAttempts int

	// NSQChannel is the NSQ channel this worker consumes on.
	NSQChannel string

	// NSQTopic is the NSQ topic this worker consumes.
	NSQTopic string

	// NumWorkers is the number of goroutines processing tasks.
	NumWorkers int
}
