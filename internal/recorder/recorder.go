package recorder

import "time"

// DeliveryRecord holds data for one notification sent to the sink.
type DeliveryRecord struct {
	Ticker    string
	EpsDate   string
	Subject   string
	Sentiment string
	SentAt    time.Time
}

// RunSummary records the outcome of one relay run.
type RunSummary struct {
	StartedAt time.Time
	Fetched   int
	NewItems  int
	Delivered int
	Error     string // empty on a clean run
}

// Recorder persists delivery history for analysis.
type Recorder interface {
	RecordDelivery(rec *DeliveryRecord) error
	RecordRun(sum *RunSummary) error
	Close() error
}
