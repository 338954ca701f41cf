package runner

import (
	"context"
	"log"
	"time"

	"github.com/pworker3/whispers/internal/model"
	"github.com/pworker3/whispers/internal/notifier"
	"github.com/pworker3/whispers/internal/recorder"
	"github.com/pworker3/whispers/internal/state"
)

// Fetcher retrieves the current report list from the upstream feed.
type Fetcher interface {
	FetchReports() ([]model.ReportRecord, error)
}

// Runner drives one relay pass: load state, fetch, diff, deliver, persist.
type Runner struct {
	Store    *state.Store
	Fetcher  Fetcher
	Pacer    *notifier.Pacer
	Recorder recorder.Recorder
}

// NewRunner creates a Runner.
func NewRunner(store *state.Store, fetcher Fetcher, pacer *notifier.Pacer, rec recorder.Recorder) *Runner {
	return &Runner{
		Store:    store,
		Fetcher:  fetcher,
		Pacer:    pacer,
		Recorder: rec,
	}
}

// Run executes one pass. Fetch and delivery failures are contained here: they
// abort the rest of the pass but the state accumulated so far is always
// persisted, so a rerun never resends what already went out. The returned
// error reports what was contained; the caller only logs it.
func (r *Runner) Run(ctx context.Context) error {
	sum := recorder.RunSummary{StartedAt: time.Now()}
	notified := r.Store.Load()
	log.Printf("[INFO] loaded %d previously notified reports", len(notified))

	var runErr error
	reports, err := r.Fetcher.FetchReports()
	if err != nil {
		runErr = err
	} else {
		sum.Fetched = len(reports)
		newItems := diffByKey(notified, reports)
		sum.NewItems = len(newItems)
		log.Printf("[INFO] fetched %d reports, %d new", len(reports), len(newItems))

		notifications := make([]model.Notification, len(newItems))
		for i := range newItems {
			notifications[i] = notifier.Format(&newItems[i])
		}

		runErr = r.Pacer.SendAll(ctx, notifications, func(i int) {
			notified = append(notified, newItems[i])
			sum.Delivered++
			log.Printf("[INFO] notified %s (%s): %s",
				newItems[i].Ticker, newItems[i].EpsDate, newItems[i].Subject)
			r.recordDelivery(&newItems[i], notifications[i].Sentiment)
		})
	}

	if runErr != nil {
		log.Printf("[ERROR] run aborted: %v", runErr)
	}

	// State is saved on every path so delivered items survive any failure.
	if err := r.Store.Save(notified); err != nil {
		log.Printf("[ERROR] save state: %v", err)
		if runErr == nil {
			runErr = err
		}
	}
	if runErr != nil {
		sum.Error = runErr.Error()
	}
	if err := r.Recorder.RecordRun(&sum); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}

	log.Printf("[INFO] run complete: %d delivered, %d total notified", sum.Delivered, len(notified))
	return runErr
}

func (r *Runner) recordDelivery(rec *model.ReportRecord, sentiment model.Sentiment) {
	err := r.Recorder.RecordDelivery(&recorder.DeliveryRecord{
		Ticker:    rec.Ticker,
		EpsDate:   rec.EpsDate,
		Subject:   rec.Subject,
		Sentiment: sentiment.String(),
		SentAt:    time.Now(),
	})
	if err != nil {
		log.Printf("[ERROR] record delivery %s: %v", rec.Ticker, err)
	}
}

// diffByKey returns the reports whose composite key is not yet in the notified
// history, preserving feed order. Only the key is compared; a record whose
// other fields drifted between fetches still counts as already notified.
func diffByKey(notified, reports []model.ReportRecord) []model.ReportRecord {
	seen := make(map[model.ReportKey]struct{}, len(notified))
	for i := range notified {
		seen[notified[i].Key()] = struct{}{}
	}
	var fresh []model.ReportRecord
	for i := range reports {
		if _, ok := seen[reports[i].Key()]; ok {
			continue
		}
		fresh = append(fresh, reports[i])
	}
	return fresh
}
