package qualify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/impyreal/realty-ai-platform/internal/leads"
	"github.com/impyreal/realty-ai-platform/internal/observability/metrics"
	"github.com/impyreal/realty-ai-platform/pkg/logging"
)

// HotLeadNotifier alerts the sales team when a run classifies a lead hot.
type HotLeadNotifier interface {
	NotifyHotLead(ctx context.Context, lead *leads.Lead) error
}

// Publisher pushes qualification events to live subscribers.
type Publisher interface {
	Publish(event string, payload any)
}

// Dispatcher runs qualification as a detached task after lead creation. The
// caller's Create has already completed when Dispatch is invoked, so the
// create-before-qualify ordering holds by construction. Every failure on the
// detached path goes to the error sink (log + counter) and nowhere else.
type Dispatcher struct {
	qualifier Qualifier
	repo      leads.Repository
	queue     queueClient
	notifier  HotLeadNotifier
	events    Publisher
	metrics   *metrics.LeadMetrics
	logger    *logging.Logger
	timeout   time.Duration

	wg sync.WaitGroup
}

// DispatcherConfig wires the dispatcher's collaborators. Queue, Notifier,
// Events and Metrics are optional.
type DispatcherConfig struct {
	Qualifier Qualifier
	Repo      leads.Repository
	Queue     queueClient
	Notifier  HotLeadNotifier
	Events    Publisher
	Metrics   *metrics.LeadMetrics
	Logger    *logging.Logger
	Timeout   time.Duration
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	if cfg.Qualifier == nil {
		panic("qualify: qualifier required")
	}
	if cfg.Repo == nil {
		panic("qualify: leads repository required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Dispatcher{
		qualifier: cfg.Qualifier,
		repo:      cfg.Repo,
		queue:     cfg.Queue,
		notifier:  cfg.Notifier,
		events:    cfg.Events,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		timeout:   cfg.Timeout,
	}
}

// Dispatch schedules qualification for a freshly created lead and returns
// immediately. In queue mode the job goes to the queue for a worker; in
// inline mode it runs on a goroutine. Either way failures are swallowed into
// the error sink, never surfaced to the submitter.
func (d *Dispatcher) Dispatch(lead *leads.Lead) {
	if lead == nil {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		var err error
		if d.queue != nil {
			err = d.enqueue(ctx, lead.ID)
		} else {
			err = d.Process(ctx, lead)
		}
		if err != nil {
			d.sink(err, lead.ID)
		}
	}()
}

// Process runs one qualification for the given lead and writes the result
// back. Used inline by Dispatch and by the queue worker.
func (d *Dispatcher) Process(ctx context.Context, lead *leads.Lead) error {
	start := time.Now()
	result, err := d.qualifier.Qualify(ctx, lead)
	d.metrics.ObserveQualifyLatency(d.qualifier.Name(), time.Since(start).Seconds())
	if err != nil {
		d.metrics.ObserveQualification("", "error")
		return fmt.Errorf("qualify: %s qualifier: %w", d.qualifier.Name(), err)
	}
	if !result.IntentLevel.Valid() {
		d.metrics.ObserveQualification(string(result.IntentLevel), "invalid")
		return fmt.Errorf("qualify: %s qualifier returned unknown intent %q", d.qualifier.Name(), result.IntentLevel)
	}

	if err := d.repo.SetQualification(ctx, lead.ID, result.IntentLevel, result.Notes); err != nil {
		d.metrics.ObserveQualification(string(result.IntentLevel), "write_failed")
		return fmt.Errorf("qualify: persist result: %w", err)
	}
	d.metrics.ObserveQualification(string(result.IntentLevel), "ok")
	d.logger.Info("lead qualified",
		"lead_id", lead.ID,
		"intent", result.IntentLevel,
		"provider", d.qualifier.Name(),
	)

	qualified := *lead
	qualified.AIIntentLevel = result.IntentLevel
	qualified.AINotes = result.Notes
	if d.events != nil {
		d.events.Publish("lead.qualified", &qualified)
	}
	if d.notifier != nil && result.IntentLevel == leads.IntentHot {
		if err := d.notifier.NotifyHotLead(ctx, &qualified); err != nil {
			// Notification is best-effort on top of a successful run.
			d.sink(fmt.Errorf("qualify: hot-lead notify: %w", err), lead.ID)
		}
	}
	return nil
}

// ProcessID loads a lead and runs qualification; the queue worker's entry
// point.
func (d *Dispatcher) ProcessID(ctx context.Context, leadID string) error {
	lead, err := d.repo.GetByID(ctx, leadID)
	if err != nil {
		return fmt.Errorf("qualify: load lead %s: %w", leadID, err)
	}
	return d.Process(ctx, lead)
}

// Wait blocks until all dispatched tasks have finished. Tests use it to
// assert on eventually-consistent state.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) enqueue(ctx context.Context, leadID string) error {
	body, err := json.Marshal(job{LeadID: leadID})
	if err != nil {
		return fmt.Errorf("qualify: encode job: %w", err)
	}
	if err := d.queue.Send(ctx, string(body)); err != nil {
		return fmt.Errorf("qualify: enqueue job: %w", err)
	}
	return nil
}

func (d *Dispatcher) sink(err error, leadID string) {
	d.logger.Error("qualification fault discarded", "error", err, "lead_id", leadID)
	d.metrics.ObserveSwallowedFault("qualify")
}
