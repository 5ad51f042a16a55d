package sink

import (
	"context"
	"errors"
	"io"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
	applog "sanartes/internal/log"
	"sanartes/internal/metrics"
)

// Result is the outcome of publishing one envelope to one sink.
type Result struct {
	Sink     string
	Err      error
	Duration time.Duration
}

// OK reports whether the sink accepted the envelope.
func (r Result) OK() bool { return r.Err == nil }

// Publisher delivers envelopes to a fixed set of sinks.
type Publisher struct {
	sinks   []Sink
	limit   int
	timeout time.Duration
	logger  *applog.Logger
	metrics *metrics.Metrics
}

// PublisherConfig tunes fan-out. Zero values mean one sink at a time and
// no per-sink timeout.
type PublisherConfig struct {
	Concurrency int
	Timeout     time.Duration
	Logger      *applog.Logger
	Metrics     *metrics.Metrics
}

func NewPublisher(cfg PublisherConfig, sinks ...Sink) *Publisher {
	logger := cfg.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	limit := cfg.Concurrency
	if limit < 1 {
		limit = 1
	}
	return &Publisher{
		sinks:   append([]Sink(nil), sinks...),
		limit:   limit,
		timeout: cfg.Timeout,
		logger:  logger.WithComponent(applog.ComponentSink),
		metrics: cfg.Metrics,
	}
}

// Len returns the number of configured sinks.
func (p *Publisher) Len() int {
	if p == nil {
		return 0
	}
	return len(p.sinks)
}

// PublishAll sends env to every sink and returns one Result per sink in
// configuration order. Sinks run stage by stage; a failing sink never
// cancels the others or the later stages.
func (p *Publisher) PublishAll(ctx context.Context, env Envelope) []Result {
	if p.Len() == 0 {
		return nil
	}

	results := make([]Result, len(p.sinks))
	for _, stage := range p.stages() {
		var g errgroup.Group
		g.SetLimit(p.limit)
		for i, s := range p.sinks {
			if stageOf(s) != stage {
				continue
			}
			g.Go(func() error {
				results[i] = p.publishOne(ctx, s, env.clone())
				return nil
			})
		}
		_ = g.Wait()
	}

	return results
}

// stages returns the distinct sink stages in ascending order.
func (p *Publisher) stages() []int {
	var out []int
	for _, s := range p.sinks {
		stage := stageOf(s)
		if !slices.Contains(out, stage) {
			out = append(out, stage)
		}
	}
	slices.Sort(out)
	return out
}

func (p *Publisher) publishOne(ctx context.Context, s Sink, env Envelope) Result {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	err := s.Publish(ctx, env)
	elapsed := time.Since(start)
	p.metrics.ObserveExport(s.Name(), err == nil, elapsed)

	fields := applog.NewFields().
		WithOperation(applog.OpPublish).
		WithSink(s.Name(), env.ID, err == nil).
		WithError(err)
	fields[applog.FieldDuration] = elapsed.Milliseconds()

	if err != nil {
		p.logger.WarnContext(ctx, "Report sink failed", fields.ToSlice()...)
	} else {
		p.logger.InfoContext(ctx, "Report published", fields.ToSlice()...)
	}

	return Result{Sink: s.Name(), Err: err, Duration: elapsed}
}

// Close closes every sink that holds resources and joins their errors.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	var errs []error
	for _, s := range p.sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
