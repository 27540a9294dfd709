// Package orchestration provisions every resolved player of a run, one
// after another. Media patterns for all players are expanded before the
// first remote call, and one player's failure never stops the next.
package orchestration

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/piplayer/pkg/config"
	"github.com/arthur-debert/piplayer/pkg/logging"
	"github.com/arthur-debert/piplayer/pkg/media"
	"github.com/arthur-debert/piplayer/pkg/provision"
	"github.com/arthur-debert/piplayer/pkg/transport"
)

// Result is the outcome of provisioning one player.
type Result struct {
	Host     string
	Address  string
	Videos   int
	Duration time.Duration
	Err      error
}

// OK reports whether the player was fully provisioned.
func (r Result) OK() bool {
	return r.Err == nil
}

// Report collects the results of one run in target order.
type Report struct {
	RunID   string
	Results []Result
}

// Failed returns the results of players that were not fully provisioned.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

// OK reports whether every player was provisioned.
func (r *Report) OK() bool {
	return len(r.Failed()) == 0
}

// Orchestrator drives one provisioning pipeline per target.
type Orchestrator struct {
	transport transport.Transport
	resolver  *media.Resolver
	progress  func(Result)
	runID     string
	logger    zerolog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithResolver sets the resolver used to expand video patterns.
func WithResolver(r *media.Resolver) Option {
	return func(o *Orchestrator) { o.resolver = r }
}

// WithProgress registers fn to be called as each target completes.
func WithProgress(fn func(Result)) Option {
	return func(o *Orchestrator) { o.progress = fn }
}

// WithRunID overrides the generated run id. Generated ids are UUIDv7, so
// they sort by start time in the log file.
func WithRunID(id string) Option {
	return func(o *Orchestrator) { o.runID = id }
}

// New creates an orchestrator sending commands and media through tr.
func New(tr transport.Transport, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		transport: tr,
		runID:     uuid.Must(uuid.NewV7()).String(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.resolver == nil {
		o.resolver = media.NewResolver(nil)
	}
	o.logger = logging.GetLogger("orchestration").With().Str("run_id", o.runID).Logger()
	return o
}

// RunID identifies this orchestrator's run in logs and reports.
func (o *Orchestrator) RunID() string {
	return o.runID
}

// Prepare expands the video patterns of every target into concrete files.
// Any error aborts the whole run before a single host is contacted.
func (o *Orchestrator) Prepare(targets []config.Target) ([]config.Target, error) {
	prepared := make([]config.Target, 0, len(targets))
	for _, t := range targets {
		files, err := o.resolver.Resolve(t.Videos)
		if err != nil {
			return nil, err
		}
		prepared = append(prepared, t.WithVideos(files))
	}
	return prepared, nil
}

// Run prepares targets and provisions them in order. The returned error
// covers preparation only; per-target failures are in the report.
func (o *Orchestrator) Run(ctx context.Context, targets []config.Target) (*Report, error) {
	prepared, err := o.Prepare(targets)
	if err != nil {
		return nil, err
	}

	o.logger.Info().Int("targets", len(prepared)).Msg("Starting provisioning run")

	report := &Report{RunID: o.runID, Results: make([]Result, 0, len(prepared))}
	for _, target := range prepared {
		res := o.provision(ctx, target)
		report.Results = append(report.Results, res)
		if o.progress != nil {
			o.progress(res)
		}
	}

	o.logger.Info().
		Int("targets", len(report.Results)).
		Int("failed", len(report.Failed())).
		Msg("Provisioning run finished")

	return report, nil
}

func (o *Orchestrator) provision(ctx context.Context, target config.Target) Result {
	logger := o.logger.With().Str("host", target.Host).Logger()
	start := time.Now()
	res := Result{
		Host:    target.Host,
		Address: provision.EndpointFor(target).String(),
		Videos:  len(target.Videos),
	}

	p, err := provision.New(target, o.transport, o.transport)
	if err == nil {
		err = p.Run(logger.WithContext(ctx))
	}

	res.Duration = time.Since(start)
	res.Err = err
	if err != nil {
		logger.Error().Err(err).Dur("duration", res.Duration).Msg("Provisioning failed")
	}
	return res
}
