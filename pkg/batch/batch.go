// Package batch queues shell fragments for one player and sends them as a
// single remote script, so a provisioning run pays for one connection
// instead of one per command.
package batch

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/piplayer/pkg/errors"
	"github.com/arthur-debert/piplayer/pkg/fragment"
	"github.com/arthur-debert/piplayer/pkg/logging"
	"github.com/arthur-debert/piplayer/pkg/transport"
)

// Batch is an ordered queue of fragments bound to one endpoint. Flush is
// terminal: a batch is flushed at most once.
type Batch struct {
	exec      transport.Executor
	endpoint  transport.Endpoint
	fragments []fragment.Fragment
	flushed   bool
	logger    zerolog.Logger
}

// New creates an empty batch for ep.
func New(exec transport.Executor, ep transport.Endpoint) *Batch {
	return &Batch{
		exec:     exec,
		endpoint: ep,
		logger:   logging.GetLogger("batch").With().Str("host", ep.Host).Logger(),
	}
}

// Append queues fragments in execution order. Appending to a flushed batch
// is a programming error.
func (b *Batch) Append(fragments ...fragment.Fragment) {
	if b.flushed {
		panic("batch: append after flush")
	}
	b.fragments = append(b.fragments, fragments...)
}

// Len reports the number of queued fragments.
func (b *Batch) Len() int {
	return len(b.fragments)
}

// Script renders the queued fragments as the script Flush would send.
func (b *Batch) Script() string {
	return fragment.Join(b.fragments)
}

// Flush sends every queued fragment as one script through a single
// Executor call. The queue is cleared whether or not the call succeeds. An
// empty batch completes without contacting the host.
func (b *Batch) Flush(ctx context.Context) error {
	if b.flushed {
		return errors.New(errors.ErrBatchFlushed, "batch already flushed").
			WithDetail("host", b.endpoint.Host)
	}
	b.flushed = true

	script := b.Script()
	count := len(b.fragments)
	b.fragments = nil

	if count == 0 {
		b.logger.Debug().Msg("Nothing queued, skipping flush")
		return nil
	}

	start := time.Now()
	b.logger.Debug().
		Int("fragments", count).
		Int("bytes", len(script)).
		Msg("Flushing command batch")
	b.logger.Trace().Str("script", script).Msg("Batch script")

	if err := b.exec.Execute(ctx, b.endpoint, script); err != nil {
		if errors.IsErrorCode(err, errors.ErrTransport) {
			return err
		}
		return errors.Wrapf(err, errors.ErrTransport, "remote script failed on %s", b.endpoint).
			WithDetail("host", b.endpoint.Host)
	}

	b.logger.Info().
		Int("fragments", count).
		Dur("duration", time.Since(start)).
		Msg("Command batch executed")
	return nil
}
