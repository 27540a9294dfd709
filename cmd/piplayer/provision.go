package piplayer

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/piplayer/pkg/errors"
	"github.com/arthur-debert/piplayer/pkg/logging"
	"github.com/arthur-debert/piplayer/pkg/orchestration"
	"github.com/arthur-debert/piplayer/pkg/style"
	"github.com/arthur-debert/piplayer/pkg/transport"
	"github.com/arthur-debert/piplayer/pkg/transport/local"
	"github.com/arthur-debert/piplayer/pkg/transport/native"
	"github.com/arthur-debert/piplayer/pkg/transport/openssh"
	"github.com/arthur-debert/piplayer/pkg/transport/preview"
)

const (
	transportNative  = "native"
	transportOpenSSH = "openssh"
	transportLocal   = "local"
)

// newTransport builds the transport selected by the flags. Dry runs always
// use the preview transport, writing to out.
func newTransport(opts *options, out io.Writer) (transport.Transport, error) {
	if opts.dryRun {
		return preview.New(out), nil
	}

	switch opts.transport {
	case transportNative:
		var ids []string
		if opts.identity != "" {
			ids = []string{opts.identity}
		}
		return native.New(native.Config{
			ConnectTimeout: opts.timeout,
			IdentityFiles:  ids,
			StrictHostKey:  opts.strictHostKey,
		}), nil
	case transportOpenSSH:
		return openssh.New(openssh.Config{
			ConnectTimeout: opts.timeout,
			Identity:       opts.identity,
			StrictHostKey:  opts.strictHostKey,
		}), nil
	case transportLocal:
		return local.New()
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, MsgErrTransport, opts.transport).
			WithDetail("transport", opts.transport)
	}
}

func isPlain(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return true
	}
	return style.IsPlain(f)
}

func statusFor(r orchestration.Result, dryRun bool) style.TargetStatus {
	ts := style.TargetStatus{
		Host:     r.Host,
		Address:  r.Address,
		Status:   style.StatusSuccess,
		Videos:   r.Videos,
		Duration: r.Duration,
		Err:      r.Err,
	}
	switch {
	case r.Err != nil:
		ts.Status = style.StatusError
	case dryRun:
		ts.Status = style.StatusPlanned
	}
	return ts
}

// runProvision provisions every resolved player and reports one line per
// player. It fails when any player failed.
func runProvision(cmd *cobra.Command, opts *options, args []string) error {
	logger := logging.GetLogger("cmd.provision")
	out := cmd.OutOrStdout()

	targets, err := resolveTargets(opts, args)
	if err != nil {
		return err
	}

	tr, err := newTransport(opts, out)
	if err != nil {
		return err
	}
	defer func() {
		if err := tr.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close transport")
		}
	}()

	renderer := style.NewRenderer(isPlain(out))
	orch := orchestration.New(tr, orchestration.WithProgress(func(r orchestration.Result) {
		fmt.Fprintln(out, renderer.RenderTarget(statusFor(r, opts.dryRun)))
	}))

	logger.Info().
		Str("run_id", orch.RunID()).
		Str("transport", opts.transport).
		Bool("dry_run", opts.dryRun).
		Int("targets", len(targets)).
		Msg("Provisioning")

	report, err := orch.Run(cmd.Context(), targets)
	if err != nil {
		return err
	}

	failed := len(report.Failed())
	if opts.dryRun {
		fmt.Fprintln(out, MsgDryRunNotice)
	} else {
		fmt.Fprintln(out, renderer.RenderSummary(len(report.Results), failed))
	}

	if failed > 0 {
		return errors.Newf(errors.ErrProvisionFailed, MsgErrRunFailed, failed, len(report.Results)).
			WithDetail("run_id", report.RunID)
	}
	return nil
}
