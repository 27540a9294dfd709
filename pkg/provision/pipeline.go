package provision

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/piplayer/pkg/batch"
	"github.com/arthur-debert/piplayer/pkg/config"
	"github.com/arthur-debert/piplayer/pkg/errors"
	"github.com/arthur-debert/piplayer/pkg/fragment"
	"github.com/arthur-debert/piplayer/pkg/logging"
	"github.com/arthur-debert/piplayer/pkg/transport"
)

// Pipeline provisions one resolved target. It is used for exactly one run.
type Pipeline struct {
	target    config.Target
	endpoint  transport.Endpoint
	batch     *batch.Batch
	syncer    transport.Syncer
	autostart Autostart
	logger    zerolog.Logger
}

// New prepares a pipeline for target, whose Videos must already be the
// concrete local files to provision.
func New(target config.Target, exec transport.Executor, syncer transport.Syncer) (*Pipeline, error) {
	autostart, err := AutostartFor(target.ServiceType)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "cannot provision player").
			WithDetail("host", target.Host)
	}

	ep := EndpointFor(target)
	return &Pipeline{
		target:    target,
		endpoint:  ep,
		batch:     batch.New(exec, ep),
		syncer:    syncer,
		autostart: autostart,
		logger:    logging.WithFields(map[string]interface{}{
			"component": "provision",
			"host":      target.Host,
			"user":      target.User,
		}),
	}, nil
}

// EndpointFor returns the login a target is provisioned through.
func EndpointFor(t config.Target) transport.Endpoint {
	return transport.Endpoint{User: t.User, Host: t.Host, Port: t.Port}
}

// Run executes every step in order and stops at the first failure.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	p.logger.Info().
		Str("service_type", string(p.autostart.Name())).
		Int("videos", len(p.target.Videos)).
		Msg("Provisioning player")

	p.EnsureDependency()
	if err := p.SyncMedia(ctx); err != nil {
		return err
	}
	p.GeneratePlaylist()
	p.InstallAutostart()
	p.Activate()
	if err := p.Flush(ctx); err != nil {
		return err
	}

	p.logger.Info().Dur("duration", time.Since(start)).Msg("Player provisioned")
	return nil
}

// EnsureDependency queues installation of the media player when it is
// missing, and creation of the media directory.
func (p *Pipeline) EnsureDependency() {
	p.batch.Append(
		fragment.Strict(),
		fragment.IfMissing(PlayerPackage,
			aptGet("update"),
			aptGet("-y", "install", fragment.Arg(PlayerPackage)),
		),
		fragment.MkdirAll(fragment.HomeWord(MediaDir)),
	)
}

// aptGet runs apt-get as root without prompts. The script itself arrives on
// stdin, so apt and its maintainer scripts get /dev/null instead.
func aptGet(args ...fragment.Word) fragment.Fragment {
	words := append([]fragment.Word{"DEBIAN_FRONTEND=noninteractive", "apt-get"}, args...)
	return fragment.NoStdin(fragment.Command("sudo", append([]fragment.Word{"env"}, words...)...))
}

// SyncMedia copies each video to the player's media directory. Files that
// already exist there by name are left alone by the syncer.
func (p *Pipeline) SyncMedia(ctx context.Context) error {
	done := logging.LogOperationStart(p.logger, "sync media")
	defer done()

	for _, video := range p.target.Videos {
		if err := p.syncer.Sync(ctx, video, p.endpoint, MediaDir); err != nil {
			if errors.IsErrorCode(err, errors.ErrSync) {
				return err
			}
			return errors.Wrapf(err, errors.ErrSync, "failed to copy %s to %s", video, p.endpoint).
				WithDetail("host", p.target.Host).
				WithDetail("file", video)
		}
		p.logger.Debug().Str("file", video).Msg("Video synced")
	}
	return nil
}

// GeneratePlaylist queues a full rewrite of the playlist, one remote video
// path per line in video order.
func (p *Pipeline) GeneratePlaylist() {
	entries := make([]fragment.Word, 0, len(p.target.Videos))
	for _, video := range p.target.Videos {
		entries = append(entries, fragment.HomeWord(RemoteVideoPath(video)))
	}
	p.batch.Append(fragment.WriteLines(fragment.HomeWord(PlaylistFile), entries...))
}

// InstallAutostart queues the boot hook of the target's service type.
func (p *Pipeline) InstallAutostart() {
	p.autostart.Install(p.batch, InvocationFor(p.target))
}

// Activate queues the restart of playback.
func (p *Pipeline) Activate() {
	p.autostart.Activate(p.batch)
}

// Flush sends every queued command to the player in one remote script.
func (p *Pipeline) Flush(ctx context.Context) error {
	return p.batch.Flush(ctx)
}

// Script returns the commands queued so far, as Flush would send them.
func (p *Pipeline) Script() string {
	return p.batch.Script()
}
