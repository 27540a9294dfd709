package piplayer

import (
	"os"

	"github.com/arthur-debert/piplayer/pkg/config"
	"github.com/arthur-debert/piplayer/pkg/errors"
	"github.com/arthur-debert/piplayer/pkg/logging"
)

// loadProject turns the input flags into a project. Positional arguments
// are further videos for --video.
func loadProject(opts *options, args []string) (*config.Project, error) {
	logger := logging.GetLogger("cmd.input")

	videos := append(append([]string(nil), opts.videos...), args...)
	if len(args) > 0 && len(opts.videos) == 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, MsgErrVideoArgs, args)
	}

	fromFlags := len(opts.hosts) > 0 || len(videos) > 0
	switch {
	case opts.project != "" && fromFlags:
		return nil, errors.New(errors.ErrInvalidInput, MsgErrBothInputs)

	case opts.project != "":
		if _, err := os.Stat(opts.project); err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, MsgErrProjectMissing, opts.project).
				WithDetail("path", opts.project)
		}
		logger.Debug().Str("project", opts.project).Msg("Using project file")
		return config.LoadProject(opts.project)

	case len(opts.hosts) > 0 && len(videos) > 0:
		logger.Debug().Strs("hosts", opts.hosts).Strs("videos", videos).Msg("Using command line players")
		return config.ProjectFromHosts(opts.hosts, videos), nil

	default:
		return nil, errors.New(errors.ErrNoInput, MsgErrNoInput)
	}
}

// resolveTargets loads the project and merges every settings layer.
func resolveTargets(opts *options, args []string) ([]config.Target, error) {
	project, err := loadProject(opts, args)
	if err != nil {
		return nil, err
	}
	return config.Resolve(project, config.Options{UserConfig: opts.userConfig})
}
