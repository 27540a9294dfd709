// Package media expands local video patterns into the files to provision.
package media

import (
	"github.com/spf13/afero"

	"github.com/arthur-debert/piplayer/pkg/errors"
	"github.com/arthur-debert/piplayer/pkg/logging"
)

// Resolver expands glob patterns against a filesystem.
type Resolver struct {
	fs afero.Fs
}

// NewResolver creates a resolver over fs. A nil fs means the OS filesystem.
func NewResolver(fs afero.Fs) *Resolver {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Resolver{fs: fs}
}

// Resolve expands each pattern in order and concatenates the matches.
// Within a pattern, matches come back in the order the glob yields them.
// A pattern that matches nothing contributes nothing; overlapping patterns
// may list the same file more than once.
func (r *Resolver) Resolve(patterns []string) ([]string, error) {
	logger := logging.GetLogger("media")

	var files []string
	for _, pattern := range patterns {
		matches, err := afero.Glob(r.fs, pattern)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "invalid video pattern %q", pattern).
				WithDetail("pattern", pattern)
		}
		if len(matches) == 0 {
			logger.Warn().Str("pattern", pattern).Msg("Video pattern matched no files")
		}
		files = append(files, matches...)
	}

	logger.Debug().
		Strs("patterns", patterns).
		Int("files", len(files)).
		Msg("Resolved videos")

	return files, nil
}

// ResolveOne is Resolve for a single pattern. A lone pattern is treated as
// a one-element list and never split.
func (r *Resolver) ResolveOne(pattern string) ([]string, error) {
	return r.Resolve([]string{pattern})
}
