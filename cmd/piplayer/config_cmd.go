package piplayer

import (
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/piplayer/pkg/config"
	"github.com/arthur-debert/piplayer/pkg/errors"
	"github.com/arthur-debert/piplayer/pkg/media"
)

// resolvedProject is the document printed by the config command. It reads
// back as a project file.
type resolvedProject struct {
	Players []config.Target `yaml:"players" toml:"players"`
}

func newConfigCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config [videos...]",
		Short: MsgConfigShort,
		Long:  MsgConfigLong,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := resolveTargets(opts, args)
			if err != nil {
				return err
			}

			resolver := media.NewResolver(nil)
			doc := resolvedProject{Players: make([]config.Target, 0, len(targets))}
			for _, t := range targets {
				files, err := resolver.Resolve(t.Videos)
				if err != nil {
					return err
				}
				doc.Players = append(doc.Players, t.WithVideos(files))
			}

			out, err := marshalProject(doc, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", MsgFlagFormat)
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "toml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func marshalProject(doc resolvedProject, format string) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch format {
	case "yaml", "yml":
		out, err = yaml.Marshal(doc)
	case "toml":
		out, err = toml.Marshal(doc)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, MsgErrFormat, format)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render players")
	}
	return out, nil
}
