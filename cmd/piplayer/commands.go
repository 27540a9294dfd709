package piplayer

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/piplayer/internal/version"
	"github.com/arthur-debert/piplayer/pkg/logging"
	"github.com/arthur-debert/piplayer/pkg/transport"
)

// options holds every flag of a piplayer invocation.
type options struct {
	verbosity     int
	project       string
	hosts         []string
	videos        []string
	userConfig    string
	transport     string
	identity      string
	timeout       time.Duration
	strictHostKey bool
	dryRun        bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "piplayer [flags] [videos...]",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProvision(cmd, opts, args)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Input flags are shared with the config command
	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	pf.StringVarP(&opts.project, "project", "p", "", MsgFlagProject)
	pf.StringSliceVarP(&opts.hosts, "host", "H", nil, MsgFlagHost)
	pf.StringArrayVar(&opts.videos, "video", nil, MsgFlagVideo)
	pf.StringVar(&opts.userConfig, "user-config", "", MsgFlagUserConfig)

	f := rootCmd.Flags()
	f.StringVarP(&opts.transport, "transport", "t", transportNative, MsgFlagTransport)
	f.StringVarP(&opts.identity, "identity", "i", "", MsgFlagIdentity)
	f.DurationVar(&opts.timeout, "timeout", transport.DefaultConnectTimeout, MsgFlagTimeout)
	f.BoolVar(&opts.strictHostKey, "strict-host-key", false, MsgFlagStrictHostKey)
	f.BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)

	_ = rootCmd.RegisterFlagCompletionFunc("transport", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{transportNative, transportOpenSSH, transportLocal}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.MarkPersistentFlagFilename("project", "yaml", "yml", "toml")

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersion, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
