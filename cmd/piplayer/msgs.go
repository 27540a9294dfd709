package piplayer

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Provision players to autoplay a video collection"
	MsgConfigShort     = "Print the resolved players without provisioning them"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgDryRunNotice = "DRY RUN MODE - nothing was sent to any player"
	MsgVersion      = "piplayer version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrNoInput        = "You must either specify a --project file or --video AND --host"
	MsgErrBothInputs     = "use either --project or --host/--video, not both"
	MsgErrVideoArgs      = "unexpected arguments %v: extra videos must follow --video"
	MsgErrProjectMissing = "project file %s does not exist"
	MsgErrTransport      = "unknown transport %q (want native, openssh or local)"
	MsgErrFormat         = "unknown format %q (want yaml or toml)"
	MsgErrRunFailed      = "%d of %d players failed"

	// Flag descriptions
	MsgFlagVerbose       = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagProject       = "Project file (YAML or TOML) listing the players"
	MsgFlagHost          = "Player host name or address (repeatable)"
	MsgFlagVideo         = "Video file or glob pattern; further arguments are more videos"
	MsgFlagUserConfig    = "User config file (default $XDG_CONFIG_HOME/piplayer/config.toml)"
	MsgFlagTransport     = "How to reach players: native, openssh or local"
	MsgFlagIdentity      = "Private key file used to log in"
	MsgFlagTimeout       = "Connection timeout"
	MsgFlagStrictHostKey = "Refuse players whose host key is not in known_hosts"
	MsgFlagDryRun        = "Print what would be sent to each player without connecting"
	MsgFlagFormat        = "Output format: yaml or toml"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
