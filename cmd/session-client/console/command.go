package console

import (
	"github.com/spf13/cobra"

	"github.com/uganda-data/session-client/internal/business"
	"github.com/uganda-data/session-client/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"console",
		"Session Client console",
		"Session Client console keeps the session alive and serves the console API on a local address",
		buildInfo,
		cmdutils.RunAsService,
		business.Main,
	)
}
