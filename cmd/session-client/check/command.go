package check

import (
	"github.com/spf13/cobra"

	"github.com/uganda-data/session-client/internal/business"
	"github.com/uganda-data/session-client/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"check",
		"Session Client check job",
		"Session Client check job signs in with the configured credentials, renews the session and signs out",
		buildInfo,
		cmdutils.RunAsJob,
		business.CheckMain,
	)
}
