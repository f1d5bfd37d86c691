package main

import (
	"fmt"

	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"
)

var manCmd = &cobra.Command{
	Use:                   "man",
	Short:                 "Generates manpages",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Hidden:                true,
	Args:                  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		manPage, err := mcobra.NewManPage(1, cmd.Root())
		if err != nil {
			return err
		}

		manPage = manPage.WithSection("Files", "The emoji cache is stored as cache.bin in the per-user cache directory. "+
			"Delete it, or run emorand cache rebuild, if it is reported as corrupted.")
		manPage = manPage.WithSection("Copyright", "Released under the GNU Affero General Public License v3 or later.")
		fmt.Fprintln(cmd.OutOrStdout(), manPage.Build(roff.NewDocument()))
		return nil
	},
}
