package assets

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sigset/quotick/catalog"
	"github.com/sigset/quotick/cmd/common"
)

const (
	usage   = "assets [pattern]"
	short   = "List the assets of a directory"
	long    = "This command lists the assets stored under a directory, optionally filtered by a glob pattern such as 'BTC*' or '{AAPL,MSFT}'."
	example = "quotick assets 'BTC*' --dir <path>"
)

var (
	rootDirPath string

	// Cmd is the assets command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Aliases: []string{"ls"},
		Example: example,
		Args:    cobra.MaximumNArgs(1),
		RunE:    executeAssets,
	}
)

func init() {
	Cmd.Flags().StringVarP(&rootDirPath, "dir", "d", "", common.DirDesc)
}

func executeAssets(cmd *cobra.Command, args []string) error {
	root, err := common.RootDir(rootDirPath)
	if err != nil {
		return err
	}

	var pattern string
	if len(args) > 0 {
		pattern = args[0]
	}

	names, err := catalog.ListAssets(root, pattern)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
