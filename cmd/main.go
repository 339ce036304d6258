package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sigset/quotick/cmd/assets"
	"github.com/sigset/quotick/cmd/dump"
	"github.com/sigset/quotick/cmd/inspect"
	"github.com/sigset/quotick/cmd/load"
	"github.com/sigset/quotick/utils"
	"github.com/sigset/quotick/utils/log"
)

const configDesc = "set the path for the quotick YAML configuration file"

var (
	// flagPrintVersion set flag to show current quotick version.
	flagPrintVersion bool
	// configFilePath is optional; subcommands fall back to their flags without it.
	configFilePath string
)

// Execute builds the command tree and executes commands.
func Execute() error {
	c := &cobra.Command{
		Use:               "quotick",
		Short:             "Inspect and maintain quotick tick stores",
		PersistentPreRunE: readConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagPrintVersion {
				log.Info("version: %+v", utils.Tag)
				log.Info("commit hash: %+v", utils.GitHash)
				log.Info("utc build time: %+v", utils.BuildStamp)
				return nil
			}
			return cmd.Usage()
		},
	}

	c.AddCommand(load.Cmd)
	c.AddCommand(dump.Cmd)
	c.AddCommand(inspect.Cmd)
	c.AddCommand(assets.Cmd)
	c.Flags().BoolVarP(&flagPrintVersion, "version", "v", false, "show the version info and exit")
	c.PersistentFlags().StringVarP(&configFilePath, "config", "c", "", configDesc)

	return c.Execute()
}

func readConfig(*cobra.Command, []string) error {
	if configFilePath == "" {
		return nil
	}
	if _, err := utils.ReadConfigFile(configFilePath); err != nil {
		return fmt.Errorf("failed to read configuration file error: %w", err)
	}
	log.Info("using %v for configuration", configFilePath)
	return nil
}
