// Package common holds the flag handling shared by the subcommands.
package common

import (
	"errors"
	"fmt"

	"github.com/sigset/quotick"
	"github.com/sigset/quotick/utils"
)

const (
	TradeType = "trade"
	QuoteType = "quote"

	DirDesc  = "set the directory holding the assets, overrides root_directory of the config file"
	TypeDesc = "set the tick type stored by the asset, one of trade|quote"
)

// RootDir returns dir, falling back to the root directory of the loaded config.
func RootDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	if utils.InstanceConfig.RootDirectory != "" {
		return utils.InstanceConfig.RootDirectory, nil
	}
	return "", errors.New("no directory given: pass --dir or a config file with root_directory")
}

// Options returns the store options of the loaded config. Without a config
// the store defaults apply.
func Options() ([]quotick.Option, error) {
	if utils.InstanceConfig.RootDirectory == "" {
		return nil, nil
	}
	return quotick.OptionsFromConfig(&utils.InstanceConfig)
}

// UnknownType is returned for a --type value other than trade or quote.
func UnknownType(tickType string) error {
	return fmt.Errorf("unknown tick type %q, expected %s or %s", tickType, TradeType, QuoteType)
}
