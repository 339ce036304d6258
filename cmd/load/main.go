package load

import (
	"errors"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/sigset/quotick"
	"github.com/sigset/quotick/cmd/common"
	"github.com/sigset/quotick/executor"
	"github.com/sigset/quotick/utils/log"
	"github.com/sigset/quotick/utils/models"
)

const (
	usage   = "load"
	short   = "Load ticks from a CSV file into an asset"
	long    = "This command reads trades or quotes from a CSV file with a header row and inserts them into an asset. Ticks whose time is already stored are skipped."
	example = "quotick load --asset AAPL --type trade --file trades.csv --dir <path>"

	assetDesc = "set the asset to load into"
	fileDesc  = "set the path of the CSV file to load"
)

var (
	rootDirPath string
	asset       string
	tickType    string
	csvFilePath string

	// Cmd is the load command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Example: example,
		RunE:    executeLoad,
	}
)

func init() {
	Cmd.Flags().StringVarP(&rootDirPath, "dir", "d", "", common.DirDesc)
	Cmd.Flags().StringVarP(&asset, "asset", "a", "", assetDesc)
	Cmd.Flags().StringVarP(&tickType, "type", "t", common.TradeType, common.TypeDesc)
	Cmd.Flags().StringVarP(&csvFilePath, "file", "f", "", fileDesc)
	_ = Cmd.MarkFlagRequired("asset")
	_ = Cmd.MarkFlagRequired("file")
}

func executeLoad(cmd *cobra.Command, _ []string) error {
	root, err := common.RootDir(rootDirPath)
	if err != nil {
		return err
	}
	opts, err := common.Options()
	if err != nil {
		return err
	}

	fp, err := os.Open(csvFilePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", csvFilePath, err)
	}
	defer fp.Close()

	cmd.SilenceUsage = true

	var n int
	switch tickType {
	case common.TradeType:
		n, err = load[models.Trade](fp, asset, root, opts...)
	case common.QuoteType:
		n, err = load[models.Quote](fp, asset, root, opts...)
	default:
		return common.UnknownType(tickType)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "loaded %d ticks into %s\n", n, asset)
	return nil
}

// load inserts every row of fp into asset and returns how many were stored.
func load[T models.Tick](fp *os.File, asset, root string, opts ...quotick.Option) (n int, err error) {
	var ticks []T
	if err := gocsv.UnmarshalFile(fp, &ticks); err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", fp.Name(), err)
	}

	q, err := quotick.Open[T](asset, root, opts...)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = multierr.Append(err, q.Close())
	}()

	for _, tick := range ticks {
		err := q.InsertTick(tick)
		switch {
		case err == nil:
			n++
		case errors.Is(err, executor.ErrFrameConflict), errors.Is(err, executor.ErrFrameTooBig):
			log.Warn("skipping tick at %d: %v", tick.Time(), err)
		default:
			return n, err
		}
	}
	return n, nil
}
