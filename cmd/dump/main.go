package dump

import (
	"io"
	"math"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/sigset/quotick"
	"github.com/sigset/quotick/cmd/common"
	"github.com/sigset/quotick/executor"
	"github.com/sigset/quotick/utils/models"
)

const (
	usage   = "dump"
	short   = "Write the ticks of an asset as CSV"
	long    = "This command writes the ticks stored for an asset to standard output as CSV, in time order. --from and --to limit the output to [from, to)."
	example = "quotick dump --asset AAPL --type quote --from 1600000000000000 --dir <path>"

	assetDesc = "set the asset to dump"
	fromDesc  = "only dump ticks at or after this time, in microseconds"
	toDesc    = "only dump ticks before this time, in microseconds"
)

var (
	rootDirPath string
	asset       string
	tickType    string
	from, to    uint64

	// Cmd is the dump command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Example: example,
		RunE:    executeDump,
	}
)

func init() {
	Cmd.Flags().StringVarP(&rootDirPath, "dir", "d", "", common.DirDesc)
	Cmd.Flags().StringVarP(&asset, "asset", "a", "", assetDesc)
	Cmd.Flags().StringVarP(&tickType, "type", "t", common.TradeType, common.TypeDesc)
	Cmd.Flags().Uint64Var(&from, "from", 0, fromDesc)
	Cmd.Flags().Uint64Var(&to, "to", math.MaxUint64, toDesc)
	_ = Cmd.MarkFlagRequired("asset")
}

func executeDump(cmd *cobra.Command, _ []string) error {
	root, err := common.RootDir(rootDirPath)
	if err != nil {
		return err
	}
	opts, err := common.Options()
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true

	switch tickType {
	case common.TradeType:
		return dump[models.Trade](cmd.OutOrStdout(), asset, root, from, to, opts...)
	case common.QuoteType:
		return dump[models.Quote](cmd.OutOrStdout(), asset, root, from, to, opts...)
	default:
		return common.UnknownType(tickType)
	}
}

func dump[T models.Tick](w io.Writer, asset, root string, from, to uint64, opts ...quotick.Option) (err error) {
	q, err := quotick.Open[T](asset, root, opts...)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, q.Close())
	}()

	var rows []T
	err = q.Range(from, to, func(f *executor.Frame[T]) bool {
		rows = append(rows, *f.Value)
		return true
	})
	if err != nil {
		return err
	}
	return gocsv.Marshal(&rows, w)
}
