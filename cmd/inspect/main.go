package inspect

import (
	"fmt"
	"io"

	"code.cloudfoundry.org/bytefmt"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/sigset/quotick"
	"github.com/sigset/quotick/cmd/common"
	"github.com/sigset/quotick/executor"
	"github.com/sigset/quotick/metrics"
	"github.com/sigset/quotick/utils/models"
)

const (
	usage   = "inspect"
	short   = "Summarize the epochs of an asset"
	long    = "This command prints the epochs of an asset with their frame counts, sizes and time bounds, the disk usage of the asset, and any epoch data file on disk that the epoch index does not reference."
	example = "quotick inspect --asset AAPL --dir <path>"

	assetDesc = "set the asset to inspect"
)

var (
	rootDirPath string
	asset       string
	tickType    string

	// Cmd is the inspect command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Aliases: []string{"info"},
		Example: example,
		RunE:    executeInspect,
	}
)

func init() {
	Cmd.Flags().StringVarP(&rootDirPath, "dir", "d", "", common.DirDesc)
	Cmd.Flags().StringVarP(&asset, "asset", "a", "", assetDesc)
	Cmd.Flags().StringVarP(&tickType, "type", "t", common.TradeType, common.TypeDesc)
	_ = Cmd.MarkFlagRequired("asset")
}

func executeInspect(cmd *cobra.Command, _ []string) error {
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
		return inspect[models.Trade](cmd.OutOrStdout(), asset, root, opts...)
	case common.QuoteType:
		return inspect[models.Quote](cmd.OutOrStdout(), asset, root, opts...)
	default:
		return common.UnknownType(tickType)
	}
}

func inspect[T models.Tick](w io.Writer, asset, root string, opts ...quotick.Option) (err error) {
	q, err := quotick.Open[T](asset, root, opts...)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, q.Close())
	}()

	layout := q.Layout()
	ids := q.Epochs()
	fmt.Fprintf(w, "asset:      %s\n", layout.Asset())
	fmt.Fprintf(w, "path:       %s\n", layout.AssetPath())
	fmt.Fprintf(w, "disk usage: %s\n", bytefmt.ByteSize(uint64(metrics.DiskUsage(layout.AssetPath()))))
	fmt.Fprintf(w, "epochs:     %d\n", len(ids))

	indexed := make(map[uint64]bool, len(ids))
	total := 0
	for _, id := range ids {
		indexed[id] = true
		err := q.WithEpoch(id, func(e *executor.Epoch[T]) error {
			total += e.Len()
			fmt.Fprintf(w, "  %-8d frames=%-8d size=%-8s", id, e.Len(), bytefmt.ByteSize(e.DataSize()))
			oldest, err := e.Oldest()
			if err != nil {
				return err
			}
			newest, err := e.Newest()
			if err != nil {
				return err
			}
			if oldest != nil && newest != nil {
				fmt.Fprintf(w, " first=%d last=%d", oldest.Time, newest.Time)
			}
			fmt.Fprintln(w)
			return nil
		})
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "frames:     %d\n", total)

	onDisk, err := layout.EpochFiles()
	if err != nil {
		return err
	}
	for _, id := range onDisk {
		if !indexed[id] {
			fmt.Fprintf(w, "unindexed epoch data file: %s\n", layout.DataFile(id))
		}
	}
	return nil
}
