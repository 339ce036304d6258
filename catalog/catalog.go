// Package catalog names the files that make up an asset on disk:
//
//	<base>/<asset>/epochs.qti        epoch index snapshot
//	<base>/<asset>/epoch/<id>.qtf    epoch data file
//	<base>/<asset>/epoch/<id>.qti    epoch frame index snapshot
package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	"github.com/sigset/quotick/utils/log"
)

const (
	epochDirName       = "epoch"
	epochIndexFileName = "epochs.qti"
	dataFileExt        = ".qtf"
	indexFileExt       = ".qti"
)

type Layout struct {
	base  string
	asset string
}

// NewLayout validates the asset name and derives the asset's paths under base.
func NewLayout(base, asset string) (*Layout, error) {
	if asset == "" || asset == "." || asset == ".." ||
		strings.ContainsAny(asset, `/\`) || strings.ContainsRune(asset, os.PathSeparator) {
		return nil, InvalidAssetName(asset)
	}
	return &Layout{
		base:  filepath.Clean(base),
		asset: asset,
	}, nil
}

func (l *Layout) Base() string {
	return l.base
}

func (l *Layout) Asset() string {
	return l.asset
}

func (l *Layout) AssetPath() string {
	return filepath.Join(l.base, l.asset)
}

func (l *Layout) EpochPath() string {
	return filepath.Join(l.AssetPath(), epochDirName)
}

func (l *Layout) DataFile(epoch uint64) string {
	return filepath.Join(l.EpochPath(), strconv.FormatUint(epoch, 10)+dataFileExt)
}

func (l *Layout) IndexFile(epoch uint64) string {
	return filepath.Join(l.EpochPath(), strconv.FormatUint(epoch, 10)+indexFileExt)
}

func (l *Layout) EpochIndexFile() string {
	return filepath.Join(l.AssetPath(), epochIndexFileName)
}

// Init creates the asset directories when they do not exist yet.
func (l *Layout) Init() error {
	if err := os.MkdirAll(l.EpochPath(), 0o700); err != nil {
		return errors.Wrap(UnableToCreateDir(l.EpochPath()), err.Error())
	}
	return nil
}

// EpochFiles lists the ids of the epoch data files present on disk in
// ascending order, whether or not the epoch index knows about them.
func (l *Layout) EpochFiles() ([]uint64, error) {
	entries, err := os.ReadDir(l.EpochPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read dir %s", l.EpochPath())
	}

	var ids []uint64
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != dataFileExt {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimSuffix(name, dataFileExt), 10, 64)
		if err != nil {
			log.Warn("ignoring unexpected file %s in %s", name, l.EpochPath())
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// ListAssets returns the names of the assets under base whose name matches the
// glob pattern. An empty pattern matches every asset. A directory counts as an
// asset once it holds an epoch index file.
func ListAssets(base, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "compile asset pattern %q", pattern)
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, errors.Wrapf(err, "read dir %s", base)
	}

	var assets []string
	for _, e := range entries {
		if !e.IsDir() || !g.Match(e.Name()) {
			continue
		}
		if !fileExists(filepath.Join(base, e.Name(), epochIndexFileName)) {
			continue
		}
		assets = append(assets, e.Name())
	}
	sort.Strings(assets)
	return assets, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	if err == nil {
		return true
	}
	return !os.IsNotExist(err)
}
