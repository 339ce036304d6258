package catalog

import (
	"fmt"
)

type InvalidAssetName string

func (msg InvalidAssetName) Error() string {
	return errReport("%q: Asset name must be non-empty and must not contain path separators", string(msg))
}

type UnableToCreateDir string

func (msg UnableToCreateDir) Error() string {
	return errReport("%s: Unable to create directory", string(msg))
}

func errReport(base string, msg string) string {
	return fmt.Sprintf(base, msg)
}
