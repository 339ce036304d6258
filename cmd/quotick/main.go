package main

import (
	"os"

	"github.com/sigset/quotick/cmd"
	"github.com/sigset/quotick/utils/log"
)

func main() {
	err := cmd.Execute()
	log.Sync()
	if err != nil {
		os.Exit(1)
	}
}
