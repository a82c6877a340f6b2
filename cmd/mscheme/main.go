package main

import (
	"os"

	"github.com/msto63/microscheme/cmd/mscheme/cmd"
	mserror "github.com/msto63/microscheme/pkg/core/error"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(mserror.GetCode(err).ExitCode())
	}
}
