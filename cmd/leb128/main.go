package main

import (
	"os"

	"github.com/go-delve/leb128/cmd/leb128/cmds"
)

func main() {
	if err := cmds.New().Execute(); err != nil {
		os.Exit(1)
	}
}
