package main

import (
	"os"

	"github.com/edstack/relay/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
