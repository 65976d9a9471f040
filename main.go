package main

import (
	"os"

	"github.com/sadopc/efficia/internal/cli"
)

var version = "dev"

func main() {
	os.Exit(cli.Execute(version))
}
