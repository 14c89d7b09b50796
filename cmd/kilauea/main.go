package main

import (
	"os"

	"github.com/couchcryptid/kilauea-seismicity/internal/cli"
)

func main() {
	os.Exit(int(cli.Run()))
}
