package main

import (
	"os"

	"github.com/critiqhq/critiq/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
