package main

import (
	"os"

	"github.com/xiaot623/callbuddy/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
