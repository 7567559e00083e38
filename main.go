package main

import (
	"os"

	"vacationblog/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
