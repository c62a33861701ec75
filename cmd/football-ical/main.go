package main

import (
	"github.com/pfrederiksen/football-ical/internal/cli"
)

var version = "dev"

func main() {
	cli.Version = version
	cli.Execute()
}
