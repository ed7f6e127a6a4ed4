package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/jusmoore/shipyard/cmd/shipyard/commands"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := commands.Root().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
