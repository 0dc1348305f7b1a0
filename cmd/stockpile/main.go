package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/stockpile-io/stockpile/cmd/stdcli"
)

func main() {
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp: true,
	})

	if os.Getenv("STOCKPILE_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	app := stdcli.New()
	if err := app.Run(os.Args); err != nil {
		stdcli.Error(err)
	}
}
