package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/rerdelay/pkg/archive"
	"github.com/travigo/rerdelay/pkg/ledger"
	"github.com/travigo/rerdelay/pkg/pipeline"
	statscli "github.com/travigo/rerdelay/pkg/stats/cli"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	if os.Getenv("RERDELAY_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if os.Getenv("RERDELAY_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	commands := pipeline.RegisterCLI()
	commands = append(commands,
		ledger.RegisterCLI(),
		archive.RegisterCLI(),
		statscli.RegisterCLI(),
	)

	app := &cli.App{
		Name:        "rerdelay",
		Description: "Polls IDFM estimated timetables and keeps per service day RER delay ledgers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "optional YAML settings file, environment variables take precedence",
				EnvVars: []string{"RERDELAY_CONFIG"},
			},
		},
		Commands: commands,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
