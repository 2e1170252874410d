package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/travigo/rerdelay/pkg/config"
	"github.com/travigo/rerdelay/pkg/ledger"
	"github.com/travigo/rerdelay/pkg/stats/web_api"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the raw and daily ledgers as a read-only JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Value: ":8081",
				Usage: "listen target for the web server",
			},
		},
		Action: func(c *cli.Context) error {
			settings, err := config.Load(c.String("config"), config.Overrides{}, false)
			if err != nil {
				return err
			}

			log.Info().
				Str("listen", c.String("listen")).
				Str("raw", settings.RawDirectory).
				Str("daily", settings.DailyDirectory).
				Msg("Starting stats server")

			return web_api.SetupServer(c.String("listen"), ledger.New(settings))
		},
	}
}
