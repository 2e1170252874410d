package ledger

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/travigo/rerdelay/pkg/config"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:      "rebuild",
		Usage:     "Recompute daily summaries from raw ledgers",
		ArgsUsage: "[raw ledger csv...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "rebuild every raw ledger in the raw directory",
			},
			&cli.IntFlag{
				Name:  "bin-sec",
				Usage: "width of the daily summary buckets in seconds",
			},
			&cli.IntFlag{
				Name:  "workers",
				Value: defaultRebuildWorkers,
				Usage: "number of service days rebuilt concurrently",
			},
		},
		Action: func(c *cli.Context) error {
			settings, err := config.Load(c.String("config"), config.Overrides{BinSeconds: c.Int("bin-sec")}, false)
			if err != nil {
				return err
			}

			ledger := New(settings)

			rawPaths := c.Args().Slice()
			if c.Bool("all") {
				rawPaths, err = ledger.RawFiles()
				if err != nil {
					return err
				}
			}
			if len(rawPaths) == 0 {
				return errors.New("no raw ledgers given, pass paths or --all")
			}

			dailyPaths, err := ledger.RebuildAll(rawPaths, settings.BinWidth(), c.Int("workers"))
			for _, dailyPath := range dailyPaths {
				fmt.Printf("daily: %s\n", dailyPath)
			}
			if err != nil {
				return err
			}

			log.Info().Int("files", len(dailyPaths)).Msg("Rebuild complete")

			return nil
		},
	}
}
