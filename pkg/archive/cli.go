package archive

import (
	"fmt"

	"github.com/travigo/rerdelay/pkg/config"
	"github.com/travigo/rerdelay/pkg/ledger"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:      "export-sqlite",
		Usage:     "Mirror the raw ledgers into a SQLite database",
		ArgsUsage: "[raw ledger csv...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Value: "data/rer_raw.sqlite",
				Usage: "path of the SQLite database, created when missing",
			},
		},
		Action: func(c *cli.Context) error {
			settings, err := config.Load(c.String("config"), config.Overrides{}, false)
			if err != nil {
				return err
			}

			rawFiles := c.Args().Slice()
			if len(rawFiles) == 0 {
				rawFiles, err = ledger.New(settings).RawFiles()
				if err != nil {
					return err
				}
			}

			written, err := Mirror(c.Context, c.String("db"), rawFiles)
			if err != nil {
				return err
			}

			fmt.Printf("mirrored %d rows from %d ledgers into %s\n", written, len(rawFiles), c.String("db"))

			return nil
		},
	}
}
