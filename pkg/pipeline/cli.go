package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/kr/pretty"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/travigo/rerdelay/pkg/config"
	"github.com/travigo/rerdelay/pkg/ctdf"
	"github.com/travigo/rerdelay/pkg/siri_et"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "poll",
			Usage: "Run a single poll cycle and update the raw and daily ledgers",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "bin-sec",
					Usage: "width of the daily summary buckets in seconds",
				},
			},
			Action: func(c *cli.Context) error {
				settings, err := config.Load(c.String("config"), config.Overrides{BinSeconds: c.Int("bin-sec")}, true)
				if err != nil {
					return err
				}

				result, err := NewPoller(settings).RunOnce(c.Context)
				if err != nil {
					return err
				}

				fmt.Printf("raw: %s\n", displayPath(result.RawPath))
				fmt.Printf("daily: %s\n", displayPath(result.DailyPath))

				return nil
			},
		},
		{
			Name:  "watch",
			Usage: "Poll continuously until interrupted",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "bin-sec",
					Usage: "width of the daily summary buckets in seconds",
				},
				&cli.DurationFlag{
					Name:  "interval",
					Value: time.Minute,
					Usage: "time between the start of two poll cycles",
				},
				&cli.StringFlag{
					Name:  "metrics-listen",
					Usage: "listen target for the prometheus metrics endpoint, disabled when empty",
				},
			},
			Action: func(c *cli.Context) error {
				settings, err := config.Load(c.String("config"), config.Overrides{BinSeconds: c.Int("bin-sec")}, true)
				if err != nil {
					return err
				}

				interval := c.Duration("interval")
				if interval <= 0 {
					return errors.New("interval must be positive")
				}

				ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				if listen := c.String("metrics-listen"); listen != "" {
					go serveMetrics(ctx, listen)
				}

				return NewPoller(settings).Watch(ctx, interval)
			},
		},
		{
			Name:  "flatten",
			Usage: "Flatten a saved estimated timetable payload and print its stop calls",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "file",
					Usage:    "path to the saved JSON payload",
					Required: true,
				},
				&cli.BoolFlag{
					Name:  "all",
					Usage: "print every stop call instead of only those kept by the line and lead time filter",
				},
			},
			Action: func(c *cli.Context) error {
				settings, err := config.Load(c.String("config"), config.Overrides{}, false)
				if err != nil {
					return err
				}

				body, err := os.ReadFile(c.String("file"))
				if err != nil {
					return err
				}

				siri, err := siri_et.Decode(body)
				if err != nil {
					return err
				}

				events := siri_et.Flatten(siri)
				flattened := len(events)
				if !c.Bool("all") {
					events = FilterEvents(events, settings.Lines, settings.LeadTimeHorizon())
				}

				for _, event := range events {
					pretty.Println(newEventView(event, settings.Location()))
				}

				log.Info().Int("flattened", flattened).Int("printed", len(events)).Msg("Flattened payload")

				return nil
			},
		},
	}
}

func serveMetrics(ctx context.Context, listen string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: listen, Handler: mux}

	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	log.Info().Str("listen", listen).Msg("Serving metrics")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("Metrics server stopped")
	}
}

func displayPath(path string) string {
	if path == "" {
		return "none"
	}
	return path
}

type eventView struct {
	Stop        string
	StopName    string
	Line        string
	Direction   string
	Destination string
	Journey     string

	Snapshot  string
	Scheduled string
	Observed  string

	Delay string
	Lead  string
}

func newEventView(event ctdf.ArrivalEvent, location *time.Location) eventView {
	return eventView{
		Stop:        event.StopID,
		StopName:    event.StopName,
		Line:        event.LineCode,
		Direction:   event.Direction,
		Destination: event.Destination,
		Journey:     event.VehicleJourneyID,
		Snapshot:    formatTime(event.SnapshotTime, location),
		Scheduled:   formatTime(event.ScheduledTime, location),
		Observed:    formatTime(event.ObservedTime, location),
		Delay:       formatSeconds(event.DelaySeconds),
		Lead:        formatSeconds(event.LeadTimeSeconds),
	}
}

func formatTime(t *time.Time, location *time.Location) string {
	if t == nil {
		return "-"
	}
	return t.In(location).Format(ctdf.XSDDateTimeFormat)
}

func formatSeconds(seconds *float64) string {
	if seconds == nil {
		return "-"
	}
	return strconv.FormatFloat(*seconds, 'f', -1, 64) + "s"
}
