package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/rerdelay/pkg/ctdf"
	"github.com/travigo/rerdelay/pkg/ledger"
	"github.com/travigo/rerdelay/pkg/util"
)

func DailyRouter(router fiber.Router, l *ledger.Ledger) {
	router.Get("/:day", func(c *fiber.Ctx) error {
		return getDaily(c, l)
	})
}

func RawRouter(router fiber.Router, l *ledger.Ledger) {
	router.Get("/:day", func(c *fiber.Ctx) error {
		return getRaw(c, l)
	})
}

func getDaily(c *fiber.Ctx, l *ledger.Ledger) error {
	day, ok := parseServiceDay(c)
	if !ok {
		return c.JSON(fiber.Map{
			"error": "Service day must be formatted YYYY-MM-DD",
		})
	}

	lineCode, ok := parseLineFilter(c)
	if !ok {
		return c.JSON(fiber.Map{
			"error": "Line must be one of RER A to RER E",
		})
	}
	stopID := c.Query("stop")

	bins, err := ledger.ReadDaily(l.DailyPath(l.RawPath(day)))
	if err != nil {
		return sendLedgerError(c, err)
	}

	util.InPlaceFilter(&bins, func(bin ctdf.DailyBin) bool {
		return (lineCode == "" || bin.LineCode == lineCode) && (stopID == "" || bin.StopID == stopID)
	})
	if bins == nil {
		bins = []ctdf.DailyBin{}
	}

	return c.JSON(bins)
}

func getRaw(c *fiber.Ctx, l *ledger.Ledger) error {
	day, ok := parseServiceDay(c)
	if !ok {
		return c.JSON(fiber.Map{
			"error": "Service day must be formatted YYYY-MM-DD",
		})
	}

	lineCode, ok := parseLineFilter(c)
	if !ok {
		return c.JSON(fiber.Map{
			"error": "Line must be one of RER A to RER E",
		})
	}
	stopID := c.Query("stop")

	rows, err := ledger.ReadRaw(l.RawPath(day))
	if err != nil {
		return sendLedgerError(c, err)
	}

	util.InPlaceFilter(&rows, func(row ctdf.PollSummary) bool {
		return (lineCode == "" || row.LineCode == lineCode) && (stopID == "" || row.StopID == stopID)
	})
	if rows == nil {
		rows = []ctdf.PollSummary{}
	}

	return c.JSON(rows)
}

// parseLineFilter accepts any spelling of a line code the poller accepts, eg. "rer b"
func parseLineFilter(c *fiber.Ctx) (string, bool) {
	line := c.Query("line")
	if line == "" {
		return "", true
	}

	canonical, ok := ctdf.CanonicalLineCode(line)
	if !ok {
		c.Status(fiber.StatusBadRequest)
	}
	return canonical, ok
}
