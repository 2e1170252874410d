package routes

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/travigo/rerdelay/pkg/ctdf"
	"github.com/travigo/rerdelay/pkg/ledger"
	"golang.org/x/exp/slices"
)

type serviceDay struct {
	Day   string `json:"day"`
	Raw   bool   `json:"raw"`
	Daily bool   `json:"daily"`
}

func DaysRouter(router fiber.Router, l *ledger.Ledger) {
	router.Get("/", func(c *fiber.Ctx) error {
		return listDays(c, l)
	})
}

func listDays(c *fiber.Ctx, l *ledger.Ledger) error {
	rawFiles, err := l.RawFiles()
	if err != nil {
		return err
	}
	dailyFiles, err := l.DailyFiles()
	if err != nil {
		return err
	}

	days := map[string]*serviceDay{}
	lookup := func(path string) *serviceDay {
		day, _ := ledger.ServiceDayFromPath(path)
		if days[day] == nil {
			days[day] = &serviceDay{Day: day}
		}
		return days[day]
	}

	for _, path := range rawFiles {
		lookup(path).Raw = true
	}
	for _, path := range dailyFiles {
		lookup(path).Daily = true
	}

	list := []serviceDay{}
	for _, day := range days {
		list = append(list, *day)
	}
	slices.SortFunc(list, func(a, b serviceDay) int {
		return strings.Compare(a.Day, b.Day)
	})

	return c.JSON(list)
}

// parseServiceDay validates the :day parameter, it is used to build file paths
func parseServiceDay(c *fiber.Ctx) (string, bool) {
	day := c.Params("day")
	if _, err := time.Parse(ctdf.ServiceDayFormat, day); err != nil {
		c.Status(fiber.StatusBadRequest)
		return "", false
	}
	return day, true
}

func sendLedgerError(c *fiber.Ctx, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		c.Status(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "No ledger for this service day",
		})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("Failed to read ledger")
	c.Status(fiber.StatusInternalServerError)
	return c.JSON(fiber.Map{
		"error": "Failed to read ledger",
	})
}
