// Package web_api serves the ledgers as read-only JSON.
package web_api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/rerdelay/pkg/ledger"
	"github.com/travigo/rerdelay/pkg/stats/web_api/routes"
)

func NewApp(l *ledger.Ledger) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger())

	group := webApp.Group("/stats")

	group.Get("version", routes.APIVersion)

	routes.DaysRouter(group.Group("/days"), l)
	routes.DailyRouter(group.Group("/daily"), l)
	routes.RawRouter(group.Group("/raw"), l)

	return webApp
}

func SetupServer(listen string, l *ledger.Ledger) error {
	return NewApp(l).Listen(listen)
}
