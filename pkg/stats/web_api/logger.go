package web_api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

func NewLogger() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		startTime := time.Now()
		err = c.Next()

		msg := "HTTP Request"
		if err != nil {
			msg = err.Error()
			// let fiber's error handler set the status before it is logged
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				c.Status(fiber.StatusInternalServerError)
			}
		}

		code := c.Response().StatusCode()

		requestLogger := log.With().
			Int("status", code).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("query", string(c.Request().URI().QueryString())).
			Str("ip", c.IP()).
			Dur("latency", time.Since(startTime)).
			Logger()

		switch {
		case code >= fiber.StatusBadRequest && code < fiber.StatusInternalServerError:
			requestLogger.Warn().Msg(msg)
		case code >= fiber.StatusInternalServerError:
			requestLogger.Error().Msg(msg)
		default:
			requestLogger.Debug().Msg(msg)
		}

		return nil
	}
}
