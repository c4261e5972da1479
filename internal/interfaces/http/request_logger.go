package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Mihigojordan/Abysphere-sub003/pkg/logger"
)

// RequestLogger registra una línea por petición con método, ruta, status y latencia.
func RequestLogger(log *logger.Logger) fiber.Handler {
	l := log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := l.Info()
		switch {
		case status >= 500:
			ev = l.Error().Err(err)
		case status >= 400:
			ev = l.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Str("admin_id", GetAdminID(c)).
			Msg("request")
		return err
	}
}
